package game

// Difficulty selects the opponent decision model parameters for an enemy.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "EASY"
	DifficultyMedium Difficulty = "MEDIUM"
	DifficultyHard   Difficulty = "HARD"
)

// BossBehavior classifies the final enemy of a run. The tags are currently
// data-carrying only: no resolver branch consumes them. They are kept as a
// declared extension point for floor-wide hazards.
type BossBehavior string

const (
	BossNone      BossBehavior = "NONE"
	BossBurn      BossBehavior = "BURN"
	BossSlime     BossBehavior = "SLIME"
	BossConfusion BossBehavior = "CONFUSION"
)

// Entity is one combatant: the controlled party or a floor enemy. Entities
// persist across floors within a run and are mutated in place by combat.
type Entity struct {
	Name     string       `json:"name"`
	Flavor   string       `json:"flavor,omitempty"`
	MaxHP    int          `json:"max_hp"`
	HP       int          `json:"hp"`
	Shield   int          `json:"shield"`
	Coins    int          `json:"coins"`
	Tier     Difficulty   `json:"tier,omitempty"`
	Behavior BossBehavior `json:"behavior,omitempty"`
}

// ApplyDamage consumes shield first, then HP. HP never drops below zero.
// Returns the shield and HP actually lost.
func (e *Entity) ApplyDamage(amount int) (shieldLost, hpLost int) {
	if amount <= 0 {
		return 0, 0
	}
	shieldLost = amount
	if shieldLost > e.Shield {
		shieldLost = e.Shield
	}
	e.Shield -= shieldLost
	hpLost = amount - shieldLost
	if hpLost > e.HP {
		hpLost = e.HP
	}
	e.HP -= hpLost
	return shieldLost, hpLost
}

// Heal raises HP, capped at MaxHP. Returns the HP actually restored.
func (e *Entity) Heal(amount int) int {
	if amount <= 0 {
		return 0
	}
	healed := amount
	if e.HP+healed > e.MaxHP {
		healed = e.MaxHP - e.HP
	}
	e.HP += healed
	return healed
}

// AddShield raises the shield additively. Shield is uncapped.
func (e *Entity) AddShield(amount int) {
	if amount > 0 {
		e.Shield += amount
	}
}

// AddCoins raises currency additively.
func (e *Entity) AddCoins(amount int) {
	if amount > 0 {
		e.Coins += amount
	}
}

// Alive reports whether the entity still has hit points.
func (e *Entity) Alive() bool { return e.HP > 0 }
