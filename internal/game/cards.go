package game

// EffectKind identifies the combat effect a card pair triggers when matched.
// Using a dedicated type instead of plain string makes code safer and
// self-documenting.
type EffectKind string

const (
	EffectAttackSmall  EffectKind = "attack_small"
	EffectAttackMedium EffectKind = "attack_medium"
	EffectAttackBig    EffectKind = "attack_big"
	EffectHealSmall    EffectKind = "heal_small"
	EffectHealMedium   EffectKind = "heal_medium"
	EffectShield       EffectKind = "shield"
	EffectCoinSmall    EffectKind = "coin_small"
	EffectCoinMedium   EffectKind = "coin_medium"
)

// EffectCategory groups effect kinds by how the resolver applies them.
type EffectCategory string

const (
	CategoryAttack EffectCategory = "attack"
	CategoryHeal   EffectCategory = "heal"
	CategoryShield EffectCategory = "shield"
	CategoryCoin   EffectCategory = "coin"
)

// Category returns the resolver category for an effect kind.
func (e EffectKind) Category() EffectCategory {
	switch e {
	case EffectAttackSmall, EffectAttackMedium, EffectAttackBig:
		return CategoryAttack
	case EffectHealSmall, EffectHealMedium:
		return CategoryHeal
	case EffectShield:
		return CategoryShield
	default:
		return CategoryCoin
	}
}

// Card is a single board position. ID is a unique identity token assigned
// when the board is built; Matched cards are immutable until the board is
// replaced.
type Card struct {
	ID       string     `json:"id"`
	Effect   EffectKind `json:"effect"`
	Flipped  bool       `json:"flipped"`
	Matched  bool       `json:"matched"`
	Slimed   bool       `json:"slimed"`
	Wildcard bool       `json:"wildcard"`
}

// Matches reports whether two cards form a pair. A wildcard substitutes for
// any partner.
func (c Card) Matches(other Card) bool {
	if c.Wildcard || other.Wildcard {
		return true
	}
	return c.Effect == other.Effect
}

// Board is the ordered card sequence for one floor. It is regenerated
// wholesale on floor start and full-clear reshuffle, never edited in place.
type Board []Card

// AllMatched reports whether every card on the board has been matched.
func (b Board) AllMatched() bool {
	for i := range b {
		if !b[i].Matched {
			return false
		}
	}
	return len(b) > 0
}

// UnmatchedPositions returns the positions still in play.
func (b Board) UnmatchedPositions() []int {
	out := make([]int, 0, len(b))
	for i := range b {
		if !b[i].Matched {
			out = append(out, i)
		}
	}
	return out
}
