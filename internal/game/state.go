package game

// GameState is the turn/game state machine phase of a combat.
type GameState string

const (
	StateLoading          GameState = "LOADING"
	StatePartyTurn        GameState = "PARTY_TURN"
	StateOpponentThinking GameState = "OPPONENT_THINKING"
	StateOpponentActing   GameState = "OPPONENT_ACTING"
	StateFloorComplete    GameState = "FLOOR_COMPLETE"
	StateRunVictory       GameState = "RUN_VICTORY"
	StateRunDefeat        GameState = "RUN_DEFEAT"
	// StateMerchant is reserved for the shop screen. The core never
	// transitions into it; only an external trigger may.
	StateMerchant GameState = "MERCHANT"
)

// Terminal reports whether the state ends the run.
func (s GameState) Terminal() bool {
	return s == StateRunVictory || s == StateRunDefeat
}

// Side identifies which combatant performed an action.
type Side string

const (
	SideParty    Side = "party"
	SideOpponent Side = "opponent"
)

// EventCategory tags narrated log entries so the client can style them.
type EventCategory string

const (
	EventInfo   EventCategory = "info"
	EventPlayer EventCategory = "player"
	EventEnemy  EventCategory = "enemy"
	EventHeal   EventCategory = "heal"
	EventBurn   EventCategory = "burn"
	EventItem   EventCategory = "item"
)

// Event is one entry of the append-only narrated combat log.
type Event struct {
	Seq      int           `json:"seq"`
	Message  string        `json:"message"`
	Category EventCategory `json:"category"`
}

// MoveOutcome is one symbol of the shareable result string: every resolved
// flip pair appends exactly one outcome.
type MoveOutcome string

const (
	OutcomePartyMatch MoveOutcome = "🟢"
	OutcomePartyMiss  MoveOutcome = "⚪"
	OutcomeEnemyMatch MoveOutcome = "🔴"
	OutcomeEnemyMiss  MoveOutcome = "⚫"
)
