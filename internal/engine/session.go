package engine

import (
	"math/rand"
	"strconv"
	"time"

	"github.com/davidarcila/TowerFlip/internal/ai"
	"github.com/davidarcila/TowerFlip/internal/game"
)

// Config carries everything a Combat needs: effect base values, board
// composition, pacing delays, run shape and opponent tuning per tier.
type Config struct {
	BaseValues map[game.EffectKind]int
	Deck       []PairSpec
	Difficulty map[game.Difficulty]ai.Params

	SettleDelay    time.Duration
	ThinkDelay     time.Duration
	InterFlipDelay time.Duration
	ReshuffleDelay time.Duration

	Floors   int
	RestHeal int
}

type stepKind int

const (
	stepSettle stepKind = iota
	stepOpponentReveal
	stepOpponentSecond
	stepReshuffle
)

// step is one scheduled, delayed continuation. There is no cancellation:
// every runner re-checks the game-over latch, the board generation and the
// current card state before mutating, so a stale step degrades to a no-op.
type step struct {
	kind      stepKind
	due       time.Time
	positions []int
	gen       int
}

// Combat is the turn/combat state machine for one run. All mutation happens
// on one logical control flow: the caller serializes FlipCard, Tick and the
// floor transitions, and the state machine's phase is the concurrency
// discipline (no flip is accepted from a side whose turn it is not).
type Combat struct {
	RunID string
	Floor int // 0-based
	State game.GameState

	Board game.Board
	Party game.Entity
	Enemy game.Entity
	Combo int

	cfg   Config
	rng   *rand.Rand
	brain *ai.Opponent
	cues  CueSink

	selection        []int
	boardGen         int
	pending          []step
	reshufflePending bool
	over             bool

	events  []game.Event
	history []game.MoveOutcome
}

// NewCombat builds the first floor of a run: fresh board, fresh opponent
// memory, combo at zero, state LOADING until Begin is called.
func NewCombat(runID string, party, enemy game.Entity, cfg Config, rng *rand.Rand, cues CueSink) *Combat {
	if cues == nil {
		cues = NopCues{}
	}
	c := &Combat{
		RunID: runID,
		State: game.StateLoading,
		Party: party,
		cfg:   cfg,
		rng:   rng,
		cues:  cues,
	}
	c.loadFloor(enemy)
	return c
}

// loadFloor installs the enemy and regenerates all floor-scoped state.
func (c *Combat) loadFloor(enemy game.Entity) {
	c.Enemy = enemy
	c.Board = BuildBoard(c.cfg.Deck, c.rng)
	c.boardGen++
	c.selection = nil
	c.pending = nil
	c.reshufflePending = false
	c.Combo = 0
	params, ok := c.cfg.Difficulty[enemy.Tier]
	if !ok {
		params = c.cfg.Difficulty[game.DifficultyMedium]
	}
	c.brain = ai.New(params, c.rng)
	c.State = game.StateLoading
}

// Begin transitions LOADING into the party's turn once floor assets are
// ready (an external-collaborator signal).
func (c *Combat) Begin(now time.Time) {
	if c.over || c.State != game.StateLoading {
		return
	}
	c.State = game.StatePartyTurn
	c.log(game.EventInfo, "Floor "+strconv.Itoa(c.Floor+1)+" — "+c.Enemy.Name+" blocks the way")
	if c.Enemy.Flavor != "" {
		c.log(game.EventInfo, c.Enemy.Flavor)
	}
}

// FlipCard handles a party flip request. Requests outside the party's turn,
// during a reshuffle, on matched or already face-up positions, or with two
// selections pending are no-ops; the return value reports acceptance.
func (c *Combat) FlipCard(pos int, now time.Time) bool {
	if c.over || c.State != game.StatePartyTurn || c.reshufflePending {
		return false
	}
	if pos < 0 || pos >= len(c.Board) {
		return false
	}
	card := &c.Board[pos]
	if card.Matched || card.Flipped || len(c.selection) >= 2 {
		return false
	}
	card.Flipped = true
	c.selection = append(c.selection, pos)
	c.brain.Observe(pos, *card)
	c.cues.PlayCue("flip")
	if len(c.selection) == 2 {
		c.resolveSelection(game.SideParty, now)
	}
	return true
}

// Tick processes every scheduled continuation that has come due.
func (c *Combat) Tick(now time.Time) {
	for {
		idx := -1
		for i := range c.pending {
			if !c.pending[i].due.After(now) && (idx == -1 || c.pending[i].due.Before(c.pending[idx].due)) {
				idx = i
			}
		}
		if idx == -1 {
			return
		}
		s := c.pending[idx]
		c.pending = append(c.pending[:idx], c.pending[idx+1:]...)
		c.runStep(s, now)
	}
}

// NextDue returns the earliest pending continuation deadline, if any.
func (c *Combat) NextDue() (time.Time, bool) {
	var due time.Time
	found := false
	for i := range c.pending {
		if !found || c.pending[i].due.Before(due) {
			due = c.pending[i].due
			found = true
		}
	}
	return due, found
}

// NextFloor applies the external advance trigger from FLOOR_COMPLETE: a
// fixed rest heal once per advance, then the next floor's enemy and board.
func (c *Combat) NextFloor(enemy game.Entity, now time.Time) bool {
	if c.over || c.State != game.StateFloorComplete {
		return false
	}
	c.Floor++
	healed := c.Party.Heal(c.cfg.RestHeal)
	if healed > 0 {
		c.log(game.EventHeal, "The party rests and recovers "+strconv.Itoa(healed)+" HP")
	}
	c.loadFloor(enemy)
	return true
}

// Concede latches defeat from an external trigger (player abandoned).
func (c *Combat) Concede(now time.Time) {
	if c.over {
		return
	}
	c.State = game.StateRunDefeat
	c.over = true
	c.log(game.EventInfo, "The party flees the tower")
}

// Over reports the latched game-over flag.
func (c *Combat) Over() bool { return c.over }

// Events returns the events appended since seq (0 returns all).
func (c *Combat) Events(since int) []game.Event {
	if since < 0 {
		since = 0
	}
	if since > len(c.events) {
		since = len(c.events)
	}
	out := make([]game.Event, len(c.events)-since)
	copy(out, c.events[since:])
	return out
}

// HistoryString builds the shareable result string.
func (c *Combat) HistoryString() string {
	s := ""
	for _, o := range c.history {
		s += string(o)
	}
	return s
}

// Selection returns the currently face-up, unresolved positions.
func (c *Combat) Selection() []int {
	out := make([]int, len(c.selection))
	copy(out, c.selection)
	return out
}

// Brain exposes the opponent decision model for inspection in tests.
func (c *Combat) Brain() *ai.Opponent { return c.brain }

func (c *Combat) schedule(kind stepKind, delay time.Duration, now time.Time, positions []int) {
	c.pending = append(c.pending, step{kind: kind, due: now.Add(delay), positions: positions, gen: c.boardGen})
}

func (c *Combat) runStep(s step, now time.Time) {
	// The latched game-over flag short-circuits every continuation: a
	// terminal transition can be reached by the opposing mutation path
	// while this step is pending.
	if c.over {
		return
	}
	switch s.kind {
	case stepSettle:
		c.runSettle(s, now)
	case stepOpponentReveal:
		c.runOpponentReveal(now)
	case stepOpponentSecond:
		c.runOpponentSecond(s, now)
	case stepReshuffle:
		c.runReshuffle(now)
	}
}

// runSettle turns a mismatched pair back face-down and passes the turn.
func (c *Combat) runSettle(s step, now time.Time) {
	if s.gen != c.boardGen {
		return
	}
	for _, pos := range s.positions {
		if pos >= 0 && pos < len(c.Board) && !c.Board[pos].Matched {
			c.Board[pos].Flipped = false
		}
	}
	c.selection = nil
	switch c.State {
	case game.StatePartyTurn:
		c.State = game.StateOpponentThinking
		c.schedule(stepOpponentReveal, c.cfg.ThinkDelay, now, nil)
	case game.StateOpponentActing:
		c.State = game.StatePartyTurn
	}
}

// runOpponentReveal begins an opponent move: pick and reveal the first card.
func (c *Combat) runOpponentReveal(now time.Time) {
	if c.State != game.StateOpponentThinking || c.reshufflePending {
		return
	}
	c.State = game.StateOpponentActing
	pos := c.brain.ChooseFirst(c.Board)
	c.Board[pos].Flipped = true
	c.selection = []int{pos}
	c.brain.Observe(pos, c.Board[pos])
	c.cues.PlayCue("flip")
	c.schedule(stepOpponentSecond, c.cfg.InterFlipDelay, now, nil)
}

// runOpponentSecond reveals the opponent's second card and evaluates the
// pair like any other selection.
func (c *Combat) runOpponentSecond(s step, now time.Time) {
	if c.State != game.StateOpponentActing || len(c.selection) != 1 || s.gen != c.boardGen {
		return
	}
	pos := c.brain.ChooseSecond(c.Board, c.selection[0])
	c.Board[pos].Flipped = true
	c.selection = append(c.selection, pos)
	c.brain.Observe(pos, c.Board[pos])
	c.cues.PlayCue("flip")
	c.resolveSelection(game.SideOpponent, now)
}

// runReshuffle replaces a fully matched board. Combo and HP/shield carry
// over; selection and opponent memory do not.
func (c *Combat) runReshuffle(now time.Time) {
	c.Board = BuildBoard(c.cfg.Deck, c.rng)
	c.boardGen++
	c.selection = nil
	c.brain.ClearMemory()
	c.reshufflePending = false
	c.log(game.EventInfo, "Every pair found — the cards are reshuffled")
	c.cues.PlayCue("reshuffle")
	if c.State == game.StateOpponentThinking {
		c.schedule(stepOpponentReveal, c.cfg.ThinkDelay, now, nil)
	}
}

// resolveSelection evaluates a complete two-card selection for side.
func (c *Combat) resolveSelection(side game.Side, now time.Time) {
	a, b := c.selection[0], c.selection[1]
	if c.Board[a].Matches(c.Board[b]) {
		c.Board[a].Matched = true
		c.Board[b].Matched = true
		c.brain.Invalidate(a)
		c.brain.Invalidate(b)
		c.selection = nil
		effect := c.Board[a].Effect
		if c.Board[a].Wildcard {
			effect = c.Board[b].Effect
		}
		c.recordOutcome(side, true)
		c.cues.PlayCue("match")
		c.applyEffect(effect, side, c.Combo)
		c.Combo++
		if c.checkDeaths(now) {
			return
		}
		if c.Board.AllMatched() {
			c.reshufflePending = true
			if side == game.SideOpponent {
				c.State = game.StateOpponentThinking
			}
			c.schedule(stepReshuffle, c.cfg.ReshuffleDelay, now, nil)
			return
		}
		// A match never passes the turn: the acting side keeps flipping.
		if side == game.SideOpponent {
			c.State = game.StateOpponentThinking
			c.schedule(stepOpponentReveal, c.cfg.ThinkDelay, now, nil)
		}
		return
	}

	c.recordOutcome(side, false)
	c.Combo = 0
	c.cues.PlayCue("mismatch")
	c.schedule(stepSettle, c.cfg.SettleDelay, now, []int{a, b})
}

// checkDeaths applies end-of-combat transitions. The party check runs
// first: a mutual-kill final blow resolves as defeat.
func (c *Combat) checkDeaths(now time.Time) bool {
	if !c.Party.Alive() {
		c.State = game.StateRunDefeat
		c.over = true
		c.log(game.EventInfo, "The party falls on floor "+strconv.Itoa(c.Floor+1))
		c.cues.PlayCue("defeat")
		return true
	}
	if !c.Enemy.Alive() {
		if c.Floor >= c.cfg.Floors-1 {
			c.State = game.StateRunVictory
			c.over = true
			c.log(game.EventInfo, c.Enemy.Name+" is defeated — the tower is cleared!")
			c.cues.PlayCue("victory")
		} else {
			c.State = game.StateFloorComplete
			c.log(game.EventInfo, c.Enemy.Name+" is defeated!")
			c.cues.PlayCue("floor_complete")
		}
		return true
	}
	return false
}

func (c *Combat) recordOutcome(side game.Side, matched bool) {
	var o game.MoveOutcome
	switch {
	case side == game.SideParty && matched:
		o = game.OutcomePartyMatch
	case side == game.SideParty:
		o = game.OutcomePartyMiss
	case matched:
		o = game.OutcomeEnemyMatch
	default:
		o = game.OutcomeEnemyMiss
	}
	c.history = append(c.history, o)
}

func (c *Combat) log(cat game.EventCategory, msg string) {
	c.events = append(c.events, game.Event{Seq: len(c.events) + 1, Message: msg, Category: cat})
}
