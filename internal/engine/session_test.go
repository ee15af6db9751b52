package engine

import (
	"math/rand"
	"testing"
	"time"

	"github.com/davidarcila/TowerFlip/internal/ai"
	"github.com/davidarcila/TowerFlip/internal/game"
)

var base = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

// testConfig builds a combat config with every tier tuned to a perfect
// opponent (no forgetting, no mistakes) so move outcomes are deterministic.
func testConfig(deck []PairSpec, floors int) Config {
	return Config{
		BaseValues: map[game.EffectKind]int{
			game.EffectAttackSmall:  2,
			game.EffectAttackMedium: 4,
			game.EffectAttackBig:    6,
			game.EffectHealSmall:    2,
			game.EffectHealMedium:   4,
			game.EffectShield:       3,
			game.EffectCoinSmall:    1,
			game.EffectCoinMedium:   3,
		},
		Deck: deck,
		Difficulty: map[game.Difficulty]ai.Params{
			game.DifficultyEasy:   {},
			game.DifficultyMedium: {},
			game.DifficultyHard:   {},
		},
		SettleDelay:    100 * time.Millisecond,
		ThinkDelay:     100 * time.Millisecond,
		InterFlipDelay: 100 * time.Millisecond,
		ReshuffleDelay: 100 * time.Millisecond,
		Floors:         floors,
		RestHeal:       4,
	}
}

func newTestCombat(t *testing.T, deck []PairSpec, floors, enemyHP int, seed int64) *Combat {
	t.Helper()
	party := game.Entity{Name: "Party", MaxHP: 12, HP: 12}
	enemy := game.Entity{Name: "Dummy", MaxHP: enemyHP, HP: enemyHP, Tier: game.DifficultyEasy}
	c := NewCombat("run-1", party, enemy, testConfig(deck, floors), rand.New(rand.NewSource(seed)), nil)
	c.Begin(base)
	if c.State != game.StatePartyTurn {
		t.Fatalf("expected party turn after Begin, got %s", c.State)
	}
	return c
}

// positionsOf returns the board positions holding effect, wildcards excluded.
func positionsOf(b game.Board, e game.EffectKind) []int {
	out := []int{}
	for i, c := range b {
		if c.Effect == e && !c.Wildcard {
			out = append(out, i)
		}
	}
	return out
}

// advance jumps the clock far past every pending delay and ticks once, which
// processes exactly one scheduled stage (steps scheduled by that stage land
// in the future relative to the tick time).
func advance(c *Combat, now time.Time) time.Time {
	next := now.Add(10 * time.Second)
	c.Tick(next)
	return next
}

func TestMatch_KeepsPartyTurn(t *testing.T) {
	deck := []PairSpec{{Effect: game.EffectCoinSmall}, {Effect: game.EffectHealSmall}}
	c := newTestCombat(t, deck, 3, 10, 1)

	coins := positionsOf(c.Board, game.EffectCoinSmall)
	if !c.FlipCard(coins[0], base) || !c.FlipCard(coins[1], base) {
		t.Fatalf("expected both flips to be accepted")
	}

	if c.State != game.StatePartyTurn {
		t.Fatalf("a match must keep the turn, got %s", c.State)
	}
	if c.Combo != 1 {
		t.Fatalf("expected combo 1 after a match, got %d", c.Combo)
	}
	if !c.Board[coins[0]].Matched || !c.Board[coins[1]].Matched {
		t.Fatalf("matched cards must be marked")
	}
	if c.Party.Coins != 1 {
		t.Fatalf("expected 1 coin at combo 0, got %d", c.Party.Coins)
	}
	if got := c.HistoryString(); got != string(game.OutcomePartyMatch) {
		t.Fatalf("unexpected history %q", got)
	}
}

func TestMismatch_PassesTurnAtSettle(t *testing.T) {
	deck := []PairSpec{{Effect: game.EffectCoinSmall}, {Effect: game.EffectHealSmall}}
	c := newTestCombat(t, deck, 3, 10, 2)

	coin := positionsOf(c.Board, game.EffectCoinSmall)[0]
	heal := positionsOf(c.Board, game.EffectHealSmall)[0]
	c.FlipCard(coin, base)
	c.FlipCard(heal, base)

	// The mismatched pair stays visible until the settle delay elapses.
	if c.State != game.StatePartyTurn {
		t.Fatalf("turn must not pass before settle, got %s", c.State)
	}
	if c.FlipCard(positionsOf(c.Board, game.EffectCoinSmall)[1], base) {
		t.Fatalf("a third flip must be rejected while two cards are up")
	}

	c.Tick(base.Add(50 * time.Millisecond))
	if c.State != game.StatePartyTurn {
		t.Fatalf("settle fired before its delay")
	}

	now := advance(c, base)
	if c.State != game.StateOpponentThinking {
		t.Fatalf("expected opponent turn after settle, got %s", c.State)
	}
	if c.Board[coin].Flipped || c.Board[heal].Flipped {
		t.Fatalf("mismatched cards must settle face down")
	}
	if c.FlipCard(coin, now) {
		t.Fatalf("party flips must be rejected during the opponent turn")
	}
}

func TestCombo_ResetsOnMismatch(t *testing.T) {
	deck := []PairSpec{{Effect: game.EffectCoinSmall}, {Effect: game.EffectCoinMedium}, {Effect: game.EffectHealSmall}}
	c := newTestCombat(t, deck, 3, 10, 3)

	small := positionsOf(c.Board, game.EffectCoinSmall)
	c.FlipCard(small[0], base)
	c.FlipCard(small[1], base)
	if c.Combo != 1 {
		t.Fatalf("expected combo 1, got %d", c.Combo)
	}

	medium := positionsOf(c.Board, game.EffectCoinMedium)[0]
	heal := positionsOf(c.Board, game.EffectHealSmall)[0]
	c.FlipCard(medium, base)
	c.FlipCard(heal, base)
	if c.Combo != 0 {
		t.Fatalf("a mismatch must reset the combo, got %d", c.Combo)
	}
}

func TestComboScaling_AppliesToDamage(t *testing.T) {
	deck := []PairSpec{{Effect: game.EffectCoinSmall}, {Effect: game.EffectAttackSmall}}
	c := newTestCombat(t, deck, 3, 10, 4)

	coins := positionsOf(c.Board, game.EffectCoinSmall)
	c.FlipCard(coins[0], base)
	c.FlipCard(coins[1], base)

	attacks := positionsOf(c.Board, game.EffectAttackSmall)
	c.FlipCard(attacks[0], base)
	c.FlipCard(attacks[1], base)

	// Second match in the chain resolves at combo 1: floor(2 * 1.5) = 3.
	if c.Enemy.HP != 7 {
		t.Fatalf("expected enemy at 7 HP after a combo-scaled hit, got %d", c.Enemy.HP)
	}
	if c.Combo != 2 {
		t.Fatalf("expected combo 2, got %d", c.Combo)
	}
}

func TestEnemyKill_IntermediateFloorCompletes(t *testing.T) {
	deck := []PairSpec{{Effect: game.EffectAttackBig}}
	c := newTestCombat(t, deck, 3, 6, 5)

	c.FlipCard(0, base)
	c.FlipCard(1, base)

	if c.State != game.StateFloorComplete {
		t.Fatalf("killing the enemy on floor 1 of 3 must complete the floor, got %s", c.State)
	}
	if c.Over() {
		t.Fatalf("a cleared intermediate floor must not end the run")
	}

	c.Party.HP = 5
	next := game.Entity{Name: "Next", MaxHP: 8, HP: 8, Tier: game.DifficultyMedium}
	if !c.NextFloor(next, base) {
		t.Fatalf("advance from FLOOR_COMPLETE must succeed")
	}
	if c.Party.HP != 9 {
		t.Fatalf("expected rest heal of 4, got HP %d", c.Party.HP)
	}
	if c.Floor != 1 || c.Combo != 0 {
		t.Fatalf("expected floor 1 with combo reset, got floor=%d combo=%d", c.Floor, c.Combo)
	}
	if c.State != game.StateLoading {
		t.Fatalf("expected LOADING until Begin, got %s", c.State)
	}
	c.Begin(base)
	if c.State != game.StatePartyTurn || c.Enemy.Name != "Next" {
		t.Fatalf("expected the next enemy's floor to start, got %s vs %s", c.State, c.Enemy.Name)
	}
}

func TestEnemyKill_FinalFloorWinsRun(t *testing.T) {
	deck := []PairSpec{{Effect: game.EffectAttackBig}}
	c := newTestCombat(t, deck, 1, 6, 6)

	c.FlipCard(0, base)
	c.FlipCard(1, base)

	if c.State != game.StateRunVictory || !c.Over() {
		t.Fatalf("killing the final enemy must win the run, got %s over=%v", c.State, c.Over())
	}
	if c.NextFloor(game.Entity{Name: "X", MaxHP: 5, HP: 5}, base) {
		t.Fatalf("advance must be rejected after the run ends")
	}
	if c.FlipCard(0, base) {
		t.Fatalf("flips must be rejected after the run ends")
	}
}

func TestMutualKill_ResolvesAsDefeat(t *testing.T) {
	deck := []PairSpec{{Effect: game.EffectAttackBig}}
	c := newTestCombat(t, deck, 1, 6, 7)

	c.Party.HP = 0
	c.FlipCard(0, base)
	c.FlipCard(1, base)

	if c.State != game.StateRunDefeat || !c.Over() {
		t.Fatalf("party death must take priority over enemy death, got %s", c.State)
	}
}

func TestReshuffle_DuringPartyTurn(t *testing.T) {
	deck := []PairSpec{{Effect: game.EffectHealSmall}}
	c := newTestCombat(t, deck, 3, 10, 8)

	c.FlipCard(0, base)
	c.FlipCard(1, base)
	if c.Combo != 1 {
		t.Fatalf("expected combo 1, got %d", c.Combo)
	}
	if c.FlipCard(0, base) {
		t.Fatalf("flips must be rejected while a reshuffle is pending")
	}

	advance(c, base)
	if c.Combo != 1 {
		t.Fatalf("reshuffle must preserve the combo, got %d", c.Combo)
	}
	if c.State != game.StatePartyTurn {
		t.Fatalf("a party-side reshuffle must return to the party turn, got %s", c.State)
	}
	for i := range c.Board {
		if c.Board[i].Matched || c.Board[i].Flipped {
			t.Fatalf("the replacement board must start fresh")
		}
	}
	if c.Brain().MemorySize() != 0 {
		t.Fatalf("reshuffle must wipe the opponent memory")
	}
}

func TestReshuffle_DuringOpponentTurn(t *testing.T) {
	deck := []PairSpec{{Effect: game.EffectHealSmall}, {Effect: game.EffectCoinSmall}}
	c := newTestCombat(t, deck, 3, 10, 9)

	// Party mismatches, handing the opponent a board it has partially seen.
	heal := positionsOf(c.Board, game.EffectHealSmall)[0]
	coin := positionsOf(c.Board, game.EffectCoinSmall)[0]
	c.FlipCard(heal, base)
	c.FlipCard(coin, base)

	now := advance(c, base) // settle: turn passes
	if c.State != game.StateOpponentThinking {
		t.Fatalf("expected opponent turn, got %s", c.State)
	}

	// A perfect opponent explores an unseen card, recalls its partner from
	// the party's mismatch and matches. Two moves clear the board.
	for move := 0; move < 2; move++ {
		now = advance(c, now) // reveal first card
		if c.State != game.StateOpponentActing {
			t.Fatalf("move %d: expected OPPONENT_ACTING, got %s", move, c.State)
		}
		now = advance(c, now) // reveal second card, resolve
		if c.Combo != move+1 {
			t.Fatalf("move %d: expected combo %d, got %d", move, move+1, c.Combo)
		}
	}

	if c.State != game.StateOpponentThinking {
		t.Fatalf("a full clear on the opponent's turn must land in OPPONENT_THINKING, got %s", c.State)
	}

	now = advance(c, now) // reshuffle
	if c.Combo != 2 {
		t.Fatalf("reshuffle must preserve the opponent's combo, got %d", c.Combo)
	}
	if c.State != game.StateOpponentThinking {
		t.Fatalf("the opponent must keep its turn across the reshuffle, got %s", c.State)
	}
	if _, ok := c.NextDue(); !ok {
		t.Fatalf("the opponent's next move must be scheduled after the reshuffle")
	}
}

func TestWildcard_CrossPairMatchCanStrandLeftovers(t *testing.T) {
	deck := []PairSpec{{Effect: game.EffectAttackBig, Wildcard: true}, {Effect: game.EffectHealSmall}}
	c := newTestCombat(t, deck, 3, 10, 13)
	c.Party.HP = 5

	var wild int
	for i, card := range c.Board {
		if card.Wildcard {
			wild = i
		}
	}
	heal := positionsOf(c.Board, game.EffectHealSmall)[0]

	// The wildcard pairs off with a heal card from the other pair. The
	// non-wildcard card's effect resolves.
	c.FlipCard(heal, base)
	c.FlipCard(wild, base)
	if !c.Board[heal].Matched || !c.Board[wild].Matched {
		t.Fatalf("a wildcard must match any card")
	}
	if c.Party.HP != 7 {
		t.Fatalf("the non-wildcard card's effect must apply, got HP %d", c.Party.HP)
	}
	if c.Combo != 1 {
		t.Fatalf("expected combo 1, got %d", c.Combo)
	}

	// The leftovers (plain attack_big and the orphaned heal partner) can
	// never pair: the board stays live and play continues through combat.
	if c.Board.AllMatched() {
		t.Fatalf("the board must not be fully matched")
	}
	rest := c.Board.UnmatchedPositions()
	if len(rest) != 2 {
		t.Fatalf("expected two stranded cards, got %d", len(rest))
	}
	if c.Board[rest[0]].Matches(c.Board[rest[1]]) {
		t.Fatalf("the stranded leftovers must be unpairable")
	}
	c.FlipCard(rest[0], base)
	c.FlipCard(rest[1], base)
	if c.Combo != 0 {
		t.Fatalf("flipping the strand must mismatch and reset the combo, got %d", c.Combo)
	}
	advance(c, base)
	if c.State != game.StateOpponentThinking || c.Over() {
		t.Fatalf("the stranded floor must keep playing, got %s over=%v", c.State, c.Over())
	}
}

func TestConcede_LatchesDefeatAndSilencesSteps(t *testing.T) {
	deck := []PairSpec{{Effect: game.EffectCoinSmall}, {Effect: game.EffectHealSmall}}
	c := newTestCombat(t, deck, 3, 10, 10)

	coin := positionsOf(c.Board, game.EffectCoinSmall)[0]
	heal := positionsOf(c.Board, game.EffectHealSmall)[0]
	c.FlipCard(coin, base)
	c.FlipCard(heal, base)

	c.Concede(base)
	if c.State != game.StateRunDefeat || !c.Over() {
		t.Fatalf("concede must latch defeat, got %s", c.State)
	}

	// The pending settle step must not reopen the combat.
	advance(c, base)
	if c.State != game.StateRunDefeat {
		t.Fatalf("a stale step must not change a finished run, got %s", c.State)
	}
	if c.FlipCard(coin, base) {
		t.Fatalf("flips must be rejected after concede")
	}
}

func TestFlipCard_RejectsInvalidPositions(t *testing.T) {
	deck := []PairSpec{{Effect: game.EffectCoinSmall}, {Effect: game.EffectHealSmall}}
	c := newTestCombat(t, deck, 3, 10, 11)

	if c.FlipCard(-1, base) || c.FlipCard(len(c.Board), base) {
		t.Fatalf("out-of-range positions must be rejected")
	}
	pos := positionsOf(c.Board, game.EffectCoinSmall)[0]
	if !c.FlipCard(pos, base) {
		t.Fatalf("first flip must be accepted")
	}
	if c.FlipCard(pos, base) {
		t.Fatalf("re-flipping a face-up card must be rejected")
	}
}

func TestEvents_AreMonotonicAndSliceable(t *testing.T) {
	deck := []PairSpec{{Effect: game.EffectCoinSmall}, {Effect: game.EffectHealSmall}}
	c := newTestCombat(t, deck, 3, 10, 12)

	all := c.Events(0)
	if len(all) == 0 {
		t.Fatalf("Begin must narrate the floor start")
	}
	for i, ev := range all {
		if ev.Seq != i+1 {
			t.Fatalf("expected sequence %d, got %d", i+1, ev.Seq)
		}
	}
	coins := positionsOf(c.Board, game.EffectCoinSmall)
	c.FlipCard(coins[0], base)
	c.FlipCard(coins[1], base)
	tail := c.Events(len(all))
	if len(tail) == 0 {
		t.Fatalf("a match must append narration")
	}
	if tail[0].Seq != len(all)+1 {
		t.Fatalf("expected tail to continue at %d, got %d", len(all)+1, tail[0].Seq)
	}
}
