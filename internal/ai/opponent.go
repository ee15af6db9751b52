package ai

import (
	"math/rand"
	"sort"

	"github.com/davidarcila/TowerFlip/internal/game"
)

// Params tunes how fallible the opponent is. Chances are probabilities in
// [0,1]; GuaranteedMiss arms a once-per-floor forced miss.
type Params struct {
	MistakeChance  float64
	ForgetChance   float64
	GuaranteedMiss bool
}

// Opponent is the probabilistic, memory-limited decision model. It owns a
// sparse position→card memory of every reveal it has witnessed; entries are
// invalidated when their card is matched and the whole table is cleared
// whenever the board is replaced.
//
// The model is intentionally an imperfect heuristic, not a solver: even with
// a full memory it forgets known pairs and muffs recalled partners at the
// configured rates.
type Opponent struct {
	params Params
	rng    *rand.Rand

	memory map[int]game.Card
	// missPending is the once-per-floor guaranteed miss latch. It is
	// consumed by whichever of the forget or mistake branches fires first.
	missPending bool
}

// New creates an opponent with the given tuning and random source.
func New(params Params, rng *rand.Rand) *Opponent {
	o := &Opponent{params: params, rng: rng, memory: make(map[int]game.Card)}
	o.ResetFloor()
	return o
}

// ResetFloor clears memory and re-arms the guaranteed-miss latch. Called at
// every floor start.
func (o *Opponent) ResetFloor() {
	o.memory = make(map[int]game.Card)
	o.missPending = o.params.GuaranteedMiss
}

// ClearMemory drops every remembered position. Called when the board is
// replaced mid-floor (full-clear reshuffle).
func (o *Opponent) ClearMemory() {
	o.memory = make(map[int]game.Card)
}

// Observe records a witnessed reveal at pos.
func (o *Opponent) Observe(pos int, c game.Card) {
	o.memory[pos] = c
}

// Invalidate drops the memory entry for a matched position.
func (o *Opponent) Invalidate(pos int) {
	delete(o.memory, pos)
}

// MemorySize returns the number of live memory entries.
func (o *Opponent) MemorySize() int { return len(o.memory) }

// Remembers reports whether pos is currently held in memory.
func (o *Opponent) Remembers(pos int) bool {
	_, ok := o.memory[pos]
	return ok
}

// ChooseFirst picks the first position of a move. When a known unmatched
// pair survives the forget roll the opponent targets it; otherwise it
// explores, preferring positions it has never seen.
func (o *Opponent) ChooseFirst(b game.Board) int {
	if a, _, ok := o.knownPair(b); ok {
		forget := false
		if o.missPending {
			o.missPending = false
			forget = true
		} else if o.rng.Float64() < o.params.ForgetChance {
			forget = true
		}
		if !forget {
			return a
		}
	}
	return o.explore(b, -1)
}

// ChooseSecond picks the second position after first was revealed. When a
// partner for the revealed card is recalled, the mistake roll (or the
// guaranteed miss) may deliberately send the pick elsewhere.
func (o *Opponent) ChooseSecond(b game.Board, first int) int {
	if partner, ok := o.recalledPartner(b, first); ok {
		miss := false
		if o.missPending {
			o.missPending = false
			miss = true
		} else if o.rng.Float64() < o.params.MistakeChance {
			miss = true
		}
		if !miss {
			return partner
		}
		if wrong, ok := o.pickOther(b, first, partner); ok {
			return wrong
		}
		// partner is the only card left; the miss cannot happen
		return partner
	}
	return o.pickUniform(b, first)
}

// knownPair scans memory for two unmatched positions whose remembered cards
// pair up. Positions are scanned in order so seeded runs are reproducible.
func (o *Opponent) knownPair(b game.Board) (int, int, bool) {
	positions := make([]int, 0, len(o.memory))
	for pos := range o.memory {
		if pos >= 0 && pos < len(b) && !b[pos].Matched {
			positions = append(positions, pos)
		}
	}
	sort.Ints(positions)
	for i := 0; i < len(positions); i++ {
		for j := i + 1; j < len(positions); j++ {
			if o.memory[positions[i]].Matches(o.memory[positions[j]]) {
				return positions[i], positions[j], true
			}
		}
	}
	return 0, 0, false
}

// recalledPartner returns a remembered unmatched position whose card pairs
// with the card at first.
func (o *Opponent) recalledPartner(b game.Board, first int) (int, bool) {
	positions := make([]int, 0, len(o.memory))
	for pos := range o.memory {
		if pos == first || pos < 0 || pos >= len(b) || b[pos].Matched {
			continue
		}
		positions = append(positions, pos)
	}
	sort.Ints(positions)
	for _, pos := range positions {
		if o.memory[pos].Matches(b[first]) {
			return pos, true
		}
	}
	return 0, false
}

// explore picks an unmatched position, preferring ones never seen.
func (o *Opponent) explore(b game.Board, exclude int) int {
	unseen := make([]int, 0, len(b))
	all := make([]int, 0, len(b))
	for _, pos := range b.UnmatchedPositions() {
		if pos == exclude {
			continue
		}
		all = append(all, pos)
		if !o.Remembers(pos) {
			unseen = append(unseen, pos)
		}
	}
	if len(unseen) > 0 {
		return unseen[o.rng.Intn(len(unseen))]
	}
	return all[o.rng.Intn(len(all))]
}

// pickUniform picks uniformly among unmatched positions, excluding first.
func (o *Opponent) pickUniform(b game.Board, first int) int {
	candidates := make([]int, 0, len(b))
	for _, pos := range b.UnmatchedPositions() {
		if pos != first {
			candidates = append(candidates, pos)
		}
	}
	return candidates[o.rng.Intn(len(candidates))]
}

// pickOther picks a position that is neither first nor partner, if any
// exists.
func (o *Opponent) pickOther(b game.Board, first, partner int) (int, bool) {
	candidates := make([]int, 0, len(b))
	for _, pos := range b.UnmatchedPositions() {
		if pos != first && pos != partner {
			candidates = append(candidates, pos)
		}
	}
	if len(candidates) == 0 {
		return 0, false
	}
	return candidates[o.rng.Intn(len(candidates))], true
}
