package engine

import (
	"math/rand"

	"github.com/davidarcila/TowerFlip/internal/game"
	"github.com/google/uuid"
)

// PairSpec declares one pair of the board composition. A wildcard spec
// emits one normal card plus a wildcard partner that matches anything; a
// slimed spec marks both cards. Because the wildcard can pair off with a
// card from another pair, its own partner and that pair's leftover may end
// up unpairable, leaving the floor to finish through HP or a timeout. That
// stranding is an accepted property of wildcard boards, not a bug.
type PairSpec struct {
	Effect   game.EffectKind
	Wildcard bool
	Slimed   bool
}

// BuildBoard emits every composition entry exactly twice, assigns each card
// a unique identity token and applies a Fisher–Yates shuffle from the given
// source. All cards start unflipped and unmatched. The same call serves
// floor start and full-clear reshuffle; transient state (selection, opponent
// memory) is the caller's contract to clear.
func BuildBoard(comp []PairSpec, rng *rand.Rand) game.Board {
	b := make(game.Board, 0, len(comp)*2)
	for _, p := range comp {
		b = append(b,
			game.Card{ID: uuid.NewString(), Effect: p.Effect, Slimed: p.Slimed},
			game.Card{ID: uuid.NewString(), Effect: p.Effect, Slimed: p.Slimed, Wildcard: p.Wildcard},
		)
	}
	for i := len(b) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		b[i], b[j] = b[j], b[i]
	}
	return b
}
