package search

import (
	"context"
	"math/rand"
	"time"

	"github.com/twofortyeight/engine/pkg/board"
)

// Random uniformly picks among valid moves.
type Random struct {
	rng *rand.Rand
}

// NewRandom constructs a Random policy with its own entropy-seeded PRNG.
func NewRandom() *Random {
	return &Random{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// NewRandomWithSeed constructs a Random policy with an explicit seed, for
// deterministic tests.
func NewRandomWithSeed(seed int64) *Random {
	return &Random{rng: rand.New(rand.NewSource(seed))}
}

func (p *Random) ChooseAction(_ context.Context, s board.State) ChosenAction {
	moves := board.ValidMoves(s)
	if len(moves) == 0 {
		return noMove(s)
	}
	m := moves[p.rng.Intn(len(moves))]
	return ChosenAction{Action: m.Action, State: m.State, Score: m.Score}
}
