package search

import (
	"context"

	"github.com/twofortyeight/engine/pkg/board"
	"github.com/twofortyeight/engine/pkg/ntuple"
)

// TDL picks the move maximizing move.Score + network.Estimate(afterstate)
// over valid afterstates, ties broken by first occurrence (LEFT-biased).
// It shares the Network with the trainer that produced it -- the network
// is a single shared value with interior-mutable float arrays.
type TDL struct {
	Network *ntuple.Network
}

// NewTDL builds a TDL policy over the given (already-trained, or
// in-training) network.
func NewTDL(network *ntuple.Network) *TDL {
	return &TDL{Network: network}
}

func (p *TDL) ChooseAction(_ context.Context, s board.State) ChosenAction {
	moves := board.ValidMoves(s)
	if len(moves) == 0 {
		return noMove(s)
	}

	best := moves[0]
	bestValue := float64(best.Score) + p.Network.Estimate(best.State)
	for _, m := range moves[1:] {
		v := float64(m.Score) + p.Network.Estimate(m.State)
		if v > bestValue {
			best, bestValue = m, v
		}
	}
	return ChosenAction{Action: best.Action, State: best.State, Score: best.Score}
}
