package search

import (
	"context"

	"github.com/twofortyeight/engine/pkg/board"
	"github.com/twofortyeight/engine/pkg/eval"
)

// Heuristic evaluates each valid afterstate with a composite evaluator and
// returns the argmax, ties broken by board.Actions iteration order
// (LEFT<RIGHT<UP<DOWN).
//
// Heuristic is a thin wrapper around chooseBestByEval. Expectimax{BaseDepth:
// 0, Adaptive:false} is a separate implementation that happens to compute
// the same argmax (see TestExpectimaxDepth0MatchesHeuristic); the two are
// not one shared code path.
type Heuristic struct {
	eval *eval.Composite
}

// NewHeuristic builds a Heuristic policy from the given parameters, owning
// its own Composite evaluator (value ownership, no shared
// mutable state across policies).
func NewHeuristic(params eval.Params) *Heuristic {
	return &Heuristic{eval: eval.New(params)}
}

func (p *Heuristic) ChooseAction(ctx context.Context, s board.State) ChosenAction {
	return chooseBestByEval(ctx, p.eval, s)
}

// chooseBestByEval returns the valid move maximizing eval.Evaluate on the
// afterstate, breaking ties by earliest board.Actions order. Returns
// noMove(s) if there are no valid moves.
func chooseBestByEval(ctx context.Context, e *eval.Composite, s board.State) ChosenAction {
	moves := board.ValidMoves(s)
	if len(moves) == 0 {
		return noMove(s)
	}

	best := moves[0]
	bestScore := e.Evaluate(ctx, best.State)
	for _, m := range moves[1:] {
		score := e.Evaluate(ctx, m.State)
		if score > bestScore {
			best, bestScore = m, score
		}
	}
	return ChosenAction{Action: best.Action, State: best.State, Score: best.Score}
}
