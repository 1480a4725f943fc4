package search

import (
	"context"
	"time"

	"github.com/seekerror/stdlib/pkg/util/contextx"

	"github.com/twofortyeight/engine/pkg/board"
	"github.com/twofortyeight/engine/pkg/eval"
)

// chanceCutoff is the minimum reach-probability a chance node will still
// descend through; below it the node returns eval(state) without
// recursing.
const chanceCutoff = 0.001

// Expectimax searches an alternating max/chance tree to a (possibly
// adaptive) depth, under a wall-clock deadline.
type Expectimax struct {
	// BaseDepth is the configured search depth before any adaptive
	// adjustment.
	BaseDepth int
	// TimeLimit bounds chooseAction's wall-clock budget.
	TimeLimit time.Duration
	// Adaptive enables depth adjustment based on board state (see
	// adaptiveDepth). When false, Expectimax{BaseDepth:0} is required to
	// equal Heuristic with the same params.
	Adaptive bool

	eval *eval.Composite
}

// NewExpectimax builds an Expectimax policy owning its own composite
// evaluator constructed from params (value ownership, no shared mutable
// state across policies).
func NewExpectimax(baseDepth int, timeLimit time.Duration, adaptive bool, params eval.Params) *Expectimax {
	return &Expectimax{
		BaseDepth: baseDepth,
		TimeLimit: timeLimit,
		Adaptive:  adaptive,
		eval:      eval.New(params),
	}
}

func (p *Expectimax) ChooseAction(ctx context.Context, s board.State) ChosenAction {
	moves := board.ValidMoves(s)
	if len(moves) == 0 {
		return noMove(s)
	}

	depth := p.BaseDepth
	if p.Adaptive {
		depth = adaptiveDepth(s, p.BaseDepth)
	}

	dctx := ctx
	if p.TimeLimit > 0 {
		var cancel context.CancelFunc
		dctx, cancel = context.WithTimeout(ctx, p.TimeLimit)
		defer cancel()
	}

	// Initialize best with the first valid move so an answer always
	// exists, then only update on strict improvement.
	best := moves[0]
	bestScore := p.chanceNode(dctx, best.State, depth-1, 1.0)

	for _, m := range moves[1:] {
		if contextx.IsCancelled(dctx) {
			break
		}
		score := p.chanceNode(dctx, m.State, depth-1, 1.0)
		if score > bestScore {
			best, bestScore = m, score
		}
	}
	return ChosenAction{Action: best.Action, State: best.State, Score: best.Score}
}

// maxNode returns eval(s) at the depth/deadline boundary, otherwise the
// best chance-node value over every valid move from s. A state with no
// valid moves is terminal and also evaluates directly.
func (p *Expectimax) maxNode(ctx context.Context, s board.State, depth int, prob float64) eval.Score {
	if depth <= 0 || contextx.IsCancelled(ctx) {
		return p.eval.Evaluate(ctx, s)
	}

	moves := board.ValidMoves(s)
	if len(moves) == 0 {
		return p.eval.Evaluate(ctx, s)
	}

	best := p.chanceNode(ctx, moves[0].State, depth-1, prob)
	for _, m := range moves[1:] {
		if v := p.chanceNode(ctx, m.State, depth-1, prob); v > best {
			best = v
		}
	}
	return best
}

// chanceNode returns eval(s) at the depth/deadline/probability-cutoff/
// full-board boundary, otherwise the probability-weighted average over
// every empty cell of spawning a 2 (p=0.9) or a 4 (p=0.1).
func (p *Expectimax) chanceNode(ctx context.Context, s board.State, depth int, prob float64) eval.Score {
	if depth <= 0 || contextx.IsCancelled(ctx) || prob < chanceCutoff {
		return p.eval.Evaluate(ctx, s)
	}

	empty := board.EmptyCells(s)
	n := len(empty)
	if n == 0 {
		return p.eval.Evaluate(ctx, s)
	}

	var total eval.Score
	for _, cell := range empty {
		s2 := board.SetTile(s, cell.Row, cell.Col, 1)
		s4 := board.SetTile(s, cell.Row, cell.Col, 2)

		v2 := p.maxNode(ctx, s2, depth-1, prob*0.9/float64(n))
		v4 := p.maxNode(ctx, s4, depth-1, prob*0.1/float64(n))
		total += eval.Score(0.9)*v2 + eval.Score(0.1)*v4
	}
	return total / eval.Score(n)
}

// adaptiveDepth computes the root search depth from the state before the
// search begins.
func adaptiveDepth(s board.State, d int) int {
	maxTile := board.MaxTile(s)
	emptyCount := len(board.EmptyCells(s))

	var highValue int
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if board.Nibble(s, r, c) >= 11 {
				highValue++
			}
		}
	}

	switch {
	case maxTile >= 14:
		return d + 4
	case maxTile >= 13:
		return d + 3
	case maxTile >= 12:
		return d + 2
	}

	switch {
	case emptyCount <= 2:
		return d + 3
	case emptyCount <= 4:
		return d + 2
	case emptyCount <= 6:
		return d + 1
	case emptyCount >= 14:
		if d-1 > 2 {
			return d - 1
		}
		return 2
	default:
		if highValue >= 2 {
			return d + 1
		}
		return d
	}
}
