package search_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twofortyeight/engine/pkg/board"
	"github.com/twofortyeight/engine/pkg/eval"
	"github.com/twofortyeight/engine/pkg/game"
	"github.com/twofortyeight/engine/pkg/search"
)

func TestRandomOnlyChoosesValidMoves(t *testing.T) {
	ctx := context.Background()
	p := search.NewRandomWithSeed(1)

	s := board.SetTile(board.SetTile(0, 0, 0, 1), 0, 1, 1)
	for i := 0; i < 20; i++ {
		choice := p.ChooseAction(ctx, s)
		require.NotEqual(t, board.Invalid, choice.Action)

		valid := board.ValidMoves(s)
		found := false
		for _, m := range valid {
			if m.Action == choice.Action && m.State == choice.State {
				found = true
			}
		}
		assert.True(t, found)
	}
}

func TestPolicyNoMoveOnFullStuckBoard(t *testing.T) {
	ctx := context.Background()

	var s board.State
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			v := uint8(1)
			if (r+c)%2 == 1 {
				v = 2
			}
			s = board.SetTile(s, r, c, v)
		}
	}
	require.Empty(t, board.ValidMoves(s))

	for _, p := range []game.Policy{
		search.NewRandomWithSeed(1),
		search.NewHeuristic(eval.Preset("standard")),
		search.NewExpectimax(2, time.Second, false, eval.Preset("standard")),
	} {
		choice := p.ChooseAction(ctx, s)
		assert.Equal(t, board.Invalid, choice.Action)
		assert.Equal(t, s, choice.State)
	}
}

func TestHeuristicPicksArgmax(t *testing.T) {
	ctx := context.Background()
	params := eval.Params{"emptyTiles": 1000}
	p := search.NewHeuristic(params)

	// Under a pure emptyTiles evaluator, LEFT and RIGHT both merge the pair
	// (15 empty cells) while DOWN only moves it (14); the tie goes to LEFT.
	s := board.SetTile(board.SetTile(0, 0, 0, 1), 0, 1, 1)
	choice := p.ChooseAction(ctx, s)
	assert.Equal(t, board.Left, choice.Action)
}

func TestExpectimaxDepth0MatchesHeuristic(t *testing.T) {
	ctx := context.Background()
	params := eval.Preset("standard")

	h := search.NewHeuristic(params)
	e := search.NewExpectimax(0, time.Second, false, params)

	boards := []board.State{
		board.SetTile(board.SetTile(0, 0, 0, 1), 3, 3, 2),
		board.SetTile(board.SetTile(board.SetTile(0, 0, 0, 3), 1, 1, 2), 2, 2, 1),
		board.SetTile(board.SetTile(0, 0, 3, 4), 3, 0, 4),
	}

	for _, s := range boards {
		hc := h.ChooseAction(ctx, s)
		ec := e.ChooseAction(ctx, s)
		assert.Equal(t, hc.Action, ec.Action)
		assert.Equal(t, hc.State, ec.State)
		assert.Equal(t, hc.Score, ec.Score)
	}
}

func TestExpectimaxRespectsDeadline(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping deadline-bound expectimax search")
	}

	ctx := context.Background()
	p := search.NewExpectimax(6, 50*time.Millisecond, false, eval.Preset("standard"))

	s := board.SetTile(board.SetTile(0, 0, 0, 1), 1, 1, 1)
	start := time.Now()
	choice := p.ChooseAction(ctx, s)
	elapsed := time.Since(start)

	assert.NotEqual(t, board.Invalid, choice.Action)
	assert.Less(t, elapsed, 2*time.Second)
}
