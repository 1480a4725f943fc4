package eval_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twofortyeight/engine/pkg/board"
	"github.com/twofortyeight/engine/pkg/eval"
)

func TestByName(t *testing.T) {
	for _, name := range []string{"emptyTiles", "monotonicity", "mergeability", "smoothness", "cornerValue", "patternMatching"} {
		fn, ok := eval.ByName(name)
		assert.Truef(t, ok, "name %q", name)
		assert.NotNilf(t, fn, "name %q", name)
	}

	_, ok := eval.ByName("coreScore")
	assert.False(t, ok)
	_, ok = eval.ByName("bogus")
	assert.False(t, ok)
}

func TestEmptyTilesFullRange(t *testing.T) {
	assert.EqualValues(t, 1000, eval.EmptyTiles([4][4]uint8{}))

	full := [4][4]uint8{}
	for r := range full {
		for c := range full[r] {
			full[r][c] = 1
		}
	}
	assert.EqualValues(t, 0, eval.EmptyTiles(full))
}

func TestMonotonicityPerfectSnake(t *testing.T) {
	// Strictly increasing rows and columns: every row and column is
	// monotone, so the maximum 8*125=1000 is reached.
	grid := [4][4]uint8{
		{1, 2, 3, 4},
		{5, 6, 7, 8},
		{9, 10, 11, 12},
		{13, 14, 15, 0},
	}
	assert.EqualValues(t, 1000, eval.Monotonicity(grid))
}

func TestCornerValue(t *testing.T) {
	var grid [4][4]uint8
	grid[0][0] = 10
	grid[0][3] = 10
	grid[3][0] = 5
	grid[3][3] = 10
	assert.EqualValues(t, 750, eval.CornerValue(grid))
}

func TestMergeabilityAdjacentEqualPairs(t *testing.T) {
	var grid [4][4]uint8
	grid[0][0], grid[0][1] = 3, 3
	v := eval.Mergeability(grid)
	assert.Greater(t, v, uint64(0))
	assert.LessOrEqual(t, v, uint64(1000))
}

func TestCompositeEvaluateIsDeterministic(t *testing.T) {
	ctx := context.Background()
	params := eval.Preset("standard")

	c1 := eval.New(params)
	c2 := eval.New(params)

	s := board.SetTile(board.SetTile(0, 0, 0, 1), 1, 1, 2)
	assert.Equal(t, c1.Evaluate(ctx, s), c2.Evaluate(ctx, s))
}

func TestCompositeDropsUnknownAndCoreScore(t *testing.T) {
	params := eval.Params{"coreScore": 500, "bogus": 1, "emptyTiles": 100}
	c := eval.New(params)

	out := c.Params()
	assert.Contains(t, out, "emptyTiles")
	assert.NotContains(t, out, "coreScore")
	assert.NotContains(t, out, "bogus")
}

func TestCompositeEmptyFallsBackToEmptyTiles(t *testing.T) {
	c := eval.New(eval.Params{})
	out := c.Params()
	require.Len(t, out, 1)
	assert.EqualValues(t, 1000, out["emptyTiles"])
}

func TestPresetNamesIncludeStandard(t *testing.T) {
	names := eval.PresetNames()
	assert.Contains(t, names, "standard")

	p := eval.Preset("standard")
	assert.NotEmpty(t, p)
}

func TestReportNonEmpty(t *testing.T) {
	p := eval.Preset("standard")
	assert.NotEmpty(t, p.Report())
}
