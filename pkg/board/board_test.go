package board_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twofortyeight/engine/pkg/board"
)

func TestAction(t *testing.T) {
	assert.Equal(t, "LEFT", board.Left.String())
	assert.Equal(t, "RIGHT", board.Right.String())
	assert.Equal(t, "UP", board.Up.String())
	assert.Equal(t, "DOWN", board.Down.String())
	assert.Equal(t, "INVALID", board.Invalid.String())
	assert.Equal(t, [4]board.Action{board.Left, board.Right, board.Up, board.Down}, board.Actions)
}

func TestApplyLeftMergesOnce(t *testing.T) {
	// row: 2 2 4 4 -> 4 8 . .
	s := board.SetTile(board.SetTile(board.SetTile(board.SetTile(0, 0, 0, 1), 0, 1, 1), 0, 2, 2), 0, 3, 2)

	next, score := board.Apply(s, board.Left)
	require.NotEqual(t, s, next)
	assert.EqualValues(t, 12, score) // 2+2->4 (4 points) and 4+4->8 (8 points)

	assert.Equal(t, uint8(2), board.Nibble(next, 0, 0))
	assert.Equal(t, uint8(3), board.Nibble(next, 0, 1))
	assert.Equal(t, uint8(0), board.Nibble(next, 0, 2))
	assert.Equal(t, uint8(0), board.Nibble(next, 0, 3))
}

func TestApplyNoOverMerge(t *testing.T) {
	// row: 2 2 2 2 -> 4 4 . . ; each pair merges once, no chain merging.
	s := board.State(0)
	for c := 0; c < 4; c++ {
		s = board.SetTile(s, 1, c, 1)
	}

	next, score := board.Apply(s, board.Left)
	assert.Equal(t, uint8(2), board.Nibble(next, 1, 0))
	assert.Equal(t, uint8(2), board.Nibble(next, 1, 1))
	assert.Equal(t, uint8(0), board.Nibble(next, 1, 2))
	assert.EqualValues(t, 8, score)
}

func TestApplyInvalidIsNoop(t *testing.T) {
	s := board.State(0x1234)
	next, score := board.Apply(s, board.Invalid)
	assert.Equal(t, s, next)
	assert.EqualValues(t, 0, score)
}

func TestApplyMaxNibbleDoesNotMerge(t *testing.T) {
	s := board.SetTile(board.SetTile(0, 0, 0, board.MaxNibble), 0, 1, board.MaxNibble)
	next, score := board.Apply(s, board.Left)
	assert.EqualValues(t, 0, score)
	assert.Equal(t, uint8(board.MaxNibble), board.Nibble(next, 0, 0))
	assert.Equal(t, uint8(board.MaxNibble), board.Nibble(next, 0, 1))
}

func TestTransposeIsInvolution(t *testing.T) {
	s := board.State(0x123456789ABCDEF0)
	assert.Equal(t, s, board.Transpose(board.Transpose(s)))

	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			assert.Equal(t, board.Nibble(s, r, c), board.Nibble(board.Transpose(s), c, r))
		}
	}
}

func TestUpDownViaTranspose(t *testing.T) {
	// Column: 2 . . 2 (top to bottom) under Up should collapse to top: 4 at row 0.
	s := board.SetTile(board.SetTile(0, 0, 0, 1), 3, 0, 1)
	next, score := board.Apply(s, board.Up)
	assert.EqualValues(t, 4, score)
	assert.Equal(t, uint8(2), board.Nibble(next, 0, 0))
	for r := 1; r < 4; r++ {
		assert.Equal(t, uint8(0), board.Nibble(next, r, 0))
	}
}

func TestValidMovesExcludesNoops(t *testing.T) {
	// A full checkerboard of two alternating values has no empty cell and
	// no two orthogonally adjacent cells equal, so no slide in any
	// direction changes anything.
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
	moves := board.ValidMoves(s)
	assert.Empty(t, moves)
}

func TestEmptyCellsRowMajor(t *testing.T) {
	s := board.SetTile(0, 1, 2, 1)
	cells := board.EmptyCells(s)
	assert.Len(t, cells, 15)
	assert.Equal(t, board.Cell{Row: 0, Col: 0}, cells[0])
}

func TestSetTilePanicsOnOccupied(t *testing.T) {
	s := board.SetTile(0, 0, 0, 1)
	assert.Panics(t, func() {
		board.SetTile(s, 0, 0, 2)
	})
}

func TestMaxTileAndScore(t *testing.T) {
	s := board.SetTile(board.SetTile(0, 0, 0, 3), 1, 1, 5)
	assert.Equal(t, uint8(5), board.MaxTile(s))
	assert.EqualValues(t, (1<<3)+(1<<5), board.Score(s))
}

func TestUnpackRoundTrip(t *testing.T) {
	s := board.State(0xFEDCBA9876543210)
	grid := board.Unpack(s)
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			assert.Equal(t, board.Nibble(s, r, c), grid[r][c])
		}
	}
}

func TestStringRendersEmptyAsDot(t *testing.T) {
	out := board.State(0).String()
	assert.Contains(t, out, ".")
	assert.NotContains(t, out, "0")
}
