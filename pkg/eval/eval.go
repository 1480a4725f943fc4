// Package eval contains the named heuristics and weighted composite
// position evaluator for the 2048 board.
package eval

import (
	"context"

	"github.com/twofortyeight/engine/pkg/board"
)

// Evaluator is a static position evaluator, generalized from a
// chess Evaluator interface to a board.State receiver.
type Evaluator interface {
	Evaluate(ctx context.Context, s board.State) Score
}

// Heuristic is a single named heuristic over an unpacked 4x4 grid,
// returning a non-negative integer in the approximate range [0,1000].
type Heuristic func(grid [4][4]uint8) uint64

// Names is the fixed set of recognized heuristic names, in the order they
// appear in the Population CSV header; coreScore has no implementation
// (see DESIGN.md) and is carried only as a CSV placeholder.
var Names = []string{"emptyTiles", "monotonicity", "smoothness", "cornerValue", "mergeability", "patternMatching", "coreScore"}

// ByName looks up a Heuristic by name. coreScore and unknown names return
// (nil, false).
func ByName(name string) (Heuristic, bool) {
	switch name {
	case "emptyTiles":
		return EmptyTiles, true
	case "monotonicity":
		return Monotonicity, true
	case "mergeability":
		return Mergeability, true
	case "smoothness":
		return Smoothness, true
	case "cornerValue":
		return CornerValue, true
	case "patternMatching":
		return PatternMatching, true
	default:
		return nil, false
	}
}

func findMaxTile(grid [4][4]uint8) uint8 {
	var max uint8
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if grid[r][c] > max {
				max = grid[r][c]
			}
		}
	}
	return max
}

// EmptyTiles counts zero cells, normalized to [0,1000] (16 cells -> 62.5/cell).
func EmptyTiles(grid [4][4]uint8) uint64 {
	var count uint64
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if grid[r][c] == 0 {
				count++
			}
		}
	}
	return count * 1000 / 16
}

// Monotonicity awards 125 per row/column (8 lines total) that is weakly
// increasing or weakly decreasing (both true for constant lines).
func Monotonicity(grid [4][4]uint8) uint64 {
	var score uint64

	for r := 0; r < 4; r++ {
		inc, dec := true, true
		prev := grid[r][0]
		for c := 1; c < 4; c++ {
			cur := grid[r][c]
			if cur < prev {
				inc = false
			}
			if cur > prev {
				dec = false
			}
			prev = cur
		}
		if inc || dec {
			score += 125
		}
	}

	for c := 0; c < 4; c++ {
		inc, dec := true, true
		prev := grid[0][c]
		for r := 1; r < 4; r++ {
			cur := grid[r][c]
			if cur < prev {
				inc = false
			}
			if cur > prev {
				dec = false
			}
			prev = cur
		}
		if inc || dec {
			score += 125
		}
	}
	return score
}

// Mergeability sums 2*2^v over adjacent equal non-zero pairs (horizontal
// and vertical), normalized by 24*2*2^maxTile and clamped to 1000; if
// maxTile<=1 the denominator is 2048.
func Mergeability(grid [4][4]uint8) uint64 {
	maxTile := findMaxTile(grid)

	var maxScore uint64
	if maxTile > 1 {
		maxScore = 24 * (uint64(1) << maxTile) * 2
	} else {
		maxScore = 2048
	}

	var score uint64
	for r := 0; r < 4; r++ {
		for c := 0; c < 3; c++ {
			if grid[r][c] > 0 && grid[r][c] == grid[r][c+1] {
				score += (uint64(1) << grid[r][c]) * 2
			}
		}
	}
	for c := 0; c < 4; c++ {
		for r := 0; r < 3; r++ {
			if grid[r][c] > 0 && grid[r][c] == grid[r+1][c] {
				score += (uint64(1) << grid[r][c]) * 2
			}
		}
	}

	v := (score * 1000) / maxScore
	if v > 1000 {
		v = 1000
	}
	return v
}

// Smoothness averages, over adjacent pairs where both cells are non-zero,
// 1000 if equal else 500/(1+|v1-v2|).
func Smoothness(grid [4][4]uint8) uint64 {
	var score, pairs uint64

	abs := func(a, b uint8) uint64 {
		if a > b {
			return uint64(a - b)
		}
		return uint64(b - a)
	}

	for r := 0; r < 4; r++ {
		for c := 0; c < 3; c++ {
			cur, next := grid[r][c], grid[r][c+1]
			if cur > 0 && next > 0 {
				if cur == next {
					score += 1000
				} else {
					score += 500 / (1 + abs(cur, next))
				}
				pairs++
			}
		}
	}
	for c := 0; c < 4; c++ {
		for r := 0; r < 3; r++ {
			cur, next := grid[r][c], grid[r+1][c]
			if cur > 0 && next > 0 {
				if cur == next {
					score += 1000
				} else {
					score += 500 / (1 + abs(cur, next))
				}
				pairs++
			}
		}
	}

	if pairs == 0 {
		return 0
	}
	return score / pairs
}

// CornerValue awards 250 per corner whose value equals the board max.
func CornerValue(grid [4][4]uint8) uint64 {
	maxTile := findMaxTile(grid)
	corners := [4]uint8{grid[0][0], grid[0][3], grid[3][0], grid[3][3]}

	var score uint64
	for _, v := range corners {
		if v == maxTile {
			score += 250
		}
	}
	return score
}

// snakeWeights biases large tiles toward the top-left corner via a
// serpentine monotone weighting.
var snakeWeights = [4][4]uint64{
	{15, 14, 13, 12},
	{8, 9, 10, 11},
	{7, 6, 5, 4},
	{0, 1, 2, 3},
}

// PatternMatching sums 2^v*W[r,c] under the snake weights, normalized by
// 2^maxTile * sum(W) and clamped to 1000.
func PatternMatching(grid [4][4]uint8) uint64 {
	maxTile := findMaxTile(grid)

	var maxScore uint64
	if maxTile > 1 {
		var sumWeights uint64
		for r := 0; r < 4; r++ {
			for c := 0; c < 4; c++ {
				sumWeights += snakeWeights[r][c]
			}
		}
		maxScore = (uint64(1) << maxTile) * sumWeights
	} else {
		maxScore = 2048
	}

	var score uint64
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if grid[r][c] > 0 {
				score += (uint64(1) << grid[r][c]) * snakeWeights[r][c]
			}
		}
	}

	v := (score * 1000) / maxScore
	if v > 1000 {
		v = 1000
	}
	return v
}
