package eval

import "fmt"

// Score is the weighted-sum value a composite evaluator assigns to a board,
// or the value-plus-reward estimate a search policy assigns to an
// afterstate. Generalized from a signed evaluation score to an
// unbounded float following the same Min/Max/Crop helper shape.
type Score float64

func (s Score) String() string {
	return fmt.Sprintf("%.2f", float64(s))
}

// Max returns the largest of the given scores.
func Max(a, b Score) Score {
	if a < b {
		return b
	}
	return a
}

// Min returns the smallest of the given scores.
func Min(a, b Score) Score {
	if a < b {
		return a
	}
	return b
}
