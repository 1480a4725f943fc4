// Package search implements the decision policies: Random, Heuristic,
// Expectimax (adaptive depth, chance-probability cutoff, wall-clock
// deadline).
package search

import (
	"github.com/twofortyeight/engine/pkg/board"
	"github.com/twofortyeight/engine/pkg/game"
)

// ChosenAction aliases game.ChosenAction so policies satisfy game.Policy
// without importing game's exported type under a second name.
type ChosenAction = game.ChosenAction

// noMove is returned by every policy when the board has no valid move.
func noMove(s board.State) ChosenAction {
	return ChosenAction{Action: board.Invalid, State: s, Score: 0}
}
