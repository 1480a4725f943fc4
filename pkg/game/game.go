// Package game implements the episode driver: random-tile spawn, move
// application, scoring, and the play-to-quiescence loop.
package game

import (
	"context"
	"math/rand"
	"time"

	"github.com/seekerror/stdlib/pkg/lang"

	"github.com/twofortyeight/engine/pkg/board"
	"github.com/twofortyeight/engine/pkg/logging"
)

// Policy chooses an action for the current state. Implementations live in
// pkg/search.
type Policy interface {
	ChooseAction(ctx context.Context, s board.State) ChosenAction
}

// ChosenAction is the (action, resulting state, merge score) triple a
// policy returns. Action is board.Invalid and State is unchanged when no
// valid move exists.
type ChosenAction struct {
	Action board.Action
	State  board.State
	Score  uint64
}

// Game holds the current board state, move count and cumulative score for
// one episode, plus the PRNG stream used for random tile spawns. Not safe
// for concurrent use by multiple goroutines; callers running many episodes
// in parallel construct one Game per worker.
type Game struct {
	log *logging.Logger

	rng *rand.Rand

	state     board.State
	score     uint64
	moveCount int
}

// New constructs a Game with its own PRNG stream seeded from an entropy
// source, following a one-PRNG-per-instance idiom so concurrent games never
// share mutable RNG state.
func New(log *logging.Logger) *Game {
	if log == nil {
		log = logging.Default
	}
	return &Game{
		log: log,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewWithSeed constructs a Game with an explicit seed, for deterministic
// tests reproducible.
func NewWithSeed(log *logging.Logger, seed int64) *Game {
	if log == nil {
		log = logging.Default
	}
	return &Game{
		log: log,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// State returns the current board state.
func (g *Game) State() board.State { return g.state }

// Score returns the cumulative merge score for the episode so far.
func (g *Game) Score() uint64 { return g.score }

// MoveCount returns the number of moves applied so far.
func (g *Game) MoveCount() int { return g.moveCount }

// Reset clears the board to empty, spawns two random tiles, and zeroes the
// score and move count.
func (g *Game) Reset(ctx context.Context) {
	g.state = 0
	g.score = 0
	g.moveCount = 0
	g.spawnTile()
	g.spawnTile()
	g.log.Debugf(ctx, logging.Game, "reset: %v", g.state)
}

// spawnTile places a 2 (nibble 1) with probability 0.9, else a 4 (nibble 2),
// at a uniformly-chosen empty cell. No-op on a full board.
func (g *Game) spawnTile() {
	g.state = SpawnTile(g.state, g.rng)
}

// SpawnTile places a 2 (nibble 1) with probability 0.9, else a 4 (nibble 2),
// at a uniformly-chosen empty cell of s, drawing from rng. Returns s
// unchanged on a full board. Exported so callers that drive their own
// episode loop outside a Game (e.g. the TDL trainer, which needs the
// afterstate before the spawn to compute its TD target) can reuse the
// exact same spawn rule.
func SpawnTile(s board.State, rng *rand.Rand) board.State {
	empty := board.EmptyCells(s)
	if len(empty) == 0 {
		return s
	}
	cell := empty[rng.Intn(len(empty))]

	v := uint8(1)
	if rng.Float64() >= 0.9 {
		v = 2
	}
	return board.SetTile(s, cell.Row, cell.Col, v)
}

// Step validates that (action, nextState) appears in the current
// valid-move set; on success it installs nextState, adds the merge score,
// increments the move count, spawns one random tile, and returns true. On
// failure it leaves the Game untouched and returns false -- a game-contract
// violation, interpreted by callers as terminal.
func (g *Game) Step(ctx context.Context, action board.Action, nextState board.State) bool {
	for _, m := range board.ValidMoves(g.state) {
		if m.Action == action && m.State == nextState {
			g.state = m.State
			g.score += m.Score
			g.moveCount++
			g.spawnTile()
			return true
		}
	}
	g.log.Warnf(ctx, logging.Game, "rejected step action=%v state=%v on board %v", action, nextState, g.state)
	return false
}

// PlayGame resets (or installs initialState if given) and drives policy to
// quiescence, returning the final score, final state, and move count.
func (g *Game) PlayGame(ctx context.Context, policy Policy, initialState lang.Optional[board.State]) (uint64, board.State, int) {
	if s, ok := initialState.V(); ok {
		g.state = s
		g.score = 0
		g.moveCount = 0
	} else {
		g.Reset(ctx)
	}

	for {
		choice := policy.ChooseAction(ctx, g.state)
		if choice.Action == board.Invalid {
			break
		}
		if !g.Step(ctx, choice.Action, choice.State) {
			break
		}
	}
	return g.score, g.state, g.moveCount
}
