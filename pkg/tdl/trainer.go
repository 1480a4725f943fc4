// Package tdl implements the TD(0) backward-pass trainer for an n-tuple
// network, with optional Hogwild-parallel self-play.
package tdl

import (
	"context"
	"math/rand"
	"sync"

	"go.uber.org/atomic"

	"github.com/twofortyeight/engine/pkg/board"
	"github.com/twofortyeight/engine/pkg/game"
	"github.com/twofortyeight/engine/pkg/logging"
	"github.com/twofortyeight/engine/pkg/ntuple"
)

// step is one recorded (afterstate, reward) pair from an episode.
type step struct {
	afterstate board.State
	reward     float64
}

// Trainer drives TD(0) self-play episodes against a shared network. The
// network may be driven by multiple goroutines concurrently (Hogwild);
// races on individual weight cells are tolerated by design.
type Trainer struct {
	log     *logging.Logger
	network *ntuple.Network
	alpha   float64

	episodes  atomic.Uint64
	scoreSum  atomic.Uint64
	peakScore atomic.Uint64

	mu         sync.Mutex // guards histograms and progress printing
	reach      map[uint8]uint64
	terminated map[uint8]uint64
}

// New builds a Trainer over network with the given learning rate alpha.
func New(log *logging.Logger, network *ntuple.Network, alpha float64) *Trainer {
	if log == nil {
		log = logging.Default
	}
	return &Trainer{
		log:        log,
		network:    network,
		alpha:      alpha,
		reach:      make(map[uint8]uint64),
		terminated: make(map[uint8]uint64),
	}
}

// Network returns the trainer's (possibly still-training) network, e.g. to
// build a search.TDL policy from it mid-training.
func (t *Trainer) Network() *ntuple.Network { return t.network }

// playEpisode runs one TD(0) self-play episode, choosing at each decision
// the afterstate maximizing reward+V(afterstate), and returns the recorded
// path plus final score/state/move count.
func (t *Trainer) playEpisode(rng *rand.Rand) ([]step, board.State, uint64, int) {
	s := game.SpawnTile(game.SpawnTile(0, rng), rng)

	var path []step
	var score uint64
	var moves int

	for {
		valid := board.ValidMoves(s)
		if len(valid) == 0 {
			break
		}

		best := valid[0]
		bestValue := float64(best.Score) + t.network.Estimate(best.State)
		for _, m := range valid[1:] {
			if v := float64(m.Score) + t.network.Estimate(m.State); v > bestValue {
				best, bestValue = m, v
			}
		}

		path = append(path, step{afterstate: best.State, reward: float64(best.Score)})
		score += best.Score
		moves++
		s = game.SpawnTile(best.State, rng)
	}
	return path, s, score, moves
}

// backward runs the TD(0) backward pass over path: target starts at 0, and
// for i from the end down to the start, err = target - V(afterstate_i),
// new = network.Update(afterstate_i, alpha*err), target = reward_i + new.
func (t *Trainer) backward(path []step) {
	var target float64
	for i := len(path) - 1; i >= 0; i-- {
		err := target - t.network.Estimate(path[i].afterstate)
		newVal := t.network.Update(path[i].afterstate, t.alpha*err)
		target = path[i].reward + newVal
	}
}

func (t *Trainer) recordEpisode(ctx context.Context, finalState board.State, score uint64, statsInterval int) {
	t.episodes.Inc()
	t.scoreSum.Add(score)
	for {
		peak := t.peakScore.Load()
		if score <= peak || t.peakScore.CAS(peak, score) {
			break
		}
	}

	t.mu.Lock()
	maxTile := board.MaxTile(finalState)
	t.terminated[maxTile]++
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			if v := board.Nibble(finalState, r, c); v > 0 {
				t.reach[v]++
			}
		}
	}
	t.mu.Unlock()

	if statsInterval > 0 && t.episodes.Load()%uint64(statsInterval) == 0 {
		t.report(ctx)
	}
}

// report prints the running average score, peak score, and per-tile
// reach/termination histograms accumulated since the last report, then
// resets those counters.
func (t *Trainer) report(ctx context.Context) {
	t.mu.Lock()
	reach := t.reach
	terminated := t.terminated
	t.reach = make(map[uint8]uint64)
	t.terminated = make(map[uint8]uint64)
	t.mu.Unlock()

	episodes := t.episodes.Load()
	avg := float64(t.scoreSum.Load()) / float64(episodes)

	t.log.Infof(ctx, logging.Tuner, "episodes=%d avgScore=%.1f peakScore=%d", episodes, avg, t.peakScore.Load())
	for v := uint8(1); v <= 15; v++ {
		if reach[v] > 0 || terminated[v] > 0 {
			t.log.Infof(ctx, logging.Tuner, "  tile=%-6d reach=%-8d terminated=%-8d", uint32(1)<<v, reach[v], terminated[v])
		}
	}
}

// Options configures a training run.
type Options struct {
	Episodes      int
	StatsInterval int // 0 suppresses progress reports
	NumThreads    int // >1 runs Hogwild-parallel episode loops
	Seed          int64
}

// Train runs Options.Episodes self-play episodes against the trainer's
// network. With NumThreads>1, threads run independent episode loops
// against the shared weight tables with no synchronization (Hogwild);
// races on individual cells are tolerated because each update only adds a
// small per-cell adjustment. The saved format does not depend on thread
// count, but with NumThreads>1 the final weights depend on how the
// threads' updates interleave.
func (t *Trainer) Train(ctx context.Context, opt Options) {
	threads := opt.NumThreads
	if threads < 1 {
		threads = 1
	}

	perThread := opt.Episodes / threads
	remainder := opt.Episodes % threads

	var wg sync.WaitGroup
	for w := 0; w < threads; w++ {
		n := perThread
		if w < remainder {
			n++
		}
		seed := opt.Seed + int64(w)

		wg.Add(1)
		go func(n int, seed int64) {
			defer wg.Done()

			rng := rand.New(rand.NewSource(seed))
			for i := 0; i < n; i++ {
				path, finalState, score, _ := t.playEpisode(rng)
				t.backward(path)
				t.recordEpisode(ctx, finalState, score, opt.StatsInterval)
			}
		}(n, seed)
	}
	wg.Wait()
}
