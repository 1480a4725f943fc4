// Package sim implements the parallel bulk self-play evaluator and the
// genetic heuristic-weight tuner.
package sim

import (
	"context"
	"sync"
	"time"

	"go.uber.org/atomic"

	"github.com/seekerror/stdlib/pkg/lang"

	"github.com/twofortyeight/engine/pkg/board"
	"github.com/twofortyeight/engine/pkg/eval"
	"github.com/twofortyeight/engine/pkg/game"
	"github.com/twofortyeight/engine/pkg/logging"
	"github.com/twofortyeight/engine/pkg/search"
)

// EvalResult summarizes a bulk self-play run: the best single-game score
// observed, its final state and move count, and the total games played.
type EvalResult struct {
	BestScore     uint64
	BestState     board.State
	BestMoveCount int
	GamesPlayed   int
	AvgScore      float64
}

// sharedBest holds the atomics the worker pool updates on improvement:
// bestScore via compare-and-swap, bestState/bestMoveCount as plain atomics
// written only after a successful CAS on bestScore.
type sharedBest struct {
	score     atomic.Uint64
	state     atomic.Uint64
	moveCount atomic.Int64
}

func (b *sharedBest) consider(score uint64, s board.State, moves int) {
	for {
		old := b.score.Load()
		if score <= old {
			return
		}
		if b.score.CAS(old, score) {
			b.state.Store(uint64(s))
			b.moveCount.Store(int64(moves))
			return
		}
	}
}

// RunParallel partitions numGames across numThreads workers, each owning a
// Game instance and a Heuristic policy constructed from params. A shared
// progress counter triggers a locked print every progressInterval games;
// progressInterval<=0 suppresses printing.
func RunParallel(ctx context.Context, log *logging.Logger, params eval.Params, numGames, numThreads, progressInterval int) EvalResult {
	if log == nil {
		log = logging.Default
	}
	if numThreads < 1 {
		numThreads = 1
	}

	best := &sharedBest{}
	var scoreSum atomic.Uint64
	var played atomic.Int64

	var progressMu sync.Mutex

	perWorker := numGames / numThreads
	remainder := numGames % numThreads

	var wg sync.WaitGroup
	for w := 0; w < numThreads; w++ {
		n := perWorker
		if w < remainder {
			n++
		}

		wg.Add(1)
		go func(workerID, n int) {
			defer wg.Done()

			policy := search.NewHeuristic(params)
			g := game.NewWithSeed(log, time.Now().UnixNano()+int64(workerID))

			for i := 0; i < n; i++ {
				score, state, moves := g.PlayGame(ctx, policy, lang.Optional[board.State]{})

				best.consider(score, state, moves)
				scoreSum.Add(score)

				total := played.Inc()
				if progressInterval > 0 && total%int64(progressInterval) == 0 {
					progressMu.Lock()
					log.Infof(ctx, logging.AI, "progress: %d/%d games, best=%d", total, numGames, best.score.Load())
					progressMu.Unlock()
				}
			}
		}(w, n)
	}
	wg.Wait()

	return EvalResult{
		BestScore:     best.score.Load(),
		BestState:     board.State(best.state.Load()),
		BestMoveCount: int(best.moveCount.Load()),
		GamesPlayed:   int(played.Load()),
		AvgScore:      float64(scoreSum.Load()) / float64(played.Load()),
	}
}
