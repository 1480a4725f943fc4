package sim

import (
	"context"
	"math"
	"math/rand"
	"sort"
	"sync"

	"github.com/seekerror/stdlib/pkg/lang"

	"github.com/twofortyeight/engine/pkg/board"
	"github.com/twofortyeight/engine/pkg/eval"
	"github.com/twofortyeight/engine/pkg/game"
	"github.com/twofortyeight/engine/pkg/logging"
	"github.com/twofortyeight/engine/pkg/search"
)

// activeNames is the fixed component order the tuner mutates over --
// coreScore is excluded (never implemented; see DESIGN.md) even though it
// still appears as a placeholder column in the Population CSV (csv.go).
func activeNames() []string {
	return eval.Names[:len(eval.Names)-1]
}

// Record is one population member: a parameter set plus its last
// evaluation.
type Record struct {
	Params      eval.Params
	AvgScore    float64
	MaxScore    uint64
	GamesPlayed int
	scored      bool
}

func cloneParams(p eval.Params) eval.Params {
	out := make(eval.Params, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// orderedActive returns the names present in p with positive weight, in
// activeNames() order.
func orderedActive(p eval.Params) []string {
	var out []string
	for _, n := range activeNames() {
		if w, ok := p[n]; ok && w > 0 {
			out = append(out, n)
		}
	}
	return out
}

func normalizeSum1000(p eval.Params) {
	var total float64
	for _, w := range p {
		total += w
	}
	if total == 0 {
		return
	}
	for k, w := range p {
		p[k] = w * 1000 / total
	}
}

// rescaleInt rounds p's active weights so they sum to exactly 1000,
// assigning the rounding residual to the last active component in
// activeNames() order.
func rescaleInt(p eval.Params) {
	order := orderedActive(p)
	if len(order) == 0 {
		return
	}

	var total float64
	for _, n := range order {
		total += p[n]
	}
	if total == 0 {
		// Degenerate case: give every active component an equal share.
		share := math.Round(1000 / float64(len(order)))
		for _, n := range order {
			p[n] = share
		}
		p[order[len(order)-1]] += 1000 - share*float64(len(order))
		return
	}

	scale := 1000 / total
	var sum int
	for i, n := range order {
		if i == len(order)-1 {
			p[n] = float64(1000 - sum)
			continue
		}
		rw := int(math.Round(p[n] * scale))
		p[n] = float64(rw)
		sum += rw
	}
}

// randomInit independently flips each component on with probability 0.5
// until at least 2 are active, draws each active weight from U(0,1), and
// scales the result to sum 1000.
func randomInit(rng *rand.Rand) eval.Params {
	names := activeNames()
	for {
		p := make(eval.Params)
		for _, n := range names {
			if rng.Float64() < 0.5 {
				p[n] = rng.Float64()
			}
		}
		if len(p) >= 2 {
			normalizeSum1000(p)
			return p
		}
	}
}

// mutate copies the parent's active component set, probabilistically
// removes/adds one component, perturbs surviving pre-existing components
// by N(0, rate*1000) floored at 0, draws a fresh U[50,250] weight for any
// newly added component, and rescales to sum exactly 1000.
func mutate(parent eval.Params, rate float64, rng *rand.Rand) eval.Params {
	child := cloneParams(parent)
	names := activeNames()

	preActive := orderedActive(child)

	if rng.Float64() < 0.25 && len(preActive) >= 3 {
		victim := preActive[rng.Intn(len(preActive))]
		delete(child, victim)
		preActive = orderedActive(child)
	}

	var added string
	if rng.Float64() < 0.25 {
		var inactive []string
		for _, n := range names {
			if _, ok := child[n]; !ok {
				inactive = append(inactive, n)
			}
		}
		if len(inactive) > 0 {
			added = inactive[rng.Intn(len(inactive))]
			child[added] = 50 + rng.Float64()*200
		}
	}

	for _, n := range preActive {
		w := child[n] + rng.NormFloat64()*rate*1000
		if w < 0 {
			w = 0
		}
		child[n] = w
	}

	rescaleInt(child)
	return child
}

// tournamentSelect runs a size-s tournament (with replacement) and returns
// the winner (highest AvgScore).
func tournamentSelect(pop []Record, size int, rng *rand.Rand) Record {
	if size > len(pop) {
		size = len(pop)
	}
	if size < 1 {
		size = 1
	}

	winner := pop[rng.Intn(len(pop))]
	for i := 1; i < size; i++ {
		c := pop[rng.Intn(len(pop))]
		if c.AvgScore > winner.AvgScore {
			winner = c
		}
	}
	return winner
}

// Options configures a genetic tuning run.
type Options struct {
	PopulationSize      int
	Generations         int
	GamesPerEvaluation  int
	NumThreads          int
	ElitePercentage     float64
	InitialMutationRate float64
	CheckpointEvery     int // every N generations; default 5 if zero
	StallGenerations    int // stop after this many generations without improvement; default 5 if zero
}

// Tuner runs the genetic tuning generation loop.
type Tuner struct {
	log *logging.Logger
	rng *rand.Rand
	opt Options
}

// New builds a Tuner with the given options and seed.
func New(log *logging.Logger, opt Options, seed int64) *Tuner {
	if log == nil {
		log = logging.Default
	}
	if opt.CheckpointEvery <= 0 {
		opt.CheckpointEvery = 5
	}
	if opt.StallGenerations <= 0 {
		opt.StallGenerations = 5
	}
	return &Tuner{log: log, rng: rand.New(rand.NewSource(seed)), opt: opt}
}

// Generation is the outcome of one generation, for Run's caller to persist
// (CSV/text/JSON/checkpoint writers live in csv.go; the Tuner itself stays
// free of file-format concerns so tests can drive it without touching
// disk).
type Generation struct {
	Index       int
	Population  []Record // sorted descending by AvgScore
	Best        Record
	TopQuartile []Record
	Stopped     bool // true if this was the final generation (stall or exhausted)
}

// Run drives the full generation loop and invokes onGeneration after each
// generation is scored and sorted (for checkpoint/report writing). Returns
// the best record seen across all generations.
func (t *Tuner) Run(ctx context.Context, onGeneration func(Generation)) Record {
	pop := make([]Record, t.opt.PopulationSize)
	for i := range pop {
		pop[i] = Record{Params: randomInit(t.rng)}
	}

	var best Record
	noImprove := 0

	for gen := 0; gen < t.opt.Generations; gen++ {
		t.evaluate(ctx, pop)

		sort.Slice(pop, func(i, j int) bool { return pop[i].AvgScore > pop[j].AvgScore })

		improved := gen == 0 || pop[0].AvgScore > best.AvgScore
		if improved {
			best = pop[0]
			noImprove = 0
		} else {
			noImprove++
		}

		quartile := len(pop) / 4
		if quartile < 1 {
			quartile = 1
		}

		stopped := noImprove >= t.opt.StallGenerations || gen == t.opt.Generations-1
		if onGeneration != nil {
			onGeneration(Generation{
				Index:       gen,
				Population:  append([]Record(nil), pop...),
				Best:        best,
				TopQuartile: append([]Record(nil), pop[:quartile]...),
				Stopped:     stopped,
			})
		}
		if stopped {
			break
		}

		pop = t.nextGeneration(pop, gen)
	}
	return best
}

// evaluate scores every record with scored==false by playing
// GamesPerEvaluation games, parallelized across NumThreads workers each
// taking every W-th record. Each worker gets its own *rand.Rand, seeded
// from t.rng before any goroutine spawns: t.rng itself is only ever
// touched from the single goroutine driving Run, so seeding it here stays
// race-free while still making the whole run deterministic given Run's
// seed (one PRNG per worker, matching RunParallel's per-worker seeding).
func (t *Tuner) evaluate(ctx context.Context, pop []Record) {
	threads := t.opt.NumThreads
	if threads < 1 {
		threads = 1
	}

	seeds := make([]int64, threads)
	for w := range seeds {
		seeds[w] = t.rng.Int63()
	}

	var wg sync.WaitGroup
	for w := 0; w < threads; w++ {
		wg.Add(1)
		go func(start int, seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for i := start; i < len(pop); i += threads {
				if pop[i].scored {
					continue
				}
				pop[i] = t.evaluateOne(ctx, pop[i], rng)
			}
		}(w, seeds[w])
	}
	wg.Wait()
}

func (t *Tuner) evaluateOne(ctx context.Context, r Record, rng *rand.Rand) Record {
	policy := search.NewHeuristic(r.Params)
	g := game.NewWithSeed(t.log, rng.Int63())

	var sum, max uint64
	for i := 0; i < t.opt.GamesPerEvaluation; i++ {
		score, _, _ := g.PlayGame(ctx, policy, lang.Optional[board.State]{})
		sum += score
		if score > max {
			max = score
		}
	}

	r.AvgScore = float64(sum) / float64(t.opt.GamesPerEvaluation)
	r.MaxScore = max
	r.GamesPlayed = t.opt.GamesPerEvaluation
	r.scored = true
	return r
}

// nextGeneration carries over the top ElitePercentage fraction as elites
// (already scored, skipped by the next evaluate pass) and fills the rest
// via tournament-selected, mutated children.
func (t *Tuner) nextGeneration(pop []Record, gen int) []Record {
	eliteCount := int(float64(len(pop)) * t.opt.ElitePercentage)
	if eliteCount < 1 {
		eliteCount = 1
	}
	if eliteCount > len(pop) {
		eliteCount = len(pop)
	}

	next := make([]Record, 0, len(pop))
	next = append(next, pop[:eliteCount]...)

	rate := t.opt.InitialMutationRate * (1 - float64(gen)/float64(t.opt.Generations))
	if rate < 0 {
		rate = 0
	}

	for len(next) < len(pop) {
		parent := tournamentSelect(pop, 3, t.rng)
		child := mutate(parent.Params, rate, t.rng)
		next = append(next, Record{Params: child})
	}
	return next
}
