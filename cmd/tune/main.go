// Command tune runs the genetic heuristic-weight tuner: evolve a
// population of evaluator parameter sets against self-play scores and
// report the best parameters found.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/seekerror/build"

	"github.com/twofortyeight/engine/pkg/logging"
	"github.com/twofortyeight/engine/pkg/sim"
)

var version = build.NewVersion(0, 1, 0)

func usage() {
	fmt.Fprint(os.Stderr, `usage: tune [options]

tune evolves a population of evaluator parameter sets by self-play.
Options:
  -pop <int>       population size (default 20)
  -gen <int>       max generations (default 50)
  -games <int>     games per evaluation per record (default 20)
  -t <int>         worker threads (default 1)
  -elite <float>   elite carryover fraction (default 0.2)
  -rate <float>    initial mutation rate (default 0.1)
  -stall <int>     stop after this many stalled generations (default 5)
  -every <int>     checkpoint every N generations (default 5)
  -out <dir>       output directory for checkpoints/reports (default .)
  -seed <int>      PRNG seed (default 1)
  -l, --log-level <e|w|i|d>  error|warning|info|debug (default i)
  -h, --help       print this help and exit 0
`)
}

type options struct {
	popSize    int
	gens       int
	games      int
	threads    int
	elite      float64
	rate       float64
	stall      int
	every      int
	outDir     string
	seed       int64
	logLevel   string
}

func defaultOptions() options {
	return options{popSize: 20, gens: 50, games: 20, threads: 1, elite: 0.2, rate: 0.1, stall: 5, every: 5, outDir: ".", seed: 1, logLevel: "i"}
}

func parseArgs(args []string) (options, error) {
	opt := defaultOptions()
	for i := 0; i < len(args); i++ {
		a := args[i]
		next := func() (string, error) {
			i++
			if i >= len(args) {
				return "", fmt.Errorf("missing value for %s", a)
			}
			return args[i], nil
		}
		var err error
		var v string
		switch a {
		case "-h", "--help":
			usage()
			os.Exit(0)
		case "-pop":
			if v, err = next(); err == nil {
				_, err = fmt.Sscanf(v, "%d", &opt.popSize)
			}
		case "-gen":
			if v, err = next(); err == nil {
				_, err = fmt.Sscanf(v, "%d", &opt.gens)
			}
		case "-games":
			if v, err = next(); err == nil {
				_, err = fmt.Sscanf(v, "%d", &opt.games)
			}
		case "-t":
			if v, err = next(); err == nil {
				_, err = fmt.Sscanf(v, "%d", &opt.threads)
			}
		case "-elite":
			if v, err = next(); err == nil {
				_, err = fmt.Sscanf(v, "%g", &opt.elite)
			}
		case "-rate":
			if v, err = next(); err == nil {
				_, err = fmt.Sscanf(v, "%g", &opt.rate)
			}
		case "-stall":
			if v, err = next(); err == nil {
				_, err = fmt.Sscanf(v, "%d", &opt.stall)
			}
		case "-every":
			if v, err = next(); err == nil {
				_, err = fmt.Sscanf(v, "%d", &opt.every)
			}
		case "-out":
			opt.outDir, err = next()
		case "-seed":
			if v, err = next(); err == nil {
				_, err = fmt.Sscanf(v, "%d", &opt.seed)
			}
		case "-l", "--log-level":
			opt.logLevel, err = next()
		default:
			return opt, fmt.Errorf("unknown flag %q", a)
		}
		if err != nil {
			return opt, err
		}
	}
	return opt, nil
}

func main() {
	ctx := context.Background()
	log := logging.New(logging.Info)

	opt, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		usage()
		os.Exit(1)
	}
	if level, ok := logging.ParseLevel(opt.logLevel); ok {
		log.Configure(level, nil)
	}

	if err := os.MkdirAll(opt.outDir, 0755); err != nil {
		fmt.Fprintln(os.Stderr, "error: creating output dir:", err)
		os.Exit(1)
	}

	log.Infof(ctx, logging.Main, "tune %v starting: pop=%d gen=%d games=%d threads=%d", version, opt.popSize, opt.gens, opt.games, opt.threads)

	tuner := sim.New(log, sim.Options{
		PopulationSize:      opt.popSize,
		Generations:         opt.gens,
		GamesPerEvaluation:  opt.games,
		NumThreads:          opt.threads,
		ElitePercentage:     opt.elite,
		InitialMutationRate: opt.rate,
		CheckpointEvery:     opt.every,
		StallGenerations:    opt.stall,
	}, opt.seed)

	best := tuner.Run(ctx, func(gen sim.Generation) {
		log.Infof(ctx, logging.Tuner, "generation %d: best avgScore=%.1f maxScore=%d", gen.Index, gen.Best.AvgScore, gen.Best.MaxScore)

		if gen.Index%opt.every == 0 || gen.Stopped {
			path := fmt.Sprintf("%s/population_gen%03d.csv", opt.outDir, gen.Index)
			if err := sim.WritePopulationCSV(path, gen.Index, gen.Population); err != nil {
				log.Warnf(ctx, logging.Tuner, "writing %s: %v", path, err)
			}
		}
	})

	if err := sim.WriteBestText(opt.outDir+"/best.txt", best); err != nil {
		log.Warnf(ctx, logging.Tuner, "writing best.txt: %v", err)
	}
	if err := sim.WriteBestJSON(opt.outDir+"/best.json", best); err != nil {
		log.Warnf(ctx, logging.Tuner, "writing best.json: %v", err)
	}

	log.Infof(ctx, logging.Main, "done: bestAvgScore=%.1f bestMaxScore=%d", best.AvgScore, best.MaxScore)
}
