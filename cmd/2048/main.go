// Command 2048 plays one game with a chosen decision policy, or a batch of
// games with Heuristic players, and reports the outcome.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/seekerror/build"
	"github.com/seekerror/stdlib/pkg/lang"

	"github.com/twofortyeight/engine/pkg/board"
	"github.com/twofortyeight/engine/pkg/config"
	"github.com/twofortyeight/engine/pkg/eval"
	"github.com/twofortyeight/engine/pkg/game"
	"github.com/twofortyeight/engine/pkg/logging"
	"github.com/twofortyeight/engine/pkg/search"
	"github.com/twofortyeight/engine/pkg/sim"
)

var version = build.NewVersion(0, 1, 0)

func usage() {
	fmt.Fprint(os.Stderr, `usage: 2048 [options]

2048 plays one game with a chosen decision policy, or a batch of games.
A batch (more than one game) always uses Heuristic players on fresh
boards; -p and -is apply to single-game runs only.
Options:
  -p <H|R|E>                 player type: Heuristic, Random, Expectimax (default H)
  -n <int>                   number of games (default 1)
  -t <int>                   number of worker threads (default 1)
  -is, --initial-state <hex> 64-bit hex board (0x-prefixed or not)
  -sc, --sim-config [path]   load simulation config (default configurations/sim_config.json)
  -l, --log-level <e|w|i|d>  error|warning|info|debug (default i)
  -lc, --log-config [path]   load logger config (default configurations/logger_config.json)
  -lf, --log-file <path>     enable file output, appending every log line to path
  -v, --verbose              print the active player's evaluator weights before playing
  -h, --help                 print this help and exit 0
`)
}

// options collects parsed CLI arguments. Parsed manually (not via package
// flag) because -sc/-lc take an *optional* value, peeked ahead from the
// next argument only if it doesn't itself look like a flag -- the same
// ambiguity resolved the same way C-style CLI parsers usually do.
type options struct {
	player       string
	numGames     int
	numThreads   int
	initialState string
	simConfig    string
	useSimConfig bool
	logLevel     string
	loggerConfig string
	useLogConfig bool
	logFile      string
	verbose      bool
}

func defaultOptions() options {
	return options{player: "H", numGames: 1, numThreads: 1, logLevel: "i"}
}

func parseArgs(args []string) (options, error) {
	opt := defaultOptions()

	peekValue := func(i int, def string) (string, int) {
		if i+1 < len(args) && len(args[i+1]) > 0 && args[i+1][0] != '-' {
			return args[i+1], i + 1
		}
		return def, i
	}

	for i := 0; i < len(args); i++ {
		a := args[i]
		switch a {
		case "-h", "--help":
			usage()
			os.Exit(0)
		case "-p":
			i++
			if i >= len(args) {
				return opt, fmt.Errorf("missing value for -p")
			}
			opt.player = args[i]
		case "-n":
			i++
			if i >= len(args) {
				return opt, fmt.Errorf("missing value for -n")
			}
			if _, err := fmt.Sscanf(args[i], "%d", &opt.numGames); err != nil {
				return opt, fmt.Errorf("invalid -n value %q", args[i])
			}
		case "-t":
			i++
			if i >= len(args) {
				return opt, fmt.Errorf("missing value for -t")
			}
			if _, err := fmt.Sscanf(args[i], "%d", &opt.numThreads); err != nil {
				return opt, fmt.Errorf("invalid -t value %q", args[i])
			}
		case "-is", "--initial-state":
			i++
			if i >= len(args) {
				return opt, fmt.Errorf("missing value for %s", a)
			}
			opt.initialState = args[i]
		case "-sc", "--sim-config":
			opt.useSimConfig = true
			opt.simConfig, i = peekValue(i, "configurations/sim_config.json")
		case "-l", "--log-level":
			i++
			if i >= len(args) {
				return opt, fmt.Errorf("missing value for %s", a)
			}
			opt.logLevel = args[i]
		case "-lc", "--log-config":
			opt.useLogConfig = true
			opt.loggerConfig, i = peekValue(i, "configurations/logger_config.json")
		case "-lf", "--log-file":
			i++
			if i >= len(args) {
				return opt, fmt.Errorf("missing value for %s", a)
			}
			opt.logFile = args[i]
		case "-v", "--verbose":
			opt.verbose = true
		default:
			return opt, fmt.Errorf("unknown flag %q", a)
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

	if opt.useLogConfig {
		config.LoadLoggerConfig(log, opt.loggerConfig).Apply(log)
	} else if level, ok := logging.ParseLevel(opt.logLevel); ok {
		log.Configure(level, nil)
	} else {
		fmt.Fprintln(os.Stderr, "error: unknown log level", opt.logLevel)
		usage()
		os.Exit(1)
	}

	if opt.logFile != "" {
		if err := log.SetLogFile(opt.logFile); err != nil {
			fmt.Fprintln(os.Stderr, "error: log file", opt.logFile, err)
			os.Exit(1)
		}
	}

	simCfg := config.DefaultSimConfig()
	simCfg.NumGames = opt.numGames
	simCfg.NumThreads = opt.numThreads
	if opt.useSimConfig {
		simCfg = config.LoadSimConfig(log, opt.simConfig)
	}
	if opt.initialState != "" {
		s, ok := config.ParseHexState(opt.initialState)
		if !ok {
			fmt.Fprintln(os.Stderr, "error: invalid --initial-state", opt.initialState)
			usage()
			os.Exit(1)
		}
		simCfg.InitialState = lang.Some(s)
	}

	params := eval.Preset("standard")

	switch opt.player {
	case "H", "R", "E":
		// valid
	default:
		fmt.Fprintln(os.Stderr, "error: unknown player type", opt.player)
		usage()
		os.Exit(1)
	}

	log.Infof(ctx, logging.Main, "2048 engine %v starting: player=%s games=%d threads=%d", version, opt.player, simCfg.NumGames, simCfg.NumThreads)

	if opt.verbose {
		fmt.Fprint(os.Stderr, params.Report())
	}

	if simCfg.NumGames <= 1 {
		// Single-game mode: run exactly one game (optionally from an
		// explicit initial state) with the requested policy and report
		// the play-through result directly.
		playSingle(ctx, log, opt.player, params, simCfg.InitialState)
		return
	}

	result := sim.RunParallel(ctx, log, params, simCfg.NumGames, simCfg.NumThreads, simCfg.ProgressInterval)
	log.Infof(ctx, logging.Main, "done: games=%d avgScore=%.1f bestScore=%d bestMoves=%d",
		result.GamesPlayed, result.AvgScore, result.BestScore, result.BestMoveCount)
}

func playSingle(ctx context.Context, log *logging.Logger, player string, params eval.Params, initial lang.Optional[board.State]) {
	var policy interface {
		ChooseAction(ctx context.Context, s board.State) search.ChosenAction
	}

	switch player {
	case "R":
		policy = search.NewRandom()
	case "E":
		policy = search.NewExpectimax(3, 1*time.Second, true, params)
	default:
		policy = search.NewHeuristic(params)
	}

	g := game.New(log)
	score, state, moves := g.PlayGame(ctx, policy, initial)
	log.Infof(ctx, logging.Main, "game over: score=%d moves=%d\n%v", score, moves, state)
}
