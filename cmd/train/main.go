// Command train runs TD(0) self-play training of an n-tuple network value
// function, optionally Hogwild-parallel, and saves the resulting weights.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/seekerror/build"

	"github.com/twofortyeight/engine/pkg/logging"
	"github.com/twofortyeight/engine/pkg/ntuple"
	"github.com/twofortyeight/engine/pkg/tdl"
)

var version = build.NewVersion(0, 1, 0)

func usage() {
	fmt.Fprint(os.Stderr, `usage: train [options]

train runs TD(0) self-play training of an n-tuple network.
Options:
  -episodes <int>   number of training episodes (default 100000)
  -alpha <float>    TD learning rate (default 0.0025)
  -t <int>          worker threads for Hogwild-parallel training (default 1)
  -stats <int>      episodes between progress reports, 0 disables (default 1000)
  -seed <int>       PRNG seed (default 1)
  -in <path>        load an existing network before training (optional)
  -out <path>       save the trained network to this path (default network.bin)
  -l, --log-level <e|w|i|d>  error|warning|info|debug (default i)
  -h, --help        print this help and exit 0
`)
}

type options struct {
	episodes int
	alpha    float64
	threads  int
	stats    int
	seed     int64
	in       string
	out      string
	logLevel string
}

func defaultOptions() options {
	return options{episodes: 100000, alpha: 0.0025, threads: 1, stats: 1000, seed: 1, out: "network.bin", logLevel: "i"}
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
		case "-episodes":
			if v, err = next(); err == nil {
				_, err = fmt.Sscanf(v, "%d", &opt.episodes)
			}
		case "-alpha":
			if v, err = next(); err == nil {
				_, err = fmt.Sscanf(v, "%g", &opt.alpha)
			}
		case "-t":
			if v, err = next(); err == nil {
				_, err = fmt.Sscanf(v, "%d", &opt.threads)
			}
		case "-stats":
			if v, err = next(); err == nil {
				_, err = fmt.Sscanf(v, "%d", &opt.stats)
			}
		case "-seed":
			if v, err = next(); err == nil {
				_, err = fmt.Sscanf(v, "%d", &opt.seed)
			}
		case "-in":
			opt.in, err = next()
		case "-out":
			opt.out, err = next()
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

	network := ntuple.NewDefaultNetwork()
	if opt.in != "" {
		if err := network.Load(opt.in); err != nil {
			log.Warnf(ctx, logging.Main, "loading %s: %v, starting from fresh weights", opt.in, err)
		} else {
			log.Infof(ctx, logging.Main, "loaded network from %s", opt.in)
		}
	}

	log.Infof(ctx, logging.Main, "train %v starting: episodes=%d alpha=%g threads=%d network=%v", version, opt.episodes, opt.alpha, opt.threads, network)

	trainer := tdl.New(log, network, opt.alpha)
	trainer.Train(ctx, tdl.Options{
		Episodes:      opt.episodes,
		StatsInterval: opt.stats,
		NumThreads:    opt.threads,
		Seed:          opt.seed,
	})

	if err := network.Save(opt.out); err != nil {
		fmt.Fprintln(os.Stderr, "error: saving network:", err)
		os.Exit(1)
	}
	log.Infof(ctx, logging.Main, "saved trained network to %s", opt.out)
}
