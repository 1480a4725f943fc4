// Package config implements the simulation and logger config JSON formats
// and CLI-adjacent parsing helpers, including a small hex-state parser.
package config

import (
	"context"
	"encoding/json"
	"os"
	"strconv"
	"strings"

	"github.com/seekerror/stdlib/pkg/lang"

	"github.com/twofortyeight/engine/pkg/board"
	"github.com/twofortyeight/engine/pkg/logging"
)

// SimConfig mirrors the simulation config JSON: numGames, numThreads,
// progressInterval, initialState. Unknown keys are ignored (stdlib json
// already does this); parse failures warn and keep DefaultSimConfig.
// InitialState is Optional rather than a bare board.State because the zero
// board.State value (an empty board) is itself a valid starting position,
// indistinguishable from "no override given" if a plain zero were used as
// the unset sentinel.
type SimConfig struct {
	NumGames         int
	NumThreads       int
	ProgressInterval int
	InitialState     lang.Optional[board.State]
}

// DefaultSimConfig is used when no config file is given or loading fails.
func DefaultSimConfig() SimConfig {
	return SimConfig{NumGames: 1, NumThreads: 1, ProgressInterval: 100}
}

// rawSimConfig lets InitialState be parsed from a hex string field while
// the rest of SimConfig uses plain json tags.
type rawSimConfig struct {
	NumGames         int    `json:"numGames"`
	NumThreads       int    `json:"numThreads"`
	ProgressInterval int    `json:"progressInterval"`
	InitialState     string `json:"initialState"`
}

// LoadSimConfig reads and parses path. On any I/O or parse failure it
// warns via log and returns DefaultSimConfig.
func LoadSimConfig(log *logging.Logger, path string) SimConfig {
	if log == nil {
		log = logging.Default
	}

	def := DefaultSimConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warnf(context.Background(), logging.Parser, "sim config %q: %v, using defaults", path, err)
		return def
	}

	var raw rawSimConfig
	if err := json.Unmarshal(data, &raw); err != nil {
		log.Warnf(context.Background(), logging.Parser, "sim config %q: %v, using defaults", path, err)
		return def
	}

	out := def
	if raw.NumGames > 0 {
		out.NumGames = raw.NumGames
	}
	if raw.NumThreads > 0 {
		out.NumThreads = raw.NumThreads
	}
	out.ProgressInterval = raw.ProgressInterval
	if raw.InitialState != "" {
		if s, ok := ParseHexState(raw.InitialState); ok {
			out.InitialState = lang.Some(s)
		} else {
			log.Warnf(context.Background(), logging.Parser, "sim config %q: invalid initialState %q, ignoring", path, raw.InitialState)
		}
	}
	return out
}

// ParseHexState parses a 64-bit board state from hex, accepting both
// 0x-prefixed and unprefixed input.
func ParseHexState(s string) (board.State, bool) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, false
	}
	return board.State(v), true
}
