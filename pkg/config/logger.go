package config

import (
	"context"
	"encoding/json"
	"os"

	"github.com/twofortyeight/engine/pkg/logging"
)

// LoggerConfig mirrors the logger config JSON: minimum level, the set of
// enabled logging groups, and the file sink. LogToFile/LogFile are the only
// fields of the original's logger config with observable behavior beyond
// level/groups (console wait-on-exit and compact board printing have no
// analogue here and are dropped, see DESIGN.md); when LogToFile is set,
// every emitted line is additionally appended to LogFile.
type LoggerConfig struct {
	Level     string          `json:"level"`
	Groups    map[string]bool `json:"groups"`
	LogToFile bool            `json:"logToFile"`
	LogFile   string          `json:"logFile"`
}

// DefaultLoggerConfig enables every group at Info level.
func DefaultLoggerConfig() LoggerConfig {
	return LoggerConfig{Level: "info"}
}

// LoadLoggerConfig reads and parses path, falling back to
// DefaultLoggerConfig on any I/O or parse failure.
func LoadLoggerConfig(log *logging.Logger, path string) LoggerConfig {
	if log == nil {
		log = logging.Default
	}

	def := DefaultLoggerConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warnf(context.Background(), logging.LoggerGrp, "logger config %q: %v, using defaults", path, err)
		return def
	}

	var cfg LoggerConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		log.Warnf(context.Background(), logging.LoggerGrp, "logger config %q: %v, using defaults", path, err)
		return def
	}
	if cfg.Level == "" {
		cfg.Level = def.Level
	}
	return cfg
}

// Apply builds the enabled-group set from the logger config and
// reconfigures log with it before any workers spawn. If LogToFile is set,
// it also opens LogFile as a second sink.
func (c LoggerConfig) Apply(log *logging.Logger) {
	level, ok := logging.ParseLevel(c.Level)
	if !ok {
		level = logging.Info
	}

	enabled := make(map[logging.Group]bool, len(c.Groups))
	for name, on := range c.Groups {
		enabled[logging.Group(name)] = on
	}
	log.Configure(level, enabled)

	if c.LogToFile && c.LogFile != "" {
		if err := log.SetLogFile(c.LogFile); err != nil {
			log.Warnf(context.Background(), logging.LoggerGrp, "log file %q: %v, continuing without file output", c.LogFile, err)
		}
	}
}
