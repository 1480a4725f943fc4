package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/twofortyeight/engine/pkg/board"
	"github.com/twofortyeight/engine/pkg/config"
	"github.com/twofortyeight/engine/pkg/logging"
)

func TestParseHexState(t *testing.T) {
	s, ok := config.ParseHexState("0x1234")
	require.True(t, ok)
	assert.Equal(t, board.State(0x1234), s)

	s, ok = config.ParseHexState("ABCD")
	require.True(t, ok)
	assert.Equal(t, board.State(0xABCD), s)

	_, ok = config.ParseHexState("not-hex")
	assert.False(t, ok)
}

func TestDefaultSimConfig(t *testing.T) {
	def := config.DefaultSimConfig()
	assert.Equal(t, 1, def.NumGames)
	assert.Equal(t, 1, def.NumThreads)

	_, ok := def.InitialState.V()
	assert.False(t, ok)
}

func TestLoadSimConfigMissingFileFallsBackToDefault(t *testing.T) {
	cfg := config.LoadSimConfig(nil, filepath.Join(t.TempDir(), "missing.json"))
	assert.Equal(t, config.DefaultSimConfig().NumGames, cfg.NumGames)
}

func TestLoadSimConfigParsesInitialState(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sim.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"numGames":5,"numThreads":2,"initialState":"0x10"}`), 0644))

	cfg := config.LoadSimConfig(nil, path)
	assert.Equal(t, 5, cfg.NumGames)
	assert.Equal(t, 2, cfg.NumThreads)

	s, ok := cfg.InitialState.V()
	require.True(t, ok)
	assert.Equal(t, board.State(0x10), s)
}

func TestLoadLoggerConfigDefaultsOnMissingFile(t *testing.T) {
	cfg := config.LoadLoggerConfig(nil, filepath.Join(t.TempDir(), "missing.json"))
	assert.Equal(t, "info", cfg.Level)
}

func TestLoggerConfigApplyDoesNotPanic(t *testing.T) {
	log := logging.New(logging.Error)
	cfg := config.LoggerConfig{Level: "debug", Groups: map[string]bool{"Main": true}}
	assert.NotPanics(t, func() { cfg.Apply(log) })
}

func TestLoadLoggerConfigParsesFileSink(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "logger.json")
	logPath := filepath.Join(dir, "out.log")
	require.NoError(t, os.WriteFile(path, []byte(`{"level":"debug","logToFile":true,"logFile":"`+logPath+`"}`), 0644))

	cfg := config.LoadLoggerConfig(nil, path)
	assert.True(t, cfg.LogToFile)
	assert.Equal(t, logPath, cfg.LogFile)
}

func TestLoggerConfigApplyOpensLogFile(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "out.log")

	log := logging.New(logging.Info)
	cfg := config.LoggerConfig{Level: "info", LogToFile: true, LogFile: logPath}
	cfg.Apply(log)

	log.Infof(context.Background(), logging.Main, "hello %s", "world")

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello world")
}
