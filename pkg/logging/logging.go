// Package logging adds per-subsystem group gating on top of logw's ctx-first
// structured logging.
package logging

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/seekerror/logw"
)

// Group identifies a logging subsystem. The set is fixed by the logger
// config contract: {Board,Evaluation,AI,Game,Logger,Parser,Main,Tuner}.
type Group string

const (
	Board      Group = "Board"
	Evaluation Group = "Evaluation"
	AI         Group = "AI"
	Game       Group = "Game"
	LoggerGrp  Group = "Logger"
	Parser     Group = "Parser"
	Main       Group = "Main"
	Tuner      Group = "Tuner"
)

// Level is the minimum severity a message must have to be emitted.
type Level int

const (
	Error Level = iota
	Warning
	Info
	Debug
)

// ParseLevel parses the single-letter or full-word level codes accepted by
// the CLI and logger config (case-insensitive): e|error, w|warning, i|info, d|debug.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(s) {
	case "e", "error":
		return Error, true
	case "w", "warning":
		return Warning, true
	case "i", "info":
		return Info, true
	case "d", "debug":
		return Debug, true
	default:
		return 0, false
	}
}

// Logger gates logw calls by minimum level and by enabled group, and
// optionally duplicates every emitted line to a log file on top of logw's
// console sink. The zero value has level Error and every group enabled, so
// it emits only Error messages; use New to pick a level.
type Logger struct {
	mu     sync.RWMutex
	level  Level
	groups map[Group]bool // nil/empty means "all enabled"

	fileMu sync.Mutex
	file   *os.File
}

// New constructs a Logger at the given level with the given set of enabled
// groups. An empty set enables every group.
func New(level Level, enabled ...Group) *Logger {
	l := &Logger{level: level}
	if len(enabled) > 0 {
		l.groups = make(map[Group]bool, len(enabled))
		for _, g := range enabled {
			l.groups[g] = true
		}
	}
	return l
}

// Configure swaps the level and enabled-group set under the logger's lock,
// so concurrent log calls see either the old or the new settings. Callers
// configure once before spawning workers and do not reconfigure during a
// run.
func (l *Logger) Configure(level Level, enabled map[Group]bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.level = level
	if len(enabled) == 0 {
		l.groups = nil
		return
	}
	l.groups = make(map[Group]bool, len(enabled))
	for g, on := range enabled {
		if on {
			l.groups[g] = true
		}
	}
}

func (l *Logger) enabled(g Group, lvl Level) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if lvl > l.level {
		return false
	}
	return l.groups == nil || l.groups[g]
}

// SetLogFile opens path for appending and duplicates every emitted line to
// it from then on, in addition to logw's console sink. Closes any file a
// prior call opened.
func (l *Logger) SetLogFile(path string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	l.fileMu.Lock()
	defer l.fileMu.Unlock()
	if l.file != nil {
		l.file.Close()
	}
	l.file = f
	return nil
}

func (l *Logger) writeFile(level string, g Group, format string, args ...any) {
	l.fileMu.Lock()
	f := l.file
	l.fileMu.Unlock()
	if f == nil {
		return
	}
	fmt.Fprintf(f, "["+level+"] ["+string(g)+"] "+format+"\n", args...)
}

func (l *Logger) Debugf(ctx context.Context, g Group, format string, args ...any) {
	if l.enabled(g, Debug) {
		logw.Debugf(ctx, "["+string(g)+"] "+format, args...)
		l.writeFile("Debug", g, format, args...)
	}
}

func (l *Logger) Infof(ctx context.Context, g Group, format string, args ...any) {
	if l.enabled(g, Info) {
		logw.Infof(ctx, "["+string(g)+"] "+format, args...)
		l.writeFile("Info", g, format, args...)
	}
}

func (l *Logger) Warnf(ctx context.Context, g Group, format string, args ...any) {
	if l.enabled(g, Warning) {
		logw.Warnf(ctx, "["+string(g)+"] "+format, args...)
		l.writeFile("Warning", g, format, args...)
	}
}

func (l *Logger) Errorf(ctx context.Context, g Group, format string, args ...any) {
	if l.enabled(g, Error) {
		logw.Errorf(ctx, "["+string(g)+"] "+format, args...)
		l.writeFile("Error", g, format, args...)
	}
}

// Default is the process-wide logger used by packages that don't carry an
// explicit Logger reference. Prefer threading an explicit handle wherever a
// constructor is reachable -- Default exists only to give leaf helpers that
// have no constructor (e.g. package-level one-off warnings) somewhere to log.
var Default = New(Info)
