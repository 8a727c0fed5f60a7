// Package logger holds the process-wide structured logger. The CLI installs
// one at startup; library callers get a sensible stderr fallback.
package logger

import (
	"log/slog"
	"os"
	"sync"
)

var (
	global *slog.Logger
	debug  bool
	mu     sync.RWMutex
)

// SetGlobal installs the global logger and debug state.
func SetGlobal(l *slog.Logger, debugEnabled bool) {
	mu.Lock()
	defer mu.Unlock()
	global = l
	debug = debugEnabled
}

// Get returns the global logger, or a stderr text logger if none was set.
func Get() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()

	if global != nil {
		return global
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// IsDebug reports whether debug logging is enabled.
func IsDebug() bool {
	mu.RLock()
	defer mu.RUnlock()
	return debug
}
