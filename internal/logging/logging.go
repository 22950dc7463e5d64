// Package logging wraps zerolog behind a small package-level API so call
// sites stay one import away from structured logging.
package logging

import (
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu     sync.RWMutex
	logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
)

// Init configures the global logger. level is one of debug, info, warn,
// error; format is "json" or "console". Safe to call once at startup.
func Init(level, format string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	var l zerolog.Logger
	if strings.ToLower(format) == "console" {
		l = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	} else {
		l = zerolog.New(os.Stderr)
	}
	l = l.Level(lvl).With().Timestamp().Logger()

	mu.Lock()
	logger = l
	mu.Unlock()
}

func get() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := logger
	return &l
}

func Debug() *zerolog.Event { return get().Debug() }
func Info() *zerolog.Event  { return get().Info() }
func Warn() *zerolog.Event  { return get().Warn() }
func Error() *zerolog.Event { return get().Error() }

// Fatal logs and exits with status 1.
func Fatal() *zerolog.Event { return get().Fatal() }
