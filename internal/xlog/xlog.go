// Package xlog provides the engine's shared structured logger, a thin
// wrapper over zerolog with a console-friendly writer, in the style of
// github.com/domino14/macondo's package loggers.
package xlog

import (
	"os"

	"github.com/rs/zerolog"
)

// Logger is the package-wide logger for warnings and diagnostic
// events, used by the engine package. The evaluator's weight loader
// logs its retries through zerolog's global logger instead.
var Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
	With().
	Timestamp().
	Logger()

// SetLevel adjusts the minimum level that Logger emits.
func SetLevel(level zerolog.Level) {
	Logger = Logger.Level(level)
}
