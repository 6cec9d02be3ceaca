// Package logging wraps zerolog with the console-writer setup used by the
// httpapi and cmd packages, so every component that logs goes through one
// configured sink instead of each importing zerolog directly.
package logging

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var Logger zerolog.Logger

func init() {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	}
	Logger = zerolog.New(output).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Logger()
	log.Logger = Logger
}

// Info logs an info-level event.
func Info() *zerolog.Event { return Logger.Info() }

// Error logs an error-level event.
func Error() *zerolog.Event { return Logger.Error() }

// Warn logs a warning-level event.
func Warn() *zerolog.Event { return Logger.Warn() }

// Debug logs a debug-level event.
func Debug() *zerolog.Event { return Logger.Debug() }

// Fatal logs a fatal-level event and exits.
func Fatal() *zerolog.Event { return Logger.Fatal() }

// SetDebugMode switches the logger to debug level, used by cmd/golemdb-sql's
// -v flag.
func SetDebugMode() {
	Logger = Logger.Level(zerolog.DebugLevel)
	log.Logger = Logger
}
