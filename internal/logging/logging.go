// Package logging builds the process-wide zerolog logger.
package logging

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger writing JSON to stderr. In debug mode it
// switches to the human-readable console writer and lowers the
// level to Debug.
func New(debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	var out = os.Stderr
	ctx := zerolog.New(out)
	if debug {
		level = zerolog.DebugLevel
		ctx = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen})
	}
	return ctx.Level(level).With().Timestamp().Logger()
}
