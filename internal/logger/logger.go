// Package logger provides a configured zerolog logger.
package logger

import (
	"io"
	"strings"

	"github.com/rs/zerolog"
)

// New returns a zerolog.Logger writing JSON lines to w, tagged with the service name.
// Unknown level names fall back to info.
func New(w io.Writer, service, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(w).Level(lvl).With().
		Str("service", service).
		Timestamp().
		Logger()
}
