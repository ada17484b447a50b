// Package logger builds the zerolog logger every binary starts from.
package logger

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New returns a logger tagged with the service name, writing JSON lines to
// stdout. Level comes from DAYBOOK_LOG_LEVEL (default info). The global
// zerolog/log logger is pointed at the same sink so package-level logging in
// internal/ shares it.
func New(serviceName string) zerolog.Logger {
	level := zerolog.InfoLevel
	if raw := os.Getenv("DAYBOOK_LOG_LEVEL"); raw != "" {
		if parsed, err := zerolog.ParseLevel(raw); err == nil {
			level = parsed
		}
	}

	l := zerolog.New(os.Stdout).Level(level).With().
		Str("service", serviceName).
		Timestamp().
		Logger()
	log.Logger = l
	return l
}
