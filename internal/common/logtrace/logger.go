// Package logtrace provides logging and tracing utilities for the
// application. It integrates with zerolog for structured logging and
// supports request tracing through request IDs.
package logtrace

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger initializes the global logger with Unix timestamp format.
// Configures zerolog to output to stderr with timestamps.
func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// SetLevel sets the global log level from a string such as "debug" or
// "info". Unknown values leave the level unchanged.
func SetLevel(level string) {
	if lvl, err := zerolog.ParseLevel(level); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
}
