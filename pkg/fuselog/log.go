//go:build !logless

// Package fuselog supplies the process-wide structured logger for
// cmd/fusiond. internal/fusion never imports it: the
// estimator stays pure and silent (SPEC_FULL.md §7).
package fuselog

import (
	"os"

	"github.com/rs/zerolog"
	logger "github.com/rs/zerolog/log"
)

// Log is the shared logger, console-formatted for a terminal operator.
var Log = logger.With().Caller().Logger().Output(zerolog.ConsoleWriter{Out: os.Stderr})

func init() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
}

// SetLevel adjusts the global minimum log level, e.g. from cmd/fusiond's -rate flag.
func SetLevel(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}
