package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New returns the process logger. Output is JSON on stderr; a console
// writer is used instead when running in dev for readable logs.
func New() zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	if os.Getenv("ENV") == "dev" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	return logger.Level(zerolog.InfoLevel)
}
