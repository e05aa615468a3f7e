package infra

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger constructs the service-wide zerolog.Logger. Development gets a
// human console writer at debug level; everything else emits JSON at info.
func NewLogger(appEnv string) zerolog.Logger {
	logger := zerolog.New(os.Stdout).
		Level(levelFor(appEnv)).
		With().
		Timestamp().
		Str("service", "creativesuite").
		Logger()

	if appEnv == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	return logger
}

func levelFor(appEnv string) zerolog.Level {
	if appEnv == "development" {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

// Logger aliases zerolog.Logger so callers outside the infra package can depend
// on the logging contract without importing the third-party module directly.
type Logger = zerolog.Logger
