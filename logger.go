package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

var logger zerolog.Logger

func init() {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	logger = zerolog.New(output).With().Timestamp().Logger().Level(zerolog.InfoLevel)
}

// SetLoggerLevel sets the minimum level the logger emits.
func SetLoggerLevel(level zerolog.Level) {
	logger = logger.Level(level)
}

// DisableLogger sets the logger to a no-op.
func DisableLogger() {
	logger = zerolog.Nop()
}
