// Package logger provides a configured zerolog instance.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/ilindan-dev/webhook-notifier/internal/config"
	"github.com/rs/zerolog"
)

// NewLogger creates a new configured instance of zerolog.Logger.
// It reads the log level from the config and adds default fields like service name and caller.
func NewLogger(cfg *config.Config) (*zerolog.Logger, error) {
	return newLogger(cfg, os.Stderr), nil
}

func newLogger(cfg *config.Config, out io.Writer) *zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Logger.Level))
	if err != nil || level == zerolog.NoLevel {
		// Default to info level if config is invalid or missing
		level = zerolog.InfoLevel
	}

	// Pretty console output for local runs, raw JSON for log shippers.
	w := out
	if cfg.Logger.Format != "json" {
		w = zerolog.ConsoleWriter{Out: out}
	}

	logger := zerolog.New(w).With().
		Timestamp().
		Str("service", "webhook-notifier").
		Caller().
		Logger().
		Level(level)

	return &logger
}
