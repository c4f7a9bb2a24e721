package logger

import (
	"fmt"
	"log/slog"
	"strings"
)

// Config controls the process-wide logger.
type Config struct {
	// Level is one of debug, info, warn, error.
	Level string `env:"LOG_LEVEL" env-default:"info" yaml:"level"`
	// Format is json or text.
	Format string `env:"LOG_FORMAT" env-default:"json" yaml:"format"`
	// AddSource adds file:line to every record.
	AddSource bool `env:"LOG_ADD_SOURCE" env-default:"false" yaml:"add_source"`

	Sentry SentryConfig `yaml:"sentry"`
}

// SentryConfig holds Sentry integration settings. An empty DSN disables Sentry.
type SentryConfig struct {
	DSN         string `env:"SENTRY_DSN" yaml:"dsn"`
	Environment string `env:"SENTRY_ENVIRONMENT" env-default:"production" yaml:"environment"`
	Release     string `env:"SENTRY_RELEASE" yaml:"release"`
	// MinLevel selects which records are stored as Sentry logs: warn or error.
	// Errors always create issues.
	MinLevel string `env:"SENTRY_MIN_LEVEL" env-default:"warn" yaml:"min_level"`
}

// ParseLevel converts a level name to slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
	}
}
