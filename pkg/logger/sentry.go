package logger

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

const defaultSentryFlush = 2 * time.Second

// newSentryHandler initialises the SDK for cfg.DSN. It yields nil with no
// DSN, and also when init fails, after logging the failure to fallback.
func newSentryHandler(cfg SentryConfig, fallback slog.Handler) slog.Handler {
	if cfg.DSN == "" {
		return nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		Release:     cfg.Release,
		EnableLogs:  true,
	})
	if err != nil {
		slog.New(fallback).Error("sentry disabled", Error(err))
		return nil
	}

	opt := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   []slog.Level{slog.LevelWarn, slog.LevelError},
	}
	if strings.EqualFold(cfg.MinLevel, "error") {
		opt.LogLevel = opt.EventLevel
	}
	return opt.NewSentryHandler(context.Background())
}

// FlushSentry is a shutdown hook that waits for queued Sentry events until
// the context deadline, or two seconds without one. It does nothing when
// Sentry is off.
func FlushSentry() func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if sentry.CurrentHub().Client() == nil {
			return nil
		}
		wait := defaultSentryFlush
		if deadline, ok := ctx.Deadline(); ok {
			wait = time.Until(deadline)
		}
		if !sentry.Flush(wait) {
			return ErrSentryFlush
		}
		return nil
	}
}
