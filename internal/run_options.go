package internal

import (
	"context"
	"log/slog"
	"time"
)

// Hook runs at startup or shutdown. The context carries the shutdown
// deadline for shutdown hooks.
type Hook func(ctx context.Context) error

// RunOption tunes App.Run.
type RunOption func(*runConfig)

type runConfig struct {
	ctx      context.Context
	log      *slog.Logger
	onReady  func(addr string)
	addr     string
	startup  []Hook
	shutdown []Hook
	grace    time.Duration
}

func newRunConfig(addr string, log *slog.Logger, opts []RunOption) runConfig {
	cfg := runConfig{
		ctx:   context.Background(),
		log:   log,
		addr:  addr,
		grace: defaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.addr == "" {
		cfg.addr = ":8080"
	}
	if cfg.log == nil {
		cfg.log = slog.New(slog.DiscardHandler)
	}
	return cfg
}

// Address replaces the address given to Run. Use "127.0.0.1:0" in tests
// together with OnReady.
func Address(addr string) RunOption {
	return func(c *runConfig) {
		if addr != "" {
			c.addr = addr
		}
	}
}

// Logger overrides the app logger for lifecycle messages.
func Logger(l *slog.Logger) RunOption {
	return func(c *runConfig) {
		if l != nil {
			c.log = l
		}
	}
}

// ShutdownTimeout bounds connection draining, and then separately the
// shutdown hooks. Defaults to 30s.
func ShutdownTimeout(d time.Duration) RunOption {
	return func(c *runConfig) {
		if d > 0 {
			c.grace = d
		}
	}
}

// StartupHook runs fn before the listener is bound, e.g. to migrate the
// database. Hooks run in order and the first error aborts Run.
func StartupHook(fn func(context.Context) error) RunOption {
	return func(c *runConfig) {
		if fn != nil {
			c.startup = append(c.startup, fn)
		}
	}
}

// ShutdownHook runs fn after connections drain, or after a failed start.
// Every hook runs even if an earlier one fails.
//
//	hostkit.ShutdownHook(db.Shutdown(pool))
func ShutdownHook(fn func(context.Context) error) RunOption {
	return func(c *runConfig) {
		if fn != nil {
			c.shutdown = append(c.shutdown, fn)
		}
	}
}

// OnReady receives the bound listener address.
func OnReady(fn func(addr string)) RunOption {
	return func(c *runConfig) {
		c.onReady = fn
	}
}

// WithContext makes Run stop when ctx is done, in addition to SIGINT and
// SIGTERM.
func WithContext(ctx context.Context) RunOption {
	return func(c *runConfig) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}
