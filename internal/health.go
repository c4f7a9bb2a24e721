package internal

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/hostkit/pkg/health"
)

// healthConfig describes the liveness and readiness endpoints.
type healthConfig struct {
	registry *health.Registry
	live     string
	ready    string
	pending  []pendingCheck
}

type pendingCheck struct {
	fn   health.CheckFunc
	name string
	opts []health.CheckOption
}

func (h *healthConfig) register(r chi.Router) {
	r.Get(h.live, health.LivenessHandler())
	r.Get(h.ready, h.registry.Handler())
}

// HealthOption configures WithHealthChecks.
type HealthOption func(*healthConfig)

// WithHealthChecks serves GET /health/live, which answers 200 while the
// process is up, and GET /health/ready, which runs the readiness checks
// concurrently.
//
//	hostkit.WithHealthChecks(
//	    hostkit.WithReadinessCheck("db", db.Healthcheck(pool)),
//	    hostkit.WithReadinessCheck("redis", redis.Healthcheck(client), health.Optional()),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return func(a *App) {
		cfg := &healthConfig{live: "/health/live", ready: "/health/ready"}
		for _, opt := range opts {
			opt(cfg)
		}
		if cfg.registry == nil {
			cfg.registry = health.NewRegistry(health.WithLogger(a.logger))
		}
		for _, c := range cfg.pending {
			cfg.registry.Add(c.name, c.fn, c.opts...)
		}
		a.health = cfg
	}
}

func WithLivenessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.live = path
		}
	}
}

func WithReadinessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.ready = path
		}
	}
}

// WithReadinessCheck adds a named check to the readiness endpoint.
// health.Optional marks a check whose failure only degrades the result.
func WithReadinessCheck(name string, fn health.CheckFunc, opts ...health.CheckOption) HealthOption {
	return func(c *healthConfig) {
		c.pending = append(c.pending, pendingCheck{fn: fn, name: name, opts: opts})
	}
}

// WithHealthRegistry supplies the registry behind the readiness endpoint,
// so other code can add checks to it later.
func WithHealthRegistry(reg *health.Registry) HealthOption {
	return func(c *healthConfig) {
		if reg != nil {
			c.registry = reg
		}
	}
}

// WithMetricsHandler serves h on GET path, typically the Prometheus handler
// from pkg/telemetry.
func WithMetricsHandler(path string, h http.Handler) Option {
	return func(a *App) {
		if path != "" && h != nil {
			a.metrics = &mount{handler: h, pattern: path}
		}
	}
}
