package health

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"
)

const (
	defaultTimeout = 5 * time.Second

	// StatusHealthy indicates all checks passed.
	StatusHealthy = "healthy"
	// StatusDegraded indicates only optional checks failed; the service still takes traffic.
	StatusDegraded = "degraded"
	// StatusUnhealthy indicates a required check failed.
	StatusUnhealthy = "unhealthy"
)

// CheckFunc is the health check signature shared by db, redis and cache.
type CheckFunc func(ctx context.Context) error

// Checks is a map of named required checks.
type Checks map[string]CheckFunc

// Response is the aggregated result of a health run.
type Response struct {
	Checks   map[string]Check `json:"checks,omitempty"`
	Status   string           `json:"status"`
	Duration string           `json:"duration,omitempty"`
}

// Check is the result of a single named check.
type Check struct {
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
	Duration string `json:"duration"`
	Optional bool   `json:"optional,omitempty"`
}

type registration struct {
	fn       CheckFunc
	name     string
	timeout  time.Duration
	optional bool
}

// CheckOption configures a single registered check.
type CheckOption func(*registration)

// Optional marks a check whose failure degrades the service instead of
// making it unhealthy.
func Optional() CheckOption {
	return func(r *registration) {
		r.optional = true
	}
}

// CheckTimeout overrides the run timeout for one check.
func CheckTimeout(d time.Duration) CheckOption {
	return func(r *registration) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// Registry holds named checks and runs them in parallel.
// Registration is safe to interleave with runs.
type Registry struct {
	cfg    *config
	mu     sync.RWMutex
	checks []registration
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	return &Registry{cfg: newConfig(opts...)}
}

// Add registers a check under name, replacing any check with the same name.
func (r *Registry) Add(name string, fn CheckFunc, opts ...CheckOption) {
	if fn == nil {
		return
	}
	reg := registration{name: name, fn: fn}
	for _, opt := range opts {
		opt(&reg)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.checks {
		if r.checks[i].name == name {
			r.checks[i] = reg
			return
		}
	}
	r.checks = append(r.checks, reg)
}

// AddChecks registers every entry of checks as a required check.
func (r *Registry) AddChecks(checks Checks) {
	for name, fn := range checks {
		r.Add(name, fn)
	}
}

// Names returns the registered check names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.checks))
	for _, c := range r.checks {
		names = append(names, c.name)
	}
	sort.Strings(names)
	return names
}

// Run executes every check in parallel within the configured timeout.
func (r *Registry) Run(ctx context.Context) *Response {
	r.mu.RLock()
	checks := make([]registration, len(r.checks))
	copy(checks, r.checks)
	r.mu.RUnlock()

	return runChecks(ctx, checks, r.cfg)
}

type config struct {
	logger  *slog.Logger
	timeout time.Duration
}

// Option configures health check behavior.
type Option func(*config)

// WithTimeout sets the default timeout for each check.
func WithTimeout(d time.Duration) Option {
	return func(c *config) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger sets the logger for failed checks.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

func newConfig(opts ...Option) *config {
	cfg := &config{
		timeout: defaultTimeout,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func runChecks(ctx context.Context, checks []registration, cfg *config) *Response {
	if len(checks) == 0 {
		return &Response{Status: StatusHealthy}
	}

	started := time.Now()

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		results  = make(map[string]Check, len(checks))
		required bool
		optional bool
	)

	for _, reg := range checks {
		wg.Go(func() {
			res := runOne(ctx, reg, cfg)
			if res.Status != StatusHealthy {
				cfg.logger.WarnContext(ctx, "health check failed",
					slog.String("check", reg.name),
					slog.Bool("optional", reg.optional),
					slog.String("error", res.Error),
				)
			}

			mu.Lock()
			defer mu.Unlock()
			results[reg.name] = res
			if res.Status != StatusHealthy {
				if reg.optional {
					optional = true
				} else {
					required = true
				}
			}
		})
	}

	wg.Wait()

	status := StatusHealthy
	switch {
	case required:
		status = StatusUnhealthy
	case optional:
		status = StatusDegraded
	}

	return &Response{
		Status:   status,
		Checks:   results,
		Duration: time.Since(started).Round(time.Microsecond).String(),
	}
}

func runOne(ctx context.Context, reg registration, cfg *config) Check {
	timeout := cfg.timeout
	if reg.timeout > 0 {
		timeout = reg.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	started := time.Now()
	done := make(chan error, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- ErrCheckPanicked
			}
		}()
		done <- reg.fn(ctx)
	}()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = ErrCheckTimeout
	}

	res := Check{
		Status:   StatusHealthy,
		Optional: reg.optional,
		Duration: time.Since(started).Round(time.Microsecond).String(),
	}
	if err != nil {
		res.Error = err.Error()
		res.Status = StatusUnhealthy
		if reg.optional {
			res.Status = StatusDegraded
		}
	}
	return res
}
