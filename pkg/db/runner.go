package db

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Querier is the query surface shared by pools, connections and transactions.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Pool is what the envelope needs from a connection pool.
// *pgxpool.Pool satisfies it.
type Pool interface {
	Querier
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// Runner executes units of work inside transactions opened on a pool.
// A Runner is safe for concurrent use.
type Runner struct {
	pool      Pool
	log       *slog.Logger
	metrics   *envelopeMetrics
	isolation pgx.TxIsoLevel
}

// RunnerOption configures a Runner.
type RunnerOption func(*runnerOptions)

type runnerOptions struct {
	log           *slog.Logger
	meterProvider metric.MeterProvider
	isolation     pgx.TxIsoLevel
}

// WithLogger sets the logger used for rollback failures.
func WithLogger(log *slog.Logger) RunnerOption {
	return func(o *runnerOptions) {
		o.log = log
	}
}

// WithDefaultIsolation sets the isolation level used by calls that do not
// pass WithIsolation.
func WithDefaultIsolation(level pgx.TxIsoLevel) RunnerOption {
	return func(o *runnerOptions) {
		o.isolation = level
	}
}

// WithMeterProvider sets the provider for envelope metrics.
// Defaults to the global otel provider.
func WithMeterProvider(mp metric.MeterProvider) RunnerOption {
	return func(o *runnerOptions) {
		o.meterProvider = mp
	}
}

// NewRunner creates a Runner over pool.
func NewRunner(pool Pool, opts ...RunnerOption) *Runner {
	o := runnerOptions{isolation: pgx.ReadCommitted}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = slog.New(slog.DiscardHandler)
	}
	if o.meterProvider == nil {
		o.meterProvider = otel.GetMeterProvider()
	}

	return &Runner{
		pool:      pool,
		log:       o.log,
		metrics:   newEnvelopeMetrics(o.meterProvider),
		isolation: o.isolation,
	}
}

// NewRunnerFromConfig creates a Runner using the isolation level from cfg.
func NewRunnerFromConfig(pool Pool, cfg Config, opts ...RunnerOption) (*Runner, error) {
	level, err := ParseIsolation(cfg.DefaultIsolation)
	if err != nil {
		return nil, err
	}
	return NewRunner(pool, append([]RunnerOption{WithDefaultIsolation(level)}, opts...)...), nil
}

// Querier returns the transaction carried by ctx, or the pool when ctx is
// not inside an envelope.
func (r *Runner) Querier(ctx context.Context) Querier {
	if tx, ok := TxFromContext(ctx); ok {
		return tx
	}
	return r.pool
}

type txKey struct{}

func withTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromContext returns the envelope transaction carried by ctx.
func TxFromContext(ctx context.Context) (pgx.Tx, bool) {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	return tx, ok
}
