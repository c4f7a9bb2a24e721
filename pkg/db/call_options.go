package db

import "github.com/jackc/pgx/v5"

// CallOption configures a single envelope call.
type CallOption func(*callConfig)

type callConfig struct {
	name       string
	isolation  pgx.TxIsoLevel
	access     pgx.TxAccessMode
	deferrable pgx.TxDeferrableMode
	noTx       bool
}

// WithIsolation overrides the runner's default isolation level.
func WithIsolation(level pgx.TxIsoLevel) CallOption {
	return func(c *callConfig) {
		c.isolation = level
	}
}

// ReadOnly begins the transaction in read-only mode.
func ReadOnly() CallOption {
	return func(c *callConfig) {
		c.access = pgx.ReadOnly
	}
}

// Deferrable begins a deferrable transaction. Postgres only honours it for
// serializable read-only transactions.
func Deferrable() CallOption {
	return func(c *callConfig) {
		c.deferrable = pgx.Deferrable
	}
}

// WithoutTx runs the unit of work directly on the pool.
func WithoutTx() CallOption {
	return func(c *callConfig) {
		c.noTx = true
	}
}

// Named labels the call in metrics and logs.
func Named(name string) CallOption {
	return func(c *callConfig) {
		c.name = name
	}
}

func (r *Runner) callConfig(opts []CallOption) callConfig {
	c := callConfig{isolation: r.isolation, name: "unnamed"}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (c callConfig) txOptions() pgx.TxOptions {
	return pgx.TxOptions{
		IsoLevel:       c.isolation,
		AccessMode:     c.access,
		DeferrableMode: c.deferrable,
	}
}
