package tablecache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/doug-martin/goqu/v9"
	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/hostkit/pkg/cache"
	"github.com/dmitrymomot/hostkit/pkg/db"
	"github.com/dmitrymomot/hostkit/pkg/hashutil"
)

// Option configures a Factory.
type Option func(*Factory)

// WithRedis provides the client for the redis backend.
func WithRedis(client goredis.UniversalClient) Option {
	return func(f *Factory) {
		f.redis = client
	}
}

// WithLogger sets the logger for skipped or failed cache writes.
func WithLogger(log *slog.Logger) Option {
	return func(f *Factory) {
		if log != nil {
			f.log = log
		}
	}
}

type member interface {
	Invalidate(ctx context.Context) error
	Close() error
}

// Factory creates cached table handles that share one configuration.
type Factory struct {
	runner *db.Runner
	redis  goredis.UniversalClient
	log    *slog.Logger
	tables map[string]member
	opts   Options
	mu     sync.Mutex
	closed bool
}

// NewFactory creates a Factory. runner may be nil when every table supplies
// its own loader.
func NewFactory(opts Options, runner *db.Runner, options ...Option) *Factory {
	f := &Factory{
		opts:   opts,
		runner: runner,
		log:    slog.New(slog.DiscardHandler),
		tables: make(map[string]member),
	}
	for _, opt := range options {
		opt(f)
	}
	return f
}

// InvalidateAll drops every registered table from the cache.
func (f *Factory) InvalidateAll(ctx context.Context) error {
	f.mu.Lock()
	tables := make([]member, 0, len(f.tables))
	for _, t := range f.tables {
		tables = append(tables, t)
	}
	f.mu.Unlock()

	var errs []error
	for _, t := range tables {
		errs = append(errs, t.Invalidate(ctx))
	}
	return errors.Join(errs...)
}

// Invalidate drops one table by name. Unknown names are ignored.
func (f *Factory) Invalidate(ctx context.Context, table string) error {
	f.mu.Lock()
	t, ok := f.tables[table]
	f.mu.Unlock()
	if !ok {
		return nil
	}
	return t.Invalidate(ctx)
}

// Close releases every table's cache, stopping memory sweepers. Tables keep
// answering reads through their loader afterwards, and For fails.
func (f *Factory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true

	var errs []error
	for _, t := range f.tables {
		errs = append(errs, t.Close())
	}
	return errors.Join(errs...)
}

// TableOption configures a single table.
type TableOption[T any] func(*Table[T])

// WithQuery customises the SELECT used to load the table, e.g. to filter
// or order rows.
func WithQuery[T any](fn func(*goqu.SelectDataset) *goqu.SelectDataset) TableOption[T] {
	return func(t *Table[T]) {
		t.query = fn(t.query)
	}
}

// WithLoader replaces the database query with a custom loader.
func WithLoader[T any](fn func(ctx context.Context) ([]T, error)) TableOption[T] {
	return func(t *Table[T]) {
		t.loader = fn
	}
}

// WithKey enables Get by extracting a lookup key from each row.
func WithKey[T any](fn func(T) string) TableOption[T] {
	return func(t *Table[T]) {
		t.key = fn
	}
}

// WithTTL overrides the factory TTL for this table.
func WithTTL[T any](ttl time.Duration) TableOption[T] {
	return func(t *Table[T]) {
		t.ttl = ttl
	}
}

// Table is a cached, read-mostly view of a whole database table.
type Table[T any] struct {
	cache   cache.Cache[[]T]
	loader  func(ctx context.Context) ([]T, error)
	key     func(T) string
	query   *goqu.SelectDataset
	log     *slog.Logger
	name    string
	rev     string
	ttl     time.Duration
	maxRows int
	enabled bool
	closed  atomic.Bool
}

// For registers table and returns its handle. Rows are mapped onto T by
// column name, as with db.Select.
func For[T any](f *Factory, table string, opts ...TableOption[T]) (*Table[T], error) {
	if table == "" {
		return nil, ErrEmptyTable
	}

	t := &Table[T]{
		name:    table,
		query:   db.Dialect.From(table),
		ttl:     f.opts.TTL,
		maxRows: f.opts.MaxRows,
		enabled: f.opts.Enabled,
		log:     f.log.With(slog.String("table", table)),
	}
	for _, opt := range opts {
		opt(t)
	}

	if t.loader == nil {
		if f.runner == nil {
			return nil, ErrNoRunner
		}
		t.loader = t.queryLoader(f.runner)
	}

	// The cache key carries a hash of the query so a changed query never
	// reads rows cached for the old one.
	sql, _, err := t.query.ToSQL()
	if err != nil {
		return nil, errors.Join(db.ErrBuildQuery, err)
	}
	t.rev = hashutil.XXHashString(sql)

	// The name is checked before the cache exists, since a memory cache
	// starts a sweeper that a rejected table would never stop.
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil, ErrClosed
	}
	if _, exists := f.tables[table]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicate, table)
	}
	if t.enabled {
		c, err := cache.New[[]T](f.opts.cacheConfig(), f.redis, table)
		if err != nil {
			return nil, err
		}
		t.cache = c
	}
	f.tables[table] = t
	return t, nil
}

func (t *Table[T]) queryLoader(runner *db.Runner) func(ctx context.Context) ([]T, error) {
	return func(ctx context.Context) ([]T, error) {
		return db.Call(ctx, runner, func(ctx context.Context, q db.Querier) ([]T, error) {
			return db.SelectDS[T](ctx, q, t.query)
		}, db.ReadOnly(), db.Named("tablecache."+t.name))
	}
}

// Name returns the table name.
func (t *Table[T]) Name() string {
	return t.name
}

// All returns every row, from the cache when possible.
func (t *Table[T]) All(ctx context.Context) ([]T, error) {
	if !t.cached() {
		return t.loader(ctx)
	}

	return cache.GetOrSet(ctx, t.cache, t.rev, func(ctx context.Context) ([]T, time.Duration, error) {
		rows, err := t.loader(ctx)
		if err != nil {
			return nil, 0, err
		}
		if t.maxRows > 0 && len(rows) > t.maxRows {
			t.log.WarnContext(ctx, "table too large to cache",
				slog.Int("rows", len(rows)),
				slog.Int("max_rows", t.maxRows),
			)
			// A tiny TTL keeps the oversized table effectively uncached.
			return rows, time.Millisecond, nil
		}
		return rows, t.ttl, nil
	})
}

// Find returns the first row matching pred.
func (t *Table[T]) Find(ctx context.Context, pred func(T) bool) (T, bool, error) {
	var zero T
	rows, err := t.All(ctx)
	if err != nil {
		return zero, false, err
	}
	for _, row := range rows {
		if pred(row) {
			return row, true, nil
		}
	}
	return zero, false, nil
}

// Filter returns every row matching pred.
func (t *Table[T]) Filter(ctx context.Context, pred func(T) bool) ([]T, error) {
	rows, err := t.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(rows))
	for _, row := range rows {
		if pred(row) {
			out = append(out, row)
		}
	}
	return out, nil
}

// Get looks a row up by the key configured with WithKey.
func (t *Table[T]) Get(ctx context.Context, key string) (T, bool, error) {
	if t.key == nil {
		var zero T
		return zero, false, ErrKeyUndefined
	}
	return t.Find(ctx, func(row T) bool { return t.key(row) == key })
}

// Close releases the table's cache. Later reads go straight to the loader.
func (t *Table[T]) Close() error {
	if !t.enabled || !t.closed.CompareAndSwap(false, true) {
		return nil
	}
	return t.cache.Close()
}

func (t *Table[T]) cached() bool {
	return t.enabled && !t.closed.Load()
}

// Invalidate drops the cached rows so the next read reloads them.
func (t *Table[T]) Invalidate(ctx context.Context) error {
	if !t.cached() {
		return nil
	}
	cache.Forget(t.cache, t.rev)
	return t.cache.Delete(ctx, t.rev)
}
