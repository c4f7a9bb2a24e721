package db_test

import (
	"context"
	"errors"
	"iter"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/dmitrymomot/hostkit/pkg/db"
	"github.com/dmitrymomot/hostkit/pkg/errs"
	"github.com/dmitrymomot/hostkit/pkg/result"
)

func TestCall(t *testing.T) {
	t.Parallel()

	t.Run("commits on success", func(t *testing.T) {
		t.Parallel()

		pool := &fakePool{}
		runner := db.NewRunner(pool)

		got, err := db.Call(context.Background(), runner, func(ctx context.Context, q db.Querier) (int, error) {
			_, ok := db.TxFromContext(ctx)
			require.True(t, ok)
			return 42, nil
		})
		require.NoError(t, err)
		require.Equal(t, 42, got)

		committed, rolledBack := pool.lastTx().state()
		require.True(t, committed)
		require.False(t, rolledBack)
	})

	t.Run("rolls back on error", func(t *testing.T) {
		t.Parallel()

		pool := &fakePool{}
		runner := db.NewRunner(pool)
		boom := errors.New("boom")

		_, err := db.Call(context.Background(), runner, func(ctx context.Context, q db.Querier) (string, error) {
			return "", boom
		})
		require.ErrorIs(t, err, boom)

		committed, rolledBack := pool.lastTx().state()
		require.False(t, committed)
		require.True(t, rolledBack)
	})

	t.Run("rolls back and re-panics", func(t *testing.T) {
		t.Parallel()

		pool := &fakePool{}
		runner := db.NewRunner(pool)

		require.PanicsWithValue(t, "kaboom", func() {
			_ = runner.Exec(context.Background(), func(ctx context.Context, q db.Querier) error {
				panic("kaboom")
			})
		})

		_, rolledBack := pool.lastTx().state()
		require.True(t, rolledBack)
	})

	t.Run("uses requested isolation", func(t *testing.T) {
		t.Parallel()

		pool := &fakePool{}
		runner := db.NewRunner(pool, db.WithDefaultIsolation(pgx.RepeatableRead))

		require.NoError(t, runner.Exec(context.Background(), func(context.Context, db.Querier) error { return nil }))
		require.NoError(t, runner.Exec(context.Background(), func(context.Context, db.Querier) error { return nil },
			db.WithIsolation(pgx.Serializable), db.ReadOnly(), db.Deferrable()))

		require.Equal(t, pgx.RepeatableRead, pool.opts[0].IsoLevel)
		require.Equal(t, pgx.Serializable, pool.opts[1].IsoLevel)
		require.Equal(t, pgx.ReadOnly, pool.opts[1].AccessMode)
		require.Equal(t, pgx.Deferrable, pool.opts[1].DeferrableMode)
	})

	t.Run("begin failure", func(t *testing.T) {
		t.Parallel()

		pool := &fakePool{beginErr: errors.New("connection refused")}
		runner := db.NewRunner(pool)

		called := false
		err := runner.Exec(context.Background(), func(context.Context, db.Querier) error {
			called = true
			return nil
		})
		require.ErrorIs(t, err, db.ErrBeginTx)
		require.False(t, called)
	})

	t.Run("commit failure", func(t *testing.T) {
		t.Parallel()

		pool := &fakePool{commitErr: errors.New("serialization failure")}
		runner := db.NewRunner(pool)

		_, err := db.Call(context.Background(), runner, func(context.Context, db.Querier) (int, error) {
			return 1, nil
		})
		require.ErrorIs(t, err, db.ErrCommitTx)
	})

	t.Run("without transaction uses the pool", func(t *testing.T) {
		t.Parallel()

		pool := &fakePool{}
		runner := db.NewRunner(pool)

		err := runner.Exec(context.Background(), func(ctx context.Context, q db.Querier) error {
			_, inTx := db.TxFromContext(ctx)
			require.False(t, inTx)
			_, err := q.Exec(ctx, "UPDATE t SET x = 1")
			return err
		}, db.WithoutTx())
		require.NoError(t, err)
		require.Empty(t, pool.txs)
		require.Equal(t, 1, pool.execs)
	})

	t.Run("nested call opens a savepoint", func(t *testing.T) {
		t.Parallel()

		pool := &fakePool{}
		runner := db.NewRunner(pool)
		inner := errors.New("inner failed")

		err := runner.Exec(context.Background(), func(ctx context.Context, q db.Querier) error {
			nestedErr := runner.Exec(ctx, func(context.Context, db.Querier) error { return inner })
			require.ErrorIs(t, nestedErr, inner)
			return nil
		})
		require.NoError(t, err)
		require.Len(t, pool.txs, 1)

		outer := pool.lastTx()
		committed, _ := outer.state()
		require.True(t, committed)
		require.Len(t, outer.savepoints, 1)
		_, spRolledBack := outer.savepoints[0].state()
		require.True(t, spRolledBack)
	})
}

func TestTryCall(t *testing.T) {
	t.Parallel()

	t.Run("error result rolls back and is returned unchanged", func(t *testing.T) {
		t.Parallel()

		pool := &fakePool{}
		runner := db.NewRunner(pool)

		res := db.TryCall(context.Background(), runner, func(context.Context, db.Querier) result.Result[int] {
			return result.Fail[int](errs.Conflict("Order.Duplicate", "already placed"))
		})
		require.True(t, res.IsError())
		require.Equal(t, "Order.Duplicate", res.FirstError().Code)

		_, rolledBack := pool.lastTx().state()
		require.True(t, rolledBack)
	})

	t.Run("success commits", func(t *testing.T) {
		t.Parallel()

		pool := &fakePool{}
		runner := db.NewRunner(pool)

		res := runner.TryExec(context.Background(), func(context.Context, db.Querier) result.Result[result.Success] {
			return result.Done()
		})
		require.False(t, res.IsError())

		committed, _ := pool.lastTx().state()
		require.True(t, committed)
	})

	t.Run("begin failure becomes unexpected", func(t *testing.T) {
		t.Parallel()

		pool := &fakePool{beginErr: errors.New("too many connections")}
		runner := db.NewRunner(pool)

		res := db.TryCall(context.Background(), runner, func(context.Context, db.Querier) result.Result[int] {
			return result.Ok(1)
		})
		require.True(t, res.IsError())
		require.Equal(t, errs.TypeUnexpected, res.FirstError().Type)
		require.ErrorIs(t, res.FirstError(), db.ErrBeginTx)
	})

	t.Run("commit failure becomes unexpected", func(t *testing.T) {
		t.Parallel()

		pool := &fakePool{commitErr: errors.New("connection reset")}
		runner := db.NewRunner(pool)

		res := db.TryCall(context.Background(), runner, func(context.Context, db.Querier) result.Result[int] {
			return result.Ok(7)
		})
		require.True(t, res.IsError())
		require.Equal(t, errs.TypeUnexpected, res.FirstError().Type)
		require.ErrorIs(t, res.FirstError(), db.ErrCommitTx)

		committed, _ := pool.lastTx().state()
		require.False(t, committed)
	})
}

func numbers(items ...any) func(context.Context, db.Querier) iter.Seq2[int, error] {
	return func(context.Context, db.Querier) iter.Seq2[int, error] {
		return func(yield func(int, error) bool) {
			for _, it := range items {
				var ok bool
				switch v := it.(type) {
				case int:
					ok = yield(v, nil)
				case error:
					ok = yield(0, v)
				}
				if !ok {
					return
				}
			}
		}
	}
}

func TestStream(t *testing.T) {
	t.Parallel()

	t.Run("commits after full consumption", func(t *testing.T) {
		t.Parallel()

		pool := &fakePool{}
		runner := db.NewRunner(pool)

		var got []int
		for v, err := range db.Stream(context.Background(), runner, numbers(1, 2, 3)) {
			require.NoError(t, err)
			got = append(got, v)
		}
		require.Equal(t, []int{1, 2, 3}, got)

		committed, _ := pool.lastTx().state()
		require.True(t, committed)
	})

	t.Run("item error keeps enumerating then rolls back", func(t *testing.T) {
		t.Parallel()

		pool := &fakePool{}
		runner := db.NewRunner(pool)
		bad := errors.New("bad row")

		var values []int
		var failures int
		for v, err := range db.Stream(context.Background(), runner, numbers(1, bad, 3)) {
			if err != nil {
				failures++
				continue
			}
			values = append(values, v)
		}
		require.Equal(t, []int{1, 3}, values)
		require.Equal(t, 1, failures)

		committed, rolledBack := pool.lastTx().state()
		require.False(t, committed)
		require.True(t, rolledBack)
	})

	t.Run("early stop rolls back", func(t *testing.T) {
		t.Parallel()

		pool := &fakePool{}
		runner := db.NewRunner(pool)

		for v := range db.Stream(context.Background(), runner, numbers(1, 2, 3)) {
			if v == 2 {
				break
			}
		}

		committed, rolledBack := pool.lastTx().state()
		require.False(t, committed)
		require.True(t, rolledBack)
	})

	t.Run("commit failure is yielded", func(t *testing.T) {
		t.Parallel()

		pool := &fakePool{commitErr: errors.New("connection reset")}
		runner := db.NewRunner(pool)

		var last error
		for _, err := range db.Stream(context.Background(), runner, numbers(1)) {
			last = err
		}
		require.ErrorIs(t, last, db.ErrCommitTx)
	})

	t.Run("producer panic rolls back", func(t *testing.T) {
		t.Parallel()

		pool := &fakePool{}
		runner := db.NewRunner(pool)
		producer := func(context.Context, db.Querier) iter.Seq2[int, error] {
			return func(yield func(int, error) bool) {
				if !yield(1, nil) {
					return
				}
				panic("row decoder exploded")
			}
		}

		require.PanicsWithValue(t, "row decoder exploded", func() {
			for range db.Stream(context.Background(), runner, producer) {
			}
		})

		committed, rolledBack := pool.lastTx().state()
		require.False(t, committed)
		require.True(t, rolledBack)
	})

	t.Run("consumer panic rolls back", func(t *testing.T) {
		t.Parallel()

		pool := &fakePool{}
		runner := db.NewRunner(pool)

		require.PanicsWithValue(t, "consumer exploded", func() {
			for v := range db.Stream(context.Background(), runner, numbers(1, 2, 3)) {
				if v == 2 {
					panic("consumer exploded")
				}
			}
		})

		committed, rolledBack := pool.lastTx().state()
		require.False(t, committed)
		require.True(t, rolledBack)
	})

	t.Run("without transaction", func(t *testing.T) {
		t.Parallel()

		pool := &fakePool{}
		runner := db.NewRunner(pool)

		var got []int
		for v, err := range db.Stream(context.Background(), runner, numbers(4, 5), db.WithoutTx()) {
			require.NoError(t, err)
			got = append(got, v)
		}
		require.Equal(t, []int{4, 5}, got)
		require.Empty(t, pool.txs)
	})
}

func TestTryStream(t *testing.T) {
	t.Parallel()

	producer := func(context.Context, db.Querier) iter.Seq[result.Result[string]] {
		return func(yield func(result.Result[string]) bool) {
			if !yield(result.Ok("a")) {
				return
			}
			yield(result.Fail[string](errs.Validation("Row.Invalid", "bad")))
		}
	}

	t.Run("failed item is passed through and rolls back", func(t *testing.T) {
		t.Parallel()

		pool := &fakePool{}
		runner := db.NewRunner(pool)

		var items []result.Result[string]
		for item := range db.TryStream(context.Background(), runner, producer) {
			items = append(items, item)
		}
		require.Len(t, items, 2)
		require.Equal(t, "a", items[0].Value())
		require.Equal(t, "Row.Invalid", items[1].FirstError().Code)

		_, rolledBack := pool.lastTx().state()
		require.True(t, rolledBack)
	})

	t.Run("begin failure becomes an unexpected item", func(t *testing.T) {
		t.Parallel()

		pool := &fakePool{beginErr: errors.New("too many connections")}
		runner := db.NewRunner(pool)

		var items []result.Result[string]
		for item := range db.TryStream(context.Background(), runner, producer) {
			items = append(items, item)
		}
		require.Len(t, items, 1)
		require.Equal(t, errs.TypeUnexpected, items[0].FirstError().Type)
		require.ErrorIs(t, items[0].FirstError(), db.ErrBeginTx)
		require.Empty(t, pool.txs)
	})

	t.Run("commit failure becomes an unexpected item", func(t *testing.T) {
		t.Parallel()

		pool := &fakePool{commitErr: errors.New("connection reset")}
		runner := db.NewRunner(pool)
		ok := func(context.Context, db.Querier) iter.Seq[result.Result[string]] {
			return func(yield func(result.Result[string]) bool) {
				yield(result.Ok("a"))
			}
		}

		var items []result.Result[string]
		for item := range db.TryStream(context.Background(), runner, ok) {
			items = append(items, item)
		}
		require.Len(t, items, 2)
		require.Equal(t, "a", items[0].Value())
		require.Equal(t, errs.TypeUnexpected, items[1].FirstError().Type)
		require.ErrorIs(t, items[1].FirstError(), db.ErrCommitTx)

		committed, _ := pool.lastTx().state()
		require.False(t, committed)
	})
}

func TestRunnerMetrics(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	runner := db.NewRunner(&fakePool{}, db.WithMeterProvider(mp))
	ctx := context.Background()

	require.NoError(t, runner.Exec(ctx, func(context.Context, db.Querier) error { return nil }, db.Named("ok")))
	require.Error(t, runner.Exec(ctx, func(context.Context, db.Querier) error { return errors.New("x") }, db.Named("fail")))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))

	outcomes := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "db.envelope.transactions" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				outcome, _ := dp.Attributes.Value("outcome")
				outcomes[outcome.AsString()] += dp.Value
			}
		}
	}
	require.Equal(t, int64(1), outcomes[db.OutcomeCommit])
	require.Equal(t, int64(1), outcomes[db.OutcomeRollback])
}
