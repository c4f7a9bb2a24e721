package tablecache_test

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/doug-martin/goqu/v9"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hostkit/pkg/tablecache"
)

type country struct {
	Code string `db:"code" json:"code"`
	Name string `db:"name" json:"name"`
}

func countingLoader(calls *atomic.Int32, rows ...country) func(context.Context) ([]country, error) {
	return func(context.Context) ([]country, error) {
		calls.Add(1)
		return rows, nil
	}
}

func enabled() tablecache.Options {
	return tablecache.Options{Enabled: true, TTL: time.Minute, Backend: "memory", KeyPrefix: "tc"}
}

func TestTable_All(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("loads once and serves from cache", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		f := tablecache.NewFactory(enabled(), nil)
		tbl, err := tablecache.For(f, "countries",
			tablecache.WithLoader(countingLoader(&calls, country{"DE", "Germany"}, country{"FR", "France"})),
			tablecache.WithKey(func(c country) string { return c.Code }),
		)
		require.NoError(t, err)

		for range 3 {
			rows, err := tbl.All(ctx)
			require.NoError(t, err)
			require.Len(t, rows, 2)
		}
		require.Equal(t, int32(1), calls.Load())

		c, ok, err := tbl.Get(ctx, "FR")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "France", c.Name)

		_, ok, err = tbl.Get(ctx, "XX")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("invalidate forces reload", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		f := tablecache.NewFactory(enabled(), nil)
		tbl, err := tablecache.For(f, "plans", tablecache.WithLoader(countingLoader(&calls, country{"A", "a"})))
		require.NoError(t, err)

		_, err = tbl.All(ctx)
		require.NoError(t, err)
		require.NoError(t, f.Invalidate(ctx, "plans"))
		require.NoError(t, f.Invalidate(ctx, "unknown"))
		_, err = tbl.All(ctx)
		require.NoError(t, err)
		require.NoError(t, f.InvalidateAll(ctx))
		_, err = tbl.All(ctx)
		require.NoError(t, err)

		require.Equal(t, int32(3), calls.Load())
	})

	t.Run("disabled reads through", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		opts := enabled()
		opts.Enabled = false
		f := tablecache.NewFactory(opts, nil)
		tbl, err := tablecache.For(f, "flags", tablecache.WithLoader(countingLoader(&calls)))
		require.NoError(t, err)

		_, _ = tbl.All(ctx)
		_, _ = tbl.All(ctx)
		require.Equal(t, int32(2), calls.Load())
		require.NoError(t, tbl.Invalidate(ctx))
	})

	t.Run("oversized table is not kept", func(t *testing.T) {
		t.Parallel()

		var calls atomic.Int32
		opts := enabled()
		opts.MaxRows = 1
		f := tablecache.NewFactory(opts, nil)
		tbl, err := tablecache.For(f, "big",
			tablecache.WithLoader(countingLoader(&calls, country{"A", "a"}, country{"B", "b"})))
		require.NoError(t, err)

		_, err = tbl.All(ctx)
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
		_, err = tbl.All(ctx)
		require.NoError(t, err)
		require.Equal(t, int32(2), calls.Load())
	})

	t.Run("loader errors propagate", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("db down")
		f := tablecache.NewFactory(enabled(), nil)
		tbl, err := tablecache.For(f, "broken", tablecache.WithLoader(func(context.Context) ([]country, error) {
			return nil, boom
		}))
		require.NoError(t, err)

		_, _, err = tbl.Find(ctx, func(country) bool { return true })
		require.ErrorIs(t, err, boom)
	})
}

func TestFor_Validation(t *testing.T) {
	t.Parallel()

	f := tablecache.NewFactory(enabled(), nil)

	_, err := tablecache.For[country](f, "")
	require.ErrorIs(t, err, tablecache.ErrEmptyTable)

	_, err = tablecache.For[country](f, "countries")
	require.ErrorIs(t, err, tablecache.ErrNoRunner)

	loader := tablecache.WithLoader(func(context.Context) ([]country, error) { return nil, nil })
	tbl, err := tablecache.For(f, "countries", loader,
		tablecache.WithQuery[country](func(ds *goqu.SelectDataset) *goqu.SelectDataset {
			return ds.Order(goqu.I("name").Asc())
		}))
	require.NoError(t, err)
	require.Equal(t, "countries", tbl.Name())

	_, _, err = tbl.Get(context.Background(), "x")
	require.ErrorIs(t, err, tablecache.ErrKeyUndefined)

	_, err = tablecache.For(f, "countries", loader)
	require.ErrorIs(t, err, tablecache.ErrDuplicate)
}

// Not parallel: it counts goroutines.
func TestFactory_CacheLifecycle(t *testing.T) {
	loader := tablecache.WithLoader(func(context.Context) ([]country, error) {
		return []country{{"DE", "Germany"}}, nil
	})
	before := runtime.NumGoroutine()

	f := tablecache.NewFactory(enabled(), nil)
	tbl, err := tablecache.For(f, "countries", loader)
	require.NoError(t, err)

	for range 50 {
		_, err := tablecache.For(f, "countries", loader)
		require.ErrorIs(t, err, tablecache.ErrDuplicate)
	}
	require.Less(t, runtime.NumGoroutine(), before+5, "rejected tables must not start sweepers")

	require.NoError(t, f.Close())
	require.NoError(t, f.Close())
	require.Eventually(t, func() bool { return runtime.NumGoroutine() <= before },
		time.Second, 10*time.Millisecond)

	// Closed tables still answer through the loader.
	rows, err := tbl.All(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)

	_, err = tablecache.For(f, "cities", loader)
	require.ErrorIs(t, err, tablecache.ErrClosed)
}

func TestTable_RedisBackend(t *testing.T) {
	t.Parallel()

	srv := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	opts := enabled()
	opts.Backend = "redis"

	var calls atomic.Int32
	f := tablecache.NewFactory(opts, nil, tablecache.WithRedis(client))
	tbl, err := tablecache.For(f, "countries", tablecache.WithLoader(countingLoader(&calls, country{"DE", "Germany"})))
	require.NoError(t, err)

	rows, err := tbl.All(context.Background())
	require.NoError(t, err)
	require.Equal(t, []country{{"DE", "Germany"}}, rows)

	keys := srv.Keys()
	require.Len(t, keys, 1)
	require.Contains(t, keys[0], "tc:countries:")

	_, err = tbl.All(context.Background())
	require.NoError(t, err)
	require.Equal(t, int32(1), calls.Load())
}
