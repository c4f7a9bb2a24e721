package cache_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hostkit/pkg/cache"
)

func TestMemory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("get and set", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[int]()
		defer c.Close()

		_, err := c.Get(ctx, "missing")
		require.ErrorIs(t, err, cache.ErrNotFound)

		require.NoError(t, c.Set(ctx, "k", 42, time.Minute))
		v, err := c.Get(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, 42, v)

		stats := c.Stats()
		require.Equal(t, uint64(1), stats.Hits)
		require.Equal(t, uint64(1), stats.Misses)
		require.Equal(t, 1, stats.Entries)
	})

	t.Run("expired entries are not returned", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[string](cache.WithCleanupInterval(0))
		defer c.Close()

		require.NoError(t, c.Set(ctx, "k", "v", time.Millisecond))
		time.Sleep(5 * time.Millisecond)

		ok, err := c.Has(ctx, "k")
		require.NoError(t, err)
		require.False(t, ok)
		_, err = c.Get(ctx, "k")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("negative ttl never expires", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[string](cache.WithDefaultTTL(time.Millisecond), cache.WithCleanupInterval(0))
		defer c.Close()

		require.NoError(t, c.Set(ctx, "forever", "v", -1))
		require.NoError(t, c.Set(ctx, "default", "v", 0))
		time.Sleep(5 * time.Millisecond)

		ok, _ := c.Has(ctx, "forever")
		require.True(t, ok)
		ok, _ = c.Has(ctx, "default")
		require.False(t, ok)
	})

	t.Run("evicts least recently used", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[int](cache.WithMaxEntries(2))
		defer c.Close()

		var evicted []string
		c.OnEvict(func(key string, _ int) { evicted = append(evicted, key) })

		require.NoError(t, c.Set(ctx, "a", 1, 0))
		require.NoError(t, c.Set(ctx, "b", 2, 0))
		_, _ = c.Get(ctx, "a")
		require.NoError(t, c.Set(ctx, "c", 3, 0))

		require.Equal(t, []string{"b"}, evicted)
		require.Equal(t, uint64(1), c.Stats().Evictions)
		require.Equal(t, 2, c.Len())
	})

	t.Run("sweeper removes expired entries", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[int](cache.WithCleanupInterval(5 * time.Millisecond))
		defer c.Close()

		require.NoError(t, c.Set(ctx, "k", 1, time.Millisecond))
		require.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)
	})

	t.Run("clear and close", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[int]()
		require.NoError(t, c.Set(ctx, "a", 1, 0))
		require.NoError(t, c.Delete(ctx, "a"))
		require.NoError(t, c.Set(ctx, "b", 1, 0))
		require.NoError(t, c.Clear(ctx))
		require.Zero(t, c.Len())

		require.NoError(t, c.Close())
		require.NoError(t, c.Close())
		require.ErrorIs(t, c.Set(ctx, "x", 1, 0), cache.ErrClosed)
	})
}

func TestGetOrSet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("loads once under concurrency", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[string]()
		defer c.Close()

		var calls atomic.Int32
		release := make(chan struct{})
		load := func(context.Context) (string, time.Duration, error) {
			calls.Add(1)
			<-release
			return "value", time.Minute, nil
		}

		var wg sync.WaitGroup
		results := make([]string, 10)
		for i := range results {
			wg.Go(func() {
				v, err := cache.GetOrSet(ctx, c, "k", load)
				require.NoError(t, err)
				results[i] = v
			})
		}
		time.Sleep(20 * time.Millisecond)
		close(release)
		wg.Wait()

		require.Equal(t, int32(1), calls.Load())
		for _, v := range results {
			require.Equal(t, "value", v)
		}

		v, err := c.Get(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, "value", v)
	})

	t.Run("errors are not cached", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[int]()
		defer c.Close()

		boom := errors.New("boom")
		_, err := cache.GetOrSet(ctx, c, "k", func(context.Context) (int, time.Duration, error) {
			return 0, 0, boom
		})
		require.ErrorIs(t, err, boom)

		ok, _ := c.Has(ctx, "k")
		require.False(t, ok)
	})

	t.Run("a cancelled caller does not fail the others", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[string]()
		defer c.Close()

		started := make(chan struct{})
		release := make(chan struct{})
		load := func(ctx context.Context) (string, time.Duration, error) {
			close(started)
			select {
			case <-release:
				return "value", time.Minute, nil
			case <-ctx.Done():
				return "", 0, ctx.Err()
			}
		}

		firstCtx, cancel := context.WithCancel(ctx)
		first := make(chan error, 1)
		go func() {
			_, err := cache.GetOrSet(firstCtx, c, "k", load)
			first <- err
		}()
		<-started

		second := make(chan string, 1)
		go func() {
			v, _ := cache.GetOrSet(ctx, c, "k", load)
			second <- v
		}()
		time.Sleep(20 * time.Millisecond)

		cancel()
		require.ErrorIs(t, <-first, context.Canceled)

		close(release)
		require.Equal(t, "value", <-second)
	})

	t.Run("a panicking loader becomes an error", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[int]()
		defer c.Close()

		_, err := cache.GetOrSet(ctx, c, "k", func(context.Context) (int, time.Duration, error) {
			panic("loader bug")
		})
		require.ErrorIs(t, err, cache.ErrLoadPanicked)
		require.ErrorContains(t, err, "loader bug")
	})

	t.Run("same key on different caches does not collide", func(t *testing.T) {
		t.Parallel()

		ints := cache.NewMemory[int]()
		defer ints.Close()
		strs := cache.NewMemory[string]()
		defer strs.Close()

		n, err := cache.GetOrSet(ctx, ints, "shared", func(context.Context) (int, time.Duration, error) { return 7, 0, nil })
		require.NoError(t, err)
		require.Equal(t, 7, n)

		s, err := cache.GetOrSet(ctx, strs, "shared", func(context.Context) (string, time.Duration, error) { return "x", 0, nil })
		require.NoError(t, err)
		require.Equal(t, "x", s)
	})
}

func TestNew(t *testing.T) {
	t.Parallel()

	c, err := cache.New[int](cache.Config{Backend: "memory"}, nil, "n")
	require.NoError(t, err)
	require.NoError(t, c.Close())

	_, err = cache.New[int](cache.Config{Backend: "redis"}, nil, "n")
	require.ErrorIs(t, err, cache.ErrNoRedisClient)

	_, err = cache.New[int](cache.Config{Backend: "memcached"}, nil, "n")
	require.ErrorIs(t, err, cache.ErrUnknownBackend)
}
