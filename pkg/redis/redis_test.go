package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hostkit/pkg/redis"
)

func TestOpen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("rejects bad urls", func(t *testing.T) {
		t.Parallel()

		_, err := redis.Open(ctx, redis.Config{})
		require.ErrorIs(t, err, redis.ErrNoURL)

		for _, url := range []string{"http://localhost:6379", "tcp://localhost:6379", "redis://localhost:6379/notadb"} {
			client, err := redis.Open(ctx, redis.Config{URL: url})
			require.ErrorIs(t, err, redis.ErrInvalidURL, url)
			require.Nil(t, client)
		}
	})

	t.Run("applies pool settings", func(t *testing.T) {
		t.Parallel()

		srv := miniredis.RunT(t)
		client, err := redis.Open(ctx, redis.Config{
			URL:          "redis://" + srv.Addr() + "/2",
			PoolSize:     3,
			MinIdleConns: 1,
			ReadTimeout:  time.Second,
		})
		require.NoError(t, err)
		t.Cleanup(func() { _ = client.Close() })

		require.NoError(t, client.Set(ctx, "greeting", "hello", 0).Err())
		srv.Select(2)
		srv.CheckGet(t, "greeting", "hello")
	})

	t.Run("retries then gives up", func(t *testing.T) {
		t.Parallel()

		srv := miniredis.RunT(t)
		addr := srv.Addr()
		srv.Close()

		start := time.Now()
		_, err := redis.Open(ctx, redis.Config{
			URL:           "redis://" + addr,
			RetryAttempts: 3,
			RetryInterval: 10 * time.Millisecond,
			DialTimeout:   100 * time.Millisecond,
		})
		require.ErrorIs(t, err, redis.ErrUnreachable)
		// Waits 10ms then 20ms between the three attempts.
		require.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
	})

	t.Run("stops waiting when the context ends", func(t *testing.T) {
		t.Parallel()

		srv := miniredis.RunT(t)
		addr := srv.Addr()
		srv.Close()

		cctx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()

		start := time.Now()
		_, err := redis.Open(cctx, redis.Config{
			URL:           "redis://" + addr,
			RetryAttempts: 5,
			RetryInterval: time.Second,
			DialTimeout:   20 * time.Millisecond,
		})
		require.ErrorIs(t, err, redis.ErrUnreachable)
		require.ErrorIs(t, err, context.DeadlineExceeded)
		require.Less(t, time.Since(start), time.Second)
	})
}

func TestLifecycle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	require.ErrorIs(t, redis.Healthcheck(nil)(ctx), redis.ErrUnhealthy)
	require.NoError(t, redis.Shutdown(nil)(ctx))

	srv := miniredis.RunT(t)
	client, err := redis.Open(ctx, redis.Config{URL: "redis://" + srv.Addr()})
	require.NoError(t, err)

	check := redis.Healthcheck(client)
	require.NoError(t, check(ctx))

	srv.Close()
	require.ErrorIs(t, check(ctx), redis.ErrUnhealthy)

	shutdown := redis.Shutdown(client)
	require.NoError(t, shutdown(ctx))
	require.NoError(t, shutdown(ctx), "second close")
}

func TestConfig_Enabled(t *testing.T) {
	t.Parallel()

	require.False(t, redis.Config{}.Enabled())
	require.True(t, redis.Config{URL: "redis://x"}.Enabled())
}
