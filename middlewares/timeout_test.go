package middlewares_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hostkit/internal"
	"github.com/dmitrymomot/hostkit/middlewares"
)

func TestTimeout(t *testing.T) {
	t.Parallel()

	t.Run("fast handler completes normally", func(t *testing.T) {
		t.Parallel()

		err := run(t, httptest.NewRequest(http.MethodGet, "/items/1", nil), middlewares.Timeout(time.Second), noContent)
		require.NoError(t, err)
	})

	t.Run("handler sees the deadline through its Context", func(t *testing.T) {
		t.Parallel()

		var deadline time.Time
		err := run(t, httptest.NewRequest(http.MethodGet, "/items/1", nil), middlewares.Timeout(time.Minute),
			func(c internal.Context) error {
				deadline, _ = c.Deadline()
				return nil
			})
		require.NoError(t, err)
		require.WithinDuration(t, time.Now().Add(time.Minute), deadline, 5*time.Second)
	})

	t.Run("slow handler yields TimeoutError", func(t *testing.T) {
		t.Parallel()

		err := run(t, httptest.NewRequest(http.MethodGet, "/items/1", nil), middlewares.Timeout(20*time.Millisecond),
			func(c internal.Context) error {
				<-c.Done()
				return nil
			})

		te, ok := middlewares.AsTimeoutError(err)
		require.True(t, ok)
		require.Equal(t, 20*time.Millisecond, te.Duration)
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("renders 504", func(t *testing.T) {
		t.Parallel()

		slow := func(c internal.Context) error {
			<-c.Done()
			return nil
		}
		w := serve(t, httptest.NewRequest(http.MethodGet, "/items/1", nil), slow,
			[]internal.Middleware{middlewares.Timeout(20 * time.Millisecond)})

		require.Equal(t, http.StatusGatewayTimeout, w.Code)
		require.Equal(t, http.StatusGatewayTimeout, decodeProblem(t, w).Status)
	})

	t.Run("non-positive timeout falls back to the default", func(t *testing.T) {
		t.Parallel()

		var deadline time.Time
		err := run(t, httptest.NewRequest(http.MethodGet, "/items/1", nil), middlewares.Timeout(0),
			func(c internal.Context) error {
				deadline, _ = c.Deadline()
				return nil
			})
		require.NoError(t, err)
		require.WithinDuration(t, time.Now().Add(middlewares.DefaultTimeout), deadline, 5*time.Second)
	})
}
