package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hostkit/pkg/health"
)

func ok(context.Context) error { return nil }

func fail(context.Context) error { return errors.New("connection refused") }

func TestRegistry_Run(t *testing.T) {
	t.Parallel()

	t.Run("empty registry is healthy", func(t *testing.T) {
		t.Parallel()

		resp := health.NewRegistry().Run(context.Background())
		require.Equal(t, health.StatusHealthy, resp.Status)
	})

	t.Run("required failure is unhealthy", func(t *testing.T) {
		t.Parallel()

		reg := health.NewRegistry()
		reg.Add("db", fail)
		reg.Add("cache", ok, health.Optional())

		resp := reg.Run(context.Background())
		require.Equal(t, health.StatusUnhealthy, resp.Status)
		require.Equal(t, "connection refused", resp.Checks["db"].Error)
		require.Equal(t, health.StatusHealthy, resp.Checks["cache"].Status)
	})

	t.Run("optional failure degrades", func(t *testing.T) {
		t.Parallel()

		reg := health.NewRegistry()
		reg.Add("db", ok)
		reg.Add("cache", fail, health.Optional())

		resp := reg.Run(context.Background())
		require.Equal(t, health.StatusDegraded, resp.Status)
		require.Equal(t, health.StatusDegraded, resp.Checks["cache"].Status)
		require.True(t, resp.Checks["cache"].Optional)
	})

	t.Run("slow check times out", func(t *testing.T) {
		t.Parallel()

		reg := health.NewRegistry(health.WithTimeout(time.Second))
		reg.Add("slow", func(ctx context.Context) error {
			select {
			case <-time.After(5 * time.Second):
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}, health.CheckTimeout(10*time.Millisecond))

		resp := reg.Run(context.Background())
		require.Equal(t, health.StatusUnhealthy, resp.Status)
		require.NotEmpty(t, resp.Checks["slow"].Error)
	})

	t.Run("panicking check fails", func(t *testing.T) {
		t.Parallel()

		reg := health.NewRegistry()
		reg.Add("bad", func(context.Context) error { panic("nil map") })

		resp := reg.Run(context.Background())
		require.Equal(t, health.StatusUnhealthy, resp.Status)
		require.Equal(t, health.ErrCheckPanicked.Error(), resp.Checks["bad"].Error)
	})

	t.Run("add replaces by name", func(t *testing.T) {
		t.Parallel()

		reg := health.NewRegistry()
		reg.Add("db", fail)
		reg.Add("db", ok)
		reg.Add("nil", nil)

		require.Equal(t, []string{"db"}, reg.Names())
		require.Equal(t, health.StatusHealthy, reg.Run(context.Background()).Status)
	})
}

func TestHandlers(t *testing.T) {
	t.Parallel()

	t.Run("liveness", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		health.LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "OK", rec.Body.String())
	})

	t.Run("readiness unhealthy json", func(t *testing.T) {
		t.Parallel()

		h := health.ReadinessHandler(health.Checks{"db": fail})
		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/health/ready?format=json", nil))

		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var resp health.Response
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Equal(t, health.StatusUnhealthy, resp.Status)
	})

	t.Run("degraded responds 200", func(t *testing.T) {
		t.Parallel()

		reg := health.NewRegistry()
		reg.Add("redis", fail, health.Optional())

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
		reg.Handler()(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "Degraded", rec.Body.String())

		rec = httptest.NewRecorder()
		req.Header.Set("Accept", "application/json")
		reg.Handler()(rec, req)
		require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	})
}
