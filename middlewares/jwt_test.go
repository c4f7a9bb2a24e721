package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hostkit/internal"
	"github.com/dmitrymomot/hostkit/middlewares"
	"github.com/dmitrymomot/hostkit/pkg/auth"
	"github.com/dmitrymomot/hostkit/pkg/errs"
	"github.com/dmitrymomot/hostkit/pkg/jwt"
)

const signingKey = "test-signing-key-of-at-least-32-bytes"

type tenantClaims struct {
	Subject string `json:"sub"`
	Tenant  string `json:"tenant"`
}

func newJWTService(t *testing.T, opts ...jwt.Option) *jwt.Service {
	t.Helper()

	cfg := jwt.DefaultConfig()
	cfg.SigningKey = signingKey
	svc, err := jwt.New(cfg, opts...)
	require.NoError(t, err)
	return svc
}

func bearer(token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/items/1", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestJWT(t *testing.T) {
	t.Parallel()

	svc := newJWTService(t)
	token, err := svc.Generate(tenantClaims{Subject: "u1", Tenant: "acme"})
	require.NoError(t, err)

	readClaims := func(got **tenantClaims) internal.HandlerFunc {
		return func(c internal.Context) error {
			*got, _ = internal.Claims[tenantClaims](c)
			return nil
		}
	}

	t.Run("valid token stores typed claims", func(t *testing.T) {
		t.Parallel()

		var got *tenantClaims
		err := run(t, bearer(token), middlewares.JWT[tenantClaims](svc), readClaims(&got))
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Equal(t, "u1", got.Subject)
		require.Equal(t, "acme", got.Tenant)
	})

	t.Run("missing token", func(t *testing.T) {
		t.Parallel()

		err := run(t, bearer(""), middlewares.JWT[tenantClaims](svc), noContent)
		var e errs.Error
		require.ErrorAs(t, err, &e)
		require.Equal(t, auth.CodeUnauthenticated, e.Code)
	})

	t.Run("optional lets anonymous requests through", func(t *testing.T) {
		t.Parallel()

		var got *tenantClaims
		err := run(t, bearer(""), middlewares.JWT[tenantClaims](svc, middlewares.WithJWTOptional()), readClaims(&got))
		require.NoError(t, err)
		require.Nil(t, got)

		err = run(t, bearer("garbage"), middlewares.JWT[tenantClaims](svc, middlewares.WithJWTOptional()), noContent)
		require.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()

		past := newJWTService(t, jwt.WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) }))
		old, err := past.Generate(tenantClaims{Subject: "u1"})
		require.NoError(t, err)

		err = run(t, bearer(old), middlewares.JWT[tenantClaims](svc), noContent)
		var e errs.Error
		require.ErrorAs(t, err, &e)
		require.Equal(t, auth.CodeTokenExpired, e.Code)
		require.ErrorIs(t, err, jwt.ErrExpiredToken)
	})

	t.Run("token signed with another key", func(t *testing.T) {
		t.Parallel()

		cfg := jwt.DefaultConfig()
		cfg.SigningKey = "another-signing-key-of-32-bytes-or-more"
		other, err := jwt.New(cfg)
		require.NoError(t, err)
		foreign, err := other.Generate(tenantClaims{Subject: "u1"})
		require.NoError(t, err)

		w := serve(t, bearer(foreign), noContent, []internal.Middleware{middlewares.JWT[tenantClaims](svc)})
		require.Equal(t, http.StatusUnauthorized, w.Code)
		d := decodeProblem(t, w)
		require.Equal(t, auth.CodeInvalidToken, d.Code)
	})

	t.Run("custom extractor", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/items/1?access_token="+token, nil)
		mw := middlewares.JWT[tenantClaims](svc, middlewares.WithJWTExtractor(
			internal.NewExtractor(internal.FromQuery("access_token")),
		))

		var got *tenantClaims
		require.NoError(t, run(t, req, mw, readClaims(&got)))
		require.Equal(t, "acme", got.Tenant)
	})
}
