package internal_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hostkit/internal"
	"github.com/dmitrymomot/hostkit/pkg/auth"
	"github.com/dmitrymomot/hostkit/pkg/cookie"
	"github.com/dmitrymomot/hostkit/pkg/errs"
)

const testSecret = "this-is-a-32-byte-or-longer-key!"

// requestVia creates an App with the given options, registers fn at GET and
// POST /, and serves req. fn runs inside the real requestContext.
func requestVia(t *testing.T, req *http.Request, opts []internal.Option, fn func(c internal.Context)) *httptest.ResponseRecorder {
	t.Helper()

	h := &captureHandler{fn: fn}
	opts = append(opts, internal.WithHandlers(h))
	app := internal.New(opts...)

	w := httptest.NewRecorder()
	app.Router().ServeHTTP(w, req)
	return w
}

type captureHandler struct {
	fn func(c internal.Context)
}

func (h *captureHandler) Routes(r internal.Router) {
	run := func(c internal.Context) error {
		h.fn(c)
		return nil
	}
	r.GET("/", run)
	r.POST("/", run)
}

// withPrincipal is global middleware that authenticates every request as p.
func withPrincipal(p *auth.Principal) internal.Option {
	return internal.WithMiddleware(func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			c.SetPrincipal(p)
			return next(c)
		}
	})
}

func TestContextDelegatesToRequestContext(t *testing.T) {
	t.Parallel()

	type key struct{}
	type counterKey struct{}
	ctx, cancel := context.WithTimeout(context.WithValue(context.Background(), key{}, "v"), 5*time.Second)
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx)
	called := false
	requestVia(t, req, nil, func(c internal.Context) {
		called = true
		deadline, ok := c.Deadline()
		require.True(t, ok)
		want, _ := ctx.Deadline()
		require.Equal(t, want, deadline)
		require.Equal(t, "v", c.Value(key{}))
		require.NoError(t, c.Err())

		c.Set(counterKey{}, 42)
		require.Equal(t, 42, c.Get(counterKey{}))
		require.Equal(t, 42, c.Context().Value(counterKey{}))
	})
	require.True(t, called)
}

type signupRequest struct {
	Email string `json:"email"`
}

func (s signupRequest) Validate() errs.Errors {
	if s.Email == "" {
		return errs.Errors{errs.Validation("Email.Required", "Email is required.")}
	}
	return nil
}

func TestBindJSON(t *testing.T) {
	t.Parallel()

	post := func(body string) *http.Request {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
		return r
	}

	t.Run("decodes a valid body", func(t *testing.T) {
		t.Parallel()

		requestVia(t, post(`{"email":"ada@example.com"}`), nil, func(c internal.Context) {
			var in signupRequest
			require.NoError(t, c.BindJSON(&in))
			require.Equal(t, "ada@example.com", in.Email)
		})
	})

	t.Run("returns Validate errors", func(t *testing.T) {
		t.Parallel()

		requestVia(t, post(`{}`), nil, func(c internal.Context) {
			var in signupRequest
			err := c.BindJSON(&in)
			var list errs.Errors
			require.ErrorAs(t, err, &list)
			require.Equal(t, "Email.Required", list.First().Code)
		})
	})

	t.Run("malformed JSON is a validation error", func(t *testing.T) {
		t.Parallel()

		requestVia(t, post(`{"email":`), nil, func(c internal.Context) {
			var in signupRequest
			err := c.BindJSON(&in)
			var e errs.Error
			require.ErrorAs(t, err, &e)
			require.Equal(t, internal.CodeInvalidJSON, e.Code)
			require.Equal(t, errs.TypeValidation, e.Type)
		})
	})

	t.Run("empty body", func(t *testing.T) {
		t.Parallel()

		requestVia(t, post(""), nil, func(c internal.Context) {
			var in signupRequest
			var e errs.Error
			require.ErrorAs(t, c.BindJSON(&in), &e)
			require.Equal(t, internal.CodeEmptyBody, e.Code)
		})
	})

	t.Run("body over the limit", func(t *testing.T) {
		t.Parallel()

		opts := []internal.Option{internal.WithMaxBodySize(8)}
		requestVia(t, post(`{"email":"ada@example.com"}`), opts, func(c internal.Context) {
			var in signupRequest
			httpErr := internal.AsHTTPError(c.BindJSON(&in))
			require.NotNil(t, httpErr)
			require.Equal(t, http.StatusRequestEntityTooLarge, httpErr.Code)
		})
	})
}

func TestIdentityMethods(t *testing.T) {
	t.Parallel()

	t.Run("anonymous request", func(t *testing.T) {
		t.Parallel()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		requestVia(t, req, nil, func(c internal.Context) {
			require.Nil(t, c.Principal())
			require.Empty(t, c.UserID())
			require.False(t, c.IsAuthenticated())
			require.False(t, c.IsCurrentUser(""))
			require.False(t, c.IsInRole("admin"))
			require.False(t, c.Can("users.read"))
		})
	})

	t.Run("principal from middleware", func(t *testing.T) {
		t.Parallel()

		p := &auth.Principal{Subject: "u1", Roles: []string{"editor"}, Permissions: []string{"reports.export"}}
		opts := []internal.Option{
			withPrincipal(p),
			internal.WithRoles(internal.RolePermissions{
				"editor": {"posts.read", "posts.write"},
				"admin":  {"users.write"},
			}),
		}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		requestVia(t, req, opts, func(c internal.Context) {
			require.Same(t, p, c.Principal())
			require.Equal(t, "u1", c.UserID())
			require.True(t, c.IsAuthenticated())
			require.True(t, c.IsCurrentUser("u1"))
			require.False(t, c.IsCurrentUser("u2"))
			require.True(t, c.IsInRole("editor"))
			require.True(t, c.Can("posts.write"))
			require.True(t, c.Can("reports.export"))
			require.False(t, c.Can("users.write"))
		})
	})
}

func TestSignInSignOut(t *testing.T) {
	t.Parallel()

	m := cookie.New(cookie.WithSecret(testSecret))
	scheme, err := auth.NewCookie(m, auth.DefaultCookieOptions())
	require.NoError(t, err)
	opts := []internal.Option{internal.WithCookieManager(m), internal.WithSignInScheme(scheme)}

	w := requestVia(t, httptest.NewRequest(http.MethodGet, "/", nil), opts, func(c internal.Context) {
		require.NoError(t, c.SignIn(&auth.Principal{Subject: "u1", Email: "ada@example.com"}))
		require.True(t, c.IsAuthenticated())
		require.Equal(t, auth.CookieSchemeName, c.Principal().Scheme)
		require.NoError(t, c.NoContent(http.StatusNoContent))
	})

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "hostkit.auth", cookies[0].Name)

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(cookies[0])
	p, err := scheme.Authenticate(next)
	require.NoError(t, err)
	require.Equal(t, "u1", p.Subject)

	w = requestVia(t, next, opts, func(c internal.Context) {
		require.NoError(t, c.SignOut())
		require.False(t, c.IsAuthenticated())
	})
	cleared := w.Result().Cookies()
	require.Len(t, cleared, 1)
	require.Negative(t, cleared[0].MaxAge)

	t.Run("no scheme configured", func(t *testing.T) {
		t.Parallel()

		requestVia(t, httptest.NewRequest(http.MethodGet, "/", nil), nil, func(c internal.Context) {
			require.ErrorIs(t, c.SignIn(&auth.Principal{Subject: "u1"}), internal.ErrNoSignInScheme)
			require.ErrorIs(t, c.SignOut(), internal.ErrNoSignInScheme)
		})
	})

	t.Run("anonymous principal", func(t *testing.T) {
		t.Parallel()

		requestVia(t, httptest.NewRequest(http.MethodGet, "/", nil), opts, func(c internal.Context) {
			require.ErrorIs(t, c.SignIn(&auth.Principal{}), internal.ErrNilPrincipal)
		})
	})
}

func TestContextCookies(t *testing.T) {
	t.Parallel()

	opts := []internal.Option{internal.WithCookieOptions(cookie.WithSecret(testSecret))}

	w := requestVia(t, httptest.NewRequest(http.MethodGet, "/", nil), opts, func(c internal.Context) {
		c.SetCookie("plain", "v1", time.Hour)
		require.NoError(t, c.SetCookieSigned("signed", "v2", time.Hour))
		require.NoError(t, c.SetCookieEncrypted("secret", "v3", 0))
		require.NoError(t, c.SetFlash("notice", "saved"))
	})

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range w.Result().Cookies() {
		next.AddCookie(ck)
	}

	requestVia(t, next, opts, func(c internal.Context) {
		v, err := c.Cookie("plain")
		require.NoError(t, err)
		require.Equal(t, "v1", v)

		v, err = c.CookieSigned("signed")
		require.NoError(t, err)
		require.Equal(t, "v2", v)

		v, err = c.CookieEncrypted("secret")
		require.NoError(t, err)
		require.Equal(t, "v3", v)

		var notice string
		require.NoError(t, c.Flash("notice", &notice))
		require.Equal(t, "saved", notice)

		_, err = c.Cookie("missing")
		require.True(t, errors.Is(err, cookie.ErrNotFound))
	})
}
