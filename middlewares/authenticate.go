package middlewares

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrymomot/hostkit/internal"
	"github.com/dmitrymomot/hostkit/pkg/auth"
	"github.com/dmitrymomot/hostkit/pkg/errs"
	"github.com/dmitrymomot/hostkit/pkg/logger"
)

// authFailureKey stores the error of a scheme that rejected the request's
// credentials, so RequireAuthenticated can report it.
type authFailureKey struct{}

// Authenticate returns middleware that runs schemes in order and stores
// the first principal found on the request. Requests without credentials
// stay anonymous. Rejected credentials also leave the request anonymous;
// the failure is logged and reported later by RequireAuthenticated.
//
// Schemes implementing auth.Renewer (the cookie scheme with sliding
// expiration) get a chance to reissue their ticket before the response
// is written.
func Authenticate(schemes ...auth.Scheme) internal.Middleware {
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			for _, scheme := range schemes {
				p, err := scheme.Authenticate(c.Request())
				if err != nil {
					c.LogDebug("authentication failed", "scheme", scheme.Name(), logger.Error(err))
					if c.Get(authFailureKey{}) == nil {
						c.Set(authFailureKey{}, err)
					}
					continue
				}
				if !p.IsAuthenticated() {
					continue
				}

				c.SetPrincipal(p)
				if r, ok := scheme.(auth.Renewer); ok {
					req := c.Request()
					c.ResponseWriter().OnBeforeWrite(func() {
						if err := r.Renew(c.Response(), req, p); err != nil {
							c.LogWarn("ticket renewal failed", "scheme", scheme.Name(), logger.Error(err))
						}
					})
				}
				break
			}
			return next(c)
		}
	}
}

// RequireOption configures the authorization middlewares.
type RequireOption func(*requireConfig)

type requireConfig struct {
	loginPath        string
	accessDeniedPath string
}

// WithLoginRedirect sends browsers (requests accepting text/html) to path
// with a ReturnUrl query parameter instead of answering 401.
func WithLoginRedirect(path string) RequireOption {
	return func(cfg *requireConfig) {
		cfg.loginPath = path
	}
}

// WithAccessDeniedRedirect sends browsers to path instead of answering 403.
func WithAccessDeniedRedirect(path string) RequireOption {
	return func(cfg *requireConfig) {
		cfg.accessDeniedPath = path
	}
}

// CookieRedirects returns the login and access denied redirects configured
// for the cookie scheme.
func CookieRedirects(opts auth.CookieOptions) []RequireOption {
	return []RequireOption{
		WithLoginRedirect(opts.LoginPath),
		WithAccessDeniedRedirect(opts.AccessDeniedPath),
	}
}

func newRequireConfig(opts []RequireOption) *requireConfig {
	cfg := &requireConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// RequireAuthenticated rejects anonymous requests with 401.
func RequireAuthenticated(opts ...RequireOption) internal.Middleware {
	cfg := newRequireConfig(opts)
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			if !c.IsAuthenticated() {
				return cfg.challenge(c)
			}
			return next(c)
		}
	}
}

// RequireRole admits principals holding at least one of roles.
func RequireRole(roles []string, opts ...RequireOption) internal.Middleware {
	cfg := newRequireConfig(opts)
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			if !c.IsAuthenticated() {
				return cfg.challenge(c)
			}
			for _, role := range roles {
				if c.IsInRole(role) {
					return next(c)
				}
			}
			return cfg.forbid(c, "The current user does not have a required role.")
		}
	}
}

// RequirePermission admits principals granted every one of permissions,
// either directly or through a role (see hostkit.WithRoles).
func RequirePermission(permissions []internal.Permission, opts ...RequireOption) internal.Middleware {
	cfg := newRequireConfig(opts)
	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			if !c.IsAuthenticated() {
				return cfg.challenge(c)
			}
			for _, perm := range permissions {
				if !c.Can(perm) {
					return cfg.forbid(c, "The current user lacks the "+string(perm)+" permission.")
				}
			}
			return next(c)
		}
	}
}

func (cfg *requireConfig) challenge(c internal.Context) error {
	if cfg.loginPath != "" && wantsHTML(c.Request()) {
		return c.Redirect(http.StatusFound, withReturnURL(cfg.loginPath, c.Request()))
	}
	if err, ok := c.Get(authFailureKey{}).(error); ok {
		var e errs.Error
		if errors.As(err, &e) && e.Type == errs.TypeUnauthorized {
			return e
		}
		return auth.Unauthenticated().WithCause(err)
	}
	return auth.Unauthenticated()
}

func (cfg *requireConfig) forbid(c internal.Context, detail string) error {
	if cfg.accessDeniedPath != "" && wantsHTML(c.Request()) {
		return c.Redirect(http.StatusFound, withReturnURL(cfg.accessDeniedPath, c.Request()))
	}
	return auth.Forbidden(detail)
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func withReturnURL(path string, r *http.Request) string {
	return path + "?" + url.Values{"ReturnUrl": {r.URL.RequestURI()}}.Encode()
}
