package internal

import (
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmitrymomot/hostkit/pkg/auth"
	"github.com/dmitrymomot/hostkit/pkg/cookie"
)

// Option configures an App in New.
type Option func(*App)

// WithMiddleware appends global middleware. The first one runs outermost.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithHandlers registers route providers, called in order while New builds
// the route table.
func WithHandlers(h ...Handler) Option {
	return func(a *App) {
		a.handlers = append(a.handlers, h...)
	}
}

// WithStaticFiles serves files from fsys/subDir under pattern with a one
// hour cache. Directory paths answer 404. It panics if subDir is invalid.
//
//	//go:embed public
//	var assets embed.FS
//
//	hostkit.WithStaticFiles("/static/", assets, "public")
func WithStaticFiles(pattern string, fsys fs.FS, subDir string) Option {
	return func(a *App) {
		sub, err := fs.Sub(fsys, subDir)
		if err != nil {
			panic(err)
		}
		files := http.StripPrefix(strings.TrimSuffix(pattern, "/"), http.FileServerFS(sub))

		a.mounts = append(a.mounts, mount{
			pattern: pattern,
			handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if strings.HasSuffix(r.URL.Path, "/") {
					http.NotFound(w, r)
					return
				}
				h := w.Header()
				h.Set("Cache-Control", "public, max-age=3600")
				h.Set("X-Content-Type-Options", "nosniff")
				files.ServeHTTP(w, r)
			}),
		})
	}
}

// WithErrorHandler replaces DefaultErrorHandler. Custom handlers usually
// special-case a few errors and delegate the rest:
//
//	hostkit.WithErrorHandler(func(c hostkit.Context, err error) error {
//	    if errors.Is(err, identity.ErrUserNotFound) {
//	        return c.Redirect(http.StatusSeeOther, "/account/login")
//	    }
//	    return hostkit.DefaultErrorHandler(c, err)
//	})
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		if h != nil {
			a.errorHandler = h
		}
	}
}

func WithNotFoundHandler(h HandlerFunc) Option {
	return func(a *App) {
		if h != nil {
			a.notFound = h
		}
	}
}

func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return func(a *App) {
		if h != nil {
			a.methodNotAllowed = h
		}
	}
}

// WithLogger sets the app logger. It must come before WithHealthChecks for
// the health registry to use it.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithCookieManager sets the manager behind the Context cookie helpers.
func WithCookieManager(m *cookie.Manager) Option {
	return func(a *App) {
		if m != nil {
			a.cookies = m
		}
	}
}

// WithCookieOptions is WithCookieManager(cookie.New(opts...)).
func WithCookieOptions(opts ...cookie.Option) Option {
	return WithCookieManager(cookie.New(opts...))
}

// WithSignInScheme sets the scheme behind Context.SignIn and SignOut.
func WithSignInScheme(s auth.SignInScheme) Option {
	return func(a *App) {
		a.signIn = s
	}
}

// WithRoles grants permissions to roles for Context.Can.
//
//	hostkit.WithRoles(hostkit.RolePermissions{
//	    "admin":  {"users.read", "users.write"},
//	    "viewer": {"users.read"},
//	})
func WithRoles(permissions RolePermissions) Option {
	return func(a *App) {
		a.roles = permissions
	}
}

// WithMaxBodySize caps the bodies BindJSON reads, 1MB by default. Zero
// removes the cap and negative values are ignored.
func WithMaxBodySize(n int64) Option {
	return func(a *App) {
		if n >= 0 {
			a.maxBodySize = n
		}
	}
}
