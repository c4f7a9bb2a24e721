package internal

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/hostkit/pkg/auth"
	"github.com/dmitrymomot/hostkit/pkg/cookie"
	"github.com/dmitrymomot/hostkit/pkg/logger"
)

const defaultMaxBodySize = 1 << 20

// App is the HTTP host. Everything is configured through New; the route
// table is built once and never changes afterwards.
type App struct {
	router chi.Router
	logger *slog.Logger

	// request pipeline
	middlewares []Middleware
	handlers    []Handler
	mounts      []mount

	// error rendering
	errorHandler     ErrorHandler
	notFound         HandlerFunc
	methodNotAllowed HandlerFunc

	// identity and cookies, handed to every Context
	cookies     *cookie.Manager
	signIn      auth.SignInScheme
	roles       RolePermissions
	maxBodySize int64

	health  *healthConfig
	metrics *mount
}

// mount is a plain http.Handler attached at a fixed pattern.
type mount struct {
	handler http.Handler
	pattern string
}

// New builds the app and its route table.
//
//	app := hostkit.New(
//	    hostkit.WithMiddleware(middlewares.RequestID(), middlewares.Authenticate(bearer, cookies)),
//	    hostkit.WithSignInScheme(cookies),
//	    hostkit.WithHandlers(accounts.NewHandler(deps)),
//	)
func New(opts ...Option) *App {
	a := &App{
		router:       chi.NewRouter(),
		logger:       logger.NewNope(),
		cookies:      cookie.New(),
		errorHandler: DefaultErrorHandler,
		notFound: func(Context) error {
			return ErrNotFound("the requested resource was not found")
		},
		methodNotAllowed: func(Context) error {
			return NewHTTPError(http.StatusMethodNotAllowed, "method not allowed")
		},
		maxBodySize: defaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.buildRoutes()
	return a
}

// Router exposes the chi mux, mostly for tests.
func (a *App) Router() chi.Router {
	return a.router
}

func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Run serves until SIGINT, SIGTERM or the WithContext context ends.
//
//	err := app.Run(":8080",
//	    hostkit.StartupHook(func(ctx context.Context) error {
//	        return db.Migrate(ctx, pool, migrations.FS, "", log)
//	    }),
//	    hostkit.ShutdownHook(db.Shutdown(pool)),
//	)
func (a *App) Run(addr string, opts ...RunOption) error {
	return newRunConfig(addr, a.logger, opts).serve(a.router)
}

// buildRoutes registers global middleware first since chi rejects Use after
// the first route.
func (a *App) buildRoutes() {
	for _, mw := range a.middlewares {
		a.router.Use(a.adaptMiddleware(mw))
	}

	a.router.NotFound(a.httpHandler(a.notFound))
	a.router.MethodNotAllowed(a.httpHandler(a.methodNotAllowed))

	for _, m := range a.mounts {
		a.router.Mount(m.pattern, m.handler)
	}
	if a.health != nil {
		a.health.register(a.router)
	}
	if a.metrics != nil {
		a.router.Method(http.MethodGet, a.metrics.pattern, a.metrics.handler)
	}

	root := &chiRouter{mux: a.router, app: a}
	for _, h := range a.handlers {
		h.Routes(root)
	}
}

// httpHandler runs h with a fresh Context and renders any error it returns.
func (a *App) httpHandler(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := newContext(w, r, a)
		if err := h(c); err != nil {
			a.renderError(c, err)
		}
	}
}

func (a *App) renderError(c Context, err error) {
	if c.Written() {
		// Too late for a problem response; the status is already out.
		c.LogWarn("handler failed after writing the response", logger.Error(err))
		return
	}
	if rerr := a.errorHandler(c, err); rerr != nil {
		c.LogError("error handler failed", logger.Error(rerr), slog.String("cause", err.Error()))
	}
}
