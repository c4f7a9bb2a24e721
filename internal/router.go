package internal

import (
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"
)

// HandlerFunc serves a request. A returned error goes to the app's
// ErrorHandler unless the response was already written.
type HandlerFunc func(c Context) error

// Middleware decorates a HandlerFunc. It may return early without calling
// next.
//
//	func Audit(next hostkit.HandlerFunc) hostkit.HandlerFunc {
//	    return func(c hostkit.Context) error {
//	        c.LogInfo("audit", "user_id", c.UserID())
//	        return next(c)
//	    }
//	}
type Middleware func(next HandlerFunc) HandlerFunc

// ErrorHandler renders an error returned by a handler.
type ErrorHandler func(Context, error) error

// Handler contributes routes to the app.
//
//	func (h *Accounts) Routes(r hostkit.Router) {
//	    r.POST("/account/register", h.register)
//	    r.GET("/account/me", h.me, middlewares.RequireAuthenticated())
//	}
type Handler interface {
	Routes(r Router)
}

// Router is what handlers declare routes on. Middleware given to a single
// route wraps only that route, and the first one listed runs outermost.
type Router interface {
	GET(path string, h HandlerFunc, mw ...Middleware)
	POST(path string, h HandlerFunc, mw ...Middleware)
	PUT(path string, h HandlerFunc, mw ...Middleware)
	PATCH(path string, h HandlerFunc, mw ...Middleware)
	DELETE(path string, h HandlerFunc, mw ...Middleware)
	HEAD(path string, h HandlerFunc, mw ...Middleware)
	OPTIONS(path string, h HandlerFunc, mw ...Middleware)

	// Handle registers h for any method chi knows about.
	Handle(method, path string, h HandlerFunc, mw ...Middleware)

	// With returns a Router whose routes all run behind mw, without
	// affecting routes registered on the receiver.
	With(mw ...Middleware) Router

	// Group shares middleware added with Use inside fn, but no prefix.
	Group(fn func(r Router))

	// Route mounts a sub-router at pattern.
	Route(pattern string, fn func(r Router))

	// Use adds middleware to every route of this router, including ones
	// registered earlier.
	Use(mw ...Middleware)

	// Mount attaches a plain http.Handler at pattern.
	Mount(pattern string, h http.Handler)
}

// chiRouter implements Router on a chi mux. inline holds middleware
// collected by With.
type chiRouter struct {
	mux    chi.Router
	app    *App
	inline []Middleware
}

func (r *chiRouter) GET(path string, h HandlerFunc, mw ...Middleware) {
	r.Handle(http.MethodGet, path, h, mw...)
}

func (r *chiRouter) POST(path string, h HandlerFunc, mw ...Middleware) {
	r.Handle(http.MethodPost, path, h, mw...)
}

func (r *chiRouter) PUT(path string, h HandlerFunc, mw ...Middleware) {
	r.Handle(http.MethodPut, path, h, mw...)
}

func (r *chiRouter) PATCH(path string, h HandlerFunc, mw ...Middleware) {
	r.Handle(http.MethodPatch, path, h, mw...)
}

func (r *chiRouter) DELETE(path string, h HandlerFunc, mw ...Middleware) {
	r.Handle(http.MethodDelete, path, h, mw...)
}

func (r *chiRouter) HEAD(path string, h HandlerFunc, mw ...Middleware) {
	r.Handle(http.MethodHead, path, h, mw...)
}

func (r *chiRouter) OPTIONS(path string, h HandlerFunc, mw ...Middleware) {
	r.Handle(http.MethodOptions, path, h, mw...)
}

func (r *chiRouter) Handle(method, path string, h HandlerFunc, mw ...Middleware) {
	r.mux.Method(method, path, r.app.httpHandler(chain(h, slices.Concat(r.inline, mw))))
}

func (r *chiRouter) With(mw ...Middleware) Router {
	return &chiRouter{mux: r.mux, app: r.app, inline: slices.Concat(r.inline, mw)}
}

func (r *chiRouter) Group(fn func(Router)) {
	r.mux.Group(func(m chi.Router) {
		fn(r.on(m))
	})
}

func (r *chiRouter) Route(pattern string, fn func(Router)) {
	r.mux.Route(pattern, func(m chi.Router) {
		fn(r.on(m))
	})
}

func (r *chiRouter) Use(mw ...Middleware) {
	for _, m := range mw {
		r.mux.Use(r.app.adaptMiddleware(m))
	}
}

func (r *chiRouter) Mount(pattern string, h http.Handler) {
	r.mux.Mount(pattern, h)
}

func (r *chiRouter) on(m chi.Router) *chiRouter {
	return &chiRouter{mux: m, app: r.app, inline: r.inline}
}

// chain wraps h so that mw[0] runs first.
func chain(h HandlerFunc, mw []Middleware) HandlerFunc {
	for _, m := range slices.Backward(mw) {
		h = m(h)
	}
	return h
}

// adaptMiddleware turns a Middleware into chi middleware. The request handed
// to next carries values stored with Context.Set, and the shared
// *ResponseWriter keeps before-write hooks across layers.
func (a *App) adaptMiddleware(mw Middleware) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return a.httpHandler(mw(func(c Context) error {
			next.ServeHTTP(c.Response(), c.Request())
			return nil
		}))
	}
}
