package internal

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/hostkit/pkg/auth"
	"github.com/dmitrymomot/hostkit/pkg/errs"
)

type Permission string

// RolePermissions grants permissions to role names.
type RolePermissions = map[string][]Permission

// Request-scoped value keys.
type (
	JWTClaimsKey struct{}
	RequestIDKey struct{}
)

// Validatable request bodies are checked by BindJSON after decoding.
type Validatable interface {
	Validate() errs.Errors
}

const (
	CodeInvalidJSON = "Request.InvalidJSON"
	CodeEmptyBody   = "Request.EmptyBody"
)

// Context is what handlers receive. It is a context.Context bound to the
// request, so it can be passed straight to storage calls.
type Context interface {
	context.Context

	Request() *http.Request
	Response() http.ResponseWriter
	// ResponseWriter is the wrapper behind Response, for OnBeforeWrite.
	ResponseWriter() *ResponseWriter
	Context() context.Context
	// SetContext swaps the request context, e.g. to add a deadline.
	SetContext(ctx context.Context)

	// Request input. Missing values read as "".
	Param(name string) string
	Query(name string) string
	QueryDefault(name, defaultValue string) string
	Form(name string) string
	Header(name string) string

	// BindJSON decodes the body into v, honoring WithMaxBodySize. Bad JSON
	// is a validation error; if v is Validatable its errs.Errors are
	// returned as-is.
	BindJSON(v any) error

	SetHeader(name, value string)
	JSON(code int, v any) error
	String(code int, s string) error
	NoContent(code int) error
	Redirect(code int, url string) error
	// Error builds an *HTTPError for the handler to return.
	Error(code int, message string, opts ...HTTPErrorOption) *HTTPError
	Written() bool

	RequestID() string
	Logger() *slog.Logger
	LogDebug(msg string, attrs ...any)
	LogInfo(msg string, attrs ...any)
	LogWarn(msg string, attrs ...any)
	LogError(msg string, attrs ...any)

	// Set stores a value visible to later middleware and the handler.
	Set(key, value any)
	Get(key any) any

	Cookie(name string) (string, error)
	// SetCookie with a zero maxAge writes a session cookie.
	SetCookie(name, value string, maxAge time.Duration)
	DeleteCookie(name string)
	CookieSigned(name string) (string, error)
	SetCookieSigned(name, value string, maxAge time.Duration) error
	CookieEncrypted(name string) (string, error)
	SetCookieEncrypted(name, value string, maxAge time.Duration) error
	// Flash reads a one-time value and deletes it.
	Flash(key string, dest any) error
	SetFlash(key string, value any) error

	// Principal is nil for anonymous requests.
	Principal() *auth.Principal
	SetPrincipal(p *auth.Principal)
	UserID() string
	IsAuthenticated() bool
	IsCurrentUser(id string) bool
	IsInRole(role string) bool
	// Can checks direct permissions first, then those granted to the
	// principal's roles through WithRoles.
	Can(permission Permission) bool
	// SignIn persists p through the WithSignInScheme scheme and makes it
	// the current principal.
	SignIn(p *auth.Principal) error
	SignOut() error
}

type requestContext struct {
	app *App
	req *http.Request
	rw  *ResponseWriter
}

// newContext reuses w when it is already a *ResponseWriter, which keeps
// hooks registered by outer middleware.
func newContext(w http.ResponseWriter, r *http.Request, app *App) *requestContext {
	rw, ok := w.(*ResponseWriter)
	if !ok {
		rw = NewResponseWriter(w)
	}
	return &requestContext{app: app, req: r, rw: rw}
}

func (c *requestContext) Deadline() (time.Time, bool) { return c.req.Context().Deadline() }
func (c *requestContext) Done() <-chan struct{}       { return c.req.Context().Done() }
func (c *requestContext) Err() error                  { return c.req.Context().Err() }
func (c *requestContext) Value(key any) any           { return c.req.Context().Value(key) }

func (c *requestContext) Request() *http.Request          { return c.req }
func (c *requestContext) Response() http.ResponseWriter   { return c.rw }
func (c *requestContext) ResponseWriter() *ResponseWriter { return c.rw }
func (c *requestContext) Context() context.Context        { return c.req.Context() }

func (c *requestContext) SetContext(ctx context.Context) {
	if ctx != nil {
		c.req = c.req.WithContext(ctx)
	}
}

func (c *requestContext) Param(name string) string  { return chi.URLParam(c.req, name) }
func (c *requestContext) Query(name string) string  { return c.req.URL.Query().Get(name) }
func (c *requestContext) Form(name string) string   { return c.req.FormValue(name) }
func (c *requestContext) Header(name string) string { return c.req.Header.Get(name) }

func (c *requestContext) QueryDefault(name, defaultValue string) string {
	if v := c.Query(name); v != "" {
		return v
	}
	return defaultValue
}

func (c *requestContext) BindJSON(v any) error {
	body := c.req.Body
	if n := c.app.maxBodySize; n > 0 {
		body = http.MaxBytesReader(c.rw, body, n)
	}

	err := json.NewDecoder(body).Decode(v)
	var tooLarge *http.MaxBytesError
	switch {
	case err == nil:
	case errors.As(err, &tooLarge):
		return ErrPayloadTooLarge("request body too large", WithError(err))
	case errors.Is(err, io.EOF):
		return errs.Validation(CodeEmptyBody, "The request body is empty.").WithCause(err)
	default:
		return errs.Validation(CodeInvalidJSON, "The request body is not valid JSON.").WithCause(err)
	}

	if vv, ok := v.(Validatable); ok {
		if list := vv.Validate(); len(list) > 0 {
			return list
		}
	}
	return nil
}

func (c *requestContext) SetHeader(name, value string) { c.rw.Header().Set(name, value) }

func (c *requestContext) write(code int, contentType string, body func(io.Writer) error) error {
	if contentType != "" {
		c.rw.Header().Set("Content-Type", contentType)
	}
	c.rw.WriteHeader(code)
	if body == nil {
		return nil
	}
	return body(c.rw)
}

func (c *requestContext) JSON(code int, v any) error {
	return c.write(code, "application/json; charset=utf-8", func(w io.Writer) error {
		return json.NewEncoder(w).Encode(v)
	})
}

func (c *requestContext) String(code int, s string) error {
	return c.write(code, "text/plain; charset=utf-8", func(w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	})
}

func (c *requestContext) NoContent(code int) error { return c.write(code, "", nil) }

func (c *requestContext) Redirect(code int, url string) error {
	http.Redirect(c.rw, c.req, url, code)
	return nil
}

func (c *requestContext) Error(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(code, message, opts...)
}

func (c *requestContext) Written() bool { return c.rw.Written() }

func (c *requestContext) RequestID() string { return ContextValue[string](c, RequestIDKey{}) }

func (c *requestContext) Logger() *slog.Logger { return c.app.logger }

func (c *requestContext) LogDebug(msg string, attrs ...any) { c.log(slog.LevelDebug, msg, attrs) }
func (c *requestContext) LogInfo(msg string, attrs ...any)  { c.log(slog.LevelInfo, msg, attrs) }
func (c *requestContext) LogWarn(msg string, attrs ...any)  { c.log(slog.LevelWarn, msg, attrs) }
func (c *requestContext) LogError(msg string, attrs ...any) { c.log(slog.LevelError, msg, attrs) }

func (c *requestContext) log(level slog.Level, msg string, attrs []any) {
	c.app.logger.Log(c.req.Context(), level, msg, attrs...)
}

func (c *requestContext) Set(key, value any) {
	c.req = c.req.WithContext(context.WithValue(c.req.Context(), key, value))
}

func (c *requestContext) Get(key any) any { return c.req.Context().Value(key) }

func (c *requestContext) Cookie(name string) (string, error) {
	return c.app.cookies.Get(c.req, name)
}

func (c *requestContext) SetCookie(name, value string, maxAge time.Duration) {
	c.app.cookies.Set(c.rw, name, value, maxAge)
}

func (c *requestContext) DeleteCookie(name string) {
	c.app.cookies.Delete(c.rw, name)
}

func (c *requestContext) CookieSigned(name string) (string, error) {
	return c.app.cookies.GetSigned(c.req, name)
}

func (c *requestContext) SetCookieSigned(name, value string, maxAge time.Duration) error {
	return c.app.cookies.SetSigned(c.rw, name, value, maxAge)
}

func (c *requestContext) CookieEncrypted(name string) (string, error) {
	return c.app.cookies.GetEncrypted(c.req, name)
}

func (c *requestContext) SetCookieEncrypted(name, value string, maxAge time.Duration) error {
	return c.app.cookies.SetEncrypted(c.rw, name, value, maxAge)
}

func (c *requestContext) Flash(key string, dest any) error {
	return c.app.cookies.Flash(c.rw, c.req, key, dest)
}

func (c *requestContext) SetFlash(key string, value any) error {
	return c.app.cookies.SetFlash(c.rw, key, value)
}

func (c *requestContext) Principal() *auth.Principal {
	p, _ := auth.FromContext(c.req.Context())
	return p
}

func (c *requestContext) SetPrincipal(p *auth.Principal) {
	c.req = c.req.WithContext(auth.WithPrincipal(c.req.Context(), p))
}

func (c *requestContext) UserID() string {
	if p := c.Principal(); p != nil {
		return p.Subject
	}
	return ""
}

func (c *requestContext) IsAuthenticated() bool { return c.Principal().IsAuthenticated() }

func (c *requestContext) IsCurrentUser(id string) bool {
	return id != "" && c.UserID() == id
}

func (c *requestContext) IsInRole(role string) bool { return c.Principal().IsInRole(role) }

func (c *requestContext) Can(permission Permission) bool {
	p := c.Principal()
	if !p.IsAuthenticated() {
		return false
	}
	if p.HasPermission(string(permission)) {
		return true
	}
	return slices.ContainsFunc(p.Roles, func(role string) bool {
		return slices.Contains(c.app.roles[role], permission)
	})
}

func (c *requestContext) SignIn(p *auth.Principal) error {
	scheme := c.app.signIn
	switch {
	case scheme == nil:
		return ErrNoSignInScheme
	case !p.IsAuthenticated():
		return ErrNilPrincipal
	}
	if err := scheme.SignIn(c.rw, c.req, p); err != nil {
		return err
	}
	if p.Scheme == "" {
		p.Scheme = scheme.Name()
	}
	c.SetPrincipal(p)
	return nil
}

func (c *requestContext) SignOut() error {
	if c.app.signIn == nil {
		return ErrNoSignInScheme
	}
	if err := c.app.signIn.SignOut(c.rw, c.req); err != nil {
		return err
	}
	c.SetPrincipal(nil)
	return nil
}
