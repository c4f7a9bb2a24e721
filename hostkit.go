package hostkit

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/hostkit/internal"
	"github.com/dmitrymomot/hostkit/pkg/auth"
	"github.com/dmitrymomot/hostkit/pkg/cookie"
	"github.com/dmitrymomot/hostkit/pkg/errs"
	"github.com/dmitrymomot/hostkit/pkg/health"
	"github.com/dmitrymomot/hostkit/pkg/problem"
	"github.com/dmitrymomot/hostkit/pkg/result"
)

// Type aliases - public API
type (
	// App orchestrates the application lifecycle.
	// It manages HTTP routing, middleware, health endpoints and graceful shutdown.
	App = internal.App

	// Router is the interface handlers use to declare routes.
	Router = internal.Router

	// Context provides request/response access, JSON binding, cookies and
	// the authenticated principal.
	Context = internal.Context

	// Handler declares routes on a router.
	Handler = internal.Handler

	// HandlerFunc is the signature for route handlers.
	HandlerFunc = internal.HandlerFunc

	// Middleware wraps a HandlerFunc to add cross-cutting concerns.
	Middleware = internal.Middleware

	// ErrorHandler handles errors returned from handlers.
	ErrorHandler = internal.ErrorHandler

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// HealthOption configures health check endpoints.
	HealthOption = internal.HealthOption

	// ResponseWriter wraps http.ResponseWriter with before-write hooks.
	ResponseWriter = internal.ResponseWriter

	// HTTPError is an error that carries its HTTP status.
	HTTPError = internal.HTTPError

	// HTTPErrorOption configures an HTTPError.
	HTTPErrorOption = internal.HTTPErrorOption

	// Permission names an action a principal may perform.
	Permission = internal.Permission

	// RolePermissions maps role names to the permissions they grant.
	RolePermissions = internal.RolePermissions

	// Validatable bodies are checked by BindJSON after decoding.
	Validatable = internal.Validatable

	// Extractor tries sources in order and returns the first value found.
	Extractor = internal.Extractor

	// ExtractorSource reads one candidate value from the request.
	ExtractorSource = internal.ExtractorSource

	// Scalar constrains the typed Param and Query helpers.
	Scalar = internal.Scalar

	// Principal is the authenticated caller.
	Principal = auth.Principal
)

// Error codes reported by BindJSON.
const (
	CodeInvalidJSON = internal.CodeInvalidJSON
	CodeEmptyBody   = internal.CodeEmptyBody
)

// Context errors.
var (
	ErrNoSignInScheme = internal.ErrNoSignInScheme
	ErrNilPrincipal   = internal.ErrNilPrincipal
	ErrCookieNotFound = cookie.ErrNotFound
	ErrCookieNoSecret = cookie.ErrNoSecret
)

// New creates a new application with the given options.
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// WithMiddleware adds global middleware, applied in the order given.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithHandlers registers handlers that declare routes.
func WithHandlers(h ...Handler) Option {
	return internal.WithHandlers(h...)
}

// WithStaticFiles serves subDir of fsys under pattern.
func WithStaticFiles(pattern string, fsys fs.FS, subDir string) Option {
	return internal.WithStaticFiles(pattern, fsys, subDir)
}

// WithErrorHandler replaces DefaultErrorHandler.
func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

// WithNotFoundHandler sets a custom 404 handler.
func WithNotFoundHandler(h HandlerFunc) Option {
	return internal.WithNotFoundHandler(h)
}

// WithMethodNotAllowedHandler sets a custom 405 handler.
func WithMethodNotAllowedHandler(h HandlerFunc) Option {
	return internal.WithMethodNotAllowedHandler(h)
}

// WithHealthChecks enables the liveness and readiness endpoints.
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealthChecks(opts...)
}

// WithMetricsHandler serves h on GET path.
func WithMetricsHandler(path string, h http.Handler) Option {
	return internal.WithMetricsHandler(path, h)
}

// WithLogger sets the application logger.
func WithLogger(l *slog.Logger) Option {
	return internal.WithLogger(l)
}

// WithCookieManager sets the manager behind the Context cookie helpers.
func WithCookieManager(m *cookie.Manager) Option {
	return internal.WithCookieManager(m)
}

// WithCookieOptions builds the cookie manager from options.
func WithCookieOptions(opts ...cookie.Option) Option {
	return internal.WithCookieOptions(opts...)
}

// WithSignInScheme sets the scheme behind Context.SignIn and SignOut.
func WithSignInScheme(s auth.SignInScheme) Option {
	return internal.WithSignInScheme(s)
}

// WithRoles maps roles to permissions for Context.Can.
func WithRoles(permissions RolePermissions) Option {
	return internal.WithRoles(permissions)
}

// WithMaxBodySize limits bodies read by BindJSON.
func WithMaxBodySize(n int64) Option {
	return internal.WithMaxBodySize(n)
}

// WithLivenessPath sets the liveness endpoint path.
func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

// WithReadinessPath sets the readiness endpoint path.
func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

// WithReadinessCheck registers a readiness check.
func WithReadinessCheck(name string, fn health.CheckFunc, opts ...health.CheckOption) HealthOption {
	return internal.WithReadinessCheck(name, fn, opts...)
}

// WithHealthRegistry uses an existing registry for readiness checks.
func WithHealthRegistry(reg *health.Registry) HealthOption {
	return internal.WithHealthRegistry(reg)
}

// Address overrides the address passed to App.Run.
func Address(addr string) RunOption {
	return internal.Address(addr)
}

// Logger sets the logger used for server lifecycle messages.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout bounds graceful shutdown.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// StartupHook runs fn before the server accepts connections.
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook runs fn after the server has drained.
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// OnReady is called with the bound address once the server listens.
func OnReady(fn func(addr string)) RunOption {
	return internal.OnReady(fn)
}

// WithContext sets the base context; cancelling it stops the server.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// Respond writes r as JSON with status, or as problem details when r failed.
func Respond[T any](c Context, status int, r result.Result[T]) error {
	return internal.Respond(c, status, r)
}

// RespondErrors writes list as problem details.
func RespondErrors(c Context, list ...errs.Error) error {
	return internal.RespondErrors(c, list...)
}

// Created writes v with 201 and a Location header.
func Created[T any](c Context, location string, v T) error {
	return internal.Created(c, location, v)
}

// Problem writes d, filling instance and traceId from the request.
func Problem(c Context, d problem.Details) error {
	return internal.Problem(c, d)
}

// ProblemFor classifies err into problem details.
func ProblemFor(c Context, err error) problem.Details {
	return internal.ProblemFor(c, err)
}

// DefaultErrorHandler renders handler errors as problem details.
func DefaultErrorHandler(c Context, err error) error {
	return internal.DefaultErrorHandler(c, err)
}

// NewHTTPError creates an HTTPError.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.NewHTTPError(code, message, opts...)
}

// HTTP error constructors.
var (
	ErrBadRequest         = internal.ErrBadRequest
	ErrUnauthorized       = internal.ErrUnauthorized
	ErrForbidden          = internal.ErrForbidden
	ErrNotFound           = internal.ErrNotFound
	ErrConflict           = internal.ErrConflict
	ErrPayloadTooLarge    = internal.ErrPayloadTooLarge
	ErrUnprocessable      = internal.ErrUnprocessable
	ErrInternal           = internal.ErrInternal
	ErrServiceUnavailable = internal.ErrServiceUnavailable
)

// HTTPError options.
var (
	WithTitle     = internal.WithTitle
	WithDetail    = internal.WithDetail
	WithErrorCode = internal.WithErrorCode
	WithError     = internal.WithError
)

// IsHTTPError reports whether err wraps an *HTTPError.
func IsHTTPError(err error) bool {
	return internal.IsHTTPError(err)
}

// AsHTTPError returns the *HTTPError in err's chain, or nil.
func AsHTTPError(err error) *HTTPError {
	return internal.AsHTTPError(err)
}

// NewExtractor chains extractor sources.
func NewExtractor(sources ...ExtractorSource) Extractor {
	return internal.NewExtractor(sources...)
}

// Extractor sources.
var (
	FromHeader          = internal.FromHeader
	FromQuery           = internal.FromQuery
	FromParam           = internal.FromParam
	FromForm            = internal.FromForm
	FromCookie          = internal.FromCookie
	FromCookieSigned    = internal.FromCookieSigned
	FromCookieEncrypted = internal.FromCookieEncrypted
	FromContextValue    = internal.FromContextValue
	FromBearerToken     = internal.FromBearerToken
)

// ContextValue returns the value stored under key, or the zero T.
func ContextValue[T any](c Context, key any) T {
	return internal.ContextValue[T](c, key)
}

// Claims returns the JWT claims stored by middlewares.JWT[T].
func Claims[T any](c Context) (*T, bool) {
	return internal.Claims[T](c)
}

// Param returns the URL parameter converted to T, or the zero T.
func Param[T Scalar](c Context, name string) T {
	return internal.Param[T](c, name)
}

// Query returns the query parameter converted to T, or the zero T.
func Query[T Scalar](c Context, name string) T {
	return internal.Query[T](c, name)
}

// QueryDefault returns the query parameter converted to T, or defaultValue.
func QueryDefault[T Scalar](c Context, name string, defaultValue T) T {
	return internal.QueryDefault(c, name, defaultValue)
}
