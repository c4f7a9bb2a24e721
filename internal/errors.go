package internal

import (
	"cmp"
	"errors"
	"net/http"

	"github.com/dmitrymomot/hostkit/pkg/problem"
)

var (
	ErrNoSignInScheme = errors.New("no sign-in scheme configured")
	ErrNilPrincipal   = errors.New("principal is nil or has no subject")
)

// HTTPError is a handler error with a fixed status. DefaultErrorHandler
// renders it as problem details; Err is logged but never sent.
type HTTPError struct {
	Err       error
	Message   string
	Title     string // replaces the status text
	Detail    string // replaces Message in the rendered problem
	ErrorCode string
	Code      int
}

func (e *HTTPError) Error() string { return e.Message }
func (e *HTTPError) Unwrap() error { return e.Err }

func (e *HTTPError) StatusCode() int { return e.Code }

func (e *HTTPError) StatusText() string { return http.StatusText(e.Code) }

// Problem renders e as problem details.
func (e *HTTPError) Problem(opts ...problem.Option) problem.Details {
	d := problem.New(e.Code, opts...)
	if e.Title != "" {
		d.Title = e.Title
	}
	d.Detail = cmp.Or(e.Detail, e.Message)
	d.Code = e.ErrorCode
	return d
}

type HTTPErrorOption func(*HTTPError)

func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	e := &HTTPError{Code: code, Message: message}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func WithTitle(title string) HTTPErrorOption   { return func(e *HTTPError) { e.Title = title } }
func WithDetail(detail string) HTTPErrorOption { return func(e *HTTPError) { e.Detail = detail } }
func WithErrorCode(code string) HTTPErrorOption {
	return func(e *HTTPError) { e.ErrorCode = code }
}
func WithError(err error) HTTPErrorOption { return func(e *HTTPError) { e.Err = err } }

// Shorthands for NewHTTPError with a fixed status.
var (
	ErrBadRequest         = statusError(http.StatusBadRequest)
	ErrUnauthorized       = statusError(http.StatusUnauthorized)
	ErrForbidden          = statusError(http.StatusForbidden)
	ErrNotFound           = statusError(http.StatusNotFound)
	ErrConflict           = statusError(http.StatusConflict)
	ErrPayloadTooLarge    = statusError(http.StatusRequestEntityTooLarge)
	ErrUnprocessable      = statusError(http.StatusUnprocessableEntity)
	ErrInternal           = statusError(http.StatusInternalServerError)
	ErrServiceUnavailable = statusError(http.StatusServiceUnavailable)
)

func statusError(code int) func(string, ...HTTPErrorOption) *HTTPError {
	return func(message string, opts ...HTTPErrorOption) *HTTPError {
		return NewHTTPError(code, message, opts...)
	}
}

// AsHTTPError returns the first *HTTPError in err's chain, or nil.
func AsHTTPError(err error) *HTTPError {
	var e *HTTPError
	if errors.As(err, &e) {
		return e
	}
	return nil
}

func IsHTTPError(err error) bool {
	return AsHTTPError(err) != nil
}
