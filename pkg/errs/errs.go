package errs

import (
	"errors"
	"strings"
)

// Type classifies an error.
type Type int

const (
	TypeFailure Type = iota
	TypeUnexpected
	TypeValidation
	TypeConflict
	TypeNotFound
	TypeUnauthorized
	TypeForbidden
)

func (t Type) String() string {
	switch t {
	case TypeFailure:
		return "failure"
	case TypeUnexpected:
		return "unexpected"
	case TypeValidation:
		return "validation"
	case TypeConflict:
		return "conflict"
	case TypeNotFound:
		return "not_found"
	case TypeUnauthorized:
		return "unauthorized"
	case TypeForbidden:
		return "forbidden"
	default:
		return "unknown"
	}
}

// Error is a classified domain error.
type Error struct {
	Metadata    map[string]any `json:"metadata,omitempty"`
	Code        string         `json:"code"`
	Description string         `json:"description"`
	Type        Type           `json:"type"`

	// cause is kept for logging; it is never rendered to clients.
	cause error
}

func (e Error) Error() string {
	if e.Description == "" {
		return e.Code
	}
	return e.Code + ": " + e.Description
}

func (e Error) Unwrap() error {
	return e.cause
}

// Is reports whether target is an Error with the same code and type.
func (e Error) Is(target error) bool {
	var t Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code && t.Type == e.Type
}

// WithMetadata returns a copy of e with key set in its metadata.
func (e Error) WithMetadata(key string, value any) Error {
	md := make(map[string]any, len(e.Metadata)+1)
	for k, v := range e.Metadata {
		md[k] = v
	}
	md[key] = value
	e.Metadata = md
	return e
}

// WithCause returns a copy of e that wraps cause.
func (e Error) WithCause(cause error) Error {
	e.cause = cause
	return e
}

func newError(t Type, code, description string) Error {
	return Error{Code: code, Description: description, Type: t}
}

func Failure(code, description string) Error {
	return newError(TypeFailure, code, description)
}

func Unexpected(code, description string) Error {
	return newError(TypeUnexpected, code, description)
}

func Validation(code, description string) Error {
	return newError(TypeValidation, code, description)
}

func Conflict(code, description string) Error {
	return newError(TypeConflict, code, description)
}

func NotFound(code, description string) Error {
	return newError(TypeNotFound, code, description)
}

func Unauthorized(code, description string) Error {
	return newError(TypeUnauthorized, code, description)
}

func Forbidden(code, description string) Error {
	return newError(TypeForbidden, code, description)
}

// Errors is a non-empty list of domain errors.
type Errors []Error

func (es Errors) Error() string {
	switch len(es) {
	case 0:
		return "no errors"
	case 1:
		return es[0].Error()
	}
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "; ")
}

// Unwrap exposes every entry to errors.Is and errors.As.
func (es Errors) Unwrap() []error {
	out := make([]error, len(es))
	for i, e := range es {
		out[i] = e
	}
	return out
}

// First returns the first error or a zero Error when es is empty.
func (es Errors) First() Error {
	if len(es) == 0 {
		return Error{}
	}
	return es[0]
}

// AllOf reports whether every entry has type t.
func (es Errors) AllOf(t Type) bool {
	if len(es) == 0 {
		return false
	}
	for _, e := range es {
		if e.Type != t {
			return false
		}
	}
	return true
}

// ErrUnexpected is the code assigned to errors without a classification.
const ErrUnexpected = "General.Unexpected"

// From extracts domain errors from err. Unclassified errors become a single
// Unexpected entry that wraps err. From returns nil for a nil error.
func From(err error) Errors {
	if err == nil {
		return nil
	}

	var list Errors
	if errors.As(err, &list) && len(list) > 0 {
		return list
	}

	var single Error
	if errors.As(err, &single) {
		return Errors{single}
	}

	return Errors{Unexpected(ErrUnexpected, "an unexpected error occurred").WithCause(err)}
}

// Join combines domain errors into a single Errors value, returning nil when
// none were given.
func Join(list ...Error) error {
	if len(list) == 0 {
		return nil
	}
	return Errors(list)
}
