package auth

import (
	"errors"

	"github.com/dmitrymomot/hostkit/pkg/errs"
)

var (
	ErrInvalidTicket = errors.New("auth: invalid authentication ticket")
	ErrTicketExpired = errors.New("auth: authentication ticket expired")
	ErrNoSubject     = errors.New("auth: principal has no subject")
)

// Error codes reported to clients.
const (
	CodeUnauthenticated = "Auth.Unauthenticated"
	CodeInvalidToken    = "Auth.InvalidToken"
	CodeTokenExpired    = "Auth.TokenExpired"
	CodeForbidden       = "Auth.Forbidden"
	CodeInvalidState    = "Auth.InvalidState"
	CodeExternalDenied  = "Auth.ExternalDenied"
	CodeExternalFailed  = "Auth.ExternalFailed"
)

// Unauthenticated is the error for requests without a principal.
func Unauthenticated() errs.Error {
	return errs.Unauthorized(CodeUnauthenticated, "Authentication is required.")
}

// Forbidden is the error for principals lacking a role or permission.
func Forbidden(detail string) errs.Error {
	return errs.Forbidden(CodeForbidden, detail)
}
