package db

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/hostkit/pkg/errs"
)

// Postgres SQLSTATE codes mapped by ToError.
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeNotNullViolation     = "23502"
	codeCheckViolation       = "23514"
	codeStringTooLong        = "22001"
	codeInvalidTextRep       = "22P02"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
)

// Error codes produced by ToError.
const (
	CodeNotFound        = "Db.NotFound"
	CodeUniqueViolation = "Db.UniqueViolation"
	CodeForeignKey      = "Db.ForeignKeyViolation"
	CodeConstraint      = "Db.ConstraintViolation"
	CodeInvalidInput    = "Db.InvalidInput"
	CodeConcurrency     = "Db.ConcurrencyConflict"
	CodeUnexpected      = "Db.Unexpected"
)

// ToError classifies a pgx error as a domain error. It returns nil for nil.
// The original error stays reachable through errors.Unwrap.
func ToError(err error) error {
	if err == nil {
		return nil
	}

	var domain errs.Error
	if errors.As(err, &domain) {
		return err
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return errs.NotFound(CodeNotFound, "record not found").WithCause(err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return errs.Unexpected(CodeUnexpected, "database operation failed").WithCause(err)
	}

	var e errs.Error
	switch pgErr.Code {
	case codeUniqueViolation:
		e = errs.Conflict(CodeUniqueViolation, "record already exists")
	case codeForeignKeyViolation:
		e = errs.Conflict(CodeForeignKey, "referenced record does not exist or is still referenced")
	case codeNotNullViolation, codeCheckViolation:
		e = errs.Validation(CodeConstraint, pgErr.Message)
	case codeStringTooLong, codeInvalidTextRep:
		e = errs.Validation(CodeInvalidInput, pgErr.Message)
	case codeSerializationFailure, codeDeadlockDetected:
		e = errs.Conflict(CodeConcurrency, "concurrent update detected, retry the operation")
	default:
		return errs.Unexpected(CodeUnexpected, "database operation failed").WithCause(err)
	}

	if pgErr.ConstraintName != "" {
		e = e.WithMetadata("constraint", pgErr.ConstraintName)
	}
	if pgErr.ColumnName != "" {
		e = e.WithMetadata("column", pgErr.ColumnName)
	}
	return e.WithCause(err)
}

// IsNotFound reports whether err means no rows were found.
func IsNotFound(err error) bool {
	if errors.Is(err, pgx.ErrNoRows) {
		return true
	}
	var e errs.Error
	return errors.As(err, &e) && e.Code == CodeNotFound
}

// IsUniqueViolation reports whether err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeUniqueViolation
}
