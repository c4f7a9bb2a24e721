// Package result provides Result, a value-or-errors sum type used by
// services and the database envelope to report expected failures without
// panicking or overloading Go's error return.
package result

import "github.com/dmitrymomot/hostkit/pkg/errs"

// Success is the value carried by results that have nothing to return.
type Success struct{}

// Result holds either a value of type T or one or more domain errors.
// The zero Result is a successful result carrying T's zero value.
type Result[T any] struct {
	value T
	errs  errs.Errors
}

// Ok wraps a successful value.
func Ok[T any](v T) Result[T] {
	return Result[T]{value: v}
}

// Done is a successful value-less result.
func Done() Result[Success] {
	return Result[Success]{}
}

// Fail builds a failed result. Calling Fail without errors yields an
// Unexpected error so that a failed result is never empty.
func Fail[T any](list ...errs.Error) Result[T] {
	if len(list) == 0 {
		list = []errs.Error{errs.Unexpected(errs.ErrUnexpected, "result failed without errors")}
	}
	return Result[T]{errs: list}
}

// FromError converts a Go error into a failed result, or an Ok result with v
// when err is nil.
func FromError[T any](v T, err error) Result[T] {
	if err == nil {
		return Ok(v)
	}
	return Result[T]{errs: errs.From(err)}
}

func (r Result[T]) IsError() bool {
	return len(r.errs) > 0
}

// Value returns the carried value; it is T's zero value for failed results.
func (r Result[T]) Value() T {
	return r.value
}

func (r Result[T]) Errors() errs.Errors {
	return r.errs
}

func (r Result[T]) FirstError() errs.Error {
	return r.errs.First()
}

// Err returns the errors as a Go error, or nil on success.
func (r Result[T]) Err() error {
	if !r.IsError() {
		return nil
	}
	return r.errs
}

// Unwrap splits the result into Go's (value, error) convention.
func (r Result[T]) Unwrap() (T, error) {
	return r.value, r.Err()
}

// Match calls onValue or onErrors depending on the state of r.
func Match[T, R any](r Result[T], onValue func(T) R, onErrors func(errs.Errors) R) R {
	if r.IsError() {
		return onErrors(r.errs)
	}
	return onValue(r.value)
}

// Map transforms the value of a successful result.
func Map[T, R any](r Result[T], fn func(T) R) Result[R] {
	if r.IsError() {
		return Result[R]{errs: r.errs}
	}
	return Ok(fn(r.value))
}

// Then chains a fallible step after a successful result.
func Then[T, R any](r Result[T], fn func(T) Result[R]) Result[R] {
	if r.IsError() {
		return Result[R]{errs: r.errs}
	}
	return fn(r.value)
}
