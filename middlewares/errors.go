package middlewares

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// PanicError is what Recover returns for a recovered panic. It renders as a
// plain 500; Value never reaches the client.
type PanicError struct {
	Value any
	Stack []byte // nil when stack capture is off
}

func (e *PanicError) Error() string { return fmt.Sprintf("panic: %v", e.Value) }

// TimeoutError is what Timeout returns once the deadline passes. It
// matches context.DeadlineExceeded, so it renders as 504.
type TimeoutError struct {
	Duration time.Duration
}

func (e *TimeoutError) Error() string { return "request timeout after " + e.Duration.String() }
func (e *TimeoutError) Unwrap() error { return context.DeadlineExceeded }

func IsPanicError(err error) bool {
	_, ok := AsPanicError(err)
	return ok
}

func IsTimeoutError(err error) bool {
	_, ok := AsTimeoutError(err)
	return ok
}

func AsPanicError(err error) (*PanicError, bool) { return asError[*PanicError](err) }

func AsTimeoutError(err error) (*TimeoutError, bool) { return asError[*TimeoutError](err) }

func asError[T error](err error) (T, bool) {
	var target T
	ok := errors.As(err, &target)
	return target, ok
}
