package middlewares

import (
	"context"
	"time"

	"github.com/dmitrymomot/hostkit/internal"
)

// DefaultTimeout applies when Timeout gets a non-positive duration.
const DefaultTimeout = 30 * time.Second

// Timeout puts a deadline on the request context and returns a
// *TimeoutError if the handler is still running when it passes.
//
// The handler is not stopped. It keeps its goroutine and should watch its
// Context, which context-aware calls such as db.Call already do.
func Timeout(timeout time.Duration) internal.Middleware {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			ctx, cancel := context.WithTimeoutCause(c.Context(), timeout, &TimeoutError{Duration: timeout})
			defer cancel()
			c.SetContext(ctx)

			done := make(chan error, 1)
			go func() { done <- next(c) }()

			select {
			case err := <-done:
				return err
			case <-ctx.Done():
			}

			cause := context.Cause(ctx)
			if te, ok := AsTimeoutError(cause); ok {
				c.LogWarn("request timed out", "timeout", timeout.String())
				return te
			}
			return cause
		}
	}
}
