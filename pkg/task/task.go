package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/hostkit/pkg/logger"
)

// Func is a unit of work producing a T.
type Func[T any] func(ctx context.Context) (T, error)

// WhenAll runs every fn concurrently and returns their results in argument
// order. The first error cancels the shared context and is returned.
func WhenAll[T any](ctx context.Context, fns ...Func[T]) ([]T, error) {
	return WhenAllLimit(ctx, -1, fns...)
}

// WhenAllLimit is WhenAll with at most limit functions in flight.
// A limit of zero or less means no limit.
func WhenAllLimit[T any](ctx context.Context, limit int, fns ...Func[T]) ([]T, error) {
	out := make([]T, len(fns))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, fn := range fns {
		g.Go(func() error {
			v, err := safeCall(ctx, fn)
			if err != nil {
				return err
			}
			out[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// WhenAny returns the result of the first fn to succeed and cancels the
// others. If every fn fails, the joined errors are returned.
func WhenAny[T any](ctx context.Context, fns ...Func[T]) (T, error) {
	var zero T
	if len(fns) == 0 {
		return zero, ErrNoTasks
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	type outcome struct {
		err error
		v   T
	}
	results := make(chan outcome, len(fns))
	for _, fn := range fns {
		go func() {
			v, err := safeCall(ctx, fn)
			results <- outcome{v: v, err: err}
		}()
	}

	errs := make([]error, 0, len(fns))
	for range fns {
		select {
		case r := <-results:
			if r.err == nil {
				return r.v, nil
			}
			errs = append(errs, r.err)
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
	return zero, errors.Join(errs...)
}

// WithTimeout runs fn with a deadline d from now. If fn has not returned by
// then, WithTimeout returns context.DeadlineExceeded without waiting for it.
func WithTimeout[T any](ctx context.Context, d time.Duration, fn Func[T]) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	type outcome struct {
		err error
		v   T
	}
	done := make(chan outcome, 1)
	go func() {
		v, err := safeCall(ctx, fn)
		done <- outcome{v: v, err: err}
	}()

	select {
	case r := <-done:
		return r.v, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Go runs fn in the background. fn keeps the values of ctx but not its
// cancellation, so it survives the end of the request that started it.
// Errors and panics are logged through log, which may be nil.
func Go(ctx context.Context, log *slog.Logger, fn func(ctx context.Context) error) {
	if log == nil {
		log = logger.NewNope()
	}
	ctx = context.WithoutCancel(ctx)
	go func() {
		_, err := safeCall(ctx, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, fn(ctx)
		})
		if err != nil {
			log.ErrorContext(ctx, "background task failed", logger.Error(err))
		}
	}()
}

// Delay waits d, then runs fn. It returns ctx.Err() without running fn if
// ctx ends first.
func Delay(ctx context.Context, d time.Duration, fn func(ctx context.Context) error) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
	}
	_, err := safeCall(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

func safeCall[T any](ctx context.Context, fn Func[T]) (v T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v\n%s", ErrPanic, r, debug.Stack())
		}
	}()
	return fn(ctx)
}
