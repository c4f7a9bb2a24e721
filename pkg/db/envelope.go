package db

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/hostkit/pkg/errs"
	"github.com/dmitrymomot/hostkit/pkg/result"
)

// Func is a unit of work that returns nothing but an error.
type Func func(ctx context.Context, q Querier) error

// Exec runs fn in a transaction and discards its result.
// See Call for the commit and rollback rules.
func (r *Runner) Exec(ctx context.Context, fn Func, opts ...CallOption) error {
	_, err := Call(ctx, r, func(ctx context.Context, q Querier) (struct{}, error) {
		return struct{}{}, fn(ctx, q)
	}, opts...)
	return err
}

// Call begins a transaction, passes it to fn and commits when fn succeeds.
// The transaction is rolled back when fn returns an error or panics; the
// panic is re-raised after the rollback. The ctx passed to fn carries the
// transaction, so nested calls open a savepoint instead of a new transaction.
func Call[T any](ctx context.Context, r *Runner, fn func(ctx context.Context, q Querier) (T, error), opts ...CallOption) (T, error) {
	cfg := r.callConfig(opts)
	if cfg.noTx {
		return fn(ctx, r.pool)
	}

	var zero T
	started := time.Now()

	tx, err := r.begin(ctx, cfg)
	if err != nil {
		r.metrics.record(ctx, cfg.name, OutcomeBeginError, started)
		return zero, errors.Join(ErrBeginTx, err)
	}

	defer func() {
		if p := recover(); p != nil {
			r.rollback(ctx, tx, cfg, started)
			panic(p)
		}
	}()

	v, err := fn(withTx(ctx, tx), tx)
	if err != nil {
		r.rollback(ctx, tx, cfg, started)
		return zero, err
	}

	if err := r.commit(ctx, tx, cfg, started); err != nil {
		return zero, err
	}

	return v, nil
}

// TryExec is Exec for units of work that report expected failures as results.
func (r *Runner) TryExec(ctx context.Context, fn func(ctx context.Context, q Querier) result.Result[result.Success], opts ...CallOption) result.Result[result.Success] {
	return TryCall(ctx, r, fn, opts...)
}

// TryCall is Call for units of work returning a Result. A failed Result rolls
// the transaction back and is returned unchanged. Begin and commit failures
// are reported as an Unexpected error inside the Result.
func TryCall[T any](ctx context.Context, r *Runner, fn func(ctx context.Context, q Querier) result.Result[T], opts ...CallOption) result.Result[T] {
	var res result.Result[T]
	_, err := Call(ctx, r, func(ctx context.Context, q Querier) (struct{}, error) {
		res = fn(ctx, q)
		return struct{}{}, res.Err()
	}, opts...)

	if res.IsError() {
		return res
	}
	if err != nil {
		return result.Fail[T](infrastructureError(err))
	}
	return res
}

// Stream runs fn in a transaction and yields its items as they are produced.
// The transaction commits only after the sequence is fully consumed and no
// item carried an error. An item error does not stop enumeration, but the
// transaction is rolled back once the sequence ends. Stopping early also rolls
// back. Begin and commit failures are yielded as a final error item.
func Stream[T any](ctx context.Context, r *Runner, fn func(ctx context.Context, q Querier) iter.Seq2[T, error], opts ...CallOption) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		cfg := r.callConfig(opts)
		if cfg.noTx {
			for v, err := range fn(ctx, r.pool) {
				if !yield(v, err) {
					return
				}
			}
			return
		}

		var zero T
		started := time.Now()

		tx, err := r.begin(ctx, cfg)
		if err != nil {
			r.metrics.record(ctx, cfg.name, OutcomeBeginError, started)
			yield(zero, errors.Join(ErrBeginTx, err))
			return
		}

		finished := false
		defer func() {
			// Early stop, item failure or panic in either the producer or the consumer.
			if !finished {
				r.rollback(ctx, tx, cfg, started)
			}
		}()

		failed := false
		for v, err := range fn(withTx(ctx, tx), tx) {
			if err != nil {
				failed = true
			}
			if !yield(v, err) {
				return
			}
		}
		if failed {
			return
		}

		finished = true
		if err := r.commit(ctx, tx, cfg, started); err != nil {
			yield(zero, err)
		}
	}
}

// TryStream is Stream for producers that yield Results. Failed items are
// passed through and make the transaction roll back at the end.
func TryStream[T any](ctx context.Context, r *Runner, fn func(ctx context.Context, q Querier) iter.Seq[result.Result[T]], opts ...CallOption) iter.Seq[result.Result[T]] {
	producer := func(ctx context.Context, q Querier) iter.Seq2[result.Result[T], error] {
		return func(yield func(result.Result[T], error) bool) {
			for item := range fn(ctx, q) {
				if !yield(item, item.Err()) {
					return
				}
			}
		}
	}

	return func(yield func(result.Result[T]) bool) {
		for item, err := range Stream(ctx, r, producer, opts...) {
			if err != nil && !item.IsError() {
				item = result.Fail[T](infrastructureError(err))
			}
			if !yield(item) {
				return
			}
		}
	}
}

func (r *Runner) begin(ctx context.Context, cfg callConfig) (pgx.Tx, error) {
	if outer, ok := TxFromContext(ctx); ok {
		// Savepoint inside the ambient transaction; isolation is inherited.
		return outer.Begin(ctx)
	}
	return r.pool.BeginTx(ctx, cfg.txOptions())
}

func (r *Runner) commit(ctx context.Context, tx pgx.Tx, cfg callConfig, started time.Time) error {
	if err := tx.Commit(ctx); err != nil {
		r.metrics.record(ctx, cfg.name, OutcomeCommitError, started)
		return errors.Join(ErrCommitTx, err)
	}
	r.metrics.record(ctx, cfg.name, OutcomeCommit, started)
	return nil
}

func (r *Runner) rollback(ctx context.Context, tx pgx.Tx, cfg callConfig, started time.Time) {
	// The caller's context may already be cancelled; rollback must still reach the server.
	rbCtx := context.WithoutCancel(ctx)
	if err := tx.Rollback(rbCtx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		r.log.ErrorContext(ctx, "transaction rollback failed",
			slog.String("call", cfg.name),
			slog.Any("error", err),
		)
	}
	r.metrics.record(rbCtx, cfg.name, OutcomeRollback, started)
}

func infrastructureError(err error) errs.Error {
	return errs.Unexpected("Db.Unexpected", "database operation failed").WithCause(err)
}
