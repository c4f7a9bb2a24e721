package db

import (
	"context"
	"errors"
	"iter"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jackc/pgx/v5"
)

// Dialect builds Postgres queries with numbered placeholders.
var Dialect = goqu.Dialect("postgres")

// Builder is implemented by goqu datasets.
type Builder interface {
	ToSQL() (string, []any, error)
}

// Get runs a query that must return exactly one row and maps it onto T by
// column name (db struct tags). No rows yields pgx.ErrNoRows.
func Get[T any](ctx context.Context, q Querier, sql string, args ...any) (T, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		var zero T
		return zero, err
	}
	return pgx.CollectExactlyOneRow(rows, pgx.RowToStructByNameLax[T])
}

// Select maps every returned row onto T.
func Select[T any](ctx context.Context, q Querier, sql string, args ...any) ([]T, error) {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowToStructByNameLax[T])
}

// Rows streams the returned rows one at a time. Rows are closed when the
// sequence ends or the consumer stops.
func Rows[T any](ctx context.Context, q Querier, sql string, args ...any) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T

		rows, err := q.Query(ctx, sql, args...)
		if err != nil {
			yield(zero, err)
			return
		}
		defer rows.Close()

		for rows.Next() {
			v, err := pgx.RowToStructByNameLax[T](rows)
			if !yield(v, err) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(zero, err)
		}
	}
}

// Scalar runs a query returning a single value, such as a count or an id.
func Scalar[T any](ctx context.Context, q Querier, sql string, args ...any) (T, error) {
	var v T
	err := q.QueryRow(ctx, sql, args...).Scan(&v)
	return v, err
}

// GetDS is Get for a goqu select dataset.
func GetDS[T any](ctx context.Context, q Querier, ds *goqu.SelectDataset) (T, error) {
	sql, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		var zero T
		return zero, errors.Join(ErrBuildQuery, err)
	}
	return Get[T](ctx, q, sql, args...)
}

// SelectDS is Select for a goqu select dataset.
func SelectDS[T any](ctx context.Context, q Querier, ds *goqu.SelectDataset) ([]T, error) {
	sql, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, errors.Join(ErrBuildQuery, err)
	}
	return Select[T](ctx, q, sql, args...)
}

// RowsDS is Rows for a goqu select dataset.
func RowsDS[T any](ctx context.Context, q Querier, ds *goqu.SelectDataset) iter.Seq2[T, error] {
	sql, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return func(yield func(T, error) bool) {
			var zero T
			yield(zero, errors.Join(ErrBuildQuery, err))
		}
	}
	return Rows[T](ctx, q, sql, args...)
}

// ExecDS runs an insert, update or delete dataset and returns the number of
// affected rows. Datasets should be built with Prepared(true).
func ExecDS(ctx context.Context, q Querier, b Builder) (int64, error) {
	sql, args, err := b.ToSQL()
	if err != nil {
		return 0, errors.Join(ErrBuildQuery, err)
	}
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// ReturningDS runs a dataset with a RETURNING clause and maps the single
// returned row onto T.
func ReturningDS[T any](ctx context.Context, q Querier, b Builder) (T, error) {
	sql, args, err := b.ToSQL()
	if err != nil {
		var zero T
		return zero, errors.Join(ErrBuildQuery, err)
	}
	return Get[T](ctx, q, sql, args...)
}
