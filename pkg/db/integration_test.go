package db_test

import (
	"context"
	"errors"
	"iter"
	"os"
	"testing"
	"testing/fstest"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dmitrymomot/hostkit/pkg/db"
	"github.com/dmitrymomot/hostkit/pkg/errs"
	"github.com/dmitrymomot/hostkit/pkg/result"
)

var testMigrations = fstest.MapFS{
	"00001_items.sql": &fstest.MapFile{Data: []byte(`-- +goose Up
CREATE TABLE items (
    id BIGSERIAL PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    qty INT NOT NULL DEFAULT 0
);

-- +goose Down
DROP TABLE items;
`)},
}

type item struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
	Qty  int    `db:"qty"`
}

func withPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if os.Getenv("TESTCONTAINERS") == "" {
		t.Skip("set TESTCONTAINERS=1 to run containerized PG tests")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	t.Cleanup(cancel)

	container, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:17-alpine"),
		postgres.WithDatabase("hostkit"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(time.Minute),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := db.Connect(ctx, db.Config{
		ConnectionString: dsn,
		MaxOpenConns:     4,
		MinConns:         1,
		RetryAttempts:    3,
		RetryInterval:    time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, db.Migrate(ctx, pool, testMigrations, "schema_migrations", nil))
	require.NoError(t, db.Healthcheck(pool)(ctx))
	return pool
}

func TestEnvelope_Postgres(t *testing.T) {
	pool := withPostgres(t)
	runner := db.NewRunner(pool)
	ctx := context.Background()

	insert := func(name string, qty int) db.Func {
		return func(ctx context.Context, q db.Querier) error {
			_, err := db.ExecDS(ctx, q, db.Dialect.Insert("items").
				Rows(map[string]any{"name": name, "qty": qty}).Prepared(true))
			return err
		}
	}

	require.NoError(t, runner.Exec(ctx, insert("apple", 3)))

	// Rolled back: the second insert violates the unique constraint.
	err := runner.Exec(ctx, func(ctx context.Context, q db.Querier) error {
		if err := insert("pear", 1)(ctx, q); err != nil {
			return err
		}
		return insert("apple", 1)(ctx, q)
	})
	require.True(t, db.IsUniqueViolation(err))

	var conflict errs.Error
	require.ErrorAs(t, db.ToError(err), &conflict)
	require.Equal(t, errs.TypeConflict, conflict.Type)

	items, err := db.Call(ctx, runner, func(ctx context.Context, q db.Querier) ([]item, error) {
		return db.SelectDS[item](ctx, q, db.Dialect.From("items").Order(goqu.I("id").Asc()))
	}, db.ReadOnly())
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "apple", items[0].Name)

	res := db.TryCall(ctx, runner, func(ctx context.Context, q db.Querier) result.Result[item] {
		it, err := db.GetDS[item](ctx, q, db.Dialect.From("items").Where(goqu.Ex{"name": "plum"}))
		return result.FromError(it, db.ToError(err))
	})
	require.True(t, res.IsError())
	require.Equal(t, errs.TypeNotFound, res.FirstError().Type)

	var streamed []string
	for it, err := range db.Stream(ctx, runner, func(ctx context.Context, q db.Querier) iter.Seq2[item, error] {
		return db.Rows[item](ctx, q, "SELECT id, name, qty FROM items")
	}) {
		require.NoError(t, err)
		streamed = append(streamed, it.Name)
	}
	require.Equal(t, []string{"apple"}, streamed)

	count, err := db.Scalar[int64](ctx, pool, "SELECT count(*) FROM items")
	require.NoError(t, err)
	require.Equal(t, int64(1), count)

	require.NoError(t, db.MigrateDown(ctx, pool, testMigrations, "schema_migrations", nil))
	_, err = db.Scalar[int64](ctx, pool, "SELECT count(*) FROM items")
	require.Error(t, err)
	require.False(t, errors.Is(err, db.ErrBeginTx))
}
