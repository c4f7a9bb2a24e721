package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// goose keeps its settings in package globals.
var gooseMu sync.Mutex

// Migrate applies every pending migration found in migrations.
func Migrate(ctx context.Context, pool *pgxpool.Pool, migrations fs.FS, migrationTable string, log *slog.Logger) error {
	return withGoose(pool, migrations, migrationTable, log, func(db *sql.DB) error {
		if err := goose.UpContext(ctx, db, "."); err != nil {
			return errors.Join(ErrApplyMigrations, err)
		}
		return nil
	})
}

// MigrateDown rolls back the most recently applied migration.
func MigrateDown(ctx context.Context, pool *pgxpool.Pool, migrations fs.FS, migrationTable string, log *slog.Logger) error {
	return withGoose(pool, migrations, migrationTable, log, func(db *sql.DB) error {
		if err := goose.DownContext(ctx, db, "."); err != nil {
			return errors.Join(ErrRollbackMigration, err)
		}
		return nil
	})
}

// MigrationStatus logs the state of every migration and returns the current
// schema version.
func MigrationStatus(ctx context.Context, pool *pgxpool.Pool, migrations fs.FS, migrationTable string, log *slog.Logger) (int64, error) {
	var version int64
	err := withGoose(pool, migrations, migrationTable, log, func(db *sql.DB) error {
		if err := goose.StatusContext(ctx, db, "."); err != nil {
			return errors.Join(ErrMigrationStatus, err)
		}
		v, err := goose.GetDBVersionContext(ctx, db)
		if err != nil {
			return errors.Join(ErrMigrationStatus, err)
		}
		version = v
		return nil
	})
	return version, err
}

func withGoose(pool *pgxpool.Pool, migrations fs.FS, migrationTable string, log *slog.Logger, fn func(db *sql.DB) error) error {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	// The *sql.DB shares the pool's connections, so it is not closed here.
	db := stdlib.OpenDBFromPool(pool)

	goose.SetBaseFS(migrations)
	goose.SetLogger(&gooseLoggerAdapter{log})
	goose.SetTableName(migrationTable)

	if err := goose.SetDialect("postgres"); err != nil {
		return errors.Join(ErrSetDialect, err)
	}

	return fn(db)
}

type gooseLoggerAdapter struct {
	log *slog.Logger
}

func (g *gooseLoggerAdapter) Printf(format string, args ...any) {
	g.log.Info(fmt.Sprintf(format, args...), slog.String("component", "migrator"))
}

func (g *gooseLoggerAdapter) Fatalf(format string, args ...any) {
	// goose also returns the error, so logging is enough here.
	g.log.Error(fmt.Sprintf(format, args...), slog.String("component", "migrator"))
}
