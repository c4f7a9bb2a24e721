package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/hostkit/internal/config"
	"github.com/dmitrymomot/hostkit/migrations"
	"github.com/dmitrymomot/hostkit/pkg/db"
	"github.com/dmitrymomot/hostkit/pkg/logger"
)

func migrateCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: withDatabase(opts, func(ctx context.Context, cmd *cobra.Command, cfg *config.Config, pool *pgxpool.Pool, log *slog.Logger) error {
				return db.Migrate(ctx, pool, migrations.FS, cfg.Database.MigrationsTable, log)
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			Args:  cobra.NoArgs,
			RunE: withDatabase(opts, func(ctx context.Context, cmd *cobra.Command, cfg *config.Config, pool *pgxpool.Pool, log *slog.Logger) error {
				return db.MigrateDown(ctx, pool, migrations.FS, cfg.Database.MigrationsTable, log)
			}),
		},
		&cobra.Command{
			Use:   "status",
			Short: "Print the migration status and current version",
			Args:  cobra.NoArgs,
			RunE: withDatabase(opts, func(ctx context.Context, cmd *cobra.Command, cfg *config.Config, pool *pgxpool.Pool, log *slog.Logger) error {
				version, err := db.MigrationStatus(ctx, pool, migrations.FS, cfg.Database.MigrationsTable, log)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "current version: %d\n", version)
				return err
			}),
		},
	)
	return cmd
}

type databaseFunc func(ctx context.Context, cmd *cobra.Command, cfg *config.Config, pool *pgxpool.Pool, log *slog.Logger) error

// withDatabase loads the config, opens the pool for the duration of fn and
// closes it afterwards.
func withDatabase(opts *rootOptions, fn databaseFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		cfg, err := opts.load()
		if err != nil {
			return err
		}
		if err := cfg.Database.Validate(); err != nil {
			return err
		}
		log, err := logger.New(cfg.Log)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		pool, err := db.Connect(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer pool.Close()

		return fn(ctx, cmd, cfg, pool, log)
	}
}
