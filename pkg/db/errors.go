package db

import "errors"

// Configuration and connectivity.
var (
	ErrEmptyConnectionString = errors.New("db: connection string is empty")
	ErrInvalidConfig         = errors.New("db: invalid configuration")
	ErrParseConfig           = errors.New("db: cannot parse connection string")
	ErrConnect               = errors.New("db: cannot connect")
	ErrUnhealthy             = errors.New("db: ping failed")
)

// Queries and transactions.
var (
	ErrUnknownIsolation = errors.New("db: unknown isolation level")
	ErrBeginTx          = errors.New("db: begin transaction")
	ErrCommitTx         = errors.New("db: commit transaction")
	ErrBuildQuery       = errors.New("db: build query")
)

// Migrations.
var (
	ErrSetDialect        = errors.New("db: migrations: set dialect")
	ErrApplyMigrations   = errors.New("db: migrations: apply")
	ErrRollbackMigration = errors.New("db: migrations: roll back")
	ErrMigrationStatus   = errors.New("db: migrations: read status")
)
