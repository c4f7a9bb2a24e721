// Package db provides PostgreSQL plumbing on top of pgx: a connection pool
// with startup retry, goose migrations, struct mapping helpers and a
// transactional call envelope.
//
// # Configuration
//
// [Config] is loaded from environment variables or YAML:
//
//	DATABASE_CONN_URL           - PostgreSQL connection URL (required)
//	DATABASE_MAX_OPEN_CONNS     - Maximum open connections (default: 10)
//	DATABASE_MIN_CONNS          - Minimum idle connections (default: 2)
//	DATABASE_ISOLATION_LEVEL    - Envelope default isolation (default: read committed)
//	DATABASE_HEALTHCHECK_PERIOD - Pool health check interval (default: 1m)
//	DATABASE_MAX_CONN_IDLE_TIME - Maximum connection idle time (default: 10m)
//	DATABASE_MAX_CONN_LIFETIME  - Maximum connection lifetime (default: 30m)
//	DATABASE_RETRY_ATTEMPTS     - Startup connection attempts (default: 3)
//	DATABASE_RETRY_INTERVAL     - Base startup retry interval (default: 5s)
//	DATABASE_MIGRATIONS_TABLE   - Migrations table name (default: schema_migrations)
//
// # Envelope
//
// A [Runner] opens a transaction, hands it to a unit of work and commits or
// rolls back based on the outcome:
//
//	runner := db.NewRunner(pool, db.WithLogger(log))
//
//	user, err := db.Call(ctx, runner, func(ctx context.Context, q db.Querier) (User, error) {
//		return db.Get[User](ctx, q, "SELECT * FROM users WHERE id = $1", id)
//	}, db.WithIsolation(pgx.Serializable))
//
// Arguments are captured by the closure, so one function covers every
// arity. The shapes are:
//
//   - [Runner.Exec] for work without a result
//   - [Call] for a single result
//   - [Stream] for results yielded one by one (commit after full consumption)
//   - [TryCall], [TryExec] and [TryStream] for work returning [result.Result]
//
// [WithoutTx] runs the same work directly on the pool. Calls made with a
// context received from an envelope open a savepoint on the outer
// transaction. The envelope never retries.
//
// # Mapping
//
// [Get], [Select] and [Rows] map rows onto structs by column name; the
// *DS variants accept goqu datasets built from [Dialect]. [ToError] turns
// pgx errors into typed errors from package errs.
//
// # Migrations
//
//	//go:embed *.sql
//	var migrations embed.FS
//
//	err := db.Migrate(ctx, pool, migrations, cfg.MigrationsTable, log)
//
// # Errors
//
// Infrastructure failures are reported with sentinel errors such as
// [ErrConnect], [ErrBeginTx] and [ErrCommitTx], joined
// with the underlying error using [errors.Join].
package db
