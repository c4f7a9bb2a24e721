package main

import (
	"context"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/dmitrymomot/hostkit"
	"github.com/dmitrymomot/hostkit/internal/accounts"
	"github.com/dmitrymomot/hostkit/internal/config"
	"github.com/dmitrymomot/hostkit/middlewares"
	"github.com/dmitrymomot/hostkit/migrations"
	"github.com/dmitrymomot/hostkit/pkg/auth"
	"github.com/dmitrymomot/hostkit/pkg/cookie"
	"github.com/dmitrymomot/hostkit/pkg/db"
	"github.com/dmitrymomot/hostkit/pkg/health"
	"github.com/dmitrymomot/hostkit/pkg/identity"
	"github.com/dmitrymomot/hostkit/pkg/jwt"
	"github.com/dmitrymomot/hostkit/pkg/logger"
	"github.com/dmitrymomot/hostkit/pkg/oauth"
	"github.com/dmitrymomot/hostkit/pkg/redis"
	"github.com/dmitrymomot/hostkit/pkg/tablecache"
	"github.com/dmitrymomot/hostkit/pkg/task"
	"github.com/dmitrymomot/hostkit/pkg/telemetry"
)

const cacheWarmTimeout = 30 * time.Second

func serveCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	log, err := logger.New(cfg.Log, middlewares.RequestIDExtractor())
	if err != nil {
		return err
	}
	log = log.With(logger.Component(cfg.App.Name))

	if err := cfg.Database.Validate(); err != nil {
		return err
	}

	metrics, err := telemetry.New(cfg.Metrics)
	if err != nil {
		return err
	}

	pool, err := db.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	runner, err := db.NewRunnerFromConfig(pool, cfg.Database,
		db.WithLogger(log),
		db.WithMeterProvider(metrics.MeterProvider()),
	)
	if err != nil {
		pool.Close()
		return err
	}

	runOpts := []hostkit.RunOption{
		hostkit.Logger(log),
		hostkit.WithContext(ctx),
		hostkit.ShutdownTimeout(cfg.HTTP.ShutdownTimeout),
	}
	if cfg.App.AutoMigrate {
		runOpts = append(runOpts, hostkit.StartupHook(func(ctx context.Context) error {
			return db.Migrate(ctx, pool, migrations.FS, cfg.Database.MigrationsTable, log)
		}))
	}
	healthOpts := []hostkit.HealthOption{
		hostkit.WithReadinessCheck("postgres", db.Healthcheck(pool)),
	}
	tableOpts := []tablecache.Option{tablecache.WithLogger(log)}

	var rdb goredis.UniversalClient
	if cfg.Redis.Enabled() {
		rdb, err = redis.Open(ctx, cfg.Redis, redis.WithLogger(log), redis.WithClientName(cfg.App.Name))
		if err != nil {
			pool.Close()
			return err
		}
		tableOpts = append(tableOpts, tablecache.WithRedis(rdb))
		healthOpts = append(healthOpts, hostkit.WithReadinessCheck("redis", redis.Healthcheck(rdb), health.Optional()))
	}

	svc, err := newServices(cfg, runner, tableOpts, log)
	if err != nil {
		if rdb != nil {
			_ = rdb.Close()
		}
		pool.Close()
		return err
	}

	// Shutdown hooks run in order once the server has drained.
	runOpts = append(runOpts,
		hostkit.ShutdownHook(func(context.Context) error { return svc.tables.Close() }),
		hostkit.ShutdownHook(db.Shutdown(pool)),
	)
	if rdb != nil {
		runOpts = append(runOpts, hostkit.ShutdownHook(redis.Shutdown(rdb)))
	}
	runOpts = append(runOpts,
		hostkit.ShutdownHook(metrics.Shutdown()),
		hostkit.ShutdownHook(logger.FlushSentry()),
	)

	// Warm the lookup cache once migrations have run, without delaying
	// the listener.
	runOpts = append(runOpts, hostkit.StartupHook(func(ctx context.Context) error {
		task.Go(ctx, log, func(ctx context.Context) error {
			_, err := task.WithTimeout(ctx, cacheWarmTimeout, svc.accounts.Countries.All)
			return err
		})
		return nil
	}))

	middleware := []hostkit.Middleware{
		middlewares.RequestID(),
		middlewares.Recover(),
		middlewares.Metrics(metrics.MeterProvider()),
		middlewares.CORSFromConfig(cfg.CORS),
		middlewares.Authenticate(svc.bearer, svc.session),
	}
	if cfg.HTTP.RequestTimeout > 0 {
		middleware = append(middleware, middlewares.Timeout(cfg.HTTP.RequestTimeout))
	}

	app := hostkit.New(
		hostkit.WithLogger(log),
		hostkit.WithMiddleware(middleware...),
		hostkit.WithCookieManager(svc.cookies),
		hostkit.WithSignInScheme(svc.session),
		hostkit.WithMaxBodySize(cfg.HTTP.MaxBodySize),
		hostkit.WithHealthChecks(healthOpts...),
		hostkit.WithMetricsHandler(cfg.Metrics.Path, metrics.Handler()),
		hostkit.WithHandlers(accounts.NewHandler(svc.accounts)),
	)

	return app.Run(cfg.HTTP.Addr, runOpts...)
}

// services are the identity and auth components shared by the
// middleware chain and the accounts module.
type services struct {
	tables   *tablecache.Factory
	cookies  *cookie.Manager
	session  *auth.Cookie
	bearer   *auth.JWTBearer
	accounts accounts.Deps
}

func newServices(cfg *config.Config, runner *db.Runner, tableOpts []tablecache.Option, log *slog.Logger) (_ *services, err error) {
	tables := tablecache.NewFactory(cfg.TableCache, runner, tableOpts...)
	defer func() {
		if err != nil {
			_ = tables.Close()
		}
	}()

	countries, err := accounts.NewCountries(tables)
	if err != nil {
		return nil, err
	}

	tokens, err := jwt.New(cfg.JWT)
	if err != nil {
		return nil, err
	}
	cookies, err := cookie.NewFromConfig(cfg.Cookie)
	if err != nil {
		return nil, err
	}
	session, err := auth.NewCookie(cookies, cfg.AuthCookie)
	if err != nil {
		return nil, err
	}
	svc := &services{
		tables:  tables,
		cookies: cookies,
		session: session,
		bearer:  auth.NewJWTBearer(tokens),
	}

	store := accounts.NewStore(runner)
	hasher := identity.NewHasher(cfg.Identity.BcryptCost)
	users := identity.NewUserManager(store, hasher, cfg.Identity)
	svc.accounts = accounts.Deps{
		Store:     store,
		Users:     users,
		SignIn:    identity.NewSignInManager(store, hasher, cfg.Identity, identity.WithSignInLogger(log)),
		Tokens:    svc.bearer,
		Countries: countries,
	}

	providers, err := oauth.NewRegistryFromConfig(cfg.OAuth)
	if err != nil {
		return nil, err
	}
	if len(providers.Names()) > 0 {
		svc.accounts.External = auth.NewExternal(providers, cookies, session,
			accounts.ResolveExternal(store, users),
			auth.WithExternalLogger(log),
		)
	}
	return svc, nil
}
