// Package redis opens go-redis clients from a [Config] and provides the
// readiness check and shutdown hook the host registers for them.
//
//	client, err := redis.Open(ctx, cfg.Redis, redis.WithLogger(log))
//	if err != nil {
//		return err
//	}
//	hostkit.WithReadinessCheck("redis", redis.Healthcheck(client), health.Optional())
//	app.Run(addr, hostkit.ShutdownHook(redis.Shutdown(client)))
//
// Environment variables:
//
//	REDIS_URL            - redis:// or rediss:// URL (empty disables Redis)
//	REDIS_POOL_SIZE      - maximum connections (default: 10)
//	REDIS_MIN_IDLE_CONNS - idle connections kept open (default: 2)
//	REDIS_RETRY_ATTEMPTS - startup connection attempts (default: 3)
//	REDIS_RETRY_INTERVAL - base delay between attempts (default: 2s)
package redis
