// Package health provides liveness and readiness probes.
//
// A [Registry] holds named checks, any func(context.Context) error such as
// db.Healthcheck or redis.Healthcheck, and runs them in parallel with a
// per-check timeout. Required checks make the service unhealthy (503) when
// they fail; checks added with [Optional] only degrade it (still 200), which
// suits caches and other dependencies the service can run without.
//
//	reg := health.NewRegistry(health.WithTimeout(2*time.Second), health.WithLogger(log))
//	reg.Add("postgres", db.Healthcheck(pool))
//	reg.Add("redis", redis.Healthcheck(client), health.Optional())
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", reg.Handler())
//
// Responses are plain text by default and JSON when requested with
// ?format=json or an Accept: application/json header:
//
//	{"status":"degraded","duration":"1.2ms","checks":{"redis":{"status":"degraded","optional":true,...}}}
package health
