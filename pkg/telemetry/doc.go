// Package telemetry builds the OpenTelemetry meter provider shared by the
// host and exposes it to Prometheus.
//
// A [Provider] owns a private Prometheus registry with Go runtime and
// process collectors, an OpenTelemetry exporter bound to that registry and
// an SDK meter provider reading from it. Components that record metrics
// (db.NewRunner, the HTTP metrics middleware) take [Provider.MeterProvider];
// the app serves [Provider.Handler]:
//
//	tp, err := telemetry.New(cfg.Telemetry)
//	if err != nil {
//		return err
//	}
//	app := hostkit.New(
//		hostkit.WithMetricsHandler(cfg.Telemetry.Path, tp.Handler()),
//		hostkit.WithMiddleware(middlewares.Metrics(tp.MeterProvider())),
//	)
//
// When Config.Enabled is false, New returns a provider backed by the no-op
// meter provider and Handler answers 404.
//
// Environment variables:
//
//	METRICS_ENABLED   - export metrics (default: true)
//	METRICS_PATH      - path the app serves them on (default: /metrics)
//	METRICS_NAMESPACE - prefix for every exported metric name
package telemetry
