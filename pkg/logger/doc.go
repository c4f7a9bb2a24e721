// Package logger builds the application's slog logger.
//
// [New] reads a [Config] (level, json or text format, optional Sentry
// settings) and returns a *slog.Logger whose records are enriched by
// [ContextExtractor] functions, for example the request ID or the
// authenticated subject:
//
//	log, err := logger.New(cfg.Log,
//		middlewares.RequestIDExtractor(),
//		logger.ContextValue(tenantKey{}, "tenant_id"),
//	)
//
// When SENTRY_DSN is set, records are also delivered to Sentry: errors
// create issues and warnings (or only errors, with SENTRY_MIN_LEVEL=error)
// are stored as logs. An empty DSN or a failed SDK initialisation leaves
// stdout logging in place. Register [FlushSentry] as a shutdown hook so
// buffered events are delivered before exit.
//
// [NewContextHandler] applies the same extractors to any slog.Handler when a
// custom output is needed.
package logger
