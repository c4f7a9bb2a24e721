// Package middlewares provides the HTTP middleware a hostkit application
// is usually assembled from.
//
// # Request ID
//
// RequestID assigns each request an ID, reusing X-Request-ID or
// X-Correlation-ID when the client sends one and generating a ULID
// otherwise. Context.RequestID returns it and problem responses carry it as
// traceId. RequestIDExtractor adds it to log records:
//
//	log, _ := logger.New(cfg.Log, middlewares.RequestIDExtractor())
//	app := hostkit.New(
//	    hostkit.WithLogger(log),
//	    hostkit.WithMiddleware(middlewares.RequestID()),
//	)
//
// # Recover and Timeout
//
// Recover converts panics into *PanicError and Timeout returns *TimeoutError
// once its deadline passes. The default error handler renders them as 500
// and 504; a custom one can tell them apart with IsPanicError and
// IsTimeoutError.
//
// # CORS
//
// CORS handles preflight requests and adds the CORS headers. Register it
// first so preflights never reach routing. CORSFromConfig takes a
// CORSConfig loaded from the environment.
//
//	hostkit.WithMiddleware(
//	    middlewares.CORS(
//	        middlewares.WithAllowOrigins("https://app.example.com"),
//	        middlewares.WithAllowCredentials(),
//	    ),
//	)
//
// # Authentication and authorization
//
// Authenticate runs auth schemes and stores the resulting principal.
// RequireAuthenticated, RequireRole and RequirePermission guard routes:
//
//	hostkit.WithMiddleware(middlewares.Authenticate(cookieScheme, bearer))
//
//	r.GET("/admin/users", h.list,
//	    middlewares.RequireRole([]string{"admin"}),
//	)
//	r.POST("/reports/export", h.export,
//	    middlewares.RequirePermission([]hostkit.Permission{"reports.export"}),
//	)
//
// JWT[T] is the lower-level option for APIs that want their own claim
// struct; handlers read it with hostkit.Claims[T].
//
// # Metrics
//
// Metrics records request counts, durations and in-flight requests on an
// OpenTelemetry meter provider, labelled by route pattern.
//
// # Order
//
//	hostkit.WithMiddleware(
//	    middlewares.CORS(),
//	    middlewares.RequestID(),
//	    middlewares.Metrics(tp.MeterProvider()),
//	    middlewares.Recover(),
//	    middlewares.Timeout(10*time.Second),
//	    middlewares.Authenticate(schemes...),
//	)
package middlewares
