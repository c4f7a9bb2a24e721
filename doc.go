// Package hostkit is the hosting layer of a web service: an HTTP app with
// controller results rendered as problem details, authentication, health
// checks and graceful shutdown. The pkg/ packages supply the pieces it is
// assembled from (the transactional database envelope, identity, JWT and
// cookie schemes, caches, telemetry).
//
// # Quick Start
//
//	app := hostkit.New(
//	    hostkit.WithLogger(log),
//	    hostkit.WithMiddleware(
//	        middlewares.RequestID(),
//	        middlewares.Recover(),
//	        middlewares.Authenticate(cookies, bearer),
//	    ),
//	    hostkit.WithSignInScheme(cookies),
//	    hostkit.WithHealthChecks(
//	        hostkit.WithReadinessCheck("postgres", db.Healthcheck(pool)),
//	    ),
//	    hostkit.WithHandlers(accounts.NewHandler(svc)),
//	)
//
//	if err := app.Run(":8080", hostkit.ShutdownHook(db.Shutdown(pool))); err != nil {
//	    log.Error("server stopped", logger.Error(err))
//	}
//
// # Handlers
//
// Handlers implement [Handler] to declare routes and return errors instead
// of writing failure responses themselves:
//
//	func (h *Accounts) Routes(r hostkit.Router) {
//	    r.POST("/account/register", h.register)
//	    r.GET("/account/me", h.me, middlewares.RequireAuthenticated())
//	}
//
//	func (h *Accounts) register(c hostkit.Context) error {
//	    var in RegisterRequest
//	    if err := c.BindJSON(&in); err != nil {
//	        return err
//	    }
//	    return hostkit.Respond(c, http.StatusCreated, h.svc.Register(c, in))
//	}
//
// # Results and errors
//
// [Respond] takes a result.Result. Successful results are written as JSON;
// failed ones become RFC 9457 problem details whose status follows the
// first error's type (validation 400, unauthorized 401, forbidden 403,
// not found 404, conflict 409, failure 422, unexpected 500). Errors returned from
// handlers go through [DefaultErrorHandler], which applies the same
// mapping and adds the request ID as traceId.
//
// # Shutdown
//
// Run handles SIGINT and SIGTERM. Startup hooks run before the listener is
// bound; shutdown hooks run in order once in-flight requests have drained.
package hostkit
