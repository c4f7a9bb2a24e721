// Package internal implements the hostkit HTTP host. Import
// "github.com/dmitrymomot/hostkit", which re-exports the public API.
//
// # Core Types
//
//   - App: routing, middleware, health and metrics endpoints, graceful shutdown
//   - Context: request/response access, JSON binding, cookies, the
//     authenticated principal and permission checks
//   - Router: what handlers use to declare routes
//   - Handler, HandlerFunc, Middleware, ErrorHandler
//
// Context embeds context.Context, so it goes straight into db.Call and
// other context-aware APIs:
//
//	func (h *Accounts) me(c hostkit.Context) error {
//	    u := h.users.FindByID(c, c.UserID())
//	    return hostkit.Respond(c, http.StatusOK, u)
//	}
//
// # Controller Results
//
// Respond writes a result.Result as JSON on success and as problem details
// on failure. RespondErrors, Created and Problem cover the remaining cases.
// Errors returned from handlers reach DefaultErrorHandler, which classifies
// *HTTPError, errs.Error, errs.Errors and deadline errors and renders each
// as application/problem+json with the request ID as traceId. Anything it
// cannot classify becomes a 500 and is logged.
//
// # Authentication
//
// The Authenticate middleware stores an auth.Principal on the request.
// Context.Principal, UserID, IsInRole and Can read it; Can also consults
// the RolePermissions given to WithRoles. SignIn and SignOut delegate to
// the scheme set with WithSignInScheme.
//
// # Lifecycle
//
// Run executes startup hooks, binds the listener, serves until SIGINT or
// SIGTERM, drains connections and then runs shutdown hooks in order.
package internal
