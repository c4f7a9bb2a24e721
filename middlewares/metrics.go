package middlewares

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/dmitrymomot/hostkit/internal"
)

const meterName = "github.com/dmitrymomot/hostkit/middlewares"

// unmatchedRoute labels requests no route matched, keeping label
// cardinality bounded.
const unmatchedRoute = "unmatched"

// Metrics returns middleware that records request counts, durations and
// in-flight requests on mp, labelled by method, route pattern and status.
// Register it globally; the route pattern is resolved after routing.
func Metrics(mp metric.MeterProvider) internal.Middleware {
	meter := mp.Meter(meterName)

	// Creation only fails for invalid instrument names, and these are constants.
	requests, _ := meter.Int64Counter("http.server.requests",
		metric.WithDescription("HTTP requests served"),
	)
	duration, _ := meter.Float64Histogram("http.server.request.duration",
		metric.WithDescription("Time to serve an HTTP request"),
		metric.WithUnit("s"),
	)
	inflight, _ := meter.Int64UpDownCounter("http.server.active_requests",
		metric.WithDescription("Requests currently being served"),
	)

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			started := time.Now()
			method := metric.WithAttributes(attribute.String("method", c.Request().Method))
			inflight.Add(c.Context(), 1, method)
			defer inflight.Add(c.Context(), -1, method)

			err := next(c)

			status := c.ResponseWriter().Status()
			if err != nil && !c.Written() {
				// Route-level use: the error is rendered after this returns.
				status = internal.ProblemFor(c, err).Status
			}
			if status == 0 {
				status = http.StatusOK
			}

			attrs := metric.WithAttributes(
				attribute.String("method", c.Request().Method),
				attribute.String("route", routePattern(c)),
				attribute.String("status", strconv.Itoa(status)),
			)
			requests.Add(c.Context(), 1, attrs)
			duration.Record(c.Context(), time.Since(started).Seconds(), attrs)
			return err
		}
	}
}

func routePattern(c internal.Context) string {
	if rctx := chi.RouteContext(c.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return unmatchedRoute
}
