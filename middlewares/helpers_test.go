package middlewares_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hostkit/internal"
	"github.com/dmitrymomot/hostkit/pkg/problem"
)

type routes func(r internal.Router)

func (fn routes) Routes(r internal.Router) { fn(r) }

// serve builds an app from opts, registers h at GET, POST and OPTIONS
// /items/{id} behind mw and serves req.
func serve(t *testing.T, req *http.Request, h internal.HandlerFunc, mw []internal.Middleware, opts ...internal.Option) *httptest.ResponseRecorder {
	t.Helper()

	opts = append(opts, internal.WithHandlers(routes(func(r internal.Router) {
		r.GET("/items/{id}", h, mw...)
		r.POST("/items/{id}", h, mw...)
		r.OPTIONS("/items/{id}", h, mw...)
	})))
	app := internal.New(opts...)

	w := httptest.NewRecorder()
	app.Router().ServeHTTP(w, req)
	return w
}

// run applies mw to h inside a real request and returns the error mw
// produced before the app's error handler saw it.
func run(t *testing.T, req *http.Request, mw internal.Middleware, h internal.HandlerFunc, opts ...internal.Option) error {
	t.Helper()

	var got error
	capture := func(c internal.Context) error {
		got = mw(h)(c)
		return nil
	}
	serve(t, req, capture, nil, opts...)
	return got
}

func noContent(c internal.Context) error {
	return c.NoContent(http.StatusNoContent)
}

func decodeProblem(t *testing.T, w *httptest.ResponseRecorder) problem.Details {
	t.Helper()

	require.Equal(t, problem.ContentType, w.Header().Get("Content-Type"))
	var d problem.Details
	require.NoError(t, json.NewDecoder(w.Body).Decode(&d))
	return d
}
