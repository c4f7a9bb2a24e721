package health

import (
	"encoding/json"
	"net/http"
	"strings"
)

// plainBody is the text/plain answer for each status.
var plainBody = map[string]string{
	StatusHealthy:   "OK",
	StatusDegraded:  "Degraded",
	StatusUnhealthy: "Service Unavailable",
}

// LivenessHandler answers 200 for as long as the process can serve HTTP.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond(w, r, &Response{Status: StatusHealthy})
	}
}

// ReadinessHandler serves a one-off registry holding checks as required
// checks.
func ReadinessHandler(checks Checks, opts ...Option) http.HandlerFunc {
	reg := NewRegistry(opts...)
	reg.AddChecks(checks)
	return reg.Handler()
}

// Handler runs the checks on every request. Only StatusUnhealthy maps to
// 503, so a degraded service stays in rotation.
func (r *Registry) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		respond(w, req, r.Run(req.Context()))
	}
}

// respond writes JSON when asked for with ?format=json or an Accept header,
// and a one-word body otherwise.
func respond(w http.ResponseWriter, r *http.Request, resp *Response) {
	code := http.StatusOK
	if resp.Status == StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}

	h := w.Header()
	h.Set("Cache-Control", "no-store")
	if r.URL.Query().Get("format") == "json" || strings.Contains(r.Header.Get("Accept"), "application/json") {
		h.Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	h.Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(plainBody[resp.Status]))
}
