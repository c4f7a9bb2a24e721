package middlewares

import (
	"github.com/dmitrymomot/hostkit/internal"
	"github.com/dmitrymomot/hostkit/pkg/id"
	"github.com/dmitrymomot/hostkit/pkg/logger"
)

// DefaultRequestIDHeaders are checked in order for an ID set upstream.
var DefaultRequestIDHeaders = []string{"X-Request-ID", "X-Correlation-ID"}

type RequestIDOption func(*requestIDConfig)

type requestIDConfig struct {
	generate func() string
	respond  string
	headers  []string
}

func WithRequestIDHeaders(headers ...string) RequestIDOption {
	return func(cfg *requestIDConfig) { cfg.headers = headers }
}

// WithRequestIDGenerator replaces the ULID generator.
func WithRequestIDGenerator(gen func() string) RequestIDOption {
	return func(cfg *requestIDConfig) {
		if gen != nil {
			cfg.generate = gen
		}
	}
}

// WithRequestIDResponseHeader names the response header that echoes the
// ID. An empty name disables the echo.
func WithRequestIDResponseHeader(header string) RequestIDOption {
	return func(cfg *requestIDConfig) { cfg.respond = header }
}

// RequestID tags every request with an ID: the first acceptable one found
// in the configured headers, or a new ULID. Context.RequestID reads it back
// and problem responses report it as traceId.
func RequestID(opts ...RequestIDOption) internal.Middleware {
	cfg := requestIDConfig{
		generate: id.NewULID,
		respond:  "X-Request-ID",
		headers:  DefaultRequestIDHeaders,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			reqID := cfg.incoming(c)
			if reqID == "" {
				reqID = cfg.generate()
			}
			c.Set(internal.RequestIDKey{}, reqID)
			if cfg.respond != "" {
				c.SetHeader(cfg.respond, reqID)
			}
			return next(c)
		}
	}
}

func (cfg requestIDConfig) incoming(c internal.Context) string {
	for _, h := range cfg.headers {
		if v := c.Header(h); validRequestID(v) {
			return v
		}
	}
	return ""
}

// validRequestID accepts up to 128 printable ASCII characters, which keeps
// client-supplied IDs safe to log and echo.
func validRequestID(v string) bool {
	if v == "" || len(v) > 128 {
		return false
	}
	for i := range len(v) {
		if v[i] < 0x21 || v[i] > 0x7e {
			return false
		}
	}
	return true
}

// RequestIDExtractor makes logger.New add "request_id" to records logged
// with a request context.
func RequestIDExtractor() logger.ContextExtractor {
	return logger.ContextValue(internal.RequestIDKey{}, "request_id")
}
