package middlewares

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime"

	"github.com/dmitrymomot/hostkit/internal"
)

// DefaultStackSize caps the captured stack trace, in bytes.
const DefaultStackSize = 4096

type RecoverOption func(*recoverConfig)

type recoverConfig struct {
	stackSize int
}

// WithRecoverStackSize caps the captured stack. Zero or less turns
// capture off.
func WithRecoverStackSize(size int) RecoverOption {
	return func(cfg *recoverConfig) { cfg.stackSize = size }
}

// WithRecoverDisablePrintStack is WithRecoverStackSize(0).
func WithRecoverDisablePrintStack() RecoverOption {
	return WithRecoverStackSize(0)
}

// Recover converts a panic in the rest of the chain into a *PanicError and
// logs it at error level, which also reports it to Sentry when that is
// configured. http.ErrAbortHandler keeps propagating.
func Recover(opts ...RecoverOption) internal.Middleware {
	cfg := recoverConfig{stackSize: DefaultStackSize}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) (err error) {
			defer func() {
				v := recover()
				if v == nil {
					return
				}
				if e, ok := v.(error); ok && errors.Is(e, http.ErrAbortHandler) {
					panic(v)
				}

				pe := &PanicError{Value: v, Stack: cfg.stack()}
				attrs := []any{slog.Any("panic", v)}
				if pe.Stack != nil {
					attrs = append(attrs, slog.String("stack", string(pe.Stack)))
				}
				c.LogError("panic recovered", attrs...)
				err = pe
			}()
			return next(c)
		}
	}
}

func (cfg recoverConfig) stack() []byte {
	if cfg.stackSize <= 0 {
		return nil
	}
	buf := make([]byte, cfg.stackSize)
	return buf[:runtime.Stack(buf, false)]
}
