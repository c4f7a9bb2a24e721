package internal

import (
	"bufio"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
)

// ResponseWriter records the status and body size of a response and lets
// middleware run code right before headers go out. The auth middleware uses
// that hook to refresh sliding session cookies.
type ResponseWriter struct {
	http.ResponseWriter

	mu     sync.Mutex
	hooks  []func()
	status int
	sent   bool
	size   atomic.Int64
}

// NewResponseWriter wraps w. The status reads as 200 until a header is sent.
func NewResponseWriter(w http.ResponseWriter) *ResponseWriter {
	return &ResponseWriter{ResponseWriter: w, status: http.StatusOK}
}

// OnBeforeWrite queues fn to run once, just before the header is sent.
// Hooks added after that point never run.
func (w *ResponseWriter) OnBeforeWrite(fn func()) {
	w.mu.Lock()
	w.hooks = append(w.hooks, fn)
	w.mu.Unlock()
}

// sendHeader runs the queued hooks and writes the header. It reports false
// when the header was already sent.
func (w *ResponseWriter) sendHeader(code int) bool {
	w.mu.Lock()
	if w.sent {
		w.mu.Unlock()
		return false
	}
	w.sent = true
	w.status = code
	hooks := w.hooks
	w.hooks = nil
	w.mu.Unlock()

	// Hooks run unlocked: they commonly touch Header() and may call Status().
	for _, fn := range hooks {
		fn()
	}
	w.ResponseWriter.WriteHeader(code)
	return true
}

// WriteHeader sends the header. Repeated calls are ignored.
func (w *ResponseWriter) WriteHeader(code int) {
	w.sendHeader(code)
}

// Write sends an implicit 200 header if none went out yet.
func (w *ResponseWriter) Write(b []byte) (int, error) {
	w.sendHeader(w.Status())
	n, err := w.ResponseWriter.Write(b)
	w.size.Add(int64(n))
	return n, err
}

// Status is the status code sent, or 200 before anything was written.
func (w *ResponseWriter) Status() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// Size is the number of body bytes written so far.
func (w *ResponseWriter) Size() int64 {
	return w.size.Load()
}

// Written reports whether the header has been sent.
func (w *ResponseWriter) Written() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sent
}

func (w *ResponseWriter) Flush() {
	_ = http.NewResponseController(w.ResponseWriter).Flush()
}

func (w *ResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return http.NewResponseController(w.ResponseWriter).Hijack()
}

// Unwrap exposes the wrapped writer to http.ResponseController.
func (w *ResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
