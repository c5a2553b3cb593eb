package logging

import (
	"fmt"
	"net"
	"net/http"
	"time"
)

// HeaderRequestID is echoed on every response so callers can pair a response
// with its log lines.
const HeaderRequestID = "X-Request-ID"

// statusRecorder captures the response status for the completion log line.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusRecorder) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	return w.ResponseWriter.Write(p)
}

// RequestLogger is the request interceptor. For every request it generates a
// correlation ID, installs it into the request context so all downstream log
// calls are tagged with it, and logs entry and exit with timing. Panics are
// logged at ERROR with the stack and re-raised unchanged; converting them to
// a response is the recoverer's job, not this middleware's.
//
// The correlation ID is scoped to the request context and is cleared on
// every exit path before control returns, so a later request handled on the
// same goroutine can never observe a stale ID.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := NewRequestID()
		ctx := WithRequestID(r.Context(), id)
		r = r.WithContext(ctx)
		w.Header().Set(HeaderRequestID, id)

		logger := Logger("http")
		start := time.Now()

		client := r.RemoteAddr
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			client = host
		}

		logger.InfoContext(ctx, "request received",
			"method", r.Method,
			"path", r.URL.Path,
			"client", client,
		)

		rec := &statusRecorder{ResponseWriter: w}

		defer func() {
			rvr := recover()
			if rvr != nil {
				logger.ErrorContext(ctx, "request failed",
					"method", r.Method,
					"path", r.URL.Path,
					"duration_ms", time.Since(start).Milliseconds(),
					"error", fmt.Sprintf("%v", rvr),
					PanicException(rvr),
				)
			}
			ctx = ClearRequestID(ctx)
			if rvr != nil {
				panic(rvr)
			}
		}()

		next.ServeHTTP(rec, r)

		status := rec.status
		if status == 0 {
			status = http.StatusOK
		}

		logger.InfoContext(ctx, "request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
