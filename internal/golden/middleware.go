package golden

import (
	"log/slog"
	"net/http"
	"time"
)

// responseWriter captures the status code written by the wrapped handler.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware instruments an HTTP handler: every request is counted, a 5xx
// response counts as an error, and successful requests record their elapsed
// wall-clock time. Errors do not record latency.
func (s *Signals) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		if err := s.RecordRequest(); err != nil {
			slog.Warn("failed to record request", "error", err)
		}

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		if rw.statusCode >= http.StatusInternalServerError {
			if err := s.RecordError(); err != nil {
				slog.Warn("failed to record error", "error", err)
			}
			return
		}

		if err := s.RecordLatency(time.Since(start)); err != nil {
			slog.Warn("failed to record latency", "error", err)
		}
	})
}
