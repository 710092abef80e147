package middleware

import (
	"net/http"
	"time"

	"github.com/edustore/checkout-service/internal/pkg/logger"
)

// NewLoggingMiddleware emits one structured line per request. Callback
// endpoints are hit by the payment gateway as well as by browsers, so the
// line carries enough to trace a checkout attempt end to end.
func NewLoggingMiddleware(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now().UTC()

			wrw := &responseWriterWrapper{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrw, r)

			fields := []interface{}{
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrw.statusCode,
				"bytes", wrw.bytes,
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_addr", r.RemoteAddr,
			}
			if ua := r.UserAgent(); ua != "" {
				fields = append(fields, "user_agent", ua)
			}

			if wrw.statusCode >= http.StatusInternalServerError {
				log.Error("Request failed", fields...)
			} else {
				log.Info("Request handled", fields...)
			}
		})
	}
}

type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode int
	bytes      int
}

func (w *responseWriterWrapper) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *responseWriterWrapper) Write(p []byte) (int, error) {
	n, err := w.ResponseWriter.Write(p)
	w.bytes += n
	return n, err
}
