package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/edustore/checkout-service/internal/infrastructure/http/response"
	"github.com/edustore/checkout-service/internal/pkg/logger"
)

// NewRecoveryMiddleware converts a handler panic into a 500 in the same
// envelope every other error uses. A panic during a gateway callback must
// still produce a well-formed JSON body, since the widget retries on
// malformed responses.
func NewRecoveryMiddleware(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("Panic while serving request",
						"panic", rec,
						"method", r.Method,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)

					response.WriteJSON(w, http.StatusInternalServerError,
						response.Error(response.StatusInternalError, "internal", "Internal server error"))
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
