package middleware

import (
	"net/http"
	"strings"

	"github.com/edustore/checkout-service/internal/domain/user"
	"github.com/edustore/checkout-service/internal/pkg/identity"
)

// UserResolver turns a bearer token into the signed-in user. Implementations
// typically call the accounts service and cache the result.
type UserResolver interface {
	Resolve(token string) (user.User, error)
}

// NewAuthMiddleware extracts the bearer token, resolves the user and stores
// both on the request context. Requests without a token pass through
// unauthenticated; handlers decide whether that is acceptable.
func NewAuthMiddleware(resolver UserResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			ctx := identity.WithToken(r.Context(), token)
			if resolver != nil {
				if u, err := resolver.Resolve(token); err == nil && u.ID != "" {
					ctx = identity.WithUser(ctx, u)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
