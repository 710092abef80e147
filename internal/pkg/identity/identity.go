package identity

import (
	"context"

	"github.com/edustore/checkout-service/internal/domain/user"
)

type contextKey int

const (
	tokenKey contextKey = iota
	userKey
)

// WithToken attaches the bearer credential supplied by the identity
// provider. Absence of a token means cart/checkout are unavailable for the
// request, which is not an error.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	return token, ok && token != ""
}

func WithUser(ctx context.Context, u user.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

func UserFromContext(ctx context.Context) (user.User, bool) {
	u, ok := ctx.Value(userKey).(user.User)
	return u, ok && u.ID != ""
}
