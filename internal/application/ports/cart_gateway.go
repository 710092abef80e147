package ports

import (
	"context"

	"github.com/edustore/checkout-service/internal/domain/cart"
)

// CartGateway is the remote cart service, the source of truth for cart
// state. Every call carries the bearer credential held in ctx.
type CartGateway interface {
	GetCart(ctx context.Context, userID string) ([]cart.Item, error)
	AddItem(ctx context.Context, userID string, item cart.Item) error
	UpdateQuantity(ctx context.Context, userID, productID string, quantity int) error
	RemoveItem(ctx context.Context, userID, productID string) error

	// Available reports whether the backing service is currently enabled.
	// When false, mutations are rejected up front instead of attempting a
	// call known to fail.
	Available(ctx context.Context) bool
}
