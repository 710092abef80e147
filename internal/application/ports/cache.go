package ports

import (
	"context"
	"time"

	"github.com/edustore/checkout-service/internal/domain/catalog"
)

type Cache interface {
	GetCatalog(ctx context.Context) ([]catalog.Item, error)
	SetCatalog(ctx context.Context, items []catalog.Item, expiration time.Duration) error

	// AcquireCheckoutLock holds the single-purchase lock for one user:
	// only one session may be in its processing window at a time.
	AcquireCheckoutLock(ctx context.Context, userID string, expiration time.Duration) (bool, error)
	ReleaseCheckoutLock(ctx context.Context, userID string) error

	// Gateway order dedup guards callback idempotency: a gateway order
	// resolved once is refused a second resolution.
	MarkGatewayOrderResolved(ctx context.Context, gatewayOrderID string, expiration time.Duration) error
	GatewayOrderResolved(ctx context.Context, gatewayOrderID string) (bool, error)
}
