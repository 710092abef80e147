package fulfillment

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/edustore/checkout-service/internal/application/ports"
	"github.com/edustore/checkout-service/internal/domain/errors"
	"github.com/edustore/checkout-service/internal/pkg/bus"
	"github.com/edustore/checkout-service/internal/pkg/logger"
)

// Accessor serves the Orders view: confirmed purchases and the download
// links for digital assets. Results are cached per user and invalidated
// when the orchestrator publishes OrdersUpdated, so a refetch after a
// purchase always sees the new order.
type Accessor struct {
	orders ports.OrderGateway
	log    *logger.Logger

	mu     sync.Mutex
	byUser map[string][]ports.Purchase
	sfg    singleflight.Group
}

func NewAccessor(orders ports.OrderGateway, events *bus.Bus, log *logger.Logger) *Accessor {
	a := &Accessor{
		orders: orders,
		log:    log,
		byUser: make(map[string][]ports.Purchase),
	}

	events.Subscribe(bus.OrdersUpdated, func(bus.Event) {
		a.invalidateAll()
	})

	return a
}

func (a *Accessor) Purchases(ctx context.Context, userID string) ([]ports.Purchase, error) {
	a.mu.Lock()
	cached, ok := a.byUser[userID]
	a.mu.Unlock()
	if ok {
		return cached, nil
	}

	v, err, _ := a.sfg.Do(userID, func() (interface{}, error) {
		purchases, fetchErr := a.orders.ListPurchases(ctx, userID)
		if fetchErr != nil {
			a.log.Error("Failed to list purchases", "error", fetchErr, "user_id", userID)
			return nil, errors.ErrNetworkFailure
		}

		a.mu.Lock()
		a.byUser[userID] = purchases
		a.mu.Unlock()

		return purchases, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]ports.Purchase), nil
}

// Downloads filters purchases down to digital assets that carry a file.
func (a *Accessor) Downloads(ctx context.Context, userID string) ([]ports.Purchase, error) {
	purchases, err := a.Purchases(ctx, userID)
	if err != nil {
		return nil, err
	}

	downloads := make([]ports.Purchase, 0, len(purchases))
	for _, p := range purchases {
		if p.DownloadURL != "" {
			downloads = append(downloads, p)
		}
	}
	return downloads, nil
}

func (a *Accessor) invalidateAll() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.byUser = make(map[string][]ports.Purchase)
}
