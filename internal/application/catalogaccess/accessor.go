package catalogaccess

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/edustore/checkout-service/internal/application/ports"
	"github.com/edustore/checkout-service/internal/domain/catalog"
	"github.com/edustore/checkout-service/internal/domain/errors"
	"github.com/edustore/checkout-service/internal/pkg/logger"
)

// Accessor is the read-only view of purchasable items used to populate
// the cart. Listings are cached in redis with a TTL; concurrent cache
// misses collapse into a single upstream fetch.
type Accessor struct {
	gateway ports.CatalogGateway
	cache   ports.Cache
	log     *logger.Logger
	ttl     time.Duration
	sfg     singleflight.Group
}

func NewAccessor(gateway ports.CatalogGateway, cache ports.Cache, log *logger.Logger, ttl time.Duration) *Accessor {
	return &Accessor{
		gateway: gateway,
		cache:   cache,
		log:     log,
		ttl:     ttl,
	}
}

func (a *Accessor) ListItems(ctx context.Context) ([]catalog.Item, error) {
	v, err, _ := a.sfg.Do("catalog", func() (interface{}, error) {
		items, cacheErr := a.cache.GetCatalog(ctx)
		if cacheErr == nil && items != nil {
			return items, nil
		}
		if cacheErr != nil {
			a.log.Warn("Catalog cache read failed", "error", cacheErr)
		}

		items, fetchErr := a.gateway.ListItems(ctx)
		if fetchErr != nil {
			a.log.Error("Catalog fetch failed", "error", fetchErr)
			return nil, errors.ErrNetworkFailure
		}

		if setErr := a.cache.SetCatalog(ctx, items, a.ttl); setErr != nil {
			a.log.Warn("Catalog cache write failed", "error", setErr)
		}

		return items, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]catalog.Item), nil
}

// Item resolves a single purchasable item by id.
func (a *Accessor) Item(ctx context.Context, productID string) (catalog.Item, error) {
	items, err := a.ListItems(ctx)
	if err != nil {
		return catalog.Item{}, err
	}

	for _, item := range items {
		if item.ID == productID {
			if !item.Purchasable() {
				return catalog.Item{}, errors.ErrItemNotFound
			}
			return item, nil
		}
	}

	return catalog.Item{}, errors.ErrItemNotFound
}
