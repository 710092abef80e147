package catalogaccess

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edustore/checkout-service/internal/domain/cart"
	"github.com/edustore/checkout-service/internal/domain/catalog"
	domainErrors "github.com/edustore/checkout-service/internal/domain/errors"
	"github.com/edustore/checkout-service/internal/pkg/logger"
)

type fakeCatalogGateway struct {
	calls int
	items []catalog.Item
	err   error
}

func (f *fakeCatalogGateway) ListItems(ctx context.Context) ([]catalog.Item, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

type memoryCache struct {
	catalog []catalog.Item
}

func (m *memoryCache) GetCatalog(ctx context.Context) ([]catalog.Item, error) {
	return m.catalog, nil
}

func (m *memoryCache) SetCatalog(ctx context.Context, items []catalog.Item, expiration time.Duration) error {
	m.catalog = items
	return nil
}

func (m *memoryCache) AcquireCheckoutLock(ctx context.Context, userID string, expiration time.Duration) (bool, error) {
	return true, nil
}

func (m *memoryCache) ReleaseCheckoutLock(ctx context.Context, userID string) error { return nil }

func (m *memoryCache) MarkGatewayOrderResolved(ctx context.Context, gatewayOrderID string, expiration time.Duration) error {
	return nil
}

func (m *memoryCache) GatewayOrderResolved(ctx context.Context, gatewayOrderID string) (bool, error) {
	return false, nil
}

func testItems() []catalog.Item {
	return []catalog.Item{
		{ID: "p-1", Name: "Algebra Notes", Price: 500, Kind: cart.KindDigital},
		{ID: "p-2", Name: "Free Sample", Price: 0, Kind: cart.KindDigital},
	}
}

func TestListItemsCachesListing(t *testing.T) {
	gateway := &fakeCatalogGateway{items: testItems()}
	accessor := NewAccessor(gateway, &memoryCache{}, logger.NewLogger(), time.Minute)

	first, err := accessor.ListItems(context.Background())
	require.NoError(t, err)
	assert.Len(t, first, 2)

	_, err = accessor.ListItems(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, gateway.calls, "second listing should come from cache")
}

func TestListItemsUpstreamFailure(t *testing.T) {
	gateway := &fakeCatalogGateway{err: errors.New("catalog down")}
	accessor := NewAccessor(gateway, &memoryCache{}, logger.NewLogger(), time.Minute)

	_, err := accessor.ListItems(context.Background())

	assert.ErrorIs(t, err, domainErrors.ErrNetworkFailure)
}

func TestItemLookup(t *testing.T) {
	gateway := &fakeCatalogGateway{items: testItems()}
	accessor := NewAccessor(gateway, &memoryCache{}, logger.NewLogger(), time.Minute)

	item, err := accessor.Item(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, "Algebra Notes", item.Name)

	_, err = accessor.Item(context.Background(), "p-404")
	assert.ErrorIs(t, err, domainErrors.ErrItemNotFound)
}

func TestItemRejectsNonPurchasable(t *testing.T) {
	gateway := &fakeCatalogGateway{items: testItems()}
	accessor := NewAccessor(gateway, &memoryCache{}, logger.NewLogger(), time.Minute)

	_, err := accessor.Item(context.Background(), "p-2")

	assert.ErrorIs(t, err, domainErrors.ErrItemNotFound)
}
