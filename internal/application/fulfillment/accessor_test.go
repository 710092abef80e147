package fulfillment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edustore/checkout-service/internal/application/ports"
	"github.com/edustore/checkout-service/internal/domain/cart"
	"github.com/edustore/checkout-service/internal/domain/checkout"
	domainErrors "github.com/edustore/checkout-service/internal/domain/errors"
	"github.com/edustore/checkout-service/internal/pkg/bus"
	"github.com/edustore/checkout-service/internal/pkg/logger"
)

type fakeOrderGateway struct {
	calls     int
	purchases []ports.Purchase
	err       error
}

func (f *fakeOrderGateway) CreateOrder(ctx context.Context, userID, receiptID string, snapshot cart.Snapshot) (*checkout.Order, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeOrderGateway) ListPurchases(ctx context.Context, userID string) ([]ports.Purchase, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.purchases, nil
}

func testPurchases() []ports.Purchase {
	return []ports.Purchase{
		{OrderRef: "ref-1", ProductID: "p-1", Name: "Algebra Notes", Kind: "digital", DownloadURL: "https://files.example.com/p-1.pdf"},
		{OrderRef: "ref-1", ProductID: "p-2", Name: "Workbook", Kind: "physical"},
	}
}

func TestPurchasesAreCachedPerUser(t *testing.T) {
	gateway := &fakeOrderGateway{purchases: testPurchases()}
	accessor := NewAccessor(gateway, bus.New(), logger.NewLogger())

	first, err := accessor.Purchases(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Len(t, first, 2)

	_, err = accessor.Purchases(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 1, gateway.calls)
}

func TestOrdersUpdatedInvalidatesCache(t *testing.T) {
	gateway := &fakeOrderGateway{purchases: testPurchases()}
	events := bus.New()
	accessor := NewAccessor(gateway, events, logger.NewLogger())

	_, err := accessor.Purchases(context.Background(), "user-1")
	require.NoError(t, err)

	events.Publish(bus.OrdersUpdated)

	_, err = accessor.Purchases(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 2, gateway.calls, "publish should force a refetch")
}

func TestDownloadsFilterToFilesOnly(t *testing.T) {
	gateway := &fakeOrderGateway{purchases: testPurchases()}
	accessor := NewAccessor(gateway, bus.New(), logger.NewLogger())

	downloads, err := accessor.Downloads(context.Background(), "user-1")

	require.NoError(t, err)
	require.Len(t, downloads, 1)
	assert.Equal(t, "p-1", downloads[0].ProductID)
}

func TestPurchasesUpstreamFailure(t *testing.T) {
	gateway := &fakeOrderGateway{err: errors.New("orders down")}
	accessor := NewAccessor(gateway, bus.New(), logger.NewLogger())

	_, err := accessor.Purchases(context.Background(), "user-1")

	assert.ErrorIs(t, err, domainErrors.ErrNetworkFailure)
}
