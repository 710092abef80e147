package cartstore

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edustore/checkout-service/internal/domain/cart"
	"github.com/edustore/checkout-service/internal/domain/catalog"
	domainErrors "github.com/edustore/checkout-service/internal/domain/errors"
	"github.com/edustore/checkout-service/internal/pkg/bus"
	"github.com/edustore/checkout-service/internal/pkg/identity"
	"github.com/edustore/checkout-service/internal/pkg/logger"
)

type fakeCartGateway struct {
	items     map[string]cart.Item
	enabled   bool
	failNext  bool
	getCalls  int
	addCalls  int
	lastError error
}

func newFakeCartGateway() *fakeCartGateway {
	return &fakeCartGateway{
		items:     make(map[string]cart.Item),
		enabled:   true,
		lastError: errors.New("upstream unavailable"),
	}
}

func (f *fakeCartGateway) GetCart(ctx context.Context, userID string) ([]cart.Item, error) {
	f.getCalls++
	if f.failNext {
		f.failNext = false
		return nil, f.lastError
	}
	items := make([]cart.Item, 0, len(f.items))
	for _, item := range f.items {
		items = append(items, item)
	}
	return items, nil
}

func (f *fakeCartGateway) AddItem(ctx context.Context, userID string, item cart.Item) error {
	f.addCalls++
	if f.failNext {
		f.failNext = false
		return f.lastError
	}
	if existing, ok := f.items[item.ProductID]; ok {
		existing.Quantity += item.Quantity
		f.items[item.ProductID] = existing
		return nil
	}
	f.items[item.ProductID] = item
	return nil
}

func (f *fakeCartGateway) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) error {
	if f.failNext {
		f.failNext = false
		return f.lastError
	}
	item, ok := f.items[productID]
	if !ok {
		return nil
	}
	item.Quantity = quantity
	f.items[productID] = item
	return nil
}

func (f *fakeCartGateway) RemoveItem(ctx context.Context, userID, productID string) error {
	if f.failNext {
		f.failNext = false
		return f.lastError
	}
	delete(f.items, productID)
	return nil
}

func (f *fakeCartGateway) Available(ctx context.Context) bool {
	return f.enabled
}

func authedCtx() context.Context {
	return identity.WithToken(context.Background(), "token-1")
}

func notesItem() catalog.Item {
	return catalog.Item{ID: "p-1", Name: "Algebra Notes", Price: 500, Kind: cart.KindDigital}
}

func workbookItem() catalog.Item {
	return catalog.Item{ID: "p-2", Name: "Workbook", Price: 1250, Kind: cart.KindPhysical}
}

func newTestStore(gateway *fakeCartGateway) *Store {
	return NewStore("user-1", gateway, bus.New(), logger.NewLogger())
}

func TestLoadWithoutTokenYieldsEmptyCart(t *testing.T) {
	gateway := newFakeCartGateway()
	store := newTestStore(gateway)

	err := store.Load(context.Background())

	require.NoError(t, err)
	assert.True(t, store.IsEmpty())
	assert.Equal(t, 0, gateway.getCalls)
}

func TestAddThenTotal(t *testing.T) {
	gateway := newFakeCartGateway()
	store := newTestStore(gateway)
	ctx := authedCtx()

	require.NoError(t, store.Add(ctx, notesItem(), 2))
	require.NoError(t, store.Add(ctx, workbookItem(), 1))

	assert.Equal(t, int64(2250), store.Total())
	assert.Equal(t, 3, store.ItemCount())
	assert.False(t, store.IsEmpty())
}

func TestAddWithoutTokenRejected(t *testing.T) {
	gateway := newFakeCartGateway()
	store := newTestStore(gateway)

	err := store.Add(context.Background(), notesItem(), 1)

	assert.ErrorIs(t, err, domainErrors.ErrNotAuthenticated)
	assert.Equal(t, 0, gateway.addCalls)
}

func TestAddWhenGatewayDisabled(t *testing.T) {
	gateway := newFakeCartGateway()
	gateway.enabled = false
	store := newTestStore(gateway)

	err := store.Add(authedCtx(), notesItem(), 1)

	assert.ErrorIs(t, err, domainErrors.ErrFeatureUnavailable)
	assert.Equal(t, 0, gateway.addCalls)
}

func TestAddFailureLeavesMirrorUntouched(t *testing.T) {
	gateway := newFakeCartGateway()
	store := newTestStore(gateway)
	ctx := authedCtx()

	require.NoError(t, store.Add(ctx, notesItem(), 2))
	before := store.Total()

	gateway.failNext = true
	err := store.Add(ctx, workbookItem(), 1)

	assert.ErrorIs(t, err, domainErrors.ErrNetworkFailure)
	assert.Equal(t, before, store.Total())
}

func TestSetQuantityZeroRemoves(t *testing.T) {
	gateway := newFakeCartGateway()
	store := newTestStore(gateway)
	ctx := authedCtx()

	require.NoError(t, store.Add(ctx, notesItem(), 2))
	require.NoError(t, store.SetQuantity(ctx, "p-1", 0))

	assert.True(t, store.IsEmpty())
}

func TestSetQuantityNegativeRemoves(t *testing.T) {
	gateway := newFakeCartGateway()
	store := newTestStore(gateway)
	ctx := authedCtx()

	require.NoError(t, store.Add(ctx, notesItem(), 2))
	require.NoError(t, store.SetQuantity(ctx, "p-1", -3))

	assert.True(t, store.IsEmpty())
}

func TestSetQuantityUpdatesTotal(t *testing.T) {
	gateway := newFakeCartGateway()
	store := newTestStore(gateway)
	ctx := authedCtx()

	require.NoError(t, store.Add(ctx, notesItem(), 1))
	require.NoError(t, store.SetQuantity(ctx, "p-1", 4))

	assert.Equal(t, int64(2000), store.Total())
	assert.Equal(t, 4, store.ItemCount())
}

func TestRemoveAbsentProductIsNoOp(t *testing.T) {
	gateway := newFakeCartGateway()
	store := newTestStore(gateway)
	ctx := authedCtx()

	require.NoError(t, store.Add(ctx, notesItem(), 1))
	calls := gateway.getCalls

	require.NoError(t, store.Remove(ctx, "p-missing"))

	assert.Equal(t, calls, gateway.getCalls)
	assert.Equal(t, 1, store.ItemCount())
}

func TestRemoveTwiceIsIdempotent(t *testing.T) {
	gateway := newFakeCartGateway()
	store := newTestStore(gateway)
	ctx := authedCtx()

	require.NoError(t, store.Add(ctx, notesItem(), 1))
	require.NoError(t, store.Remove(ctx, "p-1"))
	require.NoError(t, store.Remove(ctx, "p-1"))

	assert.True(t, store.IsEmpty())
}

func TestLoadFailureFailsClosed(t *testing.T) {
	gateway := newFakeCartGateway()
	store := newTestStore(gateway)
	ctx := authedCtx()

	require.NoError(t, store.Add(ctx, notesItem(), 2))
	require.False(t, store.IsEmpty())

	gateway.failNext = true
	err := store.Load(ctx)

	assert.ErrorIs(t, err, domainErrors.ErrNetworkFailure)
	assert.True(t, store.IsEmpty())
}

func TestLoadPublishesCartUpdated(t *testing.T) {
	gateway := newFakeCartGateway()
	events := bus.New()
	store := NewStore("user-1", gateway, events, logger.NewLogger())

	var notified int
	events.Subscribe(bus.CartUpdated, func(bus.Event) { notified++ })

	require.NoError(t, store.Load(authedCtx()))

	assert.Equal(t, 1, notified)
}

// slowFirstLoadGateway parks its first GetCart response until released,
// so a later load can finish ahead of it.
type slowFirstLoadGateway struct {
	mu           sync.Mutex
	calls        int
	firstStarted chan struct{}
	firstRelease chan struct{}
}

func newSlowFirstLoadGateway() *slowFirstLoadGateway {
	return &slowFirstLoadGateway{
		firstStarted: make(chan struct{}),
		firstRelease: make(chan struct{}),
	}
}

func (g *slowFirstLoadGateway) GetCart(ctx context.Context, userID string) ([]cart.Item, error) {
	g.mu.Lock()
	g.calls++
	call := g.calls
	g.mu.Unlock()

	if call == 1 {
		close(g.firstStarted)
		<-g.firstRelease
		stale, _ := cart.NewItem("p-old", "Old Edition", 100, 1, "", cart.KindDigital)
		return []cart.Item{stale}, nil
	}
	fresh, _ := cart.NewItem("p-new", "New Edition", 900, 1, "", cart.KindDigital)
	return []cart.Item{fresh}, nil
}

func (g *slowFirstLoadGateway) AddItem(ctx context.Context, userID string, item cart.Item) error {
	return nil
}

func (g *slowFirstLoadGateway) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) error {
	return nil
}

func (g *slowFirstLoadGateway) RemoveItem(ctx context.Context, userID, productID string) error {
	return nil
}

func (g *slowFirstLoadGateway) Available(ctx context.Context) bool { return true }

func TestLateLoadResponseDoesNotClobberNewerMirror(t *testing.T) {
	gateway := newSlowFirstLoadGateway()
	store := NewStore("user-1", gateway, bus.New(), logger.NewLogger())
	ctx := authedCtx()

	done := make(chan error, 1)
	go func() { done <- store.Load(ctx) }()
	<-gateway.firstStarted

	// A newer load completes while the first response is still in flight.
	require.NoError(t, store.Load(ctx))

	close(gateway.firstRelease)
	require.NoError(t, <-done)

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "p-new", items[0].ProductID)
	assert.Equal(t, int64(900), store.Total())
}

func TestManagerReusesAndTearsDownStores(t *testing.T) {
	gateway := newFakeCartGateway()
	manager := NewManager(gateway, bus.New(), logger.NewLogger())

	first := manager.ForUser("user-1")
	assert.Same(t, first, manager.ForUser("user-1"))
	assert.NotSame(t, first, manager.ForUser("user-2"))

	manager.Teardown("user-1")
	assert.NotSame(t, first, manager.ForUser("user-1"))
}
