package cartstore

import (
	"context"
	"sync"
	"time"

	"github.com/edustore/checkout-service/internal/application/ports"
	"github.com/edustore/checkout-service/internal/domain/cart"
	"github.com/edustore/checkout-service/internal/domain/catalog"
	"github.com/edustore/checkout-service/internal/domain/errors"
	"github.com/edustore/checkout-service/internal/pkg/bus"
	"github.com/edustore/checkout-service/internal/pkg/identity"
	"github.com/edustore/checkout-service/internal/pkg/logger"
)

// Store presents a consistent view of one user's cart and keeps it
// synchronized with the remote cart service. The remote store is the
// source of truth: every mutation goes remote-first and is followed by a
// full reload instead of a local patch, trading a little latency for
// freedom from local/remote drift.
type Store struct {
	mu     sync.Mutex
	userID string
	remote ports.CartGateway
	events *bus.Bus
	log    *logger.Logger

	mirror *cart.Cart

	// Loads are sequence-stamped so a late response from an earlier load
	// cannot clobber the result of a later one.
	loadSeq    uint64
	appliedSeq uint64
}

func NewStore(userID string, remote ports.CartGateway, events *bus.Bus, log *logger.Logger) *Store {
	return &Store{
		userID: userID,
		remote: remote,
		events: events,
		log:    log,
		mirror: cart.New(userID),
	}
}

// Load fetches the remote cart and replaces the local mirror wholesale.
// Without an identity token it yields an empty cart and no error, since
// many views render before authentication resolves. A transport failure
// also fails closed to an empty cart, never open to stale entries.
func (s *Store) Load(ctx context.Context) error {
	if _, ok := identity.TokenFromContext(ctx); !ok {
		s.mu.Lock()
		s.mirror = cart.New(s.userID)
		s.mu.Unlock()
		return nil
	}

	s.mu.Lock()
	s.loadSeq++
	seq := s.loadSeq
	s.mu.Unlock()

	items, err := s.remote.GetCart(ctx, s.userID)

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq <= s.appliedSeq {
		// A newer load already landed; discard this response.
		return nil
	}
	s.appliedSeq = seq

	if err != nil {
		s.log.Error("Failed to load remote cart", "error", err, "user_id", s.userID)
		s.mirror = cart.New(s.userID)
		return errors.ErrNetworkFailure
	}

	s.mirror = &cart.Cart{UserID: s.userID, Items: items}
	s.events.Publish(bus.CartUpdated)
	return nil
}

// Add requests the remote store add quantity units of a catalog item,
// then reloads. State is re-derived from the server rather than mutated
// optimistically, because price or availability may have changed between
// catalog fetch and add.
func (s *Store) Add(ctx context.Context, item catalog.Item, quantity int) error {
	if _, ok := identity.TokenFromContext(ctx); !ok {
		return errors.ErrNotAuthenticated
	}

	if !s.remote.Available(ctx) {
		return errors.ErrFeatureUnavailable
	}

	if quantity < 1 {
		quantity = 1
	}

	line, err := cart.NewItem(item.ID, item.Name, item.Price, quantity, item.ImageURL, item.Kind)
	if err != nil {
		return err
	}

	if err := s.remote.AddItem(ctx, s.userID, line); err != nil {
		s.log.Error("Failed to add item to remote cart", "error", err, "user_id", s.userID, "product_id", item.ID)
		return errors.ErrNetworkFailure
	}

	return s.Load(ctx)
}

// SetQuantity sends the new quantity to the remote store and reloads.
// A quantity at or below zero is equivalent to Remove.
func (s *Store) SetQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return s.Remove(ctx, productID)
	}

	if _, ok := identity.TokenFromContext(ctx); !ok {
		return errors.ErrNotAuthenticated
	}

	if err := s.remote.UpdateQuantity(ctx, s.userID, productID, quantity); err != nil {
		s.log.Error("Failed to update quantity", "error", err, "user_id", s.userID, "product_id", productID)
		return errors.ErrNetworkFailure
	}

	return s.Load(ctx)
}

// Remove deletes the line item remotely and reloads. Removing a product
// that is not in the mirror is a no-op.
func (s *Store) Remove(ctx context.Context, productID string) error {
	if _, ok := identity.TokenFromContext(ctx); !ok {
		return errors.ErrNotAuthenticated
	}

	s.mu.Lock()
	_, present := s.mirror.Get(productID)
	s.mu.Unlock()
	if !present {
		return nil
	}

	if err := s.remote.RemoveItem(ctx, s.userID, productID); err != nil {
		s.log.Error("Failed to remove item", "error", err, "user_id", s.userID, "product_id", productID)
		return errors.ErrNetworkFailure
	}

	return s.Load(ctx)
}

func (s *Store) Total() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mirror.Total()
}

func (s *Store) ItemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mirror.ItemCount()
}

func (s *Store) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mirror.IsEmpty()
}

func (s *Store) Items() []cart.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mirror.Lines()
}

func (s *Store) Snapshot(currency string, at time.Time) cart.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cart.TakeSnapshot(s.mirror, currency, at)
}
