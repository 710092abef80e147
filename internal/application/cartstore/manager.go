package cartstore

import (
	"sync"

	"github.com/edustore/checkout-service/internal/application/ports"
	"github.com/edustore/checkout-service/internal/pkg/bus"
	"github.com/edustore/checkout-service/internal/pkg/logger"
)

// Manager owns one Store per authenticated user. Stores are created on
// first use and torn down on logout, so no module-level cart state
// outlives a session.
type Manager struct {
	mu     sync.Mutex
	stores map[string]*Store

	remote ports.CartGateway
	events *bus.Bus
	log    *logger.Logger
}

func NewManager(remote ports.CartGateway, events *bus.Bus, log *logger.Logger) *Manager {
	return &Manager{
		stores: make(map[string]*Store),
		remote: remote,
		events: events,
		log:    log,
	}
}

func (m *Manager) ForUser(userID string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	store, ok := m.stores[userID]
	if !ok {
		store = NewStore(userID, m.remote, m.events, m.log)
		m.stores[userID] = store
	}
	return store
}

func (m *Manager) Teardown(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stores, userID)
}
