package bus

import "sync"

// Event enumerates the cross-view signals the checkout surface emits.
// Named kinds instead of free-text event names keep a typo from silently
// breaking coordination between views.
type Event int

const (
	// OrdersUpdated tells order views a purchase completed and their
	// lists should be refetched.
	OrdersUpdated Event = iota
	// CartUpdated tells badge-style consumers the cart mirror changed.
	CartUpdated
)

func (e Event) String() string {
	switch e {
	case OrdersUpdated:
		return "orders-updated"
	case CartUpdated:
		return "cart-updated"
	default:
		return "unknown"
	}
}

type Handler func(Event)

// Bus is a synchronous in-process publish/subscribe channel. Delivery is
// at-most-once per publish with no queuing: a subscriber registered after
// a publish never receives that publish.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Event][]Handler
}

func New() *Bus {
	return &Bus{
		handlers: make(map[Event][]Handler),
	}
}

func (b *Bus) Subscribe(event Event, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[event] = append(b.handlers[event], handler)
}

func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	subscribed := make([]Handler, len(b.handlers[event]))
	copy(subscribed, b.handlers[event])
	b.mu.RUnlock()

	for _, handler := range subscribed {
		handler(event)
	}
}
