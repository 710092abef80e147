package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublishDeliversToSubscribers(t *testing.T) {
	b := New()

	var got []Event
	b.Subscribe(OrdersUpdated, func(e Event) {
		got = append(got, e)
	})

	b.Publish(OrdersUpdated)

	assert.Equal(t, []Event{OrdersUpdated}, got)
}

func TestPublishIsAtMostOncePerSubscriber(t *testing.T) {
	b := New()

	count := 0
	b.Subscribe(CartUpdated, func(Event) { count++ })

	b.Publish(CartUpdated)
	b.Publish(CartUpdated)

	assert.Equal(t, 2, count)
}

func TestLateSubscriberMissesEarlierPublish(t *testing.T) {
	b := New()

	b.Publish(OrdersUpdated)

	called := false
	b.Subscribe(OrdersUpdated, func(Event) { called = true })

	assert.False(t, called, "publish before subscribe must not be replayed")
}

func TestPublishIgnoresOtherEventKinds(t *testing.T) {
	b := New()

	called := false
	b.Subscribe(OrdersUpdated, func(Event) { called = true })

	b.Publish(CartUpdated)

	assert.False(t, called)
}
