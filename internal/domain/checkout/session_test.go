package checkout

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edustore/checkout-service/internal/domain/cart"
)

func testOrder() Order {
	return Order{
		ServerOrderID:  "ord-1",
		GatewayOrderID: "gw-1",
		Amount:         1000,
		Currency:       "USD",
	}
}

func testSnapshot(t *testing.T) cart.Snapshot {
	t.Helper()
	c := cart.New("user-1")
	item, err := cart.NewItem("p-1", "Algebra Notes", 500, 2, "", cart.KindDigital)
	require.NoError(t, err)
	c.Items = []cart.Item{item}
	return cart.TakeSnapshot(c, "USD", time.Now())
}

func TestNewSessionStartsProcessing(t *testing.T) {
	session, err := NewSession("cs-1", "user-1", testOrder(), testSnapshot(t), time.Now())
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, session.Status)
	assert.False(t, session.Status.IsTerminal())
}

func TestNewSessionValidation(t *testing.T) {
	snapshot := testSnapshot(t)

	_, err := NewSession("", "user-1", testOrder(), snapshot, time.Now())
	assert.Error(t, err)

	_, err = NewSession("cs-1", "", testOrder(), snapshot, time.Now())
	assert.Error(t, err)

	_, err = NewSession("cs-1", "user-1", Order{}, snapshot, time.Now())
	assert.Error(t, err)

	_, err = NewSession("cs-1", "user-1", testOrder(), cart.Snapshot{}, time.Now())
	assert.Error(t, err)
}

func TestTransitions(t *testing.T) {
	assert.True(t, CanTransitionTo(StatusReview, StatusProcessing))
	assert.True(t, CanTransitionTo(StatusProcessing, StatusSuccess))
	assert.True(t, CanTransitionTo(StatusProcessing, StatusError))

	assert.False(t, CanTransitionTo(StatusReview, StatusSuccess))
	assert.False(t, CanTransitionTo(StatusError, StatusProcessing))
	assert.False(t, CanTransitionTo(StatusError, StatusReview))
	assert.False(t, CanTransitionTo(StatusSuccess, StatusError))
}

func TestTerminalSessionRejectsFurtherTransitions(t *testing.T) {
	session, err := NewSession("cs-1", "user-1", testOrder(), testSnapshot(t), time.Now())
	require.NoError(t, err)

	require.NoError(t, session.MarkError("gateway-failed"))
	assert.Equal(t, "gateway-failed", session.FailureReason)
	assert.True(t, session.Status.IsTerminal())

	assert.Error(t, session.MarkSuccess())
	assert.Error(t, session.MarkError("again"))
}

func TestMatches(t *testing.T) {
	session, err := NewSession("cs-1", "user-1", testOrder(), testSnapshot(t), time.Now())
	require.NoError(t, err)

	assert.True(t, session.Matches("gw-1"))
	assert.False(t, session.Matches("gw-0"))
}
