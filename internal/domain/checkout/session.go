package checkout

import (
	"errors"
	"time"

	"github.com/edustore/checkout-service/internal/domain/cart"
)

type Status string

const (
	StatusReview     Status = "REVIEW"
	StatusProcessing Status = "PROCESSING"
	StatusSuccess    Status = "SUCCESS"
	StatusError      Status = "ERROR"
)

func (s Status) IsTerminal() bool {
	return s == StatusSuccess || s == StatusError
}

func (s Status) String() string {
	return string(s)
}

func CanTransitionTo(from, to Status) bool {
	switch from {
	case StatusReview:
		return to == StatusProcessing
	case StatusProcessing:
		return to == StatusSuccess || to == StatusError
	default:
		return false
	}
}

// Session is the bounded lifetime of one purchase attempt. It is owned by
// the orchestrator and discarded once terminal; a retry always gets a new
// session with a new server order, so the gateway order of an abandoned
// attempt can never be paid against twice.
type Session struct {
	ID             string
	UserID         string
	ServerOrderID  string
	GatewayOrderID string
	Amount         int64
	Currency       string
	Status         Status
	FailureReason  string
	Snapshot       cart.Snapshot
	CreatedAt      time.Time
}

func NewSession(id, userID string, order Order, snapshot cart.Snapshot, now time.Time) (*Session, error) {
	if id == "" {
		return nil, errors.New("session id cannot be empty")
	}

	if userID == "" {
		return nil, errors.New("user id cannot be empty")
	}

	if order.ServerOrderID == "" || order.GatewayOrderID == "" {
		return nil, errors.New("order ids cannot be empty")
	}

	if len(snapshot.Items) == 0 {
		return nil, errors.New("snapshot cannot be empty")
	}

	return &Session{
		ID:             id,
		UserID:         userID,
		ServerOrderID:  order.ServerOrderID,
		GatewayOrderID: order.GatewayOrderID,
		Amount:         order.Amount,
		Currency:       order.Currency,
		Status:         StatusProcessing,
		Snapshot:       snapshot,
		CreatedAt:      now,
	}, nil
}

// Matches reports whether a gateway callback belongs to this session.
// Callbacks carrying any other gateway order id are stale and ignored.
func (s *Session) Matches(gatewayOrderID string) bool {
	return s.GatewayOrderID == gatewayOrderID
}

func (s *Session) MarkSuccess() error {
	if !CanTransitionTo(s.Status, StatusSuccess) {
		return errors.New("illegal transition to success from " + s.Status.String())
	}
	s.Status = StatusSuccess
	return nil
}

func (s *Session) MarkError(reason string) error {
	if !CanTransitionTo(s.Status, StatusError) {
		return errors.New("illegal transition to error from " + s.Status.String())
	}
	s.Status = StatusError
	s.FailureReason = reason
	return nil
}
