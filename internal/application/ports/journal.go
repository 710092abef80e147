package ports

import (
	"context"

	"github.com/edustore/checkout-service/internal/domain/checkout"
)

// Journal records every checkout attempt and its terminal resolution.
// It is the support-facing trail behind the "verification failed, contact
// support" boundary: an unresolved attempt with a charged gateway order
// can be reconciled by a human from this record.
type Journal interface {
	RecordAttempt(ctx context.Context, session *checkout.Session) error
	RecordResolution(ctx context.Context, sessionID string, status checkout.Status, reason string) error
}
