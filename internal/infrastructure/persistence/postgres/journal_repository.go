package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/edustore/checkout-service/internal/domain/checkout"
	"github.com/edustore/checkout-service/internal/infrastructure/monitoring"
)

// JournalRepository persists the attempt trail behind every checkout
// session. Rows are written on attempt open and updated exactly once with
// the terminal resolution; support reads this table to reconcile attempts
// that failed verification after a charge.
type JournalRepository struct {
	db *sql.DB
}

func NewJournalRepository(conn *Connection) *JournalRepository {
	return &JournalRepository{
		db: conn.GetDB(),
	}
}

func (r *JournalRepository) RecordAttempt(ctx context.Context, session *checkout.Session) error {
	snapshot, err := json.Marshal(session.Snapshot)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO checkout_attempts
			(session_id, user_id, server_order_id, gateway_order_id, amount_minor, currency, status, cart_snapshot, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = monitoring.InstrumentExec(ctx, r.db, "INSERT", "checkout_attempts", query,
		session.ID,
		session.UserID,
		session.ServerOrderID,
		session.GatewayOrderID,
		session.Amount,
		session.Currency,
		session.Status.String(),
		snapshot,
		session.CreatedAt,
	)
	return err
}

func (r *JournalRepository) RecordResolution(ctx context.Context, sessionID string, status checkout.Status, reason string) error {
	query := `
		UPDATE checkout_attempts
		SET status = $2, failure_reason = NULLIF($3, ''), resolved_at = $4
		WHERE session_id = $1 AND resolved_at IS NULL
	`

	_, err := monitoring.InstrumentExec(ctx, r.db, "UPDATE", "checkout_attempts", query,
		sessionID, status.String(), reason, time.Now().UTC(),
	)
	return err
}

// UnresolvedAttempts lists attempts still open past the given age, the
// candidates for support reconciliation.
func (r *JournalRepository) UnresolvedAttempts(ctx context.Context, olderThan time.Duration) ([]AttemptRow, error) {
	query := `
		SELECT session_id, user_id, server_order_id, gateway_order_id, amount_minor, currency, created_at
		FROM checkout_attempts
		WHERE resolved_at IS NULL AND created_at < $1
		ORDER BY created_at
	`

	rows, err := monitoring.InstrumentQuery(ctx, r.db, "SELECT", "checkout_attempts", query,
		time.Now().UTC().Add(-olderThan),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []AttemptRow
	for rows.Next() {
		var row AttemptRow
		if err := rows.Scan(
			&row.SessionID, &row.UserID, &row.ServerOrderID,
			&row.GatewayOrderID, &row.AmountMinor, &row.Currency, &row.CreatedAt,
		); err != nil {
			return nil, err
		}
		attempts = append(attempts, row)
	}

	return attempts, rows.Err()
}

type AttemptRow struct {
	SessionID      string
	UserID         string
	ServerOrderID  string
	GatewayOrderID string
	AmountMinor    int64
	Currency       string
	CreatedAt      time.Time
}
