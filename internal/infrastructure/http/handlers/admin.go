package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/edustore/checkout-service/internal/infrastructure/http/response"
	"github.com/edustore/checkout-service/internal/infrastructure/persistence/postgres"
	"github.com/edustore/checkout-service/internal/pkg/logger"
)

// AdminHandler exposes the support-facing reconciliation view: checkout
// attempts that never reached a terminal resolution and may carry a
// charged gateway order.
type AdminHandler struct {
	journal *postgres.JournalRepository
	log     *logger.Logger
}

func NewAdminHandler(journal *postgres.JournalRepository, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		journal: journal,
		log:     log,
	}
}

type UnresolvedAttemptView struct {
	SessionID      string `json:"session_id"`
	UserID         string `json:"user_id"`
	ServerOrderID  string `json:"server_order_id"`
	GatewayOrderID string `json:"gateway_order_id"`
	AmountMinor    int64  `json:"amount_minor"`
	Currency       string `json:"currency"`
	CreatedAt      string `json:"created_at"`
}

func (h *AdminHandler) HandleUnresolvedAttempts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		olderThan := time.Hour
		if raw := r.URL.Query().Get("older_than_minutes"); raw != "" {
			minutes, err := strconv.Atoi(raw)
			if err != nil || minutes < 0 {
				response.WriteValidationError(w, "Validation failed", map[string]string{
					"older_than_minutes": "must be a non-negative integer",
				})
				return
			}
			olderThan = time.Duration(minutes) * time.Minute
		}

		attempts, err := h.journal.UnresolvedAttempts(r.Context(), olderThan)
		if err != nil {
			h.log.Error("Failed to list unresolved attempts", "error", err.Error())
			response.WriteDomainError(w, err)
			return
		}

		views := make([]UnresolvedAttemptView, 0, len(attempts))
		for _, row := range attempts {
			views = append(views, UnresolvedAttemptView{
				SessionID:      row.SessionID,
				UserID:         row.UserID,
				ServerOrderID:  row.ServerOrderID,
				GatewayOrderID: row.GatewayOrderID,
				AmountMinor:    row.AmountMinor,
				Currency:       row.Currency,
				CreatedAt:      row.CreatedAt.UTC().Format(time.RFC3339),
			})
		}

		response.WriteSuccess(w, views)
	}
}
