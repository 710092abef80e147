package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edustore/checkout-service/internal/application/orchestrator"
	"github.com/edustore/checkout-service/internal/domain/checkout"
	domainErrors "github.com/edustore/checkout-service/internal/domain/errors"
	"github.com/edustore/checkout-service/internal/infrastructure/http/response"
	"github.com/edustore/checkout-service/internal/pkg/identity"
	"github.com/edustore/checkout-service/internal/pkg/logger"
)

type CheckoutHandler struct {
	orchestrator *orchestrator.Orchestrator
	log          *logger.Logger
}

func NewCheckoutHandler(orch *orchestrator.Orchestrator, log *logger.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		orchestrator: orch,
		log:          log,
	}
}

type successCallbackRequest struct {
	GatewayOrderID string `json:"gateway_order_id"`
	PaymentID      string `json:"payment_id"`
	Signature      string `json:"signature"`
}

type failureCallbackRequest struct {
	GatewayOrderID string `json:"gateway_order_id"`
	Reason         string `json:"reason"`
}

type SessionView struct {
	SessionID     string `json:"session_id"`
	Status        string `json:"status"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
	FailureReason string `json:"failure_reason,omitempty"`
}

func (h *CheckoutHandler) HandleBegin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := identity.UserFromContext(r.Context())
		if !ok {
			response.WriteDomainError(w, domainErrors.ErrNotAuthenticated)
			return
		}

		h.log.Info("Checkout requested", "user_id", u.ID)

		params, err := h.orchestrator.Begin(r.Context(), u.ID)
		if err != nil {
			h.log.Warn("Checkout rejected",
				"user_id", u.ID,
				"reason", domainErrors.Label(err),
			)
			response.WriteDomainError(w, err)
			return
		}

		response.WriteSuccess(w, params)
	}
}

func (h *CheckoutHandler) HandleSuccessCallback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")

		var req successCallbackRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.WriteValidationError(w, "Invalid request body", nil)
			return
		}
		if req.GatewayOrderID == "" {
			response.WriteValidationError(w, "Validation failed", map[string]string{
				"gateway_order_id": "gateway_order_id is required",
			})
			return
		}

		proof := checkout.PaymentProof{
			GatewayOrderID: req.GatewayOrderID,
			PaymentID:      req.PaymentID,
			Signature:      req.Signature,
		}

		session, err := h.orchestrator.HandleSuccess(r.Context(), sessionID, proof)
		if err != nil {
			response.WriteDomainError(w, err)
			return
		}

		response.WriteSuccess(w, sessionView(session))
	}
}

func (h *CheckoutHandler) HandleFailureCallback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")

		var req failureCallbackRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.WriteValidationError(w, "Invalid request body", nil)
			return
		}

		session, err := h.orchestrator.HandleFailure(r.Context(), sessionID, req.Reason)
		if err != nil {
			response.WriteDomainError(w, err)
			return
		}

		response.WriteSuccess(w, sessionView(session))
	}
}

func (h *CheckoutHandler) HandleDismissCallback() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")

		if err := h.orchestrator.HandleDismiss(r.Context(), sessionID); err != nil {
			response.WriteDomainError(w, err)
			return
		}

		response.WriteSuccess(w, map[string]string{"session_id": sessionID, "status": "dismissed"})
	}
}

func (h *CheckoutHandler) HandleReset() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")

		if err := h.orchestrator.Reset(r.Context(), sessionID); err != nil {
			response.WriteDomainError(w, err)
			return
		}

		response.WriteSuccess(w, map[string]string{"session_id": sessionID, "status": "reset"})
	}
}

func (h *CheckoutHandler) HandleGetSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionID")

		session, err := h.orchestrator.Session(sessionID)
		if err != nil {
			response.WriteDomainError(w, err)
			return
		}

		response.WriteSuccess(w, sessionView(session))
	}
}

func sessionView(s *checkout.Session) SessionView {
	return SessionView{
		SessionID:     s.ID,
		Status:        string(s.Status),
		Amount:        s.Amount,
		Currency:      s.Currency,
		FailureReason: s.FailureReason,
	}
}
