package handlers

import (
	"net/http"

	"github.com/edustore/checkout-service/internal/application/fulfillment"
	domainErrors "github.com/edustore/checkout-service/internal/domain/errors"
	"github.com/edustore/checkout-service/internal/infrastructure/http/response"
	"github.com/edustore/checkout-service/internal/pkg/identity"
	"github.com/edustore/checkout-service/internal/pkg/logger"
)

type DownloadsHandler struct {
	fulfillment *fulfillment.Accessor
	log         *logger.Logger
}

func NewDownloadsHandler(accessor *fulfillment.Accessor, log *logger.Logger) *DownloadsHandler {
	return &DownloadsHandler{
		fulfillment: accessor,
		log:         log,
	}
}

func (h *DownloadsHandler) HandleListPurchases() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := identity.UserFromContext(r.Context())
		if !ok {
			response.WriteDomainError(w, domainErrors.ErrNotAuthenticated)
			return
		}

		purchases, err := h.fulfillment.Purchases(r.Context(), u.ID)
		if err != nil {
			h.log.Error("Purchase listing failed", "user_id", u.ID, "error", err.Error())
			response.WriteDomainError(w, err)
			return
		}

		response.WriteSuccess(w, purchases)
	}
}

func (h *DownloadsHandler) HandleListDownloads() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := identity.UserFromContext(r.Context())
		if !ok {
			response.WriteDomainError(w, domainErrors.ErrNotAuthenticated)
			return
		}

		downloads, err := h.fulfillment.Downloads(r.Context(), u.ID)
		if err != nil {
			h.log.Error("Download listing failed", "user_id", u.ID, "error", err.Error())
			response.WriteDomainError(w, err)
			return
		}

		response.WriteSuccess(w, downloads)
	}
}
