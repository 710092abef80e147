package handlers

import (
	"net/http"

	"github.com/edustore/checkout-service/internal/application/catalogaccess"
	"github.com/edustore/checkout-service/internal/infrastructure/http/response"
	"github.com/edustore/checkout-service/internal/pkg/logger"
)

type CatalogHandler struct {
	catalog *catalogaccess.Accessor
	log     *logger.Logger
}

func NewCatalogHandler(catalog *catalogaccess.Accessor, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		log:     log,
	}
}

func (h *CatalogHandler) HandleListItems() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.catalog.ListItems(r.Context())
		if err != nil {
			h.log.Error("Catalog listing failed", "error", err.Error())
			response.WriteDomainError(w, err)
			return
		}

		response.WriteSuccess(w, items)
	}
}
