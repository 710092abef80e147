package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/edustore/checkout-service/internal/application/cartstore"
	"github.com/edustore/checkout-service/internal/application/catalogaccess"
	"github.com/edustore/checkout-service/internal/domain/cart"
	domainErrors "github.com/edustore/checkout-service/internal/domain/errors"
	"github.com/edustore/checkout-service/internal/infrastructure/http/response"
	"github.com/edustore/checkout-service/internal/infrastructure/monitoring"
	"github.com/edustore/checkout-service/internal/pkg/identity"
	"github.com/edustore/checkout-service/internal/pkg/logger"
)

type CartHandler struct {
	carts   *cartstore.Manager
	catalog *catalogaccess.Accessor
	log     *logger.Logger
}

func NewCartHandler(carts *cartstore.Manager, catalog *catalogaccess.Accessor, log *logger.Logger) *CartHandler {
	return &CartHandler{
		carts:   carts,
		catalog: catalog,
		log:     log,
	}
}

type CartLineView struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	ImageURL  string `json:"image_url,omitempty"`
	Kind      string `json:"kind"`
	Subtotal  int64  `json:"subtotal"`
}

type CartView struct {
	Items     []CartLineView `json:"items"`
	Total     int64          `json:"total"`
	ItemCount int            `json:"item_count"`
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) HandleGetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := identity.UserFromContext(r.Context())
		if !ok {
			response.WriteSuccess(w, cartView(nil, 0, 0))
			return
		}

		store := h.carts.ForUser(u.ID)
		if err := store.Load(r.Context()); err != nil {
			h.log.Warn("Cart load degraded", "user_id", u.ID, "error", err.Error())
		}

		response.WriteSuccess(w, cartView(store.Items(), store.Total(), store.ItemCount()))
	}
}

func (h *CartHandler) HandleAddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := identity.UserFromContext(r.Context())
		if !ok {
			response.WriteDomainError(w, domainErrors.ErrNotAuthenticated)
			return
		}

		var req addItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.WriteValidationError(w, "Invalid request body", nil)
			return
		}

		errors := make(map[string]string)
		if req.ProductID == "" {
			errors["product_id"] = "product_id is required"
		}
		if req.Quantity < 1 {
			errors["quantity"] = "quantity must be at least 1"
		}
		if len(errors) > 0 {
			response.WriteValidationError(w, "Validation failed", errors)
			return
		}

		item, err := h.catalog.Item(r.Context(), req.ProductID)
		if err != nil {
			monitoring.RecordCartOperation("add", "error")
			response.WriteDomainError(w, err)
			return
		}

		store := h.carts.ForUser(u.ID)
		if err := store.Add(r.Context(), item, req.Quantity); err != nil {
			h.log.Error("Add to cart failed",
				"user_id", u.ID,
				"product_id", req.ProductID,
				"error", err.Error(),
			)
			monitoring.RecordCartOperation("add", "error")
			response.WriteDomainError(w, err)
			return
		}

		monitoring.RecordCartOperation("add", "success")
		response.WriteSuccess(w, cartView(store.Items(), store.Total(), store.ItemCount()))
	}
}

func (h *CartHandler) HandleSetQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := identity.UserFromContext(r.Context())
		if !ok {
			response.WriteDomainError(w, domainErrors.ErrNotAuthenticated)
			return
		}

		productID := chi.URLParam(r, "productID")

		var req setQuantityRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.WriteValidationError(w, "Invalid request body", nil)
			return
		}

		store := h.carts.ForUser(u.ID)
		if err := store.SetQuantity(r.Context(), productID, req.Quantity); err != nil {
			monitoring.RecordCartOperation("set_quantity", "error")
			response.WriteDomainError(w, err)
			return
		}

		monitoring.RecordCartOperation("set_quantity", "success")
		response.WriteSuccess(w, cartView(store.Items(), store.Total(), store.ItemCount()))
	}
}

func (h *CartHandler) HandleRemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, ok := identity.UserFromContext(r.Context())
		if !ok {
			response.WriteDomainError(w, domainErrors.ErrNotAuthenticated)
			return
		}

		productID := chi.URLParam(r, "productID")

		store := h.carts.ForUser(u.ID)
		if err := store.Remove(r.Context(), productID); err != nil {
			monitoring.RecordCartOperation("remove", "error")
			response.WriteDomainError(w, err)
			return
		}

		monitoring.RecordCartOperation("remove", "success")
		response.WriteSuccess(w, cartView(store.Items(), store.Total(), store.ItemCount()))
	}
}

func cartView(items []cart.Item, total int64, count int) CartView {
	lines := make([]CartLineView, 0, len(items))
	for _, item := range items {
		lines = append(lines, CartLineView{
			ProductID: item.ProductID,
			Name:      item.Name,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			ImageURL:  item.ImageURL,
			Kind:      string(item.Kind),
			Subtotal:  item.Subtotal(),
		})
	}
	return CartView{
		Items:     lines,
		Total:     total,
		ItemCount: count,
	}
}
