package ports

import (
	"context"

	"github.com/edustore/checkout-service/internal/domain/catalog"
)

// CatalogGateway is the read-only catalog service listing purchasable
// products and notes.
type CatalogGateway interface {
	ListItems(ctx context.Context) ([]catalog.Item, error)
}
