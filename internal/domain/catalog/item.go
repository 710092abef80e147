package catalog

import "github.com/edustore/checkout-service/internal/domain/cart"

// Item is a purchasable catalog entry: a product or a paid note. Only the
// fields the cart needs are modeled; everything else stays with the
// catalog service.
type Item struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Price    int64     `json:"price"`
	ImageURL string    `json:"image_url,omitempty"`
	Kind     cart.Kind `json:"kind"`
}

// Free items exist in the catalog (free notes) but are never carted.
func (i Item) Purchasable() bool {
	return i.Price > 0
}
