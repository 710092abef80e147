package cart

import (
	"errors"
)

type Kind string

const (
	KindPhysical Kind = "physical"
	KindDigital  Kind = "digital"
)

// Item is one cart line. UnitPrice is in the smallest currency unit.
type Item struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	ImageURL  string `json:"image_url,omitempty"`
	Kind      Kind   `json:"kind"`
}

func NewItem(productID, name string, unitPrice int64, quantity int, imageURL string, kind Kind) (Item, error) {
	if productID == "" {
		return Item{}, errors.New("product id cannot be empty")
	}

	if unitPrice < 0 {
		return Item{}, errors.New("unit price cannot be negative")
	}

	if quantity < 1 {
		return Item{}, errors.New("quantity must be at least one")
	}

	return Item{
		ProductID: productID,
		Name:      name,
		UnitPrice: unitPrice,
		Quantity:  quantity,
		ImageURL:  imageURL,
		Kind:      kind,
	}, nil
}

func (i Item) Subtotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}

// Cart mirrors the remote cart for one user. Lines are keyed uniquely
// by product id; a line never carries a quantity below one.
type Cart struct {
	UserID string
	Items  []Item
}

func New(userID string) *Cart {
	return &Cart{UserID: userID}
}

func (c *Cart) Total() int64 {
	var total int64
	for _, item := range c.Items {
		total += item.Subtotal()
	}
	return total
}

// ItemCount sums quantities across lines, matching cart-badge semantics.
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

func (c *Cart) Get(productID string) (Item, bool) {
	for _, item := range c.Items {
		if item.ProductID == productID {
			return item, true
		}
	}
	return Item{}, false
}

// Lines returns a copy so callers cannot mutate the mirror in place.
func (c *Cart) Lines() []Item {
	lines := make([]Item, len(c.Items))
	copy(lines, c.Items)
	return lines
}
