package clients

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/edustore/checkout-service/internal/domain/cart"
	"github.com/edustore/checkout-service/internal/pkg/logger"
)

// CartClient talks to the remote cart service, the source of truth for
// cart state.
type CartClient struct {
	base    *httpClient
	enabled bool
}

func NewCartClient(baseURL string, timeout time.Duration, enabled bool, log *logger.Logger) *CartClient {
	return &CartClient{
		base:    newHTTPClient("cart", baseURL, timeout, log),
		enabled: enabled,
	}
}

type cartResponse struct {
	Items []cart.Item `json:"items"`
}

func (c *CartClient) GetCart(ctx context.Context, userID string) ([]cart.Item, error) {
	var resp cartResponse
	err := c.base.doJSON(ctx, http.MethodGet, fmt.Sprintf("/carts/%s", url.PathEscape(userID)), nil, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Items, nil
}

func (c *CartClient) AddItem(ctx context.Context, userID string, item cart.Item) error {
	return c.base.doJSON(ctx, http.MethodPost, fmt.Sprintf("/carts/%s/items", url.PathEscape(userID)), item, nil)
}

func (c *CartClient) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) error {
	path := fmt.Sprintf("/carts/%s/items/%s", url.PathEscape(userID), url.PathEscape(productID))
	body := map[string]int{"quantity": quantity}
	return c.base.doJSON(ctx, http.MethodPatch, path, body, nil)
}

func (c *CartClient) RemoveItem(ctx context.Context, userID, productID string) error {
	path := fmt.Sprintf("/carts/%s/items/%s", url.PathEscape(userID), url.PathEscape(productID))
	return c.base.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

// Available is false when the feature is flagged off or the breaker is
// open after consecutive upstream failures.
func (c *CartClient) Available(ctx context.Context) bool {
	return c.enabled && !c.base.open()
}
