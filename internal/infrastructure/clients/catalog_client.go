package clients

import (
	"context"
	"net/http"
	"time"

	"github.com/edustore/checkout-service/internal/domain/catalog"
	"github.com/edustore/checkout-service/internal/pkg/logger"
)

type CatalogClient struct {
	base *httpClient
}

func NewCatalogClient(baseURL string, timeout time.Duration, log *logger.Logger) *CatalogClient {
	return &CatalogClient{
		base: newHTTPClient("catalog", baseURL, timeout, log),
	}
}

type catalogResponse struct {
	Items []catalog.Item `json:"items"`
}

func (c *CatalogClient) ListItems(ctx context.Context) ([]catalog.Item, error) {
	var resp catalogResponse
	if err := c.base.doJSON(ctx, http.MethodGet, "/catalog/items", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}
