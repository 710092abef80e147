package clients

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/edustore/checkout-service/internal/application/ports"
	"github.com/edustore/checkout-service/internal/domain/cart"
	"github.com/edustore/checkout-service/internal/domain/checkout"
	"github.com/edustore/checkout-service/internal/pkg/logger"
)

// OrderClient covers both order creation and payment verification, the
// two endpoints the order service exposes to the checkout surface.
type OrderClient struct {
	base *httpClient
}

func NewOrderClient(baseURL string, timeout time.Duration, log *logger.Logger) *OrderClient {
	return &OrderClient{
		base: newHTTPClient("orders", baseURL, timeout, log),
	}
}

type createOrderRequest struct {
	UserID      string      `json:"user_id"`
	ReceiptID   string      `json:"receipt_id"`
	Items       []cart.Item `json:"items"`
	TotalAmount int64       `json:"total_amount"`
	Currency    string      `json:"currency"`
}

func (c *OrderClient) CreateOrder(ctx context.Context, userID, receiptID string, snapshot cart.Snapshot) (*checkout.Order, error) {
	req := createOrderRequest{
		UserID:      userID,
		ReceiptID:   receiptID,
		Items:       snapshot.Items,
		TotalAmount: snapshot.TotalAmount,
		Currency:    snapshot.Currency,
	}

	var order checkout.Order
	if err := c.base.doJSON(ctx, http.MethodPost, "/orders", req, &order); err != nil {
		return nil, err
	}

	return &order, nil
}

type verifyRequest struct {
	GatewayOrderID string `json:"gateway_order_id"`
	PaymentID      string `json:"payment_id"`
	Signature      string `json:"signature"`
}

// VerifyPayment submits the widget's signed proof. A non-2xx response is
// a rejected proof, not a transport failure: the caller gets a result
// with Verified=false and no error, and treats it as terminal.
func (c *OrderClient) VerifyPayment(ctx context.Context, serverOrderID string, proof checkout.PaymentProof) (*checkout.VerificationResult, error) {
	path := fmt.Sprintf("/orders/%s/verify", url.PathEscape(serverOrderID))
	req := verifyRequest{
		GatewayOrderID: proof.GatewayOrderID,
		PaymentID:      proof.PaymentID,
		Signature:      proof.Signature,
	}

	var result checkout.VerificationResult
	err := c.base.doJSON(ctx, http.MethodPost, path, req, &result)
	if err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			return &checkout.VerificationResult{
				Verified:      false,
				FailureReason: fmt.Sprintf("verification rejected with status %d", statusErr.StatusCode),
			}, nil
		}
		return nil, err
	}

	return &result, nil
}

type purchasesResponse struct {
	Purchases []ports.Purchase `json:"purchases"`
}

func (c *OrderClient) ListPurchases(ctx context.Context, userID string) ([]ports.Purchase, error) {
	var resp purchasesResponse
	path := fmt.Sprintf("/users/%s/purchases", url.PathEscape(userID))
	if err := c.base.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Purchases, nil
}
