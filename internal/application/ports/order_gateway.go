package ports

import (
	"context"

	"github.com/edustore/checkout-service/internal/domain/cart"
	"github.com/edustore/checkout-service/internal/domain/checkout"
)

// OrderGateway is the order service. CreateOrder opens exactly one new
// server order and one new gateway order per invocation; ids are never
// reused across attempts.
type OrderGateway interface {
	CreateOrder(ctx context.Context, userID, receiptID string, snapshot cart.Snapshot) (*checkout.Order, error)
	ListPurchases(ctx context.Context, userID string) ([]Purchase, error)
}

// VerificationGateway submits a widget callback's signed proof for
// server-side confirmation. It is the sole authority on whether a charge
// is considered paid, and is never retried by callers.
type VerificationGateway interface {
	VerifyPayment(ctx context.Context, serverOrderID string, proof checkout.PaymentProof) (*checkout.VerificationResult, error)
}

// GatewayProbe checks that the external payment widget script is
// reachable. Implementations probe at most once per process lifetime.
type GatewayProbe interface {
	Available(ctx context.Context) error
}

// Purchase is one confirmed order line from the order service, including
// the download URL when the item is a digital asset with a file.
type Purchase struct {
	OrderRef    string `json:"order_ref"`
	ProductID   string `json:"product_id"`
	Name        string `json:"name"`
	Kind        string `json:"kind"`
	DownloadURL string `json:"download_url,omitempty"`
	PurchasedAt string `json:"purchased_at"`
}
