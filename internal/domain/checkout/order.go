package checkout

// Order is what the order service returns when a new purchase attempt is
// opened: the local server order plus the paired gateway order required to
// open the payment widget.
type Order struct {
	ServerOrderID  string `json:"server_order_id"`
	GatewayOrderID string `json:"gateway_order_id"`
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	WidgetKey      string `json:"widget_key"`
}

// Prefill carries best-effort contact details for the payment widget.
// Any field may be empty.
type Prefill struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// WidgetParams is everything the client needs to open the external
// payment widget for one session.
type WidgetParams struct {
	SessionID      string  `json:"session_id"`
	WidgetKey      string  `json:"widget_key"`
	GatewayOrderID string  `json:"gateway_order_id"`
	Amount         int64   `json:"amount"`
	Currency       string  `json:"currency"`
	Prefill        Prefill `json:"prefill"`
}

// PaymentProof holds the signed fields the widget hands back on success.
// The verification service is the only authority on whether they are valid.
type PaymentProof struct {
	GatewayOrderID string `json:"gateway_order_id"`
	PaymentID      string `json:"payment_id"`
	Signature      string `json:"signature"`
}

type VerificationResult struct {
	Verified      bool   `json:"verified"`
	OrderRef      string `json:"order_ref,omitempty"`
	FailureReason string `json:"failure_reason,omitempty"`
}
