package cart

import "time"

// Snapshot captures the cart lines that belong to one checkout attempt.
// After a confirmed payment exactly these lines are removed from the cart,
// so items added concurrently during payment survive.
type Snapshot struct {
	UserID      string    `json:"user_id"`
	Items       []Item    `json:"items"`
	TotalAmount int64     `json:"total_amount"`
	Currency    string    `json:"currency"`
	CapturedAt  time.Time `json:"captured_at"`
}

func TakeSnapshot(c *Cart, currency string, at time.Time) Snapshot {
	return Snapshot{
		UserID:      c.UserID,
		Items:       c.Lines(),
		TotalAmount: c.Total(),
		Currency:    currency,
		CapturedAt:  at,
	}
}

func (s Snapshot) ProductIDs() []string {
	ids := make([]string, 0, len(s.Items))
	for _, item := range s.Items {
		ids = append(ids, item.ProductID)
	}
	return ids
}
