package user

import "github.com/edustore/checkout-service/internal/domain/checkout"

// User is the slice of the identity provider's profile the checkout
// surface cares about. Contact fields are best-effort and may be empty.
type User struct {
	ID    string
	Name  string
	Email string
	Phone string
}

// Prefill maps the profile onto widget prefill fields, tolerating gaps.
func (u User) Prefill() checkout.Prefill {
	return checkout.Prefill{
		Name:  u.Name,
		Email: u.Email,
		Phone: u.Phone,
	}
}
