package errors

import (
	"errors"
)

var (
	ErrNotAuthenticated   = errors.New("no valid identity credential")
	ErrFeatureUnavailable = errors.New("feature is currently unavailable")

	ErrEmptyCart      = errors.New("cart is empty")
	ErrItemNotFound   = errors.New("catalog item not found")
	ErrNetworkFailure = errors.New("failed to reach remote service")

	ErrGatewayUnavailable = errors.New("payment gateway is unavailable")
	ErrGatewayFailed      = errors.New("payment gateway reported failure")
	ErrGatewayDismissed   = errors.New("payment widget dismissed")

	ErrVerificationFailed = errors.New("payment verification failed")

	ErrSessionNotFound    = errors.New("checkout session not found")
	ErrSessionTerminal    = errors.New("checkout session already resolved")
	ErrStaleCallback      = errors.New("callback does not match active gateway order")
	ErrCheckoutInProgress = errors.New("another checkout is already in progress")
)
