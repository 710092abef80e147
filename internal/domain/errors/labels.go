package errors

import "errors"

// Label returns the stable failure label used in notifications, journal
// rows and metrics.
func Label(err error) string {
	switch {
	case errors.Is(err, ErrNotAuthenticated):
		return "not-authenticated"
	case errors.Is(err, ErrFeatureUnavailable):
		return "feature-unavailable"
	case errors.Is(err, ErrEmptyCart):
		return "empty-cart"
	case errors.Is(err, ErrItemNotFound):
		return "item-not-found"
	case errors.Is(err, ErrNetworkFailure):
		return "network-error"
	case errors.Is(err, ErrGatewayUnavailable):
		return "gateway-unavailable"
	case errors.Is(err, ErrGatewayFailed):
		return "gateway-failed"
	case errors.Is(err, ErrGatewayDismissed):
		return "gateway-dismissed"
	case errors.Is(err, ErrVerificationFailed):
		return "verification-failed"
	case errors.Is(err, ErrSessionNotFound):
		return "session-not-found"
	case errors.Is(err, ErrSessionTerminal):
		return "session-terminal"
	case errors.Is(err, ErrStaleCallback):
		return "stale-callback"
	case errors.Is(err, ErrCheckoutInProgress):
		return "checkout-in-progress"
	default:
		return "internal"
	}
}
