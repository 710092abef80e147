package response

import (
	"errors"
	"net/http"

	domainErrors "github.com/edustore/checkout-service/internal/domain/errors"
)

type ErrorMapping struct {
	HTTPStatus int
	Status     Status
	Message    string
}

var errorMappings = map[error]ErrorMapping{
	domainErrors.ErrNotAuthenticated: {
		HTTPStatus: http.StatusUnauthorized,
		Status:     StatusUnauthorized,
		Message:    "Sign in to use the cart",
	},
	domainErrors.ErrFeatureUnavailable: {
		HTTPStatus: http.StatusServiceUnavailable,
		Status:     StatusServiceUnavailable,
		Message:    "This feature is temporarily unavailable",
	},
	domainErrors.ErrEmptyCart: {
		HTTPStatus: http.StatusBadRequest,
		Status:     StatusError,
		Message:    "Cart is empty",
	},
	domainErrors.ErrItemNotFound: {
		HTTPStatus: http.StatusNotFound,
		Status:     StatusNotFound,
		Message:    "Item not found",
	},
	domainErrors.ErrNetworkFailure: {
		HTTPStatus: http.StatusBadGateway,
		Status:     StatusError,
		Message:    "Could not reach a backing service, please try again",
	},
	domainErrors.ErrGatewayUnavailable: {
		HTTPStatus: http.StatusServiceUnavailable,
		Status:     StatusServiceUnavailable,
		Message:    "Payment gateway is unavailable",
	},
	domainErrors.ErrGatewayFailed: {
		HTTPStatus: http.StatusBadGateway,
		Status:     StatusError,
		Message:    "Payment failed",
	},
	domainErrors.ErrVerificationFailed: {
		HTTPStatus: http.StatusUnprocessableEntity,
		Status:     StatusError,
		Message:    "Payment verification failed, please contact support",
	},
	domainErrors.ErrSessionNotFound: {
		HTTPStatus: http.StatusNotFound,
		Status:     StatusNotFound,
		Message:    "Checkout session not found",
	},
	domainErrors.ErrSessionTerminal: {
		HTTPStatus: http.StatusConflict,
		Status:     StatusConflict,
		Message:    "Checkout session is already resolved",
	},
	domainErrors.ErrStaleCallback: {
		HTTPStatus: http.StatusConflict,
		Status:     StatusConflict,
		Message:    "Callback does not match the active payment attempt",
	},
	domainErrors.ErrCheckoutInProgress: {
		HTTPStatus: http.StatusConflict,
		Status:     StatusConflict,
		Message:    "Another checkout is already in progress",
	},
}

func MapDomainError(err error) (int, *ErrorResponse) {
	for domainErr, mapping := range errorMappings {
		if errors.Is(err, domainErr) {
			return mapping.HTTPStatus, Error(mapping.Status, domainErrors.Label(domainErr), mapping.Message)
		}
	}

	return http.StatusInternalServerError, Error(StatusInternalError, "internal", "Internal server error")
}

func WriteDomainError(w http.ResponseWriter, err error) {
	statusCode, errorResponse := MapDomainError(err)
	WriteJSON(w, statusCode, errorResponse)
}
