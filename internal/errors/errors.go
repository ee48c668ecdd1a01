package errors

import (
	"context"
	"errors"
	"net/http"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrMissingAuthorization is returned when a request carries no usable
	// Authorization header.
	ErrMissingAuthorization = errors.New("missing authorization header")
	// ErrInvalidToken is returned when the identity provider rejects a token
	// for any reason (expired, malformed, bad signature, revoked).
	ErrInvalidToken = errors.New("invalid token")
	// ErrTimeout is returned when the identity provider or the store did not
	// answer within the configured deadline.
	ErrTimeout = errors.New("upstream timeout")
	// ErrUserNotFound is returned when a verified identity has no user record.
	ErrUserNotFound = errors.New("user not found")
	// ErrUnauthorized is returned when a known caller lacks the required role.
	ErrUnauthorized = errors.New("admin privileges required")
	// ErrProductNotFound is returned when a product lookup matches nothing.
	ErrProductNotFound = errors.New("product not found")
	// ErrOrderNotFound is returned when an order lookup matches nothing.
	ErrOrderNotFound = errors.New("order not found")
)

// UnauthorizedMessage is the fixed body returned for every authentication
// failure. Missing and invalid tokens must be indistinguishable to the
// caller, so nothing from the underlying failure may leak into it.
const UnauthorizedMessage = "You are not authorized to access this resource"

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Authentication failures
// collapse into one generic 401; not-found keeps its message; anything else
// is an opaque 500.
func MapErrorToHTTP(err error) *HTTPError {
	if errors.Is(err, context.DeadlineExceeded) || mongo.IsTimeout(err) {
		return NewHTTPError(http.StatusGatewayTimeout, ErrTimeout.Error(), "TIMEOUT")
	}
	switch {
	case errors.Is(err, ErrMissingAuthorization), errors.Is(err, ErrInvalidToken):
		return NewHTTPError(http.StatusUnauthorized, UnauthorizedMessage, "UNAUTHENTICATED")
	case errors.Is(err, ErrTimeout):
		return NewHTTPError(http.StatusGatewayTimeout, ErrTimeout.Error(), "TIMEOUT")
	case errors.Is(err, ErrUnauthorized):
		return NewHTTPError(http.StatusUnauthorized, ErrUnauthorized.Error(), "UNAUTHORIZED")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, ErrUserNotFound.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrProductNotFound):
		return NewHTTPError(http.StatusNotFound, ErrProductNotFound.Error(), "PRODUCT_NOT_FOUND")
	case errors.Is(err, ErrOrderNotFound):
		return NewHTTPError(http.StatusNotFound, ErrOrderNotFound.Error(), "ORDER_NOT_FOUND")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
