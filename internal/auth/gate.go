package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "carshop/internal/errors"
	"carshop/internal/model"
)

const emailContextKey = "verifiedEmail"

// gateResponse is the fixed body sent for every denied request.
type gateResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Deny writes the fixed 401 body. Handlers that hit a deny condition after
// the gate (a verified caller with no user record) reuse it so every denial
// looks the same on the wire.
func Deny(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, gateResponse{
		Status:  "error",
		Message: apperrors.UnauthorizedMessage,
	})
}

// Gate guards protected routes. A request without a valid bearer token is
// short-circuited with one fixed 401 body, identical for missing and invalid
// tokens; the downstream handler never runs. On success the verified email
// is attached to the request context.
func Gate(verifier *Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			identity, err := verifier.Verify(c.Request().Context(), header)
			if err != nil {
				if errors.Is(err, apperrors.ErrTimeout) {
					httpErr := apperrors.MapErrorToHTTP(err)
					return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
				}
				return Deny(c)
			}
			c.Set(emailContextKey, identity.Email)
			return next(c)
		}
	}
}

// EmailFromContext returns the verified email attached by Gate.
func EmailFromContext(c echo.Context) (string, bool) {
	email, ok := c.Get(emailContextKey).(string)
	return email, ok && email != ""
}

// RoleResolver yields the role recorded for a verified email.
type RoleResolver interface {
	ResolveRole(ctx context.Context, email string) (model.Role, error)
}

// RequireRole composes after Gate: it loads the caller's role and denies
// unless it matches one of the allowed roles. A verified caller with no user
// record is denied like an unauthenticated one, not treated as a fault. A
// known caller with the wrong role gets a distinct 401 so clients can tell
// "log in" from "insufficient privilege".
func RequireRole(resolver RoleResolver, allowed ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			email, ok := EmailFromContext(c)
			if !ok {
				return Deny(c)
			}

			role, err := resolver.ResolveRole(c.Request().Context(), email)
			if err != nil {
				if errors.Is(err, apperrors.ErrUserNotFound) {
					return Deny(c)
				}
				httpErr := apperrors.MapErrorToHTTP(err)
				return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
			}

			for _, r := range allowed {
				if role == r {
					return next(c)
				}
			}
			httpErr := apperrors.MapErrorToHTTP(apperrors.ErrUnauthorized)
			return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
	}
}
