package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "carshop/internal/errors"
	"carshop/internal/model"
)

// stubResolver returns a canned role or error.
type stubResolver struct {
	role model.Role
	err  error
}

func (r *stubResolver) ResolveRole(ctx context.Context, email string) (model.Role, error) {
	if r.err != nil {
		return "", r.err
	}
	return r.role, nil
}

func runGate(t *testing.T, authHeader string) *httptest.ResponseRecorder {
	t.Helper()

	provider := NewJWTProvider("test-secret")
	verifier := NewVerifier(provider, nil, time.Second)

	e := echo.New()
	h := Gate(verifier)(func(c echo.Context) error {
		email, ok := EmailFromContext(c)
		require.True(t, ok)
		return c.String(http.StatusOK, email)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	return rec
}

func TestGate_AllowsVerifiedCaller(t *testing.T) {
	provider := NewJWTProvider("test-secret")
	token, err := provider.IssueToken("buyer@example.com")
	require.NoError(t, err)

	rec := runGate(t, "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "buyer@example.com", rec.Body.String())
}

func TestGate_DeniesWithFixedPayload(t *testing.T) {
	missing := runGate(t, "")
	malformed := runGate(t, "Token whatever")
	invalid := runGate(t, "Bearer not-a-real-token")

	assert.Equal(t, http.StatusUnauthorized, missing.Code)
	assert.Equal(t, http.StatusUnauthorized, malformed.Code)
	assert.Equal(t, http.StatusUnauthorized, invalid.Code)

	// A caller must not be able to tell a missing header from a bad token.
	assert.Equal(t, missing.Body.String(), invalid.Body.String())
	assert.Equal(t, missing.Body.String(), malformed.Body.String())
	assert.Contains(t, missing.Body.String(), apperrors.UnauthorizedMessage)
}

func TestGate_RejectedTokenIndistinguishableFromMissing(t *testing.T) {
	// Sign with a different secret so verification fails like an expired or
	// revoked token would.
	otherToken, err := NewJWTProvider("other-secret").IssueToken("buyer@example.com")
	require.NoError(t, err)

	missing := runGate(t, "")
	rejected := runGate(t, "Bearer "+otherToken)

	assert.Equal(t, missing.Body.String(), rejected.Body.String())
}

func runRequireRole(t *testing.T, resolver RoleResolver, email string, allowed ...model.Role) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	h := RequireRole(resolver, allowed...)(func(c echo.Context) error {
		return c.String(http.StatusOK, "handler ran")
	})

	req := httptest.NewRequest(http.MethodPut, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if email != "" {
		c.Set(emailContextKey, email)
	}
	require.NoError(t, h(c))
	return rec
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		resolver   RoleResolver
		email      string
		wantStatus int
		wantBody   string
	}{
		{
			name:       "admin passes",
			resolver:   &stubResolver{role: model.RoleAdmin},
			email:      "boss@example.com",
			wantStatus: http.StatusOK,
			wantBody:   "handler ran",
		},
		{
			name:       "plain user denied with distinct code",
			resolver:   &stubResolver{role: model.RoleUser},
			email:      "buyer@example.com",
			wantStatus: http.StatusUnauthorized,
			wantBody:   "UNAUTHORIZED",
		},
		{
			name:       "verified caller without account denied, not faulted",
			resolver:   &stubResolver{err: apperrors.ErrUserNotFound},
			email:      "ghost@example.com",
			wantStatus: http.StatusUnauthorized,
			wantBody:   apperrors.UnauthorizedMessage,
		},
		{
			name:       "no verified email denied",
			resolver:   &stubResolver{role: model.RoleAdmin},
			email:      "",
			wantStatus: http.StatusUnauthorized,
			wantBody:   apperrors.UnauthorizedMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := runRequireRole(t, tt.resolver, tt.email, model.RoleAdmin)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestRequireRole_HandlerNeverRunsOnDenial(t *testing.T) {
	ran := false
	e := echo.New()
	h := RequireRole(&stubResolver{role: model.RoleUser}, model.RoleAdmin)(func(c echo.Context) error {
		ran = true
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPut, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(emailContextKey, "buyer@example.com")
	require.NoError(t, h(c))

	assert.False(t, ran)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
