package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	apperrors "carshop/internal/errors"
)

// ExtractBearer pulls the token out of an "Authorization: Bearer <token>"
// header value. An absent or malformed header is a missing-authorization
// failure, not an invalid token.
func ExtractBearer(header string) (string, error) {
	if header == "" {
		return "", apperrors.ErrMissingAuthorization
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", apperrors.ErrMissingAuthorization
	}
	return parts[1], nil
}

// TokenCache memoizes successful token verifications so repeated requests
// with the same bearer token can skip the provider round trip.
type TokenCache interface {
	Get(ctx context.Context, token string) (*Identity, bool)
	Store(ctx context.Context, token string, identity *Identity)
}

// Verifier turns an Authorization header into a verified identity. It owns
// header extraction, the bounded call to the identity provider, and the
// normalization of provider failures into the error taxonomy.
type Verifier struct {
	provider Provider
	idCache  TokenCache
	timeout  time.Duration
}

// NewVerifier builds a verifier. idCache may be nil to disable memoization.
func NewVerifier(provider Provider, idCache TokenCache, timeout time.Duration) *Verifier {
	return &Verifier{
		provider: provider,
		idCache:  idCache,
		timeout:  timeout,
	}
}

// Verify resolves the header to an identity or fails with
// ErrMissingAuthorization, ErrInvalidToken, or ErrTimeout. Token validity is
// not a transient condition, so there are no retries.
func (v *Verifier) Verify(ctx context.Context, header string) (*Identity, error) {
	token, err := ExtractBearer(header)
	if err != nil {
		return nil, err
	}

	if v.idCache != nil {
		if identity, ok := v.idCache.Get(ctx, token); ok {
			// A cached identity must never outlive the credential itself;
			// once expired the provider gets the final word again.
			if identity.ExpiresAt.IsZero() || time.Now().Before(identity.ExpiresAt) {
				return identity, nil
			}
		}
	}

	vctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	identity, err := v.provider.Verify(vctx, token)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, apperrors.ErrTimeout
		}
		// Expired, malformed, revoked: the caller must not be able to tell
		// which, so every provider rejection collapses to one error.
		return nil, apperrors.ErrInvalidToken
	}

	if v.idCache != nil {
		v.idCache.Store(ctx, token, identity)
	}
	return identity, nil
}
