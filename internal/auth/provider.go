package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// TokenExpiry is the duration for which locally issued tokens are valid.
const TokenExpiry = time.Hour

// Identity is the verified result of a token check. ExpiresAt is the instant
// the backing credential stops being valid; zero means the provider imposed
// no expiry.
type Identity struct {
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Provider verifies bearer tokens against an identity backend. Verification
// may involve a network round trip, so it takes a context.
type Provider interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// Claims represents JWT claims carried by locally issued tokens.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTProvider verifies HS256 tokens signed with a shared secret. It stands in
// for a hosted identity service in deployments that issue their own tokens;
// any other Provider implementation can replace it without touching the gate.
type JWTProvider struct {
	secret []byte
}

// NewJWTProvider creates a provider with the given signing secret.
func NewJWTProvider(secret string) *JWTProvider {
	return &JWTProvider{
		secret: []byte(secret),
	}
}

// IssueToken signs a token asserting the given email. Used by the seed
// script and tests; production identities normally come from the provider.
func (p *JWTProvider) IssueToken(email string) (string, error) {
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

// Verify validates a token and returns the identity it asserts.
func (p *JWTProvider) Verify(ctx context.Context, tokenString string) (*Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Email == "" {
		return nil, errors.New("token carries no email claim")
	}

	identity := &Identity{Email: claims.Email}
	if claims.ExpiresAt != nil {
		identity.ExpiresAt = claims.ExpiresAt.Time
	}
	return identity, nil
}
