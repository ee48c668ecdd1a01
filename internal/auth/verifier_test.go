package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "carshop/internal/errors"
)

// stubProvider returns a canned identity or error.
type stubProvider struct {
	identity *Identity
	err      error
}

func (p *stubProvider) Verify(ctx context.Context, token string) (*Identity, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.identity, nil
}

// countingProvider records how often it is consulted.
type countingProvider struct {
	inner Provider
	calls int
}

func (p *countingProvider) Verify(ctx context.Context, token string) (*Identity, error) {
	p.calls++
	return p.inner.Verify(ctx, token)
}

// fakeTokenCache is an in-memory TokenCache.
type fakeTokenCache struct {
	entries map[string]*Identity
}

func newFakeTokenCache() *fakeTokenCache {
	return &fakeTokenCache{entries: map[string]*Identity{}}
}

func (c *fakeTokenCache) Get(ctx context.Context, token string) (*Identity, bool) {
	identity, ok := c.entries[token]
	return identity, ok
}

func (c *fakeTokenCache) Store(ctx context.Context, token string, identity *Identity) {
	c.entries[token] = identity
}

// slowProvider blocks until the context expires, like an unresponsive
// identity backend.
type slowProvider struct{}

func (p *slowProvider) Verify(ctx context.Context, token string) (*Identity, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestExtractBearer(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr error
	}{
		{name: "well formed", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "case-insensitive scheme", header: "bearer abc", want: "abc"},
		{name: "empty header", header: "", wantErr: apperrors.ErrMissingAuthorization},
		{name: "no scheme", header: "abc.def.ghi", wantErr: apperrors.ErrMissingAuthorization},
		{name: "wrong scheme", header: "Basic abc", wantErr: apperrors.ErrMissingAuthorization},
		{name: "scheme only", header: "Bearer", wantErr: apperrors.ErrMissingAuthorization},
		{name: "empty token", header: "Bearer ", wantErr: apperrors.ErrMissingAuthorization},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := ExtractBearer(tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, token)
			}
		})
	}
}

func TestVerifier_Verify(t *testing.T) {
	tests := []struct {
		name      string
		provider  Provider
		header    string
		wantEmail string
		wantErr   error
	}{
		{
			name:      "valid token",
			provider:  &stubProvider{identity: &Identity{Email: "buyer@example.com"}},
			header:    "Bearer good-token",
			wantEmail: "buyer@example.com",
		},
		{
			name:     "missing header never reaches the provider",
			provider: &stubProvider{err: errors.New("must not be called")},
			header:   "",
			wantErr:  apperrors.ErrMissingAuthorization,
		},
		{
			name:     "provider rejection normalizes to invalid token",
			provider: &stubProvider{err: errors.New("token expired at 2021-11-02")},
			header:   "Bearer stale-token",
			wantErr:  apperrors.ErrInvalidToken,
		},
		{
			name:     "provider deadline normalizes to timeout",
			provider: &stubProvider{err: context.DeadlineExceeded},
			header:   "Bearer any-token",
			wantErr:  apperrors.ErrTimeout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := NewVerifier(tt.provider, nil, time.Second)
			identity, err := verifier.Verify(context.Background(), tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, identity)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantEmail, identity.Email)
			}
		})
	}
}

func TestVerifier_Verify_CacheHitSkipsProvider(t *testing.T) {
	idCache := newFakeTokenCache()
	idCache.Store(context.Background(), "good-token", &Identity{
		Email:     "buyer@example.com",
		ExpiresAt: time.Now().Add(time.Hour),
	})
	provider := &countingProvider{inner: &stubProvider{err: errors.New("must not be called")}}
	verifier := NewVerifier(provider, idCache, time.Second)

	identity, err := verifier.Verify(context.Background(), "Bearer good-token")

	require.NoError(t, err)
	assert.Equal(t, "buyer@example.com", identity.Email)
	assert.Zero(t, provider.calls)
}

func TestVerifier_Verify_ExpiredCacheEntryConsultsProvider(t *testing.T) {
	// A stale entry must not keep an expired credential alive: the provider
	// is asked again and its rejection wins.
	idCache := newFakeTokenCache()
	idCache.Store(context.Background(), "stale-token", &Identity{
		Email:     "buyer@example.com",
		ExpiresAt: time.Now().Add(-time.Minute),
	})
	provider := &countingProvider{inner: &stubProvider{err: errors.New("token is expired")}}
	verifier := NewVerifier(provider, idCache, time.Second)

	identity, err := verifier.Verify(context.Background(), "Bearer stale-token")

	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
	assert.Nil(t, identity)
	assert.Equal(t, 1, provider.calls)
}

func TestVerifier_Verify_StoresVerifiedIdentity(t *testing.T) {
	idCache := newFakeTokenCache()
	provider := &countingProvider{inner: &stubProvider{identity: &Identity{
		Email:     "buyer@example.com",
		ExpiresAt: time.Now().Add(time.Hour),
	}}}
	verifier := NewVerifier(provider, idCache, time.Second)

	_, err := verifier.Verify(context.Background(), "Bearer good-token")
	require.NoError(t, err)
	_, err = verifier.Verify(context.Background(), "Bearer good-token")
	require.NoError(t, err)

	assert.Equal(t, 1, provider.calls)
	cached, ok := idCache.Get(context.Background(), "good-token")
	require.True(t, ok)
	assert.Equal(t, "buyer@example.com", cached.Email)
}

func TestVerifier_Verify_BoundsProviderCall(t *testing.T) {
	verifier := NewVerifier(&slowProvider{}, nil, 10*time.Millisecond)

	start := time.Now()
	identity, err := verifier.Verify(context.Background(), "Bearer any-token")

	assert.ErrorIs(t, err, apperrors.ErrTimeout)
	assert.Nil(t, identity)
	assert.Less(t, time.Since(start), time.Second)
}
