package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"carshop/internal/cache"
)

const identityKeyPrefix = "identity:token:"

// IdentityCache memoizes successful token verifications in Redis so repeated
// requests with the same bearer token skip the provider round trip. Keys are
// the SHA-256 of the raw token; raw tokens never reach Redis. A nil cache is
// valid and always misses.
type IdentityCache struct {
	cache *cache.Client
	ttl   time.Duration
}

// NewIdentityCache creates an identity cache with the given entry TTL.
// Entries are clamped to the credential's remaining lifetime, so the TTL
// only bounds how long a still-valid verification is reused.
func NewIdentityCache(cache *cache.Client, ttl time.Duration) *IdentityCache {
	return &IdentityCache{cache: cache, ttl: ttl}
}

// Get returns the identity previously stored for the token, if any.
func (c *IdentityCache) Get(ctx context.Context, token string) (*Identity, bool) {
	if c == nil {
		return nil, false
	}
	data, err := c.cache.Get(ctx, tokenKey(token))
	if err != nil || data == nil {
		return nil, false
	}
	var identity Identity
	if err := json.Unmarshal(data, &identity); err != nil || identity.Email == "" {
		return nil, false
	}
	if !identity.ExpiresAt.IsZero() && !time.Now().Before(identity.ExpiresAt) {
		return nil, false
	}
	return &identity, true
}

// Store records a verified identity for the token. Failures are swallowed;
// the cache is an optimization, never a source of truth.
func (c *IdentityCache) Store(ctx context.Context, token string, identity *Identity) {
	if c == nil {
		return
	}
	ttl := c.ttl
	if !identity.ExpiresAt.IsZero() {
		// An entry must vanish no later than its credential expires.
		remaining := time.Until(identity.ExpiresAt)
		if remaining <= 0 {
			return
		}
		if remaining < ttl {
			ttl = remaining
		}
	}
	payload, err := json.Marshal(identity)
	if err != nil {
		return
	}
	_ = c.cache.Set(ctx, tokenKey(token), payload, ttl)
}

func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return identityKeyPrefix + hex.EncodeToString(sum[:])
}
