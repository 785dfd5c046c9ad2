package auth

import (
	"context"
	"sync"
	"time"

	"goaltracker/internal/cache"
)

const revokedTokenKeyPrefix = "revoked_token:"

// TokenStore remembers revoked access tokens until they would have expired.
// With redis the list is shared by every server instance; without it the
// list lives in this process only.
type TokenStore struct {
	cache *cache.Client
	now   func() time.Time

	mu    sync.Mutex
	local map[string]time.Time
}

// NewTokenStore creates a token store backed by c, which may be nil.
func NewTokenStore(c *cache.Client) *TokenStore {
	return &TokenStore{
		cache: c,
		now:   time.Now,
		local: make(map[string]time.Time),
	}
}

// Revoke marks tokenID as revoked until expiresAt.
func (s *TokenStore) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) {
	now := s.now()
	ttl := expiresAt.Sub(now)
	if ttl <= 0 {
		return
	}

	if s.cache != nil {
		s.cache.SetJSON(ctx, revokedTokenKeyPrefix+tokenID, true, ttl)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, exp := range s.local {
		if !exp.After(now) {
			delete(s.local, id)
		}
	}
	s.local[tokenID] = expiresAt
}

// IsRevoked reports whether tokenID was revoked. A redis failure reads as
// not revoked.
func (s *TokenStore) IsRevoked(ctx context.Context, tokenID string) bool {
	if s.cache != nil {
		var revoked bool
		return s.cache.GetJSON(ctx, revokedTokenKeyPrefix+tokenID, &revoked) && revoked
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.local[tokenID]
	return ok && exp.After(s.now())
}
