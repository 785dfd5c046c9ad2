package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goaltracker/internal/cache"
)

func TestTokenStore_RedisBacked(t *testing.T) {
	mr := miniredis.RunT(t)
	c := cache.New(mr.Addr(), "", 0)
	defer c.Close()
	store := NewTokenStore(c)
	ctx := context.Background()

	assert.False(t, store.IsRevoked(ctx, "jti-1"))
	store.Revoke(ctx, "jti-1", time.Now().Add(time.Hour))
	assert.True(t, store.IsRevoked(ctx, "jti-1"))
	assert.False(t, store.IsRevoked(ctx, "jti-2"))

	// shared by another instance on the same redis
	other := NewTokenStore(cache.New(mr.Addr(), "", 0))
	assert.True(t, other.IsRevoked(ctx, "jti-1"))

	mr.FastForward(2 * time.Hour)
	assert.False(t, store.IsRevoked(ctx, "jti-1"))
}

func TestTokenStore_InProcess(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	store := NewTokenStore(nil)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	store.Revoke(ctx, "jti-1", now.Add(time.Hour))
	store.Revoke(ctx, "expired", now.Add(-time.Minute))
	assert.True(t, store.IsRevoked(ctx, "jti-1"))
	assert.False(t, store.IsRevoked(ctx, "expired"))

	now = now.Add(2 * time.Hour)
	assert.False(t, store.IsRevoked(ctx, "jti-1"))
	store.Revoke(ctx, "jti-2", now.Add(time.Hour))
	assert.Len(t, store.local, 1)
}

func TestTokenID(t *testing.T) {
	svc := NewJWTService("test-secret")
	raw, err := svc.GenerateAccessToken("alice")
	require.NoError(t, err)

	token, err := svc.ParseToken(raw)
	require.NoError(t, err)
	id, exp, ok := TokenID(token)
	require.True(t, ok)
	assert.NotEmpty(t, id)
	assert.WithinDuration(t, time.Now().Add(AccessTokenExpiry), exp, time.Minute)

	_, _, ok = TokenID(nil)
	assert.False(t, ok)
}
