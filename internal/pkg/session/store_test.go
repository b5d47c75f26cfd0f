package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, err := store.Get(ctx, TokenKey)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, TokenKey, "abc", time.Time{}))
	value, err := store.Get(ctx, TokenKey)
	require.NoError(t, err)
	assert.Equal(t, "abc", value)

	require.NoError(t, store.Delete(ctx, TokenKey))
	_, err = store.Get(ctx, TokenKey)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemoryStore()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Set(ctx, TokenKey, "abc", now.Add(time.Minute)))
	value, err := store.Get(ctx, TokenKey)
	require.NoError(t, err)
	assert.Equal(t, "abc", value)

	now = now.Add(2 * time.Minute)
	_, err = store.Get(ctx, TokenKey)
	assert.ErrorIs(t, err, ErrNotFound)
}

func newTestRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, "test"), mr
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t)

	_, err := store.Get(ctx, TokenKey)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Set(ctx, TokenKey, "abc", time.Time{}))
	assert.True(t, mr.Exists("test:"+TokenKey))
	assert.Zero(t, mr.TTL("test:"+TokenKey))

	value, err := store.Get(ctx, TokenKey)
	require.NoError(t, err)
	assert.Equal(t, "abc", value)

	require.NoError(t, store.Delete(ctx, TokenKey))
	assert.False(t, mr.Exists("test:"+TokenKey))
}

func TestRedisStore_TTLFollowsExpiry(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t)

	require.NoError(t, store.Set(ctx, TokenKey, "abc", time.Now().Add(time.Hour)))
	ttl := mr.TTL("test:" + TokenKey)
	assert.Greater(t, ttl, 59*time.Minute)
	assert.LessOrEqual(t, ttl, time.Hour)

	mr.FastForward(2 * time.Hour)
	_, err := store.Get(ctx, TokenKey)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStore_PastExpiryDeletes(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t)

	require.NoError(t, store.Set(ctx, TokenKey, "abc", time.Time{}))
	require.NoError(t, store.Set(ctx, TokenKey, "def", time.Now().Add(-time.Minute)))
	assert.False(t, mr.Exists("test:"+TokenKey))
}
