package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"storefront-agent/internal/pkg/session"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestKVStore needs a reachable database; set TEST_DATABASE_URL to run.
func newTestKVStore(t *testing.T) *KVStore {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping PostgreSQL integration test")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, pool.Ping(ctx))

	store := NewKVStore(pool)
	require.NoError(t, store.EnsureSchema(ctx))
	_, err = pool.Exec(ctx, `DELETE FROM client_kv WHERE key LIKE 'test:%'`)
	require.NoError(t, err)
	return store
}

func TestKVStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestKVStore(t)

	_, err := store.Get(ctx, "test:token")
	assert.ErrorIs(t, err, session.ErrNotFound)

	require.NoError(t, store.Set(ctx, "test:token", "abc", time.Time{}))
	require.NoError(t, store.Set(ctx, "test:token", "def", time.Now().Add(time.Hour)))

	value, err := store.Get(ctx, "test:token")
	require.NoError(t, err)
	assert.Equal(t, "def", value)

	require.NoError(t, store.Delete(ctx, "test:token"))
	_, err = store.Get(ctx, "test:token")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestKVStore_ExpiredRowsAreHidden(t *testing.T) {
	ctx := context.Background()
	store := newTestKVStore(t)

	require.NoError(t, store.Set(ctx, "test:old", "abc", time.Now().Add(-time.Minute)))
	_, err := store.Get(ctx, "test:old")
	assert.ErrorIs(t, err, session.ErrNotFound)

	purged, err := store.PurgeExpired(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, purged, int64(1))
}
