// internal/repository/postgres/kv_store.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront-agent/internal/pkg/session"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createKVTable = `
	CREATE TABLE IF NOT EXISTS client_kv (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		expires_at TIMESTAMPTZ,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

// KVStore is a session.Store backed by a single PostgreSQL table, for agents
// that share a database with other local tooling.
type KVStore struct {
	db *pgxpool.Pool
}

func NewKVStore(db *pgxpool.Pool) *KVStore {
	return &KVStore{db: db}
}

// EnsureSchema creates the backing table if it is missing.
func (r *KVStore) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, createKVTable); err != nil {
		return fmt.Errorf("failed to create client_kv table: %w", err)
	}
	return nil
}

func (r *KVStore) Get(ctx context.Context, key string) (string, error) {
	query := `
		SELECT value
		FROM client_kv
		WHERE key = $1 AND (expires_at IS NULL OR expires_at > NOW())
	`

	var value string
	err := r.db.QueryRow(ctx, query, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", session.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, nil
}

func (r *KVStore) Set(ctx context.Context, key, value string, expiresAt time.Time) error {
	query := `
		INSERT INTO client_kv (key, value, expires_at, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value,
		    expires_at = EXCLUDED.expires_at,
		    updated_at = NOW()
	`

	var expires *time.Time
	if !expiresAt.IsZero() {
		expires = &expiresAt
	}

	if _, err := r.db.Exec(ctx, query, key, value, expires); err != nil {
		return fmt.Errorf("failed to store %s: %w", key, err)
	}
	return nil
}

func (r *KVStore) Delete(ctx context.Context, key string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM client_kv WHERE key = $1`, key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

// PurgeExpired drops rows whose expiry has passed and reports how many went.
func (r *KVStore) PurgeExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM client_kv WHERE expires_at IS NOT NULL AND expires_at <= NOW()`)
	if err != nil {
		return 0, fmt.Errorf("failed to purge expired keys: %w", err)
	}
	return tag.RowsAffected(), nil
}

var _ session.Store = (*KVStore)(nil)
