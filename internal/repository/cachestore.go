package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
)

// CacheEntry is one row of the generic cache_store key/value table. Expiry is
// logical: readers compare ExpiresAt themselves, rows are never removed.
type CacheEntry struct {
	Key       string    `db:"key"`
	Value     []byte    `db:"value"`
	QuotedAt  time.Time `db:"quoted_at"`
	ExpiresAt time.Time `db:"expires_at"`
}

func (r *Repository) GetCacheEntry(ctx context.Context, key string) (*CacheEntry, error) {
	query, args, err := squirrel.
		Select("key", "value", "quoted_at", "expires_at").
		From("cache_store").
		Where(squirrel.Eq{"key": key}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build cache query: %w", err)
	}

	var entry CacheEntry
	err = r.db.GetContext(ctx, &entry, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get cache entry: %w", err)
	}

	return &entry, nil
}

// PutCacheEntry upserts with replace semantics. Concurrent writers for the
// same key race benignly: the last write wins and both carry near-identical
// data within the same TTL window.
func (r *Repository) PutCacheEntry(ctx context.Context, entry *CacheEntry) error {
	query, args, err := squirrel.
		Insert("cache_store").
		SetMap(map[string]interface{}{
			"key":        entry.Key,
			"value":      entry.Value,
			"quoted_at":  entry.QuotedAt,
			"expires_at": entry.ExpiresAt,
		}).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, quoted_at = EXCLUDED.quoted_at, expires_at = EXCLUDED.expires_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build cache upsert query: %w", err)
	}

	_, err = r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to upsert cache entry: %w", err)
	}

	return nil
}
