package postgres

import (
	"context"
	"fmt"

	"insider-trade-lab/internal/domain"
	"insider-trade-lab/internal/storage"
)

// SharesCacheStore implements storage.SharesCacheStore using PostgreSQL.
type SharesCacheStore struct {
	pool *Pool
}

// NewSharesCacheStore creates a new SharesCacheStore.
func NewSharesCacheStore(pool *Pool) *SharesCacheStore {
	return &SharesCacheStore{pool: pool}
}

// Compile-time interface check.
var _ storage.SharesCacheStore = (*SharesCacheStore)(nil)

// Upsert inserts or replaces the cached share count for a CIK.
func (s *SharesCacheStore) Upsert(ctx context.Context, entry *domain.SharesOutstanding) error {
	if entry == nil || entry.CIK == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO shares_outstanding_cache (cik, total_shares, last_updated)
		VALUES ($1, $2, $3)
		ON CONFLICT (cik) DO UPDATE
		SET total_shares = EXCLUDED.total_shares, last_updated = EXCLUDED.last_updated
	`

	_, err := s.pool.Exec(ctx, query, entry.CIK, entry.TotalShares, entry.LastUpdated)
	if err != nil {
		return fmt.Errorf("upsert shares cache: %w", err)
	}
	return nil
}

// Get retrieves the cached entry. Returns ErrNotFound if not exists.
func (s *SharesCacheStore) Get(ctx context.Context, cik string) (*domain.SharesOutstanding, error) {
	query := `
		SELECT cik, total_shares, last_updated
		FROM shares_outstanding_cache
		WHERE cik = $1
	`

	var entry domain.SharesOutstanding
	err := s.pool.QueryRow(ctx, query, cik).Scan(&entry.CIK, &entry.TotalShares, &entry.LastUpdated)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get shares cache: %w", err)
	}

	return &entry, nil
}
