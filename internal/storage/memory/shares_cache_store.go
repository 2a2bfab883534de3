package memory

import (
	"context"
	"sync"

	"insider-trade-lab/internal/domain"
	"insider-trade-lab/internal/storage"
)

// SharesCacheStore is an in-memory implementation of storage.SharesCacheStore.
type SharesCacheStore struct {
	mu   sync.RWMutex
	data map[string]*domain.SharesOutstanding // keyed by zero-padded CIK
}

// NewSharesCacheStore creates a new in-memory shares cache store.
func NewSharesCacheStore() *SharesCacheStore {
	return &SharesCacheStore{
		data: make(map[string]*domain.SharesOutstanding),
	}
}

// Upsert inserts or replaces the cached share count for a CIK.
func (s *SharesCacheStore) Upsert(_ context.Context, entry *domain.SharesOutstanding) error {
	if entry == nil || entry.CIK == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	copy := *entry
	s.data[entry.CIK] = &copy
	return nil
}

// Get retrieves the cached entry. Returns ErrNotFound if not exists.
func (s *SharesCacheStore) Get(_ context.Context, cik string) (*domain.SharesOutstanding, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, exists := s.data[cik]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *entry
	return &copy, nil
}

var _ storage.SharesCacheStore = (*SharesCacheStore)(nil)
