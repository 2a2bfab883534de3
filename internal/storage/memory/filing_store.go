package memory

import (
	"context"
	"sync"

	"insider-trade-lab/internal/domain"
	"insider-trade-lab/internal/storage"
)

// FilingStore is an in-memory implementation of storage.FilingStore.
type FilingStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Filing // keyed by accession number
}

// NewFilingStore creates a new in-memory filing store.
func NewFilingStore() *FilingStore {
	return &FilingStore{
		data: make(map[string]*domain.Filing),
	}
}

// InsertIgnore adds a filing, keeping the existing row on accession conflict.
func (s *FilingStore) InsertIgnore(_ context.Context, f *domain.Filing) (bool, error) {
	if f == nil || f.AccessionNumber == "" {
		return false, storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[f.AccessionNumber]; exists {
		return false, nil
	}

	copy := *f
	s.data[f.AccessionNumber] = &copy
	return true, nil
}

// GetByAccession retrieves a filing. Returns ErrNotFound if not exists.
func (s *FilingStore) GetByAccession(_ context.Context, accessionNumber string) (*domain.Filing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, exists := s.data[accessionNumber]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *f
	return &copy, nil
}

// MarkProcessed sets the processed flag. Returns ErrNotFound if not exists.
func (s *FilingStore) MarkProcessed(_ context.Context, accessionNumber string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, exists := s.data[accessionNumber]
	if !exists {
		return storage.ErrNotFound
	}

	f.Processed = true
	return nil
}

var _ storage.FilingStore = (*FilingStore)(nil)
