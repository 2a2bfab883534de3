package memory

import (
	"context"
	"fmt"
	"sync"

	"insider-trade-lab/internal/domain"
	"insider-trade-lab/internal/storage"
)

// AggregateStore is an in-memory implementation of storage.AggregateStore.
type AggregateStore struct {
	mu     sync.RWMutex
	data   map[string]*domain.Aggregate // keyed by composite key
	nextID int64
}

// NewAggregateStore creates a new in-memory aggregate store.
func NewAggregateStore() *AggregateStore {
	return &AggregateStore{
		data:   make(map[string]*domain.Aggregate),
		nextID: 1,
	}
}

// aggregateKey generates the uniqueness key for an aggregate.
func aggregateKey(accessionNumber, issuerSymbol, reportingOwner string) string {
	return fmt.Sprintf("%s|%s|%s", accessionNumber, issuerSymbol, reportingOwner)
}

// Upsert inserts the aggregate or fully replaces the existing row.
func (s *AggregateStore) Upsert(_ context.Context, a *domain.Aggregate) error {
	if a == nil || a.AccessionNumber == "" {
		return storage.ErrInvalidInput
	}

	key := aggregateKey(a.AccessionNumber, a.IssuerSymbol, a.ReportingOwner)

	s.mu.Lock()
	defer s.mu.Unlock()

	copy := *a
	if existing, exists := s.data[key]; exists {
		copy.ID = existing.ID
	} else {
		copy.ID = s.nextID
		s.nextID++
	}
	s.data[key] = &copy
	return nil
}

// GetByKey retrieves an aggregate. Returns ErrNotFound if not exists.
func (s *AggregateStore) GetByKey(_ context.Context, accessionNumber, issuerSymbol, reportingOwner string) (*domain.Aggregate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, exists := s.data[aggregateKey(accessionNumber, issuerSymbol, reportingOwner)]
	if !exists {
		return nil, storage.ErrNotFound
	}

	copy := *a
	return &copy, nil
}

var _ storage.AggregateStore = (*AggregateStore)(nil)
