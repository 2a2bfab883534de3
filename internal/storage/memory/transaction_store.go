package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"insider-trade-lab/internal/domain"
	"insider-trade-lab/internal/storage"
)

// TransactionStore is an in-memory implementation of storage.TransactionStore.
type TransactionStore struct {
	mu     sync.RWMutex
	data   map[string]*domain.Transaction // keyed by composite key
	nextID int64
}

// NewTransactionStore creates a new in-memory transaction store.
func NewTransactionStore() *TransactionStore {
	return &TransactionStore{
		data:   make(map[string]*domain.Transaction),
		nextID: 1,
	}
}

// transactionKey generates the uniqueness key for a transaction.
func transactionKey(t *domain.Transaction) string {
	return fmt.Sprintf("%s|%s|%s|%s|%s",
		t.AccessionNumber, t.IssuerSymbol, t.ReportingOwner, t.TransactionDate, t.TransactionCode)
}

// InsertIgnoreBulk adds transactions, skipping rows whose uniqueness key
// already exists. Returns the number of rows written.
func (s *TransactionStore) InsertIgnoreBulk(_ context.Context, txs []*domain.Transaction) (int, error) {
	if len(txs) == 0 {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var written int
	for _, t := range txs {
		if t == nil || t.AccessionNumber == "" {
			return 0, storage.ErrInvalidInput
		}
		key := transactionKey(t)
		if _, exists := s.data[key]; exists {
			continue
		}

		copy := *t
		copy.ID = s.nextID
		s.nextID++
		s.data[key] = &copy
		written++
	}

	return written, nil
}

// GetByAccession retrieves all transactions of a filing, ordered by
// transaction date ASC then id ASC.
func (s *TransactionStore) GetByAccession(_ context.Context, accessionNumber string) ([]*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Transaction
	for _, t := range s.data {
		if t.AccessionNumber == accessionNumber {
			copy := *t
			result = append(result, &copy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].TransactionDate != result[j].TransactionDate {
			return result[i].TransactionDate < result[j].TransactionDate
		}
		return result[i].ID < result[j].ID
	})

	return result, nil
}

var _ storage.TransactionStore = (*TransactionStore)(nil)
