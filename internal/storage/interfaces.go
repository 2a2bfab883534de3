package storage

import (
	"context"

	"insider-trade-lab/internal/domain"
)

// FilingStore provides access to filings storage.
type FilingStore interface {
	// InsertIgnore adds a filing, silently keeping the existing row when the
	// accession number is already present. Returns whether a row was written.
	InsertIgnore(ctx context.Context, f *domain.Filing) (bool, error)

	// GetByAccession retrieves a filing. Returns ErrNotFound if not exists.
	GetByAccession(ctx context.Context, accessionNumber string) (*domain.Filing, error)

	// MarkProcessed sets the processed flag. Returns ErrNotFound if not exists.
	MarkProcessed(ctx context.Context, accessionNumber string) error
}

// TransactionStore provides access to transactions storage.
type TransactionStore interface {
	// InsertIgnoreBulk adds transactions, silently skipping rows whose
	// (accession, symbol, owner, date, code) key already exists.
	// Returns the number of rows actually written.
	InsertIgnoreBulk(ctx context.Context, txs []*domain.Transaction) (int, error)

	// GetByAccession retrieves all transactions of a filing, ordered by
	// transaction date ASC then id ASC.
	GetByAccession(ctx context.Context, accessionNumber string) ([]*domain.Transaction, error)
}

// AggregateStore provides access to transaction_aggregates storage.
type AggregateStore interface {
	// Upsert inserts the aggregate or fully replaces the existing row with
	// the same (accession, symbol, owner) key. Recompute, not merge.
	Upsert(ctx context.Context, a *domain.Aggregate) error

	// GetByKey retrieves an aggregate. Returns ErrNotFound if not exists.
	GetByKey(ctx context.Context, accessionNumber, issuerSymbol, reportingOwner string) (*domain.Aggregate, error)
}

// SharesCacheStore provides access to shares_outstanding_cache storage.
type SharesCacheStore interface {
	// Upsert inserts or replaces the cached share count for a CIK.
	Upsert(ctx context.Context, s *domain.SharesOutstanding) error

	// Get retrieves the cached entry. Returns ErrNotFound if not exists.
	Get(ctx context.Context, cik string) (*domain.SharesOutstanding, error)
}
