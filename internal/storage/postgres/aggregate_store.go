package postgres

import (
	"context"
	"fmt"

	"insider-trade-lab/internal/domain"
	"insider-trade-lab/internal/storage"
)

// AggregateStore implements storage.AggregateStore using PostgreSQL.
type AggregateStore struct {
	pool *Pool
}

// NewAggregateStore creates a new AggregateStore.
func NewAggregateStore(pool *Pool) *AggregateStore {
	return &AggregateStore{pool: pool}
}

// Compile-time interface check.
var _ storage.AggregateStore = (*AggregateStore)(nil)

// Upsert inserts the aggregate or fully replaces the row with the same
// (accession, symbol, owner) key.
func (s *AggregateStore) Upsert(ctx context.Context, a *domain.Aggregate) error {
	if a == nil || a.AccessionNumber == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO transaction_aggregates (
			accession_number, cik, issuer_name, issuer_symbol, reporting_owner,
			total_shares, total_trade_value, avg_price, delta_shares, delta_pct,
			company_pct, company_pct_change, owner_title
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (accession_number, issuer_symbol, reporting_owner) DO UPDATE
		SET cik = EXCLUDED.cik,
		    issuer_name = EXCLUDED.issuer_name,
		    total_shares = EXCLUDED.total_shares,
		    total_trade_value = EXCLUDED.total_trade_value,
		    avg_price = EXCLUDED.avg_price,
		    delta_shares = EXCLUDED.delta_shares,
		    delta_pct = EXCLUDED.delta_pct,
		    company_pct = EXCLUDED.company_pct,
		    company_pct_change = EXCLUDED.company_pct_change,
		    owner_title = EXCLUDED.owner_title
	`

	_, err := s.pool.Exec(ctx, query,
		a.AccessionNumber,
		a.CIK,
		a.IssuerName,
		a.IssuerSymbol,
		a.ReportingOwner,
		a.TotalShares,
		a.TotalTradeValue,
		a.AvgPrice,
		a.DeltaShares,
		a.DeltaPct,
		a.CompanyPct,
		a.CompanyPctChange,
		a.OwnerTitle,
	)
	if err != nil {
		return fmt.Errorf("upsert aggregate: %w", err)
	}
	return nil
}

// GetByKey retrieves an aggregate. Returns ErrNotFound if not exists.
func (s *AggregateStore) GetByKey(ctx context.Context, accessionNumber, issuerSymbol, reportingOwner string) (*domain.Aggregate, error) {
	query := `
		SELECT id, accession_number, cik, issuer_name, issuer_symbol, reporting_owner,
		       total_shares, total_trade_value, avg_price, delta_shares, delta_pct,
		       company_pct, company_pct_change, owner_title
		FROM transaction_aggregates
		WHERE accession_number = $1 AND issuer_symbol = $2 AND reporting_owner = $3
	`

	var a domain.Aggregate
	err := s.pool.QueryRow(ctx, query, accessionNumber, issuerSymbol, reportingOwner).Scan(
		&a.ID,
		&a.AccessionNumber,
		&a.CIK,
		&a.IssuerName,
		&a.IssuerSymbol,
		&a.ReportingOwner,
		&a.TotalShares,
		&a.TotalTradeValue,
		&a.AvgPrice,
		&a.DeltaShares,
		&a.DeltaPct,
		&a.CompanyPct,
		&a.CompanyPctChange,
		&a.OwnerTitle,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get aggregate: %w", err)
	}

	return &a, nil
}
