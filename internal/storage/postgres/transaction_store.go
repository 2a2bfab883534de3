package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"insider-trade-lab/internal/domain"
	"insider-trade-lab/internal/storage"
)

// TransactionStore implements storage.TransactionStore using PostgreSQL.
type TransactionStore struct {
	pool *Pool
}

// NewTransactionStore creates a new TransactionStore.
func NewTransactionStore(pool *Pool) *TransactionStore {
	return &TransactionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TransactionStore = (*TransactionStore)(nil)

// InsertIgnoreBulk adds transactions in one tx, skipping rows whose
// uniqueness key already exists. Returns the number of rows written.
func (s *TransactionStore) InsertIgnoreBulk(ctx context.Context, txs []*domain.Transaction) (int, error) {
	if len(txs) == 0 {
		return 0, nil
	}

	dbtx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer dbtx.Rollback(ctx)

	query := `
		INSERT INTO transactions (
			accession_number, cik, issuer_name, issuer_symbol, reporting_owner,
			transaction_date, transaction_code, transaction_shares, transaction_price,
			trade_value, delta_shares, delta_pct, company_pct, company_pct_change, owner_title
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (accession_number, issuer_symbol, reporting_owner, transaction_date, transaction_code)
		DO NOTHING
	`

	var written int
	for _, t := range txs {
		if t == nil || t.AccessionNumber == "" {
			return 0, storage.ErrInvalidInput
		}
		tag, err := dbtx.Exec(ctx, query,
			t.AccessionNumber,
			t.CIK,
			t.IssuerName,
			t.IssuerSymbol,
			t.ReportingOwner,
			t.TransactionDate,
			string(t.TransactionCode),
			t.Shares,
			t.Price,
			t.TradeValue,
			t.DeltaShares,
			t.DeltaPct,
			t.CompanyPct,
			t.CompanyPctChange,
			t.OwnerTitle,
		)
		if err != nil {
			return 0, fmt.Errorf("insert transaction: %w", err)
		}
		written += int(tag.RowsAffected())
	}

	if err := dbtx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}

	return written, nil
}

// GetByAccession retrieves all transactions of a filing, ordered by
// transaction date ASC then id ASC.
func (s *TransactionStore) GetByAccession(ctx context.Context, accessionNumber string) ([]*domain.Transaction, error) {
	query := `
		SELECT id, accession_number, cik, issuer_name, issuer_symbol, reporting_owner,
		       transaction_date, transaction_code, transaction_shares, transaction_price,
		       trade_value, delta_shares, delta_pct, company_pct, company_pct_change, owner_title
		FROM transactions
		WHERE accession_number = $1
		ORDER BY transaction_date ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, accessionNumber)
	if err != nil {
		return nil, fmt.Errorf("get transactions by accession: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// scanTransactions scans multiple rows into a slice of Transaction.
func scanTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	var txs []*domain.Transaction

	for rows.Next() {
		var t domain.Transaction
		var code string

		err := rows.Scan(
			&t.ID,
			&t.AccessionNumber,
			&t.CIK,
			&t.IssuerName,
			&t.IssuerSymbol,
			&t.ReportingOwner,
			&t.TransactionDate,
			&code,
			&t.Shares,
			&t.Price,
			&t.TradeValue,
			&t.DeltaShares,
			&t.DeltaPct,
			&t.CompanyPct,
			&t.CompanyPctChange,
			&t.OwnerTitle,
		)
		if err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		t.TransactionCode = domain.TransactionCode(code)

		txs = append(txs, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}

	return txs, nil
}
