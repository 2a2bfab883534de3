package postgres

import (
	"context"
	"fmt"

	"insider-trade-lab/internal/domain"
	"insider-trade-lab/internal/storage"
)

// FilingStore implements storage.FilingStore using PostgreSQL.
type FilingStore struct {
	pool *Pool
}

// NewFilingStore creates a new FilingStore.
func NewFilingStore(pool *Pool) *FilingStore {
	return &FilingStore{pool: pool}
}

// Compile-time interface check.
var _ storage.FilingStore = (*FilingStore)(nil)

// InsertIgnore adds a filing, keeping the existing row on accession conflict.
func (s *FilingStore) InsertIgnore(ctx context.Context, f *domain.Filing) (bool, error) {
	if f == nil || f.AccessionNumber == "" {
		return false, storage.ErrInvalidInput
	}

	query := `
		INSERT INTO filings (accession_number, filing_date, reporting_name, cik, form_type, link)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (accession_number) DO NOTHING
	`

	tag, err := s.pool.Exec(ctx, query,
		f.AccessionNumber,
		f.FiledAt,
		f.ReportingName,
		f.CIK,
		f.FormType,
		f.Link,
	)
	if err != nil {
		return false, fmt.Errorf("insert filing: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// GetByAccession retrieves a filing. Returns ErrNotFound if not exists.
func (s *FilingStore) GetByAccession(ctx context.Context, accessionNumber string) (*domain.Filing, error) {
	query := `
		SELECT accession_number, filing_date, reporting_name, cik, form_type, link, processed
		FROM filings
		WHERE accession_number = $1
	`

	var f domain.Filing
	var processed int
	err := s.pool.QueryRow(ctx, query, accessionNumber).Scan(
		&f.AccessionNumber,
		&f.FiledAt,
		&f.ReportingName,
		&f.CIK,
		&f.FormType,
		&f.Link,
		&processed,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get filing: %w", err)
	}
	f.Processed = processed != 0

	return &f, nil
}

// MarkProcessed sets the processed flag. Returns ErrNotFound if not exists.
func (s *FilingStore) MarkProcessed(ctx context.Context, accessionNumber string) error {
	query := `UPDATE filings SET processed = 1 WHERE accession_number = $1`

	tag, err := s.pool.Exec(ctx, query, accessionNumber)
	if err != nil {
		return fmt.Errorf("mark filing processed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
