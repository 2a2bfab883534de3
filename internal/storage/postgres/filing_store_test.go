package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insider-trade-lab/internal/domain"
	"insider-trade-lab/internal/storage"
)

func testFiling(accession string) *domain.Filing {
	return &domain.Filing{
		AccessionNumber: accession,
		FiledAt:         "2025-08-12T16:30:02-04:00",
		ReportingName:   "Doe Jane",
		CIK:             "1234567",
		FormType:        "4",
		Link:            "https://www.sec.gov/Archives/edgar/data/1234567/" + accession + "/index.htm",
	}
}

func TestFilingStore_InsertIgnoreAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewFilingStore(pool)
	ctx := context.Background()

	inserted, err := store.InsertIgnore(ctx, testFiling("0001234567-25-000123"))
	require.NoError(t, err)
	assert.True(t, inserted)

	got, err := store.GetByAccession(ctx, "0001234567-25-000123")
	require.NoError(t, err)

	assert.Equal(t, "Doe Jane", got.ReportingName)
	assert.Equal(t, "1234567", got.CIK)
	assert.Equal(t, "4", got.FormType)
	assert.False(t, got.Processed)
}

func TestFilingStore_InsertIgnoreDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewFilingStore(pool)
	ctx := context.Background()

	inserted, err := store.InsertIgnore(ctx, testFiling("0001234567-25-000123"))
	require.NoError(t, err)
	assert.True(t, inserted)

	// The duplicate is ignored, not an error, and the original row survives.
	dup := testFiling("0001234567-25-000123")
	dup.ReportingName = "Someone Else"
	inserted, err = store.InsertIgnore(ctx, dup)
	require.NoError(t, err)
	assert.False(t, inserted)

	got, err := store.GetByAccession(ctx, "0001234567-25-000123")
	require.NoError(t, err)
	assert.Equal(t, "Doe Jane", got.ReportingName)
}

func TestFilingStore_MarkProcessed(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewFilingStore(pool)
	ctx := context.Background()

	_, err := store.InsertIgnore(ctx, testFiling("0001234567-25-000123"))
	require.NoError(t, err)

	require.NoError(t, store.MarkProcessed(ctx, "0001234567-25-000123"))

	got, err := store.GetByAccession(ctx, "0001234567-25-000123")
	require.NoError(t, err)
	assert.True(t, got.Processed)

	err = store.MarkProcessed(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestFilingStore_GetNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewFilingStore(pool)

	_, err := store.GetByAccession(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestFilingStore_InvalidInput(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewFilingStore(pool)

	_, err := store.InsertIgnore(context.Background(), nil)
	assert.ErrorIs(t, err, storage.ErrInvalidInput)

	_, err = store.InsertIgnore(context.Background(), &domain.Filing{})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}
