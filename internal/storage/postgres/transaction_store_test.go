package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insider-trade-lab/internal/domain"
)

func testTransaction(accession, date string, code domain.TransactionCode) *domain.Transaction {
	return &domain.Transaction{
		AccessionNumber:  accession,
		CIK:              "1234567",
		IssuerName:       "Acme Corp",
		IssuerSymbol:     "ACME",
		ReportingOwner:   "Doe Jane",
		OwnerTitle:       ptr("Director"),
		TransactionDate:  date,
		TransactionCode:  code,
		Shares:           100,
		Price:            10,
		TradeValue:       1000,
		DeltaShares:      100,
		DeltaPct:         ptr(25.0),
		CompanyPct:       ptr(0.05),
		CompanyPctChange: ptr(0.01),
	}
}

func TestTransactionStore_InsertIgnoreBulkAndGet(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTransactionStore(pool)
	ctx := context.Background()

	txs := []*domain.Transaction{
		testTransaction("acc-1", "2025-08-12", domain.CodePurchase),
		testTransaction("acc-1", "2025-08-13", domain.CodeSale),
	}

	written, err := store.InsertIgnoreBulk(ctx, txs)
	require.NoError(t, err)
	assert.Equal(t, 2, written)

	got, err := store.GetByAccession(ctx, "acc-1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, domain.CodePurchase, got[0].TransactionCode)
	assert.Equal(t, domain.CodeSale, got[1].TransactionCode)
	assert.Equal(t, 100.0, got[0].Shares)
	require.NotNil(t, got[0].DeltaPct)
	assert.Equal(t, 25.0, *got[0].DeltaPct)
	require.NotNil(t, got[0].OwnerTitle)
	assert.Equal(t, "Director", *got[0].OwnerTitle)
}

func TestTransactionStore_InsertIgnoreBulkSkipsDuplicates(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTransactionStore(pool)
	ctx := context.Background()

	first := []*domain.Transaction{testTransaction("acc-1", "2025-08-12", domain.CodePurchase)}
	written, err := store.InsertIgnoreBulk(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, 1, written)

	// Same uniqueness key plus one new row; only the new row is written.
	second := []*domain.Transaction{
		testTransaction("acc-1", "2025-08-12", domain.CodePurchase),
		testTransaction("acc-1", "2025-08-12", domain.CodeSale),
	}
	written, err = store.InsertIgnoreBulk(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, 1, written)

	got, err := store.GetByAccession(ctx, "acc-1")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestTransactionStore_NullableMetrics(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTransactionStore(pool)
	ctx := context.Background()

	tx := testTransaction("acc-1", "2025-08-12", domain.CodePurchase)
	tx.DeltaPct = nil
	tx.CompanyPct = nil
	tx.CompanyPctChange = nil
	tx.OwnerTitle = nil

	_, err := store.InsertIgnoreBulk(ctx, []*domain.Transaction{tx})
	require.NoError(t, err)

	got, err := store.GetByAccession(ctx, "acc-1")
	require.NoError(t, err)
	require.Len(t, got, 1)

	assert.Nil(t, got[0].DeltaPct)
	assert.Nil(t, got[0].CompanyPct)
	assert.Nil(t, got[0].CompanyPctChange)
	assert.Nil(t, got[0].OwnerTitle)
}

func TestTransactionStore_GetByAccessionEmpty(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewTransactionStore(pool)

	got, err := store.GetByAccession(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, got)
}
