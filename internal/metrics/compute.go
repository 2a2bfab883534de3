// Package metrics derives per-transaction ownership metrics and rolls them
// up into per-filing aggregates.
package metrics

import (
	"context"
	"math"

	"insider-trade-lab/internal/domain"
)

// SharesLookup resolves a company's total outstanding shares.
// A nil result means no source could provide a positive figure.
type SharesLookup interface {
	Lookup(ctx context.Context, cik, issuerSymbol string) *float64
}

// FilingContext carries the issuer and owner identity shared by every
// transaction of one ownership document.
type FilingContext struct {
	AccessionNumber string
	CIK             string
	IssuerName      string
	IssuerSymbol    string
	ReportingOwner  string
	OwnerTitle      *string
}

// Calculator computes derived ownership metrics for raw transactions.
// It is pure apart from the shares-outstanding lookup.
type Calculator struct {
	shares SharesLookup
}

// NewCalculator creates a new Calculator.
func NewCalculator(shares SharesLookup) *Calculator {
	return &Calculator{shares: shares}
}

// Compute builds the persistable transaction for one raw transaction.
//
// The pre-transaction holding is reconstructed by inverting the trade:
// dispositions (S, C) had the shares before, acquisitions (P, M) did not.
// delta_pct is undefined, not zero, when the reconstructed before is zero.
// The company-percent trio is undefined whenever total outstanding shares
// is unavailable or non-positive.
func (c *Calculator) Compute(ctx context.Context, fc FilingContext, raw domain.RawTransaction) *domain.Transaction {
	value := round2(raw.Shares * raw.Price)
	if raw.Code.Disposes() {
		value = -value
	}

	before := raw.SharesAfter - raw.Shares
	if raw.Code.Disposes() {
		before = raw.SharesAfter + raw.Shares
	}
	deltaShares := raw.SharesAfter - before

	var deltaPct *float64
	if before != 0 {
		deltaPct = ptr(round4(deltaShares / before * 100))
	}

	var companyPct, companyPctChange *float64
	if total := c.shares.Lookup(ctx, fc.CIK, fc.IssuerSymbol); total != nil && *total > 0 {
		after := round4(raw.SharesAfter / *total * 100)
		beforePct := round4(before / *total * 100)
		companyPct = ptr(after)
		companyPctChange = ptr(round4(after - beforePct))
	}

	return &domain.Transaction{
		AccessionNumber:  fc.AccessionNumber,
		CIK:              fc.CIK,
		IssuerName:       fc.IssuerName,
		IssuerSymbol:     fc.IssuerSymbol,
		ReportingOwner:   fc.ReportingOwner,
		OwnerTitle:       fc.OwnerTitle,
		TransactionDate:  raw.Date,
		TransactionCode:  raw.Code,
		Shares:           round2(raw.Shares),
		Price:            round2(raw.Price),
		TradeValue:       value,
		DeltaShares:      round2(deltaShares),
		DeltaPct:         deltaPct,
		CompanyPct:       companyPct,
		CompanyPctChange: companyPctChange,
	}
}

// ComputeAll derives metrics for every raw transaction of one document.
func (c *Calculator) ComputeAll(ctx context.Context, fc FilingContext, raws []domain.RawTransaction) []*domain.Transaction {
	if len(raws) == 0 {
		return nil
	}
	txs := make([]*domain.Transaction, 0, len(raws))
	for _, raw := range raws {
		txs = append(txs, c.Compute(ctx, fc, raw))
	}
	return txs
}

// round2 rounds to 2 decimal places (monetary values, share counts).
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// round4 rounds to 4 decimal places (percent values).
func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

func ptr(v float64) *float64 {
	return &v
}
