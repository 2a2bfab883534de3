package metrics

import (
	"sort"

	"insider-trade-lab/internal/domain"
)

// Rollup groups transactions by (accession, issuer symbol, owner) and
// produces exactly one aggregate per group, ordered deterministically by
// group key. Percent sums cover only members with a defined value and stay
// undefined when no member has one; the aggregate is recomputed from scratch
// on every run.
func Rollup(txs []*domain.Transaction) []*domain.Aggregate {
	if len(txs) == 0 {
		return nil
	}

	type groupKey struct {
		accession string
		symbol    string
		owner     string
	}

	groups := make(map[groupKey][]*domain.Transaction)
	var order []groupKey
	for _, t := range txs {
		key := groupKey{t.AccessionNumber, t.IssuerSymbol, t.ReportingOwner}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], t)
	}

	sort.Slice(order, func(i, j int) bool {
		if order[i].accession != order[j].accession {
			return order[i].accession < order[j].accession
		}
		if order[i].symbol != order[j].symbol {
			return order[i].symbol < order[j].symbol
		}
		return order[i].owner < order[j].owner
	})

	aggs := make([]*domain.Aggregate, 0, len(order))
	for _, key := range order {
		aggs = append(aggs, aggregateGroup(groups[key]))
	}
	return aggs
}

// aggregateGroup folds one group's transactions into a single record.
// The group is never empty.
func aggregateGroup(txs []*domain.Transaction) *domain.Aggregate {
	first := txs[0]
	agg := &domain.Aggregate{
		AccessionNumber: first.AccessionNumber,
		CIK:             first.CIK,
		IssuerName:      first.IssuerName,
		IssuerSymbol:    first.IssuerSymbol,
		ReportingOwner:  first.ReportingOwner,
		OwnerTitle:      first.OwnerTitle,
	}

	var totalShares, totalValue, weighted, deltaShares float64
	var deltaPct, companyPct, companyPctChange *float64

	for _, t := range txs {
		totalShares += t.Shares
		totalValue += t.TradeValue
		weighted += t.Shares * t.Price
		deltaShares += t.DeltaShares

		deltaPct = addDefined(deltaPct, t.DeltaPct)
		companyPct = addDefined(companyPct, t.CompanyPct)
		companyPctChange = addDefined(companyPctChange, t.CompanyPctChange)
	}

	agg.TotalShares = round2(totalShares)
	agg.TotalTradeValue = round2(totalValue)
	agg.AvgPrice = round2(weighted / totalShares)
	agg.DeltaShares = round2(deltaShares)
	agg.DeltaPct = roundDefined(deltaPct)
	agg.CompanyPct = roundDefined(companyPct)
	agg.CompanyPctChange = roundDefined(companyPctChange)

	return agg
}

// addDefined accumulates v into sum, treating nil members as absent rather
// than zero. The sum stays nil until the first defined member.
func addDefined(sum, v *float64) *float64 {
	if v == nil {
		return sum
	}
	if sum == nil {
		return ptr(*v)
	}
	return ptr(*sum + *v)
}

// roundDefined rounds a nullable percent sum to 4 decimal places.
func roundDefined(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return ptr(round4(*v))
}
