package domain

// Aggregate rolls all of one filing's transactions for a single
// (accession, issuer symbol, owner) group into one summary row.
// Corresponds to transaction_aggregates table in PostgreSQL.
// Re-running the pipeline recomputes and fully replaces the row.
type Aggregate struct {
	ID               int64    // BIGSERIAL primary key
	AccessionNumber  string   // FK to filings
	CIK              string   // filer company identifier
	IssuerName       string   // issuer display name
	IssuerSymbol     string   // issuer trading symbol
	ReportingOwner   string   // insider making the trades
	TotalShares      float64  // sum of member share counts
	TotalTradeValue  float64  // sum of member signed trade values
	AvgPrice         float64  // volume-weighted average price
	DeltaShares      float64  // sum of member holding deltas
	DeltaPct         *float64 // sum over members with a defined value, nil if none
	CompanyPct       *float64 // sum over members with a defined value, nil if none
	CompanyPctChange *float64 // sum over members with a defined value, nil if none
	OwnerTitle       *string  // role labels of the reporting owner
}
