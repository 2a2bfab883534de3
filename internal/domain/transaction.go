package domain

// TransactionCode classifies a non-derivative insider transaction.
type TransactionCode string

// Transaction codes retained by the pipeline. All other codes are dropped.
const (
	CodePurchase   TransactionCode = "P" // open-market or private purchase
	CodeExercise   TransactionCode = "M" // exercise of derivative security
	CodeSale       TransactionCode = "S" // open-market or private sale
	CodeConversion TransactionCode = "C" // conversion of derivative security
)

// Actionable reports whether the code is one the pipeline retains.
func (c TransactionCode) Actionable() bool {
	switch c {
	case CodePurchase, CodeExercise, CodeSale, CodeConversion:
		return true
	}
	return false
}

// Disposes reports whether the code reduces the owner's holdings.
// Sale and Conversion carry a negative trade value and invert the
// before/after reconstruction.
func (c TransactionCode) Disposes() bool {
	return c == CodeSale || c == CodeConversion
}

// RawTransaction is one retained transaction as parsed from the ownership
// document, before metric derivation.
type RawTransaction struct {
	Code        TransactionCode
	Date        string  // as reported
	Shares      float64 // traded share count, strictly positive
	Price       float64 // price per share, strictly positive
	SharesAfter float64 // shares owned following the transaction
}

// Transaction is one qualifying non-derivative transaction extracted from a
// filing. Corresponds to transactions table in PostgreSQL.
// Uniqueness key: (accession_number, issuer_symbol, reporting_owner,
// transaction_date, transaction_code); duplicate inserts are no-ops.
type Transaction struct {
	ID               int64           // BIGSERIAL primary key
	AccessionNumber  string          // FK to filings
	CIK              string          // filer company identifier
	IssuerName       string          // issuer display name
	IssuerSymbol     string          // issuer trading symbol
	ReportingOwner   string          // insider making the trade
	OwnerTitle       *string         // role labels joined with " & ", nil if no role flag set
	TransactionDate  string          // as reported, e.g. "2025-08-12"
	TransactionCode  TransactionCode // P | M | S | C
	Shares           float64         // share count, rounded to 2 dp
	Price            float64         // price per share, rounded to 2 dp
	TradeValue       float64         // shares * price, negative for S and C
	DeltaShares      float64         // after - before holdings
	DeltaPct         *float64        // delta relative to before, nil when before == 0
	CompanyPct       *float64        // holdings after as percent of shares outstanding
	CompanyPctChange *float64        // change in company percent across the transaction
}
