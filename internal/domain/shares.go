package domain

import (
	"strings"
	"time"
)

// cikWidth is the fixed width EDGAR uses for company identifiers.
const cikWidth = 10

// SharesOutstanding caches a company's total issued shares.
// Corresponds to shares_outstanding_cache table in PostgreSQL, keyed by the
// zero-padded CIK. Populated lazily on first lookup miss; never refreshed
// proactively.
type SharesOutstanding struct {
	CIK         string    // PRIMARY KEY, zero-padded to 10 digits
	TotalShares float64   // total issued shares
	LastUpdated time.Time // when the value was fetched
}

// PadCIK left-pads a company identifier with zeros to the fixed EDGAR width.
func PadCIK(cik string) string {
	if len(cik) >= cikWidth {
		return cik
	}
	return strings.Repeat("0", cikWidth-len(cik)) + cik
}
