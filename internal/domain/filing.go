package domain

// Filing represents one insider-trading disclosure discovered in the feed.
// Corresponds to filings table in PostgreSQL. A row is written only when the
// filing produced at least one qualifying transaction.
type Filing struct {
	AccessionNumber string // PRIMARY KEY, e.g. "0001234567-25-000123"
	FiledAt         string // feed "updated" timestamp, as published
	ReportingName   string // reporting entity display name from the feed title
	CIK             string // company identifier of the filer
	FormType        string // feed category term, e.g. "4" or "4/A"
	Link            string // filing index page URL
	Processed       bool   // set once the filing's rows are fully persisted
}
