package orchestrator

import (
	"context"

	"insider-trade-lab/internal/edgar"
)

// FeedSource lists candidate filings in feed order. Malformed entries are
// returned as errors alongside the usable refs.
type FeedSource interface {
	FetchFeed(ctx context.Context) ([]*edgar.FilingRef, []error, error)
}

// DocumentResolver locates the structured transaction document of a filing.
// Returns edgar.ErrNoDocument when no qualifying document exists.
type DocumentResolver interface {
	ResolveDocument(ctx context.Context, cik, accessionNumber string) (string, error)
}

// Form4Source fetches and parses an ownership document by URL.
type Form4Source interface {
	FetchForm4(ctx context.Context, url string) (*edgar.Form4, error)
}
