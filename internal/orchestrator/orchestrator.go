// Package orchestrator drives one poll cycle over the filing feed:
// resolve → parse → compute → aggregate → persist, per filing.
package orchestrator

import (
	"context"
	"fmt"
	"log"
	"sync"

	"insider-trade-lab/internal/domain"
	"insider-trade-lab/internal/edgar"
	"insider-trade-lab/internal/metrics"
	"insider-trade-lab/internal/observability"
	"insider-trade-lab/internal/storage"
)

// DefaultWorkers bounds the per-filing worker pool. Filings are independent;
// the only shared state is the shares cache and the store, both safe for
// concurrent use.
const DefaultWorkers = 4

// Orchestrator coordinates one poll-and-process cycle.
type Orchestrator struct {
	feed     FeedSource
	resolver DocumentResolver
	form4s   Form4Source
	calc     *metrics.Calculator

	filingStore      storage.FilingStore
	transactionStore storage.TransactionStore
	aggregateStore   storage.AggregateStore

	workers int
	logger  *log.Logger
	obs     *observability.Metrics
}

// Options contains configuration for creating an Orchestrator.
type Options struct {
	Feed     FeedSource
	Resolver DocumentResolver
	Form4s   Form4Source
	Calc     *metrics.Calculator

	FilingStore      storage.FilingStore
	TransactionStore storage.TransactionStore
	AggregateStore   storage.AggregateStore

	Workers int // defaults to DefaultWorkers
	Logger  *log.Logger
	Obs     *observability.Metrics // optional
}

// New creates a new Orchestrator.
func New(opts Options) *Orchestrator {
	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Orchestrator{
		feed:             opts.Feed,
		resolver:         opts.Resolver,
		form4s:           opts.Form4s,
		calc:             opts.Calc,
		filingStore:      opts.FilingStore,
		transactionStore: opts.TransactionStore,
		aggregateStore:   opts.AggregateStore,
		workers:          workers,
		logger:           logger,
		obs:              opts.Obs,
	}
}

// RunResult summarizes one cycle.
type RunResult struct {
	Processed  int // feed entries handled end to end
	Actionable int // filings persisted with at least one transaction
	Skipped    int // filings that terminated before persistence
}

// outcome of a single filing.
type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeActionable
)

// Run executes one poll cycle. One filing's failure never aborts the run;
// cancelling ctx stops dispatching new filings and lets in-flight ones
// finish. The returned error is nil unless the cycle could not start at all.
func (o *Orchestrator) Run(ctx context.Context) (*RunResult, error) {
	result := &RunResult{}

	refs, dropped, err := o.feed.FetchFeed(ctx)
	if err != nil {
		// Transport failure degrades to an empty feed; the run completes.
		o.logger.Printf("fetch feed: %v", err)
		return result, nil
	}
	for _, dropErr := range dropped {
		o.logger.Printf("dropped feed entry: %v", dropErr)
	}
	o.logger.Printf("found %d filings in feed", len(refs))

	jobs := make(chan *edgar.FilingRef)
	var wg sync.WaitGroup
	var mu sync.Mutex

	for i := 0; i < o.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ref := range jobs {
				out := o.processFiling(ctx, ref)

				mu.Lock()
				result.Processed++
				if out == outcomeActionable {
					result.Actionable++
				} else {
					result.Skipped++
				}
				mu.Unlock()
			}
		}()
	}

dispatch:
	for _, ref := range refs {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- ref:
		}
	}
	close(jobs)
	wg.Wait()

	o.logger.Printf("summary: %d filings processed, %d actionable, %d skipped",
		result.Processed, result.Actionable, result.Skipped)
	return result, nil
}

// processFiling walks one filing through the pipeline states:
// resolved → parsed → persisted. Every early exit is a terminal skip.
func (o *Orchestrator) processFiling(ctx context.Context, ref *edgar.FilingRef) outcome {
	docURL, err := o.resolver.ResolveDocument(ctx, ref.CIK, ref.AccessionNumber)
	if err != nil {
		o.logger.Printf("could not resolve document for %s: %v", ref.AccessionNumber, err)
		o.count("resolve_failed")
		return outcomeSkipped
	}

	form, err := o.form4s.FetchForm4(ctx, docURL)
	if err != nil {
		o.logger.Printf("failed parsing %s: %v", ref.AccessionNumber, err)
		o.count("parse_failed")
		return outcomeSkipped
	}
	if len(form.Transactions) == 0 {
		o.count("non_actionable")
		return outcomeSkipped
	}

	fc := metrics.FilingContext{
		AccessionNumber: ref.AccessionNumber,
		CIK:             ref.CIK,
		IssuerName:      form.IssuerName,
		IssuerSymbol:    form.IssuerSymbol,
		ReportingOwner:  form.OwnerName,
		OwnerTitle:      form.OwnerTitle,
	}
	txs := o.calc.ComputeAll(ctx, fc, form.Transactions)

	if err := o.persistFiling(ctx, ref, txs); err != nil {
		o.logger.Printf("failed persisting %s: %v", ref.AccessionNumber, err)
		o.count("persist_failed")
		return outcomeSkipped
	}

	o.count("actionable")
	return outcomeActionable
}

// persistFiling writes transactions, aggregates, and the filing row.
// A failed write is retried once before the filing is given up on; the run
// itself always continues.
func (o *Orchestrator) persistFiling(ctx context.Context, ref *edgar.FilingRef, txs []*domain.Transaction) error {
	persist := func() error {
		written, err := o.transactionStore.InsertIgnoreBulk(ctx, txs)
		if err != nil {
			return fmt.Errorf("insert transactions: %w", err)
		}
		if o.obs != nil {
			o.obs.TransactionsStored.Add(float64(written))
		}

		for _, agg := range metrics.Rollup(txs) {
			if err := o.aggregateStore.Upsert(ctx, agg); err != nil {
				return fmt.Errorf("upsert aggregate: %w", err)
			}
		}

		filing := &domain.Filing{
			AccessionNumber: ref.AccessionNumber,
			FiledAt:         ref.Updated,
			ReportingName:   ref.ReportingName,
			CIK:             ref.CIK,
			FormType:        ref.FormType,
			Link:            ref.Link,
		}
		if _, err := o.filingStore.InsertIgnore(ctx, filing); err != nil {
			return fmt.Errorf("insert filing: %w", err)
		}
		if err := o.filingStore.MarkProcessed(ctx, ref.AccessionNumber); err != nil {
			return fmt.Errorf("mark filing processed: %w", err)
		}
		return nil
	}

	err := persist()
	if err == nil {
		return nil
	}
	o.logger.Printf("retrying persist for %s after error: %v", ref.AccessionNumber, err)
	return persist()
}

// count increments a per-outcome observability counter when metrics are wired.
func (o *Orchestrator) count(label string) {
	if o.obs != nil {
		o.obs.FilingOutcomes.WithLabelValues(label).Inc()
	}
}
