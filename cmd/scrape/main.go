// Package main is the scraper entry point. One invocation performs exactly
// one poll-and-process cycle over the EDGAR current-events feed.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"insider-trade-lab/internal/config"
	"insider-trade-lab/internal/edgar"
	"insider-trade-lab/internal/metrics"
	"insider-trade-lab/internal/observability"
	"insider-trade-lab/internal/orchestrator"
	"insider-trade-lab/internal/shares"
	"insider-trade-lab/internal/storage/migrations"
	pgstore "insider-trade-lab/internal/storage/postgres"
	"insider-trade-lab/internal/yahoo"
)

func main() {
	logger := log.New(os.Stdout, "[scrape] ", log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("config: %v", err)
	}

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("received signal %v, finishing in-flight filings...", sig)
		cancel()
	}()

	obs := observability.NewMetrics("")
	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			logger.Printf("starting metrics server on %s", cfg.MetricsAddr)
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil && err != http.ErrServerClosed {
				logger.Printf("metrics server error: %v", err)
			}
		}()
	}

	// The pipeline must not start without a working persistence store.
	pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("database connection failed: %v", err)
	}
	defer pool.Close()

	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		logger.Fatalf("migrations: %v", err)
	}
	logger.Println("connected to database")

	clientOpts := []edgar.ClientOption{
		edgar.WithTimeout(cfg.HTTPTimeout),
		edgar.WithRateLimit(cfg.RateLimit),
		edgar.WithMetrics(obs),
	}
	if cfg.FeedURL != "" {
		clientOpts = append(clientOpts, edgar.WithFeedURL(cfg.FeedURL))
	}
	secClient := edgar.NewClient(cfg.UserAgent, clientOpts...)

	sharesCache := shares.New(shares.Options{
		Store:     pgstore.NewSharesCacheStore(pool),
		Primary:   secClient,
		Secondary: yahoo.New(),
		Logger:    logger,
		Obs:       obs,
	})

	orch := orchestrator.New(orchestrator.Options{
		Feed:             secClient,
		Resolver:         secClient,
		Form4s:           secClient,
		Calc:             metrics.NewCalculator(sharesCache),
		FilingStore:      pgstore.NewFilingStore(pool),
		TransactionStore: pgstore.NewTransactionStore(pool),
		AggregateStore:   pgstore.NewAggregateStore(pool),
		Workers:          cfg.Workers,
		Logger:           logger,
		Obs:              obs,
	})

	logger.Println("starting insider trading scraper cycle")
	start := time.Now()

	result, err := orch.Run(ctx)
	if err != nil {
		logger.Fatalf("run failed: %v", err)
	}
	obs.RunDuration.Observe(time.Since(start).Seconds())

	fmt.Printf("summary: %d filings processed, %d actionable, %d skipped\n",
		result.Processed, result.Actionable, result.Skipped)
}
