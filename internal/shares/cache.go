// Package shares resolves a company's total outstanding shares through a
// layered lookup: in-process cache, persistent cache, primary regulator
// source, secondary market-data source. Any success is written back to both
// cache layers.
package shares

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"insider-trade-lab/internal/domain"
	"insider-trade-lab/internal/observability"
	"insider-trade-lab/internal/storage"
)

// In-process cache lifetimes. The persistent cache is never expired by this
// pipeline, so a short process-local TTL is enough to absorb repeat lookups
// within one run.
const (
	localTTL      = 1 * time.Hour
	localCleanup  = 10 * time.Minute
	sentinelLabel = "NONE"
)

// PrimarySource is the regulator-provided company-facts source.
type PrimarySource interface {
	FetchSharesOutstanding(ctx context.Context, cik string) (float64, error)
}

// SecondarySource is the market-data fallback, keyed by trading symbol.
type SecondarySource interface {
	SharesOutstanding(ctx context.Context, symbol string) (float64, error)
}

// Cache is the layered shares-outstanding lookup. Lookups for the same CIK
// are serialized so concurrent workers cannot duplicate external fetches.
type Cache struct {
	store     storage.SharesCacheStore
	primary   PrimarySource
	secondary SecondarySource
	logger    *log.Logger
	obs       *observability.Metrics

	local *gocache.Cache
	now   func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex // per-CIK lookup guards
}

// Options contains configuration for creating a Cache.
type Options struct {
	Store     storage.SharesCacheStore
	Primary   PrimarySource
	Secondary SecondarySource
	Logger    *log.Logger
	Obs       *observability.Metrics // optional
}

// New creates a new layered cache.
func New(opts Options) *Cache {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Cache{
		store:     opts.Store,
		primary:   opts.Primary,
		secondary: opts.Secondary,
		logger:    logger,
		obs:       opts.Obs,
		local:     gocache.New(localTTL, localCleanup),
		now:       time.Now,
		locks:     make(map[string]*sync.Mutex),
	}
}

// Lookup returns total outstanding shares for a company, or nil when no
// source can provide a positive figure. Failures are logged, never returned:
// an unavailable share count degrades the derived metrics, it does not stop
// the pipeline.
func (c *Cache) Lookup(ctx context.Context, cik, issuerSymbol string) *float64 {
	key := domain.PadCIK(cik)

	lock := c.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	if v, ok := c.local.Get(key); ok {
		shares := v.(float64)
		c.count("local")
		return &shares
	}

	if c.store != nil {
		entry, err := c.store.Get(ctx, key)
		switch {
		case err == nil && entry.TotalShares > 0:
			c.local.Set(key, entry.TotalShares, gocache.DefaultExpiration)
			c.count("store")
			return &entry.TotalShares
		case err != nil && !errors.Is(err, storage.ErrNotFound):
			c.logger.Printf("shares cache read failed for CIK %s: %v", key, err)
		}
	}

	if c.primary != nil {
		shares, err := c.primary.FetchSharesOutstanding(ctx, cik)
		if err == nil && shares > 0 {
			c.writeBack(ctx, key, shares)
			c.count("primary")
			return &shares
		}
		if err != nil {
			c.logger.Printf("primary shares fetch failed for CIK %s: %v", cik, err)
		}
	}

	if c.secondary != nil && usableSymbol(issuerSymbol) {
		shares, err := c.secondary.SharesOutstanding(ctx, issuerSymbol)
		if err == nil && shares > 0 {
			c.writeBack(ctx, key, shares)
			c.count("secondary")
			return &shares
		}
		if err != nil {
			c.logger.Printf("secondary shares fetch failed for %s: %v", issuerSymbol, err)
		}
	}

	c.logger.Printf("no shares data found for %s", firstNonEmpty(issuerSymbol, cik))
	c.count("miss")
	return nil
}

// count increments the per-layer lookup counter when metrics are wired.
func (c *Cache) count(layer string) {
	if c.obs != nil {
		c.obs.SharesLookups.WithLabelValues(layer).Inc()
	}
}

// writeBack records a discovered share count in both cache layers.
func (c *Cache) writeBack(ctx context.Context, key string, shares float64) {
	c.local.Set(key, shares, gocache.DefaultExpiration)

	if c.store == nil {
		return
	}
	entry := &domain.SharesOutstanding{
		CIK:         key,
		TotalShares: shares,
		LastUpdated: c.now(),
	}
	if err := c.store.Upsert(ctx, entry); err != nil {
		c.logger.Printf("shares cache write-back failed for CIK %s: %v", key, err)
	}
}

// keyLock returns the mutex guarding lookups for one CIK.
func (c *Cache) keyLock(key string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()

	lock, ok := c.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[key] = lock
	}
	return lock
}

// usableSymbol reports whether a trading symbol can drive the secondary
// source. EDGAR publishes the sentinel "NONE" for unlisted issuers.
func usableSymbol(symbol string) bool {
	return symbol != "" && !strings.EqualFold(symbol, sentinelLabel)
}

func firstNonEmpty(a, b string) string {
	if a != "" {
		return a
	}
	return b
}
