package shares

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"
	"time"

	"insider-trade-lab/internal/domain"
	"insider-trade-lab/internal/storage"
	"insider-trade-lab/internal/storage/memory"
)

type stubPrimary struct {
	shares float64
	err    error
	calls  int
}

func (s *stubPrimary) FetchSharesOutstanding(_ context.Context, _ string) (float64, error) {
	s.calls++
	return s.shares, s.err
}

type stubSecondary struct {
	shares float64
	err    error
	calls  int
}

func (s *stubSecondary) SharesOutstanding(_ context.Context, _ string) (float64, error) {
	s.calls++
	return s.shares, s.err
}

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestLookup_PrimaryHitAndWriteBack(t *testing.T) {
	store := memory.NewSharesCacheStore()
	primary := &stubPrimary{shares: 1000000}
	secondary := &stubSecondary{shares: 999}

	cache := New(Options{
		Store:     store,
		Primary:   primary,
		Secondary: secondary,
		Logger:    quietLogger(),
	})

	got := cache.Lookup(context.Background(), "1234567", "ACME")
	if got == nil || *got != 1000000 {
		t.Fatalf("expected 1000000, got %v", got)
	}
	if secondary.calls != 0 {
		t.Errorf("secondary should not be consulted on primary hit")
	}

	// Write-back must land in the persistent cache under the padded CIK.
	entry, err := store.Get(context.Background(), "0001234567")
	if err != nil {
		t.Fatalf("expected write-back entry: %v", err)
	}
	if entry.TotalShares != 1000000 {
		t.Errorf("expected 1000000 written back, got %v", entry.TotalShares)
	}

	// A second lookup is served locally without another external call.
	if got := cache.Lookup(context.Background(), "1234567", "ACME"); got == nil || *got != 1000000 {
		t.Fatalf("expected cached 1000000, got %v", got)
	}
	if primary.calls != 1 {
		t.Errorf("expected a single primary call, got %d", primary.calls)
	}
}

func TestLookup_StoreHit(t *testing.T) {
	store := memory.NewSharesCacheStore()
	seed(t, store, "0001234567", 750000)

	primary := &stubPrimary{err: errors.New("unreachable")}
	cache := New(Options{Store: store, Primary: primary, Logger: quietLogger()})

	got := cache.Lookup(context.Background(), "1234567", "ACME")
	if got == nil || *got != 750000 {
		t.Fatalf("expected 750000 from store, got %v", got)
	}
	if primary.calls != 0 {
		t.Errorf("primary should not be consulted on store hit")
	}
}

func TestLookup_SecondaryFallback(t *testing.T) {
	primary := &stubPrimary{err: errors.New("no facts")}
	secondary := &stubSecondary{shares: 420000}

	cache := New(Options{
		Store:     memory.NewSharesCacheStore(),
		Primary:   primary,
		Secondary: secondary,
		Logger:    quietLogger(),
	})

	got := cache.Lookup(context.Background(), "7654321", "BETA")
	if got == nil || *got != 420000 {
		t.Fatalf("expected 420000 from secondary, got %v", got)
	}
	if primary.calls != 1 || secondary.calls != 1 {
		t.Errorf("expected both sources consulted, got %d/%d", primary.calls, secondary.calls)
	}
}

func TestLookup_SentinelSymbolSkipsSecondary(t *testing.T) {
	primary := &stubPrimary{err: errors.New("no facts")}
	secondary := &stubSecondary{shares: 420000}

	cache := New(Options{
		Store:     memory.NewSharesCacheStore(),
		Primary:   primary,
		Secondary: secondary,
		Logger:    quietLogger(),
	})

	if got := cache.Lookup(context.Background(), "7654321", "NONE"); got != nil {
		t.Fatalf("expected nil for sentinel symbol, got %v", *got)
	}
	if secondary.calls != 0 {
		t.Errorf("secondary must not be consulted for the sentinel symbol")
	}
}

func TestLookup_AllSourcesFail(t *testing.T) {
	cache := New(Options{
		Store:     memory.NewSharesCacheStore(),
		Primary:   &stubPrimary{err: errors.New("down")},
		Secondary: &stubSecondary{err: errors.New("down")},
		Logger:    quietLogger(),
	})

	if got := cache.Lookup(context.Background(), "1111111", "ACME"); got != nil {
		t.Fatalf("expected nil when every source fails, got %v", *got)
	}
}

func seed(t *testing.T, store storage.SharesCacheStore, cik string, shares float64) {
	t.Helper()
	entry := &domain.SharesOutstanding{CIK: cik, TotalShares: shares, LastUpdated: time.Now()}
	if err := store.Upsert(context.Background(), entry); err != nil {
		t.Fatalf("seed shares cache: %v", err)
	}
}
