package source

import (
	"context"
	"sync"
	"time"

	"github.com/gyeh/ardash/internal/model"
)

// DefaultTTL is how long a fetched table is served before re-fetching.
const DefaultTTL = 10 * time.Minute

// Cached memoizes an inner Source per (start, end) pair with a TTL.
// Entries are immutable once stored; readers get a fresh slice so
// derivation can fill fields without racing other renders.
type Cached struct {
	inner Source
	ttl   time.Duration
	now   Clock

	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	invoices []model.Invoice
	expires  time.Time
}

// NewCached wraps inner with a TTL cache.
func NewCached(inner Source, ttl time.Duration, now Clock) *Cached {
	return &Cached{
		inner:   inner,
		ttl:     ttl,
		now:     now,
		entries: make(map[string]cacheEntry),
	}
}

// Fetch returns the memoized table for the range when fresh, otherwise
// delegates to the inner source and stores the result. Check-and-refresh
// happens on read; there is no background eviction.
func (c *Cached) Fetch(ctx context.Context, start, end time.Time) ([]model.Invoice, error) {
	invoices, _, err := c.FetchWithHit(ctx, start, end)
	return invoices, err
}

// FetchWithHit is Fetch plus whether the table was served from cache.
// Callers that only act on fresh data, like snapshot archiving, key off
// the hit flag.
func (c *Cached) FetchWithHit(ctx context.Context, start, end time.Time) ([]model.Invoice, bool, error) {
	key := start.Format(time.DateOnly) + ".." + end.Format(time.DateOnly)

	c.mu.Lock()
	if e, ok := c.entries[key]; ok && c.now().Before(e.expires) {
		out := copyInvoices(e.invoices)
		c.mu.Unlock()
		return out, true, nil
	}
	c.mu.Unlock()

	invoices, err := c.inner.Fetch(ctx, start, end)
	if err != nil {
		return nil, false, err
	}

	c.mu.Lock()
	c.entries[key] = cacheEntry{invoices: copyInvoices(invoices), expires: c.now().Add(c.ttl)}
	c.mu.Unlock()
	return invoices, false, nil
}

func copyInvoices(in []model.Invoice) []model.Invoice {
	out := make([]model.Invoice, len(in))
	copy(out, in)
	return out
}
