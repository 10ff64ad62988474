package quote

import (
	"sync"
	"time"
)

// DefaultTTL is how long a cached quote stays fresh.
const DefaultTTL = 10 * time.Second

// Cache stores the most recent Quote per ticker with time-based expiry.
// Staleness is checked lazily on read; nothing is ever evicted, a stale
// entry just waits to be overwritten by the next Put. Memory therefore
// grows with the number of distinct tickers ever asked for, which is fine
// for a personal portfolio.
type Cache struct {
	ttl time.Duration
	now func() time.Time

	mu    sync.RWMutex
	items map[string]Quote
}

// NewCache returns a cache with the given TTL. A non-positive ttl falls
// back to DefaultTTL.
func NewCache(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		ttl:   ttl,
		now:   time.Now,
		items: make(map[string]Quote),
	}
}

// Get returns the stored quote for ticker if it is still fresh. A stale
// or missing entry reports ok=false.
func (c *Cache) Get(ticker string) (Quote, bool) {
	c.mu.RLock()
	q, ok := c.items[ticker]
	c.mu.RUnlock()
	if !ok || c.now().Sub(q.FetchedAt) >= c.ttl {
		return Quote{}, false
	}
	return q, true
}

// Put unconditionally overwrites the entry for ticker, stamping it with
// the current time, and returns the stored quote. No-data quotes are
// stored too, so repeat lookups for a dead symbol are absorbed for one TTL.
func (c *Cache) Put(ticker string, price *float64, source string, observedAt *time.Time) Quote {
	q := Quote{
		Ticker:     ticker,
		Price:      price,
		Source:     source,
		ObservedAt: observedAt,
		FetchedAt:  c.now(),
	}
	c.mu.Lock()
	c.items[ticker] = q
	c.mu.Unlock()
	return q
}
