package quote

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// Service answers price lookups from the cache and delegates misses to
// the fetcher, caching every outcome including confirmed no-data results.
// The cache TTL doubles as the rate limiter against both a flaky upstream
// and client polling: a failing ticker is not retried until it expires.
type Service struct {
	cache   *Cache
	fetcher *Fetcher
	group   singleflight.Group
}

func NewService(cache *Cache, fetcher *Fetcher) *Service {
	return &Service{cache: cache, fetcher: fetcher}
}

// GetPrice never fails for a ticker it accepts; an unresolvable symbol
// yields a no-data Quote. Concurrent lookups for the same ticker are
// coalesced into a single upstream fetch.
func (s *Service) GetPrice(ctx context.Context, ticker string) Quote {
	if q, ok := s.cache.Get(ticker); ok {
		return q
	}
	v, _, _ := s.group.Do(ticker, func() (any, error) {
		// Re-check: another caller may have filled the entry while we
		// waited on the flight group.
		if q, ok := s.cache.Get(ticker); ok {
			return q, nil
		}
		q := s.fetcher.Fetch(ctx, ticker)
		return s.cache.Put(ticker, q.Price, q.Source, q.ObservedAt), nil
	})
	return v.(Quote)
}

// GetPrices resolves tickers one at a time, preserving input order in the
// result. Each quote reflects its own fetch moment; there is no
// cross-ticker consistency guarantee.
func (s *Service) GetPrices(ctx context.Context, tickers []string) []Quote {
	out := make([]Quote, 0, len(tickers))
	for _, t := range tickers {
		out = append(out, s.GetPrice(ctx, t))
	}
	return out
}
