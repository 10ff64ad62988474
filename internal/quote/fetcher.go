package quote

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Fetcher resolves a ticker against the upstream by walking the tier
// chain: historical queries from most to least granular, then the
// latest-price snapshot. The first tier that yields data wins.
type Fetcher struct {
	upstream Upstream
	tiers    []Tier
	log      *zap.Logger
}

// NewFetcher builds a fetcher. Nil tiers means DefaultTiers.
func NewFetcher(upstream Upstream, tiers []Tier, log *zap.Logger) *Fetcher {
	if len(tiers) == 0 {
		tiers = DefaultTiers()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Fetcher{upstream: upstream, tiers: tiers, log: log}
}

// Fetch never returns an error: any individual tier failure is logged and
// treated as "try the next tier", and only exhaustion of every tier plus
// the snapshot produces a no-data quote. Worst case this costs one
// upstream round-trip per tier, which is the price of surviving symbols
// the upstream silently has no series for.
func (f *Fetcher) Fetch(ctx context.Context, ticker string) Quote {
	for _, tier := range f.tiers {
		bars, err := f.upstream.History(ctx, ticker, tier)
		if err != nil {
			f.log.Warn("history tier failed",
				zap.String("ticker", ticker),
				zap.String("range", tier.Range),
				zap.String("interval", tier.Interval),
				zap.Error(err))
			continue
		}
		if len(bars) == 0 {
			f.log.Debug("history tier empty",
				zap.String("ticker", ticker),
				zap.String("range", tier.Range),
				zap.String("interval", tier.Interval))
			continue
		}
		last := bars[len(bars)-1]
		price := last.Close
		observed := last.Time.UTC()
		return Quote{Ticker: ticker, Price: &price, Source: tier.Interval, ObservedAt: &observed}
	}

	price, err := f.upstream.Latest(ctx, ticker)
	if err != nil {
		f.log.Warn("latest price fallback failed", zap.String("ticker", ticker), zap.Error(err))
		return Quote{Ticker: ticker}
	}
	// The snapshot carries no observation timestamp of its own.
	observed := time.Now().UTC()
	return Quote{Ticker: ticker, Price: &price, Source: SourceLatest, ObservedAt: &observed}
}
