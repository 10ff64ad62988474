package quote

import (
	"context"
	"time"
)

// SourceLatest labels quotes that came from the latest-price snapshot
// rather than a historical series.
const SourceLatest = "latest"

// Quote is the normalized result of a price lookup for one ticker.
// A nil Price marks a confirmed "no data" outcome; such quotes are still
// cached so an unresolvable symbol is not retried until the TTL passes.
type Quote struct {
	Ticker string
	// Price is the last known price, or nil when the upstream had nothing.
	Price *float64
	// Source identifies what produced the price: the sampling interval of
	// the historical tier (e.g. "1m"), or SourceLatest for the snapshot.
	// Empty on a no-data quote.
	Source string
	// ObservedAt is the UTC timestamp of the observation. Nil on no data.
	ObservedAt *time.Time
	// FetchedAt is when the quote was stored, used for cache expiry.
	FetchedAt time.Time
}

// NoData reports whether the quote represents a confirmed absence of data.
func (q Quote) NoData() bool { return q.Price == nil }

// Tier is one (lookback window, sampling interval) pair in the fallback
// chain, expressed in the upstream's range/interval vocabulary.
type Tier struct {
	Range    string
	Interval string
}

// DefaultTiers returns the fallback chain, most granular first.
func DefaultTiers() []Tier {
	return []Tier{
		{Range: "1d", Interval: "1m"},
		{Range: "5d", Interval: "1h"},
		{Range: "1mo", Interval: "1d"},
	}
}

// Bar is a single observation from a historical series.
type Bar struct {
	Close float64
	Time  time.Time
}

// Upstream is the external market data source. Both queries may fail
// transiently or, for History, legitimately return an empty series.
//
//go:generate mockgen -package=quote_test -destination=mock_upstream_test.go -source=quote.go Upstream
type Upstream interface {
	// History returns the series for one tier, oldest observation first.
	// An empty (or nil) series with a nil error means the upstream has no
	// data for the symbol at this granularity.
	History(ctx context.Context, ticker string, tier Tier) ([]Bar, error)
	// Latest returns the single most recent known price, with no
	// timestamp guarantee.
	Latest(ctx context.Context, ticker string) (float64, error)
}
