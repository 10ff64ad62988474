package quote

import (
	"context"
	"sync"
	"time"
)

// MinInterval wraps an Upstream and enforces a minimum time between
// upstream calls across both query kinds. Callers wait until the interval
// has elapsed since the last call, or return early if the context is
// canceled. With the cache TTL already throttling refetches this is off
// by default; it exists for deployments that poll many tickers.
type MinInterval struct {
	Next     Upstream
	Interval time.Duration

	mu   sync.Mutex
	last time.Time
}

func (m *MinInterval) History(ctx context.Context, ticker string, tier Tier) ([]Bar, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	bars, err := m.Next.History(ctx, ticker, tier)
	m.stamp()
	return bars, err
}

func (m *MinInterval) Latest(ctx context.Context, ticker string) (float64, error) {
	if err := m.wait(ctx); err != nil {
		return 0, err
	}
	price, err := m.Next.Latest(ctx, ticker)
	m.stamp()
	return price, err
}

func (m *MinInterval) wait(ctx context.Context) error {
	if m.Interval <= 0 {
		return nil
	}
	m.mu.Lock()
	wait := time.Until(m.last.Add(m.Interval))
	m.mu.Unlock()
	if wait <= 0 {
		return nil
	}
	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (m *MinInterval) stamp() {
	if m.Interval <= 0 {
		return
	}
	m.mu.Lock()
	m.last = time.Now()
	m.mu.Unlock()
}
