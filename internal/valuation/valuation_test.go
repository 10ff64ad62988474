package valuation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/JungleMango/qqq-dashboard/internal/portfolio"
	"github.com/JungleMango/qqq-dashboard/internal/quote"
	"github.com/JungleMango/qqq-dashboard/internal/valuation"
)

func quoteFor(ticker string, price float64) quote.Quote {
	observed := time.Date(2025, 6, 2, 20, 0, 0, 0, time.UTC)
	return quote.Quote{Ticker: ticker, Price: &price, Source: "1m", ObservedAt: &observed}
}

func TestValue_ZeroProfitBoundary(t *testing.T) {
	// 10*420 + 2*950 = 6100 cost; 10*430 + 2*900 = 6100 value. Exactly flat.
	p := portfolio.Portfolio{
		Name:     "Flat",
		Currency: "USD",
		Holdings: []portfolio.Holding{
			{Ticker: "QQQ", Shares: 10, AvgCost: 420},
			{Ticker: "NVDA", Shares: 2, AvgCost: 950},
		},
	}
	quotes := map[string]quote.Quote{
		"QQQ":  quoteFor("QQQ", 430),
		"NVDA": quoteFor("NVDA", 900),
	}

	r := valuation.Value(p, quotes, time.Now())

	require.Equal(t, 6100.0, r.Totals.Cost)
	require.Equal(t, 6100.0, r.Totals.Value)
	require.Equal(t, 0.0, r.Totals.PL)
	require.NotNil(t, r.Totals.PLPct)
	require.Equal(t, 0.0, *r.Totals.PLPct)

	require.Len(t, r.Holdings, 2)
	qqq := r.Holdings[0]
	require.Equal(t, 4300.0, *qqq.MarketValue)
	require.Equal(t, 100.0, *qqq.PL)
	require.InDelta(t, 100.0/4200.0*100, *qqq.PLPct, 1e-9)
}

func TestValue_UnpricedHoldingDegrades(t *testing.T) {
	p := portfolio.Portfolio{
		Name:     "Partial",
		Currency: "USD",
		Holdings: []portfolio.Holding{
			{Ticker: "QQQ", Shares: 10, AvgCost: 420},
			{Ticker: "DEAD", Shares: 5, AvgCost: 100},
		},
	}
	quotes := map[string]quote.Quote{
		"QQQ":  quoteFor("QQQ", 430),
		"DEAD": {Ticker: "DEAD"}, // no data
	}

	r := valuation.Value(p, quotes, time.Now())

	dead := r.Holdings[1]
	require.Nil(t, dead.Price)
	require.Nil(t, dead.MarketValue)
	require.Nil(t, dead.PL)
	require.Nil(t, dead.PLPct)
	require.Nil(t, dead.Interval)
	require.Nil(t, dead.TimeUTC)

	// Totals only reflect the priced holding.
	require.Equal(t, 4200.0, r.Totals.Cost)
	require.Equal(t, 4300.0, r.Totals.Value)
	require.Equal(t, 100.0, r.Totals.PL)
}

func TestValue_AllUnpricedReportsFlatTotals(t *testing.T) {
	p := portfolio.Portfolio{
		Name:     "Dark",
		Holdings: []portfolio.Holding{{Ticker: "DEAD", Shares: 1, AvgCost: 10}},
	}
	r := valuation.Value(p, map[string]quote.Quote{"DEAD": {Ticker: "DEAD"}}, time.Now())

	require.Equal(t, 0.0, r.Totals.Cost)
	require.Equal(t, 0.0, r.Totals.Value)
	require.Equal(t, 0.0, r.Totals.PL)
	require.Nil(t, r.Totals.PLPct)
}

func TestValue_ZeroCostHoldingHasNoPercent(t *testing.T) {
	p := portfolio.Portfolio{
		Name:     "Gift",
		Holdings: []portfolio.Holding{{Ticker: "QQQ", Shares: 3, AvgCost: 0}},
	}
	r := valuation.Value(p, map[string]quote.Quote{"QQQ": quoteFor("QQQ", 430)}, time.Now())

	row := r.Holdings[0]
	require.Equal(t, 1290.0, *row.MarketValue)
	require.Equal(t, 1290.0, *row.PL)
	require.Nil(t, row.PLPct, "percent return is undefined on a zero cost basis")
	// Portfolio-level percent is likewise undefined.
	require.Nil(t, r.Totals.PLPct)
	require.Equal(t, 1290.0, r.Totals.PL)
}

func TestValue_FractionalSharesStayExact(t *testing.T) {
	p := portfolio.Portfolio{
		Name:     "Frac",
		Holdings: []portfolio.Holding{{Ticker: "QQQ", Shares: 0.1, AvgCost: 430}},
	}
	r := valuation.Value(p, map[string]quote.Quote{"QQQ": quoteFor("QQQ", 430)}, time.Now())

	// 0.1*430 in binary floats is not exactly 43; decimals keep it exact.
	require.Equal(t, 43.0, r.Totals.Cost)
	require.Equal(t, 43.0, r.Totals.Value)
	require.Equal(t, 0.0, r.Totals.PL)
}

func TestValue_DefaultsCurrencyAndStampsTime(t *testing.T) {
	now := time.Date(2025, 6, 2, 21, 0, 0, 0, time.UTC)
	r := valuation.Value(portfolio.Portfolio{Name: "X"}, nil, now)
	require.Equal(t, "USD", r.Currency)
	require.Equal(t, "2025-06-02T21:00:00Z", r.LastUpdatedUTC)
}

func TestValueAll_EmptySet(t *testing.T) {
	require.Empty(t, valuation.ValueAll(portfolio.Set{}, nil, time.Now()))
}
