// Package valuation prices portfolios against resolved quotes. Amounts
// are computed with decimals so that cost/value/P&L stay exact even when
// share counts are fractional.
package valuation

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/JungleMango/qqq-dashboard/internal/portfolio"
	"github.com/JungleMango/qqq-dashboard/internal/quote"
)

var hundred = decimal.NewFromInt(100)

// Row is the valued view of one holding. Derived fields are nil when the
// holding's price could not be resolved; such rows do not contribute to
// the portfolio totals.
type Row struct {
	Ticker      string   `json:"ticker"`
	Shares      float64  `json:"shares"`
	AvgCost     float64  `json:"avg_cost"`
	Price       *float64 `json:"price"`
	MarketValue *float64 `json:"market_value"`
	PL          *float64 `json:"pl"`
	PLPct       *float64 `json:"pl_pct"`
	Interval    *string  `json:"interval"`
	TimeUTC     *string  `json:"time_utc"`
}

// Totals aggregates the priced rows of one portfolio. PLPct is nil when
// the cost basis is zero (nothing meaningful to divide by).
type Totals struct {
	Cost  float64  `json:"cost"`
	Value float64  `json:"value"`
	PL    float64  `json:"pl"`
	PLPct *float64 `json:"pl_pct"`
}

// Report is the valued view of one portfolio.
type Report struct {
	Name           string `json:"name"`
	Currency       string `json:"currency"`
	Holdings       []Row  `json:"holdings"`
	Totals         Totals `json:"totals"`
	LastUpdatedUTC string `json:"last_updated_utc"`
}

// Value prices a portfolio using quotes keyed by ticker. Holdings keep
// their configured order. Quotes with a nil price leave the row's derived
// fields nil and are excluded from the totals.
func Value(p portfolio.Portfolio, quotes map[string]quote.Quote, now time.Time) Report {
	currency := p.Currency
	if currency == "" {
		currency = "USD"
	}

	rows := make([]Row, 0, len(p.Holdings))
	totalCost := decimal.Zero
	totalValue := decimal.Zero

	for _, h := range p.Holdings {
		row := Row{Ticker: h.Ticker, Shares: h.Shares, AvgCost: h.AvgCost}
		q := quotes[h.Ticker]
		if q.Source != "" {
			src := q.Source
			row.Interval = &src
		}
		if q.ObservedAt != nil {
			ts := q.ObservedAt.UTC().Format(time.RFC3339)
			row.TimeUTC = &ts
		}

		if q.Price != nil {
			shares := decimal.NewFromFloat(h.Shares)
			cost := shares.Mul(decimal.NewFromFloat(h.AvgCost))
			value := shares.Mul(decimal.NewFromFloat(*q.Price))
			pl := value.Sub(cost)

			row.Price = q.Price
			row.MarketValue = floatPtr(value)
			row.PL = floatPtr(pl)
			if cost.IsPositive() {
				row.PLPct = floatPtr(pl.Div(cost).Mul(hundred))
			}

			totalCost = totalCost.Add(cost)
			totalValue = totalValue.Add(value)
		}
		rows = append(rows, row)
	}

	totals := Totals{
		Cost:  totalCost.InexactFloat64(),
		Value: totalValue.InexactFloat64(),
	}
	if !totalCost.IsZero() || !totalValue.IsZero() {
		pl := totalValue.Sub(totalCost)
		totals.PL = pl.InexactFloat64()
		if totalCost.IsPositive() {
			totals.PLPct = floatPtr(pl.Div(totalCost).Mul(hundred))
		}
	}

	return Report{
		Name:           p.Name,
		Currency:       currency,
		Holdings:       rows,
		Totals:         totals,
		LastUpdatedUTC: now.UTC().Format(time.RFC3339),
	}
}

// ValueAll prices every portfolio in the set, preserving order.
func ValueAll(s portfolio.Set, quotes map[string]quote.Quote, now time.Time) []Report {
	out := make([]Report, 0, len(s.Portfolios))
	for _, p := range s.Portfolios {
		out = append(out, Value(p, quotes, now))
	}
	return out
}

func floatPtr(d decimal.Decimal) *float64 {
	f := d.InexactFloat64()
	return &f
}
