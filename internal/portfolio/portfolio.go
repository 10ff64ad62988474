package portfolio

import (
	"encoding/json"
	"os"

	"go.uber.org/zap"
)

// Holding is one position in a portfolio.
type Holding struct {
	Ticker  string  `json:"ticker"`
	Shares  float64 `json:"shares"`
	AvgCost float64 `json:"avg_cost"`
}

// Portfolio is a named group of holdings quoted in one display currency.
type Portfolio struct {
	Name     string    `json:"name"`
	Currency string    `json:"currency"`
	Holdings []Holding `json:"holdings"`
}

// Set is the on-disk portfolios.json shape.
type Set struct {
	Portfolios []Portfolio `json:"portfolios"`
}

// Demo returns the built-in sample portfolios used when no usable
// portfolios.json exists, so the dashboard always has something to show.
func Demo() Set {
	return Set{Portfolios: []Portfolio{
		{
			Name:     "Long-Term (USD)",
			Currency: "USD",
			Holdings: []Holding{
				{Ticker: "QQQ", Shares: 10, AvgCost: 420.0},
				{Ticker: "NVDA", Shares: 2, AvgCost: 950.0},
			},
		},
		{
			Name:     "TFSA (CAD)",
			Currency: "CAD",
			Holdings: []Holding{
				{Ticker: "HHIS.TO", Shares: 100, AvgCost: 22.10},
			},
		},
	}}
}

// Load reads the portfolio file at path. A missing file, malformed JSON,
// or an empty portfolio list falls back to Demo; configuration problems
// are reported to the operator, never to the browser.
func Load(path string, log *zap.Logger) Set {
	if log == nil {
		log = zap.NewNop()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		log.Warn("portfolio file not readable, using demo portfolios",
			zap.String("path", path), zap.Error(err))
		return Demo()
	}
	var s Set
	if err := json.Unmarshal(b, &s); err != nil {
		log.Warn("portfolio file malformed, using demo portfolios",
			zap.String("path", path), zap.Error(err))
		return Demo()
	}
	if len(s.Portfolios) == 0 {
		log.Warn("portfolio file has no portfolios, using demo portfolios",
			zap.String("path", path))
		return Demo()
	}
	log.Info("loaded portfolios", zap.String("path", path), zap.Int("count", len(s.Portfolios)))
	return s
}

// Tickers returns the distinct non-empty tickers across all portfolios in
// first-seen order.
func (s Set) Tickers() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, pf := range s.Portfolios {
		for _, h := range pf.Holdings {
			if h.Ticker == "" {
				continue
			}
			if _, ok := seen[h.Ticker]; ok {
				continue
			}
			seen[h.Ticker] = struct{}{}
			out = append(out, h.Ticker)
		}
	}
	return out
}
