// Command fetch resolves quotes for the given tickers (or every ticker in
// the configured portfolios) once and prints them as JSON. Useful for
// checking what the upstream currently returns without running the server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/JungleMango/qqq-dashboard/internal/config"
	"github.com/JungleMango/qqq-dashboard/internal/httpx"
	"github.com/JungleMango/qqq-dashboard/internal/portfolio"
	"github.com/JungleMango/qqq-dashboard/internal/quote"
	"github.com/JungleMango/qqq-dashboard/internal/yahoo"
)

type row struct {
	Ticker   string   `json:"ticker"`
	Price    *float64 `json:"price"`
	Interval string   `json:"interval,omitempty"`
	TimeUTC  string   `json:"time_utc,omitempty"`
}

func main() {
	var (
		cfgPath    string
		timeoutSec int
	)
	flag.StringVar(&cfgPath, "config", "", "path to config.json (optional)")
	flag.IntVar(&timeoutSec, "timeout", 30, "overall timeout in seconds")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	tickers := flag.Args()
	if len(tickers) == 0 {
		tickers = portfolio.Load(cfg.PortfolioFile, zap.NewNop()).Tickers()
	}
	if len(tickers) == 0 {
		log.Fatal("no tickers: pass them as arguments or configure portfolios")
	}

	httpClient := httpx.New(time.Duration(cfg.Server.RequestTimeoutSec) * time.Second)
	opts := []yahoo.Option{yahoo.WithHTTPClient(httpClient.HTTP)}
	if cfg.Quote.BaseURL != "" {
		opts = append(opts, yahoo.WithBaseURL(cfg.Quote.BaseURL))
	}
	fetcher := quote.NewFetcher(yahoo.New(opts...), nil, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSec)*time.Second)
	defer cancel()

	rows := make([]row, 0, len(tickers))
	for _, t := range tickers {
		q := fetcher.Fetch(ctx, t)
		r := row{Ticker: t, Price: q.Price, Interval: q.Source}
		if q.ObservedAt != nil {
			r.TimeUTC = q.ObservedAt.UTC().Format(time.RFC3339)
		}
		rows = append(rows, r)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
