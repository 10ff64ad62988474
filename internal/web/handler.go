package web

import (
	"context"
	_ "embed"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/JungleMango/qqq-dashboard/internal/portfolio"
	"github.com/JungleMango/qqq-dashboard/internal/quote"
	"github.com/JungleMango/qqq-dashboard/internal/valuation"
)

//go:embed static/index.html
var indexHTML []byte

// PriceSource resolves quotes for the dashboard. Satisfied by
// *quote.Service.
type PriceSource interface {
	GetPrices(ctx context.Context, tickers []string) []quote.Quote
}

// Handler serves the dashboard page and its JSON API.
type Handler struct {
	prices PriceSource
	// load returns the current portfolio set; called per request so
	// edits to portfolios.json show up without a restart.
	load func() portfolio.Set
	log  *zap.Logger
}

func New(prices PriceSource, load func() portfolio.Set, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{prices: prices, load: load, log: log}
}

// Routes builds the full handler chain.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", h.handleIndex)
	mux.HandleFunc("/healthz", h.handleHealthz)
	mux.HandleFunc("/api/quote", h.handleQuote)
	mux.HandleFunc("/api/portfolios", h.handlePortfolios)
	return withCORS(withGzip(recoverPanic(mux, h.log)))
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (h *Handler) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// quoteRow is one entry in the /api/quote response. A row either carries
// a price or an error marker, never both.
type quoteRow struct {
	Ticker   string   `json:"ticker"`
	Price    *float64 `json:"price,omitempty"`
	Interval string   `json:"interval,omitempty"`
	TimeUTC  string   `json:"time_utc,omitempty"`
	Error    string   `json:"error,omitempty"`
}

// handleQuote resolves either the tickers given in the query string or
// every distinct ticker across the configured portfolios. An empty ticker
// set is an empty array, not an error.
func (h *Handler) handleQuote(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var tickers []string
	if arg := r.URL.Query().Get("tickers"); strings.TrimSpace(arg) != "" {
		tickers = splitCSV(arg)
	} else {
		tickers = h.load().Tickers()
	}

	rows := make([]quoteRow, 0, len(tickers))
	for _, q := range h.prices.GetPrices(r.Context(), tickers) {
		if q.NoData() {
			rows = append(rows, quoteRow{Ticker: q.Ticker, Error: "No data"})
			continue
		}
		row := quoteRow{Ticker: q.Ticker, Price: q.Price, Interval: q.Source}
		if q.ObservedAt != nil {
			row.TimeUTC = q.ObservedAt.UTC().Format(time.RFC3339)
		}
		rows = append(rows, row)
	}
	writeJSON(w, rows)
}

// handlePortfolios prefetches quotes for every ticker in the configured
// portfolios and returns the valued reports. No portfolios is an empty
// array; an unpriceable holding degrades to null fields in its row.
func (h *Handler) handlePortfolios(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	set := h.load()
	if len(set.Portfolios) == 0 {
		writeJSON(w, []valuation.Report{})
		return
	}

	quotes := make(map[string]quote.Quote)
	for _, q := range h.prices.GetPrices(r.Context(), set.Tickers()) {
		quotes[q.Ticker] = q
	}
	writeJSON(w, valuation.ValueAll(set, quotes, time.Now()))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
