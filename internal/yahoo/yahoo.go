package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/JungleMango/qqq-dashboard/internal/quote"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// Yahoo rejects the default Go user agent.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Chrome/91.0.4472.124"

// ErrNoPrice is returned by Latest when the chart metadata carries no
// usable market price for the symbol.
var ErrNoPrice = errors.New("yahoo: no market price in response")

// HTTPClient describes an HTTP client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client queries the Yahoo Finance v8 chart API. It implements
// quote.Upstream: History maps a tier onto the range/interval query
// parameters, and Latest reads the regular market price from the chart
// metadata (the closest thing the API has to a snapshot endpoint).
type Client struct {
	// baseURL is the base URL for the API.
	baseURL string
	// httpClient performs the requests.
	httpClient HTTPClient
	// header contains additional headers to be sent with each request.
	header http.Header
}

// Option is a configuration option for the Yahoo client.
type Option func(*Client)

// WithBaseURL sets the base URL for the API.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(httpClient HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithHeader sets additional headers to be sent with each request.
func WithHeader(header http.Header) Option {
	return func(c *Client) {
		for key, values := range header {
			for _, value := range values {
				c.header.Add(key, value)
			}
		}
	}
}

// New creates a Yahoo chart API client.
func New(options ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: http.DefaultClient,
		header:     http.Header{},
	}
	c.header.Set("User-Agent", defaultUserAgent)
	for _, option := range options {
		option(c)
	}
	return c
}

// chart API response shapes; only the fields we read.
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *apiError     `json:"error"`
	} `json:"chart"`
}

type apiError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type chartResult struct {
	Meta       chartMeta `json:"meta"`
	Timestamp  []int64   `json:"timestamp"`
	Indicators struct {
		Quote []chartQuote `json:"quote"`
	} `json:"indicators"`
}

type chartMeta struct {
	Currency           string   `json:"currency"`
	Symbol             string   `json:"symbol"`
	RegularMarketPrice *float64 `json:"regularMarketPrice"`
	RegularMarketTime  int64    `json:"regularMarketTime"`
}

// chartQuote uses pointer slices because Yahoo emits null for gaps.
type chartQuote struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int64   `json:"volume"`
}

// History returns the closing-price series for one tier, oldest first.
// Gaps (null closes) are skipped. An answer with no observations is a
// normal miss and returns an empty series with a nil error.
func (c *Client) History(ctx context.Context, ticker string, tier quote.Tier) ([]quote.Bar, error) {
	res, err := c.chart(ctx, ticker, tier.Range, tier.Interval)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, nil
	}
	if len(res.Indicators.Quote) == 0 {
		return nil, nil
	}
	closes := res.Indicators.Quote[0].Close
	bars := make([]quote.Bar, 0, len(res.Timestamp))
	for i, ts := range res.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		bars = append(bars, quote.Bar{
			Close: *closes[i],
			Time:  time.Unix(ts, 0).UTC(),
		})
	}
	return bars, nil
}

// Latest returns the regular market price from the chart metadata.
func (c *Client) Latest(ctx context.Context, ticker string) (float64, error) {
	res, err := c.chart(ctx, ticker, "1d", "1d")
	if err != nil {
		return 0, err
	}
	if res == nil || res.Meta.RegularMarketPrice == nil {
		return 0, ErrNoPrice
	}
	return *res.Meta.RegularMarketPrice, nil
}

// chart performs one chart API call. A response with no result entries
// returns (nil, nil): the upstream answered but has nothing for us.
func (c *Client) chart(ctx context.Context, ticker, rng, interval string) (*chartResult, error) {
	q := url.Values{}
	q.Set("range", rng)
	q.Set("interval", interval)
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(ticker), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header = c.header.Clone()

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("performing request: %w", err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK, http.StatusNotFound:
		// 404 still carries a chart error body worth decoding.
	case http.StatusTooManyRequests:
		return nil, fmt.Errorf("rate limited")
	default:
		b, _ := io.ReadAll(io.LimitReader(res.Body, 2<<10))
		return nil, fmt.Errorf("unexpected status code %d: %s", res.StatusCode, string(b))
	}

	var chart chartResponse
	if err := json.NewDecoder(res.Body).Decode(&chart); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("chart error: %s: %s", chart.Chart.Error.Code, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 {
		return nil, nil
	}
	return &chart.Chart.Result[0], nil
}
