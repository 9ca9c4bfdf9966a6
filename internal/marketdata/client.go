// Package marketdata fetches OHLC aggregates from a Polygon-style API,
// rotating across rate-limited API keys.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"ai-advisor-stream-service/internal/observability/metrics"
)

// Bar is one OHLC aggregate window.
type Bar struct {
	Timestamp int64   `json:"t"`
	Open      float64 `json:"o"`
	High      float64 `json:"h"`
	Low       float64 `json:"l"`
	Close     float64 `json:"c"`
	Volume    float64 `json:"v"`
}

// Bars is the aggregate response for one ticker.
type Bars struct {
	Ticker       string `json:"ticker"`
	ResultsCount int    `json:"resultsCount"`
	Results      []Bar  `json:"results"`
}

// Fetcher is the capability the intent router consumes.
type Fetcher interface {
	DailyBars(ctx context.Context, ticker string) (*Bars, error)
}

// Client fetches market data over HTTP.
type Client struct {
	baseURL    string
	ring       *KeyRing
	httpClient *http.Client
	metrics    *metrics.Metrics
	window     time.Duration
}

// NewClient creates a market data client.
func NewClient(baseURL string, ring *KeyRing, m *metrics.Metrics) *Client {
	if m == nil {
		m = metrics.DefaultMetrics
	}
	return &Client{
		baseURL:    baseURL,
		ring:       ring,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		metrics:    m,
		window:     30 * 24 * time.Hour,
	}
}

// DailyBars fetches one month of daily OHLC aggregates for a ticker.
func (c *Client) DailyBars(ctx context.Context, ticker string) (*Bars, error) {
	apiKey, err := c.ring.Next()
	if err != nil {
		c.metrics.RecordKeysExhausted()
		log.Error().Str("ticker", ticker).Msg("No available market data API keys")
		return nil, err
	}

	to := time.Now().UTC()
	from := to.Add(-c.window)
	endpoint := fmt.Sprintf("%s/v2/aggs/ticker/%s/range/1/day/%s/%s",
		c.baseURL, url.PathEscape(ticker),
		from.Format("2006-01-02"), to.Format("2006-01-02"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build market data request: %w", err)
	}
	q := req.URL.Query()
	q.Set("apiKey", apiKey)
	q.Set("adjusted", "true")
	q.Set("sort", "asc")
	q.Set("limit", "120")
	req.URL.RawQuery = q.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.RecordMarketData("transport_error")
		return nil, fmt.Errorf("market data request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.RecordMarketData("api_error")
		log.Error().Int("status", resp.StatusCode).Str("ticker", ticker).Msg("Market data API error")
		return nil, fmt.Errorf("market data API status %d", resp.StatusCode)
	}

	var bars Bars
	if err := json.NewDecoder(resp.Body).Decode(&bars); err != nil {
		c.metrics.RecordMarketData("decode_error")
		return nil, fmt.Errorf("decode market data response: %w", err)
	}

	c.metrics.RecordMarketData("ok")
	return &bars, nil
}
