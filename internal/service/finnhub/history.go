package finnhub

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"RiskVaR/internal/domain/models"
	domsvc "RiskVaR/internal/domain/service"
	"RiskVaR/internal/service/ratelimit"
	pkghttp "RiskVaR/pkg/http"
)

// History fetches daily close candles from the Finnhub REST API. It is the
// PriceSource the risk pipeline pulls lookback windows from when the local
// price store has no coverage.
type History struct {
	apiKey  string
	baseURL string
	client  *pkghttp.Client
	limiter *ratelimit.Limiter

	// Finnhub free tier allows 60 req/min
	rpsCapacity float64
	rpsRefill   float64
}

// NewHistory creates a Finnhub candle fetcher.
func NewHistory(apiKey, baseURL string, client *pkghttp.Client, limiter *ratelimit.Limiter) *History {
	if baseURL == "" {
		baseURL = "https://finnhub.io/api/v1"
	}
	return &History{
		apiKey:      apiKey,
		baseURL:     baseURL,
		client:      client,
		limiter:     limiter,
		rpsCapacity: 30,
		rpsRefill:   1,
	}
}

type candleResponse struct {
	Close  []float64 `json:"c"`
	Time   []int64   `json:"t"`
	Status string    `json:"s"`
}

// FetchDaily retrieves daily closes for [from, to]. One shot, no retries;
// callers own retry policy.
func (h *History) FetchDaily(ctx context.Context, ticker string, from, to time.Time) (models.PriceSeries, error) {
	if ticker == "" {
		return models.PriceSeries{}, fmt.Errorf("ticker empty")
	}
	if h.limiter != nil && !h.limiter.Allow("finnhub_rest", h.rpsCapacity, h.rpsRefill) {
		return models.PriceSeries{}, fmt.Errorf("finnhub rate limit exceeded")
	}

	var resp candleResponse
	err := h.client.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodGet,
		URL:    h.baseURL + "/stock/candle",
		QueryParams: map[string][]string{
			"symbol":     {ticker},
			"resolution": {"D"},
			"from":       {strconv.FormatInt(from.Unix(), 10)},
			"to":         {strconv.FormatInt(to.Unix(), 10)},
			"token":      {h.apiKey},
		},
	}, &resp)
	if err != nil {
		return models.PriceSeries{}, fmt.Errorf("finnhub candles %s: %w", ticker, err)
	}
	if resp.Status == "no_data" {
		return models.PriceSeries{Ticker: ticker}, nil
	}
	if resp.Status != "ok" {
		return models.PriceSeries{}, fmt.Errorf("finnhub candles %s: status %q", ticker, resp.Status)
	}
	if len(resp.Close) != len(resp.Time) {
		return models.PriceSeries{}, fmt.Errorf("finnhub candles %s: %d closes vs %d timestamps", ticker, len(resp.Close), len(resp.Time))
	}

	out := models.PriceSeries{Ticker: ticker, Points: make([]models.PricePoint, 0, len(resp.Close))}
	for i, c := range resp.Close {
		out.Points = append(out.Points, models.PricePoint{
			Date:  time.Unix(resp.Time[i], 0).UTC().Truncate(24 * time.Hour),
			Close: c,
		})
	}
	out.SortAndDedup()
	return out, nil
}

var _ domsvc.PriceSource = (*History)(nil)
