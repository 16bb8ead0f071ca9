package service

import (
	"context"
	"time"

	"RiskVaR/internal/domain/models"
)

// PriceSource fetches a complete historical price series for a ticker over
// a date range, as a single atomic call: it either returns the full series
// or fails outright. Retrieval failures are the source's concern; the risk
// pipeline never retries.
type PriceSource interface {
	FetchDaily(ctx context.Context, ticker string, from, to time.Time) (models.PriceSeries, error)
}
