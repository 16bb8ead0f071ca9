package repository

import (
	"context"
	"time"

	"RiskVaR/internal/domain/models"
)

// PriceStore provides read/write access to the daily close history that VaR
// runs are computed from.
type PriceStore interface {
	StoreDaily(ctx context.Context, series models.PriceSeries) error
	GetDaily(ctx context.Context, ticker string, from, to time.Time) (models.PriceSeries, error)
}
