package usecase

import (
	"context"
	"fmt"
	"time"

	"RiskVaR/internal/domain/models"
	domrepo "RiskVaR/internal/domain/repository"
	"RiskVaR/pkg/util"
)

// PricesUseCase provides business logic for retrieving stored daily closes.
type PricesUseCase struct {
	store domrepo.PriceStore
}

func NewPricesUseCase(store domrepo.PriceStore) *PricesUseCase {
	return &PricesUseCase{store: store}
}

type GetPricesParams struct {
	Ticker string
	From   time.Time
	To     time.Time
	Limit  int
}

type GetPricesResult struct {
	Ticker string              `json:"ticker"`
	From   time.Time           `json:"from"`
	To     time.Time           `json:"to"`
	Count  int                 `json:"count"`
	Points []models.PricePoint `json:"points"`
}

func (uc *PricesUseCase) GetDaily(ctx context.Context, p GetPricesParams) (*GetPricesResult, error) {
	if p.Ticker == "" {
		return nil, fmt.Errorf("ticker required")
	}
	if p.From.After(p.To) {
		return nil, fmt.Errorf("from must be <= to")
	}
	p.From, p.To = util.AlignFromTo(p.From, p.To)
	if p.Limit <= 0 {
		p.Limit = 10000
	}
	if p.Limit > 50000 {
		p.Limit = 50000
	}

	series, err := uc.store.GetDaily(ctx, p.Ticker, p.From, p.To)
	if err != nil {
		return nil, fmt.Errorf("get daily prices: %w", err)
	}
	points := series.Points
	if len(points) > p.Limit {
		points = points[len(points)-p.Limit:]
	}

	return &GetPricesResult{
		Ticker: p.Ticker,
		From:   p.From,
		To:     p.To,
		Count:  len(points),
		Points: points,
	}, nil
}
