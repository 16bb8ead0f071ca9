package usecase

import (
	"context"
	"fmt"

	"RiskVaR/internal/domain/models"
	domrepo "RiskVaR/internal/domain/repository"
)

// ReportsUseCase serves the persisted report history.
type ReportsUseCase struct {
	store domrepo.ReportStore
}

func NewReportsUseCase(store domrepo.ReportStore) *ReportsUseCase {
	return &ReportsUseCase{store: store}
}

type RecentReportsResult struct {
	Ticker  string              `json:"ticker"`
	Count   int                 `json:"count"`
	Reports []models.RiskReport `json:"reports"`
}

func (uc *ReportsUseCase) Recent(ctx context.Context, ticker string, limit int) (*RecentReportsResult, error) {
	if uc.store == nil {
		return nil, fmt.Errorf("report store not configured")
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 500 {
		limit = 500
	}
	reports, err := uc.store.Recent(ctx, ticker, limit)
	if err != nil {
		return nil, fmt.Errorf("recent reports: %w", err)
	}
	return &RecentReportsResult{Ticker: ticker, Count: len(reports), Reports: reports}, nil
}
