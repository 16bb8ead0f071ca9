package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"RiskVaR/internal/domain/models"
)

type fakePriceStore struct {
	stored []models.PriceSeries
	err    error
}

func (f *fakePriceStore) StoreDaily(ctx context.Context, s models.PriceSeries) error {
	if f.err != nil {
		return f.err
	}
	f.stored = append(f.stored, s)
	return nil
}

func (f *fakePriceStore) GetDaily(ctx context.Context, ticker string, from, to time.Time) (models.PriceSeries, error) {
	return models.PriceSeries{}, nil
}

func TestDailyRollupStoresBars(t *testing.T) {
	day := time.Now().UTC().Truncate(24 * time.Hour)
	ticks := &fakeTickStorage{stored: []*models.Tick{
		{Symbol: "AAPL", Timestamp: day.Add(10 * time.Hour).Unix(), Price: 100},
		{Symbol: "AAPL", Timestamp: day.Add(20 * time.Hour).Unix(), Price: 105},
	}}
	prices := &fakePriceStore{}
	j := NewDailyRollup(ticks, prices, []string{"AAPL"}, nil)

	if err := j.Handle(context.Background(), nil); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(prices.stored) != 1 {
		t.Fatalf("series stored: %d", len(prices.stored))
	}
	s := prices.stored[0]
	if s.Ticker != "AAPL" || s.Len() != 1 || s.Points[0].Close != 105 {
		t.Fatalf("series: %+v", s)
	}
}

func TestDailyRollupNoTicksIsNoop(t *testing.T) {
	prices := &fakePriceStore{}
	j := NewDailyRollup(&fakeTickStorage{}, prices, []string{"AAPL"}, nil)
	if err := j.Handle(context.Background(), nil); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(prices.stored) != 0 {
		t.Fatalf("unexpected store call")
	}
}

func TestDailyRollupStoreFailureReported(t *testing.T) {
	day := time.Now().UTC().Truncate(24 * time.Hour)
	ticks := &fakeTickStorage{stored: []*models.Tick{
		{Symbol: "AAPL", Timestamp: day.Add(time.Hour).Unix(), Price: 100},
	}}
	prices := &fakePriceStore{err: errors.New("insert failed")}
	j := NewDailyRollup(ticks, prices, []string{"AAPL"}, nil)
	if err := j.Handle(context.Background(), nil); err == nil {
		t.Fatalf("expected rollup error")
	}
}
