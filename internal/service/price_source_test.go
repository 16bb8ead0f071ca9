package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"RiskVaR/internal/domain/models"
	pkgcache "RiskVaR/pkg/cache"
)

type fakeStore struct {
	series models.PriceSeries
	getErr error
	stored []models.PriceSeries
}

func (f *fakeStore) StoreDaily(ctx context.Context, s models.PriceSeries) error {
	f.stored = append(f.stored, s)
	return nil
}

func (f *fakeStore) GetDaily(ctx context.Context, ticker string, from, to time.Time) (models.PriceSeries, error) {
	if f.getErr != nil {
		return models.PriceSeries{}, f.getErr
	}
	return f.series, nil
}

type fakeRemote struct {
	series models.PriceSeries
	err    error
	calls  int
}

func (f *fakeRemote) FetchDaily(ctx context.Context, ticker string, from, to time.Time) (models.PriceSeries, error) {
	f.calls++
	if f.err != nil {
		return models.PriceSeries{}, f.err
	}
	return f.series, nil
}

func seriesOver(ticker string, from, to time.Time) models.PriceSeries {
	s := models.PriceSeries{Ticker: ticker}
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		s.Points = append(s.Points, models.PricePoint{Date: d, Close: 100})
	}
	return s
}

func TestStoredSourceServesFromStore(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	store := &fakeStore{series: seriesOver("AAPL", from, to)}
	remote := &fakeRemote{}
	src := NewStoredPriceSource(store, remote, nil, 0, nil)

	s, err := src.FetchDaily(context.Background(), "AAPL", from, to)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if s.Len() == 0 {
		t.Fatalf("empty series")
	}
	if remote.calls != 0 {
		t.Fatalf("remote should not be hit when store covers the window")
	}
}

func TestStoredSourceFallsBackAndWritesBack(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	store := &fakeStore{} // empty store, no coverage
	remote := &fakeRemote{series: seriesOver("AAPL", from, to)}
	src := NewStoredPriceSource(store, remote, nil, 0, nil)

	s, err := src.FetchDaily(context.Background(), "AAPL", from, to)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if remote.calls != 1 {
		t.Fatalf("remote calls: %d", remote.calls)
	}
	if len(store.stored) != 1 {
		t.Fatalf("fetched series not written back")
	}
	if s.Len() != store.stored[0].Len() {
		t.Fatalf("write-back differs from returned series")
	}
}

func TestStoredSourceStoreErrorFallsBack(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	store := &fakeStore{getErr: errors.New("clickhouse down")}
	remote := &fakeRemote{series: seriesOver("AAPL", from, to)}
	src := NewStoredPriceSource(store, remote, nil, 0, nil)

	if _, err := src.FetchDaily(context.Background(), "AAPL", from, to); err != nil {
		t.Fatalf("fetch should fall back, got %v", err)
	}
	if remote.calls != 1 {
		t.Fatalf("remote calls: %d", remote.calls)
	}
}

func TestStoredSourceRemoteErrorPropagates(t *testing.T) {
	wantErr := errors.New("finnhub unavailable")
	src := NewStoredPriceSource(&fakeStore{}, &fakeRemote{err: wantErr}, nil, 0, nil)
	_, err := src.FetchDaily(context.Background(), "AAPL", time.Now().AddDate(0, -1, 0), time.Now())
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected remote error, got %v", err)
	}
}

func TestStoredSourceCacheShortCircuits(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	remote := &fakeRemote{series: seriesOver("AAPL", from, to)}
	src := NewStoredPriceSource(nil, remote, pkgcache.NewMemoryCache(), 0, nil)

	if _, err := src.FetchDaily(context.Background(), "AAPL", from, to); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	s, err := src.FetchDaily(context.Background(), "AAPL", from, to)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if remote.calls != 1 {
		t.Fatalf("second fetch should be served from cache, remote calls: %d", remote.calls)
	}
	if s.Len() == 0 {
		t.Fatalf("cached series empty")
	}
}

func TestStoredSourceNoSources(t *testing.T) {
	src := NewStoredPriceSource(nil, nil, nil, 0, nil)
	if _, err := src.FetchDaily(context.Background(), "AAPL", time.Now(), time.Now()); err == nil {
		t.Fatalf("expected error with no sources")
	}
}
