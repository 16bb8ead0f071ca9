package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"RiskVaR/internal/domain/models"
	domrepo "RiskVaR/internal/domain/repository"
	domsvc "RiskVaR/internal/domain/service"
	pkgcache "RiskVaR/pkg/cache"
	applogger "RiskVaR/pkg/logger"
)

// StoredPriceSource resolves daily closes store-first: if ClickHouse already
// covers the window it is served locally, otherwise the remote source is hit
// and the result written back for the next run.
type StoredPriceSource struct {
	store  domrepo.PriceStore
	remote domsvc.PriceSource
	cache  pkgcache.Service
	ttl    time.Duration
	l      *applogger.Logger
}

func NewStoredPriceSource(store domrepo.PriceStore, remote domsvc.PriceSource, cache pkgcache.Service, ttl time.Duration, l *applogger.Logger) *StoredPriceSource {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &StoredPriceSource{store: store, remote: remote, cache: cache, ttl: ttl, l: l}
}

func (s *StoredPriceSource) FetchDaily(ctx context.Context, ticker string, from, to time.Time) (models.PriceSeries, error) {
	key := cacheKey(ticker, from, to)

	if s.cache != nil {
		// series go through the cache serialized; string payloads are the one
		// representation every cache backend round-trips
		var raw string
		if err := s.cache.Get(ctx, key, &raw); err == nil && raw != "" {
			var cached models.PriceSeries
			if json.Unmarshal([]byte(raw), &cached) == nil && cached.Len() > 0 {
				return cached, nil
			}
		}
	}

	if s.store != nil {
		series, err := s.store.GetDaily(ctx, ticker, from, to)
		if err == nil && coversWindow(series, from, to) {
			s.cacheSet(ctx, key, series)
			return series, nil
		}
		if err != nil && s.l != nil {
			s.l.Warn("price store read failed, falling back to remote",
				applogger.String("symbol", ticker),
				applogger.Error(err),
			)
		}
	}

	if s.remote == nil {
		return models.PriceSeries{}, fmt.Errorf("no price source for %s", ticker)
	}
	series, err := s.remote.FetchDaily(ctx, ticker, from, to)
	if err != nil {
		return models.PriceSeries{}, err
	}

	// write-back is best effort; the caller already has its data
	if s.store != nil && series.Len() > 0 {
		if err := s.store.StoreDaily(ctx, series); err != nil && s.l != nil {
			s.l.Warn("price store write-back failed",
				applogger.String("symbol", ticker),
				applogger.Error(err),
			)
		}
	}
	s.cacheSet(ctx, key, series)
	return series, nil
}

func (s *StoredPriceSource) cacheSet(ctx context.Context, key string, series models.PriceSeries) {
	if s.cache == nil || series.Len() == 0 {
		return
	}
	b, err := json.Marshal(series)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(b), s.ttl); err != nil && s.l != nil {
		s.l.Debug("price cache set failed", applogger.String("key", key), applogger.Error(err))
	}
}

func cacheKey(ticker string, from, to time.Time) string {
	return fmt.Sprintf("px_daily:%s:%s:%s", ticker, from.Format("2006-01-02"), to.Format("2006-01-02"))
}

// coversWindow reports whether the stored series plausibly spans the request.
// Daily bars skip weekends and holidays, so coverage is judged with slack at
// both edges rather than exact boundary dates.
func coversWindow(series models.PriceSeries, from, to time.Time) bool {
	if series.Len() < 2 {
		return false
	}
	first := series.Points[0].Date
	last := series.Points[series.Len()-1].Date
	const slack = 5 * 24 * time.Hour
	return !first.After(from.Add(slack)) && !last.Before(to.Add(-slack))
}

var _ domsvc.PriceSource = (*StoredPriceSource)(nil)
