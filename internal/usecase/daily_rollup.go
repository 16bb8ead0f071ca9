package usecase

import (
	"context"
	"fmt"
	"time"

	domrepo "RiskVaR/internal/domain/repository"
	"RiskVaR/internal/services/rollup"
	applogger "RiskVaR/pkg/logger"
	"RiskVaR/pkg/queue"
)

// DailyRollup folds the raw tick table into daily close bars so the risk
// pipeline can use intraday coverage before the vendor publishes official
// closes. Runs as a scheduled job.
type DailyRollup struct {
	ticks   domrepo.TickStorage
	prices  domrepo.PriceStore
	symbols []string
	window  time.Duration
	l       *applogger.Logger
}

func NewDailyRollup(ticks domrepo.TickStorage, prices domrepo.PriceStore, symbols []string, l *applogger.Logger) *DailyRollup {
	return &DailyRollup{
		ticks:   ticks,
		prices:  prices,
		symbols: symbols,
		window:  48 * time.Hour, // re-roll yesterday too, in case of late ticks
		l:       l,
	}
}

func (j *DailyRollup) Name() string { return "daily_rollup" }
func (j *DailyRollup) Type() string { return "schedule" }

func (j *DailyRollup) Handle(ctx context.Context, payload interface{}) error {
	now := time.Now().UTC()
	from, to := rollup.AlignWindow(now.Add(-j.window), now)

	var firstErr error
	for _, sym := range j.symbols {
		if err := j.rollupSymbol(ctx, sym, from, to); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			if j.l != nil {
				j.l.Error("daily rollup failed",
					applogger.String("symbol", sym),
					applogger.Error(err),
				)
			}
		}
	}
	return firstErr
}

func (j *DailyRollup) rollupSymbol(ctx context.Context, symbol string, from, to time.Time) error {
	ticks, err := j.ticks.Query(ctx, symbol, from, to, 1_000_000)
	if err != nil {
		return fmt.Errorf("query ticks %s: %w", symbol, err)
	}
	if len(ticks) == 0 {
		return nil
	}
	series := rollup.DailyFromTicks(symbol, ticks)
	if series.Len() == 0 {
		return nil
	}
	if err := j.prices.StoreDaily(ctx, series); err != nil {
		return fmt.Errorf("store daily %s: %w", symbol, err)
	}
	if j.l != nil {
		j.l.Info("daily rollup ok",
			applogger.String("symbol", symbol),
			applogger.Int("ticks", len(ticks)),
			applogger.Int("days", series.Len()),
		)
	}
	return nil
}

// RunEvery schedules the rollup on a fixed interval until ctx is done.
func (j *DailyRollup) RunEvery(ctx context.Context, every time.Duration) {
	if every <= 0 {
		every = time.Hour
	}
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				_ = j.Handle(ctx, nil)
			}
		}
	}()
}

// RunVia schedules the rollup through a shared queue instead of executing
// in-process, so multi-node deployments run each tick on a single worker.
func (j *DailyRollup) RunVia(ctx context.Context, q queue.QueueService, every time.Duration) {
	if every <= 0 {
		every = time.Hour
	}
	go func() {
		ticker := time.NewTicker(every)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := q.PublishMessage(ctx, j.Type(), map[string]interface{}{"job": j.Name()}); err != nil && j.l != nil {
					j.l.Error("rollup enqueue failed", applogger.Error(err))
				}
			}
		}
	}()
}

var _ queue.Job = (*DailyRollup)(nil)
