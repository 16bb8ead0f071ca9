package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"RiskVaR/internal/domain/models"
	pkgch "RiskVaR/pkg/clickhouse"
	applogger "RiskVaR/pkg/logger"
)

// CHPriceStore implements PriceStore backed by ClickHouse.
// Daily closes live in riskvar.px_daily; live ticks land in px_ticks and are
// rolled into px_daily out of band.
type CHPriceStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHPriceStore(ch *pkgch.Client) *CHPriceStore {
	return &CHPriceStore{db: ch.DB(), table: "riskvar.px_daily"}
}

// SetLogger injects a structured logger.
func (s *CHPriceStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHPriceStore) StoreDaily(ctx context.Context, series models.PriceSeries) error {
	if series.Len() == 0 {
		return nil
	}
	start := time.Now()
	values := make([]string, 0, series.Len())
	args := make([]interface{}, 0, series.Len()*3)
	for _, p := range series.Points {
		values = append(values, "(?, ?, ?)")
		args = append(args, p.Date, series.Ticker, p.Close)
	}
	q := fmt.Sprintf("INSERT INTO %s (d, symbol, close) VALUES %s", s.table, strings.Join(values, ","))
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse store_daily error",
				applogger.String("table", s.table),
				applogger.String("symbol", series.Ticker),
				applogger.Int("rows", series.Len()),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("store daily: %w", err)
	}
	if s.l != nil {
		s.l.Info("clickhouse store_daily ok",
			applogger.String("table", s.table),
			applogger.String("symbol", series.Ticker),
			applogger.Int("rows", series.Len()),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

func (s *CHPriceStore) GetDaily(ctx context.Context, ticker string, from, to time.Time) (models.PriceSeries, error) {
	start := time.Now()
	const qtpl = `
        SELECT d, close
        FROM %s
        WHERE symbol = ? AND d >= ? AND d <= ?
        ORDER BY d ASC
    `
	q := fmt.Sprintf(qtpl, s.table)
	rows, err := s.db.QueryContext(ctx, q, ticker, from, to)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse get_daily query error",
				applogger.String("table", s.table),
				applogger.String("symbol", ticker),
				applogger.Error(err),
			)
		}
		return models.PriceSeries{}, fmt.Errorf("get daily: %w", err)
	}
	defer rows.Close()

	out := models.PriceSeries{Ticker: ticker, Points: make([]models.PricePoint, 0, 512)}
	for rows.Next() {
		var p models.PricePoint
		if err := rows.Scan(&p.Date, &p.Close); err != nil {
			if s.l != nil {
				s.l.Error("clickhouse get_daily scan error",
					applogger.String("table", s.table),
					applogger.String("symbol", ticker),
					applogger.Error(err),
				)
			}
			return models.PriceSeries{}, fmt.Errorf("scan price: %w", err)
		}
		out.Points = append(out.Points, p)
	}
	if err := rows.Err(); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse get_daily rows error",
				applogger.String("table", s.table),
				applogger.String("symbol", ticker),
				applogger.Error(err),
			)
		}
		return models.PriceSeries{}, fmt.Errorf("rows: %w", err)
	}
	// ReplacingMergeTree may hand back unmerged duplicates
	out.SortAndDedup()
	if s.l != nil {
		s.l.Info("clickhouse get_daily ok",
			applogger.String("table", s.table),
			applogger.String("symbol", ticker),
			applogger.Int("rows", out.Len()),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return out, nil
}
