package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"RiskVaR/internal/domain/models"
	domrepo "RiskVaR/internal/domain/repository"
	pkgch "RiskVaR/pkg/clickhouse"
	applogger "RiskVaR/pkg/logger"
)

// CHReportStore persists computed risk reports to ClickHouse for audit.
// Headline numbers are stored as columns for cheap querying; the full
// report rides along as JSON.
type CHReportStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHReportStore(ch *pkgch.Client) *CHReportStore {
	return &CHReportStore{db: ch.DB(), table: "riskvar.var_reports"}
}

// SetLogger injects a structured logger.
func (s *CHReportStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHReportStore) Save(ctx context.Context, r *models.RiskReport) error {
	if r == nil {
		return fmt.Errorf("report is nil")
	}
	start := time.Now()
	payload, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	q := fmt.Sprintf(`INSERT INTO %s
        (generated_at, symbol, confidence, horizon_days, portfolio_value,
         hist_var, param_var, mc_var, hist_dollar, param_dollar, mc_dollar, report)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, s.table)
	_, err = s.db.ExecContext(ctx, q,
		r.GeneratedAt,
		r.Ticker,
		r.Confidence,
		r.HorizonDays,
		r.PortfolioValue,
		r.Historical.Fraction,
		r.Parametric.Fraction,
		r.MonteCarlo.Fraction,
		r.Historical.Dollar,
		r.Parametric.Dollar,
		r.MonteCarlo.Dollar,
		string(payload),
	)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse save_report error",
				applogger.String("table", s.table),
				applogger.String("symbol", r.Ticker),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("save report: %w", err)
	}
	if s.l != nil {
		s.l.Info("clickhouse save_report ok",
			applogger.String("table", s.table),
			applogger.String("symbol", r.Ticker),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

func (s *CHReportStore) Recent(ctx context.Context, ticker string, limit int) ([]models.RiskReport, error) {
	if limit <= 0 {
		limit = 20
	}
	const qtpl = `
        SELECT report
        FROM %s
        WHERE symbol = ?
        ORDER BY generated_at DESC
        LIMIT ?
    `
	q := fmt.Sprintf(qtpl, s.table)
	rows, err := s.db.QueryContext(ctx, q, ticker, limit)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse recent_reports query error",
				applogger.String("table", s.table),
				applogger.String("symbol", ticker),
				applogger.Error(err),
			)
		}
		return nil, fmt.Errorf("recent reports: %w", err)
	}
	defer rows.Close()

	out := make([]models.RiskReport, 0, limit)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		var r models.RiskReport
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			// skip rows written by incompatible older builds
			if s.l != nil {
				s.l.Warn("skipping undecodable report row",
					applogger.String("symbol", ticker),
					applogger.Error(err),
				)
			}
			continue
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

var _ domrepo.ReportStore = (*CHReportStore)(nil)
