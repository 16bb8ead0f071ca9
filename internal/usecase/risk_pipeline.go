package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"RiskVaR/internal/domain/models"
	domrepo "RiskVaR/internal/domain/repository"
	domsvc "RiskVaR/internal/domain/service"
	"RiskVaR/internal/varcalc"
)

// RiskPipeline runs the end-to-end VaR computation: fetch prices, compute
// returns, run the three estimators, scale to the portfolio, assemble a
// report. The stages are strictly sequential and the first failure is
// terminal; no partial report is ever returned. Each run is a pure function
// of its inputs (plus Monte Carlo sampling), so concurrent runs need no
// locking.
type RiskPipeline struct {
	source  domsvc.PriceSource
	reports domrepo.ReportStore // optional
	metrics domrepo.Metrics     // optional
}

func NewRiskPipeline(source domsvc.PriceSource, reports domrepo.ReportStore, metrics domrepo.Metrics) *RiskPipeline {
	return &RiskPipeline{source: source, reports: reports, metrics: metrics}
}

// Run fetches the lookback window for req.Ticker and computes the report.
func (p *RiskPipeline) Run(ctx context.Context, req models.VarRequest) (*models.RiskReport, error) {
	start := time.Now()
	to := time.Now().UTC().Truncate(24 * time.Hour)
	from := to.AddDate(0, 0, -req.LookbackDays)

	series, err := p.source.FetchDaily(ctx, req.Ticker, from, to)
	if err != nil {
		p.recordError("fetch_prices")
		return nil, fmt.Errorf("fetch prices %s: %w", req.Ticker, err)
	}

	report, err := p.RunOnSeries(series, req)
	if err != nil {
		return nil, err
	}

	if p.reports != nil {
		// Report persistence is peripheral: a storage hiccup must not
		// discard a correctly computed report.
		if err := p.reports.Save(ctx, report); err != nil {
			p.recordError("report_persist")
		}
	}
	if p.metrics != nil {
		p.metrics.RecordLatency("pipeline_run", time.Since(start).Seconds())
	}
	return report, nil
}

// RunOnSeries is the compute stage on an already-fetched series. The CLI
// uses it directly for file-based input.
func (p *RiskPipeline) RunOnSeries(series models.PriceSeries, req models.VarRequest) (*models.RiskReport, error) {
	rets, err := varcalc.Returns(series.Closes(), varcalc.ReturnMethod(req.ReturnMethod))
	if err != nil {
		p.recordError("compute_returns")
		return nil, err
	}

	summary := varcalc.Describe(rets)
	params := varcalc.DistParams{Mu: summary.Mean, Sigma: summary.StdDev}

	hist, err := varcalc.Historical(rets, req.Confidence)
	if err != nil {
		return nil, err
	}
	par, err := varcalc.ParametricFromParams(params, req.Confidence)
	if err != nil {
		return nil, err
	}
	sims := req.Simulations
	if sims <= 0 {
		sims = varcalc.DefaultSimulations
	}
	var src rand.Source
	if req.Seed != 0 {
		src = varcalc.NewSeededSource(req.Seed)
	}
	mc, err := varcalc.MonteCarloFromParams(params, req.Confidence, sims, src)
	if err != nil {
		return nil, err
	}

	report := &models.RiskReport{
		Ticker:         req.Ticker,
		PortfolioValue: req.Value,
		Confidence:     req.Confidence,
		HorizonDays:    req.HorizonDays,
		Simulations:    sims,
		ReturnMethod:   req.ReturnMethod,
		Stats: models.ReturnStats{
			Mean:   summary.Mean,
			StdDev: summary.StdDev,
			Min:    summary.Min,
			Max:    summary.Max,
			N:      summary.N,
		},
		GeneratedAt: time.Now().UTC(),
	}
	for _, m := range []struct {
		method   models.Method
		fraction float64
		dst      *models.ScaledVar
	}{
		{models.MethodHistorical, hist, &report.Historical},
		{models.MethodParametric, par, &report.Parametric},
		{models.MethodMonteCarlo, mc, &report.MonteCarlo},
	} {
		dollar, err := varcalc.ScaleToPortfolio(m.fraction, req.Value, req.HorizonDays)
		if err != nil {
			p.recordError("scale")
			return nil, err
		}
		*m.dst = models.ScaledVar{
			VarEstimate: models.VarEstimate{
				Method:     m.method,
				Confidence: req.Confidence,
				Fraction:   m.fraction,
			},
			PortfolioValue: req.Value,
			HorizonDays:    req.HorizonDays,
			Dollar:         dollar,
		}
		if p.metrics != nil {
			p.metrics.RecordReport(req.Ticker, string(m.method))
		}
	}
	return report, nil
}

// Distribution fetches the lookback window and bins the return series for
// charting.
func (p *RiskPipeline) Distribution(ctx context.Context, req models.DistributionRequest) (*models.Histogram, error) {
	to := time.Now().UTC().Truncate(24 * time.Hour)
	from := to.AddDate(0, 0, -req.LookbackDays)

	series, err := p.source.FetchDaily(ctx, req.Ticker, from, to)
	if err != nil {
		p.recordError("fetch_prices")
		return nil, fmt.Errorf("fetch prices %s: %w", req.Ticker, err)
	}
	rets, err := varcalc.Returns(series.Closes(), varcalc.ReturnMethod(req.ReturnMethod))
	if err != nil {
		return nil, err
	}
	return BinReturns(rets, req.Bins), nil
}

func (p *RiskPipeline) recordError(kind string) {
	if p.metrics != nil {
		p.metrics.RecordError(kind)
	}
}

// BinReturns builds an equal-width histogram over [min, max] of the series.
func BinReturns(returns []float64, bins int) *models.Histogram {
	if bins < 1 {
		bins = 1
	}
	h := &models.Histogram{
		BinEdges: make([]float64, bins+1),
		Counts:   make([]int, bins),
	}
	if len(returns) == 0 {
		return h
	}
	s := varcalc.Describe(returns)
	lo, hi := s.Min, s.Max
	if lo == hi {
		// degenerate: single spike, widen artificially so edges are distinct
		lo -= 0.5
		hi += 0.5
	}
	width := (hi - lo) / float64(bins)
	for i := range h.BinEdges {
		h.BinEdges[i] = lo + float64(i)*width
	}
	for _, r := range returns {
		idx := int((r - lo) / width)
		if idx >= bins {
			idx = bins - 1 // max lands in the last bin
		}
		if idx < 0 {
			idx = 0
		}
		h.Counts[idx]++
	}
	return h
}
