package usecase

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"RiskVaR/internal/domain/models"
	"RiskVaR/internal/varcalc"
)

type fakeSource struct {
	series models.PriceSeries
	err    error
	calls  int
}

func (f *fakeSource) FetchDaily(ctx context.Context, ticker string, from, to time.Time) (models.PriceSeries, error) {
	f.calls++
	if f.err != nil {
		return models.PriceSeries{}, f.err
	}
	return f.series, nil
}

type fakeReportStore struct {
	saved []*models.RiskReport
	err   error
}

func (f *fakeReportStore) Save(ctx context.Context, r *models.RiskReport) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, r)
	return nil
}

func (f *fakeReportStore) Recent(ctx context.Context, ticker string, limit int) ([]models.RiskReport, error) {
	return nil, nil
}

func goldenSeries() models.PriceSeries {
	closes := []float64{100, 102, 101, 105, 103, 107}
	s := models.PriceSeries{Ticker: "TEST"}
	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		s.Points = append(s.Points, models.PricePoint{Date: base.AddDate(0, 0, i), Close: c})
	}
	return s
}

func goldenRequest() models.VarRequest {
	return models.VarRequest{
		Ticker:       "TEST",
		Confidence:   0.95,
		Value:        100000,
		HorizonDays:  1,
		Simulations:  10000,
		LookbackDays: 730,
		ReturnMethod: "simple",
		Seed:         42,
	}
}

// End-to-end golden regression on the fixed price series from the simple
// return path: historical and parametric fractions and dollars are pinned.
func TestPipelineGoldenReport(t *testing.T) {
	src := &fakeSource{series: goldenSeries()}
	store := &fakeReportStore{}
	p := NewRiskPipeline(src, store, nil)

	report, err := p.Run(context.Background(), goldenRequest())
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	const wantHist = 0.017198879551820728
	const wantPar = 0.030880827359539134
	if math.Abs(report.Historical.Fraction-wantHist) > 1e-12 {
		t.Fatalf("historical fraction: got %v want %v", report.Historical.Fraction, wantHist)
	}
	if math.Abs(report.Parametric.Fraction-wantPar) > 1e-9 {
		t.Fatalf("parametric fraction: got %v want %v", report.Parametric.Fraction, wantPar)
	}
	// horizon 1: dollar VaR is exactly fraction * value
	if report.Historical.Dollar != report.Historical.Fraction*100000 {
		t.Fatalf("historical dollar: got %v", report.Historical.Dollar)
	}
	if report.Parametric.Dollar != report.Parametric.Fraction*100000 {
		t.Fatalf("parametric dollar: got %v", report.Parametric.Dollar)
	}
	if report.Stats.N != 5 {
		t.Fatalf("stats n: got %d", report.Stats.N)
	}
	if report.MonteCarlo.Fraction < 0 {
		t.Fatalf("monte carlo fraction negative: %v", report.MonteCarlo.Fraction)
	}
	if len(store.saved) != 1 {
		t.Fatalf("expected 1 persisted report, got %d", len(store.saved))
	}
}

// The report's stored mean/std must reproduce its parametric fraction
// exactly when fed back through the formula.
func TestPipelineReportRoundTrip(t *testing.T) {
	p := NewRiskPipeline(&fakeSource{series: goldenSeries()}, nil, nil)
	report, err := p.Run(context.Background(), goldenRequest())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	params := varcalc.DistParams{Mu: report.Stats.Mean, Sigma: report.Stats.StdDev}
	again, err := varcalc.ParametricFromParams(params, report.Confidence)
	if err != nil {
		t.Fatalf("from params: %v", err)
	}
	if again != report.Parametric.Fraction {
		t.Fatalf("round trip drifted: %v vs %v", again, report.Parametric.Fraction)
	}
}

func TestPipelineSeededMonteCarloReproducible(t *testing.T) {
	p := NewRiskPipeline(&fakeSource{series: goldenSeries()}, nil, nil)
	a, err := p.Run(context.Background(), goldenRequest())
	if err != nil {
		t.Fatalf("run a: %v", err)
	}
	b, err := p.Run(context.Background(), goldenRequest())
	if err != nil {
		t.Fatalf("run b: %v", err)
	}
	if a.MonteCarlo.Fraction != b.MonteCarlo.Fraction {
		t.Fatalf("seeded runs diverged: %v vs %v", a.MonteCarlo.Fraction, b.MonteCarlo.Fraction)
	}
}

func TestPipelineFetchFailureIsTerminal(t *testing.T) {
	wantErr := errors.New("market data unavailable")
	p := NewRiskPipeline(&fakeSource{err: wantErr}, nil, nil)
	report, err := p.Run(context.Background(), goldenRequest())
	if report != nil {
		t.Fatalf("expected no partial report, got %+v", report)
	}
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected wrapped source error, got %v", err)
	}
}

func TestPipelineErrorsPropagateUnmodified(t *testing.T) {
	single := models.PriceSeries{Ticker: "X", Points: []models.PricePoint{{Close: 100}}}
	p := NewRiskPipeline(&fakeSource{series: single}, nil, nil)
	if _, err := p.Run(context.Background(), goldenRequest()); !errors.Is(err, varcalc.ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}

	req := goldenRequest()
	req.Confidence = 1.0
	p = NewRiskPipeline(&fakeSource{series: goldenSeries()}, nil, nil)
	if _, err := p.Run(context.Background(), req); !errors.Is(err, varcalc.ErrInvalidConfidence) {
		t.Fatalf("expected ErrInvalidConfidence, got %v", err)
	}

	req = goldenRequest()
	req.Value = -5
	if _, err := p.Run(context.Background(), req); !errors.Is(err, varcalc.ErrInvalidPortfolioValue) {
		t.Fatalf("expected ErrInvalidPortfolioValue, got %v", err)
	}
}

func TestPipelinePersistFailureDoesNotDropReport(t *testing.T) {
	store := &fakeReportStore{err: errors.New("clickhouse down")}
	p := NewRiskPipeline(&fakeSource{series: goldenSeries()}, store, nil)
	report, err := p.Run(context.Background(), goldenRequest())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report == nil {
		t.Fatalf("report dropped on persistence failure")
	}
}

func TestBinReturns(t *testing.T) {
	rets := []float64{-0.02, -0.01, 0, 0.01, 0.02}
	h := BinReturns(rets, 4)
	if len(h.Counts) != 4 || len(h.BinEdges) != 5 {
		t.Fatalf("shape: %d counts %d edges", len(h.Counts), len(h.BinEdges))
	}
	total := 0
	for _, c := range h.Counts {
		total += c
	}
	if total != len(rets) {
		t.Fatalf("counts sum %d want %d", total, len(rets))
	}
	if h.BinEdges[0] != -0.02 || h.BinEdges[4] != 0.02 {
		t.Fatalf("edges: %v", h.BinEdges)
	}
	// max value lands in the last bin, not out of range
	if h.Counts[3] == 0 {
		t.Fatalf("last bin empty: %v", h.Counts)
	}
}

func TestBinReturnsDegenerate(t *testing.T) {
	h := BinReturns([]float64{0.01, 0.01, 0.01}, 10)
	total := 0
	for _, c := range h.Counts {
		total += c
	}
	if total != 3 {
		t.Fatalf("counts sum %d", total)
	}
	if h := BinReturns(nil, 5); len(h.Counts) != 5 {
		t.Fatalf("empty input shape: %v", h.Counts)
	}
}
