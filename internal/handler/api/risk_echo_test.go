package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"RiskVaR/internal/domain/models"
	icache "RiskVaR/internal/service/cache"
	"RiskVaR/internal/usecase"
	applogger "RiskVaR/pkg/logger"

	"github.com/labstack/echo/v4"
)

type stubSource struct {
	series models.PriceSeries
}

func (s *stubSource) FetchDaily(ctx context.Context, ticker string, from, to time.Time) (models.PriceSeries, error) {
	return s.series, nil
}

func fixtureSeries(closes []float64) models.PriceSeries {
	s := models.PriceSeries{Ticker: "TEST"}
	base := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		s.Points = append(s.Points, models.PricePoint{Date: base.AddDate(0, 0, i), Close: c})
	}
	return s
}

func newTestHandler(t *testing.T, closes []float64) (*RiskEchoHandler, *echo.Echo) {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	pipeline := usecase.NewRiskPipeline(&stubSource{series: fixtureSeries(closes)}, nil, nil)
	h := NewRiskEchoHandler(l, pipeline, nil, nil)
	e := echo.New()
	h.RegisterRoutes(e)
	return h, e
}

func doGet(e *echo.Echo, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestVarEndpointReturnsReport(t *testing.T) {
	_, e := newTestHandler(t, []float64{100, 102, 101, 105, 103, 107})
	rec := doGet(e, "/api/var?ticker=TEST&confidence=0.95&value=100000&returns=simple&seed=42")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d body: %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Status int               `json:"status"`
		Data   models.RiskReport `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Data.Ticker != "TEST" {
		t.Fatalf("ticker: %s", envelope.Data.Ticker)
	}
	if envelope.Data.Historical.Fraction <= 0 {
		t.Fatalf("historical fraction: %v", envelope.Data.Historical.Fraction)
	}
	if envelope.Data.Historical.Dollar != envelope.Data.Historical.Fraction*100000 {
		t.Fatalf("dollar scaling off: %v", envelope.Data.Historical.Dollar)
	}
}

func TestVarEndpointCacheHitMatchesMiss(t *testing.T) {
	h, e := newTestHandler(t, []float64{100, 102, 101, 105, 103, 107})
	h.SetCache(icache.NewTTLCache())
	target := "/api/var?ticker=TEST&confidence=0.95&value=100000&returns=simple&seed=42"

	miss := doGet(e, target)
	hit := doGet(e, target)
	if got, want := strings.TrimSpace(hit.Body.String()), strings.TrimSpace(miss.Body.String()); got != want {
		t.Fatalf("cache hit body differs from miss:\nmiss: %s\nhit:  %s", want, got)
	}
	var envelope struct {
		Status int               `json:"status"`
		Data   models.RiskReport `json:"data"`
	}
	if err := json.Unmarshal(hit.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode hit: %v", err)
	}
	if envelope.Status != http.StatusOK || envelope.Data.Ticker != "TEST" {
		t.Fatalf("cache hit lost the envelope: %+v", envelope)
	}
}

func TestDistributionCacheHitMatchesMiss(t *testing.T) {
	h, e := newTestHandler(t, []float64{100, 102, 101, 105, 103, 107})
	h.SetCache(icache.NewTTLCache())
	target := "/api/var/distribution?ticker=TEST&bins=5"

	miss := doGet(e, target)
	hit := doGet(e, target)
	if got, want := strings.TrimSpace(hit.Body.String()), strings.TrimSpace(miss.Body.String()); got != want {
		t.Fatalf("cache hit body differs from miss:\nmiss: %s\nhit:  %s", want, got)
	}
}

func TestVarEndpointMissingTicker(t *testing.T) {
	_, e := newTestHandler(t, []float64{100, 102, 101})
	rec := doGet(e, "/api/var")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected transport status: %d", rec.Code)
	}
	var envelope struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Status != http.StatusBadRequest {
		t.Fatalf("expected 400 envelope, got %d", envelope.Status)
	}
}

func TestVarEndpointInsufficientData(t *testing.T) {
	_, e := newTestHandler(t, []float64{100})
	rec := doGet(e, "/api/var?ticker=TEST")
	var envelope struct {
		Status int `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if envelope.Status != http.StatusBadRequest {
		t.Fatalf("expected 400 envelope for short history, got %d", envelope.Status)
	}
}

func TestDistributionEndpoint(t *testing.T) {
	_, e := newTestHandler(t, []float64{100, 102, 101, 105, 103, 107})
	rec := doGet(e, "/api/var/distribution?ticker=TEST&bins=5")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d", rec.Code)
	}
	var envelope struct {
		Data models.Histogram `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(envelope.Data.Counts) != 5 || len(envelope.Data.BinEdges) != 6 {
		t.Fatalf("histogram shape: %d counts %d edges", len(envelope.Data.Counts), len(envelope.Data.BinEdges))
	}
}

func TestHealthEndpoint(t *testing.T) {
	_, e := newTestHandler(t, []float64{100, 102})
	rec := doGet(e, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: %d", rec.Code)
	}
}
