package varcalc

import (
	"errors"
	"math"
	"testing"
)

// Golden regression: prices 100,102,101,105,103,107 with simple returns at
// 95% confidence. Values computed once with the pinned percentile
// convention and checked here verbatim.
func TestHistoricalGolden(t *testing.T) {
	rets, err := SimpleReturns([]float64{100, 102, 101, 105, 103, 107})
	if err != nil {
		t.Fatalf("returns: %v", err)
	}
	got, err := Historical(rets, 0.95)
	if err != nil {
		t.Fatalf("historical: %v", err)
	}
	const want = 0.017198879551820728
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestHistoricalMonotoneInConfidence(t *testing.T) {
	rets := []float64{0.01, -0.03, 0.02, -0.015, 0.005, -0.022, 0.013, -0.001}
	prev := -1.0
	for _, c := range []float64{0.80, 0.90, 0.95, 0.99} {
		v, err := Historical(rets, c)
		if err != nil {
			t.Fatalf("c=%v: %v", c, err)
		}
		if v < prev {
			t.Fatalf("VaR decreased with confidence: %v -> %v at c=%v", prev, v, c)
		}
		prev = v
	}
}

func TestHistoricalAllPositiveReturns(t *testing.T) {
	v, err := Historical([]float64{0.01, 0.02, 0.03}, 0.95)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 0 {
		t.Fatalf("expected zero VaR for all-gain series, got %v", v)
	}
}

func TestHistoricalEmptySeries(t *testing.T) {
	v, err := Historical(nil, 0.95)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 0 {
		t.Fatalf("got %v", v)
	}
}

func TestHistoricalInvalidConfidence(t *testing.T) {
	for _, c := range []float64{0, 1, -0.5, 1.5} {
		if _, err := Historical([]float64{0.01}, c); !errors.Is(err, ErrInvalidConfidence) {
			t.Fatalf("c=%v: expected ErrInvalidConfidence, got %v", c, err)
		}
	}
}

func TestHistoricalDeterministic(t *testing.T) {
	rets := []float64{0.02, -0.04, 0.01, -0.01, 0.03}
	a, _ := Historical(rets, 0.95)
	b, _ := Historical(rets, 0.95)
	if a != b {
		t.Fatalf("non-deterministic: %v vs %v", a, b)
	}
}
