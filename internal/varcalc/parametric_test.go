package varcalc

import (
	"errors"
	"math"
	"testing"
)

func TestZScore(t *testing.T) {
	cases := []struct {
		c, want float64
	}{
		{0.90, 1.2815515655446004},
		{0.95, 1.6448536269514722},
		{0.99, 2.3263478740408408},
	}
	for _, tc := range cases {
		if got := zScore(tc.c); math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("z(%v): got %v want %v", tc.c, got, tc.want)
		}
	}
}

// Golden regression, same fixture as the historical method.
func TestParametricGolden(t *testing.T) {
	rets, err := SimpleReturns([]float64{100, 102, 101, 105, 103, 107})
	if err != nil {
		t.Fatalf("returns: %v", err)
	}
	got, err := Parametric(rets, 0.95)
	if err != nil {
		t.Fatalf("parametric: %v", err)
	}
	const want = 0.030880827359539134
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("got %v want %v", got, want)
	}
}

// Feeding the stored mean/std back through the formula must reproduce the
// fractional VaR exactly, with no precision lost through aggregation.
func TestParametricRoundTrip(t *testing.T) {
	rets := []float64{0.012, -0.034, 0.007, -0.019, 0.021, 0.004, -0.011}
	direct, err := Parametric(rets, 0.975)
	if err != nil {
		t.Fatalf("parametric: %v", err)
	}
	p := EstimateParams(rets)
	viaParams, err := ParametricFromParams(p, 0.975)
	if err != nil {
		t.Fatalf("from params: %v", err)
	}
	if direct != viaParams {
		t.Fatalf("round trip drifted: %v vs %v", direct, viaParams)
	}
}

func TestParametricZeroVariance(t *testing.T) {
	cases := []struct {
		mu   float64
		want float64
	}{
		{-0.02, 0.02}, // constant loss: VaR = -mu
		{0.03, 0},     // constant gain: floored at zero
		{0, 0},
	}
	for _, tc := range cases {
		rets := []float64{tc.mu, tc.mu, tc.mu, tc.mu}
		for _, c := range []float64{0.90, 0.95, 0.99} {
			got, err := Parametric(rets, c)
			if err != nil {
				t.Fatalf("mu=%v c=%v: %v", tc.mu, c, err)
			}
			if math.Abs(got-tc.want) > 1e-15 {
				t.Fatalf("mu=%v c=%v: got %v want %v", tc.mu, c, got, tc.want)
			}
		}
	}
}

func TestParametricMonotoneInConfidence(t *testing.T) {
	rets := []float64{0.01, -0.03, 0.02, -0.015, 0.005, -0.022}
	prev := -1.0
	for _, c := range []float64{0.80, 0.90, 0.95, 0.99, 0.999} {
		v, err := Parametric(rets, c)
		if err != nil {
			t.Fatalf("c=%v: %v", c, err)
		}
		if v < prev {
			t.Fatalf("VaR decreased with confidence at c=%v", c)
		}
		prev = v
	}
}

func TestParametricInvalidConfidence(t *testing.T) {
	if _, err := Parametric([]float64{0.01}, 1.0); !errors.Is(err, ErrInvalidConfidence) {
		t.Fatalf("expected ErrInvalidConfidence, got %v", err)
	}
}
