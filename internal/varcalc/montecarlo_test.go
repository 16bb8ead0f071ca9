package varcalc

import (
	"errors"
	"math"
	"testing"
)

func TestMonteCarloReproducibleWithSeed(t *testing.T) {
	rets := []float64{0.01, -0.03, 0.02, -0.015, 0.005, -0.022, 0.013}
	a, err := MonteCarlo(rets, 0.95, 5000, NewSeededSource(42))
	if err != nil {
		t.Fatalf("run a: %v", err)
	}
	b, err := MonteCarlo(rets, 0.95, 5000, NewSeededSource(42))
	if err != nil {
		t.Fatalf("run b: %v", err)
	}
	if a != b {
		t.Fatalf("same seed diverged: %v vs %v", a, b)
	}
	c, err := MonteCarlo(rets, 0.95, 5000, NewSeededSource(43))
	if err != nil {
		t.Fatalf("run c: %v", err)
	}
	if a == c {
		t.Fatalf("different seeds produced identical estimate %v", a)
	}
}

func TestMonteCarloZeroVariance(t *testing.T) {
	// sigma = 0 must yield max(0, -mu) for any confidence, no sampling noise
	rets := []float64{-0.02, -0.02, -0.02}
	for _, c := range []float64{0.90, 0.95, 0.99} {
		v, err := MonteCarlo(rets, c, 1000, NewSeededSource(1))
		if err != nil {
			t.Fatalf("c=%v: %v", c, err)
		}
		if v != 0.02 {
			t.Fatalf("c=%v: got %v want 0.02", c, v)
		}
	}
	v, err := MonteCarlo([]float64{0.05, 0.05}, 0.95, 1000, nil)
	if err != nil {
		t.Fatalf("gain series: %v", err)
	}
	if v != 0 {
		t.Fatalf("constant gain: got %v want 0", v)
	}
}

// With normally distributed parameters the Monte Carlo estimate converges on
// the parametric closed form as N grows; the tolerance band shrinks roughly
// as 1/sqrt(N).
func TestMonteCarloConvergesToParametric(t *testing.T) {
	p := DistParams{Mu: 0.0005, Sigma: 0.02}
	want, err := ParametricFromParams(p, 0.95)
	if err != nil {
		t.Fatalf("parametric: %v", err)
	}
	cases := []struct {
		n   int
		tol float64
	}{
		{1000, 8e-3},
		{10000, 2.5e-3},
		{100000, 8e-4},
	}
	for _, tc := range cases {
		got, err := MonteCarloFromParams(p, 0.95, tc.n, NewSeededSource(7))
		if err != nil {
			t.Fatalf("n=%d: %v", tc.n, err)
		}
		if math.Abs(got-want) > tc.tol {
			t.Fatalf("n=%d: |%v - %v| exceeds %v", tc.n, got, want, tc.tol)
		}
	}
}

func TestMonteCarloInvalidInputs(t *testing.T) {
	if _, err := MonteCarlo([]float64{0.01}, 1.0, 1000, nil); !errors.Is(err, ErrInvalidConfidence) {
		t.Fatalf("expected ErrInvalidConfidence, got %v", err)
	}
	if _, err := MonteCarlo([]float64{0.01, 0.02}, 0.95, 0, nil); err == nil {
		t.Fatalf("expected error for zero simulations")
	}
}

func TestSimulateReturns(t *testing.T) {
	p := DistParams{Mu: 0.001, Sigma: 0.015}
	sims := SimulateReturns(p, 2000, NewSeededSource(11))
	if len(sims) != 2000 {
		t.Fatalf("got %d samples", len(sims))
	}
	got := EstimateParams(sims)
	if math.Abs(got.Mu-p.Mu) > 5*p.Sigma/math.Sqrt(2000) {
		t.Fatalf("sample mean %v too far from %v", got.Mu, p.Mu)
	}
	flat := SimulateReturns(DistParams{Mu: 0.01}, 5, nil)
	for _, v := range flat {
		if v != 0.01 {
			t.Fatalf("zero-sigma draw: got %v", v)
		}
	}
	if SimulateReturns(p, 0, nil) != nil {
		t.Fatalf("expected nil for n=0")
	}
}
