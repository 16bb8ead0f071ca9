package varcalc

import (
	"math"
	"testing"
)

// The interpolation convention is load-bearing for VaR at small sample
// sizes, so it is pinned by fixture: position q*(n-1), linear between
// neighbouring order statistics.
func TestPercentileConvention(t *testing.T) {
	values := []float64{4, 1, 3, 2} // sorted: 1 2 3 4
	cases := []struct {
		q    float64
		want float64
	}{
		{0, 1},
		{1, 4},
		{0.5, 2.5},
		{0.25, 1.75},
		{0.05, 1.15},
	}
	for _, c := range cases {
		got := Percentile(values, c.q)
		if math.Abs(got-c.want) > 1e-12 {
			t.Fatalf("q=%v: got %v want %v", c.q, got, c.want)
		}
	}
	// input must not be reordered
	if values[0] != 4 {
		t.Fatalf("input was mutated: %v", values)
	}
}

func TestPercentileEdge(t *testing.T) {
	if got := Percentile(nil, 0.5); got != 0 {
		t.Fatalf("empty: got %v", got)
	}
	if got := Percentile([]float64{7}, 0.05); got != 7 {
		t.Fatalf("single: got %v", got)
	}
}

func TestEstimateParams(t *testing.T) {
	rets := []float64{0.01, -0.02, 0.03}
	p := EstimateParams(rets)
	wantMu := (0.01 - 0.02 + 0.03) / 3
	if math.Abs(p.Mu-wantMu) > 1e-15 {
		t.Fatalf("mu: got %v want %v", p.Mu, wantMu)
	}
	// sample standard deviation, n-1 denominator
	var ss float64
	for _, r := range rets {
		ss += (r - wantMu) * (r - wantMu)
	}
	wantSigma := math.Sqrt(ss / 2)
	if math.Abs(p.Sigma-wantSigma) > 1e-15 {
		t.Fatalf("sigma: got %v want %v", p.Sigma, wantSigma)
	}
}

func TestEstimateParamsDegenerate(t *testing.T) {
	if p := EstimateParams(nil); p.Mu != 0 || p.Sigma != 0 {
		t.Fatalf("empty: got %+v", p)
	}
	if p := EstimateParams([]float64{0.02}); p.Mu != 0.02 || p.Sigma != 0 {
		t.Fatalf("single: got %+v", p)
	}
}

func TestDescribe(t *testing.T) {
	s := Describe([]float64{0.02, -0.01, 0.03})
	if s.N != 3 {
		t.Fatalf("n: got %d", s.N)
	}
	if s.Min != -0.01 || s.Max != 0.03 {
		t.Fatalf("min/max: got %v %v", s.Min, s.Max)
	}
	if s.StdDev <= 0 {
		t.Fatalf("stddev: got %v", s.StdDev)
	}
	if got := Describe(nil); got.N != 0 {
		t.Fatalf("empty: got %+v", got)
	}
}
