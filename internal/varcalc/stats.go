package varcalc

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DistParams holds the fitted normal-distribution parameters shared by the
// parametric and Monte Carlo methods. Computed once per pipeline run.
type DistParams struct {
	Mu    float64
	Sigma float64
}

// EstimateParams fits mean and sample standard deviation (n-1 denominator)
// to a return series. Fewer than two observations yield Sigma = 0, the
// degenerate case both consumers handle via the max(0, ...) floor.
func EstimateParams(returns []float64) DistParams {
	if len(returns) == 0 {
		return DistParams{}
	}
	p := DistParams{Mu: stat.Mean(returns, nil)}
	if len(returns) > 1 {
		p.Sigma = stat.StdDev(returns, nil)
	}
	return p
}

// Summary holds descriptive statistics of a return series.
type Summary struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
	N      int
}

// Describe computes descriptive statistics for a return series.
func Describe(returns []float64) Summary {
	if len(returns) == 0 {
		return Summary{}
	}
	p := EstimateParams(returns)
	return Summary{
		Mean:   p.Mu,
		StdDev: p.Sigma,
		Min:    floats.Min(returns),
		Max:    floats.Max(returns),
		N:      len(returns),
	}
}

// Percentile returns the empirical percentile of values at quantile q in
// [0, 1], using linear interpolation between order statistics: the quantile
// sits at position q*(n-1) in the sorted sample and is interpolated between
// the neighbouring order statistics. This is the numpy.percentile "linear"
// convention; nearest-rank and midpoint conventions give materially
// different VaR at small n, so the choice is pinned here and in tests.
// The input is not modified. An empty input yields 0.
func Percentile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return percentileSorted(sorted, q)
}

func percentileSorted(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo < 0 {
		return sorted[0]
	}
	if hi >= n {
		return sorted[n-1]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

func validateConfidence(confidence float64) error {
	if !(confidence > 0 && confidence < 1) {
		return fmt.Errorf("%w: got %v", ErrInvalidConfidence, confidence)
	}
	return nil
}
