package varcalc

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Parametric computes fractional VaR by the variance-covariance method,
// assuming normally distributed returns: VaR = max(0, z*sigma - mu) where z
// is the standard-normal quantile at the confidence level.
func Parametric(returns []float64, confidence float64) (float64, error) {
	if err := validateConfidence(confidence); err != nil {
		return 0, err
	}
	return ParametricFromParams(EstimateParams(returns), confidence)
}

// ParametricFromParams evaluates the parametric formula on already-fitted
// distribution parameters. Feeding a report's stored mean and standard
// deviation back through this function reproduces its fractional VaR exactly.
func ParametricFromParams(p DistParams, confidence float64) (float64, error) {
	if err := validateConfidence(confidence); err != nil {
		return 0, err
	}
	z := zScore(confidence)
	return math.Max(0, z*p.Sigma-p.Mu), nil
}

// zScore returns the standard-normal quantile at probability c. gonum's
// implementation (Wichura AS241) is accurate to machine precision for
// arbitrary user-supplied confidence levels, unlike a z-table lookup.
func zScore(c float64) float64 {
	return distuv.UnitNormal.Quantile(c)
}
