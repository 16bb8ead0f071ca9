package varcalc

import (
	"fmt"
	"math"
)

// ScaleToPortfolio converts a fractional VaR into dollar terms:
// dollar VaR = fraction * portfolioValue * sqrt(horizonDays).
//
// Square-root-of-time scaling assumes i.i.d. returns across days. That is a
// modeling assumption, not a computed property, and it is applied uniformly
// to all three methods.
func ScaleToPortfolio(fraction, portfolioValue float64, horizonDays int) (float64, error) {
	if fraction < 0 {
		return 0, fmt.Errorf("varcalc: fractional VaR must be non-negative, got %v", fraction)
	}
	if portfolioValue <= 0 || !isFinite(portfolioValue) {
		return 0, fmt.Errorf("%w: got %v", ErrInvalidPortfolioValue, portfolioValue)
	}
	if horizonDays < 1 {
		return 0, fmt.Errorf("%w: got %d", ErrInvalidHorizon, horizonDays)
	}
	return fraction * portfolioValue * math.Sqrt(float64(horizonDays)), nil
}
