package varcalc

import (
	"fmt"
	"math"
)

// ReturnMethod selects how period returns are derived from prices.
type ReturnMethod string

const (
	ReturnSimple ReturnMethod = "simple"
	ReturnLog    ReturnMethod = "log"
)

// SimpleReturns computes simple returns r_i = (p_i - p_{i-1}) / p_{i-1}.
// The output has one fewer element than the input. Prices must be positive.
func SimpleReturns(prices []float64) ([]float64, error) {
	if err := validatePrices(prices); err != nil {
		return nil, err
	}
	out := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		r := (prices[i] - prices[i-1]) / prices[i-1]
		if !isFinite(r) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// LogReturns computes log returns r_i = ln(p_i / p_{i-1}).
func LogReturns(prices []float64) ([]float64, error) {
	if err := validatePrices(prices); err != nil {
		return nil, err
	}
	out := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		r := math.Log(prices[i] / prices[i-1])
		if !isFinite(r) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// Returns dispatches on method. The zero value selects log returns; any other
// unrecognized method is rejected.
func Returns(prices []float64, method ReturnMethod) ([]float64, error) {
	switch method {
	case ReturnSimple:
		return SimpleReturns(prices)
	case ReturnLog, "":
		return LogReturns(prices)
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidReturnMethod, method)
}

func validatePrices(prices []float64) error {
	if len(prices) < 2 {
		return fmt.Errorf("%w: need at least 2 prices, got %d", ErrInsufficientData, len(prices))
	}
	for i, p := range prices {
		if p <= 0 || !isFinite(p) {
			return fmt.Errorf("%w: price[%d] = %v", ErrInvalidPrice, i, p)
		}
	}
	return nil
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
