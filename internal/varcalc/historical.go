package varcalc

// Historical computes fractional VaR by the historical-simulation method:
// the loss magnitude at the empirical (1-confidence) percentile of the
// return series. A percentile at or above zero (no loss in the tail) yields
// VaR 0. Deterministic for identical input. An empty return series is a
// legal degenerate input and yields 0.
func Historical(returns []float64, confidence float64) (float64, error) {
	if err := validateConfidence(confidence); err != nil {
		return 0, err
	}
	if len(returns) == 0 {
		return 0, nil
	}
	cutoff := Percentile(returns, 1-confidence)
	if cutoff >= 0 {
		return 0, nil
	}
	return -cutoff, nil
}
