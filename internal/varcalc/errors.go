package varcalc

import "errors"

// Input violations surface as one of these sentinels, wrapped with detail at
// the call site. Callers match with errors.Is.
var (
	// ErrInsufficientData indicates a price series with fewer than 2 points.
	ErrInsufficientData = errors.New("varcalc: insufficient price data")

	// ErrInvalidPrice indicates a zero or negative price in the input series.
	ErrInvalidPrice = errors.New("varcalc: non-positive price")

	// ErrInvalidConfidence indicates a confidence level outside (0, 1).
	ErrInvalidConfidence = errors.New("varcalc: confidence level outside (0, 1)")

	// ErrInvalidPortfolioValue indicates a non-positive portfolio value.
	ErrInvalidPortfolioValue = errors.New("varcalc: portfolio value must be positive")

	// ErrInvalidHorizon indicates a time horizon below one day.
	ErrInvalidHorizon = errors.New("varcalc: time horizon must be at least 1 day")

	// ErrInvalidReturnMethod indicates an unrecognized return method.
	ErrInvalidReturnMethod = errors.New("varcalc: unknown return method")
)
