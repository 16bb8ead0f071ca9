package models

import "time"

// Method identifies a VaR estimation methodology.
type Method string

const (
	MethodHistorical Method = "historical"
	MethodParametric Method = "parametric"
	MethodMonteCarlo Method = "monte_carlo"
)

// VarEstimate is one estimator's output: the fractional loss magnitude at
// the given confidence level.
type VarEstimate struct {
	Method     Method  `json:"method"`
	Confidence float64 `json:"confidence"`
	Fraction   float64 `json:"fraction"` // non-negative fractional loss
}

// ScaledVar is a VarEstimate converted to dollar terms for a portfolio and
// horizon: Dollar = Fraction * PortfolioValue * sqrt(HorizonDays).
type ScaledVar struct {
	VarEstimate
	PortfolioValue float64 `json:"portfolio_value"`
	HorizonDays    int     `json:"horizon_days"`
	Dollar         float64 `json:"dollar"`
}

// ReturnStats are descriptive statistics of the return series a report was
// computed from.
type ReturnStats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	N      int     `json:"n"`
}

// RiskReport aggregates one scaled result per method plus the return-series
// statistics. Built once per pipeline run and immutable afterwards;
// presentation layers only read it.
type RiskReport struct {
	Ticker         string      `json:"ticker"`
	PortfolioValue float64     `json:"portfolio_value"`
	Confidence     float64     `json:"confidence"`
	HorizonDays    int         `json:"horizon_days"`
	Simulations    int         `json:"simulations"`
	ReturnMethod   string      `json:"return_method"`
	Stats          ReturnStats `json:"stats"`
	Historical     ScaledVar   `json:"historical"`
	Parametric     ScaledVar   `json:"parametric"`
	MonteCarlo     ScaledVar   `json:"monte_carlo"`
	GeneratedAt    time.Time   `json:"generated_at"`
}

// Histogram is a binned view of a return distribution for charting.
type Histogram struct {
	BinEdges []float64 `json:"bin_edges"` // len = len(Counts) + 1
	Counts   []int     `json:"counts"`
}
