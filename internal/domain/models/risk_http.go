package models

// Requests for the risk HTTP endpoints. Defined in domain for consistency
// and reuse; defaults and validation rules live in the struct tags.

// VarRequest carries everything a pipeline run needs.
type VarRequest struct {
	Ticker       string  `query:"ticker" json:"ticker" validate:"required"`
	Confidence   float64 `query:"confidence" json:"confidence" default:"0.95" validate:"gt=0,lt=1"`
	Value        float64 `query:"value" json:"value" default:"100000" validate:"gt=0"`
	HorizonDays  int     `query:"horizon" json:"horizon" default:"1" validate:"gte=1,lte=365"`
	Simulations  int     `query:"simulations" json:"simulations" default:"10000" validate:"gte=1,lte=10000000"`
	LookbackDays int     `query:"lookback" json:"lookback" default:"730" validate:"gte=30,lte=7300"`
	ReturnMethod string  `query:"returns" json:"returns" default:"log" validate:"oneof=log simple"`
	Seed         uint64  `query:"seed" json:"seed"` // 0 = unseeded
}

// DistributionRequest asks for a binned return distribution for charts.
type DistributionRequest struct {
	Ticker       string `query:"ticker" json:"ticker" validate:"required"`
	LookbackDays int    `query:"lookback" json:"lookback" default:"730" validate:"gte=30,lte=7300"`
	ReturnMethod string `query:"returns" json:"returns" default:"log" validate:"oneof=log simple"`
	Bins         int    `query:"bins" json:"bins" default:"50" validate:"gte=5,lte=500"`
}

// PricesRequest asks for the raw daily closes backing a report.
type PricesRequest struct {
	Ticker       string `query:"ticker" json:"ticker" validate:"required"`
	LookbackDays int    `query:"lookback" json:"lookback" default:"730" validate:"gte=1,lte=7300"`
}

// ReportsRequest lists recently persisted reports.
type ReportsRequest struct {
	Ticker string `query:"ticker" json:"ticker"`
	Limit  int    `query:"limit" json:"limit" default:"20" validate:"gte=1,lte=500"`
}
