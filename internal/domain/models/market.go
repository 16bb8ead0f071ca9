package models

import "time"

// Tick is a single live price observation from the market stream.
type Tick struct {
	Symbol    string
	Timestamp int64 // unix seconds
	Price     float64
	Volume    float64
}

// PricePoint is one daily close observation.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// PriceSeries is a chronologically ascending series of daily closes with no
// duplicate dates. Constructed by the market-data layer; the risk pipeline
// treats it as immutable.
type PriceSeries struct {
	Ticker string       `json:"ticker"`
	Points []PricePoint `json:"points"`
}

// Closes returns the close prices in order.
func (s PriceSeries) Closes() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Close
	}
	return out
}

// Len returns the number of observations.
func (s PriceSeries) Len() int { return len(s.Points) }

// SortAndDedup enforces the series invariants: ascending dates, one point
// per calendar day (the last observation for a day wins).
func (s *PriceSeries) SortAndDedup() {
	if len(s.Points) < 2 {
		return
	}
	pts := s.Points
	// insertion sort: feeds are near-sorted already
	for i := 1; i < len(pts); i++ {
		for j := i; j > 0 && pts[j].Date.Before(pts[j-1].Date); j-- {
			pts[j], pts[j-1] = pts[j-1], pts[j]
		}
	}
	dedup := pts[:1]
	for _, p := range pts[1:] {
		last := &dedup[len(dedup)-1]
		if sameDay(p.Date, last.Date) {
			*last = p
			continue
		}
		dedup = append(dedup, p)
	}
	s.Points = dedup
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
