package models

import (
	"testing"
	"time"
)

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestSortAndDedupOrdersAscending(t *testing.T) {
	s := PriceSeries{Points: []PricePoint{
		{Date: day(3), Close: 103},
		{Date: day(1), Close: 101},
		{Date: day(2), Close: 102},
	}}
	s.SortAndDedup()
	if s.Len() != 3 {
		t.Fatalf("len: %d", s.Len())
	}
	for i, want := range []float64{101, 102, 103} {
		if s.Points[i].Close != want {
			t.Fatalf("point %d: got %v want %v", i, s.Points[i].Close, want)
		}
	}
}

func TestSortAndDedupLastObservationWins(t *testing.T) {
	morning := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	evening := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	s := PriceSeries{Points: []PricePoint{
		{Date: morning, Close: 100},
		{Date: evening, Close: 105},
		{Date: day(2), Close: 110},
	}}
	s.SortAndDedup()
	if s.Len() != 2 {
		t.Fatalf("len: %d", s.Len())
	}
	if s.Points[0].Close != 105 {
		t.Fatalf("expected later close to win, got %v", s.Points[0].Close)
	}
}

func TestCloses(t *testing.T) {
	s := PriceSeries{Points: []PricePoint{
		{Date: day(1), Close: 100},
		{Date: day(2), Close: 102},
	}}
	c := s.Closes()
	if len(c) != 2 || c[0] != 100 || c[1] != 102 {
		t.Fatalf("closes: %v", c)
	}
}
