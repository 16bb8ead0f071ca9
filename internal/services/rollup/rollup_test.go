package rollup

import (
	"testing"
	"time"

	"RiskVaR/internal/domain/models"
)

func ts(day, hour int) int64 {
	return time.Date(2024, 5, day, hour, 0, 0, 0, time.UTC).Unix()
}

func TestDailyFromTicksLastTickWins(t *testing.T) {
	ticks := []*models.Tick{
		{Symbol: "AAPL", Timestamp: ts(1, 10), Price: 100},
		{Symbol: "AAPL", Timestamp: ts(1, 20), Price: 105},
		{Symbol: "AAPL", Timestamp: ts(2, 15), Price: 110},
	}
	s := DailyFromTicks("AAPL", ticks)
	if s.Len() != 2 {
		t.Fatalf("days: %d", s.Len())
	}
	if s.Points[0].Close != 105 {
		t.Fatalf("day 1 close: %v", s.Points[0].Close)
	}
	if s.Points[1].Close != 110 {
		t.Fatalf("day 2 close: %v", s.Points[1].Close)
	}
}

func TestDailyFromTicksUnorderedInput(t *testing.T) {
	ticks := []*models.Tick{
		{Symbol: "X", Timestamp: ts(3, 12), Price: 3},
		{Symbol: "X", Timestamp: ts(1, 12), Price: 1},
		{Symbol: "X", Timestamp: ts(2, 12), Price: 2},
	}
	s := DailyFromTicks("X", ticks)
	for i, want := range []float64{1, 2, 3} {
		if s.Points[i].Close != want {
			t.Fatalf("point %d: got %v want %v", i, s.Points[i].Close, want)
		}
	}
}

func TestDailyFromTicksSkipsInvalid(t *testing.T) {
	ticks := []*models.Tick{
		nil,
		{Symbol: "X", Timestamp: ts(1, 12), Price: 0},
		{Symbol: "X", Timestamp: ts(1, 13), Price: -5},
	}
	if s := DailyFromTicks("X", ticks); s.Len() != 0 {
		t.Fatalf("expected empty series, got %d points", s.Len())
	}
}

func TestAlignWindowWholeDays(t *testing.T) {
	from := time.Date(2024, 5, 1, 13, 45, 0, 0, time.UTC)
	to := time.Date(2024, 5, 3, 2, 10, 0, 0, time.UTC)
	lo, hi := AlignWindow(from, to)
	if lo != time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC) {
		t.Fatalf("lo: %v", lo)
	}
	if !hi.After(time.Date(2024, 5, 3, 23, 59, 59, 0, time.UTC)) {
		t.Fatalf("hi: %v", hi)
	}
}
