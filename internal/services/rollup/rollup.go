package rollup

import (
	"sort"
	"time"

	"RiskVaR/internal/domain/models"
)

// DailyFromTicks folds raw ticks into daily close bars: the last tick of each
// UTC day wins. Input order does not matter.
func DailyFromTicks(ticker string, ticks []*models.Tick) models.PriceSeries {
	type last struct {
		ts    int64
		price float64
	}
	byDay := make(map[time.Time]last)
	for _, t := range ticks {
		if t == nil || t.Price <= 0 {
			continue
		}
		day := AlignDay(time.Unix(t.Timestamp, 0))
		if cur, ok := byDay[day]; !ok || t.Timestamp >= cur.ts {
			byDay[day] = last{ts: t.Timestamp, price: t.Price}
		}
	}

	out := models.PriceSeries{Ticker: ticker, Points: make([]models.PricePoint, 0, len(byDay))}
	for day, l := range byDay {
		out.Points = append(out.Points, models.PricePoint{Date: day, Close: l.price})
	}
	sort.Slice(out.Points, func(i, j int) bool { return out.Points[i].Date.Before(out.Points[j].Date) })
	return out
}

// AlignDay truncates a timestamp to its UTC day boundary.
func AlignDay(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}

// AlignWindow rounds a query range outward to whole UTC days so a rollup run
// never splits a day between two runs.
func AlignWindow(from, to time.Time) (time.Time, time.Time) {
	return AlignDay(from), AlignDay(to).Add(24*time.Hour - time.Nanosecond)
}
