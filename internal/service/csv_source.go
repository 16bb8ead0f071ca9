package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"RiskVaR/internal/domain/models"
	domsvc "RiskVaR/internal/domain/service"
)

// CSVPriceSource reads daily closes from a local CSV file. It backs the CLI
// when no market-data credentials are configured.
//
// Expected layout: optional "date,close" header, then one row per day with
// the date in YYYY-MM-DD. A single-column file of closes is also accepted;
// rows are then dated sequentially from an arbitrary epoch.
type CSVPriceSource struct {
	Path   string
	Ticker string
}

func (s *CSVPriceSource) FetchDaily(ctx context.Context, ticker string, from, to time.Time) (models.PriceSeries, error) {
	series, err := LoadCSVPrices(s.Path, ticker)
	if err != nil {
		return models.PriceSeries{}, err
	}
	return series, nil
}

// LoadCSVPrices parses the file into a sorted, deduplicated series.
func LoadCSVPrices(path, ticker string) (models.PriceSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.PriceSeries{}, fmt.Errorf("open prices: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return models.PriceSeries{}, fmt.Errorf("parse prices: %w", err)
	}

	out := models.PriceSeries{Ticker: ticker, Points: make([]models.PricePoint, 0, len(rows))}
	base := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		// skip a header row
		if i == 0 && !isNumeric(lastField(row)) {
			continue
		}
		closePx, err := strconv.ParseFloat(strings.TrimSpace(lastField(row)), 64)
		if err != nil {
			return models.PriceSeries{}, fmt.Errorf("row %d: bad close %q", i+1, lastField(row))
		}
		date := base.AddDate(0, 0, len(out.Points))
		if len(row) >= 2 {
			d, err := time.Parse("2006-01-02", strings.TrimSpace(row[0]))
			if err != nil {
				return models.PriceSeries{}, fmt.Errorf("row %d: bad date %q", i+1, row[0])
			}
			date = d
		}
		out.Points = append(out.Points, models.PricePoint{Date: date, Close: closePx})
	}
	out.SortAndDedup()
	return out, nil
}

func lastField(row []string) string { return row[len(row)-1] }

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil
}

var _ domsvc.PriceSource = (*CSVPriceSource)(nil)
