package service

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prices.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp: %v", err)
	}
	return path
}

func TestLoadCSVPricesWithHeader(t *testing.T) {
	path := writeTemp(t, "date,close\n2024-01-02,100\n2024-01-03,102\n2024-01-04,101\n")
	s, err := LoadCSVPrices(path, "TEST")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Ticker != "TEST" || s.Len() != 3 {
		t.Fatalf("series: %s %d", s.Ticker, s.Len())
	}
	want := []float64{100, 102, 101}
	for i, w := range want {
		if s.Points[i].Close != w {
			t.Fatalf("point %d: got %v want %v", i, s.Points[i].Close, w)
		}
	}
}

func TestLoadCSVPricesSingleColumn(t *testing.T) {
	path := writeTemp(t, "100\n102\n101\n105\n103\n107\n")
	s, err := LoadCSVPrices(path, "TEST")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Len() != 6 {
		t.Fatalf("len: %d", s.Len())
	}
	if s.Points[5].Close != 107 {
		t.Fatalf("last close: %v", s.Points[5].Close)
	}
	// sequential synthetic dates must be strictly ascending
	for i := 1; i < s.Len(); i++ {
		if !s.Points[i].Date.After(s.Points[i-1].Date) {
			t.Fatalf("dates not ascending at %d", i)
		}
	}
}

func TestLoadCSVPricesUnsortedDates(t *testing.T) {
	path := writeTemp(t, "2024-01-04,101\n2024-01-02,100\n2024-01-03,102\n")
	s, err := LoadCSVPrices(path, "TEST")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for i, w := range []float64{100, 102, 101} {
		if s.Points[i].Close != w {
			t.Fatalf("point %d: got %v want %v", i, s.Points[i].Close, w)
		}
	}
}

func TestLoadCSVPricesBadRow(t *testing.T) {
	path := writeTemp(t, "2024-01-02,100\n2024-01-03,abc\n")
	if _, err := LoadCSVPrices(path, "TEST"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoadCSVPricesMissingFile(t *testing.T) {
	if _, err := LoadCSVPrices(filepath.Join(t.TempDir(), "nope.csv"), "TEST"); err == nil {
		t.Fatalf("expected open error")
	}
}
