package varcalc

import (
	"errors"
	"math"
	"testing"
)

func TestScaleHorizonOne(t *testing.T) {
	// sqrt(1) = 1: one-day scaling is exactly fraction * value
	got, err := ScaleToPortfolio(0.0225, 100000, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0.0225*100000 {
		t.Fatalf("got %v want %v", got, 0.0225*100000)
	}
}

func TestScaleSqrtTime(t *testing.T) {
	got, err := ScaleToPortfolio(0.01, 50000, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := 0.01 * 50000 * math.Sqrt(10)
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestScaleInvalidInputs(t *testing.T) {
	if _, err := ScaleToPortfolio(0.01, -100000, 1); !errors.Is(err, ErrInvalidPortfolioValue) {
		t.Fatalf("negative value: got %v", err)
	}
	if _, err := ScaleToPortfolio(0.01, 0, 1); !errors.Is(err, ErrInvalidPortfolioValue) {
		t.Fatalf("zero value: got %v", err)
	}
	if _, err := ScaleToPortfolio(0.01, 100000, 0); !errors.Is(err, ErrInvalidHorizon) {
		t.Fatalf("zero horizon: got %v", err)
	}
	if _, err := ScaleToPortfolio(-0.01, 100000, 1); err == nil {
		t.Fatalf("expected error for negative fraction")
	}
}

func TestScaleZeroFraction(t *testing.T) {
	got, err := ScaleToPortfolio(0, 100000, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 0 {
		t.Fatalf("got %v", got)
	}
}
