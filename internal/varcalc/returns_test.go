package varcalc

import (
	"errors"
	"math"
	"testing"
)

func TestSimpleReturns(t *testing.T) {
	prices := []float64{100, 102, 101, 105, 103, 107}
	rets, err := SimpleReturns(prices)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rets) != len(prices)-1 {
		t.Fatalf("expected %d returns, got %d", len(prices)-1, len(rets))
	}
	want := []float64{0.02, -0.00980392156862745, 0.039603960396039604, -0.01904761904761905, 0.038834951456310676}
	for i := range want {
		if math.Abs(rets[i]-want[i]) > 1e-15 {
			t.Fatalf("return[%d]: got %v want %v", i, rets[i], want[i])
		}
	}
}

func TestLogReturns(t *testing.T) {
	rets, err := LogReturns([]float64{100, 110})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := math.Log(1.1)
	if math.Abs(rets[0]-want) > 1e-15 {
		t.Fatalf("got %v want %v", rets[0], want)
	}
}

func TestReturnsSinglePrice(t *testing.T) {
	if _, err := SimpleReturns([]float64{100}); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestReturnsNonPositivePrice(t *testing.T) {
	for _, prices := range [][]float64{
		{100, 0, 102},
		{100, -5, 102},
	} {
		if _, err := LogReturns(prices); !errors.Is(err, ErrInvalidPrice) {
			t.Fatalf("prices %v: expected ErrInvalidPrice, got %v", prices, err)
		}
	}
}

func TestReturnsDispatch(t *testing.T) {
	prices := []float64{100, 105}
	simple, err := Returns(prices, ReturnSimple)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if simple[0] != 0.05 {
		t.Fatalf("simple: got %v", simple[0])
	}
	// zero value selects log returns
	logr, err := Returns(prices, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(logr[0]-math.Log(1.05)) > 1e-15 {
		t.Fatalf("log default: got %v", logr[0])
	}
}

func TestReturnsUnknownMethod(t *testing.T) {
	if _, err := Returns([]float64{100, 105}, ReturnMethod("geometric")); !errors.Is(err, ErrInvalidReturnMethod) {
		t.Fatalf("expected ErrInvalidReturnMethod, got %v", err)
	}
}
