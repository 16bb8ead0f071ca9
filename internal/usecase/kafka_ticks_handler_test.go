package usecase

import (
	"context"
	"testing"
	"time"

	"RiskVaR/internal/domain/models"
)

type fakeTickStorage struct {
	stored []*models.Tick
	err    error
}

func (f *fakeTickStorage) Init(ctx context.Context) error { return nil }
func (f *fakeTickStorage) Store(ctx context.Context, t *models.Tick) error {
	if f.err != nil {
		return f.err
	}
	f.stored = append(f.stored, t)
	return nil
}
func (f *fakeTickStorage) StoreBatch(ctx context.Context, ticks []*models.Tick) error {
	if f.err != nil {
		return f.err
	}
	f.stored = append(f.stored, ticks...)
	return nil
}
func (f *fakeTickStorage) Query(ctx context.Context, symbol string, from, to time.Time, limit int) ([]*models.Tick, error) {
	return f.stored, nil
}
func (f *fakeTickStorage) Health(ctx context.Context) error { return nil }
func (f *fakeTickStorage) Close() error                     { return nil }

type nopMetrics struct{}

func (nopMetrics) RecordReport(ticker, method string)   {}
func (nopMetrics) RecordMessageSent(b, s string)        {}
func (nopMetrics) RecordError(kind string)              {}
func (nopMetrics) RecordLastPrice(s string, p float64)  {}
func (nopMetrics) RecordLatency(op string, sec float64) {}

func TestKafkaTicksHandlerStoresTick(t *testing.T) {
	store := &fakeTickStorage{}
	h := NewKafkaTicksHandler("riskvar.ticks", store, nopMetrics{})
	msg := []byte(`{"symbol":"AAPL","t":1704153600,"c":190.5,"v":12}`)
	if err := h.Handle(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(store.stored) != 1 {
		t.Fatalf("stored: %d", len(store.stored))
	}
	got := store.stored[0]
	if got.Symbol != "AAPL" || got.Timestamp != 1704153600 || got.Price != 190.5 || got.Volume != 12 {
		t.Fatalf("tick: %+v", got)
	}
}

func TestKafkaTicksHandlerMillisecondTimestamps(t *testing.T) {
	store := &fakeTickStorage{}
	h := NewKafkaTicksHandler("riskvar.ticks", store, nopMetrics{})
	msg := []byte(`{"symbol":"AAPL","t":1704153600000,"c":190.5,"v":1}`)
	if err := h.Handle(context.Background(), msg); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if store.stored[0].Timestamp != 1704153600 {
		t.Fatalf("timestamp not normalized to seconds: %d", store.stored[0].Timestamp)
	}
}

func TestKafkaTicksHandlerBadPayload(t *testing.T) {
	h := NewKafkaTicksHandler("riskvar.ticks", &fakeTickStorage{}, nopMetrics{})
	if err := h.Handle(context.Background(), []byte("{broken")); err == nil {
		t.Fatalf("expected unmarshal error")
	}
}
