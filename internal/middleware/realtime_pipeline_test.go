package middleware

import (
	"context"
	"errors"
	"testing"
	"time"

	"RiskVaR/internal/domain/models"
)

type fakeMetrics struct {
	errs map[string]int
}

func newFakeMetrics() *fakeMetrics                          { return &fakeMetrics{errs: map[string]int{}} }
func (m *fakeMetrics) RecordReport(ticker, method string)   {}
func (m *fakeMetrics) RecordMessageSent(b, s string)        {}
func (m *fakeMetrics) RecordError(kind string)              { m.errs[kind]++ }
func (m *fakeMetrics) RecordLastPrice(s string, p float64)  {}
func (m *fakeMetrics) RecordLatency(op string, sec float64) {}

type fakeProc struct {
	got []*models.Tick
	err error
}

func (p *fakeProc) Process(ctx context.Context, t *models.Tick) error {
	if p.err != nil {
		return p.err
	}
	p.got = append(p.got, t)
	return nil
}

func validTick() *models.Tick {
	return &models.Tick{Symbol: "AAPL", Timestamp: time.Now().Unix(), Price: 190.5, Volume: 10}
}

func TestPipelineForwardsValidTick(t *testing.T) {
	proc := &fakeProc{}
	p := NewRealtimePipeline(proc, newFakeMetrics())
	if err := p.Process(context.Background(), validTick()); err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(proc.got) != 1 {
		t.Fatalf("expected 1 forwarded tick, got %d", len(proc.got))
	}
}

func TestPipelineRejectsInvalidTicks(t *testing.T) {
	proc := &fakeProc{}
	p := NewRealtimePipeline(proc, newFakeMetrics())
	bad := []*models.Tick{
		nil,
		{Symbol: "", Timestamp: 1, Price: 1},
		{Symbol: "X", Timestamp: 0, Price: 1},
		{Symbol: "X", Timestamp: 1, Price: 0},
		{Symbol: "X", Timestamp: 1, Price: -3},
		{Symbol: "X", Timestamp: 1, Price: 1, Volume: -1},
	}
	for i, tick := range bad {
		if err := p.Process(context.Background(), tick); err == nil {
			t.Fatalf("case %d: expected validation error", i)
		}
	}
	if len(proc.got) != 0 {
		t.Fatalf("invalid ticks reached downstream: %d", len(proc.got))
	}
}

func TestPipelineBuffersOnDownstreamError(t *testing.T) {
	m := newFakeMetrics()
	proc := &fakeProc{err: errors.New("backend down")}
	p := NewRealtimePipeline(proc, m, WithBufferSize(4))
	if err := p.Process(context.Background(), validTick()); err == nil {
		t.Fatalf("expected downstream error")
	}
	if len(p.bufCh) != 1 {
		t.Fatalf("tick not buffered: %d", len(p.bufCh))
	}
	if m.errs["pipeline_process"] != 1 {
		t.Fatalf("error not recorded: %v", m.errs)
	}
}

func TestPipelineThrottlesPerSymbol(t *testing.T) {
	proc := &fakeProc{}
	p := NewRealtimePipeline(proc, newFakeMetrics(), WithMaxRPS(1))
	now := time.Now()
	if !p.allow("AAPL", now) {
		t.Fatalf("first tick must pass")
	}
	if p.allow("AAPL", now.Add(100*time.Millisecond)) {
		t.Fatalf("second tick within interval must be throttled")
	}
	if !p.allow("MSFT", now.Add(100*time.Millisecond)) {
		t.Fatalf("other symbols are throttled independently")
	}
	if !p.allow("AAPL", now.Add(1100*time.Millisecond)) {
		t.Fatalf("tick after interval must pass")
	}
}

func TestPipelineTransformApplied(t *testing.T) {
	proc := &fakeProc{}
	p := NewRealtimePipeline(proc, newFakeMetrics(), WithTransform(func(t *models.Tick) *models.Tick {
		t.Symbol = "NORM:" + t.Symbol
		return t
	}))
	if err := p.Process(context.Background(), validTick()); err != nil {
		t.Fatalf("process: %v", err)
	}
	if proc.got[0].Symbol != "NORM:AAPL" {
		t.Fatalf("transform not applied: %s", proc.got[0].Symbol)
	}
}
