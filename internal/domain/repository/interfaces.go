package repository

import (
	"context"
	"time"

	"RiskVaR/internal/domain/models"
)

// MarketStream is a live tick feed (WebSocket-backed).
type MarketStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Tick, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// Publisher publishes ticks to a message broker.
type Publisher interface {
	Publish(ctx context.Context, t *models.Tick) error
	PublishBatch(ctx context.Context, ticks []*models.Tick) error
	Close() error
}

// TickStorage persists raw ticks.
type TickStorage interface {
	Init(ctx context.Context) error // ensure tables, health checks
	Store(ctx context.Context, t *models.Tick) error
	StoreBatch(ctx context.Context, ticks []*models.Tick) error
	Query(ctx context.Context, symbol string, from, to time.Time, limit int) ([]*models.Tick, error)
	Health(ctx context.Context) error // ping
	Close() error
}

// ReportStore persists computed risk reports for audit and history.
type ReportStore interface {
	Save(ctx context.Context, r *models.RiskReport) error
	Recent(ctx context.Context, ticker string, limit int) ([]models.RiskReport, error)
}

// Metrics records operational metrics.
type Metrics interface {
	RecordReport(ticker, method string)
	RecordMessageSent(backend, symbol string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
