package repository

import (
	"context"
	"time"

	"ChainPulse/internal/domain/models"
)

// SnapshotStream delivers option-chain snapshots from an upstream feed.
type SnapshotStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.MarketSnapshot, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// Publisher pushes analysis output to a message backend.
type Publisher interface {
	PublishResult(ctx context.Context, r *models.AnalysisResult) error
	PublishAdvanced(ctx context.Context, m *models.AdvancedMetrics) error
	Close() error
}

// ResultStorage persists analysis results and emitted signals.
type ResultStorage interface {
	Init(ctx context.Context) error
	StoreResult(ctx context.Context, r *models.AnalysisResult) error
	StoreAdvanced(ctx context.Context, m *models.AdvancedMetrics) error
	QuerySignals(ctx context.Context, symbol string, from, to time.Time, minConfidence float64, limit int) ([]models.Signal, error)
	Health(ctx context.Context) error
	Close() error
}

// Metrics records engine and pipeline observability counters.
type Metrics interface {
	RecordCycle(symbol string)
	RecordSignal(symbol string, pattern, direction string)
	RecordError(kind string)
	RecordSpot(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
