package repository

import (
	"context"
	"errors"

	"ForexPulse/internal/domain/models"
)

// ErrUnknownPair is the only hard failure of the quote boundary; every other
// provider problem degrades to the synthetic fallback.
var ErrUnknownPair = errors.New("unknown pair")

// QuoteSource supplies the current price and OHLC candle history for a pair.
// Implementations cache results for a short TTL and never fail except for an
// unknown pair.
type QuoteSource interface {
	GetQuote(ctx context.Context, pair string) (models.Quote, error)
	GetCandles(ctx context.Context, pair string, tf Timeframe, n int) ([]models.Candle, error)
	Pairs() []string
}

// SignalSink receives every emitted (non-skipped) signal. The engine logs and
// continues when a sink write fails; emission is never blocked on it.
type SignalSink interface {
	Record(ctx context.Context, sig *models.SignalAnalysis) error
	Close() error
}

// SignalJournal persists emitted signals for the dashboard history view.
type SignalJournal interface {
	Insert(ctx context.Context, sig *models.SignalAnalysis) error
	Recent(ctx context.Context, limit int) ([]models.SignalAnalysis, error)
	Close() error
}

// SignalPublisher broadcasts emitted signals to downstream consumers
// (notification and messaging layers live outside this service).
type SignalPublisher interface {
	Publish(ctx context.Context, sig *models.SignalAnalysis) error
	Close() error
}

// PriceStream is an optional provider WebSocket that keeps the quote cache
// warm between REST fetches.
type PriceStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Quote, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// Metrics records engine and transport observations.
type Metrics interface {
	RecordSignal(pair, signalType string)
	RecordSkip(reason string)
	RecordError(kind string)
	RecordLastPrice(pair string, price float64)
	RecordConfidence(pair string, confidence float64)
	RecordSessionPnL(bps float64)
	RecordLatency(op string, seconds float64)
}

// SessionGate is the engine's read-only view of the session/risk tracker.
type SessionGate interface {
	HasReachedDailyGoal() bool
	HasExceededMaxDrawdown() bool
	Stats() models.SessionStats
}
