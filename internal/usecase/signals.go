package usecase

import (
	"context"
	"fmt"

	"ForexPulse/internal/domain/models"
	domrepo "ForexPulse/internal/domain/repository"
	"ForexPulse/internal/engine"
)

// SignalUseCase fronts the decision engine for the HTTP layer.
type SignalUseCase struct {
	engine  *engine.Engine
	quotes  domrepo.QuoteSource
	journal domrepo.SignalJournal
	session *engine.SessionTracker
	metrics domrepo.Metrics
}

// NewSignalUseCase wires the engine and its collaborators.
func NewSignalUseCase(eng *engine.Engine, quotes domrepo.QuoteSource, journal domrepo.SignalJournal, session *engine.SessionTracker, metrics domrepo.Metrics) *SignalUseCase {
	return &SignalUseCase{engine: eng, quotes: quotes, journal: journal, session: session, metrics: metrics}
}

// Generate runs the cascade for one pair.
func (u *SignalUseCase) Generate(ctx context.Context, req *models.SignalRequest) (*models.SignalAnalysis, error) {
	return u.engine.Generate(ctx, req.Pair, domrepo.NormalizeTimeframe(req.TF))
}

// Scan runs the cascade across every configured pair.
func (u *SignalUseCase) Scan(ctx context.Context, req *models.ScanRequest) (*models.ScanResult, error) {
	return u.engine.ScanAll(ctx, domrepo.NormalizeTimeframe(req.TF))
}

// Candles returns candle history for the dashboard chart.
func (u *SignalUseCase) Candles(ctx context.Context, req *models.CandlesRequest) ([]models.Candle, error) {
	return u.quotes.GetCandles(ctx, req.Pair, domrepo.NormalizeTimeframe(req.TF), req.Limit)
}

// Quote returns the current price for a pair.
func (u *SignalUseCase) Quote(ctx context.Context, req *models.QuoteRequest) (models.Quote, error) {
	return u.quotes.GetQuote(ctx, req.Pair)
}

// Recent returns the latest journaled signals.
func (u *SignalUseCase) Recent(ctx context.Context, req *models.RecentSignalsRequest) ([]models.SignalAnalysis, error) {
	if u.journal == nil {
		return []models.SignalAnalysis{}, nil
	}
	out, err := u.journal.Recent(ctx, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("recent signals: %w", err)
	}
	if out == nil {
		out = []models.SignalAnalysis{}
	}
	return out, nil
}

// Session returns the current day's accumulators.
func (u *SignalUseCase) Session(ctx context.Context) models.SessionStats {
	return u.session.Stats()
}

// RecordTrade settles a trade result against the session tracker.
func (u *SignalUseCase) RecordTrade(ctx context.Context, req *models.TradeResultRequest) (models.SessionStats, error) {
	u.session.RecordTrade(req.Won, req.AmountBps)
	stats := u.session.Stats()
	if u.metrics != nil {
		u.metrics.RecordSessionPnL(stats.NetBps())
	}
	return stats, nil
}

// Pairs lists the configured pairs.
func (u *SignalUseCase) Pairs() []string {
	return u.quotes.Pairs()
}
