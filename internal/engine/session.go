package engine

import (
	"sync"
	"time"

	"ForexPulse/internal/domain/models"
	domrepo "ForexPulse/internal/domain/repository"
)

// SessionTracker accumulates the day's trade results in basis points and
// gates signal emission against a daily goal and a max drawdown limit.
// Accumulators reset when the UTC date rolls over.
type SessionTracker struct {
	mu    sync.Mutex
	stats models.SessionStats
	now   func() time.Time
}

// NewSessionTracker builds a tracker with the given limits.
func NewSessionTracker(goalBps, maxDrawdownBps float64) *SessionTracker {
	t := &SessionTracker{now: time.Now}
	t.stats = models.SessionStats{
		StartOfDay:     t.startOfDay(t.now()),
		SessionGoalBps: goalBps,
		MaxDrawdownBps: maxDrawdownBps,
	}
	return t
}

// SetClock replaces the time source. Intended for tests.
func (t *SessionTracker) SetClock(now func() time.Time) { t.now = now }

var _ domrepo.SessionGate = (*SessionTracker)(nil)

// RecordTrade applies a settled trade result to the day's accumulators.
func (t *SessionTracker) RecordTrade(won bool, amountBps float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rolloverLocked()
	if won {
		t.stats.DailyProfitBps += amountBps
		t.stats.Wins++
	} else {
		t.stats.DailyLossBps += amountBps
		t.stats.Losses++
	}
}

// HasReachedDailyGoal reports whether net P&L meets the session goal.
func (t *SessionTracker) HasReachedDailyGoal() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rolloverLocked()
	return t.stats.NetBps() >= t.stats.SessionGoalBps
}

// HasExceededMaxDrawdown reports whether losses breached the drawdown limit.
func (t *SessionTracker) HasExceededMaxDrawdown() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rolloverLocked()
	return -t.stats.NetBps() >= t.stats.MaxDrawdownBps
}

// Stats returns a copy of the current day's accumulators.
func (t *SessionTracker) Stats() models.SessionStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rolloverLocked()
	return t.stats
}

func (t *SessionTracker) rolloverLocked() {
	day := t.startOfDay(t.now())
	if day.Equal(t.stats.StartOfDay) {
		return
	}
	t.stats = models.SessionStats{
		StartOfDay:     day,
		SessionGoalBps: t.stats.SessionGoalBps,
		MaxDrawdownBps: t.stats.MaxDrawdownBps,
	}
}

func (t *SessionTracker) startOfDay(ts time.Time) time.Time {
	y, m, d := ts.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
