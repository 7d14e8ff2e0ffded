package engine

import (
	"testing"
	"time"
)

func TestSessionTrackerAccumulates(t *testing.T) {
	s := NewSessionTracker(500, 300)
	s.RecordTrade(true, 120)
	s.RecordTrade(true, 80)
	s.RecordTrade(false, 50)

	stats := s.Stats()
	if stats.Wins != 2 || stats.Losses != 1 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
	if stats.NetBps() != 150 {
		t.Fatalf("expected net 150 bps, got %v", stats.NetBps())
	}
	if s.HasReachedDailyGoal() || s.HasExceededMaxDrawdown() {
		t.Fatalf("neither limit should be hit at 150 bps")
	}
}

func TestSessionTrackerGoal(t *testing.T) {
	s := NewSessionTracker(500, 300)
	s.RecordTrade(true, 500)
	if !s.HasReachedDailyGoal() {
		t.Fatalf("500 bps must reach a 500 bps goal")
	}
}

func TestSessionTrackerDrawdown(t *testing.T) {
	s := NewSessionTracker(500, 300)
	s.RecordTrade(false, 200)
	if s.HasExceededMaxDrawdown() {
		t.Fatalf("200 bps loss within a 300 bps limit")
	}
	s.RecordTrade(false, 100)
	if !s.HasExceededMaxDrawdown() {
		t.Fatalf("300 bps loss must trip a 300 bps limit")
	}
}

func TestSessionTrackerRollover(t *testing.T) {
	now := time.Date(2024, 10, 9, 23, 0, 0, 0, time.UTC)
	s := NewSessionTracker(500, 300)
	s.SetClock(func() time.Time { return now })

	s.RecordTrade(true, 600)
	if !s.HasReachedDailyGoal() {
		t.Fatalf("expected goal reached before rollover")
	}

	now = now.Add(2 * time.Hour) // past UTC midnight
	stats := s.Stats()
	if stats.NetBps() != 0 || stats.Wins != 0 {
		t.Fatalf("accumulators must reset on date rollover, got %+v", stats)
	}
	if stats.SessionGoalBps != 500 || stats.MaxDrawdownBps != 300 {
		t.Fatalf("limits must survive rollover, got %+v", stats)
	}
	if s.HasReachedDailyGoal() {
		t.Fatalf("goal must clear after rollover")
	}
}
