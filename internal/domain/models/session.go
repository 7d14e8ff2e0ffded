package models

import "time"

// SessionStats accumulates daily results in basis points. The tracker resets
// the accumulators whenever the wall-clock date rolls over.
type SessionStats struct {
	DailyProfitBps float64   `json:"dailyProfitBps"`
	DailyLossBps   float64   `json:"dailyLossBps"`
	Wins           int       `json:"wins"`
	Losses         int       `json:"losses"`
	StartOfDay     time.Time `json:"startOfDay"`
	SessionGoalBps float64   `json:"sessionGoalBps"`
	MaxDrawdownBps float64   `json:"maxDrawdownBps"`
}

// NetBps is the current daily P&L in basis points.
func (s SessionStats) NetBps() float64 { return s.DailyProfitBps - s.DailyLossBps }
