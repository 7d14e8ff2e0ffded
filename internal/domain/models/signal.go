package models

import "time"

// SignalType is the direction of an emitted signal.
type SignalType string

const (
	SignalCall SignalType = "CALL"
	SignalPut  SignalType = "PUT"
)

// SignalGrade ranks an emitted signal by the strength of its setup.
type SignalGrade string

const (
	GradeA       SignalGrade = "A"
	GradeAMinus  SignalGrade = "A-"
	GradeBPlus   SignalGrade = "B+"
	GradeB       SignalGrade = "B"
	GradeC       SignalGrade = "C"
	GradeSkipped SignalGrade = "SKIPPED"
)

// SkipReason tags a skipped result so consumers branch on the tag, never on
// the human-readable reasoning text.
type SkipReason string

const (
	SkipMarketClosed  SkipReason = "MARKET_CLOSED"
	SkipCooldown      SkipReason = "COOLDOWN"
	SkipHalted        SkipReason = "HALTED"
	SkipNoConsensus   SkipReason = "NO_CONSENSUS"
	SkipLowConfidence SkipReason = "LOW_CONFIDENCE"
)

// StakeAdvice buckets position-sizing guidance by grade and confidence.
type StakeAdvice string

const (
	StakeHigh   StakeAdvice = "HIGH"
	StakeMedium StakeAdvice = "MEDIUM"
	StakeLow    StakeAdvice = "LOW"
)

// SignalAnalysis is the decision engine's output for one (pair, timeframe)
// request. Created fresh per request and never mutated afterwards.
type SignalAnalysis struct {
	Pair              string             `json:"pair"`
	Timeframe         string             `json:"timeframe"`
	CurrentPrice      float64            `json:"currentPrice"`
	SignalType        SignalType         `json:"signalType,omitempty"`
	Confidence        int                `json:"confidence"`
	SignalGrade       SignalGrade        `json:"signalGrade"`
	SkipReason        SkipReason         `json:"skipReason,omitempty"`
	Entry             float64            `json:"entry,omitempty"`
	StopLoss          float64            `json:"stopLoss,omitempty"`
	TakeProfit        float64            `json:"takeProfit,omitempty"`
	Technicals        *TechnicalAnalysis `json:"technicals,omitempty"`
	Reasoning         []string           `json:"reasoning"`
	RuleChecklist     map[string]bool    `json:"ruleChecklist"`
	MLPatternScore    *PatternScore      `json:"mlPatternScore,omitempty"`
	SentimentScore    *SentimentScore    `json:"sentimentScore,omitempty"`
	MLConfidenceBoost int                `json:"mlConfidenceBoost,omitempty"`
	StakeAdvice       StakeAdvice        `json:"stakeAdvice,omitempty"`
	GeneratedAt       time.Time          `json:"generatedAt"`
}

// Skipped reports whether this result is a gate failure rather than a signal.
func (s *SignalAnalysis) Skipped() bool { return s.SignalGrade == GradeSkipped }

// ScanStats summarizes one pass over the configured pairs.
type ScanStats struct {
	Scanned int `json:"scanned"`
	Valid   int `json:"valid"`
	Skipped int `json:"skipped"`
}

// ScanResult carries the best signal of a scan pass plus summary counts.
// BestSignal is nil when every pair skipped.
type ScanResult struct {
	BestSignal *SignalAnalysis `json:"bestSignal"`
	Stats      ScanStats       `json:"stats"`
}
