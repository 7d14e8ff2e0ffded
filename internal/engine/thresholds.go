package engine

import "time"

// Tuning constants for the decision cascade. Values are empirical; change
// them here, never inline.
const (
	// DefaultCooldown is the minimum gap between emitted signals per pair.
	DefaultCooldown = 10 * time.Minute

	// Confidence model.
	baseConfidence     = 65
	maxConfidence      = 98
	clusterAgreeBonus  = 8
	clusterSplitMalus  = 6
	meanReversionBonus = 12
	htfAlignBonus      = 6

	// mlConfidenceBoost = floor((|pattern| + |sentiment|) / mlBoostDivisor).
	mlBoostDivisor = 15

	// Adaptive confidence threshold, banded on ADX. Lower ADX means a
	// choppier market and a stricter bar.
	thresholdTrending = 72
	thresholdWeak     = 78
	thresholdChoppy   = 85

	adxTrending = 20.0
	adxWeak     = 15.0

	// Tactical grade table axes.
	adxStrong    = 25.0
	mlScoreHigh  = 25
	mlScoreMid   = 15
	mlScoreLow   = 5
	mlScoreGate  = 10
	mlScoreAPlus = 20

	// RSI extremes disqualify the fallback grade path.
	rsiExtremeLow  = 25.0
	rsiExtremeHigh = 75.0

	// Mean reversion trigger.
	rsiOversold   = 30.0
	rsiOverbought = 70.0
	smaDeviation  = 0.001

	// Correlation cluster across major pairs.
	clusterAgreeMin = 4
	clusterSplitMax = 1

	// Stake advice cut lines.
	stakeHighConfidence   = 88
	stakeMediumConfidence = 85
	stakeFloorConfidence  = 82

	// Stop loss and take profit.
	atrPipMultiplier = 1.5
	minPipDistance   = 10.0
	riskRewardRatio  = 1.5

	// Forex week boundaries in UTC.
	marketCloseHourUTC = 22
)

// majorPairs participate in the correlation cluster check.
var majorPairs = []string{"EURUSD", "GBPUSD", "USDJPY", "AUDUSD", "USDCAD"}
