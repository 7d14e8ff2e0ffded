package ta

import (
	"math"
	"testing"

	"ForexPulse/internal/domain/models"
)

func TestScoreSentimentWeightedSum(t *testing.T) {
	snap := &models.TechnicalAnalysis{
		RSI:            25, // +25 bucket
		MACD:           models.MACDResult{MACDLine: 0.001, Histogram: 0.0005},
		BollingerBands: models.BollingerBands{Middle: 1.1},
		Stochastic:     models.Stochastic{K: 15}, // +75 bucket
		Trend:          models.TrendBullish,      // +50
		Volatility:     models.VolatilityLow,     // +20
		Momentum:       models.MomentumWeak,      // 0
		ADX:            30,
	}
	s := ScoreSentiment(snap)

	weighted := weightRSI*s.RSIScore +
		weightMACD*s.MACDScore +
		weightStochastic*s.StochasticScore +
		weightTrend*s.TrendScore +
		weightVolatility*s.VolatilityScore +
		weightMomentum*s.MomentumScore
	if s.OverallSentiment != int(math.Round(weighted)) {
		t.Fatalf("overall %d does not match weighted sum %v", s.OverallSentiment, weighted)
	}
	if s.OverallSentiment <= 0 {
		t.Fatalf("expected bullish sentiment, got %d", s.OverallSentiment)
	}
}

func TestScoreSentimentADXExcludedFromSum(t *testing.T) {
	base := &models.TechnicalAnalysis{
		RSI:        50,
		Stochastic: models.Stochastic{K: 50},
		Trend:      models.TrendNeutral,
		Volatility: models.VolatilityMedium,
		Momentum:   models.MomentumWeak,
	}
	low := *base
	low.ADX = 10
	high := *base
	high.ADX = 50

	sLow := ScoreSentiment(&low)
	sHigh := ScoreSentiment(&high)
	if sLow.OverallSentiment != sHigh.OverallSentiment {
		t.Fatalf("ADX must not affect the weighted sum: %d vs %d",
			sLow.OverallSentiment, sHigh.OverallSentiment)
	}
	if sLow.ADXStrength != 0 || sHigh.ADXStrength != 100 {
		t.Fatalf("expected ADX strengths 0 and 100, got %v and %v",
			sLow.ADXStrength, sHigh.ADXStrength)
	}
}

func TestRSISentimentBuckets(t *testing.T) {
	cases := []struct {
		rsi  float64
		want float64
	}{
		{15, 40}, {25, 25}, {35, 10}, {50, 0}, {65, -10}, {75, -25}, {85, -40},
	}
	for _, tc := range cases {
		if got := rsiSentiment(tc.rsi); got != tc.want {
			t.Fatalf("rsi %v: expected %v, got %v", tc.rsi, tc.want, got)
		}
	}
}

func TestMACDSentimentClamped(t *testing.T) {
	m := models.MACDResult{MACDLine: 1, Histogram: 1}
	if got := macdSentiment(m, 1.1); got != 50 {
		t.Fatalf("expected clamp at 50, got %v", got)
	}
	m = models.MACDResult{MACDLine: -1, Histogram: -1}
	if got := macdSentiment(m, 1.1); got != -50 {
		t.Fatalf("expected clamp at -50, got %v", got)
	}
}

func TestMACDSentimentZeroPrice(t *testing.T) {
	if got := macdSentiment(models.MACDResult{Histogram: 0.01}, 0); got != 0 {
		t.Fatalf("expected 0 on zero price, got %v", got)
	}
}

func TestMomentumSentimentSignFollowsRSI(t *testing.T) {
	if got := momentumSentiment(models.MomentumStrong, 70); got != 40 {
		t.Fatalf("expected +40, got %v", got)
	}
	if got := momentumSentiment(models.MomentumStrong, 30); got != -40 {
		t.Fatalf("expected -40, got %v", got)
	}
}
