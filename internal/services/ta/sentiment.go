package ta

import (
	"math"

	"ForexPulse/internal/domain/models"
)

// Fixed weights of the sentiment combination. ADX strength is reported
// separately and excluded from the weighted sum.
const (
	weightRSI        = 0.15
	weightMACD       = 0.20
	weightStochastic = 0.15
	weightTrend      = 0.30
	weightVolatility = 0.05
	weightMomentum   = 0.15
)

// ScoreSentiment maps one TechnicalAnalysis snapshot into bucketed
// per-indicator contributions and combines them into one weighted score.
func ScoreSentiment(t *models.TechnicalAnalysis) models.SentimentScore {
	s := models.SentimentScore{
		RSIScore:        rsiSentiment(t.RSI),
		MACDScore:       macdSentiment(t.MACD, t.BollingerBands.Middle),
		StochasticScore: stochasticSentiment(t.Stochastic.K),
		TrendScore:      trendSentiment(t.Trend),
		VolatilityScore: volatilitySentiment(t.Volatility),
		MomentumScore:   momentumSentiment(t.Momentum, t.RSI),
		ADXStrength:     adxStrength(t.ADX),
	}
	weighted := weightRSI*s.RSIScore +
		weightMACD*s.MACDScore +
		weightStochastic*s.StochasticScore +
		weightTrend*s.TrendScore +
		weightVolatility*s.VolatilityScore +
		weightMomentum*s.MomentumScore
	s.OverallSentiment = int(math.Round(weighted))
	return s
}

// rsiSentiment buckets RSI into 7 bands from +40 (deeply oversold, bullish)
// down to -40 (deeply overbought, bearish).
func rsiSentiment(rsi float64) float64 {
	switch {
	case rsi <= 20:
		return 40
	case rsi <= 30:
		return 25
	case rsi <= 40:
		return 10
	case rsi < 60:
		return 0
	case rsi < 70:
		return -10
	case rsi < 80:
		return -25
	default:
		return -40
	}
}

// macdSentiment scales the histogram magnitude (normalized against the band
// middle as a price proxy) and amplifies it when the histogram sign agrees
// with the MACD line's side of zero.
func macdSentiment(m models.MACDResult, price float64) float64 {
	if price == 0 {
		return 0
	}
	score := m.Histogram / (0.0001 * price) * 10
	if (m.MACDLine > 0) == (m.Histogram > 0) && m.Histogram != 0 {
		score *= 1.2
	}
	return clamp(score, -50, 50)
}

// stochasticSentiment buckets %K into 5 bands from +75 to -75.
func stochasticSentiment(k float64) float64 {
	switch {
	case k <= 20:
		return 75
	case k <= 40:
		return 35
	case k < 60:
		return 0
	case k < 80:
		return -35
	default:
		return -75
	}
}

func trendSentiment(trend models.Trend) float64 {
	switch trend {
	case models.TrendBullish:
		return 50
	case models.TrendBearish:
		return -50
	default:
		return 0
	}
}

func volatilitySentiment(vol models.Volatility) float64 {
	switch vol {
	case models.VolatilityLow:
		return 20
	case models.VolatilityHigh:
		return -20
	default:
		return 0
	}
}

// momentumSentiment gives the label's magnitude the sign of the RSI side.
func momentumSentiment(mom models.Momentum, rsi float64) float64 {
	var mag float64
	switch mom {
	case models.MomentumStrong:
		mag = 40
	case models.MomentumModerate:
		mag = 20
	}
	if rsi < 50 {
		return -mag
	}
	return mag
}

// adxStrength bands ADX into 0/60/100.
func adxStrength(adx float64) float64 {
	switch {
	case adx < 20:
		return 0
	case adx < 40:
		return 60
	default:
		return 100
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
