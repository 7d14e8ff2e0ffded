package ta

import (
	"math"

	"ForexPulse/internal/domain/models"
)

// Label thresholds for the derived snapshot fields.
const (
	momentumStrongDist   = 20.0 // |RSI-50| for STRONG
	momentumModerateDist = 10.0 // |RSI-50| for MODERATE
	volatilityHighWidth  = 0.004
	volatilityMedWidth   = 0.002
	trendingADX          = 20.0
)

// Compute derives a full TechnicalAnalysis snapshot from a candle sequence.
// The snapshot is immutable once built; callers recompute it per request.
func Compute(candles []models.Candle) *models.TechnicalAnalysis {
	closes := models.Closes(candles)

	snap := &models.TechnicalAnalysis{
		RSI:            RSI(closes, rsiPeriod),
		RSIDivergence:  DetectRSIDivergence(closes, rsiPeriod),
		MACD:           MACD(closes),
		SMA20:          SMA(closes, 20),
		SMA50:          SMA(closes, 50),
		SMA200:         SMA(closes, 200),
		EMA12:          EMA(closes, 12),
		EMA26:          EMA(closes, 26),
		BollingerBands: Bollinger(closes, bollingerPeriod, bollingerStdDev),
		Stochastic:     StochasticOsc(candles, stochKPeriod, stochDPeriod),
		ATR:            ATR(candles, atrPeriod),
		ADX:            ADX(candles, adxPeriod),
		Supertrend:     SupertrendInd(candles, supertrendPeriod, supertrendMult),
		CandlePattern:  DetectEngulfing(candles),
	}

	snap.Trend = classifyTrend(closes, snap.SMA20, snap.SMA50)
	snap.Momentum = classifyMomentum(snap.RSI)
	snap.Volatility = classifyVolatility(snap.BollingerBands)
	if snap.ADX >= trendingADX {
		snap.MarketRegime = models.RegimeTrending
	} else {
		snap.MarketRegime = models.RegimeRanging
	}
	return snap
}

func classifyTrend(closes []float64, sma20, sma50 float64) models.Trend {
	if len(closes) == 0 {
		return models.TrendNeutral
	}
	last := closes[len(closes)-1]
	if last > sma20 && sma20 > sma50 {
		return models.TrendBullish
	}
	if last < sma20 && sma20 < sma50 {
		return models.TrendBearish
	}
	return models.TrendNeutral
}

func classifyMomentum(rsi float64) models.Momentum {
	dist := math.Abs(rsi - 50)
	switch {
	case dist >= momentumStrongDist:
		return models.MomentumStrong
	case dist >= momentumModerateDist:
		return models.MomentumModerate
	default:
		return models.MomentumWeak
	}
}

func classifyVolatility(bb models.BollingerBands) models.Volatility {
	if bb.Middle == 0 {
		return models.VolatilityLow
	}
	width := (bb.Upper - bb.Lower) / bb.Middle
	switch {
	case width >= volatilityHighWidth:
		return models.VolatilityHigh
	case width >= volatilityMedWidth:
		return models.VolatilityMedium
	default:
		return models.VolatilityLow
	}
}
