package ta

import (
	"math"

	"ForexPulse/internal/domain/models"
)

// Pure indicator computations over price or candle slices. None of these
// functions fail: when history is too short each one degrades to its
// documented neutral default.

const (
	rsiPeriod        = 14
	bollingerPeriod  = 20
	bollingerStdDev  = 2.0
	stochKPeriod     = 14
	stochDPeriod     = 3
	atrPeriod        = 14
	adxPeriod        = 14
	supertrendPeriod = 10
	supertrendMult   = 3.0
	divergenceLag    = 5
)

// SMA returns the mean of the last period values, or the last value when the
// series is shorter than the period.
func SMA(prices []float64, period int) float64 {
	if len(prices) == 0 {
		return 0
	}
	if period <= 0 || len(prices) < period {
		return prices[len(prices)-1]
	}
	sum := 0.0
	for _, p := range prices[len(prices)-period:] {
		sum += p
	}
	return sum / float64(period)
}

// EMA seeds with the SMA of the first period values and applies the smoothing
// factor k = 2/(period+1) forward over the rest of the series.
func EMA(prices []float64, period int) float64 {
	if len(prices) == 0 {
		return 0
	}
	if period <= 0 || len(prices) < period {
		return prices[len(prices)-1]
	}
	seed := 0.0
	for _, p := range prices[:period] {
		seed += p
	}
	ema := seed / float64(period)
	k := 2.0 / float64(period+1)
	for _, p := range prices[period:] {
		ema = p*k + ema*(1-k)
	}
	return ema
}

// RSI averages gains and losses over the last period deltas. Returns 50 on
// insufficient history and 100 when the window contains no losses.
func RSI(prices []float64, period int) float64 {
	if period <= 0 || len(prices) < period+1 {
		return 50
	}
	var avgGain, avgLoss float64
	for i := len(prices) - period; i < len(prices); i++ {
		d := prices[i] - prices[i-1]
		if d > 0 {
			avgGain += d
		} else {
			avgLoss -= d
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// emaSeries computes the forward EMA value at every index, using the last
// price as the value while the prefix is shorter than the period. This keeps
// the output identical to recomputing EMA over every growing prefix.
func emaSeries(prices []float64, period int) []float64 {
	out := make([]float64, len(prices))
	if len(prices) == 0 {
		return out
	}
	k := 2.0 / float64(period+1)
	var ema float64
	for i, p := range prices {
		switch {
		case i+1 < period:
			out[i] = p
		case i+1 == period:
			sum := 0.0
			for _, q := range prices[:period] {
				sum += q
			}
			ema = sum / float64(period)
			out[i] = ema
		default:
			ema = p*k + ema*(1-k)
			out[i] = ema
		}
	}
	return out
}

// MACD computes EMA12-EMA26 as the MACD line and the EMA9 of the MACD-line
// history as the signal line.
func MACD(prices []float64) models.MACDResult {
	if len(prices) == 0 {
		return models.MACDResult{}
	}
	e12 := emaSeries(prices, 12)
	e26 := emaSeries(prices, 26)
	macdHist := make([]float64, len(prices))
	for i := range prices {
		macdHist[i] = e12[i] - e26[i]
	}
	line := macdHist[len(macdHist)-1]
	signal := EMA(macdHist, 9)
	return models.MACDResult{
		MACDLine:   line,
		SignalLine: signal,
		Histogram:  line - signal,
	}
}

// Bollinger computes the 20-period bands at 2 population standard deviations.
func Bollinger(prices []float64, period int, stdDev float64) models.BollingerBands {
	if len(prices) == 0 {
		return models.BollingerBands{PercentB: 0.5}
	}
	last := prices[len(prices)-1]
	if len(prices) < period {
		return models.BollingerBands{Upper: last, Middle: last, Lower: last, PercentB: 0.5}
	}
	middle := SMA(prices, period)
	window := prices[len(prices)-period:]
	variance := 0.0
	for _, p := range window {
		d := p - middle
		variance += d * d
	}
	sd := math.Sqrt(variance / float64(period))
	upper := middle + stdDev*sd
	lower := middle - stdDev*sd
	percentB := 0.5
	if upper != lower {
		percentB = (last - lower) / (upper - lower)
	}
	return models.BollingerBands{
		Upper:    upper,
		Middle:   middle,
		Lower:    lower,
		PercentB: percentB,
		Breakout: last > upper || last < lower,
	}
}

// StochasticOsc computes %K over the last kPeriod highs/lows and %D as the
// SMA of the %K history over dPeriod.
func StochasticOsc(candles []models.Candle, kPeriod, dPeriod int) models.Stochastic {
	if len(candles) < kPeriod {
		return models.Stochastic{K: 50, D: 50}
	}
	kAt := func(end int) float64 {
		lo := math.Inf(1)
		hi := math.Inf(-1)
		for _, c := range candles[end-kPeriod+1 : end+1] {
			lo = math.Min(lo, c.Low)
			hi = math.Max(hi, c.High)
		}
		if hi == lo {
			return 50
		}
		return (candles[end].Close - lo) / (hi - lo) * 100
	}
	var kSeries []float64
	for end := kPeriod - 1; end < len(candles); end++ {
		kSeries = append(kSeries, kAt(end))
	}
	return models.Stochastic{
		K: kSeries[len(kSeries)-1],
		D: SMA(kSeries, dPeriod),
	}
}

func trueRange(cur, prev models.Candle) float64 {
	hl := cur.High - cur.Low
	hc := math.Abs(cur.High - prev.Close)
	lc := math.Abs(cur.Low - prev.Close)
	return math.Max(hl, math.Max(hc, lc))
}

// ATR returns the mean of the last period true-range values, using whatever
// history is available; under 2 candles it returns 0.
func ATR(candles []models.Candle, period int) float64 {
	if len(candles) < 2 {
		return 0
	}
	start := len(candles) - period
	if start < 1 {
		start = 1
	}
	sum := 0.0
	n := 0
	for i := start; i < len(candles); i++ {
		sum += trueRange(candles[i], candles[i-1])
		n++
	}
	return sum / float64(n)
}

// ADX is a simplified directional-movement strength proxy: summed +DM/-DM over
// the window normalized by summed true range, yielding
// |DI+ - DI-| / (DI+ + DI-) * 100. Not full Wilder smoothing.
func ADX(candles []models.Candle, period int) float64 {
	if len(candles) < period+1 {
		return 0
	}
	var plusDM, minusDM, trSum float64
	for i := len(candles) - period; i < len(candles); i++ {
		up := candles[i].High - candles[i-1].High
		down := candles[i-1].Low - candles[i].Low
		if up > down && up > 0 {
			plusDM += up
		}
		if down > up && down > 0 {
			minusDM += down
		}
		trSum += trueRange(candles[i], candles[i-1])
	}
	if trSum == 0 {
		return 0
	}
	diPlus := plusDM / trSum * 100
	diMinus := minusDM / trSum * 100
	if diPlus+diMinus == 0 {
		return 0
	}
	return math.Abs(diPlus-diMinus) / (diPlus + diMinus) * 100
}

// SupertrendInd computes ATR bands around HL2. Direction flips when the close
// crosses a band, otherwise it inherits the prior bar's bias relative to HL2.
// Fewer than period+2 candles yields a neutral result.
func SupertrendInd(candles []models.Candle, period int, mult float64) models.Supertrend {
	if len(candles) < period+2 {
		var hl2 float64
		if len(candles) > 0 {
			last := candles[len(candles)-1]
			hl2 = (last.High + last.Low) / 2
		}
		return models.Supertrend{Direction: models.SupertrendNeutral, Value: hl2}
	}
	atr := ATR(candles, period)
	last := candles[len(candles)-1]
	prev := candles[len(candles)-2]
	hl2 := (last.High + last.Low) / 2
	upper := hl2 + mult*atr
	lower := hl2 - mult*atr
	dir := models.SupertrendDown
	switch {
	case last.Close > upper:
		dir = models.SupertrendUp
	case last.Close < lower:
		dir = models.SupertrendDown
	default:
		prevHL2 := (prev.High + prev.Low) / 2
		if last.Close >= prevHL2 {
			dir = models.SupertrendUp
		}
	}
	value := upper
	if dir == models.SupertrendUp {
		value = lower
	}
	return models.Supertrend{Direction: dir, Value: value}
}

// DetectEngulfing detects a one-step bullish or bearish engulfing on the last
// two candles only. Returns "" when neither fires.
func DetectEngulfing(candles []models.Candle) string {
	if len(candles) < 2 {
		return ""
	}
	prev := candles[len(candles)-2]
	last := candles[len(candles)-1]
	prevBearish := prev.Close < prev.Open
	prevBullish := prev.Close > prev.Open
	if prevBearish && last.Close > last.Open && last.Close > prev.Open && last.Open < prev.Close {
		return "BULLISH_ENGULFING"
	}
	if prevBullish && last.Close < last.Open && last.Close < prev.Open && last.Open > prev.Close {
		return "BEARISH_ENGULFING"
	}
	return ""
}

// DetectRSIDivergence compares price and RSI now against divergenceLag bars
// back. A lower price low with a higher RSI low (or the bearish mirror)
// signals divergence.
func DetectRSIDivergence(prices []float64, period int) bool {
	if len(prices) < period+1+divergenceLag {
		return false
	}
	now := prices[len(prices)-1]
	then := prices[len(prices)-1-divergenceLag]
	rsiNow := RSI(prices, period)
	rsiThen := RSI(prices[:len(prices)-divergenceLag], period)
	bullish := now < then && rsiNow > rsiThen
	bearish := now > then && rsiNow < rsiThen
	return bullish || bearish
}
