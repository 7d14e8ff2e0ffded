package ta

import (
	"math"
	"testing"

	"ForexPulse/internal/domain/models"
)

func linearCloses(start, step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

func candlesFromCloses(closes []float64) []models.Candle {
	out := make([]models.Candle, len(closes))
	for i, c := range closes {
		out[i] = models.Candle{
			Open:  c - 0.0001,
			High:  c + 0.0002,
			Low:   c - 0.0003,
			Close: c,
		}
	}
	return out
}

func TestSMAShortSeriesReturnsLast(t *testing.T) {
	got := SMA([]float64{1.1, 1.2, 1.3}, 20)
	if got != 1.3 {
		t.Fatalf("expected last value 1.3, got %v", got)
	}
}

func TestSMAWindowMean(t *testing.T) {
	prices := []float64{1, 2, 3, 4, 5}
	got := SMA(prices, 3)
	if got != 4 {
		t.Fatalf("expected mean of last 3 = 4, got %v", got)
	}
}

func TestEMAShortSeriesReturnsLast(t *testing.T) {
	got := EMA([]float64{1.1, 1.2}, 12)
	if got != 1.2 {
		t.Fatalf("expected last value 1.2, got %v", got)
	}
}

func TestRSIInsufficientHistory(t *testing.T) {
	got := RSI(linearCloses(1.1, 0.001, 10), 14)
	if got != 50 {
		t.Fatalf("expected neutral 50 on short history, got %v", got)
	}
}

func TestRSIBounds(t *testing.T) {
	up := RSI(linearCloses(1.1, 0.001, 30), 14)
	if up != 100 {
		t.Fatalf("expected 100 on all gains, got %v", up)
	}
	down := RSI(linearCloses(1.5, -0.001, 30), 14)
	if down < 0 || down > 1 {
		t.Fatalf("expected near-zero RSI on all losses, got %v", down)
	}
}

func TestEMASeriesMatchesPrefixRecompute(t *testing.T) {
	prices := []float64{1.10, 1.11, 1.09, 1.12, 1.13, 1.11, 1.14, 1.15, 1.13, 1.16}
	series := emaSeries(prices, 5)
	for i := range prices {
		want := EMA(prices[:i+1], 5)
		if math.Abs(series[i]-want) > 1e-12 {
			t.Fatalf("index %d: series %v != prefix recompute %v", i, series[i], want)
		}
	}
}

func TestMACDHistogramIsLineMinusSignal(t *testing.T) {
	m := MACD(linearCloses(1.1, 0.0005, 60))
	if math.Abs(m.Histogram-(m.MACDLine-m.SignalLine)) > 1e-12 {
		t.Fatalf("histogram %v != line-signal %v", m.Histogram, m.MACDLine-m.SignalLine)
	}
}

func TestBollingerOrdering(t *testing.T) {
	bb := Bollinger(linearCloses(1.1, 0.0007, 40), 20, 2.0)
	if !(bb.Lower <= bb.Middle && bb.Middle <= bb.Upper) {
		t.Fatalf("bands out of order: %+v", bb)
	}
}

func TestBollingerFlatSeries(t *testing.T) {
	prices := make([]float64, 30)
	for i := range prices {
		prices[i] = 1.25
	}
	bb := Bollinger(prices, 20, 2.0)
	if bb.Upper != bb.Lower {
		t.Fatalf("expected collapsed bands on flat series, got %+v", bb)
	}
	if bb.PercentB != 0.5 {
		t.Fatalf("expected neutral percentB 0.5, got %v", bb.PercentB)
	}
	if bb.Breakout {
		t.Fatalf("flat series must not break out")
	}
}

func TestStochasticShortSeriesNeutral(t *testing.T) {
	s := StochasticOsc(candlesFromCloses(linearCloses(1.1, 0.001, 5)), 14, 3)
	if s.K != 50 || s.D != 50 {
		t.Fatalf("expected neutral 50/50, got %+v", s)
	}
}

func TestStochasticBounds(t *testing.T) {
	s := StochasticOsc(candlesFromCloses(linearCloses(1.1, 0.001, 40)), 14, 3)
	if s.K < 0 || s.K > 100 || s.D < 0 || s.D > 100 {
		t.Fatalf("stochastic out of [0,100]: %+v", s)
	}
}

func TestATRUnderTwoCandlesIsZero(t *testing.T) {
	if got := ATR(candlesFromCloses([]float64{1.1}), 14); got != 0 {
		t.Fatalf("expected 0, got %v", got)
	}
}

func TestATRPositiveOnMovingSeries(t *testing.T) {
	if got := ATR(candlesFromCloses(linearCloses(1.1, 0.001, 30)), 14); got <= 0 {
		t.Fatalf("expected positive ATR, got %v", got)
	}
}

func TestADXShortHistoryIsZero(t *testing.T) {
	if got := ADX(candlesFromCloses(linearCloses(1.1, 0.001, 10)), 14); got != 0 {
		t.Fatalf("expected 0 on short history, got %v", got)
	}
}

func TestADXStrongOnOneWayMove(t *testing.T) {
	got := ADX(candlesFromCloses(linearCloses(1.1, 0.002, 40)), 14)
	if got < 50 || got > 100 {
		t.Fatalf("expected strong directional reading, got %v", got)
	}
}

func TestSupertrendShortHistoryNeutral(t *testing.T) {
	st := SupertrendInd(candlesFromCloses(linearCloses(1.1, 0.001, 5)), 10, 3.0)
	if st.Direction != models.SupertrendNeutral {
		t.Fatalf("expected neutral direction, got %d", st.Direction)
	}
}

func TestSupertrendUptrend(t *testing.T) {
	st := SupertrendInd(candlesFromCloses(linearCloses(1.1, 0.002, 30)), 10, 3.0)
	if st.Direction != models.SupertrendUp {
		t.Fatalf("expected up direction, got %d", st.Direction)
	}
}

func TestDetectEngulfingBullish(t *testing.T) {
	candles := []models.Candle{
		{Open: 1.105, High: 1.106, Low: 1.099, Close: 1.100},
		{Open: 1.099, High: 1.108, Low: 1.098, Close: 1.107},
	}
	if got := DetectEngulfing(candles); got != "BULLISH_ENGULFING" {
		t.Fatalf("expected BULLISH_ENGULFING, got %q", got)
	}
}

func TestDetectEngulfingNone(t *testing.T) {
	candles := candlesFromCloses(linearCloses(1.1, 0.00001, 4))
	if got := DetectEngulfing(candles); got != "" {
		t.Fatalf("expected no pattern, got %q", got)
	}
}

func TestDetectRSIDivergenceShortHistory(t *testing.T) {
	if DetectRSIDivergence(linearCloses(1.1, 0.001, 15), 14) {
		t.Fatalf("short history must not report divergence")
	}
}
