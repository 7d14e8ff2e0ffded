package models

// Trend labels the prevailing direction of a candle sequence.
type Trend string

const (
	TrendBullish Trend = "BULLISH"
	TrendBearish Trend = "BEARISH"
	TrendNeutral Trend = "NEUTRAL"
)

// Momentum labels how forceful the current move is.
type Momentum string

const (
	MomentumStrong   Momentum = "STRONG"
	MomentumModerate Momentum = "MODERATE"
	MomentumWeak     Momentum = "WEAK"
)

// Volatility labels the width of recent price swings.
type Volatility string

const (
	VolatilityHigh   Volatility = "HIGH"
	VolatilityMedium Volatility = "MEDIUM"
	VolatilityLow    Volatility = "LOW"
)

// MarketRegime separates directional from range-bound markets.
type MarketRegime string

const (
	RegimeTrending MarketRegime = "TRENDING"
	RegimeRanging  MarketRegime = "RANGING"
)

// MACDResult holds the MACD line, its signal line, and their difference.
type MACDResult struct {
	MACDLine   float64 `json:"macdLine"`
	SignalLine float64 `json:"signalLine"`
	Histogram  float64 `json:"histogram"`
}

// BollingerBands holds the band levels and the position of the last close.
type BollingerBands struct {
	Upper    float64 `json:"upper"`
	Middle   float64 `json:"middle"`
	Lower    float64 `json:"lower"`
	PercentB float64 `json:"percentB"`
	Breakout bool    `json:"breakout"`
}

// Stochastic holds the %K and smoothed %D oscillator values.
type Stochastic struct {
	K float64 `json:"k"`
	D float64 `json:"d"`
}

// Supertrend direction values.
const (
	SupertrendUp      = 1
	SupertrendDown    = -1
	SupertrendNeutral = 0
)

// Supertrend holds the trailing band value and current bias.
type Supertrend struct {
	Direction int     `json:"direction"`
	Value     float64 `json:"value"`
}

// TechnicalAnalysis is an immutable snapshot of every indicator computed
// from one candle sequence. It is recomputed on every request; only raw
// candles and quotes are cached.
type TechnicalAnalysis struct {
	RSI            float64        `json:"rsi"`
	RSIDivergence  bool           `json:"rsiDivergence"`
	MACD           MACDResult     `json:"macd"`
	SMA20          float64        `json:"sma20"`
	SMA50          float64        `json:"sma50"`
	SMA200         float64        `json:"sma200"`
	EMA12          float64        `json:"ema12"`
	EMA26          float64        `json:"ema26"`
	BollingerBands BollingerBands `json:"bollingerBands"`
	Stochastic     Stochastic     `json:"stochastic"`
	ATR            float64        `json:"atr"`
	ADX            float64        `json:"adx"`
	Supertrend     Supertrend     `json:"supertrend"`
	CandlePattern  string         `json:"candlePattern,omitempty"`
	Trend          Trend          `json:"trend"`
	Momentum       Momentum       `json:"momentum"`
	Volatility     Volatility     `json:"volatility"`
	MarketRegime   MarketRegime   `json:"marketRegime"`
}

// PatternScore holds the eight fixed-magnitude pattern strengths, their mean
// and the direction classified from the mean at a +-10 threshold.
type PatternScore struct {
	BullishEngulfing   float64 `json:"bullishEngulfing"`
	BearishEngulfing   float64 `json:"bearishEngulfing"`
	MorningStar        float64 `json:"morningStar"`
	EveningStar        float64 `json:"eveningStar"`
	Hammer             float64 `json:"hammer"`
	HangingMan         float64 `json:"hangingMan"`
	ThreeWhiteSoldiers float64 `json:"threeWhiteSoldiers"`
	ThreeBlackCrows    float64 `json:"threeBlackCrows"`
	OverallScore       float64 `json:"overallScore"`
	Direction          Trend   `json:"direction"`
}

// SentimentScore holds the per-indicator bucketed contributions and their
// fixed-weight combination. ADXStrength is reported separately and is not
// part of the weighted sum.
type SentimentScore struct {
	RSIScore         float64 `json:"rsiScore"`
	MACDScore        float64 `json:"macdScore"`
	StochasticScore  float64 `json:"stochasticScore"`
	TrendScore       float64 `json:"trendScore"`
	VolatilityScore  float64 `json:"volatilityScore"`
	MomentumScore    float64 `json:"momentumScore"`
	ADXStrength      float64 `json:"adxStrength"`
	OverallSentiment int     `json:"overallSentiment"`
}
