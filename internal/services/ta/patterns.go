package ta

import "ForexPulse/internal/domain/models"

// Fixed pattern magnitudes. Patterns are independent and may overlap; each
// contributes equally to the average.
const (
	engulfingStrength = 75.0
	starStrength      = 60.0
	hammerStrength    = 50.0
	soldiersStrength  = 65.0

	patternCount      = 8
	directionCutoff   = 10.0
	dojiBodyRatio     = 0.3
	wickToBodyMinimum = 2.0
)

// ScorePatterns scores the eight multi-candle patterns on the tail of the
// sequence and classifies the overall direction. Fewer than 3 candles yields
// an all-zero neutral result.
func ScorePatterns(candles []models.Candle) models.PatternScore {
	var ps models.PatternScore
	ps.Direction = models.TrendNeutral
	if len(candles) < 3 {
		return ps
	}

	a := candles[len(candles)-3]
	b := candles[len(candles)-2]
	c := candles[len(candles)-1]

	if isBullishEngulfing(b, c) {
		ps.BullishEngulfing = engulfingStrength
	}
	if isBearishEngulfing(b, c) {
		ps.BearishEngulfing = -engulfingStrength
	}
	if isMorningStar(a, b, c) {
		ps.MorningStar = starStrength
	}
	if isEveningStar(a, b, c) {
		ps.EveningStar = -starStrength
	}
	if isHammerShape(c) && b.Close < a.Close {
		ps.Hammer = hammerStrength
	}
	if isHammerShape(c) && b.Close > a.Close {
		ps.HangingMan = -hammerStrength
	}
	if isThreeWhiteSoldiers(a, b, c) {
		ps.ThreeWhiteSoldiers = soldiersStrength
	}
	if isThreeBlackCrows(a, b, c) {
		ps.ThreeBlackCrows = -soldiersStrength
	}

	sum := ps.BullishEngulfing + ps.BearishEngulfing +
		ps.MorningStar + ps.EveningStar +
		ps.Hammer + ps.HangingMan +
		ps.ThreeWhiteSoldiers + ps.ThreeBlackCrows
	ps.OverallScore = sum / patternCount

	switch {
	case ps.OverallScore > directionCutoff:
		ps.Direction = models.TrendBullish
	case ps.OverallScore < -directionCutoff:
		ps.Direction = models.TrendBearish
	}
	return ps
}

func body(c models.Candle) float64 {
	b := c.Close - c.Open
	if b < 0 {
		return -b
	}
	return b
}

func isBullishEngulfing(prev, cur models.Candle) bool {
	return prev.Close < prev.Open &&
		cur.Close > cur.Open &&
		cur.Close > prev.Open &&
		cur.Open < prev.Close
}

func isBearishEngulfing(prev, cur models.Candle) bool {
	return prev.Close > prev.Open &&
		cur.Close < cur.Open &&
		cur.Close < prev.Open &&
		cur.Open > prev.Close
}

func isDoji(c models.Candle) bool {
	rng := c.High - c.Low
	if rng == 0 {
		return true
	}
	return body(c)/rng <= dojiBodyRatio
}

// isMorningStar: long bearish bar, a doji star, then a bullish bar closing
// above the midpoint of the first.
func isMorningStar(a, b, c models.Candle) bool {
	return a.Close < a.Open &&
		isDoji(b) &&
		c.Close > c.Open &&
		c.Close > (a.Open+a.Close)/2
}

func isEveningStar(a, b, c models.Candle) bool {
	return a.Close > a.Open &&
		isDoji(b) &&
		c.Close < c.Open &&
		c.Close < (a.Open+a.Close)/2
}

// isHammerShape: small body near the top of the range with a lower wick at
// least twice the body. Hammer after a decline, hanging man after an advance.
func isHammerShape(c models.Candle) bool {
	b := body(c)
	if b == 0 {
		return false
	}
	bodyLow := c.Open
	if c.Close < c.Open {
		bodyLow = c.Close
	}
	bodyHigh := c.Open + c.Close - bodyLow
	lowerWick := bodyLow - c.Low
	upperWick := c.High - bodyHigh
	return lowerWick >= wickToBodyMinimum*b && upperWick <= b
}

func isThreeWhiteSoldiers(a, b, c models.Candle) bool {
	return a.Close > a.Open && b.Close > b.Open && c.Close > c.Open &&
		b.Close > a.Close && c.Close > b.Close
}

func isThreeBlackCrows(a, b, c models.Candle) bool {
	return a.Close < a.Open && b.Close < b.Open && c.Close < c.Open &&
		b.Close < a.Close && c.Close < b.Close
}
