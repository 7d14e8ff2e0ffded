package engine

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"ForexPulse/internal/domain/models"
	domrepo "ForexPulse/internal/domain/repository"
	"ForexPulse/internal/services/ta"
	"ForexPulse/pkg/logger"
)

const defaultCandleDepth = 100

// Engine turns candle history into graded CALL/PUT signals through an ordered
// gate cascade. All mutable state (cooldown, session) is injected.
type Engine struct {
	quotes   domrepo.QuoteSource
	cooldown *CooldownTracker
	session  domrepo.SessionGate
	sink     domrepo.SignalSink
	metrics  domrepo.Metrics
	log      *logger.Logger

	candleDepth int
	now         func() time.Time
}

// Option configures Engine.
type Option func(*Engine)

// WithSink wires a sink that receives every emitted signal.
func WithSink(s domrepo.SignalSink) Option {
	return func(e *Engine) { e.sink = s }
}

// WithMetrics wires an observation recorder.
func WithMetrics(m domrepo.Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithClock replaces the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithCandleDepth sets how many bars are fetched per timeframe.
func WithCandleDepth(n int) Option {
	return func(e *Engine) { e.candleDepth = n }
}

// New builds a decision engine.
func New(quotes domrepo.QuoteSource, cooldown *CooldownTracker, session domrepo.SessionGate, log *logger.Logger, opts ...Option) *Engine {
	e := &Engine{
		quotes:      quotes,
		cooldown:    cooldown,
		session:     session,
		log:         log,
		candleDepth: defaultCandleDepth,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// marketClosed reports whether the forex market is shut at the given instant.
// The market runs Sunday 22:00 UTC through Friday 22:00 UTC.
func marketClosed(t time.Time) bool {
	t = t.UTC()
	switch t.Weekday() {
	case time.Saturday:
		return true
	case time.Friday:
		return t.Hour() >= marketCloseHourUTC
	case time.Sunday:
		return t.Hour() < marketCloseHourUTC
	}
	return false
}

// Generate runs the full cascade for one pair/timeframe. Gate failures come
// back as a zero-confidence SKIPPED result, never as an error; the only hard
// failure is an unknown pair.
func (e *Engine) Generate(ctx context.Context, pair string, tf domrepo.Timeframe) (*models.SignalAnalysis, error) {
	started := e.now()
	sig := &models.SignalAnalysis{
		Pair:          pair,
		Timeframe:     string(tf),
		SignalGrade:   models.GradeSkipped,
		Reasoning:     []string{},
		RuleChecklist: map[string]bool{},
		GeneratedAt:   started,
	}
	defer func() {
		if e.metrics != nil {
			e.metrics.RecordLatency("generate", time.Since(started).Seconds())
		}
	}()

	// Gate 1: market hours.
	if marketClosed(started) {
		return e.skip(sig, models.SkipMarketClosed, "market closed (weekend)"), nil
	}
	sig.RuleChecklist["market_open"] = true

	// Gate 2: per-pair cooldown.
	if active, remaining := e.cooldown.Active(pair); active {
		return e.skip(sig, models.SkipCooldown,
			fmt.Sprintf("cooldown active, %s remaining", remaining.Round(time.Second))), nil
	}
	sig.RuleChecklist["cooldown_clear"] = true

	// Gate 3: session halt.
	if e.session.HasReachedDailyGoal() {
		return e.skip(sig, models.SkipHalted, "daily session goal reached"), nil
	}
	if e.session.HasExceededMaxDrawdown() {
		return e.skip(sig, models.SkipHalted, "max drawdown exceeded"), nil
	}
	sig.RuleChecklist["session_active"] = true

	// Step 4: fetch all three timeframes concurrently and compute technicals.
	quote, err := e.quotes.GetQuote(ctx, pair)
	if err != nil {
		return nil, fmt.Errorf("quote %s: %w", pair, err)
	}
	sig.CurrentPrice = quote.Price
	if e.metrics != nil {
		e.metrics.RecordLastPrice(pair, quote.Price)
	}

	frames, err := e.fetchFrames(ctx, pair)
	if err != nil {
		return nil, err
	}
	t5, t15, t60 := frames[0], frames[1], frames[2]
	sig.Technicals = t5

	// Step 5: pattern and sentiment scoring on the 5m snapshot.
	candles5, err := e.quotes.GetCandles(ctx, pair, domrepo.TF5m, e.candleDepth)
	if err != nil {
		return nil, fmt.Errorf("candles %s 5m: %w", pair, err)
	}
	pattern := ta.ScorePatterns(candles5)
	sentiment := ta.ScoreSentiment(t5)
	sig.MLPatternScore = &pattern
	sig.SentimentScore = &sentiment

	mlScore := (pattern.OverallScore + float64(sentiment.OverallSentiment)) / 2
	mlBoost := int(math.Floor((math.Abs(pattern.OverallScore) + math.Abs(float64(sentiment.OverallSentiment))) / mlBoostDivisor))
	sig.MLConfidenceBoost = mlBoost

	// Step 6: direction and tactical grade, gated by HTF alignment.
	var desired models.Trend
	switch t5.Supertrend.Direction {
	case models.SupertrendUp:
		sig.SignalType = models.SignalCall
		desired = models.TrendBullish
	case models.SupertrendDown:
		sig.SignalType = models.SignalPut
		desired = models.TrendBearish
	default:
		return e.skip(sig, models.SkipNoConsensus, "no directional bias on primary timeframe"), nil
	}

	aligned := t5.Trend == t15.Trend && t15.Trend == t60.Trend && t5.Trend == desired
	sig.RuleChecklist["htf_aligned"] = aligned

	grade := tacticalGrade(t5.ADX, math.Abs(mlScore), aligned)
	if grade == "" {
		// Fallback path for strong-setup exceptions.
		if aligned &&
			(mlScore >= mlScoreAPlus || t5.RSIDivergence) &&
			t5.RSI > rsiExtremeLow && t5.RSI < rsiExtremeHigh {
			grade = models.GradeA
			sig.Reasoning = append(sig.Reasoning, "strong setup exception: ML score or RSI divergence with aligned timeframes")
		} else {
			return e.skip(sig, models.SkipNoConsensus, "no tactical grade across timeframes"), nil
		}
	}
	sig.RuleChecklist["tactical_grade"] = true
	sig.Reasoning = append(sig.Reasoning, fmt.Sprintf("tactical grade %s (ADX %.1f, ML score %.1f)", grade, t5.ADX, mlScore))

	// Step 7: correlation cluster and mean reversion bonuses.
	bonus := 0
	agree := e.clusterAgreement(ctx, desired)
	switch {
	case agree >= clusterAgreeMin:
		bonus += clusterAgreeBonus
		sig.Reasoning = append(sig.Reasoning, fmt.Sprintf("correlation cluster: %d/%d majors agree", agree, len(majorPairs)))
	case agree <= clusterSplitMax:
		bonus -= clusterSplitMalus
		sig.Reasoning = append(sig.Reasoning, fmt.Sprintf("correlation cluster split: only %d/%d majors agree", agree, len(majorPairs)))
	}
	if meanReversionSetup(sig.SignalType, t5, quote.Price) {
		bonus += meanReversionBonus
		sig.Reasoning = append(sig.Reasoning, "mean reversion: extreme RSI with price stretched from SMA20")
	}
	if aligned {
		bonus += htfAlignBonus
		sig.Reasoning = append(sig.Reasoning, "all timeframes aligned")
	}

	// Step 8: final confidence against the adaptive threshold.
	confidence := baseConfidence + bonus + mlBoost + int(math.Round(mlScore/10))
	if confidence < 0 {
		confidence = 0
	}
	if confidence > maxConfidence {
		confidence = maxConfidence
	}
	threshold := adaptiveThreshold(t5.ADX)
	if confidence < threshold {
		sig.Confidence = 0
		return e.skip(sig, models.SkipLowConfidence,
			fmt.Sprintf("confidence %d below adaptive threshold %d", confidence, threshold)), nil
	}
	sig.RuleChecklist["confidence_threshold"] = true
	sig.Confidence = confidence
	sig.SignalGrade = grade

	// Step 9: stops, cooldown mark, sink.
	pip := pipSize(pair)
	pipDist := math.Max(t5.ATR/pip*atrPipMultiplier, minPipDistance)
	slDist := pipDist * pip
	sig.Entry = quote.Price
	if sig.SignalType == models.SignalCall {
		sig.StopLoss = quote.Price - slDist
		sig.TakeProfit = quote.Price + slDist*riskRewardRatio
	} else {
		sig.StopLoss = quote.Price + slDist
		sig.TakeProfit = quote.Price - slDist*riskRewardRatio
	}
	sig.StakeAdvice = stakeAdviceFor(grade, confidence)
	sig.Reasoning = append(sig.Reasoning,
		fmt.Sprintf("%s at %.5f, stop %.5f, target %.5f (%.0f pips, 1:%.1f RR)",
			sig.SignalType, sig.Entry, sig.StopLoss, sig.TakeProfit, pipDist, riskRewardRatio))

	e.cooldown.Mark(pair)
	if e.metrics != nil {
		e.metrics.RecordSignal(pair, string(sig.SignalType))
		e.metrics.RecordConfidence(pair, float64(confidence))
	}
	if e.sink != nil {
		if err := e.sink.Record(ctx, sig); err != nil {
			e.log.Error("signal sink write failed", logger.String("pair", pair), logger.Error(err))
		}
	}
	e.log.Info("signal emitted",
		logger.String("pair", pair),
		logger.String("type", string(sig.SignalType)),
		logger.String("grade", string(grade)),
		logger.Int("confidence", confidence))
	return sig, nil
}

// ScanAll runs Generate for every configured pair concurrently and returns
// the highest-confidence valid signal plus summary counts.
func (e *Engine) ScanAll(ctx context.Context, tf domrepo.Timeframe) (*models.ScanResult, error) {
	started := e.now()
	defer func() {
		if e.metrics != nil {
			e.metrics.RecordLatency("scan", time.Since(started).Seconds())
		}
	}()

	pairs := e.quotes.Pairs()
	results := make(chan *models.SignalAnalysis, len(pairs))
	var wg sync.WaitGroup
	for _, pair := range pairs {
		wg.Add(1)
		go func(p string) {
			defer wg.Done()
			sig, err := e.Generate(ctx, p, tf)
			if err != nil {
				e.log.Error("scan pair failed", logger.String("pair", p), logger.Error(err))
				if e.metrics != nil {
					e.metrics.RecordError("scan_pair")
				}
				return
			}
			results <- sig
		}(pair)
	}
	wg.Wait()
	close(results)

	all := make([]*models.SignalAnalysis, 0, len(pairs))
	for sig := range results {
		all = append(all, sig)
	}
	return aggregateScan(all), nil
}

// aggregateScan sorts results by confidence and picks the best valid signal.
func aggregateScan(all []*models.SignalAnalysis) *models.ScanResult {
	sort.Slice(all, func(i, j int) bool { return all[i].Confidence > all[j].Confidence })

	out := &models.ScanResult{Stats: models.ScanStats{Scanned: len(all)}}
	for _, sig := range all {
		if sig.Confidence <= 0 || sig.Skipped() {
			out.Stats.Skipped++
			continue
		}
		out.Stats.Valid++
		if out.BestSignal == nil {
			out.BestSignal = sig
		}
	}
	return out
}

// fetchFrames computes technicals for the 5m/15m/60m candle sets in parallel.
func (e *Engine) fetchFrames(ctx context.Context, pair string) ([3]*models.TechnicalAnalysis, error) {
	tfs := [3]domrepo.Timeframe{domrepo.TF5m, domrepo.TF15m, domrepo.TF60m}
	var frames [3]*models.TechnicalAnalysis
	var errs [3]error
	var wg sync.WaitGroup
	for i, tf := range tfs {
		wg.Add(1)
		go func(i int, tf domrepo.Timeframe) {
			defer wg.Done()
			candles, err := e.quotes.GetCandles(ctx, pair, tf, e.candleDepth)
			if err != nil {
				errs[i] = fmt.Errorf("candles %s %s: %w", pair, tf, err)
				return
			}
			frames[i] = ta.Compute(candles)
		}(i, tf)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return frames, err
		}
	}
	return frames, nil
}

// clusterAgreement counts how many major pairs' 5m trends match the desired
// direction. Sibling fetches run in parallel; failures count as disagreement.
func (e *Engine) clusterAgreement(ctx context.Context, desired models.Trend) int {
	var wg sync.WaitGroup
	agrees := make(chan struct{}, len(majorPairs))
	for _, p := range majorPairs {
		wg.Add(1)
		go func(p string) {
			defer wg.Done()
			candles, err := e.quotes.GetCandles(ctx, p, domrepo.TF5m, e.candleDepth)
			if err != nil {
				return
			}
			if ta.Compute(candles).Trend == desired {
				agrees <- struct{}{}
			}
		}(p)
	}
	wg.Wait()
	close(agrees)
	return len(agrees)
}

func (e *Engine) skip(sig *models.SignalAnalysis, reason models.SkipReason, detail string) *models.SignalAnalysis {
	sig.Confidence = 0
	sig.SignalGrade = models.GradeSkipped
	sig.SkipReason = reason
	sig.SignalType = ""
	sig.Reasoning = append(sig.Reasoning, detail)
	if e.metrics != nil {
		e.metrics.RecordSkip(string(reason))
	}
	return sig
}

// tacticalGrade maps ADX strength and ML score magnitude onto a grade. No
// grade is awarded unless the three timeframes agree on direction.
func tacticalGrade(adx, mlAbs float64, aligned bool) models.SignalGrade {
	if !aligned {
		return ""
	}
	switch {
	case adx >= adxStrong && mlAbs >= mlScoreHigh:
		return models.GradeA
	case adx >= adxStrong && mlAbs >= mlScoreMid:
		return models.GradeAMinus
	case adx >= adxTrending && mlAbs >= mlScoreHigh:
		return models.GradeAMinus
	case adx >= adxTrending && mlAbs >= mlScoreGate:
		return models.GradeBPlus
	case adx >= adxWeak && mlAbs >= mlScoreMid:
		return models.GradeB
	case adx >= adxWeak && mlAbs >= mlScoreLow:
		return models.GradeC
	}
	return ""
}

// adaptiveThreshold is banded purely on ADX so a stronger trend can only
// lower the bar, never raise it.
func adaptiveThreshold(adx float64) int {
	switch {
	case adx >= adxTrending:
		return thresholdTrending
	case adx >= adxWeak:
		return thresholdWeak
	}
	return thresholdChoppy
}

// meanReversionSetup detects an extreme RSI with price stretched away from
// SMA20 against the signal direction.
func meanReversionSetup(st models.SignalType, t *models.TechnicalAnalysis, price float64) bool {
	if t.SMA20 <= 0 {
		return false
	}
	switch st {
	case models.SignalCall:
		return t.RSI <= rsiOversold && price < t.SMA20*(1-smaDeviation)
	case models.SignalPut:
		return t.RSI >= rsiOverbought && price > t.SMA20*(1+smaDeviation)
	}
	return false
}

func stakeAdviceFor(grade models.SignalGrade, confidence int) models.StakeAdvice {
	switch {
	case confidence >= stakeHighConfidence && (grade == models.GradeA || grade == models.GradeAMinus):
		return models.StakeHigh
	case confidence >= stakeMediumConfidence:
		return models.StakeMedium
	case confidence >= stakeFloorConfidence && grade != models.GradeC:
		return models.StakeMedium
	}
	return models.StakeLow
}

// pipSize is 0.01 for JPY-quoted pairs and 0.0001 otherwise.
func pipSize(pair string) float64 {
	if len(pair) == 6 && pair[3:] == "JPY" {
		return 0.01
	}
	return 0.0001
}
