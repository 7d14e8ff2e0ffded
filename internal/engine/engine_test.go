package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"ForexPulse/internal/domain/models"
	domrepo "ForexPulse/internal/domain/repository"
	"ForexPulse/pkg/logger"
)

// Wednesday noon UTC, well inside market hours.
var midweek = time.Date(2024, 10, 9, 12, 0, 0, 0, time.UTC)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

// stubSource serves canned quotes and candles. Pairs without a fixture fall
// back to defaultCandles, which also feeds the correlation cluster fetches.
type stubSource struct {
	mu             sync.Mutex
	pairs          []string
	quotes         map[string]models.Quote
	candles        map[string][]models.Candle
	defaultCandles []models.Candle
	candleCalls    int
	quoteCalls     int
}

func (s *stubSource) GetQuote(ctx context.Context, pair string) (models.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.quoteCalls++
	if q, ok := s.quotes[pair]; ok {
		return q, nil
	}
	return models.Quote{Pair: pair, Price: 1.1, Timestamp: midweek}, nil
}

func (s *stubSource) GetCandles(ctx context.Context, pair string, tf domrepo.Timeframe, n int) ([]models.Candle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candleCalls++
	if c, ok := s.candles[pair]; ok {
		return c, nil
	}
	return s.defaultCandles, nil
}

func (s *stubSource) Pairs() []string { return s.pairs }

func (s *stubSource) calls() (quotes, candles int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.quoteCalls, s.candleCalls
}

type stubGate struct {
	goal, drawdown bool
}

func (g *stubGate) HasReachedDailyGoal() bool    { return g.goal }
func (g *stubGate) HasExceededMaxDrawdown() bool { return g.drawdown }
func (g *stubGate) Stats() models.SessionStats   { return models.SessionStats{} }

type stubSink struct {
	mu   sync.Mutex
	recs []*models.SignalAnalysis
}

func (s *stubSink) Record(ctx context.Context, sig *models.SignalAnalysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = append(s.recs, sig)
	return nil
}

func (s *stubSink) Close() error { return nil }

func (s *stubSink) recorded() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.recs)
}

func risingCandles(n int) []models.Candle {
	out := make([]models.Candle, n)
	price := 1.1
	for i := range out {
		out[i] = models.Candle{
			Open:  price - 0.0001,
			High:  price + 0.0002,
			Low:   price - 0.0003,
			Close: price,
		}
		price += 0.002
	}
	return out
}

func flatCandles(n int) []models.Candle {
	out := make([]models.Candle, n)
	for i := range out {
		out[i] = models.Candle{Open: 1.0999, High: 1.1002, Low: 1.0997, Close: 1.1}
	}
	return out
}

func newTestEngine(t *testing.T, src *stubSource, clock time.Time, opts ...Option) (*Engine, *CooldownTracker) {
	t.Helper()
	cd := NewCooldownTracker(DefaultCooldown)
	cd.SetClock(func() time.Time { return clock })
	opts = append(opts, WithClock(func() time.Time { return clock }))
	return New(src, cd, &stubGate{}, testLogger(t), opts...), cd
}

func TestGenerateMarketClosedSkipsWithoutFetching(t *testing.T) {
	src := &stubSource{defaultCandles: risingCandles(60)}
	saturday := time.Date(2024, 10, 12, 12, 0, 0, 0, time.UTC)
	eng, _ := newTestEngine(t, src, saturday)

	sig, err := eng.Generate(context.Background(), "EURUSD", domrepo.TF5m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !sig.Skipped() || sig.SkipReason != models.SkipMarketClosed {
		t.Fatalf("expected MARKET_CLOSED skip, got %+v", sig)
	}
	if sig.Confidence != 0 || sig.SignalType != "" {
		t.Fatalf("skip must clear confidence and type, got %+v", sig)
	}
	if q, c := src.calls(); q != 0 || c != 0 {
		t.Fatalf("closed market must not hit the quote source, got %d/%d calls", q, c)
	}
}

func TestGenerateCooldownShortCircuits(t *testing.T) {
	src := &stubSource{defaultCandles: risingCandles(60)}
	eng, cd := newTestEngine(t, src, midweek)
	cd.Mark("EURUSD")

	sig, err := eng.Generate(context.Background(), "EURUSD", domrepo.TF5m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig.SkipReason != models.SkipCooldown {
		t.Fatalf("expected COOLDOWN skip, got %+v", sig)
	}
	if _, c := src.calls(); c != 0 {
		t.Fatalf("cooldown skip must not fetch candles, got %d calls", c)
	}
}

func TestGenerateSessionHalt(t *testing.T) {
	src := &stubSource{defaultCandles: risingCandles(60)}
	cd := NewCooldownTracker(DefaultCooldown)
	eng := New(src, cd, &stubGate{goal: true}, testLogger(t),
		WithClock(func() time.Time { return midweek }))

	sig, err := eng.Generate(context.Background(), "EURUSD", domrepo.TF5m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig.SkipReason != models.SkipHalted {
		t.Fatalf("expected HALTED skip, got %+v", sig)
	}
}

func TestGenerateFlatMarketNoConsensus(t *testing.T) {
	src := &stubSource{defaultCandles: flatCandles(60)}
	eng, _ := newTestEngine(t, src, midweek)

	sig, err := eng.Generate(context.Background(), "EURUSD", domrepo.TF5m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig.SkipReason != models.SkipNoConsensus {
		t.Fatalf("expected NO_CONSENSUS on a flat market, got %+v", sig)
	}
	if sig.Confidence != 0 {
		t.Fatalf("skipped result must carry zero confidence, got %d", sig.Confidence)
	}
}

func TestGenerateEmitsSignal(t *testing.T) {
	src := &stubSource{
		defaultCandles: risingCandles(60),
		quotes:         map[string]models.Quote{"EURUSD": {Pair: "EURUSD", Price: 1.218, Timestamp: midweek}},
	}
	sink := &stubSink{}
	eng, cd := newTestEngine(t, src, midweek, WithSink(sink))

	sig, err := eng.Generate(context.Background(), "EURUSD", domrepo.TF5m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig.Skipped() {
		t.Fatalf("expected an emitted signal, got skip: %+v", sig)
	}
	if sig.SignalType != models.SignalCall {
		t.Fatalf("uptrend must emit CALL, got %s", sig.SignalType)
	}
	if sig.Confidence < thresholdTrending {
		t.Fatalf("emitted confidence %d below trending threshold", sig.Confidence)
	}
	if !(sig.StopLoss < sig.Entry && sig.Entry < sig.TakeProfit) {
		t.Fatalf("CALL stops out of order: sl %v entry %v tp %v", sig.StopLoss, sig.Entry, sig.TakeProfit)
	}
	if !sig.RuleChecklist["htf_aligned"] || !sig.RuleChecklist["confidence_threshold"] {
		t.Fatalf("checklist incomplete: %+v", sig.RuleChecklist)
	}
	if sink.recorded() != 1 {
		t.Fatalf("expected 1 sink record, got %d", sink.recorded())
	}
	if active, _ := cd.Active("EURUSD"); !active {
		t.Fatalf("emission must start the cooldown")
	}
}

func TestGenerateRespectsRiskReward(t *testing.T) {
	src := &stubSource{defaultCandles: risingCandles(60)}
	eng, _ := newTestEngine(t, src, midweek)

	sig, err := eng.Generate(context.Background(), "EURUSD", domrepo.TF5m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sig.Skipped() {
		t.Fatalf("expected an emitted signal, got skip: %+v", sig)
	}
	slDist := sig.Entry - sig.StopLoss
	tpDist := sig.TakeProfit - sig.Entry
	if diff := tpDist - slDist*riskRewardRatio; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("take profit must be %vx the stop distance: sl %v tp %v", riskRewardRatio, slDist, tpDist)
	}
}

func TestScanAllPicksBestAndCounts(t *testing.T) {
	src := &stubSource{
		pairs:          []string{"EURUSD", "USDJPY"},
		defaultCandles: risingCandles(60),
		candles:        map[string][]models.Candle{"USDJPY": flatCandles(60)},
	}
	eng, _ := newTestEngine(t, src, midweek)

	res, err := eng.ScanAll(context.Background(), domrepo.TF5m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Stats.Scanned != 2 || res.Stats.Valid != 1 || res.Stats.Skipped != 1 {
		t.Fatalf("unexpected stats: %+v", res.Stats)
	}
	if res.BestSignal == nil || res.BestSignal.Pair != "EURUSD" {
		t.Fatalf("expected EURUSD best signal, got %+v", res.BestSignal)
	}
}

func TestScanAllAllSkipped(t *testing.T) {
	src := &stubSource{
		pairs:          []string{"EURUSD", "GBPUSD"},
		defaultCandles: flatCandles(60),
	}
	eng, _ := newTestEngine(t, src, midweek)

	res, err := eng.ScanAll(context.Background(), domrepo.TF5m)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.BestSignal != nil {
		t.Fatalf("expected no best signal, got %+v", res.BestSignal)
	}
	if res.Stats.Skipped != 2 {
		t.Fatalf("expected both pairs skipped, got %+v", res.Stats)
	}
}

func TestAggregateScanMixedConfidences(t *testing.T) {
	mk := func(pair string, conf int) *models.SignalAnalysis {
		sig := &models.SignalAnalysis{Pair: pair, Confidence: conf, SignalGrade: models.GradeB}
		if conf == 0 {
			sig.SignalGrade = models.GradeSkipped
		}
		return sig
	}
	res := aggregateScan([]*models.SignalAnalysis{
		mk("EURUSD", 0), mk("GBPUSD", 40), mk("USDJPY", 91), mk("AUDUSD", 88), mk("USDCAD", 0),
	})
	if res.Stats.Scanned != 5 || res.Stats.Valid != 3 || res.Stats.Skipped != 2 {
		t.Fatalf("unexpected stats: %+v", res.Stats)
	}
	if res.BestSignal == nil || res.BestSignal.Confidence != 91 || res.BestSignal.Pair != "USDJPY" {
		t.Fatalf("expected the 91-confidence signal, got %+v", res.BestSignal)
	}
}

func TestMarketClosedBoundaries(t *testing.T) {
	cases := []struct {
		at     time.Time
		closed bool
	}{
		// Saturday, Friday at and before the 22:00 close, Sunday before and
		// at the open, and midweek.
		{time.Date(2024, 10, 12, 3, 0, 0, 0, time.UTC), true},
		{time.Date(2024, 10, 11, 22, 0, 0, 0, time.UTC), true},
		{time.Date(2024, 10, 11, 21, 59, 0, 0, time.UTC), false},
		{time.Date(2024, 10, 13, 21, 0, 0, 0, time.UTC), true},
		{time.Date(2024, 10, 13, 22, 0, 0, 0, time.UTC), false},
		{midweek, false},
	}
	for _, tc := range cases {
		if got := marketClosed(tc.at); got != tc.closed {
			t.Fatalf("%v: expected closed=%v, got %v", tc.at, tc.closed, got)
		}
	}
}

func TestAdaptiveThresholdMonotone(t *testing.T) {
	if adaptiveThreshold(25) > adaptiveThreshold(18) || adaptiveThreshold(18) > adaptiveThreshold(5) {
		t.Fatalf("threshold must not rise with ADX: %d %d %d",
			adaptiveThreshold(25), adaptiveThreshold(18), adaptiveThreshold(5))
	}
	if adaptiveThreshold(25) != thresholdTrending {
		t.Fatalf("expected trending threshold, got %d", adaptiveThreshold(25))
	}
	if adaptiveThreshold(5) != thresholdChoppy {
		t.Fatalf("expected choppy threshold, got %d", adaptiveThreshold(5))
	}
}

func TestTacticalGradeTable(t *testing.T) {
	cases := []struct {
		adx, ml float64
		want    models.SignalGrade
	}{
		{30, 30, models.GradeA},
		{30, 20, models.GradeAMinus},
		{22, 30, models.GradeAMinus},
		{22, 12, models.GradeBPlus},
		{17, 16, models.GradeB},
		{17, 7, models.GradeC},
		{17, 3, ""},
		{10, 30, ""},
	}
	for _, tc := range cases {
		if got := tacticalGrade(tc.adx, tc.ml, true); got != tc.want {
			t.Fatalf("adx %v ml %v: expected %q, got %q", tc.adx, tc.ml, tc.want, got)
		}
	}
	if got := tacticalGrade(30, 30, false); got != "" {
		t.Fatalf("unaligned timeframes must not grade, got %q", got)
	}
}

func TestStakeAdvice(t *testing.T) {
	cases := []struct {
		grade models.SignalGrade
		conf  int
		want  models.StakeAdvice
	}{
		{models.GradeA, 90, models.StakeHigh},
		{models.GradeAMinus, 88, models.StakeHigh},
		{models.GradeB, 90, models.StakeMedium},
		{models.GradeBPlus, 83, models.StakeMedium},
		{models.GradeC, 83, models.StakeLow},
		{models.GradeA, 75, models.StakeLow},
	}
	for _, tc := range cases {
		if got := stakeAdviceFor(tc.grade, tc.conf); got != tc.want {
			t.Fatalf("%s/%d: expected %s, got %s", tc.grade, tc.conf, tc.want, got)
		}
	}
}

func TestPipSize(t *testing.T) {
	if pipSize("USDJPY") != 0.01 {
		t.Fatalf("JPY pairs use 0.01 pips")
	}
	if pipSize("EURUSD") != 0.0001 {
		t.Fatalf("non-JPY pairs use 0.0001 pips")
	}
}

func TestMeanReversionSetup(t *testing.T) {
	snap := &models.TechnicalAnalysis{RSI: 25, SMA20: 1.1}
	if !meanReversionSetup(models.SignalCall, snap, 1.0988) {
		t.Fatalf("oversold price below the band must trigger for CALL")
	}
	if meanReversionSetup(models.SignalCall, snap, 1.0999) {
		t.Fatalf("price inside the band must not trigger")
	}
	snap = &models.TechnicalAnalysis{RSI: 75, SMA20: 1.1}
	if !meanReversionSetup(models.SignalPut, snap, 1.1012) {
		t.Fatalf("overbought price above the band must trigger for PUT")
	}
}
