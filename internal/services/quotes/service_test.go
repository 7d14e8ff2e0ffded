package quotes

import (
	"context"
	"errors"
	"testing"
	"time"

	"ForexPulse/internal/domain/models"
	domrepo "ForexPulse/internal/domain/repository"
	svccache "ForexPulse/internal/service/cache"
	"ForexPulse/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

type stubUpstream struct {
	quote      models.Quote
	candles    []models.Candle
	err        error
	quoteCalls int
}

func (u *stubUpstream) Quote(ctx context.Context, pair string) (models.Quote, error) {
	u.quoteCalls++
	if u.err != nil {
		return models.Quote{}, u.err
	}
	return u.quote, nil
}

func (u *stubUpstream) Candles(ctx context.Context, pair string, tf domrepo.Timeframe, n int) ([]models.Candle, error) {
	if u.err != nil {
		return nil, u.err
	}
	return u.candles, nil
}

func newTestService(t *testing.T, opts ...Option) (*Service, *svccache.TTLCache) {
	t.Helper()
	cache := svccache.NewTTLCache()
	syn := NewSynthetic(42)
	return NewService(cache, syn, testLogger(t), opts...), cache
}

func TestGetQuoteUnknownPair(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.GetQuote(context.Background(), "FOOBAR"); !errors.Is(err, domrepo.ErrUnknownPair) {
		t.Fatalf("expected ErrUnknownPair, got %v", err)
	}
	if _, err := svc.GetCandles(context.Background(), "FOOBAR", domrepo.TF5m, 10); !errors.Is(err, domrepo.ErrUnknownPair) {
		t.Fatalf("expected ErrUnknownPair, got %v", err)
	}
}

func TestGetCandlesRejectsUnsupportedTimeframe(t *testing.T) {
	svc, _ := newTestService(t)
	if _, err := svc.GetCandles(context.Background(), "EURUSD", "2m", 10); err == nil {
		t.Fatalf("expected an error for an unsupported timeframe")
	}
}

func TestGetQuoteCachedWithinTTL(t *testing.T) {
	now := time.Date(2024, 10, 9, 12, 0, 0, 0, time.UTC)
	svc, cache := newTestService(t)
	cache.SetClock(func() time.Time { return now })

	first, err := svc.GetQuote(context.Background(), "EURUSD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.GetQuote(context.Background(), "EURUSD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first != second {
		t.Fatalf("quotes within the TTL must be identical: %+v vs %+v", first, second)
	}

	now = now.Add(61 * time.Second)
	third, err := svc.GetQuote(context.Background(), "EURUSD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first == third {
		t.Fatalf("expired cache must refetch, got identical quote %+v", third)
	}
}

func TestGetQuotePrefersProvider(t *testing.T) {
	up := &stubUpstream{quote: models.Quote{Pair: "EURUSD", Price: 1.2345}}
	svc, _ := newTestService(t, WithProvider(up))

	q, err := svc.GetQuote(context.Background(), "EURUSD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Price != 1.2345 {
		t.Fatalf("expected provider price, got %v", q.Price)
	}
}

func TestGetQuoteFallsBackToSynthetic(t *testing.T) {
	up := &stubUpstream{err: errors.New("provider down")}
	var slept []time.Duration
	svc, _ := newTestService(t,
		WithProvider(up),
		WithSleep(func(d time.Duration) { slept = append(slept, d) }))

	q, err := svc.GetQuote(context.Background(), "EURUSD")
	if err != nil {
		t.Fatalf("fallback must not surface provider errors, got %v", err)
	}
	if q.Pair != "EURUSD" || q.Price <= 0 {
		t.Fatalf("expected a synthetic quote, got %+v", q)
	}
	if up.quoteCalls != 3 {
		t.Fatalf("expected 3 provider attempts, got %d", up.quoteCalls)
	}
	if len(slept) != 2 || slept[0] != 500*time.Millisecond || slept[1] != time.Second {
		t.Fatalf("expected linear backoff 500ms/1s, got %v", slept)
	}
}

func TestWarmQuoteSeedsCache(t *testing.T) {
	up := &stubUpstream{err: errors.New("provider down")}
	svc, _ := newTestService(t, WithProvider(up), WithSleep(func(time.Duration) {}))

	warm := models.Quote{Pair: "GBPUSD", Price: 1.2700, Timestamp: time.Now()}
	svc.WarmQuote(warm)

	q, err := svc.GetQuote(context.Background(), "GBPUSD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q != warm {
		t.Fatalf("expected the warmed quote, got %+v", q)
	}
	if up.quoteCalls != 0 {
		t.Fatalf("warmed cache must not hit the provider")
	}
}

func TestPairsRestrictedAndSorted(t *testing.T) {
	svc, _ := newTestService(t, WithPairs([]string{"USDJPY", "EURUSD", "XXXYYY"}))
	pairs := svc.Pairs()
	if len(pairs) != 2 {
		t.Fatalf("unknown pairs must be dropped, got %v", pairs)
	}

	svc, _ = newTestService(t)
	all := svc.Pairs()
	if len(all) != len(basePrices) {
		t.Fatalf("expected the full universe, got %v", all)
	}
	for i := 1; i < len(all); i++ {
		if all[i-1] >= all[i] {
			t.Fatalf("default universe must be sorted, got %v", all)
		}
	}
}

func TestGetCandlesCachedPerKey(t *testing.T) {
	svc, _ := newTestService(t)
	a, err := svc.GetCandles(context.Background(), "EURUSD", domrepo.TF5m, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := svc.GetCandles(context.Background(), "EURUSD", domrepo.TF5m, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a) != len(b) {
		t.Fatalf("cached candles differ in length: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("cached candles must be identical at bar %d", i)
		}
	}
}
