package quotes

import (
	"errors"
	"testing"
	"time"

	domrepo "ForexPulse/internal/domain/repository"
)

var fixedNow = time.Date(2024, 10, 9, 12, 3, 17, 0, time.UTC)

func TestSyntheticQuoteBounds(t *testing.T) {
	s := NewSynthetic(42)
	s.SetClock(func() time.Time { return fixedNow })

	base := basePrices["EURUSD"]
	for i := 0; i < 50; i++ {
		q, err := s.Quote("EURUSD")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if q.Price < base*0.999 || q.Price > base*1.001 {
			t.Fatalf("price %v outside the 0.1%% band around %v", q.Price, base)
		}
		if !q.Timestamp.Equal(fixedNow) {
			t.Fatalf("expected injected clock timestamp, got %v", q.Timestamp)
		}
	}
}

func TestSyntheticUnknownPair(t *testing.T) {
	s := NewSynthetic(1)
	if _, err := s.Quote("XXXYYY"); !errors.Is(err, domrepo.ErrUnknownPair) {
		t.Fatalf("expected ErrUnknownPair, got %v", err)
	}
	if _, err := s.Candles("XXXYYY", domrepo.TF5m, 10); !errors.Is(err, domrepo.ErrUnknownPair) {
		t.Fatalf("expected ErrUnknownPair, got %v", err)
	}
}

func TestSyntheticCandlesDeterministic(t *testing.T) {
	a := NewSynthetic(7)
	a.SetClock(func() time.Time { return fixedNow })
	b := NewSynthetic(7)
	b.SetClock(func() time.Time { return fixedNow })

	ca, err := a.Candles("GBPUSD", domrepo.TF5m, 50)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cb, _ := b.Candles("GBPUSD", domrepo.TF5m, 50)
	if len(ca) != 50 || len(cb) != 50 {
		t.Fatalf("expected 50 candles, got %d/%d", len(ca), len(cb))
	}
	for i := range ca {
		if ca[i] != cb[i] {
			t.Fatalf("bar %d differs across equal seeds: %+v vs %+v", i, ca[i], cb[i])
		}
	}
}

func TestSyntheticCandlesEnvelope(t *testing.T) {
	s := NewSynthetic(99)
	s.SetClock(func() time.Time { return fixedNow })

	candles, err := s.Candles("USDJPY", domrepo.TF15m, 100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, c := range candles {
		hi := c.Open
		if c.Close > hi {
			hi = c.Close
		}
		lo := c.Open
		if c.Close < lo {
			lo = c.Close
		}
		if c.High < hi || c.Low > lo {
			t.Fatalf("bar %d breaks the OHLC envelope: %+v", i, c)
		}
		if i > 0 && c.Open != candles[i-1].Close {
			t.Fatalf("bar %d must open at the prior close", i)
		}
	}
}

func TestSyntheticCandlesAlignedTimestamps(t *testing.T) {
	s := NewSynthetic(3)
	s.SetClock(func() time.Time { return fixedNow })

	candles, err := s.Candles("EURUSD", domrepo.TF5m, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := candles[len(candles)-1].Timestamp
	if last.Minute()%5 != 0 || last.Second() != 0 {
		t.Fatalf("last bar must align to the 5m grid, got %v", last)
	}
	for i := 1; i < len(candles); i++ {
		if candles[i].Timestamp.Sub(candles[i-1].Timestamp) != 5*time.Minute {
			t.Fatalf("bars must be 5m apart, got %v", candles[i].Timestamp.Sub(candles[i-1].Timestamp))
		}
	}
}

func TestPipSizes(t *testing.T) {
	if PipSize("USDJPY") != 0.01 {
		t.Fatalf("JPY quote pairs use a 0.01 pip")
	}
	if PipSize("EURUSD") != 0.0001 {
		t.Fatalf("expected the default 0.0001 pip")
	}
}
