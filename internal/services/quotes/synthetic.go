package quotes

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"ForexPulse/internal/domain/models"
	domrepo "ForexPulse/internal/domain/repository"
	"ForexPulse/pkg/util"
)

// basePrices anchors the synthetic walk per pair. Requests for pairs outside
// this table are the one hard failure of the quote boundary.
var basePrices = map[string]float64{
	"EURUSD": 1.0850,
	"GBPUSD": 1.2650,
	"USDJPY": 149.50,
	"USDCHF": 0.8850,
	"AUDUSD": 0.6550,
	"USDCAD": 1.3650,
	"NZDUSD": 0.6050,
	"EURGBP": 0.8580,
}

// BasePrice returns the anchor price for a pair.
func BasePrice(pair string) (float64, bool) {
	p, ok := basePrices[pair]
	return p, ok
}

// PipSize returns the pip unit for a pair (0.01 for JPY quotes, else 0.0001).
func PipSize(pair string) float64 {
	if len(pair) == 6 && pair[3:] == "JPY" {
		return 0.01
	}
	return 0.0001
}

// Synthetic generates fake quotes and candle histories when no provider is
// configured or the provider is unreachable. The random source is injectable
// so scenario tests can pin the walk.
type Synthetic struct {
	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

// NewSynthetic builds a generator over the given seed.
func NewSynthetic(seed int64) *Synthetic {
	return &Synthetic{rng: rand.New(rand.NewSource(seed)), now: time.Now}
}

// SetClock replaces the time source. Intended for tests.
func (s *Synthetic) SetClock(now func() time.Time) { s.now = now }

// Quote returns the base price plus a bounded random walk.
func (s *Synthetic) Quote(pair string) (models.Quote, error) {
	base, ok := basePrices[pair]
	if !ok {
		return models.Quote{}, domrepo.ErrUnknownPair
	}
	s.mu.Lock()
	drift := (s.rng.Float64() - 0.5) * 0.002 // within +-0.1%
	s.mu.Unlock()
	return models.Quote{
		Pair:      pair,
		Price:     base * (1 + drift),
		Timestamp: s.now(),
	}, nil
}

// Candles generates n bars via a smooth sinusoidal trend plus noise seeded
// from the base price. The high/low envelope invariants always hold.
func (s *Synthetic) Candles(pair string, tf domrepo.Timeframe, n int) ([]models.Candle, error) {
	base, ok := basePrices[pair]
	if !ok {
		return nil, domrepo.ErrUnknownPair
	}
	if n <= 0 {
		n = 100
	}
	step := tf.Duration()
	end := util.AlignTo(s.now(), string(tf))
	pip := PipSize(pair)

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Candle, 0, n)
	prevClose := base
	for i := 0; i < n; i++ {
		phase := float64(n-i) / float64(n) * 4 * math.Pi
		trend := math.Sin(phase) * 20 * pip
		noise := (s.rng.Float64() - 0.5) * 10 * pip

		open := prevClose
		close := base + trend + noise
		wickUp := s.rng.Float64() * 5 * pip
		wickDown := s.rng.Float64() * 5 * pip
		high := math.Max(open, close) + wickUp
		low := math.Min(open, close) - wickDown

		out = append(out, models.Candle{
			Timestamp: end.Add(-time.Duration(n-1-i) * step),
			Open:      open,
			High:      high,
			Low:       low,
			Close:     close,
			Volume:    1000 + s.rng.Float64()*500,
		})
		prevClose = close
	}
	return out, nil
}
