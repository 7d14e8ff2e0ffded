package quotes

import (
	"context"
	"fmt"
	"sort"
	"time"

	"ForexPulse/internal/domain/models"
	domrepo "ForexPulse/internal/domain/repository"
	"ForexPulse/pkg/logger"
)

const (
	quoteTTL   = 60 * time.Second
	candlesTTL = 60 * time.Second

	fetchAttempts = 3
	retryBackoff  = 500 * time.Millisecond
)

// quoteStore is the cache surface the service needs. The in-memory TTL cache
// satisfies it; tests can plug in their own.
type quoteStore interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{}, ttl time.Duration)
}

// upstream is the remote market-data API surface.
type upstream interface {
	Quote(ctx context.Context, pair string) (models.Quote, error)
	Candles(ctx context.Context, pair string, tf domrepo.Timeframe, n int) ([]models.Candle, error)
}

// Service serves quotes and candle histories with a short-TTL cache in front
// of the upstream provider, falling back to the synthetic generator when the
// provider is unavailable or unconfigured.
type Service struct {
	cache     quoteStore
	provider  upstream
	synthetic *Synthetic
	log       *logger.Logger
	pairs     []string
	sleep     func(time.Duration)
}

// Option configures Service.
type Option func(*Service)

// WithProvider wires a real upstream provider.
func WithProvider(p upstream) Option {
	return func(s *Service) { s.provider = p }
}

// WithSleep replaces the backoff sleeper. Intended for tests.
func WithSleep(f func(time.Duration)) Option {
	return func(s *Service) { s.sleep = f }
}

// WithPairs restricts the served pair universe. Pairs without a base price
// anchor are dropped.
func WithPairs(pairs []string) Option {
	return func(s *Service) {
		out := make([]string, 0, len(pairs))
		for _, p := range pairs {
			if _, ok := basePrices[p]; ok {
				out = append(out, p)
			}
		}
		s.pairs = out
	}
}

// NewService builds the quote service.
func NewService(cache quoteStore, synthetic *Synthetic, log *logger.Logger, opts ...Option) *Service {
	s := &Service{
		cache:     cache,
		synthetic: synthetic,
		log:       log,
		sleep:     time.Sleep,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ domrepo.QuoteSource = (*Service)(nil)

// Pairs lists the served currency pairs.
func (s *Service) Pairs() []string {
	if len(s.pairs) > 0 {
		out := make([]string, len(s.pairs))
		copy(out, s.pairs)
		return out
	}
	out := make([]string, 0, len(basePrices))
	for p := range basePrices {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// GetQuote returns the latest price for a pair. Identical requests within the
// cache TTL return the cached quote.
func (s *Service) GetQuote(ctx context.Context, pair string) (models.Quote, error) {
	if _, ok := basePrices[pair]; !ok {
		return models.Quote{}, domrepo.ErrUnknownPair
	}

	key := "quote:" + pair
	if v, ok := s.cache.Get(key); ok {
		if q, ok := v.(models.Quote); ok {
			return q, nil
		}
	}

	q, err := s.fetchQuote(ctx, pair)
	if err != nil {
		return models.Quote{}, err
	}
	s.cache.Set(key, q, quoteTTL)
	return q, nil
}

// GetCandles returns up to n recent bars for a pair at the given resolution.
func (s *Service) GetCandles(ctx context.Context, pair string, tf domrepo.Timeframe, n int) ([]models.Candle, error) {
	if _, ok := basePrices[pair]; !ok {
		return nil, domrepo.ErrUnknownPair
	}
	if !domrepo.IsValidTimeframe(tf) {
		return nil, fmt.Errorf("unsupported timeframe %q", tf)
	}

	key := fmt.Sprintf("candles:%s:%s:%d", pair, tf, n)
	if v, ok := s.cache.Get(key); ok {
		if c, ok := v.([]models.Candle); ok {
			return c, nil
		}
	}

	candles, err := s.fetchCandles(ctx, pair, tf, n)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, candles, candlesTTL)
	return candles, nil
}

// WarmQuote seeds the quote cache from a streamed tick so subsequent reads
// skip the provider entirely.
func (s *Service) WarmQuote(q models.Quote) {
	if _, ok := basePrices[q.Pair]; !ok {
		return
	}
	s.cache.Set("quote:"+q.Pair, q, quoteTTL)
}

func (s *Service) fetchQuote(ctx context.Context, pair string) (models.Quote, error) {
	if s.provider != nil {
		var lastErr error
		for attempt := 1; attempt <= fetchAttempts; attempt++ {
			q, err := s.provider.Quote(ctx, pair)
			if err == nil {
				return q, nil
			}
			lastErr = err
			if attempt < fetchAttempts {
				s.sleep(time.Duration(attempt) * retryBackoff)
			}
		}
		s.log.Warn("provider quote failed, using synthetic",
			logger.String("pair", pair),
			logger.Error(lastErr))
	}
	return s.synthetic.Quote(pair)
}

func (s *Service) fetchCandles(ctx context.Context, pair string, tf domrepo.Timeframe, n int) ([]models.Candle, error) {
	if s.provider != nil {
		var lastErr error
		for attempt := 1; attempt <= fetchAttempts; attempt++ {
			candles, err := s.provider.Candles(ctx, pair, tf, n)
			if err == nil {
				return candles, nil
			}
			lastErr = err
			if attempt < fetchAttempts {
				s.sleep(time.Duration(attempt) * retryBackoff)
			}
		}
		s.log.Warn("provider candles failed, using synthetic",
			logger.String("pair", pair),
			logger.String("timeframe", string(tf)),
			logger.Error(lastErr))
	}
	return s.synthetic.Candles(pair, tf, n)
}
