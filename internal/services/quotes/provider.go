package quotes

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"ForexPulse/internal/domain/models"
	domrepo "ForexPulse/internal/domain/repository"
	pkghttp "ForexPulse/pkg/http"
)

// ProviderConfig configures the upstream market-data REST API.
type ProviderConfig struct {
	BaseURL string        `yaml:"base_url"`
	APIKey  string        `yaml:"api_key"`
	Timeout time.Duration `yaml:"timeout" default:"10s"`
}

// Enabled reports whether a real provider is configured.
func (c ProviderConfig) Enabled() bool { return c.BaseURL != "" }

// Provider fetches quotes and candle history from the upstream REST API.
type Provider struct {
	cfg    ProviderConfig
	client *pkghttp.Client
}

// NewProvider builds a REST provider client.
func NewProvider(cfg ProviderConfig) *Provider {
	return &Provider{
		cfg:    cfg,
		client: pkghttp.NewClient(pkghttp.WithTimeout(cfg.Timeout)),
	}
}

type quoteResponse struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Timestamp int64   `json:"timestamp"`
}

type candlesResponse struct {
	Symbol  string `json:"symbol"`
	Candles []struct {
		Time   int64   `json:"t"`
		Open   float64 `json:"o"`
		High   float64 `json:"h"`
		Low    float64 `json:"l"`
		Close  float64 `json:"c"`
		Volume float64 `json:"v"`
	} `json:"candles"`
}

// Quote fetches the latest price for a pair.
func (p *Provider) Quote(ctx context.Context, pair string) (models.Quote, error) {
	var resp quoteResponse
	err := p.client.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodGet,
		URL:    p.cfg.BaseURL + "/quote",
		Headers: map[string]string{
			"X-API-Key": p.cfg.APIKey,
		},
		QueryParams: map[string][]string{
			"symbol": {pair},
		},
	}, &resp)
	if err != nil {
		return models.Quote{}, fmt.Errorf("provider quote %s: %w", pair, err)
	}
	if resp.Price <= 0 {
		return models.Quote{}, fmt.Errorf("provider quote %s: empty price", pair)
	}
	return models.Quote{
		Pair:      pair,
		Price:     resp.Price,
		Timestamp: time.Unix(resp.Timestamp, 0).UTC(),
	}, nil
}

// Candles fetches up to n recent bars for a pair at the given resolution.
func (p *Provider) Candles(ctx context.Context, pair string, tf domrepo.Timeframe, n int) ([]models.Candle, error) {
	var resp candlesResponse
	err := p.client.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodGet,
		URL:    p.cfg.BaseURL + "/candles",
		Headers: map[string]string{
			"X-API-Key": p.cfg.APIKey,
		},
		QueryParams: map[string][]string{
			"symbol":     {pair},
			"resolution": {string(tf)},
			"limit":      {strconv.Itoa(n)},
		},
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("provider candles %s %s: %w", pair, tf, err)
	}
	if len(resp.Candles) == 0 {
		return nil, fmt.Errorf("provider candles %s %s: empty history", pair, tf)
	}

	out := make([]models.Candle, 0, len(resp.Candles))
	for _, c := range resp.Candles {
		out = append(out, models.Candle{
			Timestamp: time.Unix(c.Time, 0).UTC(),
			Open:      c.Open,
			High:      c.High,
			Low:       c.Low,
			Close:     c.Close,
			Volume:    c.Volume,
		})
	}
	return out, nil
}
