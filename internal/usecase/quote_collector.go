package usecase

import (
	"context"

	"ForexPulse/internal/domain/models"
	domrepo "ForexPulse/internal/domain/repository"
	mid "ForexPulse/internal/middleware"
)

// QuoteWarmer accepts streamed ticks into the quote cache.
type QuoteWarmer interface {
	WarmQuote(q models.Quote)
}

// QuoteCollector consumes the provider price stream and keeps the quote
// cache warm between REST fetches.
type QuoteCollector struct {
	stream  domrepo.PriceStream
	warmer  QuoteWarmer
	metrics domrepo.Metrics
	pipe    *mid.TickPipeline
}

// NewQuoteCollector creates a collector over the given stream.
func NewQuoteCollector(stream domrepo.PriceStream, warmer QuoteWarmer, metrics domrepo.Metrics, pipe *mid.TickPipeline) *QuoteCollector {
	return &QuoteCollector{stream: stream, warmer: warmer, metrics: metrics, pipe: pipe}
}

// IsConnected reports whether the price stream is up.
func (c *QuoteCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

// Start connects, subscribes, and begins consuming ticks.
func (c *QuoteCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	if c.pipe != nil {
		c.pipe.Start(ctx)
	}
	qCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, qCh, errCh)
	return nil
}

// Process implements the pipeline downstream: warm the cache.
func (c *QuoteCollector) Process(ctx context.Context, q *models.Quote) error {
	c.warmer.WarmQuote(*q)
	return nil
}

func (c *QuoteCollector) consume(ctx context.Context, qCh <-chan *models.Quote, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-errCh:
			if !ok || err == nil {
				// both channels close together; stop draining this one
				errCh = nil
				continue
			}
			c.metrics.RecordError("stream")
			for ctx.Err() == nil {
				if rerr := c.stream.Reconnect(ctx); rerr == nil {
					break
				}
				c.metrics.RecordError("stream_reconnect")
			}
			if ctx.Err() != nil {
				return
			}
			qCh, errCh = c.stream.Read(ctx)
		case q, ok := <-qCh:
			if !ok {
				qCh = nil
				continue
			}
			if c.pipe != nil {
				_ = c.pipe.Process(ctx, q)
			} else {
				_ = c.Process(ctx, q)
			}
			c.metrics.RecordLastPrice(q.Pair, q.Price)
		}
	}
}

// Shutdown stops the pipeline and closes the stream.
func (c *QuoteCollector) Shutdown(ctx context.Context) error {
	if c.pipe != nil {
		c.pipe.Stop()
	}
	return c.stream.Close()
}
