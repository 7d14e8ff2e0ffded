package middleware

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ForexPulse/internal/domain/models"
)

type countingProc struct {
	mu   sync.Mutex
	seen int
	fail bool
}

func (p *countingProc) Process(ctx context.Context, q *models.Quote) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("downstream down")
	}
	p.seen++
	return nil
}

func (p *countingProc) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.seen
}

type nopMetrics struct{}

func (nopMetrics) RecordSignal(pair, signalType string)       {}
func (nopMetrics) RecordSkip(reason string)                   {}
func (nopMetrics) RecordError(kind string)                    {}
func (nopMetrics) RecordLastPrice(pair string, price float64) {}
func (nopMetrics) RecordConfidence(pair string, conf float64) {}
func (nopMetrics) RecordSessionPnL(bps float64)               {}
func (nopMetrics) RecordLatency(op string, seconds float64)   {}

func tick(pair string, price float64) *models.Quote {
	return &models.Quote{Pair: pair, Price: price, Timestamp: time.Now()}
}

func TestPipelineRejectsInvalidTicks(t *testing.T) {
	proc := &countingProc{}
	p := NewTickPipeline(proc, nopMetrics{})

	if err := p.Process(context.Background(), nil); err == nil {
		t.Fatalf("nil tick must fail validation")
	}
	if err := p.Process(context.Background(), &models.Quote{Pair: "EURUSD", Price: -1, Timestamp: time.Now()}); err == nil {
		t.Fatalf("non-positive price must fail validation")
	}
	if err := p.Process(context.Background(), &models.Quote{Pair: "", Price: 1, Timestamp: time.Now()}); err == nil {
		t.Fatalf("empty pair must fail validation")
	}
	if proc.count() != 0 {
		t.Fatalf("invalid ticks must not reach downstream")
	}
}

func TestPipelineThrottlesPerPair(t *testing.T) {
	proc := &countingProc{}
	p := NewTickPipeline(proc, nopMetrics{}, WithMaxRPS(1))

	if err := p.Process(context.Background(), tick("EURUSD", 1.1)); err != nil {
		t.Fatalf("first tick must pass: %v", err)
	}
	if err := p.Process(context.Background(), tick("EURUSD", 1.1001)); err != nil {
		t.Fatalf("throttled tick drops silently: %v", err)
	}
	if proc.count() != 1 {
		t.Fatalf("expected 1 forwarded tick, got %d", proc.count())
	}

	// Other pairs have independent budgets.
	if err := p.Process(context.Background(), tick("GBPUSD", 1.27)); err != nil {
		t.Fatalf("other pair must pass: %v", err)
	}
	if proc.count() != 2 {
		t.Fatalf("expected 2 forwarded ticks, got %d", proc.count())
	}
}

func TestPipelineBuffersOnDownstreamFailure(t *testing.T) {
	proc := &countingProc{fail: true}
	p := NewTickPipeline(proc, nopMetrics{}, WithBufferSize(4))

	if err := p.Process(context.Background(), tick("EURUSD", 1.1)); err == nil {
		t.Fatalf("downstream failure must surface")
	}
	if len(p.bufCh) != 1 {
		t.Fatalf("failed tick must be buffered, got %d", len(p.bufCh))
	}
}
