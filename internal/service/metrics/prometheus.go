package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	domrepo "ForexPulse/internal/domain/repository"
)

// Recorder implements the domain Metrics interface using Prometheus.
type Recorder struct {
	signalsTotal *prometheus.CounterVec
	skipsTotal   *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	lastPrice    *prometheus.GaugeVec
	confidence   *prometheus.GaugeVec
	sessionPnL   prometheus.Gauge
	latency      *prometheus.HistogramVec
}

var _ domrepo.Metrics = (*Recorder)(nil)

// New creates a Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		signalsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forexpulse_signals_total",
				Help: "Total emitted signals",
			},
			[]string{"pair", "type"},
		),
		skipsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forexpulse_skips_total",
				Help: "Total skipped signal requests by reason",
			},
			[]string{"reason"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forexpulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "forexpulse_last_price",
				Help: "Last observed price for a pair",
			},
			[]string{"pair"},
		),
		confidence: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "forexpulse_signal_confidence",
				Help: "Confidence of the last emitted signal per pair",
			},
			[]string{"pair"},
		),
		sessionPnL: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "forexpulse_session_pnl_bps",
				Help: "Net session P&L in basis points",
			},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "forexpulse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordSignal records an emitted signal.
func (r *Recorder) RecordSignal(pair, signalType string) {
	r.signalsTotal.WithLabelValues(pair, signalType).Inc()
}

// RecordSkip records a gate failure by reason.
func (r *Recorder) RecordSkip(reason string) {
	r.skipsTotal.WithLabelValues(reason).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the last observed price for a pair.
func (r *Recorder) RecordLastPrice(pair string, price float64) {
	r.lastPrice.WithLabelValues(pair).Set(price)
}

// RecordConfidence records the last emitted signal's confidence.
func (r *Recorder) RecordConfidence(pair string, confidence float64) {
	r.confidence.WithLabelValues(pair).Set(confidence)
}

// RecordSessionPnL records net session P&L in basis points.
func (r *Recorder) RecordSessionPnL(bps float64) {
	r.sessionPnL.Set(bps)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
