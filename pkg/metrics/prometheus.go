package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	cyclesTotal  *prometheus.CounterVec
	signalsTotal *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	spotPrice    *prometheus.GaugeVec
	latency      *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		cyclesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chainpulse_cycles_total",
				Help: "Total number of completed detection cycles",
			},
			[]string{"symbol"},
		),
		signalsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chainpulse_signals_total",
				Help: "Total number of emitted signals",
			},
			[]string{"symbol", "pattern", "direction"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "chainpulse_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		spotPrice: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "chainpulse_spot_price",
				Help: "Last recorded spot price for a symbol",
			},
			[]string{"symbol"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "chainpulse_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordCycle records one completed detection cycle.
func (r *Recorder) RecordCycle(symbol string) {
	r.cyclesTotal.WithLabelValues(symbol).Inc()
}

// RecordSignal records one emitted signal.
func (r *Recorder) RecordSignal(symbol, pattern, direction string) {
	r.signalsTotal.WithLabelValues(symbol, pattern, direction).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordSpot records the last spot price for a symbol.
func (r *Recorder) RecordSpot(symbol string, price float64) {
	r.spotPrice.WithLabelValues(symbol).Set(price)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
