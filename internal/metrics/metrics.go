package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for browse passes.
type Metrics struct {
	// Stage latencies: "resolve" (authority to host) and "dispatch" (repository read)
	StageLatency *prometheus.HistogramVec

	// Pass results by target and result kind ("ok" or an error kind)
	PassOutcome *prometheus.CounterVec

	// Overall pass latency
	PassLatency prometheus.Histogram

	// Passes currently running
	InFlight prometheus.Gauge
}

// New creates a Metrics instance registered on reg.
// A nil reg registers on the default Prometheus registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		StageLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "branches_browse_stage_duration_seconds",
			Help:    "Duration of browse pass stages",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"stage"}),

		PassOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "branches_browse_passes_total",
			Help: "Total browse passes by target and result",
		}, []string{"target", "result"}),

		PassLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "branches_browse_pass_duration_seconds",
			Help:    "Duration of a full browse pass including identity resolution",
			Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),

		InFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "branches_browse_passes_in_flight",
			Help: "Browse passes currently running",
		}),
	}
}

// ObserveStageLatency records the duration of one pass stage.
func (m *Metrics) ObserveStageLatency(stage string, d time.Duration) {
	if m != nil {
		m.StageLatency.WithLabelValues(stage).Observe(d.Seconds())
	}
}

// IncrementOutcome records a finished pass.
func (m *Metrics) IncrementOutcome(target, result string) {
	if m != nil {
		m.PassOutcome.WithLabelValues(target, result).Inc()
	}
}

// ObservePassLatency records the total pass duration.
func (m *Metrics) ObservePassLatency(d time.Duration) {
	if m != nil {
		m.PassLatency.Observe(d.Seconds())
	}
}

// PassStarted marks a pass as running; call the returned func when it ends.
func (m *Metrics) PassStarted() func() {
	if m == nil {
		return func() {}
	}
	m.InFlight.Inc()
	return m.InFlight.Dec
}
