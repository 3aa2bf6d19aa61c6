package monitoring

import (
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

// Metrics holds the client-side exchange metrics
type Metrics struct {
	Responses       *prometheus.CounterVec
	ResponseSeconds *prometheus.HistogramVec
	BodyBytes       *prometheus.HistogramVec
	TransportErrors *prometheus.CounterVec
	BreakerState    *prometheus.GaugeVec
}

// NewMetrics registers the forest_* collectors on reg. A nil reg creates a
// private registry so several clients can coexist in one process.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		Responses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forest_responses_total",
				Help: "Responses normalized, by backend and status class",
			},
			[]string{"backend", "class"},
		),
		ResponseSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "forest_response_duration_seconds",
				Help:    "Time between sending a request and receiving its response",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"backend"},
		),
		BodyBytes: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "forest_response_body_bytes",
				Help:    "Declared response body length",
				Buckets: prometheus.ExponentialBuckets(64, 4, 10),
			},
			[]string{"backend"},
		),
		TransportErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forest_transport_errors_total",
				Help: "Exchanges that produced no response",
			},
			[]string{"backend"},
		),
		BreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "forest_breaker_state",
				Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
			},
			[]string{"name"},
		),
	}
}

// RecordResponse records one normalized exchange. Negative lengths are
// unknown and skipped.
func (m *Metrics) RecordResponse(backend, class string, duration time.Duration, length int64) {
	if m == nil {
		return
	}
	m.Responses.WithLabelValues(backend, class).Inc()
	m.ResponseSeconds.WithLabelValues(backend).Observe(duration.Seconds())
	if length >= 0 {
		m.BodyBytes.WithLabelValues(backend).Observe(float64(length))
	}
}

func (m *Metrics) RecordTransportError(backend string) {
	if m == nil {
		return
	}
	m.TransportErrors.WithLabelValues(backend).Inc()
}

func (m *Metrics) SetBreakerState(name string, state int) {
	if m == nil {
		return
	}
	m.BreakerState.WithLabelValues(name).Set(float64(state))
}

// WriteText writes every family gathered from g in the text exposition format
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
