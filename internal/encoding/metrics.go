package encoding

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains Prometheus metrics for encoding operations.
type Metrics struct {
	negotiationsTotal *prometheus.CounterVec
	encodeTotal       *prometheus.CounterVec
	encodeDuration    *prometheus.HistogramVec
	errorsTotal       *prometheus.CounterVec
}

// NewMetrics creates the encoding metrics and registers them with reg.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		negotiationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "encoding",
				Name:      "negotiations_total",
				Help:      "Total number of content type negotiations",
			},
			[]string{"content_type", "result"},
		),
		encodeTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "encoding",
				Name:      "encode_total",
				Help:      "Total number of encoded documents",
			},
			[]string{"document", "result"},
		),
		encodeDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "encoding",
				Name:      "encode_duration_seconds",
				Help:      "Time spent encoding documents",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5},
			},
			[]string{"document"},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "encoding",
				Name:      "errors_total",
				Help:      "Total number of encoding errors",
			},
			[]string{"content_type", "operation"},
		),
	}
}

// RecordNegotiation records a content type negotiation result.
func (m *Metrics) RecordNegotiation(contentType, result string) {
	m.negotiationsTotal.WithLabelValues(contentType, result).Inc()
}

// RecordEncode records an encoded document and the time it took.
func (m *Metrics) RecordEncode(document, result string, seconds float64) {
	m.encodeTotal.WithLabelValues(document, result).Inc()
	m.encodeDuration.WithLabelValues(document).Observe(seconds)
}

// RecordError records an encoding error.
func (m *Metrics) RecordError(contentType, operation string) {
	m.errorsTotal.WithLabelValues(contentType, operation).Inc()
}
