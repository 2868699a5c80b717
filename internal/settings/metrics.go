package settings

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Change results recorded by the metrics.
const (
	resultChanged   = "changed"
	resultUnchanged = "unchanged"
	resultRejected  = "rejected"
	resultFailed    = "failed"
)

// Metrics contains Prometheus metrics for setting changes.
type Metrics struct {
	changesTotal          *prometheus.CounterVec
	revertsTotal          *prometheus.CounterVec
	configurationFailures *prometheus.CounterVec
}

// NewMetrics creates the settings metrics and registers them with reg.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		changesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "settings",
				Name:      "changes_total",
				Help:      "Total number of setting change requests",
			},
			[]string{"key", "result"},
		),
		revertsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "settings",
				Name:      "reverts_total",
				Help:      "Total number of listener reverts after a rejected change",
			},
			[]string{"key"},
		),
		configurationFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "settings",
				Name:      "configuration_failures_total",
				Help:      "Total number of components that failed to configure",
			},
			[]string{"owner"},
		),
	}
}

func (m *Metrics) recordChange(key, result string) {
	if m != nil {
		m.changesTotal.WithLabelValues(key, result).Inc()
	}
}

func (m *Metrics) recordRevert(key string) {
	if m != nil {
		m.revertsTotal.WithLabelValues(key).Inc()
	}
}

func (m *Metrics) recordConfigurationFailure(owner string) {
	if m != nil {
		m.configurationFailures.WithLabelValues(owner).Inc()
	}
}
