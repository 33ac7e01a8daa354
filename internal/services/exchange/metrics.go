package exchange

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector records how rate lookups were answered.
type MetricsCollector interface {
	RecordLookup(source Source)
	RecordFallback(symbol, reason string)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordLookup(Source)           {}
func (NoopMetricsCollector) RecordFallback(string, string) {}

type prometheusMetrics struct {
	lookups   *prometheus.CounterVec
	fallbacks *prometheus.CounterVec
}

func NewPrometheusMetrics(reg prometheus.Registerer) MetricsCollector {
	factory := promauto.With(reg)
	return &prometheusMetrics{
		lookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "custodia_rate_lookups_total",
				Help: "Total number of exchange rate lookups by answer source",
			},
			[]string{"source"},
		),
		fallbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "custodia_rate_fallback_total",
				Help: "Total number of lookups that fell back to a 1.0 rate",
			},
			[]string{"symbol", "reason"},
		),
	}
}

func (m *prometheusMetrics) RecordLookup(source Source) {
	m.lookups.WithLabelValues(string(source)).Inc()
}

func (m *prometheusMetrics) RecordFallback(symbol, reason string) {
	m.fallbacks.WithLabelValues(symbol, reason).Inc()
}
