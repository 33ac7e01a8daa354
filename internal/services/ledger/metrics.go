package ledger

import (
	"time"

	"custodia/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsCollector defines the interface for collecting ledger metrics
type MetricsCollector interface {
	RecordCreated(txType models.TransactionType)
	RecordSettled(txType models.TransactionType, status models.TransactionStatus, duration time.Duration)
	RecordDeleted()
	RecordConflict(operation string)
	RecordDrift(clientWalletID uint, drift float64)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordCreated(models.TransactionType) {}
func (NoopMetricsCollector) RecordDeleted()                       {}
func (NoopMetricsCollector) RecordConflict(string)                {}
func (NoopMetricsCollector) RecordDrift(uint, float64)            {}

func (NoopMetricsCollector) RecordSettled(models.TransactionType, models.TransactionStatus, time.Duration) {
}

type prometheusMetrics struct {
	created    *prometheus.CounterVec
	settled    *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	deleted    prometheus.Counter
	conflicts  *prometheus.CounterVec
	drifts     prometheus.Counter
	driftTotal prometheus.Counter
}

// NewPrometheusMetrics registers the ledger metrics with reg.
func NewPrometheusMetrics(reg prometheus.Registerer) MetricsCollector {
	factory := promauto.With(reg)
	return &prometheusMetrics{
		created: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "custodia_transactions_created_total",
				Help: "Total number of transactions created",
			},
			[]string{"type"},
		),
		settled: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "custodia_transactions_settled_total",
				Help: "Total number of transactions settled by outcome",
			},
			[]string{"type", "status"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "custodia_settlement_duration_seconds",
				Help:    "Duration of settlement including balance recompute",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2, 5},
			},
			[]string{"status"},
		),
		deleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "custodia_transactions_deleted_total",
			Help: "Total number of pending admin-created transactions deleted",
		}),
		conflicts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "custodia_already_settled_total",
				Help: "Total number of transitions rejected because the transaction was settled",
			},
			[]string{"operation"},
		),
		drifts: factory.NewCounter(prometheus.CounterOpts{
			Name: "custodia_reconcile_drift_total",
			Help: "Total number of wallets whose materialized balance drifted from the fold",
		}),
		driftTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "custodia_reconcile_drift_usd_total",
			Help: "Absolute USD drift corrected by reconciliation",
		}),
	}
}

func (m *prometheusMetrics) RecordCreated(txType models.TransactionType) {
	m.created.WithLabelValues(string(txType)).Inc()
}

func (m *prometheusMetrics) RecordSettled(txType models.TransactionType, status models.TransactionStatus, d time.Duration) {
	m.settled.WithLabelValues(string(txType), string(status)).Inc()
	m.duration.WithLabelValues(string(status)).Observe(d.Seconds())
}

func (m *prometheusMetrics) RecordDeleted() {
	m.deleted.Inc()
}

func (m *prometheusMetrics) RecordConflict(operation string) {
	m.conflicts.WithLabelValues(operation).Inc()
}

func (m *prometheusMetrics) RecordDrift(_ uint, drift float64) {
	m.drifts.Inc()
	if drift < 0 {
		drift = -drift
	}
	m.driftTotal.Add(drift)
}
