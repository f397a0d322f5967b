package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Failure reasons reported by fintrack_transaction_failures_total.
const (
	FailureValidation   = "validation"
	FailurePersistence  = "persistence"
	FailureUnauthorized = "unauthorized"
)

// Metrics holds the ingestion counters. A nil *Metrics records nothing.
type Metrics struct {
	transactionsCreated *prometheus.CounterVec
	conversionDegraded  prometheus.Counter
	transactionFailures *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them with registry.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		transactionsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fintrack_transactions_created_total",
			Help: "Total number of stored transactions by submitted type",
		}, []string{"type"}),
		conversionDegraded: factory.NewCounter(prometheus.CounterOpts{
			Name: "fintrack_conversion_degraded_total",
			Help: "Total number of transactions stored without a currency conversion because the rate lookup failed",
		}),
		transactionFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "fintrack_transaction_failures_total",
			Help: "Total number of rejected or failed transaction submissions by reason",
		}, []string{"reason"}),
	}
}

func (m *Metrics) IncCreated(transactionType string) {
	if m == nil {
		return
	}
	m.transactionsCreated.WithLabelValues(transactionType).Inc()
}

func (m *Metrics) IncConversionDegraded() {
	if m == nil {
		return
	}
	m.conversionDegraded.Inc()
}

func (m *Metrics) IncFailure(reason string) {
	if m == nil {
		return
	}
	m.transactionFailures.WithLabelValues(reason).Inc()
}
