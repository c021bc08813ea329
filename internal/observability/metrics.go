// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Detection metrics
	PoolsObserved        prometheus.Counter
	OpportunitiesEmitted prometheus.Counter
	PoolsSkipped         *prometheus.CounterVec

	// Validation metrics
	ValidationsTotal  prometheus.Counter
	ValidationRejects *prometheus.CounterVec
	ListReloads       prometheus.Counter
	ListReloadErrors  prometheus.Counter

	// Ledger metrics
	TradesOpened      prometheus.Counter
	TradesClosed      prometheus.Counter
	PersistenceErrors prometheus.Counter

	// Analysis metrics
	AnalysisRuns     prometheus.Counter
	AnalysisSkipped  prometheus.Counter
	ReportsGenerated prometheus.Counter
}

// NewMetrics creates a new Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "trade_scout"
	}

	return &Metrics{
		PoolsObserved: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "detection",
			Name:      "pools_observed_total",
			Help:      "Total number of pools observed by the scorer",
		}),
		OpportunitiesEmitted: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "detection",
			Name:      "opportunities_emitted_total",
			Help:      "Total number of opportunities emitted",
		}),
		PoolsSkipped: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "detection",
			Name:      "pools_skipped_total",
			Help:      "Total number of pools skipped, by stage",
		}, []string{"stage"}),
		ValidationsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "validation",
			Name:      "validations_total",
			Help:      "Total number of validation calls",
		}),
		ValidationRejects: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "validation",
			Name:      "rejects_total",
			Help:      "Total number of validation rejects, by check",
		}, []string{"check"}),
		ListReloads: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "validation",
			Name:      "list_reloads_total",
			Help:      "Total number of whitelist/blacklist reloads",
		}),
		ListReloadErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "validation",
			Name:      "list_reload_errors_total",
			Help:      "Total number of list files that failed to parse",
		}),
		TradesOpened: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "trades_opened_total",
			Help:      "Total number of buy records created",
		}),
		TradesClosed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "trades_closed_total",
			Help:      "Total number of trades closed by a sell",
		}),
		PersistenceErrors: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ledger",
			Name:      "persistence_errors_total",
			Help:      "Total number of failed ledger persistence writes",
		}),
		AnalysisRuns: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "runs_total",
			Help:      "Total number of completed analysis cycles",
		}),
		AnalysisSkipped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "skipped_total",
			Help:      "Total number of analysis cycles skipped for insufficient data",
		}),
		ReportsGenerated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "analysis",
			Name:      "reports_generated_total",
			Help:      "Total number of analysis reports generated",
		}),
	}
}
