package settlement

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TransactionsTotal counts submitted transactions by operation and outcome.
	TransactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketbot_transactions_total",
		Help: "On-chain transactions by operation and outcome",
	}, []string{"operation", "outcome"})

	// TransactionDurationSeconds observes submit-to-receipt latency.
	TransactionDurationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "marketbot_transaction_duration_seconds",
		Help:    "Time from submission to receipt (or timeout)",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 180},
	}, []string{"operation"})

	// CancellationRunsTotal counts bulk cancellation runs.
	CancellationRunsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "marketbot_cancellation_runs_total",
		Help: "Bulk cancellation runs completed",
	})

	// ListingsTotal counts sell orders posted to the book by asset standard.
	ListingsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "marketbot_listings_total",
		Help: "Sell orders submitted to the order book",
	}, []string{"standard"})
)
