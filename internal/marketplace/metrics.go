package marketplace

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal tracks GraphQL operations by outcome.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "marketbot_marketplace_requests_total",
			Help: "Total number of marketplace GraphQL requests",
		},
		[]string{"operation", "status"},
	)

	// RequestDurationSeconds tracks GraphQL request latency per operation.
	RequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "marketbot_marketplace_request_duration_seconds",
			Help:    "Duration of marketplace GraphQL requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)
)
