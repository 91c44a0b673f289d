// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_queries_total",
			Help: "Total number of processed queries by how they were answered",
		},
		[]string{"answer"},
	)

	ActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_actions_total",
			Help: "Total number of dispatched actions",
		},
		[]string{"entity", "verb", "outcome"},
	)

	TransportDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "assistant_transport_duration_seconds",
			Help:    "Duration of tracking API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "category"},
	)

	GeneratorFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_generator_fallbacks_total",
			Help: "Total number of responses served from canned fallback text",
		},
		[]string{"reason"},
	)

	SearchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assistant_search_requests_total",
			Help: "Total number of documentation searches by result",
		},
		[]string{"result"},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "assistant_active_sessions",
			Help: "Number of conversation sessions held in memory",
		},
	)
)
