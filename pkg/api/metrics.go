package api

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	httpAPIMetricsNamespace = "rentflow"
	httpAPIMetricsSubsystem = "http_api"
)

var (
	metricApiTotalRequests = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: httpAPIMetricsNamespace,
			Subsystem: httpAPIMetricsSubsystem,
			Name:      "total_hits",
			Help:      "Lease HTTP API requests count",
		},
	)

	metricApiHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: httpAPIMetricsNamespace,
			Subsystem: httpAPIMetricsSubsystem,
			Name:      "path_hits",
			Help:      "Lease HTTP API paths hits",
		},
		[]string{"status", "path"},
	)

	metricApiRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: httpAPIMetricsNamespace,
			Subsystem: httpAPIMetricsSubsystem,
			Name:      "path_duration",
			Help:      "Lease HTTP API request duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		},
		[]string{"method", "path"},
	)

	metricApiAuthFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: httpAPIMetricsNamespace,
			Subsystem: httpAPIMetricsSubsystem,
			Name:      "auth_failures",
			Help:      "Rejected request authentications by reason",
		},
		[]string{"reason"},
	)

	metricApiEvictedConnections = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: httpAPIMetricsNamespace,
			Subsystem: httpAPIMetricsSubsystem,
			Name:      "evicted_connections",
			Help:      "Idle connections closed to admit new ones",
		},
	)
)

func init() {
	prometheus.MustRegister(
		metricApiTotalRequests,
		metricApiHits,
		metricApiRequestDuration,
		metricApiAuthFailures,
		metricApiEvictedConnections,
	)
}
