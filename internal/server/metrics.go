package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shop_http_requests_total",
			Help: "HTTP requests served, by method, path and status code.",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "shop_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	mutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shop_state_mutations_total",
			Help: "State model mutations, by operation and outcome.",
		},
		[]string{"op", "outcome"},
	)
)

// countMutation records one mutation attempt.
func countMutation(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "rejected"
	}
	mutationsTotal.WithLabelValues(op, outcome).Inc()
}
