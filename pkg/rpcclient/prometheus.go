package rpcclient

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics for monitoring client requests.
var (
	// requestsTotal prometheus metric.
	requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Help:      "Number of RPC requests sent to the node",
			Name:      "rpc_client_requests_total",
			Namespace: "neokit",
		},
		[]string{"method", "status"},
	)
	// requestDuration prometheus metric.
	requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Help:      "RPC request round trip time",
			Name:      "rpc_client_request_duration_seconds",
			Namespace: "neokit",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)
)

func init() {
	prometheus.MustRegister(
		requestsTotal,
		requestDuration,
	)
}

func observeRequest(method string, err error, d time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	requestsTotal.WithLabelValues(method, status).Inc()
	requestDuration.WithLabelValues(method).Observe(d.Seconds())
}
