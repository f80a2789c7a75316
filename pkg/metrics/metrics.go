// Package metrics defines the Prometheus collectors shared across the
// application. Collectors are registered on the default registry at init so
// any component can record without additional wiring; the ops server
// exposes them on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ToolCalls counts tool invocations by tool name and outcome.
	ToolCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "embymcp_tool_calls_total",
		Help: "Number of MCP tool invocations.",
	}, []string{"tool", "status"})

	// ChunksDelivered counts search result chunks handed to the agent.
	ChunksDelivered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "embymcp_search_chunks_delivered_total",
		Help: "Number of search result chunks delivered.",
	})

	// SearchResultItems observes the size of materialised result sets.
	SearchResultItems = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "embymcp_search_result_items",
		Help:    "Number of items matched per search.",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
	})

	upstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "embymcp_upstream_request_duration_seconds",
		Help:    "Latency of requests to the media server by endpoint.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint", "status"})
)

// ObserveUpstream records one media-server request.
func ObserveUpstream(endpoint string, status int, d time.Duration) {
	upstreamDuration.WithLabelValues(endpoint, strconv.Itoa(status)).Observe(d.Seconds())
}

// RecordToolCall records one tool invocation outcome.
func RecordToolCall(tool string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	ToolCalls.WithLabelValues(tool, status).Inc()
}
