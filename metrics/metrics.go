// Package metrics holds the Prometheus collectors for tool calls and the
// upstream API requests they cause.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// LatencyBuckets cover fast model listings up to long generations.
var LatencyBuckets = []float64{0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

var (
	// ToolCallsTotal counts tool invocations by tool name and outcome
	// ("ok", an error kind, "config" or "unknown_tool").
	ToolCallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grok_mcp_tool_calls_total",
			Help: "Tool calls",
		},
		[]string{"tool", "outcome"},
	)

	// ToolDuration records end-to-end tool call duration in seconds.
	ToolDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "grok_mcp_tool_duration_seconds",
			Help:    "Tool call duration",
			Buckets: LatencyBuckets,
		},
		[]string{"tool"},
	)

	// UpstreamRequestsTotal counts requests sent to the completion API by
	// HTTP method and status code ("error" for network failures).
	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "grok_mcp_upstream_requests_total",
			Help: "Upstream requests",
		},
		[]string{"method", "status"},
	)

	// UpstreamLatency records upstream round-trip time in seconds.
	UpstreamLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "grok_mcp_upstream_latency_seconds",
			Help:    "Upstream latency",
			Buckets: LatencyBuckets,
		},
		[]string{"method"},
	)
)

func init() {
	prometheus.MustRegister(
		ToolCallsTotal,
		ToolDuration,
		UpstreamRequestsTotal,
		UpstreamLatency,
	)
}
