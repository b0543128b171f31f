// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// MessagesTotal tracks messages appended to sessions by author role.
	MessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "support_messages_total",
			Help: "Total messages appended to chat sessions",
		},
		[]string{"role"},
	)

	// MatchesTotal tracks matcher outcomes per turn.
	MatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "support_matches_total",
			Help: "Knowledge base match outcomes",
		},
		[]string{"outcome"}, // static, dynamic, none, degraded
	)

	// EscalationsTotal tracks tickets created from sessions.
	EscalationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "support_escalations_total",
			Help: "Total sessions escalated to support tickets",
		},
	)

	// SessionsActive tracks sessions currently in the active state.
	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "support_sessions_active",
			Help: "Chat sessions currently active",
		},
	)

	// SSEConnectionsActive tracks active SSE connections.
	SSEConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sse_connections_active",
			Help: "Number of active SSE connections",
		},
	)

	// OTPIssuedTotal tracks one-time codes issued for phone login.
	OTPIssuedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "auth_otp_issued_total",
			Help: "Total one-time login codes issued",
		},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordMatch records a matcher outcome for one conversation turn.
func RecordMatch(outcome string) {
	MatchesTotal.WithLabelValues(outcome).Inc()
}

// IncrementSSEConnections increments the active SSE connection count.
func IncrementSSEConnections() {
	SSEConnectionsActive.Inc()
}

// DecrementSSEConnections decrements the active SSE connection count.
func DecrementSSEConnections() {
	SSEConnectionsActive.Dec()
}
