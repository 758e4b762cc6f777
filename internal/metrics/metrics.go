// Package metrics exposes prometheus instruments for the relay pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	relayRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "token_relay_requests_total",
		Help: "Relay requests grouped by binding and outcome",
	}, []string{"binding", "outcome"})

	relayDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "token_relay_request_duration_seconds",
		Help:    "Total time from request receipt to terminal event",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
	}, []string{"binding"})

	firstTokenLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "token_relay_first_token_seconds",
		Help:    "Latency from request receipt to first relayed token",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"binding"})

	tokensRelayed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "token_relay_tokens_total",
		Help: "Display tokens relayed to clients grouped by binding",
	}, []string{"binding"})
)

// ObserveRequest records one completed relay request.
func ObserveRequest(binding, outcome string, duration time.Duration) {
	if outcome == "" {
		outcome = "unknown"
	}
	relayRequests.WithLabelValues(binding, outcome).Inc()
	relayDuration.WithLabelValues(binding).Observe(duration.Seconds())
}

// ObserveFirstToken records time-to-first-token for one request.
func ObserveFirstToken(binding string, seconds float64) {
	firstTokenLatency.WithLabelValues(binding).Observe(seconds)
}

// CountTokens adds relayed tokens for one request.
func CountTokens(binding string, n int) {
	if n > 0 {
		tokensRelayed.WithLabelValues(binding).Add(float64(n))
	}
}
