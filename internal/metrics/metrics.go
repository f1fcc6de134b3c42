// Package metrics holds the Prometheus collectors for the relay.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/illuzioner/chat-relay/internal/provider"
)

// LLMBuckets spans typical completion latencies, 100ms to 120s.
var LLMBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_requests_total",
			Help: "Chat requests by response status",
		},
		[]string{"status"},
	)

	UpstreamRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_upstream_requests_total",
			Help: "Completion calls by outcome",
		},
		[]string{"provider", "model", "status"},
	)

	UpstreamLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "relay_upstream_latency_seconds",
			Help:    "Completion call latency",
			Buckets: LLMBuckets,
		},
		[]string{"provider", "model"},
	)

	TokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relay_tokens_total",
			Help: "Tokens reported by the upstream",
		},
		[]string{"provider", "model", "direction"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		UpstreamRequestsTotal,
		UpstreamLatency,
		TokensTotal,
	)
}

// ObserveRequest counts a finished chat request.
func ObserveRequest(status int) {
	RequestsTotal.WithLabelValues(strconv.Itoa(status)).Inc()
}

// ObserveUpstream records one completion call. usage may be nil.
func ObserveUpstream(providerName, model string, elapsed time.Duration, usage *provider.Usage, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	UpstreamRequestsTotal.WithLabelValues(providerName, model, status).Inc()
	UpstreamLatency.WithLabelValues(providerName, model).Observe(elapsed.Seconds())

	if usage != nil {
		TokensTotal.WithLabelValues(providerName, model, "input").Add(float64(usage.PromptTokens))
		TokensTotal.WithLabelValues(providerName, model, "output").Add(float64(usage.CompletionTokens))
	}
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
