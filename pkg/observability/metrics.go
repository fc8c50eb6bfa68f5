// Package observability provides Prometheus metrics for monitoring
// modelmux provider calls and streams.
package observability

import "github.com/prometheus/client_golang/prometheus"

// LLMBuckets defines histogram buckets suited for LLM inference latencies,
// ranging from 100ms to 120s.
var LLMBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120}

var (
	// ProviderRequestsTotal counts calls sent to vendor APIs.
	ProviderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modelmux_provider_requests_total",
			Help: "Provider requests",
		},
		[]string{"provider", "model", "status"},
	)

	// ProviderLatency records vendor round-trip latency in seconds.
	ProviderLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "modelmux_provider_latency_seconds",
			Help:    "Provider latency",
			Buckets: LLMBuckets,
		},
		[]string{"provider", "model"},
	)

	// ProviderTokensTotal counts tokens processed by direction (input/output).
	ProviderTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modelmux_provider_tokens_total",
			Help: "Token count",
		},
		[]string{"provider", "model", "direction"},
	)

	// StreamsActive tracks the number of open streaming generations.
	StreamsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "modelmux_streams_active",
			Help: "Active streaming generations",
		},
	)

	// StreamEventsTotal counts unified events emitted by the normalizers.
	StreamEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modelmux_stream_events_total",
			Help: "Unified stream events",
		},
		[]string{"provider", "type"},
	)
)

func init() {
	prometheus.MustRegister(
		ProviderRequestsTotal,
		ProviderLatency,
		ProviderTokensTotal,
		StreamsActive,
		StreamEventsTotal,
	)
}

// RecordUsage adds a call's token usage to the per-direction counters.
func RecordUsage(provider, model string, promptTokens, completionTokens int) {
	if promptTokens > 0 {
		ProviderTokensTotal.WithLabelValues(provider, model, "input").Add(float64(promptTokens))
	}
	if completionTokens > 0 {
		ProviderTokensTotal.WithLabelValues(provider, model, "output").Add(float64(completionTokens))
	}
}
