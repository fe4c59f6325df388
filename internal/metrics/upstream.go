package metrics

import "github.com/prometheus/client_golang/prometheus"

// Upstream Prometheus metrics for the MarkLogic REST server behind the proxy.
var (
	UpstreamResponsesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mlcommon",
			Subsystem: "proxy",
			Name:      "upstream_responses_total",
			Help:      "Upstream responses by REST endpoint group and status class",
		},
		[]string{"endpoint", "class"},
	)

	UpstreamErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mlcommon",
			Subsystem: "proxy",
			Name:      "upstream_errors_total",
			Help:      "Upstream requests that failed without a response",
		},
		[]string{"endpoint"},
	)

	UpstreamRejectedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mlcommon",
			Subsystem: "proxy",
			Name:      "upstream_rejected_total",
			Help:      "Requests rejected before reaching upstream",
		},
		[]string{"reason"}, // "prefix" / "path"
	)
)

var upstreamMetricsRegistered bool

// RegisterUpstreamMetrics registers Prometheus upstream metrics. Must be called once from main.
func RegisterUpstreamMetrics() {
	if upstreamMetricsRegistered {
		return
	}
	prometheus.MustRegister(UpstreamResponsesTotal)
	prometheus.MustRegister(UpstreamErrorsTotal)
	prometheus.MustRegister(UpstreamRejectedTotal)
	upstreamMetricsRegistered = true
}

// StatusClass maps an HTTP status code to its class label, e.g. 404 -> "4xx".
func StatusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	case code >= 200:
		return "2xx"
	default:
		return "1xx"
	}
}
