// Package platformmetrics exposes the Prometheus metrics every brightpath component reports,
// following the teacher's package-level-vars-plus-init-registration idiom (cuemby-warren's
// pkg/metrics) rather than a metrics struct threaded through every call site.
package platformmetrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Worker (C2) metrics.
	RecordsProcessedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brightpath_worker_records_processed_total",
			Help: "Total number of event log records processed by consumer and outcome",
		},
		[]string{"consumer", "outcome"},
	)

	RecordsRetriedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brightpath_worker_records_retried_total",
			Help: "Total number of transient-error retry attempts by consumer",
		},
		[]string{"consumer"},
	)

	RecordsDeadLetteredTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brightpath_worker_records_dead_lettered_total",
			Help: "Total number of records routed to the dead-letter topic by consumer",
		},
		[]string{"consumer"},
	)

	HandlerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "brightpath_worker_handler_duration_seconds",
			Help:    "Business handler execution time in seconds by consumer",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"consumer"},
	)

	// Allocation engine (C3) metrics.
	AllocationOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brightpath_allocation_outcomes_total",
			Help: "Total number of allocation attempts by outcome (approved, pending)",
		},
		[]string{"outcome"},
	)

	// Gateway realtime (C4) metrics.
	WebsocketConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "brightpath_gateway_websocket_connections",
			Help: "Current number of local WebSocket connections on this gateway instance",
		},
	)

	RateLimitRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brightpath_gateway_rate_limit_rejections_total",
			Help: "Total number of requests rejected by the rate limiter by role",
		},
		[]string{"role"},
	)

	ProxyUpstreamErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "brightpath_gateway_proxy_upstream_errors_total",
			Help: "Total number of proxied requests that failed with an upstream error by target and status class",
		},
		[]string{"target", "status_class"},
	)
)

func init() {
	prometheus.MustRegister(
		RecordsProcessedTotal,
		RecordsRetriedTotal,
		RecordsDeadLetteredTotal,
		HandlerDuration,
		AllocationOutcomesTotal,
		WebsocketConnections,
		RateLimitRejectionsTotal,
		ProxyUpstreamErrorsTotal,
	)
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer times an operation and reports it to a histogram on ObserveDuration.
type Timer struct {
	start time.Time
}

// NewTimer starts a Timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the elapsed time to histogram with the given labels.
func (t *Timer) ObserveDuration(histogram *prometheus.HistogramVec, labels ...string) {
	histogram.WithLabelValues(labels...).Observe(time.Since(t.start).Seconds())
}
