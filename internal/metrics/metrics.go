package metrics

import (
	_ "items-api/internal/version"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors/version"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: Namespace + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    Namespace + "_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: Namespace + "_login_callbacks_total",
			Help: "Total number of OAuth callbacks by outcome",
		},
		[]string{"outcome"},
	)

	SessionTokensIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: Namespace + "_session_tokens_issued_total",
			Help: "Total number of session tokens minted",
		},
	)

	AuthRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: Namespace + "_auth_rejections_total",
			Help: "Requests rejected by the auth middleware",
		},
		[]string{"mode", "status"},
	)

	AssertionFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: Namespace + "_id_token_verification_failures_total",
			Help: "Google ID tokens rejected during verification",
		},
		[]string{"reason"},
	)

	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    Namespace + "_provider_request_duration_seconds",
			Help:    "Time spent on calls to the identity provider",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)

	ProviderRequestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: Namespace + "_provider_request_errors_total",
			Help: "Failed calls to the identity provider",
		},
		[]string{"operation"},
	)

	RateLimitDecisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: Namespace + "_rate_limit_decisions_total",
			Help: "Rate limiter decisions on the auth endpoints",
		},
		[]string{"store", "allowed"},
	)

	RateLimitTrackedKeys = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: Namespace + "_rate_limit_tracked_keys",
			Help: "Client windows currently held by the in-memory limiter",
		},
	)

	Items = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: Namespace + "_items",
			Help: "Current number of stored items",
		},
	)
)

// build_info carries the values stamped into internal/version.
func init() {
	prometheus.MustRegister(version.NewCollector(Namespace))
}
