package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the Prometheus collectors the HTTP layer records into.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	GuardRejections *prometheus.CounterVec
	TokensIssued    *prometheus.CounterVec
	LockScreens     *prometheus.CounterVec
}

// NewMetrics registers the service metrics with reg and returns them.
// The server passes the default registerer; tests pass a fresh registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sitegate",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, route, and status.",
		}, []string{"method", "route", "status"}),

		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sitegate",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),

		GuardRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sitegate",
			Name:      "guard_rejections_total",
			Help:      "Admin guard pipeline rejections by stage and code.",
		}, []string{"stage", "code"}),

		TokensIssued: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sitegate",
			Name:      "tokens_issued_total",
			Help:      "Access tokens issued by subject kind.",
		}, []string{"kind"}),

		LockScreens: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sitegate",
			Name:      "lock_screens_total",
			Help:      "Blocking screens served by screen type.",
		}, []string{"screen"}),
	}
}
