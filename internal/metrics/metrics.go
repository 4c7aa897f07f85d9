package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RouteRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "guardaid_route_requests_total",
		Help: "Total number of route planning requests",
	})
	RouteDetoursTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "guardaid_route_detours_total",
		Help: "Total number of planned routes that took a detour",
	})
	ProviderRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "guardaid_provider_requests_total",
		Help: "Total routing provider requests",
	})
	ProviderFailTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "guardaid_provider_fail_total",
		Help: "Total routing provider failures",
	})
	ProviderDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "guardaid_provider_duration_ms",
		Help:    "Routing provider call duration in milliseconds",
		Buckets: []float64{5, 10, 20, 50, 100, 200, 500, 1000, 2000, 5000},
	})
	ZoneCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "guardaid_zone_cache_hits_total",
		Help: "Total zone list cache hits",
	})
	ZoneCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "guardaid_zone_cache_misses_total",
		Help: "Total zone list cache misses",
	})
	IncidentTransitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "guardaid_incident_transitions_total",
		Help: "Total incident status transitions",
	}, []string{"status"})
	WebhookDeliveriesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "guardaid_webhook_deliveries_total",
		Help: "Total webhook deliveries attempted",
	})
	WebhookFailTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "guardaid_webhook_fail_total",
		Help: "Total webhook deliveries that exhausted retries",
	})
)

func init() {
	prometheus.MustRegister(
		RouteRequestsTotal,
		RouteDetoursTotal,
		ProviderRequestsTotal,
		ProviderFailTotal,
		ProviderDurationMs,
		ZoneCacheHitsTotal,
		ZoneCacheMissesTotal,
		IncidentTransitionsTotal,
		WebhookDeliveriesTotal,
		WebhookFailTotal,
	)
}

// Handler exposes the registered metrics for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
