package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	// HTTPRequests counts requests by method, route template and status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds.
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// SearchNodes counts branch-and-bound nodes expanded.
	SearchNodes = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "route_search_nodes_total", Help: "Branch-and-bound nodes expanded."},
	)
	// SearchPruned counts subtrees cut by the incumbent bound.
	SearchPruned = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "route_search_pruned_total", Help: "Branch-and-bound subtrees pruned."},
	)
	// SearchDuration records optimizer wall time by outcome.
	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "route_search_duration_seconds", Help: "Route optimizer duration in seconds.", Buckets: []float64{.0001, .001, .01, .1, 1, 5, 30}},
		[]string{"outcome"},
	)

	// PlanCacheRequests counts plan cache lookups by result (hit, miss, error).
	PlanCacheRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "plan_cache_requests_total", Help: "Trip plan cache lookups."},
		[]string{"result"},
	)

	// VehicleCommands counts commands sent to the vehicle by outcome (ack, nack, error).
	VehicleCommands = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "vehicle_commands_total", Help: "Vehicle commands sent by outcome."},
		[]string{"outcome"},
	)
)

var regOnce sync.Once

// RegisterDefault registers all collectors on Registry. Safe to call repeatedly.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(SearchNodes)
		Registry.MustRegister(SearchPruned)
		Registry.MustRegister(SearchDuration)
		Registry.MustRegister(PlanCacheRequests)
		Registry.MustRegister(VehicleCommands)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}
