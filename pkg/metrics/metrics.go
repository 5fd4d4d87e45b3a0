package metrics

import (
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the dedicated registry served at /api/metrics. A custom
// registry keeps the default global one out of our scrape output.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	// Buckets sized for request paths that include Mongo lookups and
	// outbound SMTP/HTTP calls.
	apiBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 3, 5, 8, 13, 21, 34, 55}

	// HTTP metrics
	HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: apiBuckets,
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	HTTPRequestTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_request_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"http_request_method", "http_route", "http_response_status_code"},
	)

	ActiveRequests = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "http_server_active_requests",
			Help: "Number of active HTTP requests",
		},
		[]string{"http_request_method"},
	)

	// Database metrics
	MongoOperationDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_client_operation_duration_seconds",
			Help:    "Mongo operation duration in seconds",
			Buckets: apiBuckets,
		},
		[]string{"collection", "operation", "status"},
	)

	// Cache metrics
	CacheHits = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_name"},
	)

	CacheMisses = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_name"},
	)

	// Domain metrics
	RequestsCreated = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nya_requests_created_total",
			Help: "Total connection requests created",
		},
		[]string{"type"},
	)

	RequestTransitions = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nya_request_transitions_total",
			Help: "Total request status transitions",
		},
		[]string{"type", "to_status"},
	)

	DiscoverySearches = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nya_discovery_searches_total",
			Help: "Total discovery queries",
		},
		[]string{"mode"},
	)

	EmailsSent = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nya_emails_sent_total",
			Help: "Total notification emails dispatched",
		},
		[]string{"template", "status"},
	)

	IdeaGenerations = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nya_idea_generations_total",
			Help: "Total capstone idea generation calls",
		},
		[]string{"status"},
	)

	AvatarUploads = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nya_avatar_uploads_total",
			Help: "Total avatar uploads",
		},
		[]string{"status"},
	)

	// Infrastructure metrics
	GoRoutines = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_goroutines",
			Help: "Number of goroutines",
		},
	)

	HeapAlloc = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "process_runtime_go_mem_heap_alloc_bytes",
			Help: "Heap allocated bytes",
		},
	)

	buildInfo = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "nya_build_info",
			Help: "Build information",
		},
		[]string{"service"},
	)
)

// Init registers runtime collectors and stamps the service label.
func Init(serviceName string) {
	Registry.MustRegister(collectors.NewGoCollector())
	buildInfo.WithLabelValues(serviceName).Set(1)
}

// RecordInfrastructureMetrics samples runtime gauges periodically.
func RecordInfrastructureMetrics() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		for range ticker.C {
			var m runtime.MemStats
			runtime.ReadMemStats(&m)

			GoRoutines.Set(float64(runtime.NumGoroutine()))
			HeapAlloc.Set(float64(m.HeapAlloc))
		}
	}()
}

// MeasureDuration measures the duration of an operation in seconds.
func MeasureDuration(start time.Time) float64 {
	return time.Since(start).Seconds()
}
