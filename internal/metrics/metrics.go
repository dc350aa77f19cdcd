package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	// HTTP Metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPRequestSize     *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// Geolocation provider metrics
	ProviderLookupsTotal   *prometheus.CounterVec
	ProviderLookupDuration *prometheus.HistogramVec
	ProviderFallbacksTotal prometheus.Counter

	// Storefront metrics
	StorefrontResolutionsTotal *prometheus.CounterVec
	MappingQueriesTotal        *prometheus.CounterVec
}

// New creates all metrics and registers them with the default registry.
// Call it once per process.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the metrics with reg (tests pass a fresh prometheus.NewRegistry())
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint", "status"},
		),

		HTTPRequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 7),
			},
			[]string{"method", "endpoint"},
		),

		HTTPResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 7),
			},
			[]string{"method", "endpoint", "status"},
		),

		// result: success, no_data, upstream_unavailable, invalid_provider
		ProviderLookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "geolocate_provider_lookups_total",
				Help: "Total number of geolocation provider calls by provider and result",
			},
			[]string{"provider", "result"},
		),

		ProviderLookupDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "geolocate_provider_lookup_duration_seconds",
				Help:    "Geolocation provider call latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"provider"},
		),

		ProviderFallbacksTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "geolocate_provider_fallbacks_total",
				Help: "Total number of times the secondary provider was tried after the primary failed",
			},
		),

		// outcome: mapped, default_no_code, default_unavailable, default_mapping_error, default_untrusted
		StorefrontResolutionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_resolutions_total",
				Help: "Total number of storefront resolutions by outcome",
			},
			[]string{"outcome"},
		),

		MappingQueriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_mapping_queries_total",
				Help: "Total number of country to storefront mapping queries by result",
			},
			[]string{"result"},
		),
	}
}
