package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// trial search pipeline.
type Metrics struct {
	SearchesTotal  *prometheus.CounterVec // labels: outcome={success,invalid,upstream_error,error}
	SearchDuration prometheus.Histogram
	SearchCache    *prometheus.CounterVec // labels: result={hit,miss}
	StudiesSkipped prometheus.Counter

	// Registry metrics.
	RegistryRequests *prometheus.CounterVec // labels: outcome={success,error}
	RegistryDuration prometheus.Histogram

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec // labels: source={provider,offline}, outcome={success,error}
	GeocodeCache       *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeAPIDuration prometheus.Histogram
	GeocodeWait        prometheus.Histogram
	GeocodeEnabled     prometheus.Gauge
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		SearchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trial_search",
			Name:      "searches_total",
			Help:      "Completed searches by outcome.",
		}, []string{"outcome"}),
		SearchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "trial_search",
			Name:      "search_duration_seconds",
			Help:      "End-to-end duration of a search, including enrichment.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		SearchCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trial_search",
			Name:      "search_cache_total",
			Help:      "Search result cache lookups by result.",
		}, []string{"result"}),
		StudiesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "trial_search",
			Name:      "studies_skipped_total",
			Help:      "Studies dropped because their fields failed to normalize.",
		}),
		RegistryRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trial_search",
			Name:      "registry_requests_total",
			Help:      "Trial registry API requests by outcome.",
		}, []string{"outcome"}),
		RegistryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "trial_search",
			Name:      "registry_request_duration_seconds",
			Help:      "Trial registry request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trial_search",
			Name:      "geocode_requests_total",
			Help:      "Geocoding resolutions by source and outcome.",
		}, []string{"source", "outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trial_search",
			Name:      "geocode_cache_total",
			Help:      "Geocode cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "trial_search",
			Name:      "geocode_api_duration_seconds",
			Help:      "Geocoding provider request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		GeocodeWait: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "trial_search",
			Name:      "geocode_rate_limit_wait_seconds",
			Help:      "Time spent waiting on the geocode rate limiter.",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
		}),
		GeocodeEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "trial_search",
			Name:      "geocode_provider_enabled",
			Help:      "1 when the external geocoding provider is configured, 0 in offline-only mode.",
		}),
	}

	prometheus.MustRegister(
		m.SearchesTotal,
		m.SearchDuration,
		m.SearchCache,
		m.StudiesSkipped,
		m.RegistryRequests,
		m.RegistryDuration,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.GeocodeWait,
		m.GeocodeEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		SearchesTotal:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "trial_search", Name: "searches_total"}, []string{"outcome"}),
		SearchDuration:     prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "trial_search", Name: "search_duration_seconds"}),
		SearchCache:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "trial_search", Name: "search_cache_total"}, []string{"result"}),
		StudiesSkipped:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "trial_search", Name: "studies_skipped_total"}),
		RegistryRequests:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "trial_search", Name: "registry_requests_total"}, []string{"outcome"}),
		RegistryDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "trial_search", Name: "registry_request_duration_seconds"}),
		GeocodeRequests:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "trial_search", Name: "geocode_requests_total"}, []string{"source", "outcome"}),
		GeocodeCache:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "trial_search", Name: "geocode_cache_total"}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "trial_search", Name: "geocode_api_duration_seconds"}),
		GeocodeWait:        prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "trial_search", Name: "geocode_rate_limit_wait_seconds"}),
		GeocodeEnabled:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "trial_search", Name: "geocode_provider_enabled"}),
	}
}
