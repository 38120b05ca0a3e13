package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the fetch core's metric instruments.
// Make fields public so they can be accessed from other packages.
type AppMetrics struct {
	CacheHitsTotal           metric.Int64Counter
	CacheMissesTotal         metric.Int64Counter
	UpstreamRequestsTotal    metric.Int64Counter
	UpstreamErrorsTotal      metric.Int64Counter
	UpstreamDurationSeconds  metric.Float64Histogram
	RetriesTotal             metric.Int64Counter
	RateLimitRejectionsTotal metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider; with no
// provider configured the instruments are no-ops, which keeps tests cheap.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("go-trip-planner")
		var err error
		m := &AppMetrics{}

		m.CacheHitsTotal, err = meter.Int64Counter(
			"fetch_cache_hits_total",
			metric.WithDescription("Total number of fetch cache hits"),
			metric.WithUnit("{hit}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create fetch_cache_hits_total: %v", err)
		}

		m.CacheMissesTotal, err = meter.Int64Counter(
			"fetch_cache_misses_total",
			metric.WithDescription("Total number of fetch cache misses"),
			metric.WithUnit("{miss}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create fetch_cache_misses_total: %v", err)
		}

		m.UpstreamRequestsTotal, err = meter.Int64Counter(
			"upstream_requests_total",
			metric.WithDescription("Total number of outbound upstream requests"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create upstream_requests_total: %v", err)
		}

		m.UpstreamErrorsTotal, err = meter.Int64Counter(
			"upstream_errors_total",
			metric.WithDescription("Total number of failed upstream requests"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create upstream_errors_total: %v", err)
		}

		m.UpstreamDurationSeconds, err = meter.Float64Histogram(
			"upstream_request_duration_seconds",
			metric.WithDescription("Duration of upstream requests in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create upstream_request_duration_seconds: %v", err)
		}

		m.RetriesTotal, err = meter.Int64Counter(
			"upstream_retries_total",
			metric.WithDescription("Total number of upstream retry attempts"),
			metric.WithUnit("{retry}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create upstream_retries_total: %v", err)
		}

		m.RateLimitRejectionsTotal, err = meter.Int64Counter(
			"rate_limit_rejections_total",
			metric.WithDescription("Total number of calls rejected by the rate governor"),
			metric.WithUnit("{rejection}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create rate_limit_rejections_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance, initializing
// lazily on first use.
func Get() *AppMetrics {
	InitAppMetrics()
	return appMetrics
}
