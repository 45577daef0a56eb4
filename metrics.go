package checkmango

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Error type labels recorded by MetricsCollector.RecordError.
const (
	errorTypeTransport = "transport"
	errorTypeAPI       = "api"
	errorTypeDecode    = "decode"
)

// MetricsCollector provides Prometheus metrics for API calls. Series are
// labelled by operation name (for example "experiments.list"), never by the
// concrete URL. It is safe for concurrent use.
type MetricsCollector struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight *prometheus.GaugeVec

	errorsTotal *prometheus.CounterVec

	registry prometheus.Registerer
}

var (
	defaultMetricsOnce sync.Once
	defaultMetrics     *MetricsCollector
)

// NewMetricsCollector returns the collector registered on the default
// registerer. It is created on first use and shared afterwards.
func NewMetricsCollector() *MetricsCollector {
	defaultMetricsOnce.Do(func() {
		defaultMetrics = NewMetricsCollectorWithRegistry(prometheus.DefaultRegisterer)
	})
	return defaultMetrics
}

// NewMetricsCollectorWithRegistry creates a collector using supplied registerer.
// It panics if the registerer already holds the checkmango metrics.
func NewMetricsCollectorWithRegistry(registry prometheus.Registerer) *MetricsCollector {
	mc := &MetricsCollector{
		requestsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "checkmango_requests_total",
				Help: "Total number of Checkmango API requests made",
			},
			[]string{"operation", "method", "status_code"},
		),
		requestDuration: promauto.With(registry).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "checkmango_request_duration_seconds",
				Help:    "Duration of Checkmango API requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "method", "status_code"},
		),
		requestsInFlight: promauto.With(registry).NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "checkmango_requests_in_flight",
				Help: "Number of Checkmango API requests currently in flight",
			},
			[]string{"operation", "method"},
		),
		errorsTotal: promauto.With(registry).NewCounterVec(
			prometheus.CounterOpts{
				Name: "checkmango_errors_total",
				Help: "Total number of failed Checkmango API calls by failure type",
			},
			[]string{"type", "operation", "method"},
		),
		registry: registry,
	}

	return mc
}

// RecordRequest records request count and duration. statusCode is 0 when
// no response was received.
func (mc *MetricsCollector) RecordRequest(operation, method string, statusCode int, duration time.Duration) {
	if mc == nil {
		return
	}

	statusCodeStr := strconv.Itoa(statusCode)
	mc.requestsTotal.WithLabelValues(operation, method, statusCodeStr).Inc()
	mc.requestDuration.WithLabelValues(operation, method, statusCodeStr).Observe(duration.Seconds())
}

// RecordRequestStart increments in-flight gauge.
func (mc *MetricsCollector) RecordRequestStart(operation, method string) {
	if mc == nil {
		return
	}

	mc.requestsInFlight.WithLabelValues(operation, method).Inc()
}

// RecordRequestEnd decrements in-flight gauge.
func (mc *MetricsCollector) RecordRequestEnd(operation, method string) {
	if mc == nil {
		return
	}

	mc.requestsInFlight.WithLabelValues(operation, method).Dec()
}

// RecordError increments error counter by type.
func (mc *MetricsCollector) RecordError(errorType, operation, method string) {
	if mc == nil {
		return
	}

	mc.errorsTotal.WithLabelValues(errorType, operation, method).Inc()
}

// Registerer exposes the registerer the collectors were registered with.
func (mc *MetricsCollector) Registerer() prometheus.Registerer {
	return mc.registry
}
