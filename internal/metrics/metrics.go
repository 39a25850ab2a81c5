// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conf_events_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "conf_events_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// Aggregate run metrics
	AggregateRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "conf_events_aggregate_runs_total",
			Help: "Total number of aggregate runs by outcome",
		},
		[]string{"status"},
	)

	AggregateDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "conf_events_aggregate_duration_seconds",
			Help:    "Duration of a full aggregate run in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
	)

	CrawlDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "conf_events_crawl_duration_seconds",
			Help:    "Duration of one source crawl in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60},
		},
		[]string{"source"},
	)

	EventsCollected = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "conf_events_events_collected",
			Help: "Number of events returned by the last aggregate run per source",
		},
		[]string{"source"},
	)

	ApplicationInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "conf_events_application_info",
			Help: "Application information",
		},
		[]string{"version"},
	)
)

// Init records static application information
func Init(version string) {
	ApplicationInfo.WithLabelValues(version).Set(1)
}
