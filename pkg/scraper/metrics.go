package scraper

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts portal requests by endpoint and status.
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ecourts_portal_requests_total",
		Help: "Total number of requests sent to the ecourts portal",
	}, []string{"endpoint", "status"})

	// RequestDuration tracks portal request latency by endpoint.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ecourts_portal_request_duration_seconds",
		Help:    "Duration of ecourts portal requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	// ErrorsTotal counts portal errors by classification.
	ErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ecourts_portal_errors_total",
		Help: "Total number of portal errors by error class",
	}, []string{"error_class"})

	// RetriesTotal counts retried portal requests.
	RetriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ecourts_portal_retries_total",
		Help: "Total number of retried portal requests",
	})

	// DownloadBytes tracks the size of downloaded cause list files.
	DownloadBytes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ecourts_causelist_download_bytes",
		Help:    "Size of downloaded cause list files in bytes",
		Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
	})
)
