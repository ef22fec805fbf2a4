// Package metrics provides the centralized Prometheus metrics registry
// for the ecourts scraper. All metrics are defined in their respective
// packages (scraper, cache, download, archive) to maintain modularity
// and avoid circular dependencies.
//
// This package provides documentation and reference for all available metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry is the default Prometheus registry used by the server.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

// Metrics Documentation
//
// Portal Metrics (pkg/scraper):
//   - ecourts_portal_requests_total{endpoint, status} (Counter): Portal requests by endpoint and HTTP status
//   - ecourts_portal_request_duration_seconds{endpoint} (Histogram): Portal request duration by endpoint
//   - ecourts_portal_errors_total{error_class} (Counter): Portal errors by class (client, server, network, not_found)
//   - ecourts_portal_retries_total (Counter): Retried portal requests
//   - ecourts_causelist_download_bytes (Histogram): Size of downloaded cause list files
//
// Cache Metrics (pkg/cache):
//   - ecourts_cache_hits_total{level} (Counter): Cache hits by hierarchy level
//   - ecourts_cache_misses_total (Counter): Cache misses
//   - ecourts_cache_errors_total{operation} (Counter): Cache operation errors
//
// Download Metrics (pkg/download):
//   - ecourts_downloads_total{status} (Counter): Cause list downloads by outcome
//   - ecourts_bulk_downloads_total{status} (Counter): Bulk runs by outcome (success, failure, empty)
//   - ecourts_bulk_download_duration_seconds (Histogram): Bulk run duration
//   - ecourts_active_sessions (Gauge): Sessions currently in progress
//
// Archive Metrics (pkg/archive):
//   - ecourts_archives_created_total{outcome} (Counter): Zip archives built by outcome
//   - ecourts_archive_bytes (Histogram): Size of built zip archives
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(ecourts_cache_hits_total[5m])) /
//   (sum(rate(ecourts_cache_hits_total[5m])) + sum(rate(ecourts_cache_misses_total[5m])))
//
//   # Download Failure Rate
//   rate(ecourts_downloads_total{status="failure"}[5m]) /
//   rate(ecourts_downloads_total[5m])
//
//   # P95 Portal Latency
//   histogram_quantile(0.95, rate(ecourts_portal_request_duration_seconds_bucket[5m]))
//
//   # Sessions In Flight
//   ecourts_active_sessions
