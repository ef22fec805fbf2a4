package download

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DownloadsTotal counts individual cause list downloads by outcome.
	DownloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ecourts_downloads_total",
		Help: "Total number of cause list downloads by outcome",
	}, []string{"status"})

	// BulkDownloadsTotal counts bulk runs by outcome.
	BulkDownloadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ecourts_bulk_downloads_total",
		Help: "Total number of bulk download runs by outcome",
	}, []string{"status"})

	// BulkDownloadDuration tracks bulk run duration.
	BulkDownloadDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ecourts_bulk_download_duration_seconds",
		Help:    "Duration of bulk download runs in seconds",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
	})

	// ActiveSessions tracks sessions currently starting or running.
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ecourts_active_sessions",
		Help: "Number of bulk download sessions currently in progress",
	})
)
