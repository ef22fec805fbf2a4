package cache

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CacheHits tracks cache hits by hierarchy level
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecourts_cache_hits_total",
			Help: "Total number of hierarchy cache hits",
		},
		[]string{"level"}, // "states", "districts", "complexes", "courts"
	)

	// CacheMisses tracks cache misses
	CacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ecourts_cache_misses_total",
			Help: "Total number of hierarchy cache misses",
		},
	)

	// CacheErrors tracks cache operation errors
	CacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ecourts_cache_errors_total",
			Help: "Total number of cache operation errors",
		},
		[]string{"operation"}, // "get", "set", "delete"
	)
)
