package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AnalysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tunecast_analyses_total",
		Help: "Completed track analyses by model variant.",
	}, []string{"variant"})

	AnalysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tunecast_analysis_duration_seconds",
		Help:    "Wall time of one full analysis (simulate, forecast, smooth, analyze).",
		Buckets: prometheus.DefBuckets,
	})

	AnalysisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tunecast_analysis_errors_total",
		Help: "Failed analyses by reason.",
	}, []string{"reason"})

	CatalogSearches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tunecast_catalog_searches_total",
		Help: "Catalog search requests proxied to the iTunes Search API.",
	})

	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tunecast_track_cache_hits_total",
		Help: "Track cache lookups that found an entry.",
	})

	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tunecast_track_cache_misses_total",
		Help: "Track cache lookups that found nothing.",
	})
)
