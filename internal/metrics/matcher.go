package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Matcher, model and artifact Prometheus metrics.
var (
	MatchQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jobmatch",
			Name:      "match_queries_total",
			Help:      "Total number of match queries by outcome",
		},
		[]string{"status"}, // ok / empty_query / no_results / not_loaded / error
	)

	MatchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "jobmatch",
			Name:      "match_duration_seconds",
			Help:      "Time spent scoring and ranking a query",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	MatchCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jobmatch",
			Name:      "match_cache_total",
			Help:      "Match result cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	ModelDocuments = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "jobmatch",
			Name:      "model_documents",
			Help:      "Number of job records in the serving model",
		},
	)

	ModelTerms = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "jobmatch",
			Name:      "model_vocabulary_terms",
			Help:      "Vocabulary size of the serving model",
		},
	)

	ModelReloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jobmatch",
			Name:      "model_reloads_total",
			Help:      "Model reload attempts by outcome",
		},
		[]string{"status"}, // ok / error
	)

	ArtifactDownloadBytes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "jobmatch",
			Name:      "artifact_download_bytes_total",
			Help:      "Bytes downloaded while provisioning artifacts",
		},
	)
)

var registerMatchOnce sync.Once

// RegisterMatchMetrics registers matcher and model metrics. Safe to call more than once.
func RegisterMatchMetrics() {
	registerMatchOnce.Do(func() {
		prometheus.MustRegister(
			MatchQueriesTotal,
			MatchDuration,
			MatchCacheTotal,
			ModelDocuments,
			ModelTerms,
			ModelReloadsTotal,
			ArtifactDownloadBytes,
		)
	})
}
