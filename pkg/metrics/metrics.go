// Package metrics defines the Prometheus collectors for the engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collectors are package globals registered through promauto, so any component
// can record without plumbing a registry through constructors.
var (
	// SearchesTotal counts search requests by outcome ("ok" or "error").
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oshiete_searches_total",
			Help: "Total number of search requests processed",
		},
		[]string{"status"},
	)

	// SearchDuration measures end-to-end search latency. Buckets span cache-hit
	// lookups (sub-millisecond) to remote-embedding queries (seconds).
	SearchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "oshiete_search_duration_seconds",
			Help:    "Duration of search requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		},
	)

	// EmbeddingRequestsTotal counts calls to the embedding provider by
	// provider name and outcome.
	EmbeddingRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "oshiete_embedding_requests_total",
			Help: "Total number of embedding provider calls",
		},
		[]string{"provider", "status"},
	)

	// EmbeddingCacheHits and EmbeddingCacheMisses track the embedding cache.
	EmbeddingCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "oshiete_embedding_cache_hits_total",
			Help: "Embedding cache hits",
		},
	)
	EmbeddingCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "oshiete_embedding_cache_misses_total",
			Help: "Embedding cache misses",
		},
	)

	// ArticlesIndexed tracks the number of articles currently indexed.
	ArticlesIndexed = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "oshiete_articles_indexed",
			Help: "Number of articles currently in the store",
		},
	)

	// BreakerState reports circuit breaker state by breaker name
	// (0 closed, 1 half-open, 2 open).
	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "oshiete_breaker_state",
			Help: "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
		[]string{"name"},
	)
)
