package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Search engine Prometheus metrics.
var (
	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchkit",
			Name:      "queries_total",
			Help:      "Total number of search queries",
		},
		[]string{"status"}, // "ok" / "error" / "timeout"
	)

	QueryDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "searchkit",
			Name:      "query_duration_seconds",
			Help:      "Search query duration in seconds, cache hits included",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	QueryCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchkit",
			Name:      "query_cache_total",
			Help:      "Query cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	IndexingTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchkit",
			Name:      "indexing_total",
			Help:      "Total number of document mutations",
		},
		[]string{"op"}, // "upsert" / "delete"
	)
)

var registerSearchOnce sync.Once

// RegisterSearchMetrics registers search metrics plus a documents gauge read
// from documents at scrape time. Must be called once from main.
func RegisterSearchMetrics(documents func() float64) {
	registerSearchOnce.Do(func() {
		prometheus.MustRegister(QueriesTotal)
		prometheus.MustRegister(QueryDuration)
		prometheus.MustRegister(QueryCacheTotal)
		prometheus.MustRegister(IndexingTotal)
		if documents != nil {
			prometheus.MustRegister(prometheus.NewGaugeFunc(
				prometheus.GaugeOpts{
					Namespace: "searchkit",
					Name:      "documents",
					Help:      "Live documents across all tenants",
				},
				documents,
			))
		}
	})
}
