package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HierarchyBuilds = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hierarchy",
		Name:      "builds_total",
		Help:      "Hierarchy builds served, by record type.",
	}, []string{"type"})

	StoreQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hierarchy",
		Name:      "store_queries_total",
		Help:      "Queries issued against the record store, by operation.",
	}, []string{"operation"})

	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "hierarchy",
		Name:      "cache_lookups_total",
		Help:      "Cache lookups, by cache name and outcome.",
	}, []string{"cache", "outcome"})

	RecordsPerBuild = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "hierarchy",
		Name:      "records_per_build",
		Help:      "Member records regrouped per hierarchy build.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
	})
)

func CacheLookup(cache string, hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	CacheLookups.WithLabelValues(cache, outcome).Inc()
}
