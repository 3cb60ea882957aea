package engine

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is the latency collector and counter set spec §6 names
// ("Latency collector: collect(seconds) -> Histogram sink") and §2's
// component table implies for lookup/get/TxW/cache accounting.
// Promoted from an unused transitive dependency in the teacher's
// go.mod to a direct, exercised one — the teacher itself never
// instruments the storage engine, but prometheus/client_golang is
// already in the dependency graph pulled in by cockroachdb/errors'
// sibling packages, so wiring it here keeps the stack real rather
// than hand-rolled.
type Metrics struct {
	Lookups     *prometheus.CounterVec
	Gets        *prometheus.CounterVec
	TxWHits     *prometheus.CounterVec
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec
	Latency     *prometheus.HistogramVec
	Restarts    *prometheus.CounterVec
	TooLong     *prometheus.CounterVec
}

// NewMetrics registers a fresh metric set against reg. Pass
// prometheus.NewRegistry() in production code and a throwaway
// registry in tests to avoid collisions across parallel test cases.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lookup_index_lookups_total",
			Help: "Total point_lookup calls per index.",
		}, []string{"index"}),
		Gets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lookup_index_gets_total",
			Help: "Total successful materializations (non-absent results) per index.",
		}, []string{"index"}),
		TxWHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lookup_txw_hits_total",
			Help: "Total lookups resolved entirely from the transaction write set.",
		}, []string{"index"}),
		CacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lookup_cache_hits_total",
			Help: "Total cache scanner hits.",
		}, []string{"index"}),
		CacheMisses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lookup_cache_misses_total",
			Help: "Total cache scanner misses.",
		}, []string{"index"}),
		Latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lookup_latency_seconds",
			Help:    "point_lookup latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"index"}),
		Restarts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lookup_restarts_total",
			Help: "Total restarts triggered by a mem_list_version change during a slice scan.",
		}, []string{"index"}),
		TooLong: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lookup_too_long_total",
			Help: "Total lookups exceeding the index's configured too-long latency threshold.",
		}, []string{"index"}),
	}

	reg.MustRegister(m.Lookups, m.Gets, m.TxWHits, m.CacheHits, m.CacheMisses, m.Latency, m.Restarts, m.TooLong)
	return m
}
