package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters are partitioned by data kind (balances, eth_balance, prices,
// metadata, transfers) so cache effectiveness per upstream API is visible on
// /metrics.

var (
	CacheRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ethmonitor",
		Subsystem: "cache",
		Name:      "requests_total",
		Help:      "Total reads through the cached API facade",
	}, []string{"kind"})

	UpstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ethmonitor",
		Subsystem: "upstream",
		Name:      "requests_total",
		Help:      "Total cache misses that reached the Alchemy APIs",
	}, []string{"kind"})

	UpstreamErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ethmonitor",
		Subsystem: "upstream",
		Name:      "errors_total",
		Help:      "Total failed Alchemy API calls",
	}, []string{"kind"})

	EnrichmentDroppedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "ethmonitor",
		Subsystem: "enrichment",
		Name:      "dropped_items_total",
		Help:      "Items dropped from a pipeline result (per-item failure or timeout)",
	}, []string{"pipeline", "reason"})

	AnalysesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "ethmonitor",
		Subsystem: "analyzer",
		Name:      "analyses_total",
		Help:      "Total completed wallet analyses",
	})
)
