package results

import "github.com/prometheus/client_golang/prometheus"

var pagesLoaded = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "usergrid",
	Subsystem: "results",
	Name:      "pages_loaded_total",
	Help:      "Pages produced by result iterators",
}, []string{"kind"})

var parserRejects = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: "usergrid",
	Subsystem: "results",
	Name:      "parser_rejects_total",
	Help:      "Index entries dropped by slice parsers",
})

var shardDiscards = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: "usergrid",
	Subsystem: "results",
	Name:      "shard_discards_total",
	Help:      "Ids dropped for belonging to another bucket",
})

var orderByCandidates = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: "usergrid",
	Subsystem: "results",
	Name:      "order_by_candidates_total",
	Help:      "Entities loaded and ranked by order-by iterators",
})

var gatherFailures = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: "usergrid",
	Subsystem: "results",
	Name:      "gather_bucket_failures_total",
	Help:      "Bucket trees that failed during a gather pass",
})

func Collectors() []prometheus.Collector {
	return []prometheus.Collector{pagesLoaded, parserRejects, shardDiscards, orderByCandidates, gatherFailures}
}
