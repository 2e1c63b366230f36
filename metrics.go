package usergrid

import (
	"github.com/apache/usergrid-sub013/results"
	"github.com/apache/usergrid-sub013/store"
	"github.com/prometheus/client_golang/prometheus"
)

var QueryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "usergrid",
	Subsystem: "executor",
	Name:      "query_duration_seconds",
	Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
}, []string{"plan", "result"})

var QueryPages = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "usergrid",
	Subsystem: "executor",
	Name:      "pages_total",
}, []string{"plan", "cursor"})

// RegisterMetrics registers every query engine metric with reg. s, if
// set, also gets its pebble engine collector registered.
func RegisterMetrics(reg prometheus.Registerer, s *store.Store) error {
	collectors := []prometheus.Collector{QueryDuration, QueryPages}
	collectors = append(collectors, results.Collectors()...)
	collectors = append(collectors, store.Collectors()...)
	if s != nil {
		collectors = append(collectors, store.NewPebbleCollector(s))
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
