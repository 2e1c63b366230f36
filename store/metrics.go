package store

import "github.com/prometheus/client_golang/prometheus"

var scanPages = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: "usergrid",
	Subsystem: "store",
	Name:      "scan_pages_total",
	Help:      "Physical index pages read by range scanners",
})

var entityLoads = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: "usergrid",
	Subsystem: "store",
	Name:      "entity_field_loads_total",
	Help:      "Entity field reads",
})

var geoCellScans = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: "usergrid",
	Subsystem: "store",
	Name:      "geo_cell_scans_total",
	Help:      "Geocell prefixes scanned by proximity searches",
})

// Collectors lists the package metrics for registration.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{scanPages, entityLoads, geoCellScans}
}
