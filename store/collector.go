package store

import (
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
)

// PebbleCollector exports engine metrics of the store's Pebble instance.
type PebbleCollector struct {
	db *pebble.DB

	compactionCount         *prometheus.Desc
	compactionEstimatedDebt *prometheus.Desc
	compactionInProgress    *prometheus.Desc

	memtableSize  *prometheus.Desc
	memtableCount *prometheus.Desc

	walFiles        *prometheus.Desc
	walSize         *prometheus.Desc
	walBytesWritten *prometheus.Desc

	blockCacheSize   *prometheus.Desc
	blockCacheHits   *prometheus.Desc
	blockCacheMisses *prometheus.Desc
}

func desc(name, help string) *prometheus.Desc {
	return prometheus.NewDesc("usergrid_pebble_"+name, help, nil, nil)
}

func NewPebbleCollector(s *Store) *PebbleCollector {
	return &PebbleCollector{
		db: s.DB(),

		compactionCount:         desc("compaction_count_total", "Total number of compactions performed"),
		compactionEstimatedDebt: desc("compaction_estimated_debt_bytes", "Estimated number of bytes that need to be compacted to reach a stable state"),
		compactionInProgress:    desc("compaction_in_progress_bytes", "Number of bytes being compacted currently"),

		memtableSize:  desc("memtable_size_bytes", "Current size of the memtable in bytes"),
		memtableCount: desc("memtable_count", "Current count of memtables"),

		walFiles:        desc("wal_files", "Number of live WAL files"),
		walSize:         desc("wal_size_bytes", "Size of live WAL data in bytes"),
		walBytesWritten: desc("wal_bytes_written_total", "Total physical bytes written to the WAL"),

		blockCacheSize:   desc("block_cache_size_bytes", "Bytes in use by the block cache"),
		blockCacheHits:   desc("block_cache_hits_total", "Block cache hits"),
		blockCacheMisses: desc("block_cache_misses_total", "Block cache misses"),
	}
}

func (pc *PebbleCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- pc.compactionCount
	ch <- pc.compactionEstimatedDebt
	ch <- pc.compactionInProgress

	ch <- pc.memtableSize
	ch <- pc.memtableCount

	ch <- pc.walFiles
	ch <- pc.walSize
	ch <- pc.walBytesWritten

	ch <- pc.blockCacheSize
	ch <- pc.blockCacheHits
	ch <- pc.blockCacheMisses
}

func (pc *PebbleCollector) Collect(ch chan<- prometheus.Metric) {
	m := pc.db.Metrics()
	emit := func(d *prometheus.Desc, t prometheus.ValueType, v float64) {
		ch <- prometheus.MustNewConstMetric(d, t, v)
	}

	emit(pc.compactionCount, prometheus.CounterValue, float64(m.Compact.Count))
	emit(pc.compactionEstimatedDebt, prometheus.GaugeValue, float64(m.Compact.EstimatedDebt))
	emit(pc.compactionInProgress, prometheus.GaugeValue, float64(m.Compact.InProgressBytes))

	emit(pc.memtableSize, prometheus.GaugeValue, float64(m.MemTable.Size))
	emit(pc.memtableCount, prometheus.GaugeValue, float64(m.MemTable.Count))

	emit(pc.walFiles, prometheus.GaugeValue, float64(m.WAL.Files))
	emit(pc.walSize, prometheus.GaugeValue, float64(m.WAL.Size))
	emit(pc.walBytesWritten, prometheus.CounterValue, float64(m.WAL.BytesWritten))

	emit(pc.blockCacheSize, prometheus.GaugeValue, float64(m.BlockCache.Size))
	emit(pc.blockCacheHits, prometheus.CounterValue, float64(m.BlockCache.Hits))
	emit(pc.blockCacheMisses, prometheus.CounterValue, float64(m.BlockCache.Misses))
}
