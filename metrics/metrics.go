package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var namespace = "logcask"
var subsystem = "cask"

var (
	// ReplaySeconds stores how long the open-time log replay took (in seconds)
	ReplaySeconds = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "replay_seconds",
			Help:      "Seconds taken by the open-time log replay",
		},
	)

	// WritesTotal stores the number of accepted set operations
	WritesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "writes_total",
		Help:      "Number of set operations durably appended to the log",
	})

	// ReadsTotal stores the number of get operations that returned a value
	ReadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "reads_total",
		Help:      "Number of get operations that returned a value",
	})

	// ReadMissesTotal stores the number of get operations for absent keys
	ReadMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "read_misses_total",
		Help:      "Number of get operations for keys absent from the index",
	})

	// RemovesTotal stores the number of tombstones appended to the log
	RemovesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "removes_total",
		Help:      "Number of remove operations durably appended to the log",
	})

	// CompactionsTotal stores the number of completed compactions
	CompactionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "compactions_total",
		Help:      "Number of completed log compactions",
	})

	// CompactionDuration stores the time spent per compaction
	CompactionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "compaction_duration_seconds",
		Help:      "Time spent rewriting and swapping the log per compaction",
	})

	// LiveBytes stores the byte count currently referenced by the index
	LiveBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "live_bytes",
		Help:      "Sum of record lengths currently referenced by the index",
	})

	// UncompactedBytes stores the stale-byte count compared against the compaction threshold
	UncompactedBytes = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      "uncompacted_bytes",
		Help:      "Bytes in the log no longer referenced by the index",
	})
)
