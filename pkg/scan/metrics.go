package scan

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors updated by a Scanner.
type Metrics struct {
	ClassesScanned prometheus.Counter
	FilesFailed    *prometheus.CounterVec
	Usages         *prometheus.CounterVec
	CacheHits      prometheus.Counter
	ScanDuration   prometheus.Histogram
}

// NewMetrics registers scan metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ClassesScanned: f.NewCounter(prometheus.CounterOpts{
			Namespace: "apiwatch",
			Subsystem: "scan",
			Name:      "classes_total",
			Help:      "Class files parsed and checked",
		}),
		FilesFailed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "apiwatch",
			Subsystem: "scan",
			Name:      "failures_total",
			Help:      "Class files or archives that could not be scanned",
		}, []string{"reason"}),
		Usages: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "apiwatch",
			Subsystem: "scan",
			Name:      "usages_total",
			Help:      "Usages of tracked symbols found",
		}, []string{"kind"}),
		CacheHits: f.NewCounter(prometheus.CounterOpts{
			Namespace: "apiwatch",
			Subsystem: "scan",
			Name:      "cache_hits_total",
			Help:      "Class files answered from the content cache",
		}),
		ScanDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: "apiwatch",
			Subsystem: "scan",
			Name:      "duration_seconds",
			Help:      "Wall time of a full scan",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}),
	}
}
