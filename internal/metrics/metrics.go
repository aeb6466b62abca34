package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the various metrics used for monitoring the application.
// It includes counters for repository operations and snapshot writes,
// a gauge with the current number of employees, and histograms for
// snapshot write and HTTP request durations.
type Metrics struct {
	Operations      *prometheus.CounterVec
	Employees       prometheus.Gauge
	SnapshotWrites  *prometheus.CounterVec
	SnapshotLatency prometheus.Histogram
	RestoreSkipped  prometheus.Counter
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance with the provided Registerer.
//
// Parameters:
//   - reg: A prometheus.Registerer used to register the metrics.
//
// Returns:
//   - A pointer to the newly created Metrics instance.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		Operations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "staffbook_repository_operations_total",
			Help: "Total repository operations by name and outcome.",
		}, []string{"operation", "status"}),
		Employees: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "staffbook_employees",
			Help: "Number of employees currently held in memory.",
		}),
		SnapshotWrites: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "staffbook_snapshot_writes_total",
			Help: "Total snapshot file writes, successful or not.",
		}, []string{"status"}),
		SnapshotLatency: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Name:    "staffbook_snapshot_write_duration_seconds",
			Help:    "Duration of full snapshot rewrites.",
			Buckets: prometheus.DefBuckets,
		}),
		RestoreSkipped: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "staffbook_restore_skipped_total",
			Help: "Snapshot records dropped during restore because they were invalid or duplicated.",
		}),
		Requests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "staffbook_http_requests_total",
			Help: "Total HTTP requests served by the API.",
		}, []string{"method", "route", "status"}),
		RequestDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "staffbook_http_request_duration_seconds",
			Help:    "Duration of HTTP requests served by the API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	metrics.SnapshotWrites.WithLabelValues("success")
	metrics.SnapshotWrites.WithLabelValues("failure")

	return metrics
}
