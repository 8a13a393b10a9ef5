// Package metrics registers the Prometheus instruments shared across
// handlers and the aggregator.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	TreemapBuilds        *prometheus.CounterVec
	TreemapBuildDuration prometheus.Histogram
	TreemapNodes         prometheus.Gauge
	ScheduleWrites       *prometheus.CounterVec
	ScheduleConflicts    prometheus.Counter
	SyncBatches          prometheus.Counter
	SyncEntriesApplied   prometheus.Counter
	RequestDuration      *prometheus.HistogramVec
}

// New creates and registers all metrics with the default registry.
func New() *Metrics {
	return newWith(prometheus.DefaultRegisterer)
}

// NewForTest registers against a private registry so parallel tests do
// not collide on metric names.
func NewForTest() *Metrics {
	return newWith(prometheus.NewRegistry())
}

func newWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		TreemapBuilds: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "muster_treemap_builds_total",
			Help: "Treemap builds by occupancy mode.",
		}, []string{"mode"}),
		TreemapBuildDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "muster_treemap_build_duration_seconds",
			Help:    "Wall time taken to build the status tree.",
			Buckets: prometheus.DefBuckets,
		}),
		TreemapNodes: factory.NewGauge(prometheus.GaugeOpts{
			Name: "muster_treemap_nodes",
			Help: "Node count of the most recently built tree.",
		}),
		ScheduleWrites: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "muster_schedule_writes_total",
			Help: "Schedule entry writes by operation and outcome.",
		}, []string{"op", "outcome"}),
		ScheduleConflicts: factory.NewCounter(prometheus.CounterOpts{
			Name: "muster_schedule_conflicts_total",
			Help: "Schedule writes rejected by the conflict detector.",
		}),
		SyncBatches: factory.NewCounter(prometheus.CounterOpts{
			Name: "muster_schedule_sync_batches_total",
			Help: "Bulk schedule sync batches consumed.",
		}),
		SyncEntriesApplied: factory.NewCounter(prometheus.CounterOpts{
			Name: "muster_schedule_sync_entries_applied_total",
			Help: "Entries applied from bulk sync batches.",
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "muster_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}
