package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SnapshotOperations counts snapshot exports and restores by kind and result.
	SnapshotOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "teamtasks_snapshot_operations_total",
			Help: "Total number of snapshot export/restore operations",
		},
		[]string{"operation", "scope", "result"},
	)

	// RestoredRows counts rows written by snapshot restores, per table.
	RestoredRows = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "teamtasks_restored_rows_total",
			Help: "Total number of rows written by snapshot restores",
		},
		[]string{"table"},
	)

	// WorkloadQueries counts calendar workload aggregations by window kind.
	WorkloadQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "teamtasks_workload_queries_total",
			Help: "Total number of workload aggregation queries",
		},
		[]string{"window"},
	)

	// APILatency measures HTTP request latencies.
	APILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "teamtasks_api_latency_seconds",
			Help:    "API endpoint latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
