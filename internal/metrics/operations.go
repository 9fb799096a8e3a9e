package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"fsbridge/internal/fileops"
)

// Operation metrics
var (
	// OperationsTotal counts finished operations by verb and outcome
	OperationsTotal *prometheus.CounterVec

	// BlockedTotal counts policy refusals by verb
	BlockedTotal *prometheus.CounterVec

	// BytesCopiedTotal tracks bytes written by cp and mv
	BytesCopiedTotal prometheus.Counter

	// BytesRemovedTotal tracks bytes reclaimed by rm
	BytesRemovedTotal prometheus.Counter

	// OperationDuration tracks how long operations take
	OperationDuration prometheus.Histogram

	// LastOperationTimestamp records Unix timestamp of the last operation
	LastOperationTimestamp prometheus.Gauge
)

func initOperationMetrics() {
	OperationsTotal = NewCounterVec(
		"fsbridge_operations_total",
		"Total file operations by verb and outcome.",
		[]string{"verb", "outcome"},
	)

	BlockedTotal = NewCounterVec(
		"fsbridge_blocked_total",
		"Total operations refused by the confirmation gate, by verb.",
		[]string{"verb"},
	)

	BytesCopiedTotal = NewBytesCounter(
		"fsbridge_bytes_copied_total",
		"Total bytes written by copy and move operations.",
	)

	BytesRemovedTotal = NewBytesCounter(
		"fsbridge_bytes_removed_total",
		"Total bytes reclaimed by remove operations.",
	)

	OperationDuration = NewDurationHistogram(
		"fsbridge_operation_duration_seconds",
		"Duration of file operations in seconds.",
	)

	LastOperationTimestamp = NewGauge(
		"fsbridge_last_operation_timestamp",
		"Timestamp of the last operation (Unix epoch seconds).",
	)
}

func registerOperationMetrics() {
	prometheus.MustRegister(
		OperationsTotal,
		BlockedTotal,
		BytesCopiedTotal,
		BytesRemovedTotal,
		OperationDuration,
		LastOperationTimestamp,
	)
}

// RecordOperation updates every operation metric from one result.
// No-op until Init has run.
func RecordOperation(res fileops.Result) {
	if OperationsTotal == nil {
		return
	}

	OperationsTotal.WithLabelValues(string(res.Verb), string(res.Outcome)).Inc()
	OperationDuration.Observe(res.Duration.Seconds())
	LastOperationTimestamp.Set(float64(time.Now().Unix()))

	if res.Outcome == fileops.OutcomeBlocked {
		BlockedTotal.WithLabelValues(string(res.Verb)).Inc()
	}

	if res.Outcome != fileops.OutcomeSuccess || res.DryRun {
		return
	}
	switch res.Verb {
	case fileops.VerbCp, fileops.VerbMv:
		BytesCopiedTotal.Add(float64(res.Bytes))
	case fileops.VerbRm:
		BytesRemovedTotal.Add(float64(res.Bytes))
	}
}
