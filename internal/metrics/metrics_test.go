package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"fsbridge/internal/fileops"
)

// TestInit verifies that Init() is idempotent and registers metrics
func TestInit(t *testing.T) {
	// Call Init multiple times - should be idempotent via sync.Once
	Init()
	Init()
	Init()

	if OperationsTotal == nil {
		t.Error("OperationsTotal should be initialized")
	}
	if BlockedTotal == nil {
		t.Error("BlockedTotal should be initialized")
	}
	if BytesCopiedTotal == nil {
		t.Error("BytesCopiedTotal should be initialized")
	}
	if BytesRemovedTotal == nil {
		t.Error("BytesRemovedTotal should be initialized")
	}
	if OperationDuration == nil {
		t.Error("OperationDuration should be initialized")
	}
	if LastOperationTimestamp == nil {
		t.Error("LastOperationTimestamp should be initialized")
	}

	mfs, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Failed to gather metrics: %v", err)
	}

	expectedMetrics := []string{
		"fsbridge_bytes_copied_total",
		"fsbridge_bytes_removed_total",
		"fsbridge_operation_duration_seconds",
		"fsbridge_last_operation_timestamp",
	}

	foundMetrics := make(map[string]bool)
	for _, mf := range mfs {
		foundMetrics[*mf.Name] = true
	}

	for _, expected := range expectedMetrics {
		if !foundMetrics[expected] {
			t.Errorf("Expected metric %s not found in registry", expected)
		}
	}
}

// TestRecordOperation verifies counter updates from a result
func TestRecordOperation(t *testing.T) {
	Init()

	beforeCopied := testutil.ToFloat64(BytesCopiedTotal)
	beforeRemoved := testutil.ToFloat64(BytesRemovedTotal)

	RecordOperation(fileops.Result{
		Verb:     fileops.VerbCp,
		Outcome:  fileops.OutcomeSuccess,
		Bytes:    4096,
		Duration: 50 * time.Millisecond,
	})
	RecordOperation(fileops.Result{
		Verb:     fileops.VerbRm,
		Outcome:  fileops.OutcomeSuccess,
		Bytes:    1000,
		Duration: 5 * time.Millisecond,
	})

	if got := testutil.ToFloat64(BytesCopiedTotal) - beforeCopied; got != 4096 {
		t.Errorf("BytesCopiedTotal delta = %v, expected 4096", got)
	}
	if got := testutil.ToFloat64(BytesRemovedTotal) - beforeRemoved; got != 1000 {
		t.Errorf("BytesRemovedTotal delta = %v, expected 1000", got)
	}
}

// TestRecordBlocked verifies blocked operations count separately
func TestRecordBlocked(t *testing.T) {
	Init()

	before := testutil.ToFloat64(BlockedTotal.WithLabelValues("rm"))

	RecordOperation(fileops.Result{
		Verb:    fileops.VerbRm,
		Outcome: fileops.OutcomeBlocked,
		Bytes:   500,
	})

	if got := testutil.ToFloat64(BlockedTotal.WithLabelValues("rm")) - before; got != 1 {
		t.Errorf("BlockedTotal delta = %v, expected 1", got)
	}
}

// TestRecordDryRunSkipsBytes verifies dry runs never move byte counters
func TestRecordDryRunSkipsBytes(t *testing.T) {
	Init()

	before := testutil.ToFloat64(BytesRemovedTotal)

	RecordOperation(fileops.Result{
		Verb:    fileops.VerbRm,
		Outcome: fileops.OutcomeSuccess,
		Bytes:   8192,
		DryRun:  true,
	})

	if got := testutil.ToFloat64(BytesRemovedTotal) - before; got != 0 {
		t.Errorf("BytesRemovedTotal delta = %v, expected 0 for dry run", got)
	}
}
