package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorderCounts(t *testing.T) {
	r := New()
	r.TransactionAdded("income")
	r.TransactionAdded("expense")
	r.TransactionAdded("expense")
	r.TransactionDeleted()
	r.SaveFailed()
	r.LoadRecovered("corrupt")
	r.SetStored(7)

	if got := testutil.ToFloat64(r.added.WithLabelValues("expense")); got != 2 {
		t.Fatalf("expected 2 expenses added, got %v", got)
	}
	if got := testutil.ToFloat64(r.saveFailures); got != 1 {
		t.Fatalf("expected 1 save failure, got %v", got)
	}
	if got := testutil.ToFloat64(r.stored); got != 7 {
		t.Fatalf("expected gauge 7, got %v", got)
	}

	expected := `
# HELP fintrack_persistence_save_failures_total Failed writes of the transaction collection.
# TYPE fintrack_persistence_save_failures_total counter
fintrack_persistence_save_failures_total 1
`
	if err := testutil.GatherAndCompare(r.Registry(), strings.NewReader(expected), "fintrack_persistence_save_failures_total"); err != nil {
		t.Fatalf("unexpected exposition: %v", err)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var r *Recorder
	r.TransactionAdded("income")
	r.TransactionDeleted()
	r.SaveFailed()
	r.LoadRecovered("read_error")
	r.SetStored(1)
	r.CacheHit()
	r.CacheMiss()
	if r.Registry() != nil {
		t.Fatal("nil recorder should have no registry")
	}
}
