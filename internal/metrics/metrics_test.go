package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.IncrementOutcome("record", "ok")
	m.IncrementOutcome("record", "ok")
	m.IncrementOutcome("repo", "NoHostFound")
	m.ObserveStageLatency("resolve", 120*time.Millisecond)
	m.ObservePassLatency(300 * time.Millisecond)

	if got := testutil.ToFloat64(m.PassOutcome.WithLabelValues("record", "ok")); got != 2 {
		t.Errorf("record/ok = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.PassOutcome.WithLabelValues("repo", "NoHostFound")); got != 1 {
		t.Errorf("repo/NoHostFound = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(m.StageLatency); got != 1 {
		t.Errorf("stage series = %d, want 1", got)
	}
}

func TestMetrics_InFlight(t *testing.T) {
	m := New(prometheus.NewRegistry())

	done := m.PassStarted()
	if got := testutil.ToFloat64(m.InFlight); got != 1 {
		t.Errorf("in flight = %v, want 1", got)
	}
	done()
	if got := testutil.ToFloat64(m.InFlight); got != 0 {
		t.Errorf("in flight = %v, want 0", got)
	}
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics

	m.IncrementOutcome("repo", "ok")
	m.ObserveStageLatency("resolve", time.Second)
	m.ObservePassLatency(time.Second)
	m.PassStarted()()
}
