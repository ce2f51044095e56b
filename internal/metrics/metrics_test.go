package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.Trigger("presence", "accepted")
	m.Recompute(nil, time.Second)
	m.Publish(errors.New("x"))
	m.RosterCounts(1, 2)
	m.Command("online", nil)
	m.Event("presence_update")
	m.Truncation()
	if m.Registry() != nil {
		t.Fatal("expected nil registry")
	}
}

func TestMetrics_Counters(t *testing.T) {
	m := NewWithRegistry(prometheus.NewRegistry())

	m.Recompute(nil, 10*time.Millisecond)
	m.Recompute(errors.New("fetch failed"), 5*time.Millisecond)
	m.Recompute(nil, time.Millisecond)

	if got := testutil.ToFloat64(m.recomputes.WithLabelValues(ResultOK)); got != 2 {
		t.Errorf("expected 2 ok recomputes, got %v", got)
	}
	if got := testutil.ToFloat64(m.recomputes.WithLabelValues(ResultError)); got != 1 {
		t.Errorf("expected 1 failed recompute, got %v", got)
	}

	m.RosterCounts(4, 10)
	if got := testutil.ToFloat64(m.rosterMembers.WithLabelValues("active")); got != 4 {
		t.Errorf("expected active gauge 4, got %v", got)
	}

	m.Command("memberlist", nil)
	m.Command("memberlist", nil)
	if got := testutil.ToFloat64(m.commands.WithLabelValues("memberlist", ResultOK)); got != 2 {
		t.Errorf("expected 2 memberlist commands, got %v", got)
	}
}

func TestNew_RegistersRuntimeCollectors(t *testing.T) {
	m := New()
	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "go_goroutines" {
			found = true
			break
		}
	}
	if !found {
		t.Error("expected go collector metrics")
	}
}
