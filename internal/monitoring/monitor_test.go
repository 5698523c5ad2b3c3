package monitoring

import (
	"testing"
)

func TestMonitor_Increment(t *testing.T) {
	m := NewMonitor()
	m.Increment("item_status_changes_applied")
	m.Increment("item_status_changes_applied")

	if got := m.Counter("item_status_changes_applied"); got != 2 {
		t.Errorf("Counter() = %d, want 2", got)
	}

	if got := m.Counter("never_touched"); got != 0 {
		t.Errorf("Counter() for unknown name = %d, want 0", got)
	}
}

func TestMonitor_GetMetrics(t *testing.T) {
	m := NewMonitor()
	m.Increment("claim_deletes_applied")
	m.RecordMetric("active_sessions", 3)

	metrics := m.GetMetrics()

	value, exists := metrics["claim_deletes_applied"]
	if !exists {
		t.Fatalf("Expected 'claim_deletes_applied' to be present in metrics, but it was not")
	}
	if value != int64(1) {
		t.Errorf("Expected 'claim_deletes_applied' to be 1, but got %v", value)
	}

	if metrics["active_sessions"] != 3 {
		t.Errorf("Expected 'active_sessions' to be 3, but got %v", metrics["active_sessions"])
	}

	// Check uptime presence
	_, exists = metrics["uptime_seconds"]
	if !exists {
		t.Errorf("Expected 'uptime_seconds' to be present in metrics, but it was not")
	}
}

func TestMonitor_Reset(t *testing.T) {
	m := NewMonitor()
	m.Increment("container_mutations_rolled_back")
	m.Reset()

	if got := m.Counter("container_mutations_rolled_back"); got != 0 {
		t.Errorf("Counter() after Reset = %d, want 0", got)
	}
}
