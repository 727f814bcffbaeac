package workload

import "testing"

// TestEventHeap_TimeOrdering tests that events are popped in time order
func TestEventHeap_TimeOrdering(t *testing.T) {
	h := NewEventHeap()

	h.Schedule(&Event{Time: 10, Sensor: 0, ID: 1})
	h.Schedule(&Event{Time: 5, Sensor: 1, ID: 2})
	h.Schedule(&Event{Time: 15, Sensor: 2, ID: 3})

	for _, want := range []float64{5, 10, 15} {
		got := h.PopNext()
		if got.Time != want {
			t.Errorf("popped time = %v, want %v", got.Time, want)
		}
	}
	if h.Len() != 0 {
		t.Errorf("heap should be empty, len = %d", h.Len())
	}
}

// TestEventHeap_EqualTimeUsesEventID tests the deterministic tie-breaker
func TestEventHeap_EqualTimeUsesEventID(t *testing.T) {
	h := NewEventHeap()

	h.Schedule(&Event{Time: 3, Sensor: 7, ID: 9})
	h.Schedule(&Event{Time: 3, Sensor: 4, ID: 2})
	h.Schedule(&Event{Time: 3, Sensor: 5, ID: 5})

	for _, want := range []uint64{2, 5, 9} {
		if got := h.PopNext(); got.ID != want {
			t.Errorf("popped ID = %d, want %d", got.ID, want)
		}
	}
}

// TestEventHeap_EmptyReturnsNil tests Peek and PopNext on an empty heap
func TestEventHeap_EmptyReturnsNil(t *testing.T) {
	h := NewEventHeap()
	if h.Peek() != nil {
		t.Error("Peek on empty heap should return nil")
	}
	if h.PopNext() != nil {
		t.Error("PopNext on empty heap should return nil")
	}
}

// TestEventHeap_PeekDoesNotRemove tests that Peek leaves the event in place
func TestEventHeap_PeekDoesNotRemove(t *testing.T) {
	h := NewEventHeap()
	h.Schedule(&Event{Time: 1, ID: 1})

	if h.Peek().Time != 1 {
		t.Errorf("Peek time = %v, want 1", h.Peek().Time)
	}
	if h.Len() != 1 {
		t.Errorf("len after Peek = %d, want 1", h.Len())
	}
}
