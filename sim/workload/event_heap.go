package workload

import "container/heap"

// Event is one scheduled sensor emission.
type Event struct {
	Time   float64 // simulated time of the emission
	Sensor int     // index into the engine's sensors
	ID     uint64  // scheduling order, used as tie-breaker
}

// EventHeap implements a priority queue with deterministic ordering
// Ordering: time → event ID
type EventHeap struct {
	events []*Event
}

// NewEventHeap creates a new event heap
func NewEventHeap() *EventHeap {
	h := &EventHeap{
		events: make([]*Event, 0),
	}
	heap.Init(h)
	return h
}

// Len implements heap.Interface
func (h *EventHeap) Len() int {
	return len(h.events)
}

// Less implements heap.Interface with deterministic ordering
func (h *EventHeap) Less(i, j int) bool {
	ei, ej := h.events[i], h.events[j]
	if ei.Time != ej.Time {
		return ei.Time < ej.Time
	}
	// Equal times: earlier scheduled first
	return ei.ID < ej.ID
}

// Swap implements heap.Interface
func (h *EventHeap) Swap(i, j int) {
	h.events[i], h.events[j] = h.events[j], h.events[i]
}

// Push implements heap.Interface
func (h *EventHeap) Push(x interface{}) {
	h.events = append(h.events, x.(*Event))
}

// Pop implements heap.Interface
func (h *EventHeap) Pop() interface{} {
	old := h.events
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	h.events = old[0 : n-1]
	return item
}

// Schedule adds an event to the heap
func (h *EventHeap) Schedule(e *Event) {
	heap.Push(h, e)
}

// PopNext removes and returns the next event, or nil when empty.
func (h *EventHeap) PopNext() *Event {
	if h.Len() == 0 {
		return nil
	}
	return heap.Pop(h).(*Event)
}

// Peek returns the next event without removing it
func (h *EventHeap) Peek() *Event {
	if h.Len() == 0 {
		return nil
	}
	return h.events[0]
}
