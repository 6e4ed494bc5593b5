package di

import (
	"slices"
	"sync"
)

// EventKind tells an Observer which half of a lifecycle just finished.
type EventKind int

const (
	// EventEnter means a provider reached its suspension point.
	EventEnter EventKind = iota

	// EventExit means a provider was resumed and finished.
	EventExit
)

// String returns the human-readable name of the kind.
func (k EventKind) String() string {
	switch k {
	case EventEnter:
		return "enter"
	case EventExit:
		return "exit"
	default:
		return "unknown"
	}
}

// Event is one observed lifecycle step.
//
// For EventExit, Cause is the error forwarded into the provider (nil on a
// normal exit) and Err is the error that kept unwinding after it.
type Event struct {
	Slot  string
	Kind  EventKind
	Cause error
	Err   error
}

// Observer is notified of lifecycle steps in the order they happen.
// Enter failures are not reported; only successful enters and every exit are.
type Observer interface {
	Observe(Event)
}

// NoopObserver is used when no observer is configured.
type NoopObserver struct{}

func (NoopObserver) Observe(Event) {}

// Recorder is an Observer that keeps every event in order.
// It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Observe(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.events)
}

// Slots returns the slots of recorded events of the given kind, in order.
func (r *Recorder) Slots(kind EventKind) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []string
	for _, e := range r.events {
		if e.Kind == kind {
			out = append(out, e.Slot)
		}
	}
	return out
}

// Reset forgets every recorded event.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}
