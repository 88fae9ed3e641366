package testutil

import (
	"sync"

	"github.com/roach88/blkbuster/internal/trace"
)

// EventLog builds synthetic events with strictly increasing Seq values.
//
// Thread-safety: all methods are safe for concurrent use.
type EventLog struct {
	mu     sync.Mutex
	seq    int
	events []trace.Event
}

// NewEventLog creates an empty log. The first event gets Seq 0.
func NewEventLog() *EventLog {
	return &EventLog{}
}

// Add appends an event and returns it with its assigned Seq.
func (l *EventLog) Add(t float64, dir trace.Direction, offset, size uint64) trace.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	ev := trace.Event{
		Seq:       l.seq,
		Time:      t,
		Offset:    offset,
		Size:      size,
		Direction: dir,
	}
	l.seq++
	l.events = append(l.events, ev)
	return ev
}

// Read appends a read event.
func (l *EventLog) Read(t float64, offset, size uint64) trace.Event {
	return l.Add(t, trace.Read, offset, size)
}

// Write appends a write event.
func (l *EventLog) Write(t float64, offset, size uint64) trace.Event {
	return l.Add(t, trace.Write, offset, size)
}

// Discard appends a discard event.
func (l *EventLog) Discard(t float64, offset, size uint64) trace.Event {
	return l.Add(t, trace.Discard, offset, size)
}

// Events returns a copy of the events in ingestion order.
func (l *EventLog) Events() []trace.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]trace.Event, len(l.events))
	copy(out, l.events)
	return out
}

// Reset empties the log and restarts Seq at 0.
func (l *EventLog) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq = 0
	l.events = nil
}

// ThreeEvents returns the reference trace used across packages: a read at 0s,
// a write at 0.05s and a discard at 0.2s over a 1000 byte address space.
func ThreeEvents() []trace.Event {
	l := NewEventLog()
	l.Read(0.0, 0, 100)
	l.Write(0.05, 500, 50)
	l.Discard(0.2, 900, 100)
	return l.Events()
}
