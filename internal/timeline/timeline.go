package timeline

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/roach88/blkbuster/internal/trace"
)

var (
	// ErrNoEvents is returned by Build when there is nothing to render.
	ErrNoEvents = errors.New("no events")

	// ErrZeroMaxOffset is returned by Build when every event ends at byte 0,
	// leaving no address space to map onto.
	ErrZeroMaxOffset = errors.New("max offset is zero")
)

// InvalidEventError reports an event that violates the store's invariants.
type InvalidEventError struct {
	Event  trace.Event
	Reason string
}

func (e *InvalidEventError) Error() string {
	return fmt.Sprintf("invalid event seq=%d: %s", e.Event.Seq, e.Reason)
}

// Timeline is a sorted, immutable sequence of events.
type Timeline struct {
	events    []trace.Event
	maxOffset uint64
}

// Build copies events, sorts them by (Time, Seq) and computes MaxOffset.
func Build(events []trace.Event) (*Timeline, error) {
	if len(events) == 0 {
		return nil, ErrNoEvents
	}

	sorted := make([]trace.Event, len(events))
	copy(sorted, events)

	var maxOffset uint64
	for _, ev := range sorted {
		if ev.Size == 0 {
			return nil, &InvalidEventError{Event: ev, Reason: "size is zero"}
		}
		if math.IsNaN(ev.Time) || math.IsInf(ev.Time, 0) {
			return nil, &InvalidEventError{Event: ev, Reason: "time is not finite"}
		}
		if ev.Offset > math.MaxUint64-ev.Size {
			return nil, &InvalidEventError{Event: ev, Reason: "offset+size overflows"}
		}
		maxOffset = max(maxOffset, ev.End())
	}
	if maxOffset == 0 {
		return nil, ErrZeroMaxOffset
	}

	slices.SortStableFunc(sorted, func(a, b trace.Event) int {
		if c := cmp.Compare(a.Time, b.Time); c != 0 {
			return c
		}
		return cmp.Compare(a.Seq, b.Seq)
	})

	return &Timeline{events: sorted, maxOffset: maxOffset}, nil
}

// Window returns the events with start < Time <= end in (Time, Seq) order.
// The returned slice aliases the timeline and must not be modified.
func (tl *Timeline) Window(start, end float64) []trace.Event {
	lo := tl.after(start)
	hi := tl.after(end)
	if hi < lo {
		return nil
	}
	return tl.events[lo:hi:hi]
}

// after returns the insertion point for t: the index of the first event with
// Time > t.
func (tl *Timeline) after(t float64) int {
	return sort.Search(len(tl.events), func(i int) bool {
		return tl.events[i].Time > t
	})
}

// MaxOffset is the largest Offset+Size over all events.
func (tl *Timeline) MaxOffset() uint64 {
	return tl.maxOffset
}

// Duration is the time of the last event.
func (tl *Timeline) Duration() float64 {
	return tl.events[len(tl.events)-1].Time
}

// Start is the time of the first event.
func (tl *Timeline) Start() float64 {
	return tl.events[0].Time
}

// Len returns the number of events.
func (tl *Timeline) Len() int {
	return len(tl.events)
}

// Events returns the sorted events. The slice must not be modified.
func (tl *Timeline) Events() []trace.Event {
	return tl.events[:len(tl.events):len(tl.events)]
}
