package timeline

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/blkbuster/internal/testutil"
	"github.com/roach88/blkbuster/internal/trace"
)

func seqs(evs []trace.Event) []int {
	out := make([]int, len(evs))
	for i, ev := range evs {
		out[i] = ev.Seq
	}
	return out
}

func TestBuild_Empty(t *testing.T) {
	_, err := Build(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoEvents))
}

func TestBuild_ZeroMaxOffsetIsImpossibleWithPositiveSizes(t *testing.T) {
	// Offset 0 with a positive size still yields max offset > 0.
	l := testutil.NewEventLog()
	l.Read(0, 0, 1)
	tl, err := Build(l.Events())
	require.NoError(t, err)
	assert.Equal(t, uint64(1), tl.MaxOffset())
}

func TestBuild_RejectsInvalidEvents(t *testing.T) {
	tests := []struct {
		name   string
		ev     trace.Event
		reason string
	}{
		{"zero size", trace.Event{Seq: 3, Time: 1, Offset: 10}, "size is zero"},
		{"nan time", trace.Event{Time: math.NaN(), Size: 1}, "time is not finite"},
		{"overflow", trace.Event{Offset: math.MaxUint64, Size: 2}, "offset+size overflows"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build([]trace.Event{tt.ev})
			var ie *InvalidEventError
			require.ErrorAs(t, err, &ie)
			assert.Equal(t, tt.reason, ie.Reason)
		})
	}
}

func TestBuild_SortsStablyByTimeThenSeq(t *testing.T) {
	l := testutil.NewEventLog()
	l.Write(2.0, 0, 10)  // 0
	l.Read(1.0, 10, 10)  // 1
	l.Read(2.0, 20, 10)  // 2
	l.Write(1.0, 30, 10) // 3
	l.Read(0.5, 40, 10)  // 4

	tl, err := Build(l.Events())
	require.NoError(t, err)
	assert.Equal(t, []int{4, 1, 3, 0, 2}, seqs(tl.Events()))
	assert.Equal(t, uint64(50), tl.MaxOffset())
	assert.Equal(t, 2.0, tl.Duration())
	assert.Equal(t, 0.5, tl.Start())
	assert.Equal(t, 5, tl.Len())
}

func TestBuild_DoesNotAliasInput(t *testing.T) {
	evs := testutil.ThreeEvents()
	tl, err := Build(evs)
	require.NoError(t, err)
	evs[0].Offset = 12345
	assert.Equal(t, uint64(0), tl.Events()[0].Offset)
}

func TestWindow_HalfOpenOnTheLeft(t *testing.T) {
	l := testutil.NewEventLog()
	l.Read(0.25, 0, 10) // exactly at start: excluded
	l.Read(0.5, 0, 10)
	l.Read(1.0, 0, 10) // exactly at end: included
	l.Read(1.25, 0, 10)

	tl, err := Build(l.Events())
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, seqs(tl.Window(0.25, 1.0)))
}

func TestWindow_AdjacentWindowsPartitionEvents(t *testing.T) {
	l := testutil.NewEventLog()
	for i := 0; i < 40; i++ {
		// Many events land exactly on quarter-second frame boundaries.
		l.Write(float64(i)*0.125, uint64(i), 1)
	}
	tl, err := Build(l.Events())
	require.NoError(t, err)

	seen := make(map[int]int)
	for end := 0.0; end <= 5.0; end += 0.25 {
		for _, ev := range tl.Window(end-0.25, end) {
			seen[ev.Seq]++
		}
	}
	require.Len(t, seen, 40)
	for seq, n := range seen {
		assert.Equal(t, 1, n, "event %d counted %d times", seq, n)
	}
}

func TestWindow_TiesKeepIngestionOrder(t *testing.T) {
	l := testutil.NewEventLog()
	l.Write(1.0, 0, 1)
	l.Read(1.0, 1, 1)
	l.Discard(1.0, 2, 1)

	tl, err := Build(l.Events())
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, seqs(tl.Window(0.5, 1.0)))
	assert.Empty(t, tl.Window(1.0, 2.0))
}

func TestWindow_ClampsAtBounds(t *testing.T) {
	tl, err := Build(testutil.ThreeEvents())
	require.NoError(t, err)

	assert.Len(t, tl.Window(-100, 100), 3)
	assert.Empty(t, tl.Window(5, 10))
	assert.Empty(t, tl.Window(-10, -5))
	assert.Empty(t, tl.Window(1, 0), "inverted window is empty")
}

func TestWindow_ResultCannotGrowIntoStore(t *testing.T) {
	tl, err := Build(testutil.ThreeEvents())
	require.NoError(t, err)

	w := tl.Window(-1, 0.0)
	require.Len(t, w, 1)
	w = append(w, trace.Event{Seq: 99})
	assert.Equal(t, 1, tl.Events()[1].Seq, "append must not overwrite the store")
	_ = w
}

func TestStats(t *testing.T) {
	tl, err := Build(testutil.ThreeEvents())
	require.NoError(t, err)

	s := tl.Stats()
	assert.Equal(t, 3, s.Events)
	assert.Equal(t, uint64(1000), s.MaxOffset)
	assert.Equal(t, 0.2, s.Duration)
	assert.Equal(t, DirectionStats{Events: 1, Bytes: 100}, s.ByDir["read"])
	assert.Equal(t, DirectionStats{Events: 1, Bytes: 50}, s.ByDir["write"])
	assert.Equal(t, DirectionStats{Events: 1, Bytes: 100}, s.ByDir["discard"])
}
