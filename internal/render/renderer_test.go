package render

import (
	"bytes"
	"image"
	"image/color"
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/blkbuster/internal/config"
	"github.com/roach88/blkbuster/internal/testutil"
	"github.com/roach88/blkbuster/internal/theme"
	"github.com/roach88/blkbuster/internal/timeline"
	"github.com/roach88/blkbuster/internal/trace"
)

// smallConfig draws on a 100x50 canvas: the inset is (10,5)-(90,45) and ten
// stripes give a 20-column logical grid, so logical row r sits at pixel row
// 5+4r. The stroke radius is 1.
func smallConfig() config.Config {
	cfg := config.Defaults()
	cfg.Width = 100
	cfg.Height = 50
	cfg.Stripes = 10
	cfg.FrameRate = 10
	cfg.Window = 0.5
	cfg.Decay = 0.5
	return cfg
}

func classic(t *testing.T) theme.Theme {
	t.Helper()
	th, err := theme.Builtin().Lookup("classic")
	require.NoError(t, err)
	return th
}

func newRenderer(t *testing.T, events []trace.Event, cfg config.Config) *Renderer {
	t.Helper()
	tl, err := timeline.Build(events)
	require.NoError(t, err)
	r, err := New(tl, cfg, classic(t))
	require.NoError(t, err)
	return r
}

func at(img *image.RGBA, row, col int) color.RGBA {
	return img.RGBAAt(col, row)
}

func seqs(evs []trace.Event) []int {
	out := []int{}
	for _, ev := range evs {
		out = append(out, ev.Seq)
	}
	return out
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	tl, err := timeline.Build(testutil.ThreeEvents())
	require.NoError(t, err)

	cfg := smallConfig()
	cfg.FrameRate = 0
	_, err = New(tl, cfg, classic(t))
	var ve *config.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestNew_NilTimeline(t *testing.T) {
	_, err := New(nil, smallConfig(), classic(t))
	assert.ErrorIs(t, err, timeline.ErrNoEvents)
}

func TestStrokeRadius(t *testing.T) {
	assert.Equal(t, 1, StrokeRadius(100))
	assert.Equal(t, 1, StrokeRadius(1000))
	assert.Equal(t, 2, StrokeRadius(1001))
	assert.Equal(t, 4, StrokeRadius(3840))
}

func TestFrameClock(t *testing.T) {
	r := newRenderer(t, testutil.ThreeEvents(), smallConfig())
	assert.Equal(t, 0.2, r.Duration())
	assert.Equal(t, 0.1, r.FrameInterval())
	assert.Equal(t, 3, r.FrameCount(), "frames at 0.0, 0.1 and 0.2")
	assert.Equal(t, 0.0, r.FrameTime(0))
	assert.Equal(t, 0.2, r.FrameTime(2))
}

func TestVisible_WindowBoundaries(t *testing.T) {
	cfg := smallConfig()
	cfg.FrameRate = 4 // span = 0.5 + 0.25
	l := testutil.NewEventLog()
	l.Read(0.25, 0, 10) // t - span exactly: excluded
	l.Read(0.5, 10, 10)
	l.Write(1.0, 20, 10) // exactly t: included
	l.Write(1.5, 30, 10)
	r := newRenderer(t, l.Events(), cfg)

	assert.Equal(t, []int{1, 2}, seqs(r.Visible(1.0)))
}

func TestVisible_MatchesBruteForce(t *testing.T) {
	cfg := smallConfig()
	rng := rand.New(rand.NewSource(3))
	l := testutil.NewEventLog()
	for i := 0; i < 300; i++ {
		// Quantized times so many events share a timestamp.
		l.Write(float64(rng.Intn(80))/20, uint64(rng.Intn(900)), uint64(rng.Intn(100)+1))
	}
	events := l.Events()
	r := newRenderer(t, events, cfg)

	for i := -5; i < 100; i++ {
		tq := float64(i) / 20
		var want []int
		for _, ev := range events {
			if ev.Time > tq-cfg.Span() && ev.Time <= tq {
				want = append(want, ev.Seq)
			}
		}
		got := r.Visible(tq)
		require.Len(t, got, len(want), "t=%v", tq)
		gotSet := map[int]bool{}
		for _, ev := range got {
			gotSet[ev.Seq] = true
		}
		for _, s := range want {
			assert.True(t, gotSet[s], "t=%v missing seq %d", tq, s)
		}
	}
}

func TestIntensity_StrictlyDecreasing(t *testing.T) {
	r := newRenderer(t, testutil.ThreeEvents(), smallConfig())

	assert.Equal(t, 1.0, r.Intensity(0))
	assert.InDelta(t, math.Exp(-1), r.Intensity(0.5), 1e-12)

	prev := r.Intensity(0)
	for age := 0.01; age <= r.Config().Span(); age += 0.01 {
		cur := r.Intensity(age)
		assert.Less(t, cur, prev, "age %v", age)
		assert.Greater(t, cur, 0.0, "no hard floor inside the window")
		prev = cur
	}
}

func TestColor_Blend(t *testing.T) {
	r := newRenderer(t, testutil.ThreeEvents(), smallConfig())

	assert.Equal(t, color.RGBA{0, 0x80, 0, 0xff}, r.Color(trace.Read, 1))
	assert.Equal(t, color.RGBA{0xff, 0xff, 0xff, 0xff}, r.Color(trace.Read, 0))
	// Halfway between blue and white.
	assert.Equal(t, color.RGBA{0x80, 0x80, 0xff, 0xff}, r.Color(trace.Write, 0.5))
}

func TestColor_LegacyBlendUsesBackgroundBlue(t *testing.T) {
	cfg := smallConfig()
	cfg.LegacyBlend = true
	tl, err := timeline.Build(testutil.ThreeEvents())
	require.NoError(t, err)

	th := classic(t)
	th.Background, _ = colorfulHex("#204060")
	r, err := New(tl, cfg, th)
	require.NoError(t, err)

	// Every channel fades toward 0x60, the background's blue.
	assert.Equal(t, color.RGBA{0x60, 0x60, 0x60, 0xff}, r.Color(trace.Read, 0))
	half := r.Color(trace.Discard, 0.5)
	assert.Equal(t, uint8(0x30), half.G)
	assert.Equal(t, uint8(0x30), half.B)
	assert.Greater(t, half.R, uint8(0xa0))

	cfg.LegacyBlend = false
	r, err = New(tl, cfg, th)
	require.NoError(t, err)
	assert.Equal(t, color.RGBA{0x20, 0x40, 0x60, 0xff}, r.Color(trace.Read, 0))
}

func TestRenderFrame_EndToEnd(t *testing.T) {
	r := newRenderer(t, testutil.ThreeEvents(), smallConfig())
	bg := r.Background()

	// Read [0,100) sits on row 0, Write [500,550) on row 5, Discard [900,1000) on row 9.
	f := r.RenderFrame(0.1)
	assert.Equal(t, r.Color(trace.Read, r.Intensity(0.1-0.0)), at(f, 5, 50))
	assert.Equal(t, r.Color(trace.Write, r.Intensity(0.1-0.05)), at(f, 25, 30))
	assert.Equal(t, bg, at(f, 41, 50), "discard has not happened yet")
	assert.NotEqual(t, bg, at(f, 5, 50))
	assert.Equal(t, []int{0, 1}, seqs(r.Visible(0.1)))

	f = r.RenderFrame(0.7)
	assert.Equal(t, bg, at(f, 5, 50), "read aged out of the window")
	assert.Equal(t, bg, at(f, 25, 30), "write aged out of the window")
	assert.Equal(t, r.Color(trace.Discard, r.Intensity(0.7-0.2)), at(f, 41, 50))
	assert.Equal(t, []int{2}, seqs(r.Visible(0.7)))
}

func TestRenderFrame_NewerEventsPaintOnTop(t *testing.T) {
	l := testutil.NewEventLog()
	l.Read(0.1, 0, 100)
	l.Write(0.2, 0, 100)
	r := newRenderer(t, l.Events(), smallConfig())

	f := r.RenderFrame(0.2)
	assert.Equal(t, r.Color(trace.Write, 1), at(f, 5, 50))
}

func TestRenderFrame_BlankWhenNoEventsInWindow(t *testing.T) {
	r := newRenderer(t, testutil.ThreeEvents(), smallConfig())
	f := r.RenderFrame(50)

	bg := r.Background()
	for y := 0; y < 50; y++ {
		for x := 0; x < 100; x++ {
			require.Equal(t, bg, f.RGBAAt(x, y))
		}
	}
}

func TestRenderFrame_NeverDrawsOutsideInset(t *testing.T) {
	l := testutil.NewEventLog()
	l.Read(0, 0, 1000) // every row, both edges
	r := newRenderer(t, l.Events(), smallConfig())
	f := r.RenderFrame(0)

	in := r.Mapper().Inset()
	bg := r.Background()
	drawn := 0
	for y := 0; y < 50; y++ {
		for x := 0; x < 100; x++ {
			if !image.Pt(x, y).In(in) {
				require.Equal(t, bg, f.RGBAAt(x, y), "pixel (%d,%d) in margin", x, y)
			} else if f.RGBAAt(x, y) != bg {
				drawn++
			}
		}
	}
	assert.Greater(t, drawn, 0)
}

func TestRenderFrame_MultiRowEventCoversEveryRow(t *testing.T) {
	l := testutil.NewEventLog()
	l.Discard(0, 150, 300) // bytes 150..449: rows 1 through 4
	r := newRenderer(t, l.Events(), smallConfig())
	f := r.RenderFrame(0)
	c := r.Color(trace.Discard, 1)
	bg := r.Background()

	assert.Equal(t, c, at(f, 9, 60), "row 1 starts mid-row")
	assert.Equal(t, bg, at(f, 9, 20), "row 1 is empty before the first byte")
	assert.Equal(t, c, at(f, 9, 89), "row 1 runs to the right edge")
	assert.Equal(t, c, at(f, 13, 10), "row 2 is full")
	assert.Equal(t, c, at(f, 17, 89), "row 3 is full")
	assert.Equal(t, c, at(f, 21, 30), "row 4 ends at the last byte")
	assert.Equal(t, bg, at(f, 21, 70), "row 4 is empty after the last byte")
}

func TestRenderFrame_RoundCaps(t *testing.T) {
	l := testutil.NewEventLog()
	l.Write(0, 500, 50) // row 5, pixels 10..49 at y=25
	r := newRenderer(t, l.Events(), smallConfig())
	f := r.RenderFrame(0)
	c := r.Color(trace.Write, 1)
	bg := r.Background()

	assert.Equal(t, c, at(f, 24, 30), "stroke has thickness")
	assert.Equal(t, c, at(f, 26, 30))
	assert.Equal(t, c, at(f, 25, 50), "cap extends one radius past the end")
	assert.Equal(t, bg, at(f, 24, 50), "cap is round, not square")
	assert.Equal(t, bg, at(f, 27, 30))
}

func TestRenderFrame_Deterministic(t *testing.T) {
	r := newRenderer(t, testutil.ThreeEvents(), smallConfig())
	a := r.RenderFrame(0.15)
	b := r.RenderFrame(0.15)
	assert.True(t, bytes.Equal(a.Pix, b.Pix))
	assert.Equal(t, FrameDigest(a), FrameDigest(b))
}

func TestRenderFrame_OrderAndConcurrencyIndependent(t *testing.T) {
	l := testutil.NewEventLog()
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 200; i++ {
		l.Add(rng.Float64()*3, trace.Directions[rng.Intn(3)], uint64(rng.Intn(1<<20)), uint64(rng.Intn(1<<14)+1))
	}
	r := newRenderer(t, l.Events(), smallConfig())

	n := r.FrameCount()
	want := make([]string, n)
	for i := 0; i < n; i++ {
		want[i] = FrameDigest(r.RenderFrame(r.FrameTime(i)))
	}

	got := make([]string, n)
	var wg sync.WaitGroup
	for _, i := range rng.Perm(n) {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = FrameDigest(r.RenderFrame(r.FrameTime(i)))
		}(i)
	}
	wg.Wait()
	assert.Equal(t, want, got)
}

func TestFrameDigest_DiffersBySizeAndContent(t *testing.T) {
	a := image.NewRGBA(image.Rect(0, 0, 4, 2))
	b := image.NewRGBA(image.Rect(0, 0, 2, 4))
	assert.NotEqual(t, FrameDigest(a), FrameDigest(b), "same pixel count, different shape")

	c := image.NewRGBA(image.Rect(0, 0, 4, 2))
	c.Pix[0] = 1
	assert.NotEqual(t, FrameDigest(a), FrameDigest(c))
	assert.Len(t, FrameDigest(a), 64)
}
