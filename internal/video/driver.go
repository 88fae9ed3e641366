package video

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

// Frame is one rendered frame.
type Frame struct {
	Index int
	Time  float64
	Image *image.RGBA
}

// FrameRenderer is the rendering core as the driver sees it.
type FrameRenderer interface {
	RenderFrame(t float64) *image.RGBA
	FrameCount() int
	FrameTime(i int) float64
}

// Sink consumes frames in index order.
type Sink interface {
	WriteFrame(f Frame) error
	Close() error
}

// Options controls which frames are rendered and how many at once.
type Options struct {
	// Workers is the number of frames rendered concurrently. Zero means
	// GOMAXPROCS.
	Workers int

	// Start and End bound the rendered span in seconds. End <= 0 means
	// through the last frame.
	Start float64
	End   float64
}

// Stats reports what a run produced.
type Stats struct {
	First   int
	Last    int
	Frames  int
	Elapsed time.Duration
}

// Driver renders a range of frames into a sink.
type Driver struct {
	r    FrameRenderer
	opts Options
}

// NewDriver returns a driver for r.
func NewDriver(r FrameRenderer, opts Options) *Driver {
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	return &Driver{r: r, opts: opts}
}

// Range returns the inclusive frame index range selected by the options: the
// first frame with FrameTime >= Start through the last with FrameTime <= End.
// An empty selection returns last < first.
func (d *Driver) Range() (first, last int) {
	n := d.r.FrameCount()
	first, last = 0, n-1
	if d.opts.Start > 0 {
		first = sort.Search(n, func(i int) bool { return d.r.FrameTime(i) >= d.opts.Start })
	}
	if d.opts.End > 0 {
		last = sort.Search(n, func(i int) bool { return d.r.FrameTime(i) > d.opts.End }) - 1
	}
	return first, last
}

// Run renders every selected frame and writes it to sink in order. The sink
// is not closed.
func (d *Driver) Run(ctx context.Context, sink Sink) (Stats, error) {
	first, last := d.Range()
	stats := Stats{First: first, Last: last}
	if last < first {
		return stats, fmt.Errorf("no frames selected (start=%v end=%v)", d.opts.Start, d.opts.End)
	}

	total := last - first + 1
	began := time.Now()
	slog.Info("rendering frames", "first", first, "last", last, "workers", d.opts.Workers)

	g, gctx := errgroup.WithContext(ctx)
	pending := make(chan chan Frame, d.opts.Workers)

	// Dispatcher: reserve a slot in the ordered queue, then render into it.
	g.Go(func() error {
		defer close(pending)
		var workers errgroup.Group
		workers.SetLimit(d.opts.Workers)
		defer workers.Wait()

		for i := first; i <= last; i++ {
			out := make(chan Frame, 1)
			select {
			case pending <- out:
			case <-gctx.Done():
				return gctx.Err()
			}
			idx := i
			workers.Go(func() error {
				t := d.r.FrameTime(idx)
				out <- Frame{Index: idx, Time: t, Image: d.r.RenderFrame(t)}
				return nil
			})
		}
		return nil
	})

	// Consumer: write frames in the order their slots were reserved.
	g.Go(func() error {
		logEvery := max(total/20, 1)
		for out := range pending {
			var f Frame
			select {
			case f = <-out:
			case <-gctx.Done():
				return gctx.Err()
			}
			if err := sink.WriteFrame(f); err != nil {
				return fmt.Errorf("write frame %d: %w", f.Index, err)
			}
			stats.Frames++
			if stats.Frames%logEvery == 0 {
				slog.Debug("render progress", "frames", stats.Frames, "total", total)
			}
		}
		return nil
	})

	err := g.Wait()
	stats.Elapsed = time.Since(began)
	if err != nil {
		return stats, err
	}
	slog.Info("frames rendered", "frames", stats.Frames, "elapsed", stats.Elapsed)
	return stats, nil
}
