package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/roach88/blkbuster/internal/config"
	"github.com/roach88/blkbuster/internal/geometry"
	"github.com/roach88/blkbuster/internal/theme"
	"github.com/roach88/blkbuster/internal/timeline"
	"github.com/roach88/blkbuster/internal/trace"
)

// Renderer produces frames for one timeline.
type Renderer struct {
	tl     *timeline.Timeline
	mapper *geometry.Mapper
	cfg    config.Config
	theme  theme.Theme
	bg     color.RGBA
	radius int
}

// New validates cfg and prepares a renderer. Every error a run can hit in
// rendering surfaces here; RenderFrame itself cannot fail.
func New(tl *timeline.Timeline, cfg config.Config, th theme.Theme) (*Renderer, error) {
	if tl == nil {
		return nil, fmt.Errorf("render: %w", timeline.ErrNoEvents)
	}
	if err := cfg.Validate(nil); err != nil {
		return nil, err
	}
	m, err := geometry.NewMapper(tl.MaxOffset(), cfg.Width, cfg.Height, cfg.Stripes)
	if err != nil {
		return nil, err
	}
	return &Renderer{
		tl:     tl,
		mapper: m,
		cfg:    cfg,
		theme:  th,
		bg:     toRGBA(th.Background),
		radius: StrokeRadius(cfg.Width),
	}, nil
}

// StrokeRadius is the stroke radius in pixels for a canvas of the given width:
// one pixel per started thousand columns.
func StrokeRadius(width int) int {
	return int(math.Ceil(float64(width) / 1000))
}

// Mapper returns the address mapper frames are drawn with.
func (r *Renderer) Mapper() *geometry.Mapper { return r.mapper }

// Config returns the configuration the renderer was built with.
func (r *Renderer) Config() config.Config { return r.cfg }

// Background is the color every frame is cleared to.
func (r *Renderer) Background() color.RGBA { return r.bg }

// Duration is the time of the last event.
func (r *Renderer) Duration() float64 { return r.tl.Duration() }

// FrameInterval is the time between frames.
func (r *Renderer) FrameInterval() float64 { return r.cfg.FrameInterval() }

// FrameCount is the number of frames from time 0 through Duration.
func (r *Renderer) FrameCount() int {
	n := int(math.Floor(r.Duration()*r.cfg.FrameRate)) + 1
	return max(n, 1)
}

// FrameTime is the time of frame i.
func (r *Renderer) FrameTime(i int) float64 {
	return float64(i) / r.cfg.FrameRate
}

// Visible returns the events drawn in the frame at t, oldest first.
func (r *Renderer) Visible(t float64) []trace.Event {
	return r.tl.Window(t-r.cfg.Span(), t)
}

// Intensity is the fade weight of an event age seconds old.
func (r *Renderer) Intensity(age float64) float64 {
	return math.Exp(-age / r.cfg.Decay)
}

// Color blends the color of d toward the background; intensity 1 is the pure
// direction color, intensity 0 the background.
func (r *Renderer) Color(d trace.Direction, intensity float64) color.RGBA {
	fg := r.theme.Color(d)
	if r.cfg.LegacyBlend {
		return legacyBlend(fg, r.theme.Background, intensity)
	}
	return toRGBA(r.theme.Background.BlendRgb(fg, intensity))
}

// RenderFrame draws the frame at time t.
func (r *Renderer) RenderFrame(t float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, r.cfg.Width, r.cfg.Height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: r.bg}, image.Point{}, draw.Src)

	clip := r.mapper.Inset()
	for _, ev := range r.Visible(t) {
		c := r.Color(ev.Direction, r.Intensity(t-ev.Time))
		for _, seg := range r.mapper.Segments(ev.Offset, ev.Size) {
			strokeLine(img, clip, r.mapper.Project(seg), r.radius, c)
		}
	}
	return img
}
