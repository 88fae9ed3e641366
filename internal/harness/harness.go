package harness

import (
	"fmt"
	"image"
	"os"

	"github.com/roach88/blkbuster/internal/config"
	"github.com/roach88/blkbuster/internal/render"
	"github.com/roach88/blkbuster/internal/theme"
	"github.com/roach88/blkbuster/internal/timeline"
	"github.com/roach88/blkbuster/internal/trace"
)

// Harness renders one scenario's frames on demand and caches them by time.
type Harness struct {
	renderer *render.Renderer
	frames   map[float64]*image.RGBA
	result   *Result
}

// Run executes a scenario with the built-in themes.
func Run(scenario *Scenario) (*Result, error) {
	return RunWithThemes(scenario, theme.Builtin())
}

// RunWithThemes executes a scenario and returns the result.
//
// An error means the scenario could not be rendered at all: a bad
// configuration, an unreadable trace or degenerate input. Failed assertions
// are reported in Result.Errors instead.
func RunWithThemes(scenario *Scenario, themes *theme.Registry) (*Result, error) {
	cfg := config.Defaults().Apply(scenario.Config)
	if err := cfg.Validate(themes); err != nil {
		return nil, err
	}
	th, err := themes.Lookup(cfg.Theme)
	if err != nil {
		return nil, err
	}

	result := NewResult()
	events := scenario.events()
	if scenario.Trace != "" {
		parsed, err := parseTraceFile(scenario.Trace, cfg.SectorSize)
		if err != nil {
			return nil, err
		}
		events = parsed.Events
		result.Skipped = parsed.Skipped
	}

	tl, err := timeline.Build(events)
	if err != nil {
		return nil, fmt.Errorf("failed to build timeline: %w", err)
	}
	r, err := render.New(tl, cfg, th)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	result.Events = tl.Len()
	result.MaxOffset = tl.MaxOffset()
	result.Duration = tl.Duration()
	result.FrameCount = r.FrameCount()

	h := &Harness{
		renderer: r,
		frames:   make(map[float64]*image.RGBA),
		result:   result,
	}
	for _, errMsg := range EvaluateAssertions(h, scenario.Assertions) {
		result.AddError(errMsg)
	}
	return result, nil
}

// frame renders the frame at t once and records it in the result summary.
func (h *Harness) frame(t float64) *image.RGBA {
	if img, ok := h.frames[t]; ok {
		return img
	}
	img := h.renderer.RenderFrame(t)
	h.frames[t] = img

	visible := []int{}
	for _, ev := range h.renderer.Visible(t) {
		visible = append(visible, ev.Seq)
	}
	h.result.Frames = append(h.result.Frames, FrameSummary{
		At:      t,
		Visible: visible,
		Digest:  render.FrameDigest(img),
	})
	return img
}

func parseTraceFile(path string, sectorSize int) (*trace.ParseResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace: %w", err)
	}
	defer f.Close()

	res, err := trace.NewParser(uint64(sectorSize)).Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse trace %s: %w", path, err)
	}
	return res, nil
}
