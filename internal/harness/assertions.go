package harness

import (
	"fmt"
	"image/color"
	"slices"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string  // Assertion type for categorization
	At       float64 // Frame time, for frame assertions
	Expected string  // Human-readable expected outcome
	Actual   string  // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s", e.Type)
	switch e.Type {
	case AssertVisible, AssertBlank, AssertPixel:
		fmt.Fprintf(&buf, " at t=%.3f", e.At)
	}
	fmt.Fprintf(&buf, "\n  Expected: %s\n  Actual: %s", e.Expected, e.Actual)
	return buf.String()
}

// EvaluateAssertions checks every assertion and returns the failure messages.
func EvaluateAssertions(h *Harness, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluate(h, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluate(h *Harness, a Assertion) error {
	switch a.Type {
	case AssertVisible:
		return assertVisible(h, a)
	case AssertBlank:
		return assertBlank(h, a)
	case AssertPixel:
		return assertPixel(h, a)
	case AssertFrameCount:
		if got := uint64(h.result.FrameCount); got != a.Value {
			return &AssertionError{Type: a.Type, Expected: fmt.Sprint(a.Value), Actual: fmt.Sprint(got)}
		}
		return nil
	case AssertMaxOffset:
		if got := h.result.MaxOffset; got != a.Value {
			return &AssertionError{Type: a.Type, Expected: fmt.Sprint(a.Value), Actual: fmt.Sprint(got)}
		}
		return nil
	default:
		return fmt.Errorf("unknown assertion type: %s", a.Type)
	}
}

func assertVisible(h *Harness, a Assertion) error {
	h.frame(a.At)
	got := h.result.Frames[h.frameIndex(a.At)].Visible
	if !slices.Equal(got, a.Seqs) {
		return &AssertionError{
			Type:     a.Type,
			At:       a.At,
			Expected: fmt.Sprint(a.Seqs),
			Actual:   fmt.Sprint(got),
		}
	}
	return nil
}

func assertBlank(h *Harness, a Assertion) error {
	img := h.frame(a.At)
	bg := h.renderer.Background()
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if c := img.RGBAAt(x, y); c != bg {
				return &AssertionError{
					Type:     a.Type,
					At:       a.At,
					Expected: "every pixel " + hexRGBA(bg),
					Actual:   fmt.Sprintf("pixel (%d,%d) is %s", x, y, hexRGBA(c)),
				}
			}
		}
	}
	return nil
}

func assertPixel(h *Harness, a Assertion) error {
	img := h.frame(a.At)

	var x, y int
	if a.Offset != nil {
		y, x = h.renderer.Mapper().OffsetToScreen(*a.Offset)
	} else {
		x, y = *a.X, *a.Y
	}

	want := h.renderer.Background()
	if a.Color != ColorBackground {
		c, err := colorful.Hex(a.Color)
		if err != nil {
			return fmt.Errorf("invalid color %q: %w", a.Color, err)
		}
		r, g, b := c.Clamped().RGB255()
		want = color.RGBA{R: r, G: g, B: b, A: 0xff}
	}

	if got := img.RGBAAt(x, y); got != want {
		return &AssertionError{
			Type:     a.Type,
			At:       a.At,
			Expected: fmt.Sprintf("pixel (%d,%d) is %s", x, y, hexRGBA(want)),
			Actual:   hexRGBA(got),
		}
	}
	return nil
}

func (h *Harness) frameIndex(t float64) int {
	return slices.IndexFunc(h.result.Frames, func(f FrameSummary) bool { return f.At == t })
}

func hexRGBA(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
