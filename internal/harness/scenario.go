package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/roach88/blkbuster/internal/config"
	"github.com/roach88/blkbuster/internal/trace"
)

// Scenario defines a rendering test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Config overrides the default rendering configuration.
	Config config.Overrides `yaml:"config"`

	// Events are the trace, in ingestion order. Seq is the list index.
	Events []EventStep `yaml:"events,omitempty"`

	// Trace is a blkparse text file used instead of Events. Relative paths
	// are resolved against the scenario file's directory.
	Trace string `yaml:"trace,omitempty"`

	// Assertions validate the rendered frames.
	Assertions []Assertion `yaml:"assertions"`
}

// EventStep is one inline trace event.
type EventStep struct {
	Time   float64 `yaml:"time"`
	Dir    string  `yaml:"dir"`
	Offset uint64  `yaml:"offset"`
	Size   uint64  `yaml:"size"`
}

// Assertion types.
const (
	AssertVisible    = "visible"
	AssertBlank      = "blank"
	AssertPixel      = "pixel"
	AssertFrameCount = "frame_count"
	AssertMaxOffset  = "max_offset"
)

// ColorBackground names the theme background in pixel assertions.
const ColorBackground = "background"

// Assertion is one expectation about the render.
type Assertion struct {
	Type string `yaml:"type"`

	// At is the frame time for visible, blank and pixel assertions.
	At float64 `yaml:"at"`

	// Seqs lists the expected visible events for visible.
	Seqs []int `yaml:"seqs,omitempty"`

	// Offset addresses a pixel by byte offset; X and Y address it directly.
	Offset *uint64 `yaml:"offset,omitempty"`
	X      *int    `yaml:"x,omitempty"`
	Y      *int    `yaml:"y,omitempty"`

	// Color is "#rrggbb" or "background".
	Color string `yaml:"color,omitempty"`

	// Value is the expected count for frame_count and extent for max_offset.
	Value uint64 `yaml:"value,omitempty"`
}

// LoadScenario loads and validates a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos)
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.Trace != "" && !filepath.IsAbs(scenario.Trace) {
		scenario.Trace = filepath.Join(filepath.Dir(path), scenario.Trace)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch {
	case len(s.Events) == 0 && s.Trace == "":
		return fmt.Errorf("events or trace is required")
	case len(s.Events) > 0 && s.Trace != "":
		return fmt.Errorf("events and trace are mutually exclusive")
	}

	if s.Trace != "" {
		if _, err := os.Stat(s.Trace); os.IsNotExist(err) {
			return fmt.Errorf("trace file not found: %s", s.Trace)
		}
	}

	for i, ev := range s.Events {
		if _, err := trace.ParseDirection(ev.Dir); err != nil {
			return fmt.Errorf("events[%d]: %w", i, err)
		}
		if ev.Size == 0 {
			return fmt.Errorf("events[%d]: size must be positive", i)
		}
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertVisible:
		if a.Seqs == nil {
			return fmt.Errorf("assertions[%d]: seqs is required for visible (use [] for none)", index)
		}
	case AssertBlank:
	case AssertPixel:
		byOffset := a.Offset != nil
		byXY := a.X != nil || a.Y != nil
		if byOffset == byXY {
			return fmt.Errorf("assertions[%d]: pixel needs either offset or x and y", index)
		}
		if byXY && (a.X == nil || a.Y == nil) {
			return fmt.Errorf("assertions[%d]: pixel needs both x and y", index)
		}
		if a.Color == "" {
			return fmt.Errorf("assertions[%d]: color is required for pixel", index)
		}
		if a.Color != ColorBackground {
			if _, err := colorful.Hex(a.Color); err != nil {
				return fmt.Errorf("assertions[%d]: invalid color %q: %w", index, a.Color, err)
			}
		}
	case AssertFrameCount, AssertMaxOffset:
		if a.Value == 0 {
			return fmt.Errorf("assertions[%d]: value must be positive for %s", index, a.Type)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}

// events converts inline steps to trace events, assigning Seq by position.
func (s *Scenario) events() []trace.Event {
	out := make([]trace.Event, len(s.Events))
	for i, step := range s.Events {
		// Direction was checked by validateScenario.
		dir, _ := trace.ParseDirection(step.Dir)
		out[i] = trace.Event{
			Seq:       i,
			Time:      step.Time,
			Offset:    step.Offset,
			Size:      step.Size,
			Direction: dir,
		}
	}
	return out
}
