package config

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
)

//go:embed schema.cue
var schemaCUE string

// Config is the complete set of rendering parameters.
type Config struct {
	FrameRate   float64 `yaml:"frame_rate" json:"frame_rate"`     // frames per second
	Width       int     `yaml:"width" json:"width"`               // canvas width in pixels
	Height      int     `yaml:"height" json:"height"`             // canvas height in pixels
	Stripes     int     `yaml:"stripes" json:"stripes"`           // logical grid rows
	Decay       float64 `yaml:"decay" json:"decay"`               // fade time constant, seconds
	Window      float64 `yaml:"window" json:"window"`             // fade window, seconds
	Theme       string  `yaml:"theme" json:"theme"`               // theme name
	Workers     int     `yaml:"workers" json:"workers"`           // 0 means GOMAXPROCS
	SectorSize  int     `yaml:"sector_size" json:"sector_size"`   // bytes per blkparse sector
	LegacyBlend bool    `yaml:"legacy_blend" json:"legacy_blend"` // blend every channel against background blue
}

// Defaults returns the 4K, 60 fps configuration.
func Defaults() Config {
	return Config{
		FrameRate:  60,
		Width:      3840,
		Height:     2160,
		Stripes:    256,
		Decay:      0.1,
		Window:     0.5,
		Theme:      "classic",
		Workers:    0,
		SectorSize: 512,
	}
}

// FrameInterval is the time between frames, in seconds.
func (c Config) FrameInterval() float64 {
	return 1 / c.FrameRate
}

// Span is the trailing time a frame looks back over: the fade window plus one
// frame interval.
func (c Config) Span() float64 {
	return c.Window + c.FrameInterval()
}

// Overrides is a partial Config. Nil fields leave the underlying value alone.
type Overrides struct {
	FrameRate   *float64 `yaml:"frame_rate" json:"frame_rate,omitempty"`
	Width       *int     `yaml:"width" json:"width,omitempty"`
	Height      *int     `yaml:"height" json:"height,omitempty"`
	Stripes     *int     `yaml:"stripes" json:"stripes,omitempty"`
	Decay       *float64 `yaml:"decay" json:"decay,omitempty"`
	Window      *float64 `yaml:"window" json:"window,omitempty"`
	Theme       *string  `yaml:"theme" json:"theme,omitempty"`
	Workers     *int     `yaml:"workers" json:"workers,omitempty"`
	SectorSize  *int     `yaml:"sector_size" json:"sector_size,omitempty"`
	LegacyBlend *bool    `yaml:"legacy_blend" json:"legacy_blend,omitempty"`
}

// Apply returns c with every non-nil field of o applied.
func (c Config) Apply(o Overrides) Config {
	setF := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	setI := func(dst *int, src *int) {
		if src != nil {
			*dst = *src
		}
	}
	setF(&c.FrameRate, o.FrameRate)
	setI(&c.Width, o.Width)
	setI(&c.Height, o.Height)
	setI(&c.Stripes, o.Stripes)
	setF(&c.Decay, o.Decay)
	setF(&c.Window, o.Window)
	if o.Theme != nil {
		c.Theme = *o.Theme
	}
	setI(&c.Workers, o.Workers)
	setI(&c.SectorSize, o.SectorSize)
	if o.LegacyBlend != nil {
		c.LegacyBlend = *o.LegacyBlend
	}
	return c
}

// Problem is one rejected configuration value.
type Problem struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ValidationError lists every problem found in a configuration.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		if p.Field != "" {
			parts[i] = p.Field + ": " + p.Message
		} else {
			parts[i] = p.Message
		}
	}
	return "invalid configuration: " + strings.Join(parts, "; ")
}

// ThemeChecker reports whether a theme name is known.
type ThemeChecker interface {
	Has(name string) bool
}

// Validate checks c against the #Config schema and, when themes is non-nil,
// that the theme exists.
func (c Config) Validate(themes ThemeChecker) error {
	ctx := cuecontext.New()
	def, err := definition(ctx, "#Config")
	if err != nil {
		return err
	}

	var problems []Problem
	v := def.Unify(ctx.Encode(c))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		problems = append(problems, cueProblems(err)...)
	}
	if themes != nil && c.Theme != "" && !themes.Has(c.Theme) {
		problems = append(problems, Problem{Field: "theme", Message: fmt.Sprintf("unknown theme %q", c.Theme)})
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// definition compiles the embedded schema and returns the named definition.
func definition(ctx *cue.Context, name string) (cue.Value, error) {
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("config schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath(name))
	if err := def.Err(); err != nil {
		return cue.Value{}, fmt.Errorf("config schema %s: %w", name, err)
	}
	return def, nil
}

// cueProblems flattens a CUE error list into problems keyed by field path.
func cueProblems(err error) []Problem {
	var out []Problem
	for _, e := range cueerrors.Errors(err) {
		format, args := e.Msg()
		out = append(out, Problem{
			Field:   strings.Join(e.Path(), "."),
			Message: fmt.Sprintf(format, args...),
		})
	}
	if len(out) == 0 {
		out = append(out, Problem{Message: err.Error()})
	}
	return out
}
