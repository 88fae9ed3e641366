package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/blkbuster/internal/config"
	"github.com/roach88/blkbuster/internal/theme"
	"github.com/roach88/blkbuster/internal/trace"
)

// ConfigFlags holds the rendering flags shared by render, frame and inspect.
// Only flags set on the command line override the config file.
type ConfigFlags struct {
	ConfigFile string
	ThemesFile string

	FrameRate   float64
	Width       int
	Height      int
	Stripes     int
	Decay       float64
	Window      float64
	Theme       string
	Workers     int
	SectorSize  int
	LegacyBlend bool
}

func (f *ConfigFlags) register(cmd *cobra.Command) {
	d := config.Defaults()
	fs := cmd.Flags()
	fs.StringVarP(&f.ConfigFile, "config", "c", "", "config file (.yaml, .yml or .cue)")
	fs.StringVar(&f.ThemesFile, "themes-file", "", "YAML file with extra themes")
	fs.Float64Var(&f.FrameRate, "fps", d.FrameRate, "frames per second")
	fs.IntVar(&f.Width, "width", d.Width, "frame width in pixels")
	fs.IntVar(&f.Height, "height", d.Height, "frame height in pixels")
	fs.IntVar(&f.Stripes, "stripes", d.Stripes, "rows the address space is folded into")
	fs.Float64Var(&f.Decay, "decay", d.Decay, "fade time constant in seconds")
	fs.Float64Var(&f.Window, "window", d.Window, "seconds an event stays on screen")
	fs.StringVar(&f.Theme, "theme", d.Theme, "color theme")
	fs.IntVar(&f.Workers, "workers", d.Workers, "frames rendered concurrently (0 = GOMAXPROCS)")
	fs.IntVar(&f.SectorSize, "sector-size", d.SectorSize, "bytes per blkparse sector")
	fs.BoolVar(&f.LegacyBlend, "legacy-blend", d.LegacyBlend, "blend every channel against the background's blue channel")
}

// overrides returns the flags the user set explicitly.
func (f *ConfigFlags) overrides(cmd *cobra.Command) config.Overrides {
	changed := cmd.Flags().Changed
	var o config.Overrides
	if changed("fps") {
		o.FrameRate = &f.FrameRate
	}
	if changed("width") {
		o.Width = &f.Width
	}
	if changed("height") {
		o.Height = &f.Height
	}
	if changed("stripes") {
		o.Stripes = &f.Stripes
	}
	if changed("decay") {
		o.Decay = &f.Decay
	}
	if changed("window") {
		o.Window = &f.Window
	}
	if changed("theme") {
		o.Theme = &f.Theme
	}
	if changed("workers") {
		o.Workers = &f.Workers
	}
	if changed("sector-size") {
		o.SectorSize = &f.SectorSize
	}
	if changed("legacy-blend") {
		o.LegacyBlend = &f.LegacyBlend
	}
	return o
}

// themes returns the built-in themes plus any from --themes-file.
func (f *ConfigFlags) themes() (*theme.Registry, error) {
	reg := theme.Builtin()
	if f.ThemesFile == "" {
		return reg, nil
	}
	if err := reg.LoadFile(f.ThemesFile); err != nil {
		return nil, codedError(ExitCommandError, ErrCodeInvalidConfig, "failed to load themes", err)
	}
	return reg, nil
}

// resolve layers defaults, the config file and explicit flags, then validates
// the result.
func (f *ConfigFlags) resolve(cmd *cobra.Command) (config.Config, theme.Theme, error) {
	cfg := config.Defaults()
	if f.ConfigFile != "" {
		o, err := config.LoadFile(f.ConfigFile)
		if err != nil {
			return config.Config{}, theme.Theme{}, configError("failed to load config", err)
		}
		cfg = cfg.Apply(o)
	}
	cfg = cfg.Apply(f.overrides(cmd))

	reg, err := f.themes()
	if err != nil {
		return config.Config{}, theme.Theme{}, err
	}
	if err := cfg.Validate(reg); err != nil {
		return config.Config{}, theme.Theme{}, configError("invalid configuration", err)
	}
	th, err := reg.Lookup(cfg.Theme)
	if err != nil {
		return config.Config{}, theme.Theme{}, configError("invalid configuration", err)
	}
	return cfg, th, nil
}

// sectorSize is the unit used to parse trace text for commands that take no
// full config.
func sectorSize(n int) (uint64, error) {
	if n <= 0 {
		return 0, NewExitError(ExitCommandError, fmt.Sprintf("sector size must be positive, got %d", n))
	}
	return uint64(n), nil
}

func configError(message string, err error) *ExitError {
	e := codedError(ExitCommandError, ErrCodeInvalidConfig, message, err)
	var ve *config.ValidationError
	if errors.As(err, &ve) {
		e.Details = ve.Problems
	}
	return e
}

// defaultSectorSize mirrors the parser default so flag help stays accurate.
const defaultSectorSize = int(trace.DefaultSectorSize)
