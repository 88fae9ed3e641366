package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type themeSet map[string]bool

func (s themeSet) Has(name string) bool { return s[name] }

var known = themeSet{"classic": true, "dark": true}

func TestDefaults_AreValid(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, cfg.Validate(known))
	assert.Equal(t, 60.0, cfg.FrameRate)
	assert.Equal(t, 3840, cfg.Width)
	assert.Equal(t, 2160, cfg.Height)
	assert.Equal(t, "classic", cfg.Theme)
}

func TestFrameIntervalAndSpan(t *testing.T) {
	cfg := Defaults()
	cfg.FrameRate = 4
	cfg.Window = 0.5
	assert.Equal(t, 0.25, cfg.FrameInterval())
	assert.Equal(t, 0.75, cfg.Span())
}

func TestValidate_RejectsNonPositiveValues(t *testing.T) {
	tests := []struct {
		field  string
		mutate func(*Config)
	}{
		{"frame_rate", func(c *Config) { c.FrameRate = 0 }},
		{"frame_rate", func(c *Config) { c.FrameRate = -30 }},
		{"width", func(c *Config) { c.Width = 0 }},
		{"height", func(c *Config) { c.Height = -1 }},
		{"stripes", func(c *Config) { c.Stripes = 0 }},
		{"decay", func(c *Config) { c.Decay = 0 }},
		{"window", func(c *Config) { c.Window = -0.5 }},
		{"workers", func(c *Config) { c.Workers = -1 }},
		{"sector_size", func(c *Config) { c.SectorSize = 0 }},
		{"theme", func(c *Config) { c.Theme = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)

			err := cfg.Validate(known)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestValidate_CollectsEveryProblem(t *testing.T) {
	cfg := Defaults()
	cfg.Width = 0
	cfg.Stripes = 0

	err := cfg.Validate(known)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.GreaterOrEqual(t, len(ve.Problems), 2)
	assert.Contains(t, err.Error(), "width")
	assert.Contains(t, err.Error(), "stripes")
}

func TestValidate_UnknownTheme(t *testing.T) {
	cfg := Defaults()
	cfg.Theme = "plaid"

	err := cfg.Validate(known)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []Problem{{Field: "theme", Message: `unknown theme "plaid"`}}, ve.Problems)

	assert.NoError(t, cfg.Validate(nil), "theme existence is only checked with a registry")
}

func TestApply(t *testing.T) {
	fr := 30.0
	theme := "dark"
	legacy := true
	w := 640

	cfg := Defaults().Apply(Overrides{
		FrameRate:   &fr,
		Theme:       &theme,
		LegacyBlend: &legacy,
		Width:       &w,
	})

	assert.Equal(t, 30.0, cfg.FrameRate)
	assert.Equal(t, "dark", cfg.Theme)
	assert.True(t, cfg.LegacyBlend)
	assert.Equal(t, 640, cfg.Width)
	assert.Equal(t, 2160, cfg.Height, "unset fields keep their value")
	assert.Equal(t, Defaults(), Defaults().Apply(Overrides{}))
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadFile_YAML(t *testing.T) {
	path := writeFile(t, "render.yaml", "frame_rate: 24\nwidth: 1280\nheight: 720\ntheme: dark\nlegacy_blend: true\n")

	o, err := LoadFile(path)
	require.NoError(t, err)

	cfg := Defaults().Apply(o)
	assert.Equal(t, 24.0, cfg.FrameRate)
	assert.Equal(t, 1280, cfg.Width)
	assert.Equal(t, 720, cfg.Height)
	assert.Equal(t, "dark", cfg.Theme)
	assert.True(t, cfg.LegacyBlend)
	assert.Equal(t, 256, cfg.Stripes)
}

func TestLoadFile_EmptyYAML(t *testing.T) {
	o, err := LoadFile(writeFile(t, "empty.yml", ""))
	require.NoError(t, err)
	assert.Equal(t, Overrides{}, o)
}

func TestLoadFile_YAMLUnknownField(t *testing.T) {
	_, err := LoadFile(writeFile(t, "render.yaml", "frame_rat: 24\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "frame_rat")
}

func TestLoadFile_CUE(t *testing.T) {
	path := writeFile(t, "render.cue", "frame_rate: 30\nstripes: 64\ndecay: 0.25\ntheme: \"dark\"\n")

	o, err := LoadFile(path)
	require.NoError(t, err)

	cfg := Defaults().Apply(o)
	assert.Equal(t, 30.0, cfg.FrameRate)
	assert.Equal(t, 64, cfg.Stripes)
	assert.Equal(t, 0.25, cfg.Decay)
	assert.Equal(t, "dark", cfg.Theme)
	assert.Nil(t, o.Width)
}

func TestLoadFile_CUEUnknownField(t *testing.T) {
	_, err := LoadFile(writeFile(t, "render.cue", "colour: \"red\"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "colour")
}

func TestLoadFile_CUEWrongType(t *testing.T) {
	_, err := LoadFile(writeFile(t, "render.cue", "width: \"wide\"\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "width")
}

func TestLoadFile_Errors(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read config file")

	_, err = LoadFile(writeFile(t, "render.toml", "width = 3"))
	assert.ErrorContains(t, err, "unsupported extension")
}
