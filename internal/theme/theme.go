// Package theme defines the color palettes frames are drawn with.
package theme

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/text/cases"
	"gopkg.in/yaml.v3"

	"github.com/roach88/blkbuster/internal/trace"
)

// DefaultName is the theme used when none is configured.
const DefaultName = "classic"

// Theme maps each I/O direction and the background to a color.
type Theme struct {
	Name       string
	Read       colorful.Color
	Write      colorful.Color
	Discard    colorful.Color
	Background colorful.Color
}

// Color returns the color for direction d.
func (t Theme) Color(d trace.Direction) colorful.Color {
	switch d {
	case trace.Write:
		return t.Write
	case trace.Discard:
		return t.Discard
	default:
		return t.Read
	}
}

// Registry is a set of themes addressed by case-insensitive name.
// Populate it at startup; lookups are safe for concurrent use once no more
// themes are added.
type Registry struct {
	themes map[string]Theme
	order  []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{themes: make(map[string]Theme)}
}

// Builtin returns a registry holding the built-in themes.
func Builtin() *Registry {
	r := NewRegistry()
	for _, th := range builtins {
		if err := r.Add(th); err != nil {
			panic(err)
		}
	}
	return r
}

var builtins = []Theme{
	{
		// PIL's named colors, as the first renderings used.
		Name:       "classic",
		Read:       mustHex("#008000"),
		Write:      mustHex("#0000ff"),
		Discard:    mustHex("#ff0000"),
		Background: mustHex("#ffffff"),
	},
	{
		Name:       "dark",
		Read:       mustHex("#00ff7f"),
		Write:      mustHex("#1e90ff"),
		Discard:    mustHex("#ff4040"),
		Background: mustHex("#000000"),
	},
	{
		Name:       "solarized",
		Read:       mustHex("#859900"),
		Write:      mustHex("#268bd2"),
		Discard:    mustHex("#dc322f"),
		Background: mustHex("#002b36"),
	},
	{
		Name:       "amber",
		Read:       mustHex("#ffb000"),
		Write:      mustHex("#ffe0a0"),
		Discard:    mustHex("#ff5000"),
		Background: mustHex("#140c00"),
	},
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

func key(name string) string {
	return cases.Fold().String(strings.TrimSpace(name))
}

// Add registers th. Names must be unique ignoring case.
func (r *Registry) Add(th Theme) error {
	k := key(th.Name)
	if k == "" {
		return fmt.Errorf("theme name is empty")
	}
	if _, ok := r.themes[k]; ok {
		return fmt.Errorf("theme %q already defined", th.Name)
	}
	r.themes[k] = th
	r.order = append(r.order, th.Name)
	return nil
}

// Lookup returns the theme registered under name, ignoring case.
func (r *Registry) Lookup(name string) (Theme, error) {
	th, ok := r.themes[key(name)]
	if !ok {
		return Theme{}, fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(r.order, ", "))
	}
	return th, nil
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.themes[key(name)]
	return ok
}

// Names returns theme names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// File is the YAML layout of a custom theme file:
//
//	themes:
//	  - name: neon
//	    read: "#39ff14"
//	    write: "#00ffff"
//	    discard: "#ff00ff"
//	    background: "#000000"
type File struct {
	Themes []FileTheme `yaml:"themes"`
}

// FileTheme is one theme entry with hex colors.
type FileTheme struct {
	Name       string `yaml:"name"`
	Read       string `yaml:"read"`
	Write      string `yaml:"write"`
	Discard    string `yaml:"discard"`
	Background string `yaml:"background"`
}

// LoadFile adds every theme in the YAML file at path. Unknown fields are
// rejected so typos fail loudly.
func (r *Registry) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read theme file: %w", err)
	}

	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return fmt.Errorf("failed to parse theme file %s: %w", path, err)
	}

	for i, ft := range f.Themes {
		th, err := ft.Theme()
		if err != nil {
			return fmt.Errorf("%s: themes[%d]: %w", path, i, err)
		}
		if err := r.Add(th); err != nil {
			return fmt.Errorf("%s: themes[%d]: %w", path, i, err)
		}
	}
	return nil
}

// Theme parses the hex colors of ft.
func (ft FileTheme) Theme() (Theme, error) {
	th := Theme{Name: ft.Name}
	fields := []struct {
		name string
		hex  string
		dst  *colorful.Color
	}{
		{"read", ft.Read, &th.Read},
		{"write", ft.Write, &th.Write},
		{"discard", ft.Discard, &th.Discard},
		{"background", ft.Background, &th.Background},
	}
	for _, f := range fields {
		if f.hex == "" {
			return Theme{}, fmt.Errorf("theme %q: %s color is required", ft.Name, f.name)
		}
		c, err := colorful.Hex(f.hex)
		if err != nil {
			return Theme{}, fmt.Errorf("theme %q: %s color: %w", ft.Name, f.name, err)
		}
		*f.dst = c
	}
	return th, nil
}
