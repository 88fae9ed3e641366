package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"gopkg.in/yaml.v3"
)

// LoadFile reads overrides from a .yaml, .yml or .cue file.
func LoadFile(path string) (Overrides, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Overrides{}, fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return parseYAML(path, data)
	case ".cue":
		return parseCUE(path, data)
	default:
		return Overrides{}, fmt.Errorf("config file %s: unsupported extension (want .yaml, .yml or .cue)", path)
	}
}

// parseYAML decodes strictly: unknown keys are errors.
func parseYAML(path string, data []byte) (Overrides, error) {
	var o Overrides
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&o); err != nil {
		if errors.Is(err, io.EOF) {
			return o, nil
		}
		return Overrides{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return o, nil
}

// parseCUE compiles the file, checks it against #Overrides and decodes it.
func parseCUE(path string, data []byte) (Overrides, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return Overrides{}, fmt.Errorf("failed to compile config file %s: %w", path, err)
	}

	def, err := definition(ctx, "#Overrides")
	if err != nil {
		return Overrides{}, err
	}
	v = def.Unify(v)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return Overrides{}, fmt.Errorf("config file %s: %w", path, &ValidationError{Problems: cueProblems(err)})
	}

	var o Overrides
	if err := v.Decode(&o); err != nil {
		return Overrides{}, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}
	return o, nil
}
