// Package config holds the immutable run configuration for rendering.
//
// A Config is assembled in three layers: Defaults, then an optional file
// (YAML or CUE), then explicit command-line flags. Each layer is expressed as
// Overrides, where a nil field means "keep the value below". The final Config
// is validated against the #Config definition in schema.cue before any
// rendering component is constructed, and is never mutated afterwards.
package config
