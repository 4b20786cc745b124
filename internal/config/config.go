// Package config holds project-level constants and the optional
// .compiscript.yaml file read from the directory of the source file.
// Command-line flags override file values, which override defaults.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// SourceFileExt is the canonical source extension.
const SourceFileExt = ".cps"

// FileName is the per-project configuration file name.
const FileName = ".compiscript.yaml"

// MIPS holds backend output options.
type MIPS struct {
	// Output is the assembly destination: a path, or "-" for stdout.
	// Empty means "<input>.asm".
	Output string `yaml:"output"`
}

// Config is the on-disk configuration shape.
type Config struct {
	// Color forces diagnostics styling on or off; unset follows the
	// terminal.
	Color *bool `yaml:"color"`

	// ContextLines, when positive, adds the caret-formatted listing of
	// every diagnostic; each entry shows only the offending source line.
	ContextLines int `yaml:"context-lines"`

	MIPS MIPS `yaml:"mips"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{ContextLines: 0}
}

// Load reads the config file next to the given source path. A missing
// file is not an error; a malformed one is.
func Load(sourcePath string) (*Config, error) {
	cfg := Default()

	path := filepath.Join(filepath.Dir(sourcePath), FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// HasSourceExt reports whether the path ends with the source extension.
func HasSourceExt(path string) bool {
	return strings.HasSuffix(path, SourceFileExt)
}

// TrimSourceExt removes the source extension, if present.
func TrimSourceExt(name string) string {
	return strings.TrimSuffix(name, SourceFileExt)
}
