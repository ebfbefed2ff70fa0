// Package config loads the small YAML configuration file shared by
// cmd/ogzdump and cmd/ogzwatch.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ernie/ogzdecode/internal/ogz"
)

// Format selects the output rendering for ogzdump's dump subcommand.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Config is the typed config struct loaded from ~/.ogzdump.yaml (or a
// path given with --config).
type Config struct {
	Format    Format `yaml:"format"`
	Color     bool   `yaml:"color"`
	CachePath string `yaml:"cachePath"`
	// MinVersion and MaxVersion override the range of map versions
	// ogz.DecodeVersionRange accepts; both cmd/ogzdump and cmd/ogzwatch
	// decode with this range rather than ogz.Decode's built-in default,
	// so narrowing or widening it here takes effect everywhere.
	MinVersion       uint32 `yaml:"minVersion"`
	MaxVersion       uint32 `yaml:"maxVersion"`
	WatchSecret      string `yaml:"watchSecret"`
	WatchIntervalSec int    `yaml:"watchIntervalSec"`
}

// Default returns the built-in defaults used when no config file is
// present.
func Default() Config {
	return Config{
		Format:           FormatText,
		Color:            true,
		CachePath:        defaultCachePath(),
		MinVersion:       ogz.DefaultMinVersion,
		MaxVersion:       ogz.DefaultMaxVersion,
		WatchIntervalSec: 2,
	}
}

func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ogzdump-cache.db"
	}
	return filepath.Join(home, ".ogzdump-cache.db")
}

// DefaultPath returns ~/.ogzdump.yaml, falling back to a relative path
// if the home directory can't be resolved.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ogzdump.yaml"
	}
	return filepath.Join(home, ".ogzdump.yaml")
}

// Load reads and parses the YAML config file at path, filling in
// Default() for any field the file omits. A missing file is not an
// error: it yields the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
