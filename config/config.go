// Package config holds the settings of a bake. Every field has a default, so
// running without a configuration file reads ./dev/world.json and
// ./dev/strings.txt and writes world.dat.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EnvVar names the environment variable consulted when no path is given.
const EnvVar = "XARAX_CONFIG"

// Defaults
const (
	DefaultMap        = "./dev/world.json"
	DefaultScript     = "./dev/strings.txt"
	DefaultOutput     = "world.dat"
	DefaultHeader     = "!"
	DefaultTerminator = "."
	DefaultCodepage   = "utf-8"

	// DefaultMapTiles is two 256 by 256 groups per plane.
	DefaultMapTiles = 2 * 256 * 256
)

var errMarker = errors.New("config: marker must be a single byte")

type Config struct {
	Map              string `yaml:"map"`
	Script           string `yaml:"script"`
	Output           string `yaml:"output"`
	HeaderMarker     string `yaml:"header_marker"`
	TerminatorMarker string `yaml:"terminator_marker"`
	Codepage         string `yaml:"codepage"`
	MapTiles         int    `yaml:"map_tiles"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Map:              DefaultMap,
		Script:           DefaultScript,
		Output:           DefaultOutput,
		HeaderMarker:     DefaultHeader,
		TerminatorMarker: DefaultTerminator,
		Codepage:         DefaultCodepage,
		MapTiles:         DefaultMapTiles,
	}
}

// Load reads a YAML configuration file on top of the defaults. If path is
// empty the file named by XARAX_CONFIG is used, and if that is unset too the
// defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv(EnvVar)
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the markers are usable as line prefixes.
func (c *Config) Validate() error {
	if len(c.HeaderMarker) != 1 {
		return fmt.Errorf("header_marker %q: %w", c.HeaderMarker, errMarker)
	}
	if len(c.TerminatorMarker) != 1 {
		return fmt.Errorf("terminator_marker %q: %w", c.TerminatorMarker, errMarker)
	}
	if c.HeaderMarker == c.TerminatorMarker {
		return fmt.Errorf("config: header and terminator markers are both %q", c.HeaderMarker)
	}
	return nil
}
