package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/brettbedarf/memvfs/internal/util"
	"gopkg.in/yaml.v3"
)

// ListOrder selects how sibling directories are ordered in listings
type ListOrder = string

const (
	// InsertionOrder lists siblings in the order they were attached
	InsertionOrder ListOrder = "insertion"
	// NameOrder lists siblings lexicographically by name
	NameOrder ListOrder = "name"
)

// CLI verbosity values accepted by [ConfigOverride].LogLvl
const (
	ErrorVerbose = iota + 1
	WarnVerbose
	InfoVerbose
	DebugVerbose
	TraceVerbose
)

// Default configuration constants. See [Config] for field descriptions.
const (
	DefaultLogLvl           = util.InfoLevel
	DefaultListOrder        = InsertionOrder
	DefaultIndentWidth      = 2
	DefaultEcho             = true
	DefaultSkipBlank        = true
	DefaultHaltOnParseError = false
)

// Config contains runtime configuration values for the filesystem and the
// script runner.
type Config struct {
	LogLvl           util.LogLevel // Internal log level (Default info)
	ListOrder        ListOrder     // Sibling order in listings, "insertion" or "name" (Default insertion)
	IndentWidth      int           // Spaces per depth level in listings (Default 2)
	Echo             bool          // Echo each input line before its output (Default true)
	SkipBlank        bool          // Skip blank and '#' comment lines instead of parsing them (Default true)
	HaltOnParseError bool          // Stop the run on an unrecognized command instead of reporting it (Default false)
}

// ConfigOverride uses pointer fields to distinguish between unset and zero values
// when loading partial configuration. See [Config] for field descriptions.
//
// NOTE: LogLvl is the CLI verbosity (1 error .. 5 trace), not a [util.LogLevel]
type ConfigOverride struct {
	LogLvl           *int    `yaml:"verbose,omitempty" json:"verbose,omitempty"`
	ListOrder        *string `yaml:"list_order,omitempty" json:"list_order,omitempty"`
	IndentWidth      *int    `yaml:"indent_width,omitempty" json:"indent_width,omitempty"`
	Echo             *bool   `yaml:"echo,omitempty" json:"echo,omitempty"`
	SkipBlank        *bool   `yaml:"skip_blank,omitempty" json:"skip_blank,omitempty"`
	HaltOnParseError *bool   `yaml:"halt_on_parse_error,omitempty" json:"halt_on_parse_error,omitempty"`
}

// NewDefaultConfig creates a new Config with all default values.
func NewDefaultConfig() *Config {
	return &Config{
		LogLvl:           DefaultLogLvl,
		ListOrder:        DefaultListOrder,
		IndentWidth:      DefaultIndentWidth,
		Echo:             DefaultEcho,
		SkipBlank:        DefaultSkipBlank,
		HaltOnParseError: DefaultHaltOnParseError,
	}
}

// NewConfig creates a Config from defaults with the override applied.
// A nil override yields the defaults.
func NewConfig(override *ConfigOverride) *Config {
	cfg := NewDefaultConfig()
	if override != nil {
		cfg.Merge(override)
	}
	return cfg
}

// VerboseToLogLevel converts a CLI verbosity between 1 (error) and 5 (trace)
// into a [util.LogLevel]. Out of range values are clamped.
func VerboseToLogLevel(verbose int) util.LogLevel {
	verbose = max(ErrorVerbose, min(verbose, TraceVerbose))
	logLvls := [5]util.LogLevel{util.ErrorLevel, util.WarnLevel, util.InfoLevel, util.DebugLevel, util.TraceLevel}
	return logLvls[verbose-1]
}

// Merge applies non-nil values from override onto this Config.
// This allows partial configuration updates while preserving existing values.
func (c *Config) Merge(override *ConfigOverride) {
	if override.LogLvl != nil {
		c.LogLvl = VerboseToLogLevel(*override.LogLvl)
	}
	if override.ListOrder != nil {
		c.ListOrder = *override.ListOrder
	}
	if override.IndentWidth != nil {
		c.IndentWidth = *override.IndentWidth
	}
	if override.Echo != nil {
		c.Echo = *override.Echo
	}
	if override.SkipBlank != nil {
		c.SkipBlank = *override.SkipBlank
	}
	if override.HaltOnParseError != nil {
		c.HaltOnParseError = *override.HaltOnParseError
	}
}

// Validate reports the first invalid field
func (c *Config) Validate() error {
	switch c.ListOrder {
	case InsertionOrder, NameOrder:
	default:
		return fmt.Errorf("unknown list order %q (expected %q or %q)", c.ListOrder, InsertionOrder, NameOrder)
	}
	if c.IndentWidth < 0 {
		return fmt.Errorf("indent width must not be negative, got %d", c.IndentWidth)
	}
	return nil
}

// LoadConfigOverrideFile loads configuration overrides from a file without merging.
// Supports both YAML (.yaml, .yml) and JSON (.json) formats.
func LoadConfigOverrideFile(path string) (*ConfigOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var override ConfigOverride

	// Determine format by file extension
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &override); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown config file extension: %s", path)
	}

	return &override, nil
}

// NewConfigFromFile creates a new Config by merging file overrides with defaults.
// This is a convenience function that combines NewDefaultConfig, LoadConfigOverrideFile, and Merge.
func NewConfigFromFile(path string) (*Config, error) {
	override, err := LoadConfigOverrideFile(path)
	if err != nil {
		return nil, err
	}
	cfg := NewConfig(override)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
