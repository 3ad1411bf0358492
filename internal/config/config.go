// Package config loads the optional assay.yaml run configuration.
// Settings layer strictly: command-line flags override the config
// file, the config file overrides built-in defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/unbound-force/assay/internal/score"
)

// Duration is a time.Duration that unmarshals from YAML strings
// like "30s" or "2m".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("duration must be a string like \"30s\": %w", err)
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config is the assay.yaml document.
type Config struct {
	// Jobs is the worker count. Zero means one worker per CPU.
	Jobs int `yaml:"jobs"`

	// Timeout bounds one library invocation.
	Timeout Duration `yaml:"timeout"`

	// Verifier names the trusted adapter that re-reads written
	// workbooks.
	Verifier string `yaml:"verifier"`

	Adapters AdapterSelection `yaml:"adapters"`
	Compare  CompareSettings  `yaml:"compare"`

	// Rubric and Grades are optional sections; absent means the
	// published defaults.
	Rubric *RubricSettings `yaml:"rubric"`
	Grades *GradeSettings  `yaml:"grades"`
}

// AdapterSelection narrows the run to a subset of the registry.
// Empty include means every registered adapter; skip removes after
// inclusion.
type AdapterSelection struct {
	Include []string `yaml:"include"`
	Skip    []string `yaml:"skip"`
}

// CompareSettings tunes value comparison for cases that carry no
// explicit per-case policy.
type CompareSettings struct {
	// Tolerance is the absolute numeric tolerance. Zero means the
	// comparator default; negative demands exact equality.
	Tolerance float64 `yaml:"tolerance"`
}

// RubricSettings maps case outcomes to feature scores.
type RubricSettings struct {
	AllPass   int `yaml:"all_pass"`
	BasicOnly int `yaml:"basic_only"`
	Partial   int `yaml:"partial"`
	None      int `yaml:"none"`
	Green     int `yaml:"green"`
}

// GradeSettings holds the grade band breakpoints as fractions of
// green features.
type GradeSettings struct {
	S float64 `yaml:"s"`
	A float64 `yaml:"a"`
	B float64 `yaml:"b"`
}

// DefaultConfig returns the settings of a run with no config file
// and no flags.
func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads and parses a config file without defaults or
// validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadWithDefaults reads a config file and fills unset fields with
// defaults.
func LoadWithDefaults(path string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	return cfg, nil
}

// LoadAndValidate reads a config file, applies defaults, and
// validates. Unknown keys and suspicious-but-legal settings come
// back as warnings; invalid values come back as the error.
func LoadAndValidate(path string) (*Config, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	warnings := detectUnknownKeys(data)
	applyDefaults(&cfg)

	validationWarnings, err := Validate(&cfg)
	warnings = append(warnings, validationWarnings...)
	if err != nil {
		return nil, warnings, fmt.Errorf("config file %s: %w", path, err)
	}
	return &cfg, warnings, nil
}

// ScoreRubric converts the rubric section, falling back to the
// published rubric when the section is absent.
func (c *Config) ScoreRubric() score.Rubric {
	if c.Rubric == nil {
		return score.DefaultRubric()
	}
	return score.Rubric{
		AllPass:   c.Rubric.AllPass,
		BasicOnly: c.Rubric.BasicOnly,
		Partial:   c.Rubric.Partial,
		None:      c.Rubric.None,
		Green:     c.Rubric.Green,
	}
}

// GradeBands converts the grades section, falling back to the
// published bands when the section is absent.
func (c *Config) GradeBands() score.Bands {
	if c.Grades == nil {
		return score.DefaultBands()
	}
	return score.Bands{S: c.Grades.S, A: c.Grades.A, B: c.Grades.B}
}
