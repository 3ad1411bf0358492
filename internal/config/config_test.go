package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "assay.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func hasWarning(warnings []string, substr string) bool {
	for _, w := range warnings {
		if strings.Contains(w, substr) {
			return true
		}
	}
	return false
}

func TestLoad_ValidFull(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, `
jobs: 4
timeout: 30s
verifier: tealeg
adapters:
  include: [excelize, tealeg]
  skip: [goxlsb]
compare:
  tolerance: 0.001
rubric:
  all_pass: 3
  basic_only: 2
  partial: 1
  none: 0
  green: 2
grades:
  s: 0.95
  a: 0.7
  b: 0.4
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Jobs != 4 {
		t.Errorf("Jobs = %d, want 4", cfg.Jobs)
	}
	if time.Duration(cfg.Timeout) != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", time.Duration(cfg.Timeout))
	}
	if cfg.Verifier != "tealeg" {
		t.Errorf("Verifier = %q, want tealeg", cfg.Verifier)
	}
	if len(cfg.Adapters.Include) != 2 || cfg.Adapters.Include[0] != "excelize" {
		t.Errorf("Adapters.Include = %v", cfg.Adapters.Include)
	}
	if len(cfg.Adapters.Skip) != 1 || cfg.Adapters.Skip[0] != "goxlsb" {
		t.Errorf("Adapters.Skip = %v", cfg.Adapters.Skip)
	}
	if cfg.Compare.Tolerance != 0.001 {
		t.Errorf("Tolerance = %g, want 0.001", cfg.Compare.Tolerance)
	}
	if cfg.Rubric == nil || cfg.Rubric.Green != 2 {
		t.Errorf("Rubric = %+v, want green 2", cfg.Rubric)
	}
	if cfg.Grades == nil || cfg.Grades.S != 0.95 {
		t.Errorf("Grades = %+v, want s 0.95", cfg.Grades)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	t.Parallel()
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("Load() expected error for missing file")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error should wrap fs.ErrNotExist, got %v", err)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "jobs: [not a number\n")
	if _, err := Load(path); err == nil {
		t.Fatal("Load() expected error for invalid YAML")
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "timeout: banana\n")
	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() expected error for bad duration")
	}
	if !strings.Contains(err.Error(), "invalid duration") {
		t.Errorf("error = %q, want mention of invalid duration", err)
	}
}

func TestLoadWithDefaults_FillsUnset(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "jobs: 2\n")

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults() error = %v", err)
	}
	if cfg.Jobs != 2 {
		t.Errorf("Jobs = %d, want 2", cfg.Jobs)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want default", time.Duration(cfg.Timeout))
	}
	if cfg.Verifier != DefaultVerifier {
		t.Errorf("Verifier = %q, want %q", cfg.Verifier, DefaultVerifier)
	}
	if cfg.Compare.Tolerance != 1e-4 {
		t.Errorf("Tolerance = %g, want 1e-4", cfg.Compare.Tolerance)
	}
	if cfg.Rubric == nil || cfg.Rubric.AllPass != 3 || cfg.Rubric.Green != 3 {
		t.Errorf("Rubric = %+v, want published defaults", cfg.Rubric)
	}
	if cfg.Grades == nil || cfg.Grades.S != 1 || cfg.Grades.B != 0.5 {
		t.Errorf("Grades = %+v, want published defaults", cfg.Grades)
	}
}

func TestDefaultConfig_EffectiveValues(t *testing.T) {
	t.Parallel()
	cfg := DefaultConfig()
	if cfg.Jobs != 0 {
		t.Errorf("Jobs = %d, want 0 (one worker per CPU)", cfg.Jobs)
	}
	if time.Duration(cfg.Timeout) != 10*time.Second {
		t.Errorf("Timeout = %v, want 10s", time.Duration(cfg.Timeout))
	}
	if cfg.Verifier != "excelize" {
		t.Errorf("Verifier = %q, want excelize", cfg.Verifier)
	}
}

func TestLoadAndValidate_UnknownKeysWarn(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, `
workers: 9
rubric:
  all_pass: 3
  basic_only: 2
  partial: 1
  none: 0
  green: 3
  shiny: 1
`)

	cfg, warnings, err := LoadAndValidate(path)
	if err != nil {
		t.Fatalf("LoadAndValidate() error = %v", err)
	}
	if cfg == nil {
		t.Fatal("config should load despite unknown keys")
	}
	if !hasWarning(warnings, `unknown key "workers"`) {
		t.Errorf("warnings = %v, want unknown root key warning", warnings)
	}
	if !hasWarning(warnings, `unknown key "shiny" in rubric`) {
		t.Errorf("warnings = %v, want unknown nested key warning", warnings)
	}
}

func TestLoadAndValidate_InvertedRubricRejected(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, `
rubric:
  all_pass: 1
  basic_only: 2
  partial: 1
  none: 0
  green: 1
`)

	_, _, err := LoadAndValidate(path)
	if err == nil {
		t.Fatal("expected error for inverted rubric")
	}
	if !strings.Contains(err.Error(), "config file") {
		t.Errorf("error should mention the config file, got: %v", err)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "rubric" {
		t.Errorf("error = %v, want rubric ValidationError", err)
	}
}

func TestLoadAndValidate_GreenAboveAllPassRejected(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, `
rubric:
  all_pass: 3
  basic_only: 2
  partial: 1
  none: 0
  green: 4
`)

	_, _, err := LoadAndValidate(path)
	if err == nil {
		t.Fatal("expected error for green above all_pass")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "rubric.green" {
		t.Errorf("error = %v, want rubric.green ValidationError", err)
	}
}

func TestLoadAndValidate_InvertedGradesRejected(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, `
grades:
  s: 0.5
  a: 0.75
  b: 0.25
`)

	_, _, err := LoadAndValidate(path)
	if err == nil {
		t.Fatal("expected error for inverted grade bands")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "grades" {
		t.Errorf("error = %v, want grades ValidationError", err)
	}
}

func TestLoadAndValidate_IncludeSkipOverlapWarns(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, `
adapters:
  include: [excelize, tealeg]
  skip: [excelize]
`)

	_, warnings, err := LoadAndValidate(path)
	if err != nil {
		t.Fatalf("LoadAndValidate() error = %v", err)
	}
	if !hasWarning(warnings, "both included and skipped") {
		t.Errorf("warnings = %v, want include/skip overlap warning", warnings)
	}
}

func TestLoadAndValidate_LargeToleranceWarns(t *testing.T) {
	t.Parallel()
	path := writeConfig(t, "compare:\n  tolerance: 2\n")

	_, warnings, err := LoadAndValidate(path)
	if err != nil {
		t.Fatalf("LoadAndValidate() error = %v", err)
	}
	if !hasWarning(warnings, "unusually large") {
		t.Errorf("warnings = %v, want tolerance warning", warnings)
	}
}

func TestValidate_NegativeJobs(t *testing.T) {
	t.Parallel()
	_, err := Validate(&Config{Jobs: -1, Verifier: "excelize"})
	if err == nil {
		t.Fatal("expected error for negative jobs")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "jobs" {
		t.Errorf("error = %v, want jobs ValidationError", err)
	}
}

func TestScoreRubric_Conversion(t *testing.T) {
	t.Parallel()
	raw := &Config{}
	if got := raw.ScoreRubric(); got.AllPass != 3 || got.Green != 3 {
		t.Errorf("nil section rubric = %+v, want published defaults", got)
	}

	cfg := &Config{Rubric: &RubricSettings{AllPass: 5, BasicOnly: 3, Partial: 2, None: 1, Green: 4}}
	got := cfg.ScoreRubric()
	if got.AllPass != 5 || got.BasicOnly != 3 || got.Partial != 2 || got.None != 1 || got.Green != 4 {
		t.Errorf("rubric = %+v, want converted section values", got)
	}
}

func TestGradeBands_Conversion(t *testing.T) {
	t.Parallel()
	raw := &Config{}
	if got := raw.GradeBands(); got.S != 1 || got.A != 0.75 || got.B != 0.5 {
		t.Errorf("nil section bands = %+v, want published defaults", got)
	}

	cfg := &Config{Grades: &GradeSettings{S: 0.9, A: 0.6, B: 0.3}}
	if got := cfg.GradeBands(); got.S != 0.9 || got.A != 0.6 || got.B != 0.3 {
		t.Errorf("bands = %+v, want converted section values", got)
	}
}
