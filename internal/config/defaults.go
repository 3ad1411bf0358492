package config

import (
	"time"

	"github.com/unbound-force/assay/internal/compare"
	"github.com/unbound-force/assay/internal/score"
)

// Default configuration values.
const (
	// DefaultTimeout keeps in step with the engine's per-invocation
	// limit.
	DefaultTimeout = Duration(10 * time.Second)

	// DefaultVerifier is the reference adapter trusted to re-read
	// written workbooks.
	DefaultVerifier = "excelize"
)

// applyDefaults fills unset fields so a loaded config always shows
// its effective values. Jobs stays zero, meaning one worker per CPU.
func applyDefaults(cfg *Config) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Verifier == "" {
		cfg.Verifier = DefaultVerifier
	}
	if cfg.Compare.Tolerance == 0 {
		cfg.Compare.Tolerance = compare.DefaultTolerance
	}
	if cfg.Rubric == nil {
		r := score.DefaultRubric()
		cfg.Rubric = &RubricSettings{
			AllPass:   r.AllPass,
			BasicOnly: r.BasicOnly,
			Partial:   r.Partial,
			None:      r.None,
			Green:     r.Green,
		}
	}
	if cfg.Grades == nil {
		b := score.DefaultBands()
		cfg.Grades = &GradeSettings{S: b.S, A: b.A, B: b.B}
	}
}
