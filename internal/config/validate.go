package config

import (
	"fmt"
)

// ValidationError is a fatal configuration error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks a configuration for errors and returns warnings
// for legal but suspicious settings.
func Validate(cfg *Config) (warnings []string, err error) {
	if cfg.Jobs < 0 {
		return nil, &ValidationError{Field: "jobs", Message: "must be zero or positive"}
	}
	if cfg.Verifier == "" {
		return nil, &ValidationError{Field: "verifier", Message: "is required"}
	}
	if err := validateRubric(cfg.Rubric); err != nil {
		return nil, err
	}
	if err := validateGrades(cfg.Grades); err != nil {
		return nil, err
	}

	skipped := map[string]bool{}
	for _, name := range cfg.Adapters.Skip {
		skipped[name] = true
	}
	for _, name := range cfg.Adapters.Include {
		if skipped[name] {
			warnings = append(warnings,
				fmt.Sprintf("adapter %q is both included and skipped; skip wins", name))
		}
	}

	if cfg.Compare.Tolerance > 1 {
		warnings = append(warnings,
			fmt.Sprintf("comparison tolerance %g is unusually large", cfg.Compare.Tolerance))
	}

	return warnings, nil
}

// validateRubric requires strictly descending scores so every case
// outcome maps to a distinct tier.
func validateRubric(r *RubricSettings) error {
	if r == nil {
		return nil
	}
	if r.None < 0 {
		return &ValidationError{Field: "rubric.none", Message: "must be zero or positive"}
	}
	if !(r.AllPass > r.BasicOnly && r.BasicOnly > r.Partial && r.Partial > r.None) {
		return &ValidationError{
			Field:   "rubric",
			Message: "scores must descend: all_pass > basic_only > partial > none",
		}
	}
	if r.Green < 1 || r.Green > r.AllPass {
		return &ValidationError{
			Field:   "rubric.green",
			Message: fmt.Sprintf("must be between 1 and all_pass (%d)", r.AllPass),
		}
	}
	return nil
}

// validateGrades requires ordered breakpoints inside (0, 1].
func validateGrades(g *GradeSettings) error {
	if g == nil {
		return nil
	}
	if !(g.B > 0 && g.B <= g.A && g.A <= g.S && g.S <= 1) {
		return &ValidationError{
			Field:   "grades",
			Message: "breakpoints must satisfy 0 < b <= a <= s <= 1",
		}
	}
	return nil
}
