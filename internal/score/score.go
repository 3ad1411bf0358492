// Package score reduces case verdicts into feature scores, library
// rollups, and grade bands.
package score

import (
	"github.com/unbound-force/assay/internal/corpus"
)

// Rubric maps verdict patterns to numeric scores. The default is
// the published 0-3 scale; the values are configurable but must
// stay within 0-3 for records to validate.
type Rubric struct {
	// AllPass is awarded when every case passes.
	AllPass int

	// BasicOnly is awarded when every basic case passes but at
	// least one edge case fails.
	BasicOnly int

	// Partial is awarded when some but not all basic cases pass.
	Partial int

	// None is awarded when no basic case passes.
	None int

	// Green is the minimum score that counts a feature as green.
	Green int
}

// DefaultRubric returns the published scoring policy.
func DefaultRubric() Rubric {
	return Rubric{AllPass: 3, BasicOnly: 2, Partial: 1, None: 0, Green: 3}
}

// Outcome is one executed case verdict. Cases without an edge tag
// count as basic.
type Outcome struct {
	Importance corpus.Importance
	Passed     bool
}

// Compute reduces one (library, feature, mode) outcome set to a
// score. A feature with no basic-tagged cases treats every case as
// basic. Edge results only separate AllPass from BasicOnly; a
// passing edge case never lifts a feature out of None.
func Compute(outcomes []Outcome, r Rubric) int {
	if len(outcomes) == 0 {
		return r.None
	}

	basicTotal, basicPassed, failed := 0, 0, 0
	for _, o := range outcomes {
		if !o.Passed {
			failed++
		}
		if o.Importance != corpus.ImportanceEdge {
			basicTotal++
			if o.Passed {
				basicPassed++
			}
		}
	}

	if basicTotal == 0 {
		for _, o := range outcomes {
			basicTotal++
			if o.Passed {
				basicPassed++
			}
		}
	}

	switch {
	case failed == 0:
		return r.AllPass
	case basicPassed == basicTotal:
		return r.BasicOnly
	case basicPassed > 0:
		return r.Partial
	default:
		return r.None
	}
}

// Emoji returns the matrix marker for a score pointer. nil is the
// not_applicable marker.
func Emoji(score *int) string {
	if score == nil {
		return "➖"
	}
	switch *score {
	case 3:
		return "🟢"
	case 2:
		return "🟡"
	case 1:
		return "🟠"
	default:
		return "🔴"
	}
}

// Label returns the legend meaning for a score pointer.
func Label(score *int) string {
	if score == nil {
		return "Not applicable (library doesn't support this operation)"
	}
	switch *score {
	case 3:
		return "Complete - full fidelity"
	case 2:
		return "Functional - works for common cases"
	case 1:
		return "Minimal - basic recognition only"
	default:
		return "Unsupported - errors or data loss"
	}
}

// LegendEntry pairs a score marker with its meaning.
type LegendEntry struct {
	Marker string
	Label  string
}

// Legend lists the markers with their meanings in display order.
func Legend() []LegendEntry {
	return []LegendEntry{
		{"🟢 3", "Complete - full fidelity"},
		{"🟡 2", "Functional - works for common cases"},
		{"🟠 1", "Minimal - basic recognition only"},
		{"🔴 0", "Unsupported - errors or data loss"},
		{"➖", "Not applicable (library doesn't support this operation)"},
	}
}
