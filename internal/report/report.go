// Package report renders run records and run comparisons as styled
// terminal text, markdown, and CSV. Every renderer is a pure
// projection of one or two records; nothing here mutates a run.
package report

import (
	"fmt"
	"sort"

	"github.com/unbound-force/assay/internal/record"
	"github.com/unbound-force/assay/internal/score"
)

// Options tunes rendering. The zero value uses the default rubric
// and grade bands.
type Options struct {
	Rubric score.Rubric
	Bands  score.Bands
}

// EffectiveRubric resolves the zero value to the published rubric.
func (o Options) EffectiveRubric() score.Rubric {
	if o.Rubric == (score.Rubric{}) {
		return score.DefaultRubric()
	}
	return o.Rubric
}

// EffectiveBands resolves the zero value to the published bands.
func (o Options) EffectiveBands() score.Bands {
	if o.Bands == (score.Bands{}) {
		return score.DefaultBands()
	}
	return o.Bands
}

// column is one library+mode column of the score matrix.
type column struct {
	library string
	mode    string
}

func (c column) title() string {
	if c.mode == record.ModeRead {
		return c.library + " (R)"
	}
	return c.library + " (W)"
}

// columns lists the matrix columns: libraries sorted by name, read
// before write, limited to each library's declared capabilities.
func columns(rec *record.Record) []column {
	names := make([]string, 0, len(rec.Libraries))
	for name := range rec.Libraries {
		names = append(names, name)
	}
	sort.Strings(names)

	var cols []column
	for _, name := range names {
		info := rec.Libraries[name]
		if hasCap(info.Capabilities, record.ModeRead) {
			cols = append(cols, column{library: name, mode: record.ModeRead})
		}
		if hasCap(info.Capabilities, record.ModeWrite) {
			cols = append(cols, column{library: name, mode: record.ModeWrite})
		}
	}
	return cols
}

func hasCap(caps []string, mode string) bool {
	for _, c := range caps {
		if c == mode {
			return true
		}
	}
	return false
}

// featureOrder returns the run's features in first-appearance order,
// which the runner fixes to catalog order.
func featureOrder(rec *record.Record) []string {
	seen := make(map[string]bool)
	var features []string
	for _, fr := range rec.Results {
		if !seen[fr.Feature] {
			seen[fr.Feature] = true
			features = append(features, fr.Feature)
		}
	}
	return features
}

// resultLookup indexes feature results by (feature, library).
func resultLookup(rec *record.Record) map[[2]string]record.FeatureResult {
	m := make(map[[2]string]record.FeatureResult, len(rec.Results))
	for _, fr := range rec.Results {
		m[[2]string{fr.Feature, fr.Library}] = fr
	}
	return m
}

// cell renders one matrix cell: emoji plus numeric score, or the
// not-applicable dash.
func cell(lookup map[[2]string]record.FeatureResult, feature string, col column) string {
	fr, ok := lookup[[2]string{feature, col.library}]
	if !ok {
		return score.Emoji(nil)
	}
	s := fr.Scores.ForMode(col.mode)
	if s == nil {
		return score.Emoji(nil)
	}
	return fmt.Sprintf("%s %d", score.Emoji(s), *s)
}

// failedCases lists a result's failing case IDs for one mode, in
// sorted order.
func failedCases(fr record.FeatureResult, mode string) []string {
	var ids []string
	for id, cr := range fr.Cases {
		if mr := cr.ForMode(mode); mr != nil && !mr.Passed {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
