// Package delta diffs two benchmark runs at (library, feature,
// mode) granularity, classifying every score movement as a
// regression or an improvement.
package delta

import (
	"encoding/json"
	"io"
	"sort"
	"time"

	"github.com/unbound-force/assay/internal/record"
)

// RunRef identifies one input run of a diff.
type RunRef struct {
	RunID     string    `json:"run_id"`
	Generated time.Time `json:"generated"`
	Digest    string    `json:"digest,omitempty"`
}

// Entry is one (library, feature, mode) score movement. Prev or
// Curr is nil when the key exists in only one run.
type Entry struct {
	Library string `json:"library"`
	Feature string `json:"feature"`
	Mode    string `json:"mode"`
	Prev    *int   `json:"previous"`
	Curr    *int   `json:"current"`
	Delta   int    `json:"delta"`
}

// Report is the diff of two runs. Changes lists every key scored in
// both runs with a moved score; keys entering or leaving the grid
// are listed separately and stay out of the counters and Net.
type Report struct {
	Previous RunRef `json:"previous"`
	Current  RunRef `json:"current"`

	Regressions  int `json:"regressions"`
	Improvements int `json:"improvements"`
	Unchanged    int `json:"unchanged"`

	// Net is the sum of signed deltas over Changes.
	Net int `json:"net_score_change"`

	Changes []Entry `json:"changes"`
	Added   []Entry `json:"added,omitempty"`
	Removed []Entry `json:"removed,omitempty"`
}

// RegressionEntries returns the changed keys that lost score.
func (r *Report) RegressionEntries() []Entry {
	var out []Entry
	for _, e := range r.Changes {
		if e.Delta < 0 {
			out = append(out, e)
		}
	}
	return out
}

// ImprovementEntries returns the changed keys that gained score.
func (r *Report) ImprovementEntries() []Entry {
	var out []Entry
	for _, e := range r.Changes {
		if e.Delta > 0 {
			out = append(out, e)
		}
	}
	return out
}

// key addresses one score slot across runs.
type key struct {
	library string
	feature string
	mode    string
}

// collect flattens a record's scored slots. NA slots do not appear;
// at diff granularity an NA mode and an absent key are the same.
func collect(rec *record.Record) map[key]int {
	out := map[key]int{}
	for _, fr := range rec.Results {
		for _, mode := range record.Modes {
			if s := fr.Scores.ForMode(mode); s != nil {
				out[key{fr.Library, fr.Feature, mode}] = *s
			}
		}
	}
	return out
}

// Compute diffs two runs. The result depends only on the two score
// sets, never on result ordering, so identical inputs always give
// the identical report.
func Compute(prev, curr *record.Record) *Report {
	rep := &Report{
		Previous: runRef(prev),
		Current:  runRef(curr),
		Changes:  []Entry{},
	}

	prevScores := collect(prev)
	currScores := collect(curr)

	for k, pv := range prevScores {
		cv, ok := currScores[k]
		if !ok {
			p := pv
			rep.Removed = append(rep.Removed, Entry{
				Library: k.library, Feature: k.feature, Mode: k.mode, Prev: &p,
			})
			continue
		}
		if cv == pv {
			rep.Unchanged++
			continue
		}
		p, c := pv, cv
		d := cv - pv
		rep.Changes = append(rep.Changes, Entry{
			Library: k.library, Feature: k.feature, Mode: k.mode,
			Prev: &p, Curr: &c, Delta: d,
		})
		rep.Net += d
		if d < 0 {
			rep.Regressions++
		} else {
			rep.Improvements++
		}
	}

	for k, cv := range currScores {
		if _, ok := prevScores[k]; !ok {
			c := cv
			rep.Added = append(rep.Added, Entry{
				Library: k.library, Feature: k.feature, Mode: k.mode, Curr: &c,
			})
		}
	}

	sortEntries(rep.Changes)
	sortEntries(rep.Added)
	sortEntries(rep.Removed)
	return rep
}

func runRef(rec *record.Record) RunRef {
	return RunRef{
		RunID:     rec.Metadata.RunID,
		Generated: rec.Metadata.Generated,
		Digest:    rec.Metadata.Digest,
	}
}

func sortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Library != b.Library {
			return a.Library < b.Library
		}
		if a.Feature != b.Feature {
			return a.Feature < b.Feature
		}
		return a.Mode < b.Mode
	})
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
