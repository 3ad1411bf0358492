package score

import (
	"sort"

	"github.com/unbound-force/assay/internal/adapter"
	"github.com/unbound-force/assay/internal/record"
)

// Grade is a library ranking bucket.
type Grade string

// Ranking buckets, best first.
const (
	GradeS Grade = "S"
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
)

// Bands holds the green-fraction breakpoints separating grades. The
// fraction is a library's best-mode green count over the run's
// feature count.
type Bands struct {
	S float64
	A float64
	B float64
}

// DefaultBands returns the published grade breakpoints: S is a full
// sweep, C is anything green at all, D is nothing green.
func DefaultBands() Bands {
	return Bands{S: 1, A: 0.75, B: 0.5}
}

// GradeFor buckets a green count against the run's feature total.
func (b Bands) GradeFor(green, total int) Grade {
	if total <= 0 || green <= 0 {
		return GradeD
	}
	frac := float64(green) / float64(total)
	switch {
	case frac >= b.S:
		return GradeS
	case frac >= b.A:
		return GradeA
	case frac >= b.B:
		return GradeB
	default:
		return GradeC
	}
}

// Summary is one library's rollup across a run.
type Summary struct {
	Library string

	// Caps is the capability label: "R+W", "R" or "W".
	Caps string

	// GreenRead and GreenWrite count features at or above the
	// rubric's green threshold per mode.
	GreenRead  int
	GreenWrite int

	// BestGreen is the larger of the two green counts; rollups and
	// grades use the library's stronger mode.
	BestGreen int

	// Scored counts features with at least one scored mode.
	Scored int

	// Executed and Passed count individual case invocations.
	Executed int
	Passed   int

	Grade Grade
}

// PassRate returns the percentage of executed cases that passed.
func (s Summary) PassRate() float64 {
	if s.Executed == 0 {
		return 0
	}
	return float64(s.Passed) / float64(s.Executed) * 100
}

// Summarize rolls a run's results up per library, sorted by best
// green count descending, then name. Libraries with no scored
// feature are omitted.
func Summarize(rec *record.Record, r Rubric, b Bands) []Summary {
	type tally struct {
		greenRead   int
		greenWrite  int
		scoredRead  int
		scoredWrite int
		executed    int
		passed      int
	}

	tallies := map[string]*tally{}
	features := map[string]bool{}

	for _, fr := range rec.Results {
		features[fr.Feature] = true

		t := tallies[fr.Library]
		if t == nil {
			t = &tally{}
			tallies[fr.Library] = t
		}

		if s := fr.Scores.Read; s != nil {
			t.scoredRead++
			if *s >= r.Green {
				t.greenRead++
			}
		}
		if s := fr.Scores.Write; s != nil {
			t.scoredWrite++
			if *s >= r.Green {
				t.greenWrite++
			}
		}

		for _, cr := range fr.Cases {
			for _, mode := range record.Modes {
				if mr := cr.ForMode(mode); mr != nil {
					t.executed++
					if mr.Passed {
						t.passed++
					}
				}
			}
		}
	}

	total := len(features)
	summaries := make([]Summary, 0, len(tallies))
	for lib, t := range tallies {
		scored := max(t.scoredRead, t.scoredWrite)
		if scored == 0 {
			continue
		}
		best := max(t.greenRead, t.greenWrite)
		summaries = append(summaries, Summary{
			Library:    lib,
			Caps:       capsLabel(rec.Libraries[lib].Capabilities),
			GreenRead:  t.greenRead,
			GreenWrite: t.greenWrite,
			BestGreen:  best,
			Scored:     scored,
			Executed:   t.executed,
			Passed:     t.passed,
			Grade:      b.GradeFor(best, total),
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].BestGreen != summaries[j].BestGreen {
			return summaries[i].BestGreen > summaries[j].BestGreen
		}
		return summaries[i].Library < summaries[j].Library
	})
	return summaries
}

func capsLabel(caps []string) string {
	read, write := false, false
	for _, c := range caps {
		switch c {
		case adapter.CapRead:
			read = true
		case adapter.CapWrite:
			write = true
		}
	}
	switch {
	case read && write:
		return "R+W"
	case read:
		return "R"
	case write:
		return "W"
	}
	return ""
}
