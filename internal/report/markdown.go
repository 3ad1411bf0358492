package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/unbound-force/assay/internal/record"
	"github.com/unbound-force/assay/internal/score"
)

// maxFailedListed caps the failed-test list under each detailed
// result so one broken library cannot flood the summary.
const maxFailedListed = 5

// WriteMarkdown renders a record as a standalone markdown summary
// suitable for embedding in a README.
func WriteMarkdown(w io.Writer, rec *record.Record, opts Options) error {
	var b strings.Builder

	b.WriteString("# Fidelity Benchmark Results\n\n")
	fmt.Fprintf(&b, "*Generated: %s*\n", rec.Metadata.Generated.Format("2006-01-02 15:04 UTC"))
	fmt.Fprintf(&b, "*Profile: %s*\n", rec.Metadata.Profile)
	fmt.Fprintf(&b, "*Platform: %s*\n", rec.Metadata.Platform)
	if rec.Metadata.Partial {
		b.WriteString("\n> **Partial run**: the run was interrupted; unscored cells may simply not have executed.\n")
	}
	b.WriteString("\n")

	b.WriteString("## Score Legend\n\n")
	b.WriteString("| Score | Meaning |\n")
	b.WriteString("|-------|---------|\n")
	for _, e := range score.Legend() {
		fmt.Fprintf(&b, "| %s | %s |\n", e.Marker, e.Label)
	}
	b.WriteString("\n")

	cols := columns(rec)
	features := featureOrder(rec)
	lookup := resultLookup(rec)

	b.WriteString("## Summary\n\n")
	b.WriteString("| Feature |")
	for _, col := range cols {
		fmt.Fprintf(&b, " %s |", col.title())
	}
	b.WriteString("\n|---------|")
	for range cols {
		b.WriteString("------------|")
	}
	b.WriteString("\n")
	for _, feature := range features {
		fmt.Fprintf(&b, "| %s |", feature)
		for _, col := range cols {
			fmt.Fprintf(&b, " %s |", cell(lookup, feature, col))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	writeComparison(&b, rec, len(features), opts)
	writeLibraries(&b, rec)
	writeDetails(&b, rec, features, lookup)

	b.WriteString("---\n")
	fmt.Fprintf(&b, "*Harness: %s %s*\n", rec.Metadata.Harness.Name, rec.Metadata.Harness.Version)

	_, err := io.WriteString(w, b.String())
	return err
}

// writeComparison is the per-library rollup table, strongest library
// first.
func writeComparison(b *strings.Builder, rec *record.Record, total int, opts Options) {
	sums := score.Summarize(rec, opts.EffectiveRubric(), opts.EffectiveBands())
	if len(sums) == 0 {
		return
	}
	b.WriteString("## Library Comparison\n\n")
	b.WriteString("| Library | Caps | Green Features | Pass Rate | Grade |\n")
	b.WriteString("|---------|:----:|:--------------:|:---------:|:-----:|\n")
	for _, sum := range sums {
		fmt.Fprintf(b, "| %s | %s | %d/%d | %.0f%% | %s |\n",
			sum.Library, sum.Caps, sum.BestGreen, total, sum.PassRate(), sum.Grade)
	}
	b.WriteString("\n")
}

func writeLibraries(b *strings.Builder, rec *record.Record) {
	b.WriteString("## Libraries Tested\n\n")
	names := make([]string, 0, len(rec.Libraries))
	for name := range rec.Libraries {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		info := rec.Libraries[name]
		fmt.Fprintf(b, "- **%s** %s (%s) - %s\n",
			info.Name, info.Version, info.Language, strings.Join(info.Capabilities, ", "))
	}
	b.WriteString("\n")
}

// writeDetails lists per-feature, per-library scores with failing
// cases and limitation notes.
func writeDetails(b *strings.Builder, rec *record.Record, features []string, lookup map[[2]string]record.FeatureResult) {
	b.WriteString("## Detailed Results\n\n")

	libraries := make([]string, 0, len(rec.Libraries))
	for name := range rec.Libraries {
		libraries = append(libraries, name)
	}
	sort.Strings(libraries)

	for _, feature := range features {
		fmt.Fprintf(b, "### %s\n\n", feature)
		for _, lib := range libraries {
			fr, ok := lookup[[2]string{feature, lib}]
			if !ok {
				continue
			}
			fmt.Fprintf(b, "**%s**\n", lib)
			for _, mode := range record.Modes {
				s := fr.Scores.ForMode(mode)
				if s == nil {
					continue
				}
				label := "Read"
				if mode == record.ModeWrite {
					label = "Write"
				}
				fmt.Fprintf(b, "- %s: %s (%d/3)\n", label, score.Emoji(s), *s)
				if failed := failedCases(fr, mode); len(failed) > 0 {
					fmt.Fprintf(b, "- Failed %s tests (%d):\n", strings.ToLower(label), len(failed))
					for i, id := range failed {
						if i == maxFailedListed {
							fmt.Fprintf(b, "  - ... and %d more\n", len(failed)-maxFailedListed)
							break
						}
						fmt.Fprintf(b, "  - %s\n", id)
					}
				}
			}
			notes := append(append([]string{}, fr.Notes...), notesFor(lib, feature)...)
			for _, n := range notes {
				fmt.Fprintf(b, "- Note: %s\n", n)
			}
			b.WriteString("\n")
		}
	}
}
