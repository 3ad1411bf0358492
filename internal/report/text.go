package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/unbound-force/assay/internal/corpus"
	"github.com/unbound-force/assay/internal/record"
	"github.com/unbound-force/assay/internal/score"
)

// WriteText writes the score matrix and per-library rollups as
// human-readable styled text. Output uses lipgloss for color when
// the writer is a TTY; degrades gracefully for pipes and CI.
func WriteText(w io.Writer, rec *record.Record, opts Options) error {
	s := DefaultStyles()
	p := message.NewPrinter(language.English)

	fmt.Fprintln(w, s.Header.Render(fmt.Sprintf("=== Fidelity matrix (%s) ===", rec.Metadata.Profile)))
	fmt.Fprintln(w, s.SubHeader.Render(fmt.Sprintf("    run %s", rec.Metadata.RunID)))
	fmt.Fprintln(w, s.SubHeader.Render(fmt.Sprintf("    %s on %s in %s",
		rec.Metadata.Generated.Format(time.RFC3339),
		rec.Metadata.Platform,
		time.Duration(rec.Metadata.DurationMS)*time.Millisecond)))
	if rec.Metadata.Partial {
		fmt.Fprintln(w, s.Fail.Render("    partial run: not every invocation executed"))
	}
	fmt.Fprintln(w)

	cols := columns(rec)
	features := featureOrder(rec)
	lookup := resultLookup(rec)

	headers := make([]string, 0, len(cols)+1)
	headers = append(headers, "FEATURE")
	for _, col := range cols {
		headers = append(headers, col.title())
	}

	rows := make([][]string, 0, len(features))
	tiers := make([]int, 0, len(features))
	for _, feature := range features {
		row := make([]string, 0, len(cols)+1)
		row = append(row, feature)
		for _, col := range cols {
			row = append(row, cell(lookup, feature, col))
		}
		rows = append(rows, row)
		tier := 0
		if f, ok := corpus.FeatureByID(feature); ok {
			tier = f.Tier
		}
		tiers = append(tiers, tier)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.Border).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.TableHeader
			}
			if col == 0 && row >= 0 && row < len(tiers) {
				return s.TierStyle(tiers[row])
			}
			return s.TableCell
		}).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(w, t)

	sums := score.Summarize(rec, opts.EffectiveRubric(), opts.EffectiveBands())
	if len(sums) > 0 {
		fmt.Fprintln(w, s.Header.Render("=== Libraries ==="))
		for _, sum := range sums {
			grade := s.GradeStyle(sum.Grade).Render(string(sum.Grade))
			fmt.Fprintf(w, "  %s %s  %-4s green %d/%d  pass %.0f%% (%s of %s cases)\n",
				s.SummaryLabel.Render(sum.Library),
				grade,
				sum.Caps,
				sum.BestGreen, len(features),
				sum.PassRate(),
				p.Sprintf("%d", sum.Passed),
				p.Sprintf("%d", sum.Executed))
		}
		fmt.Fprintln(w)
	}

	writeTextNotes(w, rec, s)

	fmt.Fprintln(w, s.Header.Render("=== Legend ==="))
	for _, e := range score.Legend() {
		fmt.Fprintf(w, "  %s  %s\n", e.Marker, s.Muted.Render(e.Label))
	}

	var executed, passed int
	for _, sum := range sums {
		executed += sum.Executed
		passed += sum.Passed
	}
	fmt.Fprintf(w, "\n%s\n", s.Header.Render(p.Sprintf(
		"%d invocation(s), %d passed, %d failed",
		executed, passed, executed-passed)))

	return nil
}

// writeTextNotes prints curated and recorded limitation notes, one
// line per (library, feature) with any.
func writeTextNotes(w io.Writer, rec *record.Record, s Styles) {
	var lines []string
	for _, fr := range rec.Results {
		notes := append(append([]string{}, fr.Notes...), notesFor(fr.Library, fr.Feature)...)
		for _, n := range notes {
			lines = append(lines, fmt.Sprintf("  %s/%s: %s", fr.Library, fr.Feature, n))
		}
	}
	if len(lines) == 0 {
		return
	}
	fmt.Fprintln(w, s.Header.Render("=== Notes ==="))
	fmt.Fprintln(w, s.Muted.Render(strings.Join(lines, "\n")))
	fmt.Fprintln(w)
}
