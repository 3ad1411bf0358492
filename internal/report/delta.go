package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/unbound-force/assay/internal/delta"
)

// WriteDeltaText writes a two-run comparison as styled text: the
// headline counters, one table row per moved score, and the keys
// that entered or left the grid.
func WriteDeltaText(w io.Writer, rep *delta.Report) error {
	s := DefaultStyles()

	fmt.Fprintln(w, s.Header.Render("=== Run comparison ==="))
	fmt.Fprintln(w, s.SubHeader.Render(fmt.Sprintf("    previous %s (%s)",
		rep.Previous.RunID, rep.Previous.Generated.Format(time.RFC3339))))
	fmt.Fprintln(w, s.SubHeader.Render(fmt.Sprintf("    current  %s (%s)",
		rep.Current.RunID, rep.Current.Generated.Format(time.RFC3339))))
	fmt.Fprintln(w)

	regressions := s.Pass.Render("0 regressions")
	if rep.Regressions > 0 {
		regressions = s.Fail.Render(fmt.Sprintf("%d regression(s)", rep.Regressions))
	}
	improvements := fmt.Sprintf("%d improvement(s)", rep.Improvements)
	if rep.Improvements > 0 {
		improvements = s.Pass.Render(improvements)
	}
	fmt.Fprintf(w, "  %s, %s, %d unchanged, net %+d\n\n",
		regressions, improvements, rep.Unchanged, rep.Net)

	if len(rep.Changes) > 0 {
		rows := make([][]string, 0, len(rep.Changes))
		deltas := make([]int, 0, len(rep.Changes))
		for _, e := range rep.Changes {
			rows = append(rows, []string{
				e.Library, e.Feature, e.Mode,
				deltaScore(e.Prev), deltaScore(e.Curr),
				fmt.Sprintf("%+d", e.Delta),
			})
			deltas = append(deltas, e.Delta)
		}
		t := table.New().
			Border(lipgloss.NormalBorder()).
			BorderStyle(s.Border).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return s.TableHeader
				}
				if col == 5 && row >= 0 && row < len(deltas) {
					if deltas[row] < 0 {
						return s.Fail
					}
					return s.Pass
				}
				return s.TableCell
			}).
			Headers("LIBRARY", "FEATURE", "MODE", "PREV", "CURR", "CHANGE").
			Rows(rows...)
		fmt.Fprintln(w, t)
	}

	writeGridShift(w, s, "Added", rep.Added)
	writeGridShift(w, s, "Removed", rep.Removed)
	return nil
}

// writeGridShift lists keys present in only one run. They carry no
// delta, so they stay out of the counters above.
func writeGridShift(w io.Writer, s Styles, title string, entries []delta.Entry) {
	if len(entries) == 0 {
		return
	}
	fmt.Fprintln(w, s.Header.Render(fmt.Sprintf("=== %s ===", title)))
	for _, e := range entries {
		score := e.Curr
		if score == nil {
			score = e.Prev
		}
		fmt.Fprintln(w, s.Muted.Render(fmt.Sprintf("  %s/%s %s (score %s)",
			e.Library, e.Feature, e.Mode, deltaScore(score))))
	}
	fmt.Fprintln(w)
}

func deltaScore(s *int) string {
	if s == nil {
		return "-"
	}
	return strconv.Itoa(*s)
}
