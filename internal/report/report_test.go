package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"testing"

	"github.com/unbound-force/assay/internal/adapter"
	"github.com/unbound-force/assay/internal/corpus"
	"github.com/unbound-force/assay/internal/delta"
	"github.com/unbound-force/assay/internal/record"
)

func intPtr(n int) *int { return &n }

func pass() *record.ModeResult { return &record.ModeResult{Passed: true} }

func fail(expected, actual any) *record.ModeResult {
	return &record.ModeResult{Passed: false, Expected: expected, Actual: actual}
}

// sampleRecord builds a two-library record: alpha reads and writes,
// beta reads only and carries a recorded note.
func sampleRecord() *record.Record {
	rec := record.New(corpus.ProfileXLSX, record.Tool{Name: "assay", Version: "test"})
	rec.Libraries = map[string]adapter.Info{
		"alpha": {Name: "alpha", Version: "v1.2.3", Language: "go", Capabilities: []string{"read", "write"}},
		"beta":  {Name: "beta", Version: "v0.9.0", Language: "go", Capabilities: []string{"read"}},
	}
	rec.Results = []record.FeatureResult{
		{
			Feature: "cell_values",
			Library: "alpha",
			Scores:  record.Scores{Read: intPtr(3), Write: intPtr(2)},
			Cases: map[string]record.CaseResult{
				"string_simple": {Read: pass(), Write: pass()},
				"number_int":    {Read: pass(), Write: fail("42", "41")},
			},
		},
		{
			Feature: "merged_cells",
			Library: "alpha",
			Scores:  record.Scores{Read: intPtr(0), Write: intPtr(0)},
			Cases: map[string]record.CaseResult{
				"merge_simple": {Read: fail("A1:B2", nil), Write: fail("A1:B2", nil)},
			},
		},
		{
			Feature: "cell_values",
			Library: "beta",
			Scores:  record.Scores{Read: intPtr(1)},
			Cases: map[string]record.CaseResult{
				"string_simple": {Read: pass()},
				"number_int":    {Read: fail("42", "42.0")},
			},
			Notes: []string{"integers surface as floats"},
		},
	}
	rec.Metadata.DurationMS = 1500
	return rec
}

func TestWriteText_MatrixAndSummary(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteText(&buf, sampleRecord(), Options{}); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"=== Fidelity matrix (xlsx) ===",
		"alpha (R)", "alpha (W)", "beta (R)",
		"cell_values", "merged_cells",
		"=== Libraries ===",
		"=== Legend ===",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q", want)
		}
	}
	if strings.Contains(out, "beta (W)") {
		t.Error("text output has a write column for a read-only library")
	}
}

func TestWriteText_PartialWarning(t *testing.T) {
	rec := sampleRecord()
	rec.Metadata.Partial = true

	var buf bytes.Buffer
	if err := WriteText(&buf, rec, Options{}); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}
	if !strings.Contains(buf.String(), "partial run") {
		t.Error("partial record rendered without a partial warning")
	}
}

func TestWriteText_MergesCuratedNotes(t *testing.T) {
	rec := record.New(corpus.ProfileXLSX, record.Tool{Name: "assay", Version: "test"})
	rec.Libraries = map[string]adapter.Info{
		"tealeg": {Name: "tealeg", Version: "v3.3.6", Language: "go", Capabilities: []string{"read", "write"}},
	}
	rec.Results = []record.FeatureResult{
		{
			Feature: "formulas",
			Library: "tealeg",
			Scores:  record.Scores{Read: intPtr(2)},
			Cases:   map[string]record.CaseResult{"formula_sum": {Read: pass()}},
			Notes:   []string{"recorded during the run"},
		},
	}

	var buf bytes.Buffer
	if err := WriteText(&buf, rec, Options{}); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "=== Notes ===") {
		t.Fatal("notes section missing")
	}
	if !strings.Contains(out, "recorded during the run") {
		t.Error("recorded note missing")
	}
	if !strings.Contains(out, "cached results are not re-evaluated") {
		t.Error("curated tealeg/formulas note missing")
	}
}

func TestWriteMarkdown_Sections(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMarkdown(&buf, sampleRecord(), Options{}); err != nil {
		t.Fatalf("WriteMarkdown failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# Fidelity Benchmark Results",
		"## Score Legend",
		"## Summary",
		"## Library Comparison",
		"## Libraries Tested",
		"## Detailed Results",
		"- **alpha** v1.2.3 (go) - read, write",
		"*Harness: assay test*",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("markdown output missing %q", want)
		}
	}
}

func TestWriteMarkdown_MarksNotApplicable(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMarkdown(&buf, sampleRecord(), Options{}); err != nil {
		t.Fatalf("WriteMarkdown failed: %v", err)
	}
	// beta never scored merged_cells, so its summary cell is the NA
	// marker rather than a zero.
	if !strings.Contains(buf.String(), "➖") {
		t.Error("summary matrix missing the not-applicable marker")
	}
}

func TestWriteMarkdown_CapsFailedCaseList(t *testing.T) {
	rec := sampleRecord()
	cases := map[string]record.CaseResult{}
	for i := 0; i < 7; i++ {
		cases[fmt.Sprintf("case_%02d", i)] = record.CaseResult{Read: fail("x", "y")}
	}
	rec.Results = []record.FeatureResult{{
		Feature: "cell_values",
		Library: "alpha",
		Scores:  record.Scores{Read: intPtr(0)},
		Cases:   cases,
	}}

	var buf bytes.Buffer
	if err := WriteMarkdown(&buf, rec, Options{}); err != nil {
		t.Fatalf("WriteMarkdown failed: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "Failed read tests (7)") {
		t.Error("failed test count missing")
	}
	if !strings.Contains(out, "... and 2 more") {
		t.Error("overflow marker missing")
	}
	if strings.Contains(out, "case_06") {
		t.Error("cases past the cap should not be listed")
	}
}

func TestWriteCSV_FlatScoredRows(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleRecord()); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}

	header := strings.Join(rows[0], ",")
	if header != "library,feature,tier,mode,score" {
		t.Errorf("header = %q", header)
	}
	// alpha scores both modes of two features, beta scores one mode
	// of one feature. Unscored modes get no row.
	if len(rows) != 6 {
		t.Fatalf("got %d rows, want 6 (header + 5 scored slots)", len(rows))
	}

	got := map[string]bool{}
	for _, row := range rows[1:] {
		got[strings.Join(row, ",")] = true
	}
	for _, want := range []string{
		"alpha,cell_values,1,read,3",
		"alpha,cell_values,1,write,2",
		"alpha,merged_cells,2,read,0",
		"alpha,merged_cells,2,write,0",
		"beta,cell_values,1,read,1",
	} {
		if !got[want] {
			t.Errorf("missing row %q", want)
		}
	}
}

func TestWriteDeltaText_CountersAndChanges(t *testing.T) {
	prev := sampleRecord()
	curr := sampleRecord()
	curr.Results[0].Scores.Read = intPtr(1)  // alpha cell_values read 3 -> 1
	curr.Results[1].Scores.Write = intPtr(2) // alpha merged_cells write 0 -> 2

	var buf bytes.Buffer
	if err := WriteDeltaText(&buf, delta.Compute(prev, curr)); err != nil {
		t.Fatalf("WriteDeltaText failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"=== Run comparison ===",
		"1 regression(s)",
		"1 improvement(s)",
		"net +0",
		"cell_values",
		"-2",
		"+2",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("delta output missing %q", want)
		}
	}
}

func TestWriteDeltaText_GridShifts(t *testing.T) {
	prev := sampleRecord()
	curr := sampleRecord()
	curr.Results[2].Scores.Read = nil // beta cell_values leaves the grid
	curr.Results = append(curr.Results, record.FeatureResult{
		Feature: "comments",
		Library: "alpha",
		Scores:  record.Scores{Read: intPtr(3)},
		Cases:   map[string]record.CaseResult{"comment_basic": {Read: pass()}},
	})

	var buf bytes.Buffer
	if err := WriteDeltaText(&buf, delta.Compute(prev, curr)); err != nil {
		t.Fatalf("WriteDeltaText failed: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "=== Added ===") || !strings.Contains(out, "alpha/comments read") {
		t.Error("added key not listed")
	}
	if !strings.Contains(out, "=== Removed ===") || !strings.Contains(out, "beta/cell_values read") {
		t.Error("removed key not listed")
	}
}

func TestWriteHTML_NotImplemented(t *testing.T) {
	var buf bytes.Buffer
	err := WriteHTML(&buf, sampleRecord(), Options{})
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "not yet implemented") {
		t.Errorf("unexpected error: %v", err)
	}
	if buf.Len() != 0 {
		t.Error("stub should not write output")
	}
}

func TestNotesFor_UnknownPairIsEmpty(t *testing.T) {
	if notes := notesFor("tealeg", "formulas"); len(notes) == 0 {
		t.Error("curated note for tealeg/formulas missing")
	}
	if notes := notesFor("alpha", "cell_values"); len(notes) != 0 {
		t.Errorf("unexpected notes for unknown pair: %v", notes)
	}
}
