package tealeg

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/unbound-force/assay/internal/adapter"
	"github.com/unbound-force/assay/internal/corpus"
	"github.com/unbound-force/assay/internal/sheet"
)

func fileFor(feature string) corpus.TestFile {
	return corpus.TestFile{Path: "case.xlsx", Feature: feature, Tier: 1}
}

func writeAndOpen(t *testing.T, tf corpus.TestFile, c corpus.TestCase) adapter.Reader {
	t.Helper()
	a := New()
	path := filepath.Join(t.TempDir(), tf.Path)
	if err := a.WriteCase(path, tf, c); err != nil {
		t.Fatalf("WriteCase: %v", err)
	}
	r, err := a.OpenReader(path)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestInfo(t *testing.T) {
	info := New().Info()
	if info.Name != "tealeg" {
		t.Errorf("name = %q, want tealeg", info.Name)
	}
	if info.Language != "go" {
		t.Errorf("language = %q, want go", info.Language)
	}
	want := []string{adapter.CapRead, adapter.CapWrite}
	if len(info.Capabilities) != len(want) {
		t.Fatalf("capabilities = %v, want %v", info.Capabilities, want)
	}
}

func TestStringRoundTrip(t *testing.T) {
	c := corpus.TestCase{
		ID: "string", Row: 2,
		Expected: map[string]any{"type": "string", "value": "hello world"},
	}
	r := writeAndOpen(t, fileFor("cell_values"), c)

	v, err := r.CellValue("Sheet1", sheet.Ref{Col: 2, Row: 2})
	if err != nil {
		t.Fatalf("CellValue: %v", err)
	}
	if v.Type != sheet.TypeString || v.Value != "hello world" {
		t.Errorf("got %+v, want string hello world", v)
	}
}

func TestNumberRoundTrip(t *testing.T) {
	c := corpus.TestCase{
		ID: "float", Row: 2,
		Expected: map[string]any{"type": "number", "value": 3.14159},
	}
	r := writeAndOpen(t, fileFor("cell_values"), c)

	v, err := r.CellValue("Sheet1", sheet.Ref{Col: 2, Row: 2})
	if err != nil {
		t.Fatalf("CellValue: %v", err)
	}
	n, ok := v.Value.(float64)
	if v.Type != sheet.TypeNumber || !ok {
		t.Fatalf("got %+v, want number", v)
	}
	if math.Abs(n-3.14159) > 1e-9 {
		t.Errorf("value = %v, want 3.14159", n)
	}
}

func TestBoolRoundTrip(t *testing.T) {
	c := corpus.TestCase{
		ID: "bool", Row: 2,
		Expected: map[string]any{"type": "boolean", "value": true},
	}
	r := writeAndOpen(t, fileFor("cell_values"), c)

	v, err := r.CellValue("Sheet1", sheet.Ref{Col: 2, Row: 2})
	if err != nil {
		t.Fatalf("CellValue: %v", err)
	}
	if v.Type != sheet.TypeBoolean || v.Value != true {
		t.Errorf("got %+v, want boolean true", v)
	}
}

func TestFormulaRoundTrip(t *testing.T) {
	c := corpus.TestCase{
		ID: "sum", Row: 2,
		Expected: map[string]any{
			"type":     "formula",
			"formula":  "SUM(D2:E2)",
			"operands": []any{10.0, 32.0},
		},
	}
	r := writeAndOpen(t, fileFor("formulas"), c)

	v, err := r.CellValue("Sheet1", sheet.Ref{Col: 2, Row: 2})
	if err != nil {
		t.Fatalf("CellValue: %v", err)
	}
	if v.Type != sheet.TypeFormula {
		t.Fatalf("type = %v, want formula", v.Type)
	}
	if v.Formula != "SUM(D2:E2)" {
		t.Errorf("formula = %q, want SUM(D2:E2)", v.Formula)
	}
}

func TestDateRoundTrip(t *testing.T) {
	c := corpus.TestCase{
		ID: "date", Row: 2,
		Expected: map[string]any{"type": "date", "value": "2024-03-15T00:00:00"},
	}
	r := writeAndOpen(t, fileFor("cell_values"), c)

	v, err := r.CellValue("Sheet1", sheet.Ref{Col: 2, Row: 2})
	if err != nil {
		t.Fatalf("CellValue: %v", err)
	}
	if v.Type != sheet.TypeDate {
		t.Fatalf("type = %v, want date", v.Type)
	}
	if v.Value != "2024-03-15T00:00:00" {
		t.Errorf("value = %v, want 2024-03-15T00:00:00", v.Value)
	}
}

func TestTextFormattingRoundTrip(t *testing.T) {
	c := corpus.TestCase{
		ID: "bold", Row: 2,
		Expected: map[string]any{"bold": true, "font_size": 14.0},
	}
	r := writeAndOpen(t, fileFor("text_formatting"), c)

	f, err := r.CellFormat("Sheet1", sheet.Ref{Col: 2, Row: 2})
	if err != nil {
		t.Fatalf("CellFormat: %v", err)
	}
	if f.Bold == nil || !*f.Bold {
		t.Error("bold not preserved")
	}
	if f.FontSize == nil || *f.FontSize != 14 {
		t.Errorf("font size = %v, want 14", f.FontSize)
	}
}

func TestBackgroundRoundTrip(t *testing.T) {
	c := corpus.TestCase{
		ID: "red", Row: 2,
		Expected: map[string]any{"bg_color": "#FF0000"},
	}
	r := writeAndOpen(t, fileFor("background_colors"), c)

	f, err := r.CellFormat("Sheet1", sheet.Ref{Col: 2, Row: 2})
	if err != nil {
		t.Fatalf("CellFormat: %v", err)
	}
	if f.Background == nil || *f.Background != "#FF0000" {
		t.Errorf("background = %v, want #FF0000", f.Background)
	}
}

func TestNumberFormatRoundTrip(t *testing.T) {
	c := corpus.TestCase{
		ID: "two-dp", Row: 2,
		Expected: map[string]any{"format": "0.00"},
	}
	r := writeAndOpen(t, fileFor("number_formats"), c)

	code, err := r.NumberFormat("Sheet1", sheet.Ref{Col: 2, Row: 2})
	if err != nil {
		t.Fatalf("NumberFormat: %v", err)
	}
	if code != "0.00" {
		t.Errorf("format = %q, want 0.00", code)
	}
}

func TestAlignmentRoundTrip(t *testing.T) {
	c := corpus.TestCase{
		ID: "center", Row: 2,
		Expected: map[string]any{
			"horizontal": "center",
			"vertical":   "top",
			"wrap_text":  true,
		},
	}
	r := writeAndOpen(t, fileFor("alignment"), c)

	al, err := r.CellAlignment("Sheet1", sheet.Ref{Col: 2, Row: 2})
	if err != nil {
		t.Fatalf("CellAlignment: %v", err)
	}
	if al.Horizontal != "center" || al.Vertical != "top" || !al.WrapText {
		t.Errorf("alignment = %+v, want center/top/wrap", al)
	}
}

func TestBordersRoundTrip(t *testing.T) {
	c := corpus.TestCase{
		ID: "top-thin", Row: 2,
		Expected: map[string]any{
			"top": map[string]any{"style": "thin", "color": "#000000"},
		},
	}
	r := writeAndOpen(t, fileFor("borders"), c)

	b, err := r.CellBorders("Sheet1", sheet.Ref{Col: 2, Row: 2})
	if err != nil {
		t.Fatalf("CellBorders: %v", err)
	}
	if b.Top == nil {
		t.Fatal("top border missing")
	}
	if b.Top.Style != sheet.BorderThin || b.Top.Color != "#000000" {
		t.Errorf("top border = %+v, want thin #000000", b.Top)
	}
	if b.Bottom != nil {
		t.Errorf("bottom border = %+v, want none", b.Bottom)
	}
}

func TestRowHeightRoundTrip(t *testing.T) {
	c := corpus.TestCase{
		ID: "tall", Row: 2,
		Expected: map[string]any{"row_height": 33.0},
	}
	r := writeAndOpen(t, fileFor("dimensions"), c)

	h, err := r.RowHeight("Sheet1", 2)
	if err != nil {
		t.Fatalf("RowHeight: %v", err)
	}
	if math.Abs(h-33) > 0.5 {
		t.Errorf("row height = %v, want 33", h)
	}
}

func TestMultipleSheetsRoundTrip(t *testing.T) {
	c := corpus.TestCase{
		ID: "three", Row: 2,
		Expected: map[string]any{"sheets": []any{"Sheet1", "Data", "Summary"}},
	}
	r := writeAndOpen(t, fileFor("multiple_sheets"), c)

	names, err := r.SheetNames()
	if err != nil {
		t.Fatalf("SheetNames: %v", err)
	}
	want := []string{"Sheet1", "Data", "Summary"}
	if len(names) != len(want) {
		t.Fatalf("sheets = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("sheet[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestMergedRoundTrip(t *testing.T) {
	c := corpus.TestCase{
		ID: "block", Row: 2,
		Expected: map[string]any{"ranges": []any{"B2:C3"}},
	}
	r := writeAndOpen(t, fileFor("merged_cells"), c)

	ranges, err := r.MergedRanges("Sheet1")
	if err != nil {
		t.Fatalf("MergedRanges: %v", err)
	}
	if len(ranges) != 1 || ranges[0].String() != "B2:C3" {
		t.Errorf("ranges = %v, want [B2:C3]", ranges)
	}
}

func TestWriteUnsupportedFeature(t *testing.T) {
	a := New()
	path := filepath.Join(t.TempDir(), "links.xlsx")
	c := corpus.TestCase{
		ID: "link", Row: 2,
		Expected: map[string]any{"links": []any{}},
	}
	err := a.WriteCase(path, fileFor("hyperlinks"), c)
	if !errors.Is(err, adapter.ErrUnsupported) {
		t.Errorf("err = %v, want ErrUnsupported", err)
	}
}

func TestReadUnsupportedFeature(t *testing.T) {
	c := corpus.TestCase{
		ID: "string", Row: 2,
		Expected: map[string]any{"type": "string", "value": "x"},
	}
	r := writeAndOpen(t, fileFor("cell_values"), c)

	_, err := r.Hyperlinks("Sheet1")
	if !errors.Is(err, adapter.ErrUnsupported) {
		t.Errorf("Hyperlinks err = %v, want ErrUnsupported", err)
	}
	_, err = r.PivotTables("Sheet1")
	if !errors.Is(err, adapter.ErrUnsupported) {
		t.Errorf("PivotTables err = %v, want ErrUnsupported", err)
	}
}

func TestOpenReaderMissing(t *testing.T) {
	_, err := New().OpenReader(filepath.Join(t.TempDir(), "absent.xlsx"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
