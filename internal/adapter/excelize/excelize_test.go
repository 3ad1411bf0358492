package excelize

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/unbound-force/assay/internal/adapter"
	"github.com/unbound-force/assay/internal/corpus"
	"github.com/unbound-force/assay/internal/sheet"
)

func fileFor(feature string, c corpus.TestCase) corpus.TestFile {
	return corpus.TestFile{Path: "x.xlsx", Feature: feature, Tier: 1, Cases: []corpus.TestCase{c}}
}

func writeAndOpen(t *testing.T, feature string, c corpus.TestCase) adapter.Reader {
	t.Helper()
	a := New()
	path := filepath.Join(t.TempDir(), "case.xlsx")
	require.NoError(t, a.WriteCase(path, fileFor(feature, c), c))

	r, err := a.OpenReader(path)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestAdapter_Info(t *testing.T) {
	a := New()
	info := a.Info()
	require.Equal(t, "excelize", info.Name)
	require.Equal(t, "go", info.Language)
	require.ElementsMatch(t, []string{"read", "write"}, info.Capabilities)
}

func TestRoundTrip_StringValue(t *testing.T) {
	c := corpus.TestCase{
		ID: "string_simple", Label: "Simple string", Row: 2,
		Expected: map[string]any{"type": "string", "value": "hello world"},
	}
	r := writeAndOpen(t, "cell_values", c)

	v, err := r.CellValue("Sheet1", sheet.Ref{Col: 2, Row: 2})
	require.NoError(t, err)
	require.Equal(t, sheet.TypeString, v.Type)
	require.Equal(t, "hello world", v.Value)
}

func TestRoundTrip_NumberValue(t *testing.T) {
	c := corpus.TestCase{
		ID: "number_float", Row: 3,
		Expected: map[string]any{"type": "number", "value": 3.14159},
	}
	r := writeAndOpen(t, "cell_values", c)

	v, err := r.CellValue("Sheet1", sheet.Ref{Col: 2, Row: 3})
	require.NoError(t, err)
	require.Equal(t, sheet.TypeNumber, v.Type)
	require.InDelta(t, 3.14159, v.Value, 1e-9)
}

func TestRoundTrip_BooleanValue(t *testing.T) {
	c := corpus.TestCase{
		ID: "boolean_true", Row: 4,
		Expected: map[string]any{"type": "boolean", "value": true},
	}
	r := writeAndOpen(t, "cell_values", c)

	v, err := r.CellValue("Sheet1", sheet.Ref{Col: 2, Row: 4})
	require.NoError(t, err)
	require.Equal(t, sheet.TypeBoolean, v.Type)
	require.Equal(t, true, v.Value)
}

func TestRoundTrip_BlankValue(t *testing.T) {
	c := corpus.TestCase{
		ID: "blank", Row: 5,
		Expected: map[string]any{"type": "blank"},
	}
	r := writeAndOpen(t, "cell_values", c)

	v, err := r.CellValue("Sheet1", sheet.Ref{Col: 2, Row: 5})
	require.NoError(t, err)
	require.Equal(t, sheet.TypeBlank, v.Type)
}

func TestRoundTrip_Formula(t *testing.T) {
	c := corpus.TestCase{
		ID: "formula_sum", Row: 2,
		Expected: map[string]any{
			"type": "formula", "formula": "SUM(D2:E2)",
			"operands": []any{1.0, 2.0},
		},
	}
	r := writeAndOpen(t, "formulas", c)

	v, err := r.CellValue("Sheet1", sheet.Ref{Col: 2, Row: 2})
	require.NoError(t, err)
	require.Equal(t, sheet.TypeFormula, v.Type)
	require.Equal(t, "SUM(D2:E2)", v.Formula)
}

func TestRoundTrip_TextFormatting(t *testing.T) {
	c := corpus.TestCase{
		ID: "bold", Row: 2,
		Expected: map[string]any{"bold": true, "font_size": 14.0},
	}
	r := writeAndOpen(t, "text_formatting", c)

	f, err := r.CellFormat("Sheet1", sheet.Ref{Col: 2, Row: 2})
	require.NoError(t, err)
	require.NotNil(t, f.Bold)
	require.True(t, *f.Bold)
	require.NotNil(t, f.FontSize)
	require.Equal(t, 14.0, *f.FontSize)
}

func TestRoundTrip_Background(t *testing.T) {
	c := corpus.TestCase{
		ID: "red_fill", Row: 2,
		Expected: map[string]any{"bg_color": "#FF0000"},
	}
	r := writeAndOpen(t, "background_colors", c)

	f, err := r.CellFormat("Sheet1", sheet.Ref{Col: 2, Row: 2})
	require.NoError(t, err)
	require.NotNil(t, f.Background)
	require.Equal(t, "#FF0000", *f.Background)
}

func TestRoundTrip_NumberFormat(t *testing.T) {
	c := corpus.TestCase{
		ID: "two_decimals", Row: 2,
		Expected: map[string]any{"format": "0.00"},
	}
	r := writeAndOpen(t, "number_formats", c)

	code, err := r.NumberFormat("Sheet1", sheet.Ref{Col: 2, Row: 2})
	require.NoError(t, err)
	require.Equal(t, "0.00", code)
}

func TestRoundTrip_Alignment(t *testing.T) {
	c := corpus.TestCase{
		ID: "center_wrap", Row: 2,
		Expected: map[string]any{"horizontal": "center", "wrap_text": true},
	}
	r := writeAndOpen(t, "alignment", c)

	al, err := r.CellAlignment("Sheet1", sheet.Ref{Col: 2, Row: 2})
	require.NoError(t, err)
	require.Equal(t, "center", al.Horizontal)
	require.True(t, al.WrapText)
}

func TestRoundTrip_Borders(t *testing.T) {
	c := corpus.TestCase{
		ID: "top_thin", Row: 2,
		Expected: map[string]any{
			"top": map[string]any{"style": "thin", "color": "#000000"},
		},
	}
	r := writeAndOpen(t, "borders", c)

	b, err := r.CellBorders("Sheet1", sheet.Ref{Col: 2, Row: 2})
	require.NoError(t, err)
	require.NotNil(t, b.Top)
	require.Equal(t, sheet.BorderThin, b.Top.Style)
	require.Equal(t, "#000000", b.Top.Color)
	require.Nil(t, b.Bottom)
}

func TestRoundTrip_Dimensions(t *testing.T) {
	c := corpus.TestCase{
		ID: "tall_row", Row: 4,
		Expected: map[string]any{"row_height": 33.0},
	}
	r := writeAndOpen(t, "dimensions", c)

	h, err := r.RowHeight("Sheet1", 4)
	require.NoError(t, err)
	require.InDelta(t, 33.0, h, 1e-6)
}

func TestRoundTrip_MultipleSheets(t *testing.T) {
	c := corpus.TestCase{
		ID: "three_sheets", Row: 1,
		Expected: map[string]any{"sheets": []any{"Sheet1", "Alpha", "Beta"}},
	}
	r := writeAndOpen(t, "multiple_sheets", c)

	names, err := r.SheetNames()
	require.NoError(t, err)
	require.Equal(t, []string{"Sheet1", "Alpha", "Beta"}, names)
}

func TestRoundTrip_MergedCells(t *testing.T) {
	c := corpus.TestCase{
		ID: "simple_merge", Row: 2,
		Expected: map[string]any{"ranges": []any{"B2:C3"}},
	}
	r := writeAndOpen(t, "merged_cells", c)

	merged, err := r.MergedRanges("Sheet1")
	require.NoError(t, err)
	require.Len(t, merged, 1)
	require.Equal(t, "B2:C3", merged[0].String())
}

func TestRoundTrip_Hyperlinks(t *testing.T) {
	c := corpus.TestCase{
		ID: "web_link", Row: 2,
		Expected: map[string]any{"links": []any{
			map[string]any{"cell": "B2", "target": "https://example.com/", "display": "Example"},
		}},
	}
	r := writeAndOpen(t, "hyperlinks", c)

	links, err := r.Hyperlinks("Sheet1")
	require.NoError(t, err)
	require.Len(t, links, 1)
	require.Equal(t, "https://example.com/", links[0].Target)
	require.Equal(t, "Example", links[0].Display)
}

func TestRoundTrip_FreezePanes(t *testing.T) {
	c := corpus.TestCase{
		ID: "freeze_rows_cols", Row: 1,
		Expected: map[string]any{"rows": 2.0, "cols": 1.0},
	}
	r := writeAndOpen(t, "freeze_panes", c)

	fp, err := r.FreezePane("Sheet1")
	require.NoError(t, err)
	require.Equal(t, 2, fp.Rows)
	require.Equal(t, 1, fp.Cols)
}

func TestRoundTrip_NamedRanges(t *testing.T) {
	c := corpus.TestCase{
		ID: "one_name", Row: 2,
		Expected: map[string]any{"names": []any{
			map[string]any{"name": "Inputs", "refers_to": "Sheet1!$B$2:$B$4"},
		}},
	}
	r := writeAndOpen(t, "named_ranges", c)

	names, err := r.NamedRanges()
	require.NoError(t, err)
	require.Len(t, names, 1)
	require.Equal(t, "Inputs", names[0].Name)
	require.Equal(t, "Sheet1!$B$2:$B$4", names[0].RefersTo)
}

func TestWriteCase_ErrorCellsUnsupported(t *testing.T) {
	a := New()
	c := corpus.TestCase{
		ID: "error_div0", Row: 2,
		Expected: map[string]any{"type": "error", "value": "#DIV/0!"},
	}
	err := a.WriteCase(filepath.Join(t.TempDir(), "e.xlsx"), fileFor("cell_values", c), c)
	require.Error(t, err)
	require.True(t, errors.Is(err, adapter.ErrUnsupported))
}

func TestOpenReader_MissingFile(t *testing.T) {
	a := New()
	_, err := a.OpenReader(filepath.Join(t.TempDir(), "absent.xlsx"))
	require.Error(t, err)
}
