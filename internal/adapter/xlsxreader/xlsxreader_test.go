package xlsxreader

import (
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/unbound-force/assay/internal/adapter"
	"github.com/unbound-force/assay/internal/adapter/excelize"
	"github.com/unbound-force/assay/internal/corpus"
	"github.com/unbound-force/assay/internal/sheet"
)

// fixture writes a one-case workbook with the excelize adapter and
// opens it with this one, the same cross-library path the runner takes.
func fixture(t *testing.T, feature string, c corpus.TestCase) adapter.Reader {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.xlsx")
	tf := corpus.TestFile{Path: "fixture.xlsx", Feature: feature, Tier: 1}
	if err := excelize.New().WriteCase(path, tf, c); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	r, err := New().OpenReader(path)
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func TestInfo(t *testing.T) {
	info := New().Info()
	if info.Name != "xlsxreader" {
		t.Errorf("name = %q, want xlsxreader", info.Name)
	}
	want := []string{adapter.CapRead}
	if len(info.Capabilities) != 1 || info.Capabilities[0] != want[0] {
		t.Errorf("capabilities = %v, want %v", info.Capabilities, want)
	}
}

func TestStringValue(t *testing.T) {
	r := fixture(t, "cell_values", corpus.TestCase{
		ID: "string", Row: 2,
		Expected: map[string]any{"type": "string", "value": "hello world"},
	})

	v, err := r.CellValue("Sheet1", sheet.Ref{Col: 2, Row: 2})
	if err != nil {
		t.Fatalf("CellValue: %v", err)
	}
	if v.Type != sheet.TypeString || v.Value != "hello world" {
		t.Errorf("got %+v, want string hello world", v)
	}
}

func TestNumberValue(t *testing.T) {
	r := fixture(t, "cell_values", corpus.TestCase{
		ID: "float", Row: 2,
		Expected: map[string]any{"type": "number", "value": 1234.5678},
	})

	v, err := r.CellValue("Sheet1", sheet.Ref{Col: 2, Row: 2})
	if err != nil {
		t.Fatalf("CellValue: %v", err)
	}
	n, ok := v.Value.(float64)
	if v.Type != sheet.TypeNumber || !ok {
		t.Fatalf("got %+v, want number", v)
	}
	if math.Abs(n-1234.5678) > 1e-9 {
		t.Errorf("value = %v, want 1234.5678", n)
	}
}

func TestBoolValue(t *testing.T) {
	r := fixture(t, "cell_values", corpus.TestCase{
		ID: "bool", Row: 2,
		Expected: map[string]any{"type": "boolean", "value": true},
	})

	v, err := r.CellValue("Sheet1", sheet.Ref{Col: 2, Row: 2})
	if err != nil {
		t.Fatalf("CellValue: %v", err)
	}
	if v.Type != sheet.TypeBoolean || v.Value != true {
		t.Errorf("got %+v, want boolean true", v)
	}
}

func TestBlankValue(t *testing.T) {
	r := fixture(t, "cell_values", corpus.TestCase{
		ID: "string", Row: 2,
		Expected: map[string]any{"type": "string", "value": "x"},
	})

	v, err := r.CellValue("Sheet1", sheet.Ref{Col: 9, Row: 9})
	if err != nil {
		t.Fatalf("CellValue: %v", err)
	}
	if v.Type != sheet.TypeBlank {
		t.Errorf("got %+v, want blank", v)
	}
}

func TestSheetNames(t *testing.T) {
	r := fixture(t, "multiple_sheets", corpus.TestCase{
		ID: "three", Row: 2,
		Expected: map[string]any{"sheets": []any{"Sheet1", "Data", "Summary"}},
	})

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

func TestUnknownSheet(t *testing.T) {
	r := fixture(t, "cell_values", corpus.TestCase{
		ID: "string", Row: 2,
		Expected: map[string]any{"type": "string", "value": "x"},
	})

	_, err := r.CellValue("Nope", sheet.Ref{Col: 1, Row: 1})
	if err == nil {
		t.Fatal("expected error for unknown sheet")
	}
}

func TestFormatProbesUnsupported(t *testing.T) {
	r := fixture(t, "cell_values", corpus.TestCase{
		ID: "string", Row: 2,
		Expected: map[string]any{"type": "string", "value": "x"},
	})

	_, err := r.CellFormat("Sheet1", sheet.Ref{Col: 2, Row: 2})
	if !errors.Is(err, adapter.ErrUnsupported) {
		t.Errorf("CellFormat err = %v, want ErrUnsupported", err)
	}
	_, err = r.MergedRanges("Sheet1")
	if !errors.Is(err, adapter.ErrUnsupported) {
		t.Errorf("MergedRanges err = %v, want ErrUnsupported", err)
	}
}

func TestWriteUnsupported(t *testing.T) {
	err := New().WriteCase(filepath.Join(t.TempDir(), "out.xlsx"), corpus.TestFile{}, corpus.TestCase{})
	if !errors.Is(err, adapter.ErrUnsupported) {
		t.Errorf("err = %v, want ErrUnsupported", err)
	}
}

func TestOpenReaderMissing(t *testing.T) {
	_, err := New().OpenReader(filepath.Join(t.TempDir(), "absent.xlsx"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
