package xlsreader

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/unbound-force/assay/internal/adapter"
	"github.com/unbound-force/assay/internal/corpus"
	"github.com/unbound-force/assay/internal/sheet"
)

func TestInfo(t *testing.T) {
	info := New().Info()
	if info.Name != "xlsreader" {
		t.Errorf("name = %q, want xlsreader", info.Name)
	}
	if got := New().Formats(); len(got) != 1 || got[0] != "xls" {
		t.Errorf("formats = %v, want [xls]", got)
	}
	want := []string{adapter.CapRead}
	if len(info.Capabilities) != 1 || info.Capabilities[0] != want[0] {
		t.Errorf("capabilities = %v, want %v", info.Capabilities, want)
	}
}

func TestTypedValue(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want sheet.CellValue
	}{
		{"blank", "", sheet.BlankValue()},
		{"number", "42.5", sheet.NumberValue(42.5)},
		{"integer", "7", sheet.NumberValue(7)},
		{"string", "hello", sheet.StringValue("hello")},
		{"leading zero stays numeric", "007", sheet.NumberValue(7)},
		{"error code", "#REF!", sheet.ErrorValue("#REF!")},
		{"division error", "#DIV/0!", sheet.ErrorValue("#DIV/0!")},
		{"bool true", "TRUE", sheet.BoolValue(true)},
		{"bool false", "false", sheet.BoolValue(false)},
		{"hash but not an error", "#tag", sheet.StringValue("#tag")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := typedValue(tc.in)
			if got.Type != tc.want.Type || got.Value != tc.want.Value {
				t.Errorf("typedValue(%q) = %+v, want %+v", tc.in, got, tc.want)
			}
		})
	}
}

func TestWriteUnsupported(t *testing.T) {
	err := New().WriteCase(filepath.Join(t.TempDir(), "out.xls"), corpus.TestFile{}, corpus.TestCase{})
	if !errors.Is(err, adapter.ErrUnsupported) {
		t.Errorf("err = %v, want ErrUnsupported", err)
	}
}

func TestOpenReaderMissing(t *testing.T) {
	_, err := New().OpenReader(filepath.Join(t.TempDir(), "absent.xls"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
