// Package xlsreader adapts github.com/shakinm/xlsReader for legacy
// BIFF8 .xls workbooks. The library exposes display strings only, so
// observations are typed by parsing the rendered text.
package xlsreader

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shakinm/xlsReader/xls"

	"github.com/unbound-force/assay/internal/adapter"
	"github.com/unbound-force/assay/internal/corpus"
	"github.com/unbound-force/assay/internal/sheet"
)

// Name is the registry name.
const Name = "xlsreader"

const modulePath = "github.com/shakinm/xlsReader"

// Adapter wraps shakinm/xlsReader read support for xls files.
type Adapter struct{}

// New returns the adapter.
func New() *Adapter { return &Adapter{} }

func (a *Adapter) Info() adapter.Info {
	return adapter.Info{
		Name:         Name,
		Version:      adapter.ModuleVersion(modulePath),
		Language:     "go",
		Capabilities: adapter.Caps(a),
	}
}

func (a *Adapter) Formats() []string { return []string{"xls"} }

func (a *Adapter) CanRead() bool { return true }

func (a *Adapter) CanWrite() bool { return false }

func (a *Adapter) WriteCase(path string, tf corpus.TestFile, c corpus.TestCase) error {
	return adapter.Unsupportedf("writing workbooks")
}

func (a *Adapter) OpenReader(path string) (adapter.Reader, error) {
	wb, err := xls.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return &reader{wb: wb}, nil
}

type reader struct {
	adapter.UnsupportedReader
	wb xls.Workbook
}

func (r *reader) Close() error { return nil }

func (r *reader) SheetNames() ([]string, error) {
	names := make([]string, 0, r.wb.GetNumberSheets())
	for i := 0; i < r.wb.GetNumberSheets(); i++ {
		sh, err := r.wb.GetSheet(i)
		if err != nil {
			return nil, err
		}
		names = append(names, sh.GetName())
	}
	return names, nil
}

func (r *reader) CellValue(sheetName string, ref sheet.Ref) (sheet.CellValue, error) {
	for i := 0; i < r.wb.GetNumberSheets(); i++ {
		sh, err := r.wb.GetSheet(i)
		if err != nil {
			return sheet.CellValue{}, err
		}
		if sh.GetName() != sheetName {
			continue
		}

		row, err := sh.GetRow(ref.Row - 1)
		if err != nil {
			return sheet.BlankValue(), nil
		}
		c, err := row.GetCol(ref.Col - 1)
		if err != nil {
			return sheet.BlankValue(), nil
		}
		return typedValue(c.GetString()), nil
	}
	return sheet.CellValue{}, fmt.Errorf("sheet %q not found", sheetName)
}

// errorCodes are the rendered forms of BIFF error cells.
var errorCodes = map[string]bool{
	"#NULL!":  true,
	"#DIV/0!": true,
	"#VALUE!": true,
	"#REF!":   true,
	"#NAME?":  true,
	"#NUM!":   true,
	"#N/A":    true,
}

// typedValue infers a cell observation from a display string.
func typedValue(s string) sheet.CellValue {
	switch {
	case s == "":
		return sheet.BlankValue()
	case errorCodes[s]:
		return sheet.ErrorValue(s)
	case strings.EqualFold(s, "true"):
		return sheet.BoolValue(true)
	case strings.EqualFold(s, "false"):
		return sheet.BoolValue(false)
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return sheet.NumberValue(n)
	}
	return sheet.StringValue(s)
}
