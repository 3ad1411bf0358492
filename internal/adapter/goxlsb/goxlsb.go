// Package goxlsb adapts github.com/TsubasaBE/go-xlsb for binary .xlsb
// workbooks. Reads are value-level; the format's styling records are
// not exposed by the library beyond date detection.
package goxlsb

import (
	"bytes"
	"fmt"
	"os"

	xlsb "github.com/TsubasaBE/go-xlsb"
	"github.com/TsubasaBE/go-xlsb/workbook"
	"github.com/TsubasaBE/go-xlsb/worksheet"

	"github.com/unbound-force/assay/internal/adapter"
	"github.com/unbound-force/assay/internal/corpus"
	"github.com/unbound-force/assay/internal/sheet"
)

// Name is the registry name.
const Name = "goxlsb"

const modulePath = "github.com/TsubasaBE/go-xlsb"

// Adapter wraps go-xlsb read support for xlsb files.
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

func (a *Adapter) Formats() []string { return []string{"xlsb"} }

func (a *Adapter) CanRead() bool { return true }

func (a *Adapter) CanWrite() bool { return false }

func (a *Adapter) WriteCase(path string, tf corpus.TestFile, c corpus.TestCase) error {
	return adapter.Unsupportedf("writing workbooks")
}

func (a *Adapter) OpenReader(path string) (adapter.Reader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	wb, err := workbook.OpenReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return &reader{wb: wb, grids: make(map[string]map[sheet.Ref]worksheet.Cell)}, nil
}

type reader struct {
	adapter.UnsupportedReader
	wb *workbook.Workbook

	// grids indexes each sheet's populated cells after one pass over
	// the record stream.
	grids map[string]map[sheet.Ref]worksheet.Cell
}

func (r *reader) Close() error { return r.wb.Close() }

func (r *reader) SheetNames() ([]string, error) {
	return append([]string(nil), r.wb.Sheets()...), nil
}

func (r *reader) grid(name string) (map[sheet.Ref]worksheet.Cell, error) {
	if g, ok := r.grids[name]; ok {
		return g, nil
	}
	ws, err := r.wb.SheetByName(name)
	if err != nil {
		return nil, err
	}
	g := make(map[sheet.Ref]worksheet.Cell)
	for row := range ws.Rows(true) {
		for _, c := range row {
			g[sheet.Ref{Col: c.C + 1, Row: c.R + 1}] = c
		}
	}
	r.grids[name] = g
	return g, nil
}

func (r *reader) CellValue(sheetName string, ref sheet.Ref) (sheet.CellValue, error) {
	g, err := r.grid(sheetName)
	if err != nil {
		return sheet.CellValue{}, err
	}
	c, ok := g[ref]
	if !ok {
		return sheet.BlankValue(), nil
	}

	switch v := c.V.(type) {
	case nil:
		return sheet.BlankValue(), nil
	case bool:
		return sheet.BoolValue(v), nil
	case string:
		if v == "" {
			return sheet.BlankValue(), nil
		}
		if errorCodes[v] {
			return sheet.ErrorValue(v), nil
		}
		return sheet.StringValue(v), nil
	case float64:
		if r.wb.Styles.IsDate(c.Style) {
			t, err := xlsb.ConvertDateEx(v, r.wb.Date1904)
			if err != nil {
				return sheet.CellValue{}, fmt.Errorf("converting serial %v: %w", v, err)
			}
			return sheet.DateValue(t), nil
		}
		return sheet.NumberValue(v), nil
	default:
		return sheet.CellValue{}, fmt.Errorf("unexpected cell value type %T", c.V)
	}
}

// errorCodes are the rendered forms of BIFF12 error cells.
var errorCodes = map[string]bool{
	"#NULL!":        true,
	"#DIV/0!":       true,
	"#VALUE!":       true,
	"#REF!":         true,
	"#NAME?":        true,
	"#NUM!":         true,
	"#N/A":          true,
	"#GETTING_DATA": true,
}
