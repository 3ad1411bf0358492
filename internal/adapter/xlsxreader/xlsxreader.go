// Package xlsxreader adapts github.com/thedatashed/xlsxreader, a
// streaming values-only reader. Styling and structural probes all
// surface as unsupported_feature.
package xlsxreader

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	xr "github.com/thedatashed/xlsxreader"

	"github.com/unbound-force/assay/internal/adapter"
	"github.com/unbound-force/assay/internal/corpus"
	"github.com/unbound-force/assay/internal/sheet"
)

// Name is the registry name.
const Name = "xlsxreader"

const modulePath = "github.com/thedatashed/xlsxreader"

// Adapter wraps thedatashed/xlsxreader read support for xlsx files.
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

func (a *Adapter) Formats() []string { return []string{"xlsx"} }

func (a *Adapter) CanRead() bool { return true }

func (a *Adapter) CanWrite() bool { return false }

func (a *Adapter) WriteCase(path string, tf corpus.TestFile, c corpus.TestCase) error {
	return adapter.Unsupportedf("writing workbooks")
}

func (a *Adapter) OpenReader(path string) (adapter.Reader, error) {
	f, err := xr.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return &reader{f: f, cells: make(map[string]map[sheet.Ref]xr.Cell)}, nil
}

type reader struct {
	adapter.UnsupportedReader
	f *xr.XlsxFileCloser

	// cells indexes each sheet's populated cells after one streaming
	// pass, so repeated probes do not re-read the zip.
	cells map[string]map[sheet.Ref]xr.Cell
}

func (r *reader) Close() error { return r.f.Close() }

func (r *reader) SheetNames() ([]string, error) {
	return append([]string(nil), r.f.Sheets...), nil
}

func (r *reader) load(sheetName string) (map[sheet.Ref]xr.Cell, error) {
	if cached, ok := r.cells[sheetName]; ok {
		return cached, nil
	}

	known := false
	for _, name := range r.f.Sheets {
		if name == sheetName {
			known = true
			break
		}
	}
	if !known {
		return nil, fmt.Errorf("sheet %q not found", sheetName)
	}

	indexed := make(map[sheet.Ref]xr.Cell)
	for row := range r.f.ReadRows(sheetName) {
		if row.Error != nil {
			return nil, fmt.Errorf("streaming rows: %w", row.Error)
		}
		for _, c := range row.Cells {
			ref, err := sheet.ParseRef(c.Column + strconv.Itoa(c.Row))
			if err != nil {
				return nil, err
			}
			indexed[ref] = c
		}
	}
	r.cells[sheetName] = indexed
	return indexed, nil
}

func (r *reader) CellValue(sheetName string, ref sheet.Ref) (sheet.CellValue, error) {
	cells, err := r.load(sheetName)
	if err != nil {
		return sheet.CellValue{}, err
	}
	c, ok := cells[ref]
	if !ok || c.Value == "" {
		return sheet.BlankValue(), nil
	}

	switch c.Type {
	case xr.TypeNumerical:
		n, err := strconv.ParseFloat(c.Value, 64)
		if err != nil {
			return sheet.CellValue{}, fmt.Errorf("parsing number %q: %w", c.Value, err)
		}
		return sheet.NumberValue(n), nil
	case xr.TypeBoolean:
		b := c.Value == "1" || strings.EqualFold(c.Value, "true")
		return sheet.BoolValue(b), nil
	case xr.TypeDateTime:
		t, err := parseDateTime(c.Value)
		if err != nil {
			return sheet.CellValue{}, err
		}
		return sheet.DateValue(t), nil
	default:
		return sheet.StringValue(c.Value), nil
	}
}

// parseDateTime accepts the library's ISO-8601 rendering, with and
// without a zone designator.
func parseDateTime(v string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, sheet.DateLayout} {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized datetime %q", v)
}
