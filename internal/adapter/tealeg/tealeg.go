// Package tealeg adapts github.com/tealeg/xlsx for the harness. The
// library covers values, styling, and dimensions well but has no
// support for most structural features, which the fault taxonomy
// surfaces as unsupported_feature warnings.
package tealeg

import (
	"fmt"
	"strconv"

	"github.com/tealeg/xlsx/v3"

	"github.com/unbound-force/assay/internal/adapter"
	"github.com/unbound-force/assay/internal/sheet"
)

// Name is the registry name.
const Name = "tealeg"

const modulePath = "github.com/tealeg/xlsx/v3"

// Adapter wraps tealeg/xlsx read and write support for xlsx files.
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

func (a *Adapter) CanWrite() bool { return true }

func (a *Adapter) OpenReader(path string) (adapter.Reader, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return &reader{f: f}, nil
}

type reader struct {
	adapter.UnsupportedReader
	f *xlsx.File
}

func (r *reader) Close() error { return nil }

func (r *reader) sheet(name string) (*xlsx.Sheet, error) {
	sh, ok := r.f.Sheet[name]
	if !ok {
		return nil, fmt.Errorf("sheet %q not found", name)
	}
	return sh, nil
}

func (r *reader) cell(sheetName string, ref sheet.Ref) (*xlsx.Cell, error) {
	sh, err := r.sheet(sheetName)
	if err != nil {
		return nil, err
	}
	return sh.Cell(ref.Row-1, ref.Col-1)
}

func (r *reader) SheetNames() ([]string, error) {
	names := make([]string, len(r.f.Sheets))
	for i, sh := range r.f.Sheets {
		names[i] = sh.Name
	}
	return names, nil
}

func (r *reader) CellValue(sheetName string, ref sheet.Ref) (sheet.CellValue, error) {
	c, err := r.cell(sheetName, ref)
	if err != nil {
		return sheet.CellValue{}, err
	}

	if formula := c.Formula(); formula != "" {
		var computed any
		if c.Value != "" {
			if n, err := strconv.ParseFloat(c.Value, 64); err == nil {
				computed = n
			} else {
				computed = c.Value
			}
		}
		return sheet.FormulaValue(formula, computed), nil
	}

	switch c.Type() {
	case xlsx.CellTypeBool:
		return sheet.BoolValue(c.Bool()), nil
	case xlsx.CellTypeError:
		return sheet.ErrorValue(c.Value), nil
	case xlsx.CellTypeDate:
		t, err := c.GetTime(false)
		if err != nil {
			return sheet.CellValue{}, fmt.Errorf("reading date: %w", err)
		}
		return sheet.DateValue(t), nil
	case xlsx.CellTypeNumeric:
		if c.Value == "" {
			return sheet.BlankValue(), nil
		}
		if c.IsTime() {
			t, err := c.GetTime(false)
			if err != nil {
				return sheet.CellValue{}, fmt.Errorf("reading date: %w", err)
			}
			return sheet.DateValue(t), nil
		}
		n, err := c.Float()
		if err != nil {
			return sheet.CellValue{}, fmt.Errorf("reading number: %w", err)
		}
		return sheet.NumberValue(n), nil
	default:
		if c.Value == "" {
			return sheet.BlankValue(), nil
		}
		return sheet.StringValue(c.Value), nil
	}
}

func (r *reader) CellFormat(sheetName string, ref sheet.Ref) (sheet.CellFormat, error) {
	c, err := r.cell(sheetName, ref)
	if err != nil {
		return sheet.CellFormat{}, err
	}

	var out sheet.CellFormat
	st := c.GetStyle()
	if st == nil {
		return out, nil
	}

	font := st.Font
	out.Bold = boolPtr(font.Bold)
	out.Italic = boolPtr(font.Italic)
	out.Underline = boolPtr(font.Underline)
	if font.Name != "" {
		out.FontName = strPtr(font.Name)
	}
	if font.Size > 0 {
		out.FontSize = floatPtr(float64(font.Size))
	}
	if c := normalizeColor(font.Color); c != "" {
		out.FontColor = strPtr(c)
	}
	if st.Fill.PatternType != "" && st.Fill.PatternType != "none" {
		if c := normalizeColor(st.Fill.FgColor); c != "" {
			out.Background = strPtr(c)
		}
	}
	return out, nil
}

func (r *reader) CellBorders(sheetName string, ref sheet.Ref) (sheet.Borders, error) {
	c, err := r.cell(sheetName, ref)
	if err != nil {
		return sheet.Borders{}, err
	}

	var out sheet.Borders
	st := c.GetStyle()
	if st == nil {
		return out, nil
	}

	b := st.Border
	out.Top = borderEdge(b.Top, b.TopColor)
	out.Bottom = borderEdge(b.Bottom, b.BottomColor)
	out.Left = borderEdge(b.Left, b.LeftColor)
	out.Right = borderEdge(b.Right, b.RightColor)
	return out, nil
}

func borderEdge(style, color string) *sheet.BorderEdge {
	name, ok := borderStyleFromOOXML[style]
	if !ok || name == sheet.BorderNone {
		return nil
	}
	c := normalizeColor(color)
	if c == "" {
		c = sheet.DefaultBorderColor
	}
	return &sheet.BorderEdge{Style: name, Color: c}
}

func (r *reader) CellAlignment(sheetName string, ref sheet.Ref) (sheet.Alignment, error) {
	c, err := r.cell(sheetName, ref)
	if err != nil {
		return sheet.Alignment{}, err
	}

	var out sheet.Alignment
	st := c.GetStyle()
	if st == nil {
		return out, nil
	}
	al := st.Alignment
	if al.Horizontal != "" && al.Horizontal != "general" {
		out.Horizontal = al.Horizontal
	}
	if al.Vertical != "" {
		out.Vertical = al.Vertical
	}
	out.WrapText = al.WrapText
	return out, nil
}

func (r *reader) NumberFormat(sheetName string, ref sheet.Ref) (string, error) {
	c, err := r.cell(sheetName, ref)
	if err != nil {
		return "", err
	}
	return c.GetNumberFormat(), nil
}

func (r *reader) RowHeight(sheetName string, row int) (float64, error) {
	sh, err := r.sheet(sheetName)
	if err != nil {
		return 0, err
	}
	rw, err := sh.Row(row - 1)
	if err != nil {
		return 0, err
	}
	return rw.GetHeight(), nil
}

func (r *reader) ColWidth(sheetName string, col int) (float64, error) {
	sh, err := r.sheet(sheetName)
	if err != nil {
		return 0, err
	}
	c := sh.Col(col - 1)
	if c == nil || c.Width == nil {
		return 0, fmt.Errorf("column %d has no explicit width", col)
	}
	return *c.Width, nil
}

func (r *reader) MergedRanges(sheetName string) ([]sheet.Range, error) {
	sh, err := r.sheet(sheetName)
	if err != nil {
		return nil, err
	}

	var out []sheet.Range
	err = sh.ForEachRow(func(row *xlsx.Row) error {
		return row.ForEachCell(func(c *xlsx.Cell) error {
			if c.HMerge == 0 && c.VMerge == 0 {
				return nil
			}
			col, rowIdx := c.GetCoordinates()
			start := sheet.Ref{Col: col + 1, Row: rowIdx + 1}
			end := sheet.Ref{Col: col + 1 + c.HMerge, Row: rowIdx + 1 + c.VMerge}
			out = append(out, sheet.Range{Start: start, End: end})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func boolPtr(b bool) *bool        { return &b }
func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }
