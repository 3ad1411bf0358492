// Package excelize adapts github.com/xuri/excelize for the harness.
// It is the most capable built-in adapter and the default write
// verifier: a workbook written by any adapter is read back through
// this one.
package excelize

import (
	"fmt"
	"strconv"
	"strings"

	xl "github.com/xuri/excelize/v2"

	"github.com/unbound-force/assay/internal/adapter"
	"github.com/unbound-force/assay/internal/sheet"
)

// Name is the registry name.
const Name = "excelize"

const modulePath = "github.com/xuri/excelize/v2"

// Adapter wraps excelize read and write support for xlsx files.
type Adapter struct{}

// New returns the adapter.
func New() *Adapter { return &Adapter{} }

// Info describes the wrapped library.
func (a *Adapter) Info() adapter.Info {
	return adapter.Info{
		Name:         Name,
		Version:      adapter.ModuleVersion(modulePath),
		Language:     "go",
		Capabilities: adapter.Caps(a),
	}
}

// Formats lists supported file extensions.
func (a *Adapter) Formats() []string { return []string{"xlsx"} }

// CanRead reports read support.
func (a *Adapter) CanRead() bool { return true }

// CanWrite reports write support.
func (a *Adapter) CanWrite() bool { return true }

// OpenReader opens a workbook for extraction.
func (a *Adapter) OpenReader(path string) (adapter.Reader, error) {
	f, err := xl.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return &reader{f: f}, nil
}

type reader struct {
	adapter.UnsupportedReader
	f *xl.File
}

func (r *reader) Close() error { return r.f.Close() }

func (r *reader) SheetNames() ([]string, error) {
	return r.f.GetSheetList(), nil
}

func (r *reader) CellValue(sheetName string, ref sheet.Ref) (sheet.CellValue, error) {
	cell := ref.String()

	formula, err := r.f.GetCellFormula(sheetName, cell)
	if err != nil {
		return sheet.CellValue{}, err
	}
	raw, err := r.f.GetCellValue(sheetName, cell, xl.Options{RawCellValue: true})
	if err != nil {
		return sheet.CellValue{}, err
	}

	if formula != "" {
		var computed any
		if raw != "" {
			if n, err := strconv.ParseFloat(raw, 64); err == nil {
				computed = n
			} else {
				computed = raw
			}
		}
		return sheet.FormulaValue(formula, computed), nil
	}

	ctype, err := r.f.GetCellType(sheetName, cell)
	if err != nil {
		return sheet.CellValue{}, err
	}
	switch ctype {
	case xl.CellTypeBool:
		return sheet.BoolValue(raw == "1" || strings.EqualFold(raw, "true")), nil
	case xl.CellTypeError:
		return sheet.ErrorValue(raw), nil
	}

	if raw == "" {
		return sheet.BlankValue(), nil
	}

	if n, err := strconv.ParseFloat(raw, 64); err == nil {
		dateStyled, err := r.isDateStyled(sheetName, cell)
		if err != nil {
			return sheet.CellValue{}, err
		}
		if dateStyled {
			t, err := xl.ExcelDateToTime(n, false)
			if err != nil {
				return sheet.CellValue{}, fmt.Errorf("cell %s: %w", cell, err)
			}
			return sheet.DateValue(t), nil
		}
		return sheet.NumberValue(n), nil
	}
	return sheet.StringValue(raw), nil
}

func (r *reader) style(sheetName, cell string) (*xl.Style, error) {
	id, err := r.f.GetCellStyle(sheetName, cell)
	if err != nil {
		return nil, err
	}
	st, err := r.f.GetStyle(id)
	if err != nil {
		return nil, err
	}
	return st, nil
}

func (r *reader) isDateStyled(sheetName, cell string) (bool, error) {
	st, err := r.style(sheetName, cell)
	if err != nil {
		return false, err
	}
	if st.CustomNumFmt != nil {
		return looksLikeDateFormat(*st.CustomNumFmt), nil
	}
	return builtinDateFormats[st.NumFmt], nil
}

func (r *reader) CellFormat(sheetName string, ref sheet.Ref) (sheet.CellFormat, error) {
	st, err := r.style(sheetName, ref.String())
	if err != nil {
		return sheet.CellFormat{}, err
	}

	var out sheet.CellFormat
	if font := st.Font; font != nil {
		out.Bold = boolPtr(font.Bold)
		out.Italic = boolPtr(font.Italic)
		out.Strikethrough = boolPtr(font.Strike)
		out.Underline = boolPtr(font.Underline != "" && font.Underline != "none")
		if font.Family != "" {
			out.FontName = strPtr(font.Family)
		}
		if font.Size > 0 {
			out.FontSize = floatPtr(font.Size)
		}
		if c := normalizeColor(font.Color); c != "" {
			out.FontColor = strPtr(c)
		}
	}
	if len(st.Fill.Color) > 0 && st.Fill.Pattern != 0 {
		if c := normalizeColor(st.Fill.Color[0]); c != "" {
			out.Background = strPtr(c)
		}
	}
	return out, nil
}

func (r *reader) CellBorders(sheetName string, ref sheet.Ref) (sheet.Borders, error) {
	st, err := r.style(sheetName, ref.String())
	if err != nil {
		return sheet.Borders{}, err
	}

	var out sheet.Borders
	for _, b := range st.Border {
		style, ok := borderStyleName[b.Style]
		if !ok || style == sheet.BorderNone {
			continue
		}
		edge := &sheet.BorderEdge{Style: style, Color: borderColor(b.Color)}
		switch b.Type {
		case "top":
			out.Top = edge
		case "bottom":
			out.Bottom = edge
		case "left":
			out.Left = edge
		case "right":
			out.Right = edge
		case "diagonalUp":
			out.DiagonalUp = edge
		case "diagonalDown":
			out.DiagonalDown = edge
		}
	}
	return out, nil
}

func (r *reader) CellAlignment(sheetName string, ref sheet.Ref) (sheet.Alignment, error) {
	st, err := r.style(sheetName, ref.String())
	if err != nil {
		return sheet.Alignment{}, err
	}

	var out sheet.Alignment
	if al := st.Alignment; al != nil {
		out.Horizontal = al.Horizontal
		out.Vertical = al.Vertical
		out.WrapText = al.WrapText
	}
	return out, nil
}

func (r *reader) NumberFormat(sheetName string, ref sheet.Ref) (string, error) {
	st, err := r.style(sheetName, ref.String())
	if err != nil {
		return "", err
	}
	if st.CustomNumFmt != nil {
		return *st.CustomNumFmt, nil
	}
	if code, ok := builtinNumFmtCodes[st.NumFmt]; ok {
		return code, nil
	}
	return "", fmt.Errorf("number format id %d has no known code", st.NumFmt)
}

func (r *reader) RowHeight(sheetName string, row int) (float64, error) {
	return r.f.GetRowHeight(sheetName, row)
}

func (r *reader) ColWidth(sheetName string, col int) (float64, error) {
	return r.f.GetColWidth(sheetName, sheet.ColName(col))
}

func boolPtr(b bool) *bool        { return &b }
func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

// normalizeColor folds excelize color strings ("FF0000", "#ff0000",
// ARGB "FFFF0000") to "#RRGGBB". Empty and theme-indexed colors
// normalize to "".
func normalizeColor(c string) string {
	c = strings.ToUpper(strings.TrimPrefix(c, "#"))
	if len(c) == 8 {
		c = c[2:]
	}
	if len(c) != 6 {
		return ""
	}
	return "#" + c
}

func borderColor(c string) string {
	if n := normalizeColor(c); n != "" {
		return n
	}
	return sheet.DefaultBorderColor
}
