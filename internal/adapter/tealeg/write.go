package tealeg

import (
	"fmt"
	"strings"
	"time"

	"github.com/tealeg/xlsx/v3"

	"github.com/unbound-force/assay/internal/adapter"
	"github.com/unbound-force/assay/internal/corpus"
	"github.com/unbound-force/assay/internal/sheet"
)

// borderStyleFromOOXML maps OOXML border tokens to line style names.
var borderStyleFromOOXML = map[string]sheet.BorderStyle{
	"":                 sheet.BorderNone,
	"none":             sheet.BorderNone,
	"thin":             sheet.BorderThin,
	"medium":           sheet.BorderMedium,
	"thick":            sheet.BorderThick,
	"dashed":           sheet.BorderDashed,
	"dotted":           sheet.BorderDotted,
	"double":           sheet.BorderDouble,
	"hair":             sheet.BorderHair,
	"mediumDashed":     sheet.BorderMediumDashed,
	"dashDot":          sheet.BorderDashDot,
	"mediumDashDot":    sheet.BorderMediumDashDot,
	"dashDotDot":       sheet.BorderDashDotDot,
	"mediumDashDotDot": sheet.BorderMediumDashDotDot,
	"slantDashDot":     sheet.BorderSlantDashDot,
}

var borderStyleToOOXML = func() map[sheet.BorderStyle]string {
	m := make(map[sheet.BorderStyle]string, len(borderStyleFromOOXML))
	for token, name := range borderStyleFromOOXML {
		if token != "" {
			m[name] = token
		}
	}
	return m
}()

// normalizeColor folds tealeg's ARGB color strings to "#RRGGBB".
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

// argb converts "#RRGGBB" to the ARGB form tealeg stores.
func argb(c string) string {
	return "FF" + strings.ToUpper(strings.TrimPrefix(c, "#"))
}

// WriteCase builds a one-case workbook at path. Features beyond the
// library's styling and value support report ErrUnsupported.
func (a *Adapter) WriteCase(path string, tf corpus.TestFile, c corpus.TestCase) error {
	f := xlsx.NewFile()
	sh, err := f.AddSheet(tf.SheetFor(c))
	if err != nil {
		return err
	}
	if err := writeSetupSheets(f, c.Setup); err != nil {
		return err
	}

	ref, err := c.Ref()
	if err != nil {
		return err
	}
	if c.Label != "" {
		label, err := sh.Cell(ref.Row-1, 0)
		if err != nil {
			return err
		}
		label.SetString(c.Label)
	}

	if err := writeFeature(f, sh, tf.Feature, ref, c); err != nil {
		return err
	}

	if err := f.Save(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

func writeFeature(f *xlsx.File, sh *xlsx.Sheet, feature string, ref sheet.Ref, c corpus.TestCase) error {
	payload, err := adapter.PayloadMap(c.Expected)
	if err != nil {
		return err
	}

	switch feature {
	case "cell_values":
		return writeCellValue(sh, ref, payload)
	case "formulas":
		return writeFormula(sh, ref, payload, c.Setup)
	case "text_formatting":
		return writeTextFormatting(sh, ref, payload)
	case "background_colors":
		return writeBackground(sh, ref, payload)
	case "number_formats":
		return writeNumberFormat(sh, ref, payload)
	case "alignment":
		return writeAlignment(sh, ref, payload)
	case "borders":
		return writeBorders(sh, ref, payload)
	case "dimensions":
		return writeDimensions(sh, ref, payload)
	case "multiple_sheets":
		if _, ok := payload["sheets"]; ok {
			return writeSheets(f, payload)
		}
		return writeCellValue(sh, ref, payload)
	case "merged_cells":
		return writeMerged(sh, payload)
	default:
		return adapter.Unsupportedf("writing feature %s", feature)
	}
}

func dataCell(sh *xlsx.Sheet, ref sheet.Ref) (*xlsx.Cell, error) {
	return sh.Cell(ref.Row-1, ref.Col-1)
}

func writeCellValue(sh *xlsx.Sheet, ref sheet.Ref, p map[string]any) error {
	cell, err := dataCell(sh, ref)
	if err != nil {
		return err
	}
	typ, _ := adapter.PayloadString(p, "type")
	switch sheet.CellType(typ) {
	case sheet.TypeString:
		s, _ := adapter.PayloadString(p, "value")
		cell.SetString(s)
		return nil
	case sheet.TypeNumber:
		n, ok := adapter.PayloadFloat(p, "value")
		if !ok {
			return fmt.Errorf("number case without numeric value")
		}
		cell.SetFloat(n)
		return nil
	case sheet.TypeBoolean:
		b, _ := adapter.PayloadBool(p, "value")
		cell.SetBool(b)
		return nil
	case sheet.TypeDate:
		iso, _ := adapter.PayloadString(p, "value")
		t, err := time.Parse(sheet.DateLayout, iso)
		if err != nil {
			return fmt.Errorf("date case value %q: %w", iso, err)
		}
		cell.SetDateTime(t)
		return nil
	case sheet.TypeFormula:
		return writeFormula(sh, ref, p, nil)
	case sheet.TypeBlank:
		return nil
	case sheet.TypeError:
		return adapter.Unsupportedf("writing error cells")
	default:
		return fmt.Errorf("unknown cell value type %q", typ)
	}
}

func writeFormula(sh *xlsx.Sheet, ref sheet.Ref, p, setup map[string]any) error {
	formula, ok := adapter.PayloadString(p, "formula")
	if !ok {
		return fmt.Errorf("formula case without formula")
	}
	if operands, ok := adapter.PayloadSlice(setup, "operands"); ok {
		for i, op := range operands {
			opCell, err := sh.Cell(ref.Row-1, ref.Col+1+i)
			if err != nil {
				return err
			}
			opCell.SetValue(op)
		}
	}
	cell, err := dataCell(sh, ref)
	if err != nil {
		return err
	}
	cell.SetFormula(formula)
	return nil
}

func writeSetupSheets(f *xlsx.File, setup map[string]any) error {
	entries, ok := adapter.PayloadSlice(setup, "sheets")
	if !ok {
		return nil
	}
	for _, raw := range entries {
		entry, err := adapter.PayloadMap(raw)
		if err != nil {
			return err
		}
		name, _ := adapter.PayloadString(entry, "name")
		if name == "" {
			return fmt.Errorf("setup sheet without name")
		}
		sh, exists := f.Sheet[name]
		if !exists {
			if sh, err = f.AddSheet(name); err != nil {
				return err
			}
		}
		cellRef, _ := adapter.PayloadString(entry, "cell")
		if cellRef == "" {
			continue
		}
		ref, err := sheet.ParseRef(cellRef)
		if err != nil {
			return err
		}
		cell, err := sh.Cell(ref.Row-1, ref.Col-1)
		if err != nil {
			return err
		}
		cell.SetValue(entry["value"])
	}
	return nil
}

func writeTextFormatting(sh *xlsx.Sheet, ref sheet.Ref, p map[string]any) error {
	cell, err := dataCell(sh, ref)
	if err != nil {
		return err
	}
	cell.SetString("Sample text")

	st := xlsx.NewStyle()
	if b, ok := adapter.PayloadBool(p, "bold"); ok {
		st.Font.Bold = b
	}
	if b, ok := adapter.PayloadBool(p, "italic"); ok {
		st.Font.Italic = b
	}
	if b, ok := adapter.PayloadBool(p, "underline"); ok {
		st.Font.Underline = b
	}
	if _, ok := adapter.PayloadBool(p, "strikethrough"); ok {
		return adapter.Unsupportedf("strikethrough")
	}
	if name, ok := adapter.PayloadString(p, "font_name"); ok {
		st.Font.Name = name
	}
	if size, ok := adapter.PayloadFloat(p, "font_size"); ok {
		st.Font.Size = size
	}
	if color, ok := adapter.PayloadString(p, "font_color"); ok {
		st.Font.Color = argb(color)
	}
	st.ApplyFont = true
	cell.SetStyle(st)
	return nil
}

func writeBackground(sh *xlsx.Sheet, ref sheet.Ref, p map[string]any) error {
	cell, err := dataCell(sh, ref)
	if err != nil {
		return err
	}
	cell.SetString("Filled")

	color, ok := adapter.PayloadString(p, "bg_color")
	if !ok {
		return fmt.Errorf("background case without bg_color")
	}
	st := xlsx.NewStyle()
	st.Fill = *xlsx.NewFill("solid", argb(color), argb(color))
	st.ApplyFill = true
	cell.SetStyle(st)
	return nil
}

func writeNumberFormat(sh *xlsx.Sheet, ref sheet.Ref, p map[string]any) error {
	cell, err := dataCell(sh, ref)
	if err != nil {
		return err
	}
	code, ok := adapter.PayloadString(p, "format")
	if !ok {
		return fmt.Errorf("number format case without format")
	}
	value := 1234.5678
	if n, ok := adapter.PayloadFloat(p, "sample"); ok {
		value = n
	}
	cell.SetFloatWithFormat(value, code)
	return nil
}

func writeAlignment(sh *xlsx.Sheet, ref sheet.Ref, p map[string]any) error {
	cell, err := dataCell(sh, ref)
	if err != nil {
		return err
	}
	cell.SetString("Aligned")

	st := xlsx.NewStyle()
	if h, ok := adapter.PayloadString(p, "horizontal"); ok {
		st.Alignment.Horizontal = h
	}
	if v, ok := adapter.PayloadString(p, "vertical"); ok {
		st.Alignment.Vertical = v
	}
	if w, ok := adapter.PayloadBool(p, "wrap_text"); ok {
		st.Alignment.WrapText = w
	}
	st.ApplyAlignment = true
	cell.SetStyle(st)
	return nil
}

func writeBorders(sh *xlsx.Sheet, ref sheet.Ref, p map[string]any) error {
	cell, err := dataCell(sh, ref)
	if err != nil {
		return err
	}
	cell.SetString("Bordered")

	st := xlsx.NewStyle()
	for key := range p {
		edge, err := adapter.PayloadMap(p[key])
		if err != nil {
			return fmt.Errorf("border edge %s: %w", key, err)
		}
		styleName, _ := adapter.PayloadString(edge, "style")
		token, ok := borderStyleToOOXML[sheet.BorderStyle(styleName)]
		if !ok {
			return fmt.Errorf("unknown border style %q", styleName)
		}
		color := argb(sheet.DefaultBorderColor)
		if c, ok := adapter.PayloadString(edge, "color"); ok {
			color = argb(c)
		}
		switch key {
		case "top":
			st.Border.Top, st.Border.TopColor = token, color
		case "bottom":
			st.Border.Bottom, st.Border.BottomColor = token, color
		case "left":
			st.Border.Left, st.Border.LeftColor = token, color
		case "right":
			st.Border.Right, st.Border.RightColor = token, color
		default:
			return adapter.Unsupportedf("border edge %s", key)
		}
	}
	st.ApplyBorder = true
	cell.SetStyle(st)
	return nil
}

func writeDimensions(sh *xlsx.Sheet, ref sheet.Ref, p map[string]any) error {
	if h, ok := adapter.PayloadFloat(p, "row_height"); ok {
		row, err := sh.Row(ref.Row - 1)
		if err != nil {
			return err
		}
		row.SetHeight(h)
	}
	if w, ok := adapter.PayloadFloat(p, "col_width"); ok {
		sh.SetColWidth(ref.Col, ref.Col, w)
	}
	cell, err := dataCell(sh, ref)
	if err != nil {
		return err
	}
	cell.SetString("Sized")
	return nil
}

func writeSheets(f *xlsx.File, p map[string]any) error {
	for _, name := range adapter.PayloadStrings(p, "sheets") {
		if _, exists := f.Sheet[name]; exists {
			continue
		}
		if _, err := f.AddSheet(name); err != nil {
			return err
		}
	}
	return nil
}

func writeMerged(sh *xlsx.Sheet, p map[string]any) error {
	for _, rangeRef := range adapter.PayloadStrings(p, "ranges") {
		rng, err := sheet.ParseRange(rangeRef)
		if err != nil {
			return err
		}
		cell, err := sh.Cell(rng.Start.Row-1, rng.Start.Col-1)
		if err != nil {
			return err
		}
		cell.SetString("Merged")
		cell.Merge(rng.End.Col-rng.Start.Col, rng.End.Row-rng.Start.Row)
	}
	return nil
}
