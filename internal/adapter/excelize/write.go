package excelize

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	xl "github.com/xuri/excelize/v2"

	"github.com/unbound-force/assay/internal/adapter"
	"github.com/unbound-force/assay/internal/corpus"
	"github.com/unbound-force/assay/internal/sheet"
)

// pixelPNG is a valid 1x1 transparent PNG, the smallest payload the
// image round-trip can carry.
var pixelPNG = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A,
	0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52,
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4, 0x89,
	0x00, 0x00, 0x00, 0x0A, 0x49, 0x44, 0x41, 0x54,
	0x78, 0x9C, 0x63, 0x00, 0x01, 0x00, 0x00, 0x05, 0x00, 0x01,
	0x0D, 0x0A, 0x2D, 0xB4,
	0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4E, 0x44,
	0xAE, 0x42, 0x60, 0x82,
}

// WriteCase builds a one-case workbook at path. The case expectation
// payload doubles as the write instruction.
func (a *Adapter) WriteCase(path string, tf corpus.TestFile, c corpus.TestCase) error {
	f := xl.NewFile()
	defer f.Close()

	sheetName := tf.SheetFor(c)
	if sheetName != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheetName); err != nil {
			return err
		}
	}
	if err := writeSetupSheets(f, c.Setup); err != nil {
		return err
	}

	ref, err := c.Ref()
	if err != nil {
		return err
	}
	if c.Label != "" {
		labelCell := sheet.Ref{Col: 1, Row: ref.Row}.String()
		if err := f.SetCellValue(sheetName, labelCell, c.Label); err != nil {
			return err
		}
	}

	if err := a.writeFeature(f, sheetName, tf.Feature, ref, c); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}

func (a *Adapter) writeFeature(f *xl.File, sheetName, feature string, ref sheet.Ref, c corpus.TestCase) error {
	payload, err := adapter.PayloadMap(c.Expected)
	if err != nil {
		return err
	}

	switch feature {
	case "cell_values":
		return writeCellValue(f, sheetName, ref, payload)
	case "formulas":
		return writeFormula(f, sheetName, ref, payload, c.Setup)
	case "text_formatting":
		return writeTextFormatting(f, sheetName, ref, payload)
	case "background_colors":
		return writeBackground(f, sheetName, ref, payload)
	case "number_formats":
		return writeNumberFormat(f, sheetName, ref, payload)
	case "alignment":
		return writeAlignment(f, sheetName, ref, payload)
	case "borders":
		return writeBorders(f, sheetName, ref, payload)
	case "dimensions":
		return writeDimensions(f, sheetName, ref, payload)
	case "multiple_sheets":
		// Sheet-list cases declare "sheets"; the remaining cases are
		// plain values pinned to one of the sheets.
		if _, ok := payload["sheets"]; ok {
			return writeSheets(f, payload)
		}
		return writeCellValue(f, sheetName, ref, payload)
	case "merged_cells":
		return writeMerged(f, sheetName, payload)
	case "hyperlinks":
		return writeHyperlinks(f, sheetName, payload)
	case "comments":
		return writeComments(f, sheetName, payload)
	case "freeze_panes":
		return writeFreeze(f, sheetName, payload)
	case "named_ranges":
		return writeNamedRanges(f, sheetName, payload, c.Setup)
	case "tables":
		return writeTables(f, sheetName, payload)
	case "data_validation":
		return writeValidations(f, sheetName, payload)
	case "conditional_formatting":
		return writeCondFormats(f, sheetName, payload)
	case "images":
		return writeImages(f, sheetName, payload)
	case "pivot_tables":
		return writePivot(f, sheetName, payload)
	default:
		return adapter.Unsupportedf("writing feature %s", feature)
	}
}

func writeCellValue(f *xl.File, sheetName string, ref sheet.Ref, p map[string]any) error {
	cell := ref.String()
	typ, _ := adapter.PayloadString(p, "type")
	switch sheet.CellType(typ) {
	case sheet.TypeString:
		s, _ := adapter.PayloadString(p, "value")
		return f.SetCellStr(sheetName, cell, s)
	case sheet.TypeNumber:
		n, ok := adapter.PayloadFloat(p, "value")
		if !ok {
			return fmt.Errorf("number case without numeric value")
		}
		return f.SetCellValue(sheetName, cell, n)
	case sheet.TypeBoolean:
		b, _ := adapter.PayloadBool(p, "value")
		return f.SetCellBool(sheetName, cell, b)
	case sheet.TypeDate:
		iso, _ := adapter.PayloadString(p, "value")
		t, err := time.Parse(sheet.DateLayout, iso)
		if err != nil {
			return fmt.Errorf("date case value %q: %w", iso, err)
		}
		if err := f.SetCellValue(sheetName, cell, t); err != nil {
			return err
		}
		style, err := f.NewStyle(&xl.Style{NumFmt: 22})
		if err != nil {
			return err
		}
		return f.SetCellStyle(sheetName, cell, cell, style)
	case sheet.TypeFormula:
		return writeFormula(f, sheetName, ref, p, nil)
	case sheet.TypeBlank:
		return nil
	case sheet.TypeError:
		return adapter.Unsupportedf("writing error cells")
	default:
		return fmt.Errorf("unknown cell value type %q", typ)
	}
}

func writeFormula(f *xl.File, sheetName string, ref sheet.Ref, p, setup map[string]any) error {
	formula, ok := adapter.PayloadString(p, "formula")
	if !ok {
		return fmt.Errorf("formula case without formula")
	}
	// Operands live two columns right of the data cell so relative
	// references in fixtures stay stable.
	if operands, ok := adapter.PayloadSlice(setup, "operands"); ok {
		for i, op := range operands {
			opCell := sheet.Ref{Col: ref.Col + 2 + i, Row: ref.Row}.String()
			if err := f.SetCellValue(sheetName, opCell, op); err != nil {
				return err
			}
		}
	}
	return f.SetCellFormula(sheetName, ref.String(), formula)
}

// writeSetupSheets materializes the extra worksheets a case depends
// on (cross-sheet formula targets, internal link destinations).
func writeSetupSheets(f *xl.File, setup map[string]any) error {
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
		if idx, err := f.GetSheetIndex(name); err != nil || idx < 0 {
			if _, err := f.NewSheet(name); err != nil {
				return err
			}
		}
		cell, _ := adapter.PayloadString(entry, "cell")
		if cell == "" {
			continue
		}
		if err := f.SetCellValue(name, cell, entry["value"]); err != nil {
			return err
		}
	}
	return nil
}

func writeTextFormatting(f *xl.File, sheetName string, ref sheet.Ref, p map[string]any) error {
	cell := ref.String()
	if err := f.SetCellStr(sheetName, cell, "Sample text"); err != nil {
		return err
	}

	font := &xl.Font{}
	if b, ok := adapter.PayloadBool(p, "bold"); ok {
		font.Bold = b
	}
	if b, ok := adapter.PayloadBool(p, "italic"); ok {
		font.Italic = b
	}
	if b, ok := adapter.PayloadBool(p, "underline"); ok && b {
		font.Underline = "single"
	}
	if b, ok := adapter.PayloadBool(p, "strikethrough"); ok {
		font.Strike = b
	}
	if name, ok := adapter.PayloadString(p, "font_name"); ok {
		font.Family = name
	}
	if size, ok := adapter.PayloadFloat(p, "font_size"); ok {
		font.Size = size
	}
	if color, ok := adapter.PayloadString(p, "font_color"); ok {
		font.Color = strings.TrimPrefix(color, "#")
	}

	style, err := f.NewStyle(&xl.Style{Font: font})
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheetName, cell, cell, style)
}

func writeBackground(f *xl.File, sheetName string, ref sheet.Ref, p map[string]any) error {
	cell := ref.String()
	if err := f.SetCellStr(sheetName, cell, "Filled"); err != nil {
		return err
	}
	color, ok := adapter.PayloadString(p, "bg_color")
	if !ok {
		return fmt.Errorf("background case without bg_color")
	}
	style, err := f.NewStyle(&xl.Style{
		Fill: xl.Fill{Type: "pattern", Pattern: 1, Color: []string{strings.TrimPrefix(color, "#")}},
	})
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheetName, cell, cell, style)
}

func writeNumberFormat(f *xl.File, sheetName string, ref sheet.Ref, p map[string]any) error {
	cell := ref.String()
	code, ok := adapter.PayloadString(p, "format")
	if !ok {
		return fmt.Errorf("number format case without format")
	}
	value := 1234.5678
	if n, ok := adapter.PayloadFloat(p, "sample"); ok {
		value = n
	}
	if err := f.SetCellValue(sheetName, cell, value); err != nil {
		return err
	}
	style, err := f.NewStyle(&xl.Style{CustomNumFmt: &code})
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheetName, cell, cell, style)
}

func writeAlignment(f *xl.File, sheetName string, ref sheet.Ref, p map[string]any) error {
	cell := ref.String()
	if err := f.SetCellStr(sheetName, cell, "Aligned"); err != nil {
		return err
	}
	al := &xl.Alignment{}
	if h, ok := adapter.PayloadString(p, "horizontal"); ok {
		al.Horizontal = h
	}
	if v, ok := adapter.PayloadString(p, "vertical"); ok {
		al.Vertical = v
	}
	if w, ok := adapter.PayloadBool(p, "wrap_text"); ok {
		al.WrapText = w
	}
	style, err := f.NewStyle(&xl.Style{Alignment: al})
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheetName, cell, cell, style)
}

func writeBorders(f *xl.File, sheetName string, ref sheet.Ref, p map[string]any) error {
	cell := ref.String()
	if err := f.SetCellStr(sheetName, cell, "Bordered"); err != nil {
		return err
	}

	var borders []xl.Border
	for key, edgeType := range map[string]string{
		"top": "top", "bottom": "bottom", "left": "left", "right": "right",
		"diagonal_up": "diagonalUp", "diagonal_down": "diagonalDown",
	} {
		edgeAny, ok := p[key]
		if !ok {
			continue
		}
		edge, err := adapter.PayloadMap(edgeAny)
		if err != nil {
			return fmt.Errorf("border edge %s: %w", key, err)
		}
		styleName, _ := adapter.PayloadString(edge, "style")
		idx, ok := borderStyleIndex[sheet.BorderStyle(styleName)]
		if !ok {
			return fmt.Errorf("unknown border style %q", styleName)
		}
		color := sheet.DefaultBorderColor
		if c, ok := adapter.PayloadString(edge, "color"); ok {
			color = c
		}
		borders = append(borders, xl.Border{
			Type:  edgeType,
			Style: idx,
			Color: strings.TrimPrefix(color, "#"),
		})
	}

	style, err := f.NewStyle(&xl.Style{Border: borders})
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheetName, cell, cell, style)
}

func writeDimensions(f *xl.File, sheetName string, ref sheet.Ref, p map[string]any) error {
	if h, ok := adapter.PayloadFloat(p, "row_height"); ok {
		if err := f.SetRowHeight(sheetName, ref.Row, h); err != nil {
			return err
		}
	}
	if w, ok := adapter.PayloadFloat(p, "col_width"); ok {
		col := sheet.ColName(ref.Col)
		if err := f.SetColWidth(sheetName, col, col, w); err != nil {
			return err
		}
	}
	return f.SetCellStr(sheetName, ref.String(), "Sized")
}

func writeSheets(f *xl.File, p map[string]any) error {
	for _, name := range adapter.PayloadStrings(p, "sheets") {
		if idx, err := f.GetSheetIndex(name); err == nil && idx >= 0 {
			continue
		}
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}
	return nil
}

func writeMerged(f *xl.File, sheetName string, p map[string]any) error {
	for _, rangeRef := range adapter.PayloadStrings(p, "ranges") {
		rng, err := sheet.ParseRange(rangeRef)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(sheetName, rng.Start.String(), "Merged"); err != nil {
			return err
		}
		if err := f.MergeCell(sheetName, rng.Start.String(), rng.End.String()); err != nil {
			return err
		}
	}
	return nil
}

func writeHyperlinks(f *xl.File, sheetName string, p map[string]any) error {
	links, ok := adapter.PayloadSlice(p, "links")
	if !ok {
		return fmt.Errorf("hyperlink case without links")
	}
	for _, raw := range links {
		link, err := adapter.PayloadMap(raw)
		if err != nil {
			return err
		}
		cell, _ := adapter.PayloadString(link, "cell")
		target, _ := adapter.PayloadString(link, "target")
		linkType := "External"
		if strings.Contains(target, "!") {
			linkType = "Location"
		}
		if err := f.SetCellHyperLink(sheetName, cell, target, linkType); err != nil {
			return err
		}
		if display, ok := adapter.PayloadString(link, "display"); ok {
			if err := f.SetCellStr(sheetName, cell, display); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeComments(f *xl.File, sheetName string, p map[string]any) error {
	comments, ok := adapter.PayloadSlice(p, "comments")
	if !ok {
		return fmt.Errorf("comment case without comments")
	}
	for _, raw := range comments {
		cm, err := adapter.PayloadMap(raw)
		if err != nil {
			return err
		}
		cell, _ := adapter.PayloadString(cm, "cell")
		author, _ := adapter.PayloadString(cm, "author")
		text, _ := adapter.PayloadString(cm, "text")
		err = f.AddComment(sheetName, xl.Comment{
			Cell:      cell,
			Author:    author,
			Paragraph: []xl.RichTextRun{{Text: text}},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func writeFreeze(f *xl.File, sheetName string, p map[string]any) error {
	rows, _ := adapter.PayloadFloat(p, "rows")
	cols, _ := adapter.PayloadFloat(p, "cols")
	if rows <= 0 && cols <= 0 {
		return nil
	}
	top := sheet.Ref{Col: int(cols) + 1, Row: int(rows) + 1}
	return f.SetPanes(sheetName, &xl.Panes{
		Freeze:      true,
		XSplit:      int(cols),
		YSplit:      int(rows),
		TopLeftCell: top.String(),
		ActivePane:  paneFor(int(rows), int(cols)),
	})
}

// paneFor picks the active quadrant for a frozen split.
func paneFor(rows, cols int) string {
	switch {
	case rows > 0 && cols > 0:
		return "bottomRight"
	case rows > 0:
		return "bottomLeft"
	default:
		return "topRight"
	}
}

func writeNamedRanges(f *xl.File, sheetName string, p, setup map[string]any) error {
	names, ok := adapter.PayloadSlice(p, "names")
	if !ok {
		return fmt.Errorf("named range case without names")
	}
	for i, raw := range names {
		n, err := adapter.PayloadMap(raw)
		if err != nil {
			return err
		}
		name, _ := adapter.PayloadString(n, "name")
		refersTo, _ := adapter.PayloadString(n, "refers_to")
		seed := sheet.Ref{Col: 2, Row: 2 + i}.String()
		if err := f.SetCellValue(sheetName, seed, i+1); err != nil {
			return err
		}
		err = f.SetDefinedName(&xl.DefinedName{Name: name, RefersTo: refersTo, Scope: "Workbook"})
		if err != nil {
			return err
		}
	}
	// Sheet-scoped names stay invisible to workbook-level readers;
	// writing them exercises that boundary.
	if scoped, ok := adapter.PayloadSlice(setup, "scoped_names"); ok {
		for _, raw := range scoped {
			n, err := adapter.PayloadMap(raw)
			if err != nil {
				return err
			}
			name, _ := adapter.PayloadString(n, "name")
			refersTo, _ := adapter.PayloadString(n, "refers_to")
			scope, _ := adapter.PayloadString(n, "scope")
			if scope == "" {
				scope = sheetName
			}
			err = f.SetDefinedName(&xl.DefinedName{Name: name, RefersTo: refersTo, Scope: scope})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func writeTables(f *xl.File, sheetName string, p map[string]any) error {
	tables, ok := adapter.PayloadSlice(p, "tables")
	if !ok {
		return fmt.Errorf("table case without tables")
	}
	for _, raw := range tables {
		tbl, err := adapter.PayloadMap(raw)
		if err != nil {
			return err
		}
		name, _ := adapter.PayloadString(tbl, "name")
		rangeRef, _ := adapter.PayloadString(tbl, "range")
		rng, err := sheet.ParseRange(rangeRef)
		if err != nil {
			return err
		}

		columns := adapter.PayloadStrings(tbl, "columns")
		for r := rng.Start.Row; r <= rng.End.Row; r++ {
			for c := rng.Start.Col; c <= rng.End.Col; c++ {
				cell := sheet.Ref{Col: c, Row: r}.String()
				if r == rng.Start.Row {
					header := fmt.Sprintf("Column%d", c-rng.Start.Col+1)
					if i := c - rng.Start.Col; i < len(columns) {
						header = columns[i]
					}
					if err := f.SetCellStr(sheetName, cell, header); err != nil {
						return err
					}
					continue
				}
				if err := f.SetCellValue(sheetName, cell, (r-rng.Start.Row)*(c-rng.Start.Col+1)); err != nil {
					return err
				}
			}
		}

		err = f.AddTable(sheetName, &xl.Table{Range: rangeRef, Name: name, StyleName: "TableStyleMedium9"})
		if err != nil {
			return err
		}
	}
	return nil
}

func writeValidations(f *xl.File, sheetName string, p map[string]any) error {
	rules, ok := adapter.PayloadSlice(p, "rules")
	if !ok {
		return fmt.Errorf("validation case without rules")
	}
	for _, raw := range rules {
		rule, err := adapter.PayloadMap(raw)
		if err != nil {
			return err
		}
		rng, _ := adapter.PayloadString(rule, "range")
		typ, _ := adapter.PayloadString(rule, "type")

		dv := xl.NewDataValidation(true)
		dv.Sqref = rng

		switch typ {
		case "list":
			choices, _ := adapter.PayloadString(rule, "formula1")
			if err := dv.SetDropList(strings.Split(choices, ",")); err != nil {
				return err
			}
		case "whole", "decimal":
			f1, _ := adapter.PayloadString(rule, "formula1")
			f2, _ := adapter.PayloadString(rule, "formula2")
			min, err := strconv.ParseFloat(f1, 64)
			if err != nil {
				return fmt.Errorf("validation formula1 %q: %w", f1, err)
			}
			max := min
			if f2 != "" {
				if max, err = strconv.ParseFloat(f2, 64); err != nil {
					return fmt.Errorf("validation formula2 %q: %w", f2, err)
				}
			}
			dvType := xl.DataValidationTypeWhole
			if typ == "decimal" {
				dvType = xl.DataValidationTypeDecimal
			}
			op, ok := validationOperators[ruleOperator(rule)]
			if !ok {
				return adapter.Unsupportedf("validation operator %q", ruleOperator(rule))
			}
			if err := dv.SetRange(min, max, dvType, op); err != nil {
				return err
			}
		default:
			return adapter.Unsupportedf("validation type %q", typ)
		}

		if err := f.AddDataValidation(sheetName, dv); err != nil {
			return err
		}
	}
	return nil
}

func ruleOperator(rule map[string]any) string {
	op, ok := adapter.PayloadString(rule, "operator")
	if !ok || op == "" {
		return "between"
	}
	return op
}

var validationOperators = map[string]xl.DataValidationOperator{
	"between":     xl.DataValidationOperatorBetween,
	"greaterThan": xl.DataValidationOperatorGreaterThan,
	"lessThan":    xl.DataValidationOperatorLessThan,
	"equal":       xl.DataValidationOperatorEqual,
}

func writeCondFormats(f *xl.File, sheetName string, p map[string]any) error {
	rules, ok := adapter.PayloadSlice(p, "rules")
	if !ok {
		return fmt.Errorf("conditional format case without rules")
	}
	for _, raw := range rules {
		rule, err := adapter.PayloadMap(raw)
		if err != nil {
			return err
		}
		rng, _ := adapter.PayloadString(rule, "range")
		typ, _ := adapter.PayloadString(rule, "type")
		if typ != "cell" {
			return adapter.Unsupportedf("conditional format type %q", typ)
		}
		criteria, _ := adapter.PayloadString(rule, "criteria")
		value, _ := adapter.PayloadString(rule, "value")

		rngParsed, err := sheet.ParseRange(rng)
		if err != nil {
			return err
		}
		for r := rngParsed.Start.Row; r <= rngParsed.End.Row; r++ {
			cell := sheet.Ref{Col: rngParsed.Start.Col, Row: r}.String()
			if err := f.SetCellValue(sheetName, cell, r); err != nil {
				return err
			}
		}

		styleID, err := f.NewConditionalStyle(&xl.Style{
			Fill: xl.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFC7CE"}},
		})
		if err != nil {
			return err
		}
		err = f.SetConditionalFormat(sheetName, rng, []xl.ConditionalFormatOptions{
			{Type: typ, Criteria: criteria, Value: value, Format: &styleID},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func writeImages(f *xl.File, sheetName string, p map[string]any) error {
	images, ok := adapter.PayloadSlice(p, "images")
	if !ok {
		return fmt.Errorf("image case without images")
	}
	for _, raw := range images {
		img, err := adapter.PayloadMap(raw)
		if err != nil {
			return err
		}
		cell, _ := adapter.PayloadString(img, "cell")
		format, _ := adapter.PayloadString(img, "format")
		if format != "" && format != "png" {
			return adapter.Unsupportedf("writing %s images", format)
		}
		err = f.AddPictureFromBytes(sheetName, cell, &xl.Picture{Extension: ".png", File: pixelPNG})
		if err != nil {
			return err
		}
	}
	return nil
}

func writePivot(f *xl.File, sheetName string, p map[string]any) error {
	dataRange, ok := adapter.PayloadString(p, "data_range")
	if !ok {
		return fmt.Errorf("pivot case without data_range")
	}
	rows := adapter.PayloadStrings(p, "rows")
	values := adapter.PayloadStrings(p, "values")

	// Materialize a small source grid matching the declared range.
	ref := dataRange
	if i := strings.Index(ref, "!"); i >= 0 {
		ref = ref[i+1:]
	}
	rng, err := sheet.ParseRange(strings.ReplaceAll(ref, "$", ""))
	if err != nil {
		return err
	}
	headers := append(append([]string{}, rows...), values...)
	for c := rng.Start.Col; c <= rng.End.Col; c++ {
		header := fmt.Sprintf("Field%d", c-rng.Start.Col+1)
		if i := c - rng.Start.Col; i < len(headers) {
			header = headers[i]
		}
		cell := sheet.Ref{Col: c, Row: rng.Start.Row}.String()
		if err := f.SetCellStr(sheetName, cell, header); err != nil {
			return err
		}
	}
	for r := rng.Start.Row + 1; r <= rng.End.Row; r++ {
		for c := rng.Start.Col; c <= rng.End.Col; c++ {
			cell := sheet.Ref{Col: c, Row: r}.String()
			var v any = fmt.Sprintf("item%d", r-rng.Start.Row)
			if c == rng.End.Col {
				v = (r - rng.Start.Row) * 10
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return err
			}
		}
	}

	opts := &xl.PivotTableOptions{
		DataRange:       dataRange,
		PivotTableRange: fmt.Sprintf("%s!%s", sheetName, pivotTargetRange(rng)),
	}
	for _, name := range rows {
		opts.Rows = append(opts.Rows, xl.PivotTableField{Data: name})
	}
	for _, name := range values {
		opts.Data = append(opts.Data, xl.PivotTableField{Data: name, Subtotal: "Sum"})
	}
	return f.AddPivotTable(opts)
}

// pivotTargetRange places the pivot output right of the source grid.
func pivotTargetRange(src sheet.Range) string {
	start := sheet.Ref{Col: src.End.Col + 2, Row: src.Start.Row}
	end := sheet.Ref{Col: src.End.Col + 6, Row: src.Start.Row + 10}
	return start.String() + ":" + end.String()
}
