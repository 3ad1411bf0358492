package corpus

import (
	"strconv"
	"strings"
	"time"

	xl "github.com/xuri/excelize/v2"

	"github.com/unbound-force/assay/internal/sheet"
)

func genCellValues(b *book) ([]TestCase, error) {
	longStr := strings.Repeat("A", 1000)
	defs := []struct {
		id, label string
		edge      bool
		newlines  bool
		value     any
		expected  map[string]any
	}{
		{id: "string_simple", label: "String - simple", value: "Hello World",
			expected: map[string]any{"type": "string", "value": "Hello World"}},
		{id: "string_unicode", label: "String - unicode", edge: true, value: "日本語🎉émojis",
			expected: map[string]any{"type": "string", "value": "日本語🎉émojis"}},
		// Excel drops empty strings on save, so the faithful reading
		// of an explicit "" is a blank cell.
		{id: "string_empty", label: "String - empty", edge: true, value: "",
			expected: map[string]any{"type": "blank"}},
		{id: "string_long", label: "String - long (1000 chars)", edge: true, value: longStr,
			expected: map[string]any{"type": "string", "value": longStr}},
		{id: "string_newline", label: "String - with newlines", edge: true, value: "Line 1\nLine 2\nLine 3",
			newlines: true,
			expected: map[string]any{"type": "string", "value": "Line 1\nLine 2\nLine 3"}},
		{id: "number_integer", label: "Number - integer", value: 42.0,
			expected: map[string]any{"type": "number", "value": 42.0}},
		{id: "number_float", label: "Number - float", value: 3.14159265358979,
			expected: map[string]any{"type": "number", "value": 3.14159265358979}},
		{id: "number_negative", label: "Number - negative", value: -100.5,
			expected: map[string]any{"type": "number", "value": -100.5}},
		{id: "number_large", label: "Number - large", edge: true, value: 1234567890123456.0,
			expected: map[string]any{"type": "number", "value": 1234567890123456.0}},
		{id: "number_scientific", label: "Number - scientific notation", edge: true, value: 1.23e-10,
			expected: map[string]any{"type": "number", "value": 1.23e-10}},
		{id: "boolean_true", label: "Boolean - TRUE", value: true,
			expected: map[string]any{"type": "boolean", "value": true}},
		{id: "boolean_false", label: "Boolean - FALSE", value: false,
			expected: map[string]any{"type": "boolean", "value": false}},
	}

	var cases []TestCase
	row := 2
	for _, d := range defs {
		cell := sheet.Ref{Col: 2, Row: row}.String()
		if err := b.f.SetCellValue(b.def, cell, d.value); err != nil {
			return nil, err
		}
		c := newCase(d.id, d.label, row, d.edge, d.expected)
		if d.newlines {
			c.Compare = normalizeNewlines()
		}
		cases = append(cases, c)
		row++
	}

	// Dates carry an explicit date format so readers can tell the
	// serials apart from plain numbers.
	dates := []struct {
		id, label string
		value     time.Time
		format    string
		iso       string
	}{
		{"date_standard", "Date - standard",
			time.Date(2026, 2, 4, 0, 0, 0, 0, time.UTC), "yyyy-mm-dd", "2026-02-04T00:00:00"},
		{"datetime", "DateTime - with time",
			time.Date(2026, 2, 4, 10, 30, 45, 0, time.UTC), "yyyy-mm-dd hh:mm:ss", "2026-02-04T10:30:45"},
	}
	for _, d := range dates {
		cell := sheet.Ref{Col: 2, Row: row}.String()
		if err := b.f.SetCellValue(b.def, cell, d.value); err != nil {
			return nil, err
		}
		format := d.format
		style, err := b.f.NewStyle(&xl.Style{CustomNumFmt: &format})
		if err != nil {
			return nil, err
		}
		if err := b.f.SetCellStyle(b.def, cell, cell, style); err != nil {
			return nil, err
		}
		cases = append(cases, newCase(d.id, d.label, row, false,
			map[string]any{"type": "date", "value": d.iso}))
		row++
	}

	cases = append(cases, newCase("blank", "Blank cell", row, false,
		map[string]any{"type": "blank"}))

	return cases, nil
}

func genFormulas(b *book) ([]TestCase, error) {
	if err := b.addSheet("References"); err != nil {
		return nil, err
	}
	if err := b.f.SetCellValue("References", "B2", 42); err != nil {
		return nil, err
	}

	defs := []struct {
		id, label string
		edge      bool
		formula   func(row int) string
		operands  []any
		sheets    []any
	}{
		{id: "formula_sum", label: "Formula - SUM",
			formula: func(int) string { return "SUM(1,2,3)" }},
		{id: "formula_cell_ref", label: "Formula - cell reference",
			formula:  func(row int) string { return "D" + itoa(row) + "*2" },
			operands: []any{10.0}},
		{id: "formula_concat", label: "Formula - concat", edge: true,
			formula:  func(row int) string { return "D" + itoa(row) + `&" "&E` + itoa(row) },
			operands: []any{"Hello", "World"}},
		{id: "formula_cross_sheet", label: "Formula - cross sheet", edge: true,
			formula: func(int) string { return "References!B2" },
			sheets: []any{map[string]any{
				"name": "References", "cell": "B2", "value": 42.0,
			}}},
	}

	var cases []TestCase
	row := 2
	for _, d := range defs {
		// Operands live two columns right of the test cell so the
		// formulas keep stable references.
		for i, op := range d.operands {
			opCell := sheet.Ref{Col: 4 + i, Row: row}.String()
			if err := b.f.SetCellValue(b.def, opCell, op); err != nil {
				return nil, err
			}
		}
		formula := d.formula(row)
		cell := sheet.Ref{Col: 2, Row: row}.String()
		if err := b.f.SetCellFormula(b.def, cell, formula); err != nil {
			return nil, err
		}

		c := newCase(d.id, d.label, row, d.edge,
			map[string]any{"type": "formula", "formula": formula})
		// Readers may surface a cached result alongside the text.
		c.Compare = allowExtra()
		if len(d.operands) > 0 || len(d.sheets) > 0 {
			c.Setup = map[string]any{}
			if len(d.operands) > 0 {
				c.Setup["operands"] = d.operands
			}
			if len(d.sheets) > 0 {
				c.Setup["sheets"] = d.sheets
			}
		}
		cases = append(cases, c)
		row++
	}
	return cases, nil
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

func genTextFormatting(b *book) ([]TestCase, error) {
	defs := []struct {
		id, label string
		edge      bool
		font      xl.Font
		expected  map[string]any
	}{
		{"bold", "Bold", false,
			xl.Font{Bold: true}, map[string]any{"bold": true}},
		{"italic", "Italic", false,
			xl.Font{Italic: true}, map[string]any{"italic": true}},
		{"underline_single", "Underline - single", false,
			xl.Font{Underline: "single"}, map[string]any{"underline": true}},
		{"strikethrough", "Strikethrough", true,
			xl.Font{Strike: true}, map[string]any{"strikethrough": true}},
		{"bold_italic", "Bold + Italic", false,
			xl.Font{Bold: true, Italic: true}, map[string]any{"bold": true, "italic": true}},
		{"font_size_8", "Font size 8", true,
			xl.Font{Size: 8}, map[string]any{"font_size": 8.0}},
		{"font_size_14", "Font size 14", false,
			xl.Font{Size: 14}, map[string]any{"font_size": 14.0}},
		{"font_size_24", "Font size 24", true,
			xl.Font{Size: 24}, map[string]any{"font_size": 24.0}},
		{"font_size_36", "Font size 36", true,
			xl.Font{Size: 36}, map[string]any{"font_size": 36.0}},
		{"font_arial", "Font - Arial", false,
			xl.Font{Family: "Arial"}, map[string]any{"font_name": "Arial"}},
		{"font_times", "Font - Times New Roman", true,
			xl.Font{Family: "Times New Roman"}, map[string]any{"font_name": "Times New Roman"}},
		{"font_courier", "Font - Courier New", true,
			xl.Font{Family: "Courier New"}, map[string]any{"font_name": "Courier New"}},
		{"color_red", "Font color - red", false,
			xl.Font{Color: "FF0000"}, map[string]any{"font_color": "#FF0000"}},
		{"color_blue", "Font color - blue", true,
			xl.Font{Color: "0000FF"}, map[string]any{"font_color": "#0000FF"}},
		{"color_green", "Font color - green", true,
			xl.Font{Color: "00FF00"}, map[string]any{"font_color": "#00FF00"}},
		{"color_custom", "Font color - custom (#8B4513)", true,
			xl.Font{Color: "8B4513"}, map[string]any{"font_color": "#8B4513"}},
		{"combined", "Combined - bold, 16pt, red", true,
			xl.Font{Bold: true, Size: 16, Color: "FF0000"},
			map[string]any{"bold": true, "font_size": 16.0, "font_color": "#FF0000"}},
	}

	var cases []TestCase
	row := 2
	for _, d := range defs {
		cell := sheet.Ref{Col: 2, Row: row}.String()
		if err := b.f.SetCellStr(b.def, cell, d.label); err != nil {
			return nil, err
		}
		font := d.font
		style, err := b.f.NewStyle(&xl.Style{Font: &font})
		if err != nil {
			return nil, err
		}
		if err := b.f.SetCellStyle(b.def, cell, cell, style); err != nil {
			return nil, err
		}
		c := newCase(d.id, d.label, row, d.edge, d.expected)
		c.Compare = allowExtra()
		cases = append(cases, c)
		row++
	}
	return cases, nil
}

func genBackgroundColors(b *book) ([]TestCase, error) {
	defs := []struct {
		id, label string
		edge      bool
		hex       string
	}{
		{"bg_red", "Background - red", false, "FF0000"},
		{"bg_blue", "Background - blue", false, "0000FF"},
		{"bg_green", "Background - green", false, "00FF00"},
		{"bg_custom", "Background - custom (#8B4513)", true, "8B4513"},
	}

	var cases []TestCase
	row := 2
	for _, d := range defs {
		cell := sheet.Ref{Col: 2, Row: row}.String()
		if err := b.f.SetCellStr(b.def, cell, d.label); err != nil {
			return nil, err
		}
		style, err := b.f.NewStyle(&xl.Style{
			Fill: xl.Fill{Type: "pattern", Pattern: 1, Color: []string{d.hex}},
		})
		if err != nil {
			return nil, err
		}
		if err := b.f.SetCellStyle(b.def, cell, cell, style); err != nil {
			return nil, err
		}
		c := newCase(d.id, d.label, row, d.edge, map[string]any{"bg_color": "#" + d.hex})
		c.Compare = allowExtra()
		cases = append(cases, c)
		row++
	}
	return cases, nil
}

func genNumberFormats(b *book) ([]TestCase, error) {
	defs := []struct {
		id, label string
		edge      bool
		value     float64
		format    string
	}{
		{"numfmt_currency", "Format - currency", false, 1234.56, "$#,##0.00"},
		{"numfmt_percent", "Format - percent", false, 0.256, "0.00%"},
		{"numfmt_date", "Format - date", false, 46057, "yyyy-mm-dd"},
		{"numfmt_scientific", "Format - scientific", true, 12345.678, "0.00E+00"},
		{"numfmt_custom_text", "Format - custom text", true, 12.3, `"USD" 0.00`},
	}

	var cases []TestCase
	row := 2
	for _, d := range defs {
		cell := sheet.Ref{Col: 2, Row: row}.String()
		if err := b.f.SetCellValue(b.def, cell, d.value); err != nil {
			return nil, err
		}
		format := d.format
		style, err := b.f.NewStyle(&xl.Style{CustomNumFmt: &format})
		if err != nil {
			return nil, err
		}
		if err := b.f.SetCellStyle(b.def, cell, cell, style); err != nil {
			return nil, err
		}
		cases = append(cases, newCase(d.id, d.label, row, d.edge,
			map[string]any{"format": d.format}))
		row++
	}
	return cases, nil
}

func genAlignment(b *book) ([]TestCase, error) {
	defs := []struct {
		id, label string
		edge      bool
		text      string
		align     xl.Alignment
		expected  map[string]any
	}{
		{"h_left", "Align - left", false, "",
			xl.Alignment{Horizontal: "left"}, map[string]any{"horizontal": "left"}},
		{"h_center", "Align - center", false, "",
			xl.Alignment{Horizontal: "center"}, map[string]any{"horizontal": "center"}},
		{"h_right", "Align - right", false, "",
			xl.Alignment{Horizontal: "right"}, map[string]any{"horizontal": "right"}},
		{"v_top", "Align - top", false, "",
			xl.Alignment{Vertical: "top"}, map[string]any{"vertical": "top"}},
		{"v_center", "Align - middle", false, "",
			xl.Alignment{Vertical: "center"}, map[string]any{"vertical": "center"}},
		{"v_bottom", "Align - bottom", false, "",
			xl.Alignment{Vertical: "bottom"}, map[string]any{"vertical": "bottom"}},
		{"wrap_text", "Align - wrap text", false, "Line 1\nLine 2",
			xl.Alignment{WrapText: true}, map[string]any{"wrap_text": true}},
		{"h_justify", "Align - justify", true, "",
			xl.Alignment{Horizontal: "justify"}, map[string]any{"horizontal": "justify"}},
		{"combined", "Align - centered and wrapped", true, "Line 1\nLine 2",
			xl.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
			map[string]any{"horizontal": "center", "vertical": "center", "wrap_text": true}},
	}

	var cases []TestCase
	row := 2
	for _, d := range defs {
		cell := sheet.Ref{Col: 2, Row: row}.String()
		text := d.text
		if text == "" {
			text = d.label
		}
		if err := b.f.SetCellStr(b.def, cell, text); err != nil {
			return nil, err
		}
		align := d.align
		style, err := b.f.NewStyle(&xl.Style{Alignment: &align})
		if err != nil {
			return nil, err
		}
		if err := b.f.SetCellStyle(b.def, cell, cell, style); err != nil {
			return nil, err
		}
		c := newCase(d.id, d.label, row, d.edge, d.expected)
		c.Compare = allowExtra()
		cases = append(cases, c)
		row++
	}
	return cases, nil
}

// genBorderStyles maps border styles to the style table indexes the
// workbook stores.
var genBorderStyles = map[sheet.BorderStyle]int{
	sheet.BorderThin:       1,
	sheet.BorderMedium:     2,
	sheet.BorderDashed:     3,
	sheet.BorderDotted:     4,
	sheet.BorderThick:      5,
	sheet.BorderDouble:     6,
	sheet.BorderDashDot:    9,
	sheet.BorderDashDotDot: 11,
}

var genBorderEdges = []struct {
	key    string
	xlType string
}{
	{"top", "top"},
	{"bottom", "bottom"},
	{"left", "left"},
	{"right", "right"},
	{"diagonal_up", "diagonalUp"},
	{"diagonal_down", "diagonalDown"},
}

func genBorders(b *book) ([]TestCase, error) {
	edge := func(style sheet.BorderStyle, color string) map[string]any {
		return map[string]any{"style": string(style), "color": color}
	}
	all := func(style sheet.BorderStyle, color string) map[string]any {
		return map[string]any{
			"top":    edge(style, color),
			"bottom": edge(style, color),
			"left":   edge(style, color),
			"right":  edge(style, color),
		}
	}
	black := sheet.DefaultBorderColor

	defs := []struct {
		id, label string
		edgeCase  bool
		edges     map[string]any
	}{
		{"thin_all", "Border - thin all edges", false, all(sheet.BorderThin, black)},
		{"medium_all", "Border - medium all edges", false, all(sheet.BorderMedium, black)},
		{"thick_all", "Border - thick all edges", false, all(sheet.BorderThick, black)},
		{"double", "Border - double line", true, all(sheet.BorderDouble, black)},
		{"dashed", "Border - dashed", true, all(sheet.BorderDashed, black)},
		{"dotted", "Border - dotted", true, all(sheet.BorderDotted, black)},
		{"dash_dot", "Border - dash-dot", true, all(sheet.BorderDashDot, black)},
		{"dash_dot_dot", "Border - dash-dot-dot", true, all(sheet.BorderDashDotDot, black)},
		{"top_only", "Border - top only", false,
			map[string]any{"top": edge(sheet.BorderThin, black)}},
		{"bottom_only", "Border - bottom only", false,
			map[string]any{"bottom": edge(sheet.BorderThin, black)}},
		{"left_only", "Border - left only", false,
			map[string]any{"left": edge(sheet.BorderThin, black)}},
		{"right_only", "Border - right only", false,
			map[string]any{"right": edge(sheet.BorderThin, black)}},
		{"diagonal_up", "Border - diagonal up", true,
			map[string]any{"diagonal_up": edge(sheet.BorderThin, black)}},
		{"diagonal_down", "Border - diagonal down", true,
			map[string]any{"diagonal_down": edge(sheet.BorderThin, black)}},
		{"diagonal_both", "Border - both diagonals", true,
			map[string]any{
				"diagonal_up":   edge(sheet.BorderThin, black),
				"diagonal_down": edge(sheet.BorderThin, black),
			}},
		{"color_red", "Border - red", false, all(sheet.BorderThin, "#FF0000")},
		{"color_blue", "Border - blue", true, all(sheet.BorderThin, "#0000FF")},
		{"color_custom", "Border - custom (#8B4513)", true, all(sheet.BorderThin, "#8B4513")},
		{"mixed_styles", "Border - mixed styles", true,
			map[string]any{
				"top":    edge(sheet.BorderThin, black),
				"bottom": edge(sheet.BorderThick, black),
				"left":   edge(sheet.BorderDashed, black),
				"right":  edge(sheet.BorderDotted, black),
			}},
		{"mixed_colors", "Border - mixed colors", true,
			map[string]any{
				"top":    edge(sheet.BorderThin, "#FF0000"),
				"bottom": edge(sheet.BorderThin, "#0000FF"),
			}},
	}

	var cases []TestCase
	row := 2
	for _, d := range defs {
		cell := sheet.Ref{Col: 2, Row: row}.String()
		if err := b.f.SetCellStr(b.def, cell, d.label); err != nil {
			return nil, err
		}

		var borders []xl.Border
		for _, ek := range genBorderEdges {
			raw, ok := d.edges[ek.key]
			if !ok {
				continue
			}
			spec := raw.(map[string]any)
			idx := genBorderStyles[sheet.BorderStyle(spec["style"].(string))]
			color := strings.TrimPrefix(spec["color"].(string), "#")
			borders = append(borders, xl.Border{Type: ek.xlType, Style: idx, Color: color})
		}
		style, err := b.f.NewStyle(&xl.Style{Border: borders})
		if err != nil {
			return nil, err
		}
		if err := b.f.SetCellStyle(b.def, cell, cell, style); err != nil {
			return nil, err
		}
		cases = append(cases, newCase(d.id, d.label, row, d.edgeCase, d.edges))
		row++
	}
	return cases, nil
}

func genDimensions(b *book) ([]TestCase, error) {
	var cases []TestCase

	heights := []struct {
		id, label string
		edge      bool
		row       int
		height    float64
	}{
		{"row_height_30", "Row height - 30", false, 2, 30},
		{"row_height_45", "Row height - 45", true, 3, 45},
	}
	for _, d := range heights {
		cell := sheet.Ref{Col: 2, Row: d.row}.String()
		if err := b.f.SetCellStr(b.def, cell, d.label); err != nil {
			return nil, err
		}
		if err := b.f.SetRowHeight(b.def, d.row, d.height); err != nil {
			return nil, err
		}
		c := newCase(d.id, d.label, d.row, d.edge, map[string]any{"row_height": d.height})
		c.Compare = allowExtra()
		cases = append(cases, c)
	}

	// Width cases sit in columns D and E, clear of the annotation
	// columns the header sizes.
	widths := []struct {
		id, label string
		edge      bool
		row       int
		col       string
		width     float64
	}{
		{"col_width_20", "Column width - D = 20", false, 4, "D", 20},
		{"col_width_8", "Column width - E = 8", true, 5, "E", 8},
	}
	for _, d := range widths {
		cell := d.col + itoa(d.row)
		if err := b.f.SetCellStr(b.def, cell, d.label); err != nil {
			return nil, err
		}
		if err := b.f.SetColWidth(b.def, d.col, d.col, d.width); err != nil {
			return nil, err
		}
		c := newCase(d.id, d.label, d.row, d.edge, map[string]any{"col_width": d.width})
		c.Cell = cell
		c.Compare = allowExtra()
		cases = append(cases, c)
	}
	return cases, nil
}

func genMultipleSheets(b *book) ([]TestCase, error) {
	names := []string{"Alpha", "Beta", "Gamma"}
	for _, name := range names[1:] {
		if err := b.addSheet(name); err != nil {
			return nil, err
		}
	}

	cases := []TestCase{
		newCase("sheet_names", "Sheet names", 2, false,
			map[string]any{"sheets": []any{"Alpha", "Beta", "Gamma"}}),
	}

	for _, name := range names {
		cell := sheet.Ref{Col: 2, Row: 3}.String()
		if err := b.f.SetCellStr(name, cell, name); err != nil {
			return nil, err
		}
		c := newCase("value_"+strings.ToLower(name), name+" value", 3, false,
			map[string]any{"type": "string", "value": name})
		c.Sheet = name
		cases = append(cases, c)
	}
	return cases, nil
}
