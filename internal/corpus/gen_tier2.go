package corpus

import (
	xl "github.com/xuri/excelize/v2"

	"github.com/unbound-force/assay/internal/sheet"
)

// pixelPNG is a valid 1x1 transparent PNG, the smallest payload an
// image fixture can embed.
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

func genMergedCells(b *book) ([]TestCase, error) {
	defs := []struct {
		id, label, sheet string
		edge             bool
		ranges           []string
	}{
		{"merge_row", "Merge - across a row", "MergeRow", false, []string{"D2:F2"}},
		{"merge_col", "Merge - down a column", "MergeCol", false, []string{"D2:D5"}},
		{"merge_block", "Merge - block", "MergeBlock", false, []string{"D2:F4"}},
		{"merge_multi", "Merge - two regions", "MergeMulti", true, []string{"D2:E2", "D4:E5"}},
	}

	var cases []TestCase
	for i, d := range defs {
		if i > 0 {
			if err := b.addSheet(d.sheet); err != nil {
				return nil, err
			}
		}
		for _, rangeRef := range d.ranges {
			rng, err := sheet.ParseRange(rangeRef)
			if err != nil {
				return nil, err
			}
			if err := b.f.SetCellStr(d.sheet, rng.Start.String(), "Merged"); err != nil {
				return nil, err
			}
			if err := b.f.MergeCell(d.sheet, rng.Start.String(), rng.End.String()); err != nil {
				return nil, err
			}
		}
		c := newCase(d.id, d.label, 2, d.edge,
			map[string]any{"ranges": toAny(d.ranges)})
		if i > 0 {
			c.Sheet = d.sheet
		}
		cases = append(cases, c)
	}
	return cases, nil
}

func genConditionalFormatting(b *book) ([]TestCase, error) {
	defs := []struct {
		id, label, sheet string
		edge             bool
		criteria, value  string
	}{
		{"cf_greater", "Highlight greater than 3", "Greater", false, ">", "3"},
		{"cf_less", "Highlight less than 2", "Less", false, "<", "2"},
		{"cf_equal", "Highlight equal to 3", "Equal", true, "==", "3"},
	}

	const rangeRef = "B2:B6"
	var cases []TestCase
	for i, d := range defs {
		if i > 0 {
			if err := b.addSheet(d.sheet); err != nil {
				return nil, err
			}
		}
		for row := 2; row <= 6; row++ {
			cell := sheet.Ref{Col: 2, Row: row}.String()
			if err := b.f.SetCellValue(d.sheet, cell, row-1); err != nil {
				return nil, err
			}
		}
		styleID, err := b.f.NewConditionalStyle(&xl.Style{
			Fill: xl.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFC7CE"}},
		})
		if err != nil {
			return nil, err
		}
		err = b.f.SetConditionalFormat(d.sheet, rangeRef, []xl.ConditionalFormatOptions{
			{Type: "cell", Criteria: d.criteria, Value: d.value, Format: &styleID},
		})
		if err != nil {
			return nil, err
		}

		c := newCase(d.id, d.label, 2, d.edge, map[string]any{
			"rules": []any{map[string]any{
				"range": rangeRef, "type": "cell",
				"criteria": d.criteria, "value": d.value,
			}},
		})
		if i > 0 {
			c.Sheet = d.sheet
		}
		cases = append(cases, c)
	}
	return cases, nil
}

func genDataValidation(b *book) ([]TestCase, error) {
	const rangeRef = "B2:B6"

	type ruleFn func(dv *xl.DataValidation) error
	defs := []struct {
		id, label, sheet string
		edge             bool
		rule             ruleFn
		expected         map[string]any
	}{
		{"dv_list", "Validation - drop list", "List", false,
			func(dv *xl.DataValidation) error {
				return dv.SetDropList([]string{"Red", "Green", "Blue"})
			},
			map[string]any{"range": rangeRef, "type": "list", "formula1": "Red,Green,Blue"}},
		{"dv_whole", "Validation - whole 1 to 100", "Whole", false,
			func(dv *xl.DataValidation) error {
				return dv.SetRange(1, 100, xl.DataValidationTypeWhole, xl.DataValidationOperatorBetween)
			},
			map[string]any{"range": rangeRef, "type": "whole", "operator": "between",
				"formula1": "1", "formula2": "100"}},
		{"dv_decimal", "Validation - decimal 0.5 to 9.5", "Decimal", true,
			func(dv *xl.DataValidation) error {
				return dv.SetRange(0.5, 9.5, xl.DataValidationTypeDecimal, xl.DataValidationOperatorBetween)
			},
			map[string]any{"range": rangeRef, "type": "decimal", "operator": "between",
				"formula1": "0.5", "formula2": "9.5"}},
	}

	var cases []TestCase
	for i, d := range defs {
		if i > 0 {
			if err := b.addSheet(d.sheet); err != nil {
				return nil, err
			}
		}
		dv := xl.NewDataValidation(true)
		dv.Sqref = rangeRef
		if err := d.rule(dv); err != nil {
			return nil, err
		}
		if err := b.f.AddDataValidation(d.sheet, dv); err != nil {
			return nil, err
		}

		c := newCase(d.id, d.label, 2, d.edge, map[string]any{"rules": []any{d.expected}})
		if i > 0 {
			c.Sheet = d.sheet
		}
		cases = append(cases, c)
	}
	return cases, nil
}

func genHyperlinks(b *book) ([]TestCase, error) {
	type link struct {
		cell, target, display, linkType string
	}
	defs := []struct {
		id, label, sheet string
		edge             bool
		links            []link
	}{
		{"link_web", "Link - web URL", "Web", false, []link{
			{"B2", "https://example.com/", "Example", "External"},
		}},
		{"link_two", "Link - two in one sheet", "Two", true, []link{
			{"B2", "https://go.dev/doc/", "Go docs", "External"},
			{"B4", "https://go.dev/blog/", "Go blog", "External"},
		}},
		{"link_mail", "Link - mailto", "Mail", false, []link{
			{"B2", "mailto:team@example.com", "Email us", "External"},
		}},
		{"link_internal", "Link - internal", "Internal", true, []link{
			{"B2", "Data!A1", "Jump to data", "Location"},
		}},
	}

	var cases []TestCase
	for i, d := range defs {
		if i > 0 {
			if err := b.addSheet(d.sheet); err != nil {
				return nil, err
			}
		}
		expected := make([]any, 0, len(d.links))
		for _, l := range d.links {
			if err := b.f.SetCellStr(d.sheet, l.cell, l.display); err != nil {
				return nil, err
			}
			if err := b.f.SetCellHyperLink(d.sheet, l.cell, l.target, l.linkType); err != nil {
				return nil, err
			}
			expected = append(expected, map[string]any{
				"cell": l.cell, "target": l.target, "display": l.display,
			})
		}

		c := newCase(d.id, d.label, 2, d.edge, map[string]any{"links": expected})
		if i > 0 {
			c.Sheet = d.sheet
		}
		if d.id == "link_internal" {
			c.Setup = map[string]any{
				"sheets": []any{map[string]any{"name": "Data"}},
			}
		}
		cases = append(cases, c)
	}

	// The internal link needs its destination sheet.
	if err := b.addSheet("Data"); err != nil {
		return nil, err
	}
	return cases, nil
}

func genImages(b *book) ([]TestCase, error) {
	defs := []struct {
		id, label, sheet string
		edge             bool
		cells            []string
	}{
		{"img_single", "Image - single PNG", "Pics", false, []string{"D2"}},
		{"img_two", "Image - two anchors", "Two", true, []string{"D2", "D5"}},
	}

	var cases []TestCase
	for i, d := range defs {
		if i > 0 {
			if err := b.addSheet(d.sheet); err != nil {
				return nil, err
			}
		}
		expected := make([]any, 0, len(d.cells))
		for _, cell := range d.cells {
			err := b.f.AddPictureFromBytes(d.sheet, cell, &xl.Picture{
				Extension: ".png",
				File:      pixelPNG,
			})
			if err != nil {
				return nil, err
			}
			expected = append(expected, map[string]any{"cell": cell, "format": "png"})
		}

		c := newCase(d.id, d.label, 2, d.edge, map[string]any{"images": expected})
		if i > 0 {
			c.Sheet = d.sheet
		}
		cases = append(cases, c)
	}
	return cases, nil
}

func genPivotTables(b *book) ([]TestCase, error) {
	type row struct {
		region, quarter string
		sales           int
	}
	source := []row{
		{"North", "Q1", 120}, {"North", "Q2", 150},
		{"South", "Q1", 95}, {"South", "Q2", 110},
		{"East", "Q1", 80}, {"East", "Q2", 140},
	}

	defs := []struct {
		id, label, sheet string
		edge             bool
		dataRows         int
		columns          bool
	}{
		{"pivot_basic", "Pivot - rows and values", "Pivot", false, 5, false},
		{"pivot_two_axes", "Pivot - rows, columns and values", "Pivot2", true, 6, true},
	}

	var cases []TestCase
	for i, d := range defs {
		if i > 0 {
			if err := b.addSheet(d.sheet); err != nil {
				return nil, err
			}
		}

		headers := []string{"Region", "Quarter", "Sales"}
		for ci, h := range headers {
			cell := sheet.Ref{Col: 5 + ci, Row: 2}.String()
			if err := b.f.SetCellStr(d.sheet, cell, h); err != nil {
				return nil, err
			}
		}
		for ri := 0; ri < d.dataRows; ri++ {
			src := source[ri]
			rowNum := 3 + ri
			if err := b.f.SetCellStr(d.sheet, sheet.Ref{Col: 5, Row: rowNum}.String(), src.region); err != nil {
				return nil, err
			}
			if err := b.f.SetCellStr(d.sheet, sheet.Ref{Col: 6, Row: rowNum}.String(), src.quarter); err != nil {
				return nil, err
			}
			if err := b.f.SetCellValue(d.sheet, sheet.Ref{Col: 7, Row: rowNum}.String(), src.sales); err != nil {
				return nil, err
			}
		}

		dataRange := d.sheet + "!E2:G" + itoa(2+d.dataRows)
		opts := &xl.PivotTableOptions{
			DataRange:       dataRange,
			PivotTableRange: d.sheet + "!I2:M12",
			Rows:            []xl.PivotTableField{{Data: "Region"}},
			Data:            []xl.PivotTableField{{Data: "Sales", Subtotal: "Sum"}},
		}
		expected := map[string]any{
			"data_range": dataRange,
			"rows":       []any{"Region"},
			"values":     []any{"Sales"},
		}
		if d.columns {
			opts.Columns = []xl.PivotTableField{{Data: "Quarter"}}
			expected["columns"] = []any{"Quarter"}
		}
		if err := b.f.AddPivotTable(opts); err != nil {
			return nil, err
		}

		c := newCase(d.id, d.label, 2, d.edge, expected)
		if i > 0 {
			c.Sheet = d.sheet
		}
		cases = append(cases, c)
	}
	return cases, nil
}

func genComments(b *book) ([]TestCase, error) {
	defs := []struct {
		id, label, sheet string
		edge             bool
		author, text     string
		newlines         bool
	}{
		{"comment_basic", "Comment - attributed", "Note", false,
			"Reviewer", "Check this value.", false},
		{"comment_multiline", "Comment - multiline", "Multi", true,
			"Reviewer", "Line 1\nLine 2", true},
		{"comment_noauthor", "Comment - no author", "Anon", true,
			"", "Unattributed note.", false},
	}

	var cases []TestCase
	for i, d := range defs {
		if i > 0 {
			if err := b.addSheet(d.sheet); err != nil {
				return nil, err
			}
		}
		if err := b.f.SetCellStr(d.sheet, "B2", "Commented cell"); err != nil {
			return nil, err
		}
		err := b.f.AddComment(d.sheet, xl.Comment{
			Cell:      "B2",
			Author:    d.author,
			Paragraph: []xl.RichTextRun{{Text: d.text}},
		})
		if err != nil {
			return nil, err
		}

		entry := map[string]any{"cell": "B2", "text": d.text}
		if d.author != "" {
			entry["author"] = d.author
		}
		c := newCase(d.id, d.label, 2, d.edge, map[string]any{"comments": []any{entry}})
		if i > 0 {
			c.Sheet = d.sheet
		}
		if d.newlines {
			c.Compare = normalizeNewlines()
		}
		cases = append(cases, c)
	}
	return cases, nil
}

func genFreezePanes(b *book) ([]TestCase, error) {
	defs := []struct {
		id, label, sheet string
		edge             bool
		rows, cols       int
	}{
		{"freeze_top_row", "Freeze - top row", "TopRow", false, 1, 0},
		{"freeze_first_col", "Freeze - first column", "FirstCol", false, 0, 1},
		{"freeze_both", "Freeze - row and column", "Both", true, 1, 1},
	}

	var cases []TestCase
	for i, d := range defs {
		if i > 0 {
			if err := b.addSheet(d.sheet); err != nil {
				return nil, err
			}
		}
		top := sheet.Ref{Col: d.cols + 1, Row: d.rows + 1}
		err := b.f.SetPanes(d.sheet, &xl.Panes{
			Freeze:      true,
			XSplit:      d.cols,
			YSplit:      d.rows,
			TopLeftCell: top.String(),
			ActivePane:  paneQuadrant(d.rows, d.cols),
		})
		if err != nil {
			return nil, err
		}

		c := newCase(d.id, d.label, 2, d.edge,
			map[string]any{"rows": float64(d.rows), "cols": float64(d.cols)})
		if i > 0 {
			c.Sheet = d.sheet
		}
		cases = append(cases, c)
	}
	return cases, nil
}

func paneQuadrant(rows, cols int) string {
	switch {
	case rows > 0 && cols > 0:
		return "bottomRight"
	case rows > 0:
		return "bottomLeft"
	default:
		return "topRight"
	}
}

func genNamedRanges(b *book) ([]TestCase, error) {
	for i, v := range []int{10, 20, 30} {
		cell := sheet.Ref{Col: 2, Row: 2 + i}.String()
		if err := b.f.SetCellValue(b.def, cell, v); err != nil {
			return nil, err
		}
	}
	for i, v := range []float64{1.5, 2.5, 3.5} {
		cell := sheet.Ref{Col: 4, Row: 2 + i}.String()
		if err := b.f.SetCellValue(b.def, cell, v); err != nil {
			return nil, err
		}
	}
	if err := b.f.SetCellValue(b.def, "F2", 99); err != nil {
		return nil, err
	}

	names := []xl.DefinedName{
		{Name: "Totals", RefersTo: b.def + "!$B$2:$B$4", Scope: "Workbook"},
		{Name: "UnitPrice", RefersTo: b.def + "!$D$2:$D$4", Scope: "Workbook"},
		{Name: "LocalOnly", RefersTo: b.def + "!$F$2", Scope: b.def},
	}
	for i := range names {
		if err := b.f.SetDefinedName(&names[i]); err != nil {
			return nil, err
		}
	}

	workbookScoped := []any{
		map[string]any{"name": "Totals", "refers_to": b.def + "!$B$2:$B$4"},
		map[string]any{"name": "UnitPrice", "refers_to": b.def + "!$D$2:$D$4"},
	}

	hidden := newCase("names_scoped_hidden", "Sheet-scoped name stays local", 3, true,
		map[string]any{"names": workbookScoped})
	hidden.Setup = map[string]any{
		"scoped_names": []any{map[string]any{
			"name": "LocalOnly", "refers_to": b.def + "!$F$2", "scope": b.def,
		}},
	}

	return []TestCase{
		newCase("names_workbook", "Workbook-scoped names", 2, false,
			map[string]any{"names": workbookScoped}),
		hidden,
	}, nil
}

func genTables(b *book) ([]TestCase, error) {
	type tableDef struct {
		id, label, sheet string
		edge             bool
		name, rangeRef   string
		columns          []string
		rows             [][]any
	}
	defs := []tableDef{
		{"table_orders", "Table - three columns", "Orders", false,
			"OrderData", "D2:F5",
			[]string{"Region", "Units", "Revenue"},
			[][]any{
				{"North", 12, 1080.5},
				{"South", 7, 630.25},
				{"East", 9, 810.75},
			}},
		{"table_single", "Table - single column", "Single", true,
			"SingleCol", "D2:D4",
			[]string{"Item"},
			[][]any{{"Widget"}, {"Gadget"}}},
	}

	var cases []TestCase
	for i, d := range defs {
		if i > 0 {
			if err := b.addSheet(d.sheet); err != nil {
				return nil, err
			}
		}
		rng, err := sheet.ParseRange(d.rangeRef)
		if err != nil {
			return nil, err
		}
		for ci, col := range d.columns {
			cell := sheet.Ref{Col: rng.Start.Col + ci, Row: rng.Start.Row}.String()
			if err := b.f.SetCellStr(d.sheet, cell, col); err != nil {
				return nil, err
			}
		}
		for ri, dataRow := range d.rows {
			for ci, v := range dataRow {
				cell := sheet.Ref{Col: rng.Start.Col + ci, Row: rng.Start.Row + 1 + ri}.String()
				if err := b.f.SetCellValue(d.sheet, cell, v); err != nil {
					return nil, err
				}
			}
		}
		err = b.f.AddTable(d.sheet, &xl.Table{
			Range:     d.rangeRef,
			Name:      d.name,
			StyleName: "TableStyleMedium9",
		})
		if err != nil {
			return nil, err
		}

		c := newCase(d.id, d.label, 2, d.edge, map[string]any{
			"tables": []any{map[string]any{
				"name": d.name, "range": d.rangeRef, "columns": toAny(d.columns),
			}},
		})
		if i > 0 {
			c.Sheet = d.sheet
		}
		cases = append(cases, c)
	}
	return cases, nil
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
