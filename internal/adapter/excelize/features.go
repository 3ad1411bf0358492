package excelize

import (
	"fmt"
	"sort"
	"strings"

	xl "github.com/xuri/excelize/v2"

	"github.com/unbound-force/assay/internal/sheet"
)

func (r *reader) MergedRanges(sheetName string) ([]sheet.Range, error) {
	merged, err := r.f.GetMergeCells(sheetName)
	if err != nil {
		return nil, err
	}
	out := make([]sheet.Range, 0, len(merged))
	for _, m := range merged {
		rng, err := sheet.ParseRange(m.GetStartAxis() + ":" + m.GetEndAxis())
		if err != nil {
			return nil, fmt.Errorf("merged range: %w", err)
		}
		out = append(out, rng)
	}
	sortRanges(out)
	return out, nil
}

func (r *reader) Hyperlinks(sheetName string) ([]sheet.Hyperlink, error) {
	rows, err := r.f.GetRows(sheetName)
	if err != nil {
		return nil, err
	}

	var out []sheet.Hyperlink
	for ri, row := range rows {
		for ci := range row {
			cell := sheet.Ref{Col: ci + 1, Row: ri + 1}.String()
			has, target, err := r.f.GetCellHyperLink(sheetName, cell)
			if err != nil {
				return nil, err
			}
			if !has {
				continue
			}
			display, err := r.f.GetCellValue(sheetName, cell)
			if err != nil {
				return nil, err
			}
			out = append(out, sheet.Hyperlink{Cell: cell, Target: target, Display: display})
		}
	}
	return out, nil
}

func (r *reader) Comments(sheetName string) ([]sheet.Comment, error) {
	comments, err := r.f.GetComments(sheetName)
	if err != nil {
		return nil, err
	}

	out := make([]sheet.Comment, 0, len(comments))
	for _, c := range comments {
		text := c.Text
		if text == "" {
			var b strings.Builder
			for _, run := range c.Paragraph {
				b.WriteString(run.Text)
			}
			text = b.String()
		}
		out = append(out, sheet.Comment{Cell: c.Cell, Author: c.Author, Text: text})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Cell < out[j].Cell })
	return out, nil
}

func (r *reader) FreezePane(sheetName string) (sheet.FreezePane, error) {
	panes, err := r.f.GetPanes(sheetName)
	if err != nil {
		return sheet.FreezePane{}, err
	}
	if !panes.Freeze {
		return sheet.FreezePane{}, nil
	}
	return sheet.FreezePane{Rows: panes.YSplit, Cols: panes.XSplit}, nil
}

func (r *reader) NamedRanges() ([]sheet.NamedRange, error) {
	var out []sheet.NamedRange
	for _, dn := range r.f.GetDefinedName() {
		// Sheet-scoped names are invisible workbook-wide; skip.
		if dn.Scope != "" && dn.Scope != "Workbook" {
			continue
		}
		out = append(out, sheet.NamedRange{Name: dn.Name, RefersTo: dn.RefersTo})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *reader) Tables(sheetName string) ([]sheet.Table, error) {
	tables, err := r.f.GetTables(sheetName)
	if err != nil {
		return nil, err
	}

	out := make([]sheet.Table, 0, len(tables))
	for _, t := range tables {
		st := sheet.Table{Name: t.Name, Range: t.Range}
		if cols, err := r.tableColumns(sheetName, t.Range); err == nil {
			st.Columns = cols
		}
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// tableColumns reads the header row of a table range.
func (r *reader) tableColumns(sheetName, rangeRef string) ([]string, error) {
	rng, err := sheet.ParseRange(rangeRef)
	if err != nil {
		return nil, err
	}
	var cols []string
	for c := rng.Start.Col; c <= rng.End.Col; c++ {
		v, err := r.f.GetCellValue(sheetName, sheet.Ref{Col: c, Row: rng.Start.Row}.String())
		if err != nil {
			return nil, err
		}
		cols = append(cols, v)
	}
	return cols, nil
}

func (r *reader) DataValidations(sheetName string) ([]sheet.Validation, error) {
	dvs, err := r.f.GetDataValidations(sheetName)
	if err != nil {
		return nil, err
	}

	out := make([]sheet.Validation, 0, len(dvs))
	for _, dv := range dvs {
		if dv == nil {
			continue
		}
		out = append(out, sheet.Validation{
			Range:    dv.Sqref,
			Type:     dv.Type,
			Operator: dv.Operator,
			Formula1: cleanFormula(dv.Formula1),
			Formula2: cleanFormula(dv.Formula2),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Range < out[j].Range })
	return out, nil
}

// cleanFormula strips the XML element wrapper and outer quotes the
// library leaves on validation operands.
func cleanFormula(f string) string {
	f = strings.TrimPrefix(f, "<formula1>")
	f = strings.TrimSuffix(f, "</formula1>")
	f = strings.TrimPrefix(f, "<formula2>")
	f = strings.TrimSuffix(f, "</formula2>")
	f = strings.TrimPrefix(f, "\"")
	f = strings.TrimSuffix(f, "\"")
	return f
}

func (r *reader) ConditionalFormats(sheetName string) ([]sheet.CondFormat, error) {
	formats, err := r.f.GetConditionalFormats(sheetName)
	if err != nil {
		return nil, err
	}

	var out []sheet.CondFormat
	for rangeRef, opts := range formats {
		for _, o := range opts {
			out = append(out, sheet.CondFormat{
				Range:    rangeRef,
				Type:     o.Type,
				Criteria: o.Criteria,
				Value:    o.Value,
			})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Range != out[j].Range {
			return out[i].Range < out[j].Range
		}
		return out[i].Type < out[j].Type
	})
	return out, nil
}

func (r *reader) Images(sheetName string) ([]sheet.Image, error) {
	cells, err := r.f.GetPictureCells(sheetName)
	if err != nil {
		return nil, err
	}

	var out []sheet.Image
	for _, cell := range cells {
		pics, err := r.f.GetPictures(sheetName, cell)
		if err != nil {
			return nil, err
		}
		for _, p := range pics {
			out = append(out, sheet.Image{
				Cell:   cell,
				Format: strings.TrimPrefix(strings.ToLower(p.Extension), "."),
				Bytes:  len(p.File),
			})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Cell < out[j].Cell })
	return out, nil
}

func (r *reader) PivotTables(sheetName string) ([]sheet.Pivot, error) {
	pivots, err := r.f.GetPivotTables(sheetName)
	if err != nil {
		return nil, err
	}

	out := make([]sheet.Pivot, 0, len(pivots))
	for _, p := range pivots {
		out = append(out, sheet.Pivot{
			DataRange: p.DataRange,
			Rows:      fieldNames(p.Rows),
			Columns:   fieldNames(p.Columns),
			Values:    fieldNames(p.Data),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DataRange < out[j].DataRange })
	return out, nil
}

func fieldNames(fields []xl.PivotTableField) []string {
	if len(fields) == 0 {
		return nil
	}
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.Data
	}
	return names
}

func sortRanges(rs []sheet.Range) {
	sort.Slice(rs, func(i, j int) bool { return rs[i].String() < rs[j].String() })
}
