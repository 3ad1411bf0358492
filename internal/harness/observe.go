package harness

import (
	"fmt"

	"github.com/unbound-force/assay/internal/adapter"
	"github.com/unbound-force/assay/internal/corpus"
)

// observeFn extracts one case's observation from an open workbook.
type observeFn func(r adapter.Reader, tf corpus.TestFile, c corpus.TestCase) (any, error)

// Observe reads the feature payload for one case through a Reader.
// The result has the same decoded-JSON shape the manifest's expected
// entries carry, ready for the comparator. Features without an
// extractor return an error.
func Observe(r adapter.Reader, tf corpus.TestFile, c corpus.TestCase) (any, error) {
	fn, ok := observers[tf.Feature]
	if !ok {
		return nil, fmt.Errorf("no extractor for feature %q", tf.Feature)
	}
	return fn(r, tf, c)
}

func cellObservation(r adapter.Reader, tf corpus.TestFile, c corpus.TestCase) (any, error) {
	ref, err := c.Ref()
	if err != nil {
		return nil, err
	}
	cv, err := r.CellValue(tf.SheetFor(c), ref)
	if err != nil {
		return nil, err
	}
	return cv.Payload(), nil
}

// observers maps feature IDs to their extraction. Kept as data so a
// new feature lands as one entry, not runner surgery.
var observers = map[string]observeFn{
	"cell_values": cellObservation,
	"formulas":    cellObservation,
	"text_formatting": func(r adapter.Reader, tf corpus.TestFile, c corpus.TestCase) (any, error) {
		ref, err := c.Ref()
		if err != nil {
			return nil, err
		}
		cf, err := r.CellFormat(tf.SheetFor(c), ref)
		if err != nil {
			return nil, err
		}
		return cf.Payload(), nil
	},
	"background_colors": func(r adapter.Reader, tf corpus.TestFile, c corpus.TestCase) (any, error) {
		ref, err := c.Ref()
		if err != nil {
			return nil, err
		}
		cf, err := r.CellFormat(tf.SheetFor(c), ref)
		if err != nil {
			return nil, err
		}
		return cf.Payload(), nil
	},
	"number_formats": func(r adapter.Reader, tf corpus.TestFile, c corpus.TestCase) (any, error) {
		ref, err := c.Ref()
		if err != nil {
			return nil, err
		}
		code, err := r.NumberFormat(tf.SheetFor(c), ref)
		if err != nil {
			return nil, err
		}
		return map[string]any{"format": code}, nil
	},
	"alignment": func(r adapter.Reader, tf corpus.TestFile, c corpus.TestCase) (any, error) {
		ref, err := c.Ref()
		if err != nil {
			return nil, err
		}
		al, err := r.CellAlignment(tf.SheetFor(c), ref)
		if err != nil {
			return nil, err
		}
		return al.Payload(), nil
	},
	"borders": func(r adapter.Reader, tf corpus.TestFile, c corpus.TestCase) (any, error) {
		ref, err := c.Ref()
		if err != nil {
			return nil, err
		}
		bo, err := r.CellBorders(tf.SheetFor(c), ref)
		if err != nil {
			return nil, err
		}
		return bo.Payload(), nil
	},
	"dimensions": func(r adapter.Reader, tf corpus.TestFile, c corpus.TestCase) (any, error) {
		ref, err := c.Ref()
		if err != nil {
			return nil, err
		}
		h, err := r.RowHeight(tf.SheetFor(c), ref.Row)
		if err != nil {
			return nil, err
		}
		w, err := r.ColWidth(tf.SheetFor(c), ref.Col)
		if err != nil {
			return nil, err
		}
		return map[string]any{"row_height": h, "col_width": w}, nil
	},
	// multiple_sheets cases either list the workbook's sheet names or
	// probe one cell on a non-default sheet; the expectation's shape
	// picks the path.
	"multiple_sheets": func(r adapter.Reader, tf corpus.TestFile, c corpus.TestCase) (any, error) {
		exp, _ := c.Expected.(map[string]any)
		if _, ok := exp["sheets"]; !ok {
			return cellObservation(r, tf, c)
		}
		names, err := r.SheetNames()
		if err != nil {
			return nil, err
		}
		list := make([]any, len(names))
		for i, n := range names {
			list[i] = n
		}
		return map[string]any{"sheets": list}, nil
	},
	"merged_cells": func(r adapter.Reader, tf corpus.TestFile, c corpus.TestCase) (any, error) {
		ranges, err := r.MergedRanges(tf.SheetFor(c))
		if err != nil {
			return nil, err
		}
		list := make([]any, len(ranges))
		for i, rng := range ranges {
			list[i] = rng.String()
		}
		return map[string]any{"ranges": list}, nil
	},
	"conditional_formatting": func(r adapter.Reader, tf corpus.TestFile, c corpus.TestCase) (any, error) {
		rules, err := r.ConditionalFormats(tf.SheetFor(c))
		if err != nil {
			return nil, err
		}
		list := make([]any, len(rules))
		for i, rule := range rules {
			list[i] = rule.Payload()
		}
		return map[string]any{"rules": list}, nil
	},
	"data_validation": func(r adapter.Reader, tf corpus.TestFile, c corpus.TestCase) (any, error) {
		rules, err := r.DataValidations(tf.SheetFor(c))
		if err != nil {
			return nil, err
		}
		list := make([]any, len(rules))
		for i, rule := range rules {
			list[i] = rule.Payload()
		}
		return map[string]any{"rules": list}, nil
	},
	"hyperlinks": func(r adapter.Reader, tf corpus.TestFile, c corpus.TestCase) (any, error) {
		links, err := r.Hyperlinks(tf.SheetFor(c))
		if err != nil {
			return nil, err
		}
		list := make([]any, len(links))
		for i, l := range links {
			list[i] = l.Payload()
		}
		return map[string]any{"links": list}, nil
	},
	"images": func(r adapter.Reader, tf corpus.TestFile, c corpus.TestCase) (any, error) {
		images, err := r.Images(tf.SheetFor(c))
		if err != nil {
			return nil, err
		}
		list := make([]any, len(images))
		for i, img := range images {
			list[i] = img.Payload()
		}
		return map[string]any{"images": list}, nil
	},
	// Workbooks carry at most one pivot per fixture; an empty object
	// stands for "none found".
	"pivot_tables": func(r adapter.Reader, tf corpus.TestFile, c corpus.TestCase) (any, error) {
		pivots, err := r.PivotTables(tf.SheetFor(c))
		if err != nil {
			return nil, err
		}
		if len(pivots) == 0 {
			return map[string]any{}, nil
		}
		return pivots[0].Payload(), nil
	},
	"comments": func(r adapter.Reader, tf corpus.TestFile, c corpus.TestCase) (any, error) {
		comments, err := r.Comments(tf.SheetFor(c))
		if err != nil {
			return nil, err
		}
		list := make([]any, len(comments))
		for i, cm := range comments {
			list[i] = cm.Payload()
		}
		return map[string]any{"comments": list}, nil
	},
	"freeze_panes": func(r adapter.Reader, tf corpus.TestFile, c corpus.TestCase) (any, error) {
		fp, err := r.FreezePane(tf.SheetFor(c))
		if err != nil {
			return nil, err
		}
		return fp.Payload(), nil
	},
	"named_ranges": func(r adapter.Reader, tf corpus.TestFile, c corpus.TestCase) (any, error) {
		names, err := r.NamedRanges()
		if err != nil {
			return nil, err
		}
		list := make([]any, len(names))
		for i, n := range names {
			list[i] = n.Payload()
		}
		return map[string]any{"names": list}, nil
	},
	"tables": func(r adapter.Reader, tf corpus.TestFile, c corpus.TestCase) (any, error) {
		tables, err := r.Tables(tf.SheetFor(c))
		if err != nil {
			return nil, err
		}
		list := make([]any, len(tables))
		for i, tb := range tables {
			list[i] = tb.Payload()
		}
		return map[string]any{"tables": list}, nil
	},
}
