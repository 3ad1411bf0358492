package sheet

// Feature-level observations. Each Payload method produces the
// structural form the comparator consumes.

// Hyperlink is one linked cell.
type Hyperlink struct {
	// Cell is the anchor cell in A1 notation.
	Cell string `json:"cell"`

	// Target is the link destination (URL, mailto, or internal
	// reference).
	Target string `json:"target"`

	// Display is the visible cell text, empty when the cell has
	// none.
	Display string `json:"display,omitempty"`
}

// Payload converts the hyperlink to its structural form.
func (h Hyperlink) Payload() map[string]any {
	p := map[string]any{"cell": h.Cell, "target": h.Target}
	if h.Display != "" {
		p["display"] = h.Display
	}
	return p
}

// Comment is one cell comment (legacy note, not threaded).
type Comment struct {
	Cell   string `json:"cell"`
	Author string `json:"author,omitempty"`
	Text   string `json:"text"`
}

// Payload converts the comment to its structural form.
func (c Comment) Payload() map[string]any {
	p := map[string]any{"cell": c.Cell, "text": c.Text}
	if c.Author != "" {
		p["author"] = c.Author
	}
	return p
}

// FreezePane describes a sheet's frozen rows and columns.
type FreezePane struct {
	// Rows and Cols are the frozen counts from the top-left.
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// Payload converts the freeze state to its structural form.
func (f FreezePane) Payload() map[string]any {
	return map[string]any{"rows": float64(f.Rows), "cols": float64(f.Cols)}
}

// NamedRange is one workbook-scoped defined name.
type NamedRange struct {
	Name string `json:"name"`

	// RefersTo is the target reference, e.g. "Sheet1!$B$2:$B$4".
	RefersTo string `json:"refers_to"`
}

// Payload converts the defined name to its structural form.
func (n NamedRange) Payload() map[string]any {
	return map[string]any{"name": n.Name, "refers_to": n.RefersTo}
}

// Table is one worksheet table (ListObject).
type Table struct {
	Name  string `json:"name"`
	Range string `json:"range"`

	// Columns are the header names in order.
	Columns []string `json:"columns,omitempty"`
}

// Payload converts the table to its structural form.
func (t Table) Payload() map[string]any {
	p := map[string]any{"name": t.Name, "range": t.Range}
	if len(t.Columns) > 0 {
		cols := make([]any, len(t.Columns))
		for i, c := range t.Columns {
			cols[i] = c
		}
		p["columns"] = cols
	}
	return p
}

// Validation is one data validation rule.
type Validation struct {
	// Range is the constrained area in A1 notation.
	Range string `json:"range"`

	// Type is the rule type: "list", "whole", "decimal", "date",
	// "textLength", "custom".
	Type string `json:"type"`

	// Operator applies to bounded types ("between", "greaterThan",
	// ...). Empty for list rules.
	Operator string `json:"operator,omitempty"`

	// Formula1 and Formula2 are the rule operands. For list rules
	// Formula1 carries the choices.
	Formula1 string `json:"formula1,omitempty"`
	Formula2 string `json:"formula2,omitempty"`
}

// Payload converts the validation to its structural form.
func (v Validation) Payload() map[string]any {
	p := map[string]any{"range": v.Range, "type": v.Type}
	if v.Operator != "" {
		p["operator"] = v.Operator
	}
	if v.Formula1 != "" {
		p["formula1"] = v.Formula1
	}
	if v.Formula2 != "" {
		p["formula2"] = v.Formula2
	}
	return p
}

// CondFormat is one conditional formatting rule.
type CondFormat struct {
	// Range is the formatted area in A1 notation.
	Range string `json:"range"`

	// Type is the rule type: "cell", "data_bar", "2_color_scale",
	// "top", "duplicate".
	Type string `json:"type"`

	// Criteria is the comparison for cellIs rules (">", "<", ...).
	Criteria string `json:"criteria,omitempty"`

	// Value is the comparison operand for cellIs rules.
	Value string `json:"value,omitempty"`
}

// Payload converts the rule to its structural form.
func (c CondFormat) Payload() map[string]any {
	p := map[string]any{"range": c.Range, "type": c.Type}
	if c.Criteria != "" {
		p["criteria"] = c.Criteria
	}
	if c.Value != "" {
		p["value"] = c.Value
	}
	return p
}

// Image is one embedded picture.
type Image struct {
	// Cell is the anchor cell in A1 notation.
	Cell string `json:"cell"`

	// Format is the image format without dot (e.g. "png").
	Format string `json:"format"`

	// Bytes is the decoded image size in bytes.
	Bytes int `json:"bytes,omitempty"`
}

// Payload converts the image to its structural form. Size is
// omitted: round-tripping may recompress.
func (i Image) Payload() map[string]any {
	return map[string]any{"cell": i.Cell, "format": i.Format}
}

// Pivot is one pivot table.
type Pivot struct {
	// DataRange is the source area, sheet-qualified.
	DataRange string `json:"data_range"`

	// Rows, Columns, Values are the field names per axis.
	Rows    []string `json:"rows,omitempty"`
	Columns []string `json:"columns,omitempty"`
	Values  []string `json:"values,omitempty"`
}

// Payload converts the pivot to its structural form.
func (p Pivot) Payload() map[string]any {
	out := map[string]any{"data_range": p.DataRange}
	if len(p.Rows) > 0 {
		out["rows"] = toAnySlice(p.Rows)
	}
	if len(p.Columns) > 0 {
		out["columns"] = toAnySlice(p.Columns)
	}
	if len(p.Values) > 0 {
		out["values"] = toAnySlice(p.Values)
	}
	return out
}

func toAnySlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
