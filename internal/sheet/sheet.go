// Package sheet defines the typed spreadsheet observations exchanged
// between adapters, the fixture corpus, and the comparator.
package sheet

import "time"

// CellType enumerates the value categories a cell can hold.
type CellType string

// Cell value type constants.
const (
	TypeString  CellType = "string"
	TypeNumber  CellType = "number"
	TypeBoolean CellType = "boolean"
	TypeFormula CellType = "formula"
	TypeDate    CellType = "date"
	TypeError   CellType = "error"
	TypeBlank   CellType = "blank"
)

// KnownCellTypes lists every valid CellType.
var KnownCellTypes = map[CellType]bool{
	TypeString:  true,
	TypeNumber:  true,
	TypeBoolean: true,
	TypeFormula: true,
	TypeDate:    true,
	TypeError:   true,
	TypeBlank:   true,
}

// DateLayout is the wire format for date values. Dates travel as
// local wall-clock strings; spreadsheets have no timezone notion.
const DateLayout = "2006-01-02T15:04:05"

// CellValue is a typed cell observation.
type CellValue struct {
	// Type categorizes the value.
	Type CellType `json:"type"`

	// Value holds the payload: string, float64, bool, or an
	// ISO-8601 string for dates. Nil for blank cells.
	Value any `json:"value,omitempty"`

	// Formula is the cell formula without the leading "=",
	// set only for Type == TypeFormula.
	Formula string `json:"formula,omitempty"`
}

// Payload converts the value to the structural form the comparator
// consumes (the same shape the manifest's expected entries decode to).
func (v CellValue) Payload() map[string]any {
	p := map[string]any{"type": string(v.Type)}
	if v.Value != nil {
		p["value"] = v.Value
	}
	if v.Formula != "" {
		p["formula"] = v.Formula
	}
	return p
}

// StringValue builds a string cell observation.
func StringValue(s string) CellValue {
	return CellValue{Type: TypeString, Value: s}
}

// NumberValue builds a numeric cell observation.
func NumberValue(f float64) CellValue {
	return CellValue{Type: TypeNumber, Value: f}
}

// BoolValue builds a boolean cell observation.
func BoolValue(b bool) CellValue {
	return CellValue{Type: TypeBoolean, Value: b}
}

// FormulaValue builds a formula cell observation. computed is the
// cached result and may be nil when the reader does not evaluate.
func FormulaValue(formula string, computed any) CellValue {
	return CellValue{Type: TypeFormula, Value: computed, Formula: formula}
}

// DateValue builds a date cell observation.
func DateValue(t time.Time) CellValue {
	return CellValue{Type: TypeDate, Value: t.Format(DateLayout)}
}

// ErrorValue builds an error cell observation (e.g. "#DIV/0!").
func ErrorValue(code string) CellValue {
	return CellValue{Type: TypeError, Value: code}
}

// BlankValue builds a blank cell observation.
func BlankValue() CellValue {
	return CellValue{Type: TypeBlank}
}

// CellFormat captures font and fill styling of a single cell.
// Nil fields were not observed; false/empty are explicit readings.
type CellFormat struct {
	// Bold, Italic, Underline, Strikethrough are font toggles.
	Bold          *bool `json:"bold,omitempty"`
	Italic        *bool `json:"italic,omitempty"`
	Underline     *bool `json:"underline,omitempty"`
	Strikethrough *bool `json:"strikethrough,omitempty"`

	// FontName is the typeface name (e.g. "Calibri").
	FontName *string `json:"font_name,omitempty"`

	// FontSize is the point size.
	FontSize *float64 `json:"font_size,omitempty"`

	// FontColor and Background are "#RRGGBB" hex strings.
	FontColor  *string `json:"font_color,omitempty"`
	Background *string `json:"bg_color,omitempty"`
}

// Payload converts the format to its structural form, skipping
// unobserved fields.
func (f CellFormat) Payload() map[string]any {
	p := map[string]any{}
	if f.Bold != nil {
		p["bold"] = *f.Bold
	}
	if f.Italic != nil {
		p["italic"] = *f.Italic
	}
	if f.Underline != nil {
		p["underline"] = *f.Underline
	}
	if f.Strikethrough != nil {
		p["strikethrough"] = *f.Strikethrough
	}
	if f.FontName != nil {
		p["font_name"] = *f.FontName
	}
	if f.FontSize != nil {
		p["font_size"] = *f.FontSize
	}
	if f.FontColor != nil {
		p["font_color"] = *f.FontColor
	}
	if f.Background != nil {
		p["bg_color"] = *f.Background
	}
	return p
}

// BorderStyle enumerates cell border line styles.
type BorderStyle string

// Border style constants.
const (
	BorderNone             BorderStyle = "none"
	BorderThin             BorderStyle = "thin"
	BorderMedium           BorderStyle = "medium"
	BorderThick            BorderStyle = "thick"
	BorderDashed           BorderStyle = "dashed"
	BorderDotted           BorderStyle = "dotted"
	BorderDouble           BorderStyle = "double"
	BorderHair             BorderStyle = "hair"
	BorderMediumDashed     BorderStyle = "medium_dashed"
	BorderDashDot          BorderStyle = "dash_dot"
	BorderMediumDashDot    BorderStyle = "medium_dash_dot"
	BorderDashDotDot       BorderStyle = "dash_dot_dot"
	BorderMediumDashDotDot BorderStyle = "medium_dash_dot_dot"
	BorderSlantDashDot     BorderStyle = "slant_dash_dot"
)

// KnownBorderStyles lists every valid BorderStyle.
var KnownBorderStyles = map[BorderStyle]bool{
	BorderNone:             true,
	BorderThin:             true,
	BorderMedium:           true,
	BorderThick:            true,
	BorderDashed:           true,
	BorderDotted:           true,
	BorderDouble:           true,
	BorderHair:             true,
	BorderMediumDashed:     true,
	BorderDashDot:          true,
	BorderMediumDashDot:    true,
	BorderDashDotDot:       true,
	BorderMediumDashDotDot: true,
	BorderSlantDashDot:     true,
}

// DefaultBorderColor is assumed when a file carries a styled edge
// with no explicit color.
const DefaultBorderColor = "#000000"

// BorderEdge is one styled edge of a cell.
type BorderEdge struct {
	// Style is the line style.
	Style BorderStyle `json:"style"`

	// Color is a "#RRGGBB" hex string.
	Color string `json:"color"`
}

// Payload converts the edge to its structural form.
func (e BorderEdge) Payload() map[string]any {
	c := e.Color
	if c == "" {
		c = DefaultBorderColor
	}
	return map[string]any{"style": string(e.Style), "color": c}
}

// Borders captures all styled edges of a cell. Nil edges are unset.
type Borders struct {
	Top          *BorderEdge `json:"top,omitempty"`
	Bottom       *BorderEdge `json:"bottom,omitempty"`
	Left         *BorderEdge `json:"left,omitempty"`
	Right        *BorderEdge `json:"right,omitempty"`
	DiagonalUp   *BorderEdge `json:"diagonal_up,omitempty"`
	DiagonalDown *BorderEdge `json:"diagonal_down,omitempty"`
}

// Payload converts the borders to their structural form, skipping
// unset edges.
func (b Borders) Payload() map[string]any {
	p := map[string]any{}
	edges := []struct {
		key  string
		edge *BorderEdge
	}{
		{"top", b.Top},
		{"bottom", b.Bottom},
		{"left", b.Left},
		{"right", b.Right},
		{"diagonal_up", b.DiagonalUp},
		{"diagonal_down", b.DiagonalDown},
	}
	for _, e := range edges {
		if e.edge != nil {
			p[e.key] = e.edge.Payload()
		}
	}
	return p
}

// Alignment captures cell text alignment.
type Alignment struct {
	// Horizontal is one of "left", "center", "right", "justify",
	// "fill", "general" (empty when unset).
	Horizontal string `json:"horizontal,omitempty"`

	// Vertical is one of "top", "center", "bottom" (empty when
	// unset).
	Vertical string `json:"vertical,omitempty"`

	// WrapText reports whether text wrapping is enabled.
	WrapText bool `json:"wrap_text"`
}

// Payload converts the alignment to its structural form.
func (a Alignment) Payload() map[string]any {
	p := map[string]any{"wrap_text": a.WrapText}
	if a.Horizontal != "" {
		p["horizontal"] = a.Horizontal
	}
	if a.Vertical != "" {
		p["vertical"] = a.Vertical
	}
	return p
}
