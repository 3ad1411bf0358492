package sheet

import (
	"fmt"
	"strings"
)

// Ref is a 1-based cell coordinate.
type Ref struct {
	// Col is the 1-based column index (A = 1).
	Col int `json:"col"`

	// Row is the 1-based row index.
	Row int `json:"row"`
}

// ParseRef parses an A1-style reference like "B2" or "$C$7".
func ParseRef(s string) (Ref, error) {
	raw := strings.ToUpper(strings.ReplaceAll(s, "$", ""))
	if raw == "" {
		return Ref{}, fmt.Errorf("empty cell reference")
	}

	i := 0
	col := 0
	for ; i < len(raw); i++ {
		c := raw[i]
		if c < 'A' || c > 'Z' {
			break
		}
		col = col*26 + int(c-'A'+1)
	}
	if col == 0 {
		return Ref{}, fmt.Errorf("cell reference %q: missing column", s)
	}

	row := 0
	if i == len(raw) {
		return Ref{}, fmt.Errorf("cell reference %q: missing row", s)
	}
	for ; i < len(raw); i++ {
		c := raw[i]
		if c < '0' || c > '9' {
			return Ref{}, fmt.Errorf("cell reference %q: unexpected character %q", s, c)
		}
		row = row*10 + int(c-'0')
	}
	if row == 0 {
		return Ref{}, fmt.Errorf("cell reference %q: row must be positive", s)
	}

	return Ref{Col: col, Row: row}, nil
}

// String renders the reference in A1 notation.
func (r Ref) String() string {
	return fmt.Sprintf("%s%d", ColName(r.Col), r.Row)
}

// ColName renders a 1-based column index as letters (1 = "A",
// 27 = "AA").
func ColName(col int) string {
	var b []byte
	for col > 0 {
		col--
		b = append([]byte{byte('A' + col%26)}, b...)
		col /= 26
	}
	return string(b)
}

// Range is a rectangular cell area.
type Range struct {
	Start Ref `json:"start"`
	End   Ref `json:"end"`
}

// ParseRange parses an A1-style range like "A1:C3". A single cell
// reference yields a one-cell range.
func ParseRange(s string) (Range, error) {
	parts := strings.SplitN(s, ":", 2)
	start, err := ParseRef(parts[0])
	if err != nil {
		return Range{}, fmt.Errorf("range %q: %w", s, err)
	}
	if len(parts) == 1 {
		return Range{Start: start, End: start}, nil
	}
	end, err := ParseRef(parts[1])
	if err != nil {
		return Range{}, fmt.Errorf("range %q: %w", s, err)
	}
	return Range{Start: start, End: end}, nil
}

// String renders the range in A1 notation ("A1:C3", or "A1" for a
// one-cell range).
func (r Range) String() string {
	if r.Start == r.End {
		return r.Start.String()
	}
	return fmt.Sprintf("%s:%s", r.Start.String(), r.End.String())
}
