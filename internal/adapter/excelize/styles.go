package excelize

import (
	"strings"

	"github.com/unbound-force/assay/internal/sheet"
)

// borderStyleName maps excelize border style indices to line style
// names, per the library's style table.
var borderStyleName = map[int]sheet.BorderStyle{
	0:  sheet.BorderNone,
	1:  sheet.BorderThin,
	2:  sheet.BorderMedium,
	3:  sheet.BorderDashed,
	4:  sheet.BorderDotted,
	5:  sheet.BorderThick,
	6:  sheet.BorderDouble,
	7:  sheet.BorderHair,
	8:  sheet.BorderMediumDashed,
	9:  sheet.BorderDashDot,
	10: sheet.BorderMediumDashDot,
	11: sheet.BorderDashDotDot,
	12: sheet.BorderMediumDashDotDot,
	13: sheet.BorderSlantDashDot,
}

// borderStyleIndex is the write-side inverse of borderStyleName.
var borderStyleIndex = func() map[sheet.BorderStyle]int {
	m := make(map[sheet.BorderStyle]int, len(borderStyleName))
	for idx, name := range borderStyleName {
		m[name] = idx
	}
	return m
}()

// builtinNumFmtCodes holds the OOXML builtin number format codes the
// harness needs to resolve style IDs back to format strings.
var builtinNumFmtCodes = map[int]string{
	0:  "General",
	1:  "0",
	2:  "0.00",
	3:  "#,##0",
	4:  "#,##0.00",
	9:  "0%",
	10: "0.00%",
	11: "0.00E+00",
	12: "# ?/?",
	13: "# ??/??",
	14: "m/d/yy",
	15: "d-mmm-yy",
	16: "d-mmm",
	17: "mmm-yy",
	18: "h:mm AM/PM",
	19: "h:mm:ss AM/PM",
	20: "h:mm",
	21: "h:mm:ss",
	22: "m/d/yy h:mm",
	37: "#,##0 ;(#,##0)",
	38: "#,##0 ;[Red](#,##0)",
	39: "#,##0.00;(#,##0.00)",
	40: "#,##0.00;[Red](#,##0.00)",
	45: "mm:ss",
	46: "[h]:mm:ss",
	47: "mmss.0",
	48: "##0.0E+0",
	49: "@",
}

// builtinDateFormats flags the builtin IDs that render serial
// numbers as dates or times.
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true,
	19: true, 20: true, 21: true, 22: true,
	45: true, 46: true, 47: true,
}

// looksLikeDateFormat reports whether a custom format code renders
// serial numbers as dates. Literal sections in quotes and color tags
// in brackets are stripped before checking for date tokens.
func looksLikeDateFormat(code string) bool {
	var b strings.Builder
	inQuote := false
	inBracket := false
	for _, r := range code {
		switch {
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case inBracket:
		default:
			b.WriteRune(r)
		}
	}
	return strings.ContainsAny(b.String(), "ymdhs")
}
