package report

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/unbound-force/assay/internal/score"
)

// Styles defines the visual theme for terminal report output.
// Lipgloss automatically degrades to no-color when output is not a TTY.
type Styles struct {
	// Header is used for section headers (e.g. "=== Fidelity matrix ===").
	Header lipgloss.Style

	// SubHeader is used for secondary information lines.
	SubHeader lipgloss.Style

	// Tier1 through Tier3 color-code feature tiers: core,
	// structural, advanced.
	Tier1 lipgloss.Style
	Tier2 lipgloss.Style
	Tier3 lipgloss.Style

	// Score3 through Score0 color-code fidelity scores.
	Score3 lipgloss.Style
	Score2 lipgloss.Style
	Score1 lipgloss.Style
	Score0 lipgloss.Style

	// TableHeader styles the header row of tables.
	TableHeader lipgloss.Style

	// TableCell styles regular table cells.
	TableCell lipgloss.Style

	// SummaryLabel styles summary line labels.
	SummaryLabel lipgloss.Style

	// SummaryValue styles summary line values.
	SummaryValue lipgloss.Style

	// Pass styles improvement and pass indicators.
	Pass lipgloss.Style

	// Fail styles regression and failure indicators.
	Fail lipgloss.Style

	// Border is used for table borders.
	Border lipgloss.Style

	// Muted is used for de-emphasized text and not-applicable cells.
	Muted lipgloss.Style
}

// DefaultStyles returns the default color scheme for terminal reports.
func DefaultStyles() Styles {
	return Styles{
		Header:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		SubHeader: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),

		Tier1: lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
		Tier2: lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		Tier3: lipgloss.NewStyle().Foreground(lipgloss.Color("208")),

		Score3: lipgloss.NewStyle().Foreground(lipgloss.Color("40")),
		Score2: lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		Score1: lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		Score0: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),

		TableHeader: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
		TableCell:   lipgloss.NewStyle().PaddingRight(1),

		SummaryLabel: lipgloss.NewStyle().Bold(true).Width(14),
		SummaryValue: lipgloss.NewStyle(),

		Pass: lipgloss.NewStyle().Foreground(lipgloss.Color("40")).Bold(true),
		Fail: lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),

		Border: lipgloss.NewStyle().Foreground(lipgloss.Color("63")),

		Muted: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// TierStyle returns the style for a feature tier.
func (s Styles) TierStyle(tier int) lipgloss.Style {
	switch tier {
	case 1:
		return s.Tier1
	case 2:
		return s.Tier2
	case 3:
		return s.Tier3
	default:
		return s.Muted
	}
}

// ScoreStyle returns the style for a score value; nil means not
// applicable.
func (s Styles) ScoreStyle(v *int) lipgloss.Style {
	if v == nil {
		return s.Muted
	}
	switch *v {
	case 3:
		return s.Score3
	case 2:
		return s.Score2
	case 1:
		return s.Score1
	default:
		return s.Score0
	}
}

// GradeStyle returns the style for a library grade.
func (s Styles) GradeStyle(g score.Grade) lipgloss.Style {
	switch g {
	case score.GradeS, score.GradeA:
		return s.Pass
	case score.GradeD:
		return s.Fail
	default:
		return s.SummaryValue
	}
}
