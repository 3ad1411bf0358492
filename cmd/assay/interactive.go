package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/unbound-force/assay/internal/corpus"
	"github.com/unbound-force/assay/internal/record"
	"github.com/unbound-force/assay/internal/report"
	"github.com/unbound-force/assay/internal/score"
)

// keyMap defines keybindings for the interactive record browser.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	PageUp   key.Binding
	PageDown key.Binding
	Sort     key.Binding
	Detail   key.Binding
	Back     key.Binding
	Quit     key.Binding
	Help     key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Sort, k.Detail, k.Quit, k.Help}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown},
		{k.Sort, k.Detail, k.Back},
		{k.Quit, k.Help},
	}
}

var defaultKeyMap = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("^/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("v/j", "down")),
	PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
	PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
	Sort:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "cycle sort")),
	Detail:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "failures")),
	Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
}

// Styles for the TUI.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63")).
			MarginBottom(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	tuiHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63"))

	tuiBorderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("63"))

	tier1Style = lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	tier2Style = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	tier3Style = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// Library sort orders, cycled with "s".
const (
	sortByGreen = iota
	sortByName
	sortByPassRate
	sortModes
)

func sortLabel(mode int) string {
	switch mode {
	case sortByName:
		return "name"
	case sortByPassRate:
		return "pass rate"
	default:
		return "green"
	}
}

// browse and detail are the two viewport contents.
const (
	viewBrowse = iota
	viewDetail
)

// browseModel is the Bubble Tea model for browsing a run record.
type browseModel struct {
	rec      *record.Record
	opts     report.Options
	viewport viewport.Model
	help     help.Model
	keys     keyMap
	ready    bool
	view     int
	sortMode int
	detail   string
}

func newBrowseModel(rec *record.Record, opts report.Options) browseModel {
	return browseModel{
		rec:    rec,
		opts:   opts,
		help:   help.New(),
		keys:   defaultKeyMap,
		detail: renderDetailContent(rec),
	}
}

// sortedSummaries orders the per-library rollups for the current
// sort mode. Summarize already returns green-descending order.
func sortedSummaries(rec *record.Record, opts report.Options, mode int) []score.Summary {
	sums := score.Summarize(rec, opts.EffectiveRubric(), opts.EffectiveBands())
	switch mode {
	case sortByName:
		sort.Slice(sums, func(i, j int) bool { return sums[i].Library < sums[j].Library })
	case sortByPassRate:
		sort.Slice(sums, func(i, j int) bool {
			if sums[i].PassRate() != sums[j].PassRate() {
				return sums[i].PassRate() > sums[j].PassRate()
			}
			return sums[i].Library < sums[j].Library
		})
	}
	return sums
}

func renderBrowseContent(rec *record.Record, opts report.Options, sortMode int) string {
	var sb strings.Builder

	libraries := len(rec.Libraries)
	sb.WriteString(titleStyle.Render(fmt.Sprintf(
		"Assay Run: %d librar%s, %d result(s)",
		libraries, pluralY(libraries), len(rec.Results))))
	sb.WriteString("\n\n")
	sb.WriteString(statusStyle.Render(fmt.Sprintf("    run %s (%s, %s)",
		rec.Metadata.RunID, rec.Metadata.Profile, rec.Metadata.Platform)))
	sb.WriteString("\n")
	if rec.Metadata.Partial {
		sb.WriteString(failStyle.Render("    partial run"))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")

	sums := sortedSummaries(rec, opts, sortMode)

	// Matrix columns follow the summary order, read before write.
	type column struct{ library, mode string }
	var cols []column
	for _, sum := range sums {
		info := rec.Libraries[sum.Library]
		for _, mode := range record.Modes {
			for _, c := range info.Capabilities {
				if c == mode {
					cols = append(cols, column{sum.Library, mode})
				}
			}
		}
	}

	lookup := make(map[[2]string]record.FeatureResult, len(rec.Results))
	var features []string
	seen := map[string]bool{}
	for _, fr := range rec.Results {
		lookup[[2]string{fr.Feature, fr.Library}] = fr
		if !seen[fr.Feature] {
			seen[fr.Feature] = true
			features = append(features, fr.Feature)
		}
	}

	headers := []string{"FEATURE"}
	for _, col := range cols {
		suffix := " (R)"
		if col.mode == record.ModeWrite {
			suffix = " (W)"
		}
		headers = append(headers, col.library+suffix)
	}

	rows := make([][]string, 0, len(features))
	tiers := make([]int, 0, len(features))
	for _, feature := range features {
		row := []string{feature}
		for _, col := range cols {
			mark := score.Emoji(nil)
			if fr, ok := lookup[[2]string{feature, col.library}]; ok {
				if s := fr.Scores.ForMode(col.mode); s != nil {
					mark = fmt.Sprintf("%s %d", score.Emoji(s), *s)
				}
			}
			row = append(row, mark)
		}
		rows = append(rows, row)
		tier := 0
		if f, ok := corpus.FeatureByID(feature); ok {
			tier = f.Tier
		}
		tiers = append(tiers, tier)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tuiBorderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tuiHeaderStyle
			}
			if col == 0 && row >= 0 && row < len(tiers) {
				switch tiers[row] {
				case 1:
					return tier1Style
				case 2:
					return tier2Style
				case 3:
					return tier3Style
				}
			}
			return lipgloss.NewStyle()
		}).
		Headers(headers...).
		Rows(rows...)
	sb.WriteString(t.String())
	sb.WriteString("\n\n")

	for _, sum := range sums {
		sb.WriteString(fmt.Sprintf("  %-12s %-2s green %d  pass %.0f%%  %s\n",
			sum.Library, sum.Grade, sum.BestGreen, sum.PassRate(), sum.Caps))
	}

	return sb.String()
}

// renderDetailContent lists every failing case with its fault.
func renderDetailContent(rec *record.Record) string {
	var sb strings.Builder

	failures := 0
	var sections []string
	for _, fr := range rec.Results {
		ids := make([]string, 0, len(fr.Cases))
		for id := range fr.Cases {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		var rows [][]string
		for _, id := range ids {
			cr := fr.Cases[id]
			for _, mode := range record.Modes {
				mr := cr.ForMode(mode)
				if mr == nil || mr.Passed {
					continue
				}
				failures++
				cause := "value mismatch"
				if mr.Fault != nil {
					cause = fmt.Sprintf("%s: %s", mr.Fault.Category, mr.Fault.Message)
				}
				rows = append(rows, []string{id, mode, truncate(cause, 60)})
			}
		}
		if len(rows) == 0 {
			continue
		}

		var sec strings.Builder
		sec.WriteString(tuiHeaderStyle.Render(
			fmt.Sprintf("=== %s / %s ===", fr.Feature, fr.Library)))
		sec.WriteString("\n")
		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(tuiBorderStyle).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return tuiHeaderStyle
				}
				if col == 1 {
					return failStyle
				}
				return lipgloss.NewStyle()
			}).
			Headers("CASE", "MODE", "FAULT").
			Rows(rows...)
		sec.WriteString(t.String())
		sec.WriteString("\n")
		sections = append(sections, sec.String())
	}

	sb.WriteString(titleStyle.Render(fmt.Sprintf("Failing cases: %d", failures)))
	sb.WriteString("\n\n")
	if failures == 0 {
		sb.WriteString(statusStyle.Render("    Every executed case passed."))
		sb.WriteString("\n")
		return sb.String()
	}
	sb.WriteString(strings.Join(sections, "\n"))
	return sb.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func pluralY(n int) string {
	if n == 1 {
		return "y"
	}
	return "ies"
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) content() string {
	if m.view == viewDetail {
		return m.detail
	}
	return renderBrowseContent(m.rec, m.opts, m.sortMode)
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		headerHeight := 0
		footerHeight := 2
		verticalMargin := headerHeight + footerHeight

		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-verticalMargin)
			m.viewport.SetContent(m.content())
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - verticalMargin
		}

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Sort):
			if m.view == viewBrowse {
				m.sortMode = (m.sortMode + 1) % sortModes
				m.viewport.SetContent(m.content())
			}
		case key.Matches(msg, m.keys.Detail):
			if m.view == viewBrowse {
				m.view = viewDetail
				m.viewport.SetContent(m.content())
				m.viewport.GotoTop()
			}
		case key.Matches(msg, m.keys.Back):
			if m.view == viewDetail {
				m.view = viewBrowse
				m.viewport.SetContent(m.content())
				m.viewport.GotoTop()
			}
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m browseModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	mode := "matrix"
	if m.view == viewDetail {
		mode = "failures"
	}
	footer := statusStyle.Render(fmt.Sprintf(" %s | sort: %s | %3.f%% ",
		mode, sortLabel(m.sortMode), m.viewport.ScrollPercent()*100)) +
		" " + m.help.View(m.keys)

	return m.viewport.View() + "\n" + footer
}

// runInteractiveReport launches the Bubble Tea TUI for browsing a
// run record.
func runInteractiveReport(rec *record.Record, opts report.Options) error {
	model := newBrowseModel(rec, opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}
