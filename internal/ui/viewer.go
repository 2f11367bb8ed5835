// Package ui implements the interactive report viewer.
package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Nomadcxx/jellymatch/internal/pipeline"
	"github.com/Nomadcxx/jellymatch/internal/reporter"
)

// ViewMode represents the current TUI view
type ViewMode int

const (
	ViewSummary ViewMode = iota
	ViewMatched
	ViewUnmatched
)

// Model represents the TUI state
type Model struct {
	report   reporter.Report
	mode     ViewMode
	viewport viewport.Model
	ready    bool
	width    int
	height   int
}

// NewModel creates a new TUI model with an identification report
func NewModel(report reporter.Report) Model {
	return Model{
		report: report,
		mode:   ViewSummary,
	}
}

// Init initializes the TUI
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 2
		footerHeight := 2
		verticalMargin := headerHeight + footerHeight

		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-verticalMargin)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - verticalMargin
		}
		m.viewport.SetContent(m.renderContent())
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "s", "1":
			m.mode = ViewSummary
			m.viewport.SetContent(m.renderContent())
			m.viewport.GotoTop()
			return m, nil
		case "m", "2":
			m.mode = ViewMatched
			m.viewport.SetContent(m.renderContent())
			m.viewport.GotoTop()
			return m, nil
		case "u", "3":
			m.mode = ViewUnmatched
			m.viewport.SetContent(m.renderContent())
			m.viewport.GotoTop()
			return m, nil
		case "tab":
			m.mode = (m.mode + 1) % 3
			m.viewport.SetContent(m.renderContent())
			m.viewport.GotoTop()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return "Loading report..."
	}

	header := HeaderStyle.Width(m.width).Render("jellymatch - " + m.viewTitle())
	footer := FormatFooter(
		FormatKeybinding("s", "summary"),
		FormatKeybinding("m", "matched"),
		FormatKeybinding("u", "unmatched"),
		FormatKeybinding("tab", "next view"),
		FormatKeybinding("q", "quit"),
	)

	return header + "\n" + m.viewport.View() + "\n" + footer
}

func (m Model) viewTitle() string {
	switch m.mode {
	case ViewMatched:
		return "Matched Files"
	case ViewUnmatched:
		return "Unmatched Files"
	default:
		return "Summary"
	}
}

func (m Model) renderContent() string {
	switch m.mode {
	case ViewMatched:
		return m.renderMatched()
	case ViewUnmatched:
		return m.renderUnmatched()
	default:
		return m.renderSummary()
	}
}

// renderSummary shows run totals
func (m Model) renderSummary() string {
	var sb strings.Builder

	sb.WriteString(TitleStyle.Render("Identification Summary") + "\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n", m.report.Timestamp.Format("2006-01-02 15:04:05")))
	sb.WriteString(fmt.Sprintf("Libraries: %s\n\n", strings.Join(m.report.LibraryPaths, ", ")))

	sb.WriteString(fmt.Sprintf("Files identified: %s\n", StatStyle.Render(fmt.Sprintf("%d", len(m.report.Outcomes)))))
	sb.WriteString(fmt.Sprintf("Matched:          %s\n", SuccessStyle.Render(fmt.Sprintf("%d", m.report.Matched))))
	sb.WriteString(fmt.Sprintf("Unmatched:        %s\n", WarningStyle.Render(fmt.Sprintf("%d", m.report.Unmatched))))
	sb.WriteString(fmt.Sprintf("Lookup failures:  %s\n", ErrorStyle.Render(fmt.Sprintf("%d", m.report.LookupFailures))))
	sb.WriteString(fmt.Sprintf("Needs review:     %s\n", WarningStyle.Render(fmt.Sprintf("%d", m.report.Skipped))))

	return sb.String()
}

// renderMatched lists matched files with their catalog candidate
func (m Model) renderMatched() string {
	var sb strings.Builder

	sb.WriteString(TitleStyle.Render("Matched Files") + "\n\n")

	count := 0
	for _, out := range m.report.Outcomes {
		if !out.Matched() {
			continue
		}
		count++
		cand := out.Match.Candidate
		year := ""
		if len(cand.ReleaseDate) >= 4 {
			year = " (" + cand.ReleaseDate[:4] + ")"
		}
		sb.WriteString(SuccessStyle.Render("[MATCH]") + " " + filepath.Base(out.Filename) + "\n")
		sb.WriteString(MutedStyle.Render(fmt.Sprintf("        -> %s%s  id %d  score %.2f",
			cand.Title, year, cand.ID, out.Match.Score)) + "\n\n")
	}

	if count == 0 {
		sb.WriteString(MutedStyle.Render("No matched files."))
	}

	return sb.String()
}

// renderUnmatched lists files that need review, with their local parse
func (m Model) renderUnmatched() string {
	var sb strings.Builder

	sb.WriteString(TitleStyle.Render("Unmatched Files") + "\n\n")

	count := 0
	for _, out := range m.report.Outcomes {
		if out.Matched() {
			continue
		}
		count++

		marker := WarningStyle.Render("[UNMATCHED]")
		if out.State == pipeline.StateAwaitingMatch {
			marker = ErrorStyle.Render("[LOOKUP FAILED]")
		}
		sb.WriteString(marker + " " + filepath.Base(out.Filename) + "\n")

		if out.Parsed != nil {
			year := ""
			if out.Parsed.Year != 0 {
				year = fmt.Sprintf(" (%d)", out.Parsed.Year)
			}
			sb.WriteString(MutedStyle.Render(fmt.Sprintf("        local: %s%s  confidence %.2f",
				out.Parsed.Title, year, out.Parsed.Confidence)) + "\n")
		}
		if out.LookupErr != "" {
			sb.WriteString(ErrorStyle.Render("        "+out.LookupErr) + "\n")
		}
		sb.WriteString("\n")
	}

	if count == 0 {
		sb.WriteString(MutedStyle.Render("Every file matched."))
	}

	return sb.String()
}

// Run launches the report viewer
func Run(report reporter.Report) error {
	p := tea.NewProgram(NewModel(report), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
