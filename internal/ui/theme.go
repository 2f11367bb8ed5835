package ui

import "github.com/charmbracelet/lipgloss"

// Tide theme colors (from sysc family)
var (
	// Primary colors
	TideTeal       = lipgloss.Color("#2a9d8f")
	TideDeepTeal   = lipgloss.Color("#1f7a70")
	TideBackground = lipgloss.Color("#22333b")
	TideForeground = lipgloss.Color("#eaf4f4")
	TideMuted      = lipgloss.Color("#84a9ac")

	// Semantic colors
	ColorSuccess = lipgloss.Color("#2ecc71")
	ColorWarning = lipgloss.Color("#f39c12")
	ColorError   = lipgloss.Color("#e63946")
	ColorInfo    = lipgloss.Color("#3498db")
)

// Styles for TUI components
var (
	// Header style
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(TideForeground).
			Background(TideTeal).
			Padding(0, 1).
			Width(80)

	// Footer style (keybindings)
	FooterStyle = lipgloss.NewStyle().
			Foreground(TideMuted).
			Background(TideBackground).
			Padding(0, 1).
			Width(80)

	// Title style (for sections)
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(TideTeal).
			MarginTop(1).
			MarginBottom(1)

	// Muted text style
	MutedStyle = lipgloss.NewStyle().
			Foreground(TideMuted)

	// Success style (matched files)
	SuccessStyle = lipgloss.NewStyle().
			Foreground(ColorSuccess).
			Bold(true)

	// Error style (lookup failures)
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	// Warning style (unmatched files)
	WarningStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true)

	// Stat style (for numbers)
	StatStyle = lipgloss.NewStyle().
			Foreground(TideTeal).
			Bold(true)
)

// FormatKeybinding formats a keybinding for display in footer
func FormatKeybinding(key, description string) string {
	keyStyle := lipgloss.NewStyle().
		Foreground(TideTeal).
		Bold(true)

	descStyle := lipgloss.NewStyle().
		Foreground(TideMuted)

	return keyStyle.Render(key) + " " + descStyle.Render(description)
}

// FormatFooter formats footer with keybindings
func FormatFooter(keybindings ...string) string {
	footer := ""
	for i, kb := range keybindings {
		if i > 0 {
			footer += "  "
		}
		footer += kb
	}
	return FooterStyle.Render(footer)
}

// Status marker styles
var (
	OKMarker   = lipgloss.NewStyle().Foreground(ColorSuccess).SetString("[OK]")
	InfoMarker = lipgloss.NewStyle().Foreground(ColorInfo).SetString("[INFO]")
	WarnMarker = lipgloss.NewStyle().Foreground(ColorWarning).SetString("[WARN]")
	FailMarker = lipgloss.NewStyle().Foreground(ColorError).SetString("[FAIL]")
)

// FormatStatusOK returns an [OK] marker with message
func FormatStatusOK(message string) string {
	return OKMarker.String() + " " + message
}

// FormatStatusInfo returns an [INFO] marker with message
func FormatStatusInfo(message string) string {
	return InfoMarker.String() + " " + message
}

// FormatStatusWarn returns a [WARN] marker with message
func FormatStatusWarn(message string) string {
	return WarnMarker.String() + " " + message
}

// FormatStatusFail returns a [FAIL] marker with message
func FormatStatusFail(message string) string {
	return FailMarker.String() + " " + message
}
