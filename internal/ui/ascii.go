package ui

import "github.com/charmbracelet/lipgloss"

// ASCII art for jellymatch header as single string to preserve exact formatting
const jellymatchASCII = `  ████              ████   ████                                  ████
                    ████   ████                            ████  ████
  ████  ██████████  ████   ████  ████  ████  ████████████████████████████████  ████
  ████  ████  ████  ████   ████  ████  ████  ████  ████  ██████████      ██████████
  ████  ██████████  ████   ████  ████  ████  ████  ████  ████████  ████████████████
  ████  ████        ████   ████  ██████████  ████  ████  ████████████████████  ████
  ████  ██████████  ████   ████  ██████████  ████  ████  ██████████████████████  ██
██████                                 ████
██████                           ██████████                                        `

// FormatASCIIHeader renders the jellymatch ASCII header with Tide theme
// Render as single block to preserve spacing and structure
func FormatASCIIHeader() string {
	headerStyle := lipgloss.NewStyle().
		Foreground(TideTeal).
		Bold(true)

	return headerStyle.Render(jellymatchASCII)
}

// FormatASCIIHeaderWithSubtext renders header with subtitle
func FormatASCIIHeaderWithSubtext(subtext string) string {
	header := FormatASCIIHeader()

	subtitle := lipgloss.NewStyle().
		Foreground(TideMuted).
		Render(subtext)

	return header + "\n\n" + subtitle
}
