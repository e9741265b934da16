package ui

import "github.com/charmbracelet/lipgloss"

var (
	headerColor  = lipgloss.AdaptiveColor{Light: "#1F4E79", Dark: "#7FB4E6"}
	mutedColor   = lipgloss.AdaptiveColor{Light: "#6C6C6C", Dark: "#8A8A8A"}
	successColor = lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#81C784"}
	warningColor = lipgloss.AdaptiveColor{Light: "#B26A00", Dark: "#FFB74D"}
	errorColor   = lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#EF5350"}
)

// Semantic styles for terminal output
var (
	HeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(headerColor)
	KeyStyle     = lipgloss.NewStyle().Bold(true)
	MutedStyle   = lipgloss.NewStyle().Foreground(mutedColor)
	SuccessStyle = lipgloss.NewStyle().Foreground(successColor)
	WarningStyle = lipgloss.NewStyle().Foreground(warningColor)
	ErrorStyle   = lipgloss.NewStyle().Bold(true).Foreground(errorColor)
)

// Style renders s with style when format is FormatTerminal and returns
// it unchanged otherwise.
func Style(format Format, style lipgloss.Style, s string) string {
	if format != FormatTerminal {
		return s
	}
	return style.Render(s)
}
