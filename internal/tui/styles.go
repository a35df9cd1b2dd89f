package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	selectedStyle = lipgloss.NewStyle().Reverse(true)
	riskStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	safeStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	boxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	pendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)

// riskLabelStyle picks a style for a risk column value.
func riskLabelStyle(label string) lipgloss.Style {
	switch label {
	case "At Risk":
		return riskStyle
	case "Not At Risk":
		return safeStyle
	default:
		return dimStyle
	}
}
