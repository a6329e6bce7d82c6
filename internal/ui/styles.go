package ui

import "github.com/charmbracelet/lipgloss"

var (
	IncompleteColor = lipgloss.Color("#FB923C") // Orange
	AllDoneColor    = lipgloss.Color("#10B981") // Green
	AccentColor     = lipgloss.Color("#A78BFA")
	MutedColor      = lipgloss.Color("#9CA3AF")
	ErrorColor      = lipgloss.Color("#F87171")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(AccentColor)
	headerStyle   = lipgloss.NewStyle().Foreground(MutedColor)
	cellStyle     = lipgloss.NewStyle().Width(cellWidth).Align(lipgloss.Center)
	selectedStyle = cellStyle.Bold(true).Reverse(true)
	weekendStyle  = cellStyle.Foreground(MutedColor)

	incompleteMarker = lipgloss.NewStyle().Foreground(IncompleteColor)
	allDoneMarker    = lipgloss.NewStyle().Foreground(AllDoneColor)

	doneTaskStyle = lipgloss.NewStyle().Foreground(MutedColor).Strikethrough(true)
	errorStyle    = lipgloss.NewStyle().Foreground(ErrorColor)
	helpStyle     = lipgloss.NewStyle().Foreground(MutedColor)
	panelStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(MutedColor).
			Padding(0, 1)
)
