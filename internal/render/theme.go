package render

import "charm.land/lipgloss/v2"

// Color palette
var (
	Primary   = lipgloss.Color("#8B5CF6") // Vivid Purple
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F97316") // Orange
	Success   = lipgloss.Color("#22C55E") // Green
	TextDim   = lipgloss.Color("#94A3B8") // Slate
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary)

	kindStyle = lipgloss.NewStyle().
			Foreground(Secondary).
			Width(10)

	dimStyle = lipgloss.NewStyle().
			Foreground(TextDim)

	noticeStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	goodStyle = lipgloss.NewStyle().
			Foreground(Success).
			Bold(true)
)
