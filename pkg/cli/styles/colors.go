package styles

import "github.com/charmbracelet/lipgloss"

var PrimaryBackgroundColor = lipgloss.AdaptiveColor{Light: "#0369A1", Dark: "#7DD3FC"}
var PrimaryForegroundColor = lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#000000"}
var BorderColor = lipgloss.AdaptiveColor{Light: "#D4D4D4", Dark: "#404040"}
var MutedTextColor = lipgloss.AdaptiveColor{Light: "#737373", Dark: "#A3A3A3"}
var DangerColor = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#EF4444"}

var TitleStyle = lipgloss.NewStyle().Bold(true).Margin(0, 0, 1)

var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(PrimaryBackgroundColor).
	Padding(0, 1)

var CellStyle = lipgloss.NewStyle().Padding(0, 1)

var KeyStyle = lipgloss.NewStyle().Foreground(MutedTextColor).Width(12)

var AlertDangerStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(DangerColor)
