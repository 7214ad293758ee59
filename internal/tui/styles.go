package tui

import "github.com/charmbracelet/lipgloss"

// Styles
var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#7C3AED")
	borderCol = lipgloss.Color("#243141")
	hoverFg   = lipgloss.Color("#FFA500")

	appStyle   = lipgloss.NewStyle().Foreground(baseFg)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(baseDimFg)
	labelStyle = lipgloss.NewStyle().Foreground(accentFg)
	barStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
)

// one foreground style per hex color
var colorStyles = map[string]lipgloss.Style{}

func colorStyle(hex string) lipgloss.Style {
	if s, ok := colorStyles[hex]; ok {
		return s
	}
	s := lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
	colorStyles[hex] = s
	return s
}
