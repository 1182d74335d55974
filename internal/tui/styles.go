package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("#5b55b8")
	colorLow    = lipgloss.Color("#d9534f")
	colorOK     = lipgloss.Color("#2e9e6b")
	colorMuted  = lipgloss.Color("#8a8f98")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	headerStyle  = lipgloss.NewStyle().Bold(true).MarginTop(1)
	focusStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	lowBarStyle  = lipgloss.NewStyle().Foreground(colorLow)
	okBarStyle   = lipgloss.NewStyle().Foreground(colorOK)
	errorStyle   = lipgloss.NewStyle().Foreground(colorLow)
	adviceStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorLow).Padding(0, 1)
	statusStyle  = lipgloss.NewStyle().Foreground(colorOK)
	helpKeyStyle = lipgloss.NewStyle().Foreground(colorAccent)
)
