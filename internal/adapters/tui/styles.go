package tui

import "github.com/charmbracelet/lipgloss"

// Palette and shared styles for the session view.
var (
	colorAccent    = lipgloss.Color("#7C6FE0")
	colorDone      = lipgloss.Color("#2ECC71")
	colorMuted     = lipgloss.Color("#6B7280")
	colorWarn      = lipgloss.Color("#E74C3C")
	colorHighlight = lipgloss.Color("#F5A623")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	focusStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	phaseStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorMuted)

	phaseDoneStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorDone)

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)

	activeCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1)

	doneMarkStyle = lipgloss.NewStyle().
			Foreground(colorDone)

	pendingStyle = lipgloss.NewStyle().
			Foreground(colorHighlight).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorWarn).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95A5A6"))

	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(1, 3)

	selectedItemStyle = lipgloss.NewStyle().
				Foreground(colorAccent).
				Bold(true)
)
