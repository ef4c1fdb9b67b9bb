// Package tui implements the Bubble Tea TUI for taskboard.
package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#7aa2f7")
	colorMuted   = lipgloss.Color("#565f89")
	colorSurface = lipgloss.Color("#3b4261")
	colorSuccess = lipgloss.Color("#9ece6a")
	colorWarning = lipgloss.Color("#e0af68")
	colorError   = lipgloss.Color("#f7768e")

	tabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(colorMuted)

	activeTabStyle = lipgloss.NewStyle().
			Padding(0, 2).
			Bold(true).
			Foreground(colorPrimary).
			Underline(true)

	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface).
			Padding(0, 1)

	columnTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorPrimary)

	cardStyle = lipgloss.NewStyle().
			Padding(0, 1)

	selectedCardStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Bold(true).
				Foreground(colorPrimary).
				Background(colorSurface)

	groupHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorPrimary)

	subGroupHeaderStyle = lipgloss.NewStyle().
				Foreground(colorMuted)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	overdueStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	normalDueStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	workloadStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	workloadHotStyle = lipgloss.NewStyle().
				Foreground(colorError).
				Bold(true)

	overlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorPrimary).
			Padding(1, 2)
)
