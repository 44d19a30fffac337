package tui

import "github.com/charmbracelet/lipgloss"

var (
	// 配色
	primaryColor = lipgloss.Color("62")
	accentColor  = lipgloss.Color("205")
	grayColor    = lipgloss.Color("240")

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(primaryColor).
			Padding(0, 1).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(grayColor)

	okStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5555")).
			Bold(true)

	reportStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(0, 1)
)
