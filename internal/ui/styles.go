package ui

import "github.com/charmbracelet/lipgloss"

// Icon constants
const (
	HostIcon    = "👑"
	PlayerIcon  = "🧑"
	TurnIcon    = "👉"
	OfflineIcon = "💤"
)

var (
	docStyle      = lipgloss.NewStyle().Margin(1, 2)
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("228")).Bold(true).Render
	boxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	promptStyle   = lipgloss.NewStyle().MarginTop(1)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	hintStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	playableStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	selfStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)
