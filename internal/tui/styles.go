package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	colorPrimary   = lipgloss.AdaptiveColor{Light: "#4B3FD9", Dark: "#7AA2F7"}
	colorMuted     = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#666666"}
	colorSuccess   = lipgloss.AdaptiveColor{Light: "#1E8449", Dark: "#2ECC71"}
	colorWarning   = lipgloss.AdaptiveColor{Light: "#B9770E", Dark: "#F39C12"}
	colorError     = lipgloss.AdaptiveColor{Light: "#B03A2E", Dark: "#E74C3C"}
	colorFg        = lipgloss.AdaptiveColor{Light: "#1A1B26", Dark: "#C0CAF5"}
	colorSubtle    = lipgloss.AdaptiveColor{Light: "#D0D0D0", Dark: "#414868"}
	colorHighlight = lipgloss.AdaptiveColor{Light: "#0E6655", Dark: "#2EC4B6"}
)

// Styles
var (
	// Tabs
	activeTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(colorPrimary).
			Padding(0, 2)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorMuted).
				Padding(0, 2)

	// Panels
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(0, 1)

	activePanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorPrimary).
				Padding(0, 1)

	// Text
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorFg)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	highlightStyle = lipgloss.NewStyle().
			Foreground(colorHighlight)

	// Header/footer
	headerStyle = lipgloss.NewStyle().
			Padding(0, 1)

	footerStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	// List items
	selectedItemStyle = lipgloss.NewStyle().
				Foreground(colorPrimary).
				Bold(true)

	normalItemStyle = lipgloss.NewStyle().
			Foreground(colorFg)

	headerCellStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Bold(true)

	sortedCellStyle = lipgloss.NewStyle().
			Foreground(colorHighlight).
			Bold(true)
)
