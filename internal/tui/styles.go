package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/johan-st/sqlite-viewer/internal/store"
)

// Colors - using a professional dark theme
var (
	primaryColor   = lipgloss.Color("#7C3AED") // Purple
	secondaryColor = lipgloss.Color("#10B981") // Green
	accentColor    = lipgloss.Color("#F59E0B") // Amber
	errorColor     = lipgloss.Color("#EF4444") // Red
	mutedColor     = lipgloss.Color("#6B7280") // Gray
	textColor      = lipgloss.Color("#F3F4F6") // Light gray
	bgColor        = lipgloss.Color("#1F2937") // Dark gray
)

// dbColors maps saved-database colors to ANSI terminal colors so the title
// bar matches what users picked.
var dbColors = map[store.Color]lipgloss.Color{
	store.Green:   lipgloss.Color("2"),
	store.Blue:    lipgloss.Color("4"),
	store.Red:     lipgloss.Color("1"),
	store.Yellow:  lipgloss.Color("3"),
	store.Cyan:    lipgloss.Color("6"),
	store.Magenta: lipgloss.Color("5"),
}

func dbColor(c store.Color) lipgloss.Color {
	return dbColors[c.OrDefault()]
}

// Bars
var (
	titleBarStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#000"))

	statusBarStyle = lipgloss.NewStyle().
			Background(bgColor).
			Foreground(textColor)

	statusKeyStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	statusValueStyle = lipgloss.NewStyle().
				Foreground(textColor)

	readOnlyBadge = lipgloss.NewStyle().
			Background(accentColor).
			Foreground(lipgloss.Color("#000")).
			Padding(0, 1)
)

// List item styles
var (
	selectedItemStyle = lipgloss.NewStyle().
				Foreground(primaryColor).
				Bold(true)

	normalItemStyle = lipgloss.NewStyle().
			Foreground(textColor)

	dimItemStyle = lipgloss.NewStyle().
			Foreground(mutedColor)
)

// Table styles
var (
	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(textColor)

	tableSelectedRowStyle = lipgloss.NewStyle().
				Background(lipgloss.Color("#374151")).
				Foreground(textColor)

	separatorStyle = lipgloss.NewStyle().
			Foreground(mutedColor)
)

// Form styles
var (
	promptStyle = lipgloss.NewStyle().
			Foreground(primaryColor).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)
)

// Error styles
var (
	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)
)

// Title style
var titleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(primaryColor).
	MarginBottom(1)
