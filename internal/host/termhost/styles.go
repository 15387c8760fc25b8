package termhost

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	ColorPrimary   = lipgloss.Color("#FF6B6B") // Red - title
	ColorSecondary = lipgloss.Color("#4ecdc4") // Teal - active state
	ColorAccent    = lipgloss.Color("#ffe66d") // Yellow - last word
	ColorMuted     = lipgloss.Color("#666666") // Gray - help text
	ColorText      = lipgloss.Color("#f1faee") // Light text
	ColorBg        = lipgloss.Color("#1a1a2e") // Dark background
	ColorBgAlt     = lipgloss.Color("#2d3436") // Alt background
	ColorSelection = lipgloss.Color("#3d5a80") // Selected text background
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Background(ColorBg).
			Padding(0, 1)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	TextStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	SelectionStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			Background(ColorSelection)

	StatusBarStyle = lipgloss.NewStyle().
			Background(ColorBgAlt).
			Foreground(ColorMuted).
			Padding(0, 1)

	StatusActiveStyle = lipgloss.NewStyle().
				Bold(true).
				Background(ColorBgAlt).
				Foreground(ColorSecondary)

	StatusWordStyle = lipgloss.NewStyle().
			Background(ColorBgAlt).
			Foreground(ColorAccent)
)
