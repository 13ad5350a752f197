package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#4F46E5")
	colorSolved  = lipgloss.Color("#10B981")
	colorError   = lipgloss.Color("#DC2626")
	colorMuted   = lipgloss.Color("#6B7280")
	colorFg      = lipgloss.Color("#F9FAFB")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			MarginBottom(1)

	LabelStyle = lipgloss.NewStyle().
			Width(30)

	FocusedLabelStyle = LabelStyle.
				Foreground(colorPrimary).
				Bold(true)

	SolvedStyle = lipgloss.NewStyle().
			Foreground(colorSolved).
			Bold(true)

	WarningStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 2)

	StatusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#374151")).
			Foreground(colorFg).
			Padding(0, 1)

	HelpStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)
