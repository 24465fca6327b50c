package ui

import "github.com/charmbracelet/lipgloss"

// Styles stick to the basic 16 ANSI colors so they follow the terminal theme.
var (
	// TitleStyle is cyan and bold, for headings.
	TitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true).MarginBottom(1)

	// UsageStyle is green, for command names and arguments.
	UsageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))

	// DescStyle is gray, for descriptions.
	DescStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	// FlagStyle is yellow, for flags and template names.
	FlagStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	// HintStyle is dim, for console hints and choice numbers.
	HintStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
)
