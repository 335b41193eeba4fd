package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// This file centralizes the lipgloss styles used across the report.

var (
	// Table header: bold green on black.
	TableHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("2")).
				Background(lipgloss.Color("0")).
				Bold(true)

	// Data rows alternate bright and dim white for readability.
	RowEvenStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7")).
			Bold(true)
	RowOddStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))

	// Summary line: bold red.
	SummaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("1")).
			Bold(true)

	WatchTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))
)

// ConfigureColor disables styling when asked to, or when stdout is not a
// color terminal. Colors are cosmetic; the plain table carries the same
// cells in the same positions.
func ConfigureColor(disable bool) {
	if disable || termenv.ColorProfile() == termenv.Ascii {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}
