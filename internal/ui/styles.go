// Package ui renders CLI output: notices, group listings and command tables.
package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Accent highlights paths and group names.
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color("#A78BFA"))

	// Muted is for secondary info such as ids and sort summaries.
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().Bold(true)
)

const (
	SymbolNotice = "!"
	SymbolOpen   = "→"
	SymbolRule   = "•"
)
