package main

import "github.com/charmbracelet/lipgloss"

// Shared TUI styles.
var (
	styleTitle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	styleHelp     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleAlert    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	styleError    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleLabel    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleCursor   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	styleState    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	styleNoName   = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("8"))
	stylePre      = lipgloss.NewStyle().Foreground(lipgloss.Color("7")).Background(lipgloss.Color("0"))
	styleFieldKey = lipgloss.NewStyle().Bold(true)
)
