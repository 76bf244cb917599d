package tui

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Title  lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
	Help   lipgloss.Style
}

func DefaultTheme() Theme {
	return Theme{
		Title:  lipgloss.NewStyle().Bold(true),
		Status: lipgloss.NewStyle().Foreground(lipgloss.Color("36")),
		Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("160")),
		Help:   lipgloss.NewStyle().Faint(true),
	}
}
