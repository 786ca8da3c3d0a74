package console

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title   lipgloss.Style
	header  lipgloss.Style
	prompt  lipgloss.Style
	badge   lipgloss.Style
	errMark lipgloss.Style
	name    lipgloss.Style
	detail  lipgloss.Style
	section lipgloss.Style
	empty   lipgloss.Style
	key     lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true),
		header:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		prompt:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		badge:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		errMark: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		name:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		detail:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		section: lipgloss.NewStyle().MarginTop(1),
		empty:   lipgloss.NewStyle().Faint(true),
		key:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}
