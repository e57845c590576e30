package chat

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	header   lipgloss.Style
	stage    lipgloss.Style
	prompt   lipgloss.Style
	approved lipgloss.Style
	rejected lipgloss.Style
	detail   lipgloss.Style
	event    lipgloss.Style
	faint    lipgloss.Style
	section  lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true),
		header:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		stage:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		prompt:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		approved: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
		rejected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		detail:   lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		event:    lipgloss.NewStyle().Foreground(lipgloss.Color("159")),
		faint:    lipgloss.NewStyle().Faint(true),
		section:  lipgloss.NewStyle().MarginTop(1),
	}
}
