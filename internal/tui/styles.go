package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/hogar/internal/models"
	"github.com/julianstephens/hogar/internal/session"
)

var (
	activeTabStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(lipgloss.Color("236")).
			Padding(0, 1).
			Bold(true)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("240")).
				Padding(0, 1)

	dangerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	headingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("99")).
			Bold(true).
			MarginTop(1)

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	doneStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Strikethrough(true)

	docStyle = lipgloss.NewStyle().Padding(1, 2)
)

func urgencyStyle(u models.Urgency) lipgloss.Style {
	switch u {
	case models.UrgencyOverdue:
		return dangerStyle
	case models.UrgencyDueSoon:
		return warningStyle
	case models.UrgencyPaid:
		return successStyle
	}
	return lipgloss.NewStyle()
}

func statusStyle(l session.Level) lipgloss.Style {
	switch l {
	case session.LevelError:
		return dangerStyle
	case session.LevelSuccess:
		return successStyle
	}
	return mutedStyle
}
