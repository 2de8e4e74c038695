package tui

import (
	"newsai/types"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
const (
	colorPrimary   = "#7D56F4"
	colorSuccess   = "#04B575"
	colorError     = "#FF4F4F"
	colorInfo      = "#626262"
	colorHighlight = "#FAFAFA"
	colorBorder    = "#874BFD"
	colorNeutral   = "#E0B000"
)

// Layout
const (
	defaultWidth    = 80
	urlInputHeight  = 1
	textInputHeight = 10
)

// Styles for the page
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorPrimary)).
			MarginTop(1).
			MarginBottom(1)

	ActiveTabStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorHighlight)).
			Background(lipgloss.Color(colorPrimary)).
			Padding(0, 1)

	InactiveTabStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(colorInfo)).
				Padding(0, 1)

	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorInfo))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorError))

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorBorder)).
			Padding(1, 2)

	ErrorBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorError)).
			Padding(0, 2)
)

// SentimentStyle colours a sentiment label
func SentimentStyle(label string) lipgloss.Style {
	s := lipgloss.NewStyle().Bold(true)
	switch label {
	case types.LabelPositive:
		return s.Foreground(lipgloss.Color(colorSuccess))
	case types.LabelNegative:
		return s.Foreground(lipgloss.Color(colorError))
	default:
		return s.Foreground(lipgloss.Color(colorNeutral))
	}
}
