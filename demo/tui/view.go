package tui

import (
	"errors"
	"fmt"
	"strings"

	"newsai/inference"
	"newsai/types"
)

// View implements tea.Model interface
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render(TextTitle))
	b.WriteString("\n")
	if m.backend != "" {
		b.WriteString(InfoStyle.Render("backend: " + m.backend))
		b.WriteString("\n\n")
	}

	b.WriteString(m.tabs())
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch m.State {
	case StateRunning:
		b.WriteString(m.spinner.View() + " " + InfoStyle.Render(TextRunning))
		b.WriteString("\n\n")
	case StateDone:
		if m.Report != nil {
			b.WriteString(BoxStyle.Width(m.width).Render(formatReport(*m.Report)))
			b.WriteString("\n\n")
		}
	case StateError:
		b.WriteString(ErrorBoxStyle.Width(m.width).Render(ErrorStyle.Render(errorText(m.Err))))
		b.WriteString("\n\n")
	}

	if m.State == StateRunning {
		b.WriteString(InfoStyle.Render(TextFooterRunning))
	} else {
		b.WriteString(InfoStyle.Render(TextFooterIdle))
	}
	return b.String()
}

func (m Model) tabs() string {
	render := func(t types.SourceType, label string) string {
		if m.Tab == t {
			return ActiveTabStyle.Render(label)
		}
		return InactiveTabStyle.Render(label)
	}
	return render(types.SourceURL, "URL") + " " + render(types.SourceText, "Text")
}

// formatReport renders a successful report for the result box
func formatReport(r types.AnalysisReport) string {
	var b strings.Builder

	if r.Article != nil && r.Article.Title != "" {
		b.WriteString(TitleStyle.UnsetMargins().Render(r.Article.Title))
		b.WriteString("\n")
		if r.Article.SiteName != "" {
			b.WriteString(InfoStyle.Render(r.Article.SiteName))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("Summary\n")
	b.WriteString(r.Summary)
	b.WriteString("\n\n")

	b.WriteString("Sentiment: ")
	b.WriteString(SentimentStyle(r.Sentiment).Render(inference.LabelName(r.Sentiment)))
	b.WriteString(fmt.Sprintf(" (confidence: %.2f)\n", r.Confidence))
	b.WriteString(InfoStyle.Render(fmt.Sprintf("Original length: %d characters", r.OriginalLength)))

	return b.String()
}

// errorText prefers the user-facing message of an AnalysisError
func errorText(err error) string {
	if err == nil {
		return "unknown error"
	}
	var ae *types.AnalysisError
	if errors.As(err, &ae) {
		return ae.Message
	}
	return err.Error()
}
