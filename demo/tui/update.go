package tui

import (
	"newsai/types"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Update implements tea.Model interface
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case tea.WindowSizeMsg:
		if w := min(msg.Width-4, defaultWidth); w > 0 {
			m.width = w
			m.input.SetWidth(w)
		}
		return m, nil
	case spinner.TickMsg:
		if m.State != StateRunning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case AnalysisDoneMsg:
		return m.handleAnalysisDone(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	}

	if m.State == StateRunning {
		return m, nil
	}

	switch msg.String() {
	case "tab":
		return m.switchTab(), nil
	case "ctrl+s":
		return m.submit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit starts an analysis of the current input. Empty input is sent as-is so
// the pipeline reports the missing content.
func (m Model) submit() (tea.Model, tea.Cmd) {
	req := types.AnalysisRequest{Type: string(m.Tab), Content: m.input.Value()}
	m.State = StateRunning
	m.Report = nil
	m.Err = nil
	m.input.Blur()
	return m, tea.Batch(m.spinner.Tick, runAnalysis(m.analyzer, req, m.timeout))
}

// handleAnalysisDone stores the outcome and hands focus back to the input
func (m Model) handleAnalysisDone(msg AnalysisDoneMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.State = StateError
		m.Err = msg.Err
	} else {
		m.State = StateDone
		report := msg.Report
		m.Report = &report
	}
	return m, m.input.Focus()
}
