package tui

import (
	"context"
	"time"

	"newsai/types"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// State represents the page state machine
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StateDone    State = "done"
	StateError   State = "error"
)

// Analyzer runs one analysis request. Satisfied by *pipeline.Pipeline and *client.Client.
type Analyzer interface {
	Analyze(ctx context.Context, req types.AnalysisRequest) (types.AnalysisReport, error)
}

// Model is the interactive analysis page
type Model struct {
	analyzer Analyzer
	timeout  time.Duration
	// backend is shown in the header, e.g. "local (huggingface)" or a server URL
	backend string

	Tab   types.SourceType
	State State

	input   textarea.Model
	spinner spinner.Model

	Report *types.AnalysisReport
	Err    error

	width int
}

// NewModel creates the page. A zero timeout leaves the request unbounded.
func NewModel(analyzer Analyzer, backend string, timeout time.Duration) Model {
	ta := textarea.New()
	ta.Placeholder = TextURLPlaceholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(defaultWidth)
	ta.SetHeight(urlInputHeight)
	ta.Focus()

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(colorPrimary))),
	)

	return Model{
		analyzer: analyzer,
		timeout:  timeout,
		backend:  backend,
		Tab:      types.SourceURL,
		State:    StateIdle,
		input:    ta,
		spinner:  sp,
		width:    defaultWidth,
	}
}

// Init implements tea.Model interface
func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

// Input returns the current textarea contents
func (m Model) Input() string {
	return m.input.Value()
}

// SetInput replaces the textarea contents
func (m *Model) SetInput(s string) {
	m.input.SetValue(s)
}

// switchTab flips between the url and text inputs and clears the previous input
func (m Model) switchTab() Model {
	if m.Tab == types.SourceURL {
		m.Tab = types.SourceText
		m.input.Placeholder = TextTextPlaceholder
		m.input.SetHeight(textInputHeight)
	} else {
		m.Tab = types.SourceURL
		m.input.Placeholder = TextURLPlaceholder
		m.input.SetHeight(urlInputHeight)
	}
	m.input.Reset()
	return m
}
