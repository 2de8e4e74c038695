package tui

import (
	"context"
	"time"

	"newsai/types"

	tea "github.com/charmbracelet/bubbletea"
)

// runAnalysis creates a command that runs one request off the UI goroutine
func runAnalysis(analyzer Analyzer, req types.AnalysisRequest, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		report, err := analyzer.Analyze(ctx, req)
		return AnalysisDoneMsg{Report: report, Err: err}
	}
}
