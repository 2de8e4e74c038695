package tui

import "newsai/types"

// AnalysisDoneMsg carries the outcome of one analysis run
type AnalysisDoneMsg struct {
	Report types.AnalysisReport
	Err    error
}
