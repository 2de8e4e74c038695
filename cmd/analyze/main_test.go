package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"newsai/types"
)

type fakeAnalyzer struct {
	report types.AnalysisReport
	err    error
	got    types.AnalysisRequest
}

func (f *fakeAnalyzer) Analyze(_ context.Context, req types.AnalysisRequest) (types.AnalysisReport, error) {
	f.got = req
	return f.report, f.err
}

func factoryFor(a analyzer) analyzerFactory {
	return func(context.Context, string) (analyzer, error) { return a, nil }
}

func TestRunPrintsSummaryAndSentiment(t *testing.T) {
	fa := &fakeAnalyzer{report: types.AnalysisReport{
		Success:        true,
		OriginalLength: 1200,
		Summary:        "Researchers found a link between heart disease and melatonin production.",
		Sentiment:      "NEU",
		Confidence:     0.73125,
	}}
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"-text", "some article"}, &stdout, &stderr, factoryFor(fa))
	if code != exitOK {
		t.Fatalf("exit %d, stderr: %s", code, stderr.String())
	}
	if fa.got.Type != "text" || fa.got.Content != "some article" {
		t.Fatalf("unexpected request %+v", fa.got)
	}

	out := stdout.String()
	if !strings.Contains(out, "sentiment: NEU (confidence: 0.7313)") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "melatonin") {
		t.Fatalf("summary missing:\n%s", out)
	}
}

func TestRunReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "article.txt")
	if err := os.WriteFile(path, []byte("file body"), 0o644); err != nil {
		t.Fatal(err)
	}
	fa := &fakeAnalyzer{report: types.AnalysisReport{Success: true}}

	code := run(context.Background(), []string{"-file", path, "-json"}, &bytes.Buffer{}, &bytes.Buffer{}, factoryFor(fa))
	if code != exitOK || fa.got.Content != "file body" {
		t.Fatalf("exit %d, request %+v", code, fa.got)
	}
}

func TestRunUserErrors(t *testing.T) {
	fa := &fakeAnalyzer{}
	cases := [][]string{
		{},
		{"-url", "https://a", "-text", "b"},
		{"-file", filepath.Join(t.TempDir(), "missing.txt")},
		{"-no-such-flag"},
	}
	for _, args := range cases {
		if code := run(context.Background(), args, &bytes.Buffer{}, &bytes.Buffer{}, factoryFor(fa)); code != exitUserError {
			t.Errorf("args %v: exit %d, want %d", args, code, exitUserError)
		}
	}
}

func TestRunExitCodesFollowErrorKind(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{types.NewExtractionError(errors.New("404")), exitUserError},
		{types.NewMissingContentError(nil), exitUserError},
		{types.NewModelError(errors.New("timeout")), exitModel},
		{errors.New("connection refused"), exitModel},
	}
	for _, tc := range cases {
		var stderr bytes.Buffer
		code := run(context.Background(), []string{"-url", "https://example.com"}, &bytes.Buffer{}, &stderr, factoryFor(&fakeAnalyzer{err: tc.err}))
		if code != tc.want {
			t.Errorf("%v: exit %d, want %d", tc.err, code, tc.want)
		}
		if !strings.HasPrefix(stderr.String(), "error: ") {
			t.Errorf("%v: stderr %q", tc.err, stderr.String())
		}
	}
}
