package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"newsai/client"
	"newsai/config"
	"newsai/fetcher"
	"newsai/logging"
	"newsai/pipeline"
	"newsai/types"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
)

// Exit codes
const (
	exitOK        = 0
	exitModel     = 1
	exitUserError = 2
)

const wrapWidth = 80

type analyzer interface {
	Analyze(ctx context.Context, req types.AnalysisRequest) (types.AnalysisReport, error)
}

// analyzerFactory returns a remote client when remote is set, otherwise an in-process pipeline
type analyzerFactory func(ctx context.Context, remote string) (analyzer, error)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr, buildAnalyzer)
	stop()
	os.Exit(code)
}

func buildAnalyzer(ctx context.Context, remote string) (analyzer, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.Log.Level, true)

	if remote != "" {
		return client.New(remote, 2*cfg.Inference.Timeout+cfg.Fetch.Timeout), nil
	}
	p, _, err := pipeline.Build(ctx, cfg, logging.Component("pipeline"))
	if err != nil {
		return nil, err
	}
	return p, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, build analyzerFactory) int {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(stderr)
	urlFlag := fs.String("url", "", "Article URL (http, https or s3)")
	textFlag := fs.String("text", "", "Article text")
	fileFlag := fs.String("file", "", "Read article text from a file, - for stdin")
	feedFlag := fs.String("feed", "", "Feed URL or preset ("+strings.Join(fetcher.PresetNames(), ", ")+")")
	remote := fs.String("remote", "", "Analysis API URL; empty runs in-process")
	asJSON := fs.Bool("json", false, "Print the report as JSON")
	if err := fs.Parse(args); err != nil {
		return exitUserError
	}

	req, err := buildRequest(*urlFlag, *textFlag, *fileFlag, *feedFlag)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		fs.Usage()
		return exitUserError
	}

	a, err := build(ctx, *remote)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitModel
	}

	start := time.Now()
	report, err := a.Analyze(ctx, req)
	if err != nil {
		return reportError(stderr, err)
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return exitModel
		}
		return exitOK
	}

	printReport(stdout, report, time.Since(start))
	return exitOK
}

// buildRequest accepts exactly one input source
func buildRequest(url, text, file, feed string) (types.AnalysisRequest, error) {
	var reqs []types.AnalysisRequest
	if url != "" {
		reqs = append(reqs, types.AnalysisRequest{Type: string(types.SourceURL), Content: url})
	}
	if text != "" {
		reqs = append(reqs, types.AnalysisRequest{Type: string(types.SourceText), Content: text})
	}
	if feed != "" {
		reqs = append(reqs, types.AnalysisRequest{Type: string(types.SourceFeed), Content: feed})
	}
	if file != "" {
		b, err := readInput(file)
		if err != nil {
			return types.AnalysisRequest{}, err
		}
		reqs = append(reqs, types.AnalysisRequest{Type: string(types.SourceText), Content: string(b)})
	}

	switch len(reqs) {
	case 0:
		return types.AnalysisRequest{}, errors.New("one of -url, -text, -file or -feed is required")
	case 1:
		return reqs[0], nil
	default:
		return types.AnalysisRequest{}, errors.New("-url, -text, -file and -feed are mutually exclusive")
	}
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return b, nil
}

func reportError(w io.Writer, err error) int {
	var ae *types.AnalysisError
	if errors.As(err, &ae) {
		fmt.Fprintf(w, "error: %s\n", ae.Message)
		if ae.IsClientError() {
			return exitUserError
		}
		return exitModel
	}
	fmt.Fprintf(w, "error: %v\n", err)
	return exitModel
}

func printReport(w io.Writer, r types.AnalysisReport, took time.Duration) {
	wrap := lipgloss.NewStyle().Width(wrapWidth)

	if r.Article != nil && r.Article.Title != "" {
		fmt.Fprintln(w, wrap.Render(r.Article.Title))
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, "summary:")
	fmt.Fprintln(w, wrap.Render(r.Summary))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "sentiment: %s (confidence: %.4f)\n", r.Sentiment, r.Confidence)
	fmt.Fprintf(w, "original length: %d characters, %s\n", r.OriginalLength, took.Round(time.Millisecond))
}
