package pipeline

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"newsai/config"
	"newsai/fetcher"
	"newsai/types"

	"github.com/rs/zerolog"
)

func TestBuildDefaultConfig(t *testing.T) {
	t.Setenv("AWS_REGION", "us-east-1")

	p, provider, err := Build(context.Background(), config.Default(), zerolog.Nop())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if p == nil {
		t.Fatalf("expected a pipeline")
	}
	if provider.Name() != config.ProviderHuggingFace {
		t.Fatalf("expected huggingface provider, got %s", provider.Name())
	}
}

func TestBuildUnknownProvider(t *testing.T) {
	cfg := config.Default()
	cfg.Inference.Provider = "carrier-pigeon"

	if _, _, err := Build(context.Background(), cfg, zerolog.Nop()); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}

func TestBuildTextRequestRejectsEmpty(t *testing.T) {
	t.Setenv("AWS_REGION", "us-east-1")

	p, _, err := Build(context.Background(), config.Default(), zerolog.Nop())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if _, err := p.Analyze(context.Background(), types.AnalysisRequest{Type: "text", Content: "   "}); err == nil {
		t.Fatalf("expected missing content error")
	}
}

func TestBuildLeavesS3DisabledByDefault(t *testing.T) {
	var logs bytes.Buffer
	logger := zerolog.New(&logs)

	p, _, err := Build(context.Background(), config.Default(), logger)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !strings.Contains(logs.String(), "s3 source disabled") {
		t.Fatalf("expected s3 disabled log line, got %s", logs.String())
	}

	_, err = p.Analyze(context.Background(), types.AnalysisRequest{Type: "url", Content: "s3://private-bucket/payroll.html"})
	if types.KindOf(err) != types.KindExtraction {
		t.Fatalf("expected extraction error, got %v", err)
	}
	if !errors.Is(err, fetcher.ErrUnsupportedScheme) {
		t.Fatalf("expected the s3 scheme to be refused, got %v", err)
	}
}
