package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"newsai/config"
	"newsai/types"
)

// Ollama runs both tasks through a local Ollama server's /api/generate endpoint
type Ollama struct {
	host  string
	model string
	http  *http.Client
}

var _ Provider = (*Ollama)(nil)

// NewOllama creates a backend from config
func NewOllama(cfg config.OllamaConfig, httpClient *http.Client) *Ollama {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if cfg.Host == "" {
		cfg.Host = config.DefaultOllamaHost
	}
	if cfg.Model == "" {
		cfg.Model = config.DefaultOllamaModel
	}
	return &Ollama{
		host:  strings.TrimRight(cfg.Host, "/"),
		model: cfg.Model,
		http:  httpClient,
	}
}

func (o *Ollama) Name() string { return config.ProviderOllama }

type ollamaRequest struct {
	Model   string         `json:"model"`
	System  string         `json:"system,omitempty"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Format  string         `json:"format,omitempty"`
	Options map[string]any `json:"options,omitempty"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

func (o *Ollama) Summarize(ctx context.Context, text string, bounds types.SummaryBounds) (string, error) {
	reply, err := o.generate(ctx, ollamaRequest{
		System: summarySystemPrompt,
		Prompt: summaryPrompt(text, bounds),
		Options: map[string]any{
			"temperature": 0,
			"num_predict": maxTokensFor(bounds),
		},
	})
	if err != nil {
		return "", fmt.Errorf("ollama summarize: %w", err)
	}
	return reply, nil
}

func (o *Ollama) Classify(ctx context.Context, text string) (types.SentimentResult, error) {
	reply, err := o.generate(ctx, ollamaRequest{
		System:  sentimentSystemPrompt,
		Prompt:  sentimentPrompt(text),
		Format:  "json",
		Options: map[string]any{"temperature": 0},
	})
	if err != nil {
		return types.SentimentResult{}, fmt.Errorf("ollama classify: %w", err)
	}
	return parseSentimentReply(reply)
}

func (o *Ollama) generate(ctx context.Context, req ollamaRequest) (string, error) {
	req.Model = o.model
	req.Stream = false

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.host+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := o.http.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var out ollamaResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		if resp.StatusCode >= 300 {
			return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
		}
		return "", fmt.Errorf("decode response: %w", err)
	}
	if out.Error != "" {
		return "", fmt.Errorf("%s", out.Error)
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return out.Response, nil
}
