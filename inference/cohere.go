package inference

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"newsai/config"
	"newsai/types"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
)

// CohereChatFunc sends one chat request
type CohereChatFunc func(ctx context.Context, req *cohere.ChatRequest) (*cohere.NonStreamedChatResponse, error)

// Cohere runs both tasks through the Cohere chat endpoint
type Cohere struct {
	chat  CohereChatFunc
	model string
}

var _ Provider = (*Cohere)(nil)

// NewCohere creates a backend from config
func NewCohere(cfg config.CohereConfig, httpClient *http.Client) (*Cohere, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("cohere: %w: set COHERE_API_KEY", errNotConfigured)
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	client := cohereclient.NewClient(
		cohereclient.WithToken(cfg.APIKey),
		cohereclient.WithHTTPClient(httpClient),
	)
	chat := func(ctx context.Context, req *cohere.ChatRequest) (*cohere.NonStreamedChatResponse, error) {
		return client.Chat(ctx, req)
	}
	return NewCohereWithChat(chat, cfg.Model), nil
}

// NewCohereWithChat wraps an existing chat function
func NewCohereWithChat(chat CohereChatFunc, model string) *Cohere {
	if model == "" {
		model = config.DefaultCohereModel
	}
	return &Cohere{chat: chat, model: model}
}

func (c *Cohere) Name() string { return config.ProviderCohere }

func (c *Cohere) Summarize(ctx context.Context, text string, bounds types.SummaryBounds) (string, error) {
	maxTokens := maxTokensFor(bounds)
	reply, err := c.send(ctx, summarySystemPrompt, summaryPrompt(text, bounds), &maxTokens)
	if err != nil {
		return "", fmt.Errorf("cohere summarize: %w", err)
	}
	return reply, nil
}

func (c *Cohere) Classify(ctx context.Context, text string) (types.SentimentResult, error) {
	reply, err := c.send(ctx, sentimentSystemPrompt, sentimentPrompt(text), nil)
	if err != nil {
		return types.SentimentResult{}, fmt.Errorf("cohere classify: %w", err)
	}
	return parseSentimentReply(reply)
}

func (c *Cohere) send(ctx context.Context, preamble, message string, maxTokens *int) (string, error) {
	temperature := 0.0
	model := c.model

	resp, err := c.chat(ctx, &cohere.ChatRequest{
		Message:     message,
		Model:       &model,
		Preamble:    &preamble,
		Temperature: &temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", errors.New("empty response")
	}
	return resp.Text, nil
}
