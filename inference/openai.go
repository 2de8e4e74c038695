package inference

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"

	"newsai/config"
	"newsai/types"

	openai "github.com/sashabaranov/go-openai"
)

// ChatCompleter is the part of the go-openai client this backend uses
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, request openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// OpenAI runs both tasks as chat completions against any OpenAI-compatible endpoint
type OpenAI struct {
	client ChatCompleter
	model  string
}

var _ Provider = (*OpenAI)(nil)

// NewOpenAI creates a backend from config
func NewOpenAI(cfg config.OpenAIConfig, httpClient *http.Client) (*OpenAI, error) {
	if cfg.APIKey == "" && cfg.BaseURL == "" {
		return nil, fmt.Errorf("openai: %w: set OPENAI_API_KEY or OPENAI_BASE_URL", errNotConfigured)
	}
	oc := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		oc.BaseURL = cfg.BaseURL
	}
	if httpClient != nil {
		oc.HTTPClient = httpClient
	}
	return NewOpenAIWithClient(openai.NewClientWithConfig(oc), cfg.Model), nil
}

// NewOpenAIWithClient wraps an existing chat client
func NewOpenAIWithClient(client ChatCompleter, model string) *OpenAI {
	if model == "" {
		model = config.DefaultOpenAIModel
	}
	return &OpenAI{client: client, model: model}
}

func (o *OpenAI) Name() string { return config.ProviderOpenAI }

func (o *OpenAI) Summarize(ctx context.Context, text string, bounds types.SummaryBounds) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: summarySystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: summaryPrompt(text, bounds)},
		},
		// zero is dropped by omitempty
		Temperature: math.SmallestNonzeroFloat32,
		MaxTokens:   maxTokensFor(bounds),
	})
	if err != nil {
		return "", fmt.Errorf("openai summarize: %w", err)
	}
	return firstChoice(resp)
}

func (o *OpenAI) Classify(ctx context.Context, text string) (types.SentimentResult, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: sentimentSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: sentimentPrompt(text)},
		},
		Temperature: math.SmallestNonzeroFloat32,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return types.SentimentResult{}, fmt.Errorf("openai classify: %w", err)
	}
	reply, err := firstChoice(resp)
	if err != nil {
		return types.SentimentResult{}, err
	}
	return parseSentimentReply(reply)
}

func firstChoice(resp openai.ChatCompletionResponse) (string, error) {
	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
