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

// HuggingFace calls the hosted inference API with a seq2seq summarization
// model and a text-classification sentiment model.
type HuggingFace struct {
	baseURL        string
	token          string
	summaryModel   string
	sentimentModel string
	http           *http.Client
}

var _ Provider = (*HuggingFace)(nil)

// NewHuggingFace creates a client. A nil httpClient uses a client without its own timeout;
// deadlines come from the caller's context.
func NewHuggingFace(cfg config.HuggingFaceConfig, httpClient *http.Client) *HuggingFace {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = config.DefaultHFBaseURL
	}
	if cfg.SummaryModel == "" {
		cfg.SummaryModel = config.DefaultSummaryModel
	}
	if cfg.SentimentModel == "" {
		cfg.SentimentModel = config.DefaultSentimentModel
	}
	return &HuggingFace{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		token:          cfg.Token,
		summaryModel:   cfg.SummaryModel,
		sentimentModel: cfg.SentimentModel,
		http:           httpClient,
	}
}

func (h *HuggingFace) Name() string { return config.ProviderHuggingFace }

type hfOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

type hfSummaryParams struct {
	MaxLength int  `json:"max_length"`
	MinLength int  `json:"min_length"`
	DoSample  bool `json:"do_sample"`
}

type hfSummaryRequest struct {
	Inputs     string          `json:"inputs"`
	Parameters hfSummaryParams `json:"parameters"`
	Options    hfOptions       `json:"options"`
}

type hfSummaryResponse struct {
	SummaryText string `json:"summary_text"`
}

type hfClassifyRequest struct {
	Inputs  string    `json:"inputs"`
	Options hfOptions `json:"options"`
}

type hfLabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Summarize uses greedy decoding so identical input yields identical output
func (h *HuggingFace) Summarize(ctx context.Context, text string, bounds types.SummaryBounds) (string, error) {
	req := hfSummaryRequest{
		Inputs: text,
		Parameters: hfSummaryParams{
			MaxLength: bounds.MaxLength,
			MinLength: bounds.MinLength,
			DoSample:  false,
		},
		Options: hfOptions{WaitForModel: true},
	}

	var out []hfSummaryResponse
	if err := h.post(ctx, h.summaryModel, req, &out); err != nil {
		return "", err
	}
	if len(out) == 0 {
		return "", ErrEmptySummary
	}
	return out[0].SummaryText, nil
}

// Classify returns the highest scoring label
func (h *HuggingFace) Classify(ctx context.Context, text string) (types.SentimentResult, error) {
	req := hfClassifyRequest{Inputs: text, Options: hfOptions{WaitForModel: true}}

	var raw json.RawMessage
	if err := h.post(ctx, h.sentimentModel, req, &raw); err != nil {
		return types.SentimentResult{}, err
	}

	scores, err := decodeLabelScores(raw)
	if err != nil {
		return types.SentimentResult{}, err
	}
	if len(scores) == 0 {
		return types.SentimentResult{}, fmt.Errorf("%w: no labels returned", ErrInvalidSentiment)
	}

	best := scores[0]
	for _, s := range scores[1:] {
		if s.Score > best.Score {
			best = s
		}
	}
	return types.SentimentResult{Label: best.Label, Score: best.Score}, nil
}

// decodeLabelScores accepts both the nested [[...]] and flat [...] response shapes
func decodeLabelScores(raw json.RawMessage) ([]hfLabelScore, error) {
	var nested [][]hfLabelScore
	if err := json.Unmarshal(raw, &nested); err == nil {
		if len(nested) == 0 {
			return nil, nil
		}
		return nested[0], nil
	}

	var flat []hfLabelScore
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, fmt.Errorf("decode classification response: %w", err)
	}
	return flat, nil
}

func (h *HuggingFace) post(ctx context.Context, model string, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	url := h.baseURL + "/models/" + model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	resp, err := h.http.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", model, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read %s response: %w", model, err)
	}

	if resp.StatusCode >= 300 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("%s: %s", model, apiErr.Error)
		}
		return fmt.Errorf("%s: unexpected status %d", model, resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, v); err != nil {
		return fmt.Errorf("decode %s response: %w", model, err)
	}
	return nil
}
