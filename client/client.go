package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"newsai/types"
)

// Client calls a running analysis API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the API at baseURL. A zero timeout means no client-side limit.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type errorBody struct {
	Error string          `json:"error"`
	Kind  types.ErrorKind `json:"kind"`
}

// Analyze posts one request. Error responses come back as *types.AnalysisError.
func (c *Client) Analyze(ctx context.Context, req types.AnalysisRequest) (types.AnalysisReport, error) {
	var report types.AnalysisReport
	err := c.doJSONRequest(ctx, http.MethodPost, "/api/analyze", req, &report)
	return report, err
}

// Health returns the provider name reported by the server
func (c *Client) Health(ctx context.Context) (string, error) {
	var out struct {
		Status   string `json:"status"`
		Provider string `json:"provider"`
	}
	if err := c.doJSONRequest(ctx, http.MethodGet, "/api/health", nil, &out); err != nil {
		return "", err
	}
	if out.Status != "ok" {
		return "", fmt.Errorf("server reported status %q", out.Status)
	}
	return out.Provider, nil
}

// doJSONRequest performs a JSON request and decodes a 200 response into result.
// If result is nil, the response body is not decoded.
func (c *Client) doJSONRequest(ctx context.Context, method, path string, payload, result any) error {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return decodeError(resp.StatusCode, bodyBytes)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// decodeError rebuilds the server's error. The kind falls back to the status code class.
func decodeError(status int, raw []byte) error {
	var eb errorBody
	if err := json.Unmarshal(raw, &eb); err != nil || eb.Error == "" {
		return fmt.Errorf("API returned %d: %s", status, strings.TrimSpace(string(raw)))
	}

	kind := eb.Kind
	if kind == "" {
		kind = types.KindModel
		if status < 500 {
			kind = types.KindInvalidRequest
		}
	}
	return &types.AnalysisError{Kind: kind, Message: eb.Error}
}
