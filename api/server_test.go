package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"newsai/pipeline"
	"newsai/types"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeAnalyzer struct {
	report  types.AnalysisReport
	err     error
	lastReq types.AnalysisRequest
	calls   int
}

func (f *fakeAnalyzer) Analyze(_ context.Context, req types.AnalysisRequest) (types.AnalysisReport, error) {
	f.calls++
	f.lastReq = req
	return f.report, f.err
}

func newTestRouter(a Analyzer) *gin.Engine {
	return NewRouter(RouterConfig{Analyzer: a, Provider: "fake", Logger: zerolog.Nop()})
}

func postAnalyze(t *testing.T, r http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return out
}

func TestAnalyzeSuccess(t *testing.T) {
	a := &fakeAnalyzer{report: types.AnalysisReport{
		Success:        true,
		OriginalLength: 2900,
		Summary:        "Resumen del artículo.",
		Sentiment:      "NEU",
		Confidence:     0.74,
		Source:         types.SourceText,
	}}
	w := postAnalyze(t, newTestRouter(a), `{"type":"text","content":"Texto del artículo"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["success"] != true || body["original_length"].(float64) != 2900 {
		t.Fatalf("unexpected body %v", body)
	}
	if body["summary"] != "Resumen del artículo." || body["sentiment"] != "NEU" || body["confidence"].(float64) != 0.74 {
		t.Fatalf("unexpected body %v", body)
	}
	if body["request_id"] == "" || w.Header().Get(RequestIDHeader) == "" {
		t.Fatalf("expected a request id")
	}
	if a.lastReq.Type != "text" || a.lastReq.Content != "Texto del artículo" {
		t.Fatalf("unexpected request %+v", a.lastReq)
	}
}

func TestAnalyzeErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"missing", types.NewMissingContentError(nil), http.StatusBadRequest, types.MsgMissingContent},
		{"extraction", types.NewExtractionError(errors.New("404")), http.StatusBadRequest, types.MsgExtraction},
		{"invalid", types.NewInvalidRequestError("unsupported source type \"pdf\""), http.StatusBadRequest, "unsupported source type \"pdf\""},
		{"model", types.NewModelError(errors.New("CUDA out of memory")), http.StatusInternalServerError, "internal model error: CUDA out of memory"},
		{"untyped", errors.New("boom"), http.StatusInternalServerError, "internal model error: boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postAnalyze(t, newTestRouter(&fakeAnalyzer{err: tt.err}), `{"type":"url","content":"https://example.com"}`)
			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, w.Code)
			}
			if got := decodeBody(t, w)["error"]; got != tt.msg {
				t.Fatalf("expected error %q, got %q", tt.msg, got)
			}
		})
	}
}

func TestAnalyzeMalformedBody(t *testing.T) {
	a := &fakeAnalyzer{}
	w := postAnalyze(t, newTestRouter(a), `{"type":`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if !strings.HasPrefix(decodeBody(t, w)["error"].(string), "invalid JSON body") {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
	if a.calls != 0 {
		t.Fatalf("analyzer must not be called for a malformed body")
	}
}

func TestRequestIDIsPropagated(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{"type":"text","content":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()

	newTestRouter(&fakeAnalyzer{report: types.AnalysisReport{Success: true}}).ServeHTTP(w, req)

	if w.Header().Get(RequestIDHeader) != "req-123" {
		t.Fatalf("expected echoed request id, got %q", w.Header().Get(RequestIDHeader))
	}
	if decodeBody(t, w)["request_id"] != "req-123" {
		t.Fatalf("expected request id in body")
	}
}

func TestHealth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	newTestRouter(&fakeAnalyzer{}).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decodeBody(t, w)
	if body["status"] != "ok" || body["provider"] != "fake" {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/analyze", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()

	r := NewRouter(RouterConfig{Analyzer: &fakeAnalyzer{}, CORSOrigins: []string{"http://localhost:3000"}, Logger: zerolog.Nop()})
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("expected allowed origin header, got %q", got)
	}
}

type echoProvider struct{ calls int }

func (e *echoProvider) Summarize(_ context.Context, text string, _ types.SummaryBounds) (string, error) {
	e.calls++
	return text, nil
}

func (e *echoProvider) Classify(context.Context, string) (types.SentimentResult, error) {
	e.calls++
	return types.SentimentResult{Label: types.LabelNeutral, Score: 0.5}, nil
}

func TestAnalyzeRejectsUnknownSourceType(t *testing.T) {
	provider := &echoProvider{}
	p, err := pipeline.New(pipeline.Deps{Summarizer: provider, Classifier: provider, Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("pipeline.New: %v", err)
	}
	r := newTestRouter(p)

	w := postAnalyze(t, r, `{"type":"pdf","content":"A long article body that would otherwise be summarized."}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if kind := decodeBody(t, w)["kind"]; kind != string(types.KindInvalidRequest) {
		t.Fatalf("expected invalid_request, got %v", kind)
	}
	if provider.calls != 0 {
		t.Fatalf("unknown types must not reach the providers, got %d calls", provider.calls)
	}

	w = postAnalyze(t, r, `{"content":"A long article body that would otherwise be summarized."}`)
	if w.Code != http.StatusOK {
		t.Fatalf("an empty type should be analyzed as text, got %d: %s", w.Code, w.Body.String())
	}
}
