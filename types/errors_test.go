package types

import (
	"errors"
	"fmt"
	"testing"
)

func TestAnalysisErrorUnwrap(t *testing.T) {
	cause := errors.New("status 404")
	err := fmt.Errorf("run: %w", NewExtractionError(cause))

	if !errors.Is(err, cause) {
		t.Fatalf("expected errors.Is to find the cause")
	}
	if got := KindOf(err); got != KindExtraction {
		t.Fatalf("expected kind %q, got %q", KindExtraction, got)
	}
}

func TestModelErrorSurfacesProviderMessage(t *testing.T) {
	err := NewModelError(errors.New("CUDA out of memory"))
	want := "internal model error: CUDA out of memory"
	if err.Error() != want {
		t.Fatalf("expected %q, got %q", want, err.Error())
	}
	if err.IsClientError() {
		t.Fatalf("model errors are server errors")
	}
}

func TestKindOfUnknownError(t *testing.T) {
	if got := KindOf(errors.New("boom")); got != KindModel {
		t.Fatalf("expected unknown errors to map to %q, got %q", KindModel, got)
	}
}

func TestParseSourceType(t *testing.T) {
	tests := []struct {
		in   string
		want SourceType
		ok   bool
	}{
		{"url", SourceURL, true},
		{"text", SourceText, true},
		{"", SourceText, true},
		{"feed", SourceFeed, true},
		{"pdf", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseSourceType(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseSourceType(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
