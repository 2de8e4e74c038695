package inference

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"newsai/types"
)

var (
	// ErrEmptySummary is returned when a provider produces no summary text
	ErrEmptySummary = errors.New("summarizer returned an empty summary")

	// ErrInvalidSentiment is returned when a classifier result is outside the closed label set or score range
	ErrInvalidSentiment = errors.New("classifier returned an invalid sentiment")
)

// Summarizer produces an abstractive summary of text within the given bounds
type Summarizer interface {
	Summarize(ctx context.Context, text string, bounds types.SummaryBounds) (string, error)
}

// SentimentClassifier assigns one label from a closed set plus a confidence
type SentimentClassifier interface {
	Classify(ctx context.Context, text string) (types.SentimentResult, error)
}

// Provider is a backend offering both capabilities
type Provider interface {
	Summarizer
	SentimentClassifier
	Name() string
}

var labelAliases = map[string]string{
	"POS":      types.LabelPositive,
	"POSITIVE": types.LabelPositive,
	"NEG":      types.LabelNegative,
	"NEGATIVE": types.LabelNegative,
	"NEU":      types.LabelNeutral,
	"NEUTRAL":  types.LabelNeutral,
}

// ValidateSentiment canonicalizes the label and checks the score range
func ValidateSentiment(r types.SentimentResult) (types.SentimentResult, error) {
	label, ok := labelAliases[strings.ToUpper(strings.TrimSpace(r.Label))]
	if !ok {
		return types.SentimentResult{}, fmt.Errorf("%w: unknown label %q", ErrInvalidSentiment, r.Label)
	}
	if math.IsNaN(r.Score) || r.Score < 0 || r.Score > 1 {
		return types.SentimentResult{}, fmt.Errorf("%w: score %v outside [0,1]", ErrInvalidSentiment, r.Score)
	}
	return types.SentimentResult{Label: label, Score: r.Score}, nil
}

// LabelName is the display form of a canonical label
func LabelName(label string) string {
	switch label {
	case types.LabelPositive:
		return "Positive"
	case types.LabelNegative:
		return "Negative"
	default:
		return "Neutral"
	}
}
