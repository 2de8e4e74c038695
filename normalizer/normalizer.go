package normalizer

import (
	"errors"
	"strings"
	"unicode/utf8"

	"newsai/config"
	"newsai/types"
)

// ErrEmptyContent is returned for empty or whitespace-only input
var ErrEmptyContent = errors.New("content is empty")

// Normalizer validates text and cuts it to the summarizer's character budget
type Normalizer struct {
	maxChars int
}

// New creates a normalizer. A non-positive limit uses config.MaxInputChars.
func New(maxChars int) *Normalizer {
	if maxChars <= 0 {
		maxChars = config.MaxInputChars
	}
	return &Normalizer{maxChars: maxChars}
}

// Normalize returns the first maxChars characters of text. The cut is a hard
// prefix and may fall mid-sentence, but never inside a UTF-8 sequence.
func (n *Normalizer) Normalize(text string) (types.AnalysisInput, error) {
	if strings.TrimSpace(text) == "" {
		return types.AnalysisInput{}, ErrEmptyContent
	}

	length := utf8.RuneCountInString(text)
	if length <= n.maxChars {
		return types.AnalysisInput{Text: text, OriginalLength: length}, nil
	}

	return types.AnalysisInput{
		Text:           Truncate(text, n.maxChars),
		OriginalLength: length,
		Truncated:      true,
	}, nil
}

// Truncate returns the first max characters of s
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == max {
			return s[:i]
		}
		count++
	}
	return s
}
