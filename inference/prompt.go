package inference

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"newsai/types"
)

const summarySystemPrompt = "You summarize news articles. Reply with the summary only, " +
	"written in the same language as the article, with no preamble or markdown."

const sentimentSystemPrompt = "You classify the sentiment of short news summaries. " +
	`Reply with a JSON object {"label": "POS"|"NEG"|"NEU", "score": <confidence between 0 and 1>} and nothing else.`

// summaryPrompt approximates token bounds as word counts for chat models
func summaryPrompt(text string, bounds types.SummaryBounds) string {
	return fmt.Sprintf(
		"Summarize the following article in %d to %d words.\n\nArticle:\n%s",
		wordsFor(bounds.MinLength), wordsFor(bounds.MaxLength), text,
	)
}

func sentimentPrompt(summary string) string {
	return "Summary:\n" + summary
}

// wordsFor converts a model token count to a rough word count
func wordsFor(tokens int) int {
	if tokens <= 0 {
		return 0
	}
	w := tokens * 3 / 4
	if w < 1 {
		w = 1
	}
	return w
}

// maxTokensFor leaves headroom above the summary bound for chat model tokenizers
func maxTokensFor(bounds types.SummaryBounds) int {
	if bounds.MaxLength <= 0 {
		return 256
	}
	return bounds.MaxLength * 2
}

// parseSentimentReply reads the first JSON object in a chat reply
func parseSentimentReply(reply string) (types.SentimentResult, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return types.SentimentResult{}, fmt.Errorf("%w: no JSON object in reply %q", ErrInvalidSentiment, truncateForError(reply))
	}

	var out struct {
		Label      string   `json:"label"`
		Score      *float64 `json:"score"`
		Confidence *float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(reply[start:end+1]), &out); err != nil {
		return types.SentimentResult{}, fmt.Errorf("%w: %v", ErrInvalidSentiment, err)
	}

	score := out.Score
	if score == nil {
		score = out.Confidence
	}
	if score == nil {
		return types.SentimentResult{}, errors.Join(ErrInvalidSentiment, errors.New("reply has no score"))
	}
	return types.SentimentResult{Label: out.Label, Score: *score}, nil
}

func truncateForError(s string) string {
	const max = 120
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max]) + "..."
}
