package types

// SourceType selects how AnalysisRequest.Content is interpreted
type SourceType string

const (
	SourceURL  SourceType = "url"
	SourceText SourceType = "text"
	// SourceFeed resolves a feed URL or preset name to its newest article, then behaves like SourceURL
	SourceFeed SourceType = "feed"
)

// ParseSourceType maps the wire value to a SourceType. An empty value means text.
func ParseSourceType(s string) (SourceType, bool) {
	switch SourceType(s) {
	case "", SourceText:
		return SourceText, true
	case SourceURL:
		return SourceURL, true
	case SourceFeed:
		return SourceFeed, true
	}
	return "", false
}

// AnalysisRequest is the inbound payload for one analysis run
type AnalysisRequest struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// AnalysisInput is the text handed to the summarizer
type AnalysisInput struct {
	Text string
	// OriginalLength is the character count before truncation
	OriginalLength int
	Truncated      bool
}

// SummaryBounds limits the length of a generated summary in model tokens
type SummaryBounds struct {
	MaxLength int `json:"max_length" yaml:"maxLength"`
	MinLength int `json:"min_length" yaml:"minLength"`
}

// Sentiment labels produced by the default classifier
const (
	LabelPositive = "POS"
	LabelNegative = "NEG"
	LabelNeutral  = "NEU"
)

// SentimentResult is a validated classifier output
type SentimentResult struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// AnalysisReport is the terminal output of a successful run
type AnalysisReport struct {
	Success        bool         `json:"success"`
	OriginalLength int          `json:"original_length"`
	Summary        string       `json:"summary"`
	Sentiment      string       `json:"sentiment"`
	Confidence     float64      `json:"confidence"`
	Source         SourceType   `json:"source,omitempty"`
	Article        *ArticleMeta `json:"article,omitempty"`
	RequestID      string       `json:"request_id,omitempty"`
}
