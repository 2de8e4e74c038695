package tui

// UI Text Constants
const (
	TextTitle = "📰 News Summarizer & Sentiment"

	TextURLPlaceholder  = "https://example.com/news/article"
	TextTextPlaceholder = "Paste the article text here..."

	TextRunning = "Summarizing and analyzing sentiment..."

	TextFooterIdle    = "Tab: switch url/text | Ctrl+S: analyze | Esc or Ctrl+C: quit"
	TextFooterRunning = "Working... | Ctrl+C: quit"
)
