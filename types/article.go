package types

import "time"

// RawDocument is the body returned by a ContentFetcher for a single URL
type RawDocument struct {
	URL         string    `json:"url"`
	Body        string    `json:"-"`
	ContentType string    `json:"content_type,omitempty"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// ArticleMeta holds best-effort metadata for a fetched article.
// Every field may be empty.
type ArticleMeta struct {
	Title    string `json:"title,omitempty"`
	Byline   string `json:"byline,omitempty"`
	SiteName string `json:"site_name,omitempty"`
	Excerpt  string `json:"excerpt,omitempty"`
}

// IsZero reports whether no metadata was found
func (m ArticleMeta) IsZero() bool {
	return m == ArticleMeta{}
}
