package extractor

import (
	"net/url"
	"strings"

	"newsai/types"

	readability "github.com/go-shiori/go-readability"
)

// Metadata reads title, byline, site name and excerpt from an article page.
// Failures yield zero metadata; article text always comes from Extract.
func Metadata(html, pageURL string) (meta types.ArticleMeta) {
	defer func() {
		if r := recover(); r != nil {
			meta = types.ArticleMeta{}
		}
	}()

	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		parsedURL = &url.URL{}
	}

	article, err := readability.FromReader(strings.NewReader(html), parsedURL)
	if err != nil {
		return types.ArticleMeta{}
	}

	return types.ArticleMeta{
		Title:    strings.TrimSpace(article.Title),
		Byline:   strings.TrimSpace(article.Byline),
		SiteName: strings.TrimSpace(article.SiteName),
		Excerpt:  strings.TrimSpace(article.Excerpt),
	}
}
