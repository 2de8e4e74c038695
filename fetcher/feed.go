package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"newsai/config"

	"github.com/mmcdole/gofeed"
)

// FeedPresets maps friendly names to RSS feed URLs
var FeedPresets = map[string]string{
	"cna":      "https://www.channelnewsasia.com/api/v1/rss-outbound-feed?_format=xml",
	"st":       "https://www.straitstimes.com/news/singapore/rss.xml",
	"hn":       "https://hnrss.org/newest",
	"tr":       "https://www.technologyreview.com/feed/",
	"elpais":   "https://feeds.elpais.com/mrss-s/pages/ep/site/elpais.com/portada",
	"bbcmundo": "https://feeds.bbci.co.uk/mundo/rss.xml",
}

// ErrEmptyFeed is returned when a feed has no item with a link
var ErrEmptyFeed = errors.New("feed has no linked items")

// ResolveFeedURL resolves a preset name to its URL.
// Anything else is returned as-is.
func ResolveFeedURL(feedInput string) string {
	if url, exists := FeedPresets[strings.ToLower(strings.TrimSpace(feedInput))]; exists {
		return url
	}
	return strings.TrimSpace(feedInput)
}

// PresetNames returns the preset names in sorted order
func PresetNames() []string {
	names := make([]string, 0, len(FeedPresets))
	for name := range FeedPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FeedResolver turns a feed into the URL of its newest article
type FeedResolver struct {
	parser  *gofeed.Parser
	timeout time.Duration
}

// NewFeedResolver creates a resolver sharing the fetcher's timeout and User-Agent
func NewFeedResolver(cfg HTTPConfig) *FeedResolver {
	if cfg.Timeout <= 0 {
		cfg.Timeout = config.FetchTimeout
	}
	parser := gofeed.NewParser()
	parser.UserAgent = cfg.UserAgent
	if parser.UserAgent == "" {
		parser.UserAgent = config.UserAgent
	}
	if cfg.Client != nil {
		parser.Client = cfg.Client
	}
	return &FeedResolver{parser: parser, timeout: cfg.Timeout}
}

// LatestArticle returns the link of the most recently published item of a feed
func (r *FeedResolver) LatestArticle(ctx context.Context, feedInput string) (string, error) {
	feedURL := ResolveFeedURL(feedInput)

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	feed, err := r.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		var httpErr gofeed.HTTPError
		if errors.As(err, &httpErr) {
			return "", &FetchError{URL: feedURL, StatusCode: httpErr.StatusCode, Err: err}
		}
		return "", &FetchError{URL: feedURL, Err: fmt.Errorf("parse feed: %w", err)}
	}

	item := newestItem(feed.Items)
	if item == nil {
		return "", &FetchError{URL: feedURL, StatusCode: http.StatusNotFound, Err: ErrEmptyFeed}
	}
	return item.Link, nil
}

// newestItem prefers the latest published date; undated feeds fall back to document order
func newestItem(items []*gofeed.Item) *gofeed.Item {
	var best *gofeed.Item
	var bestAt time.Time
	for _, item := range items {
		if item == nil || strings.TrimSpace(item.Link) == "" {
			continue
		}
		var at time.Time
		if item.PublishedParsed != nil {
			at = *item.PublishedParsed
		} else if item.UpdatedParsed != nil {
			at = *item.UpdatedParsed
		}
		if best == nil || at.After(bestAt) {
			best, bestAt = item, at
		}
	}
	return best
}
