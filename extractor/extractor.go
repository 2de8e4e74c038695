package extractor

import (
	"strings"
	"unicode/utf8"

	"newsai/config"

	"github.com/PuerkitoBio/goquery"
)

// boilerplateSelector lists elements removed, with their descendants, before paragraphs are collected
const boilerplateSelector = "script, style, footer, nav, header, aside, form"

// Config holds the paragraph filter thresholds, measured in characters
type Config struct {
	MinParagraphChars int
	MinArticleChars   int
}

// Extractor turns raw HTML into plain article text
type Extractor struct {
	minParagraph int
	minArticle   int
}

// New creates an extractor. Zero thresholds use the strict defaults.
func New(cfg Config) *Extractor {
	if cfg.MinParagraphChars <= 0 {
		cfg.MinParagraphChars = config.StrictParagraphChars
	}
	if cfg.MinArticleChars <= 0 {
		cfg.MinArticleChars = config.MinArticleChars
	}
	return &Extractor{
		minParagraph: cfg.MinParagraphChars,
		minArticle:   cfg.MinArticleChars,
	}
}

// Extract returns the qualifying paragraphs of html joined by single spaces,
// or "" when the result is too short to be an article. It never fails.
func (e *Extractor) Extract(html string) (text string) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
		}
	}()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}

	doc.Find(boilerplateSelector).Remove()

	paragraphs := make([]string, 0, 16)
	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		p := strings.TrimSpace(s.Text())
		if utf8.RuneCountInString(p) > e.minParagraph {
			paragraphs = append(paragraphs, p)
		}
	})

	joined := strings.Join(paragraphs, " ")
	if utf8.RuneCountInString(joined) > e.minArticle {
		return joined
	}
	return ""
}
