package extractor

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func para(n int, fill string) string {
	return strings.Repeat(fill, n)
}

func TestExtractKeepsArticleParagraphOnly(t *testing.T) {
	article := para(200, "a")
	html := `<html><head><title>t</title><style>p { color: red }</style></head><body>
<header><p>` + para(80, "h") + `</p></header>
<nav><p>` + para(90, "n") + `</p></nav>
<article><p>` + article + `</p><p>Share this story</p></article>
<footer><p>` + para(120, "f") + `</p></footer>
</body></html>`

	got := New(Config{}).Extract(html)
	if got != article {
		t.Fatalf("expected only the article paragraph, got %q", got)
	}
}

func TestExtractDropsScriptInsideParagraph(t *testing.T) {
	body := para(120, "x")
	html := `<p>` + body + `<script>var secret = "tracking";</script></p><p><style>.ad{}</style>` + para(70, "y") + `</p>`

	got := New(Config{}).Extract(html)
	if strings.Contains(got, "secret") || strings.Contains(got, ".ad") {
		t.Fatalf("script or style content leaked: %q", got)
	}
	if got != body+" "+para(70, "y") {
		t.Fatalf("unexpected extraction %q", got)
	}
}

func TestExtractParagraphThreshold(t *testing.T) {
	short := para(60, "s")
	long := para(61, "l")
	html := `<p>` + short + `</p><p>` + long + `</p><p>` + long + `</p>`

	got := New(Config{MinParagraphChars: 60}).Extract(html)
	if strings.Contains(got, "s") {
		t.Fatalf("60-char paragraph should be dropped: %q", got)
	}
	if got != long+" "+long {
		t.Fatalf("unexpected extraction %q", got)
	}

	lenient := New(Config{MinParagraphChars: 50}).Extract(html)
	if !strings.HasPrefix(lenient, short) {
		t.Fatalf("lenient threshold should keep the 60-char paragraph: %q", lenient)
	}
}

func TestExtractArticleLengthBoundary(t *testing.T) {
	e := New(Config{})

	accepted := e.Extract(`<p>` + para(101, "a") + `</p>`)
	if utf8.RuneCountInString(accepted) != 101 {
		t.Fatalf("101 characters should be accepted, got %d", utf8.RuneCountInString(accepted))
	}

	rejected := e.Extract(`<p>` + para(100, "a") + `</p>`)
	if rejected != "" {
		t.Fatalf("100 characters should be rejected, got %q", rejected)
	}
}

func TestExtractCountsCharactersNotBytes(t *testing.T) {
	// 61 two-byte runes: above the threshold in characters
	p := para(61, "ñ")
	got := New(Config{}).Extract(`<p>` + p + `</p><p>` + p + `</p>`)
	if got != p+" "+p {
		t.Fatalf("unexpected extraction %q", got)
	}

	// 55 runes is 110 bytes but still below 60 characters
	if got := New(Config{}).Extract(`<p>` + para(55, "ñ") + `</p>`); got != "" {
		t.Fatalf("expected rejection, got %q", got)
	}
}

func TestExtractTrimsParagraphs(t *testing.T) {
	p := para(120, "t")
	got := New(Config{}).Extract("<p>\n\t   " + p + "   \n</p>")
	if got != p {
		t.Fatalf("expected trimmed paragraph, got %q", got)
	}
}

func TestExtractIsIdempotent(t *testing.T) {
	html := `<div><p>` + para(90, "q") + `</p><aside><p>` + para(90, "r") + `</p></aside><p>` + para(70, "w") + `</p></div>`
	e := New(Config{})

	first := e.Extract(html)
	second := e.Extract(html)
	if first != second {
		t.Fatalf("extraction not deterministic: %q vs %q", first, second)
	}
}

func TestExtractHandlesGarbage(t *testing.T) {
	e := New(Config{})
	for _, input := range []string{"", "not html at all", "<p><<<>>>", "\x00\xff\xfe"} {
		if got := e.Extract(input); got != "" {
			t.Errorf("expected empty extraction for %q, got %q", input, got)
		}
	}
}

func TestMetadata(t *testing.T) {
	body := strings.Repeat("Reporters confirmed the new transit line opens next spring. ", 20)
	html := `<html><head><title>Transit line opens</title>
<meta property="og:site_name" content="Daily Example"></head>
<body><article><h1>Transit line opens</h1><p>` + body + `</p><p>` + body + `</p></article></body></html>`

	meta := Metadata(html, "https://example.com/news/transit")
	if meta.Title == "" {
		t.Fatalf("expected a title, got %+v", meta)
	}
	if meta.SiteName != "Daily Example" {
		t.Errorf("expected site name from og:site_name, got %q", meta.SiteName)
	}
}

func TestExtractArticleAmongBoilerplate(t *testing.T) {
	article := "The city council approved a new budget on Tuesday, which expands bus service to the northern districts, adds two hundred teachers to public schools and freezes property taxes for the next fiscal year."
	if utf8.RuneCountInString(article) != 200 {
		t.Fatalf("fixture should be 200 characters, got %d", utf8.RuneCountInString(article))
	}
	html := `<html><body>
<p>Subscribe now</p>
<p>` + article + `</p>
<p>© 2024</p>
<p>Home</p>
</body></html>`

	if got := New(Config{}).Extract(html); got != article {
		t.Fatalf("expected exactly the article paragraph, got %q", got)
	}
}
