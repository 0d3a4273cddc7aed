package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func parse(t *testing.T, html string) *goquery.Selection {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return doc.Selection
}

func TestExtractText(t *testing.T) {
	t.Run("title and paragraphs", func(t *testing.T) {
		title, content := ExtractText(parse(t, `
			<html><head><title>Acme Widgets</title></head>
			<body><main>
				<h1>Welcome</h1>
				<p>We sell widgets.</p>
				<p>Since 1999.</p>
			</main></body></html>`))
		if title != "Acme Widgets" {
			t.Errorf("title = %q", title)
		}
		want := "Welcome\n\nWe sell widgets.\n\nSince 1999."
		if content != want {
			t.Errorf("content = %q, want %q", content, want)
		}
	})

	t.Run("scripts and chrome stripped", func(t *testing.T) {
		_, content := ExtractText(parse(t, `
			<html><body>
				<nav><p>Menu Home About</p></nav>
				<script>var x = "tracking";</script>
				<article><p>Actual content.</p></article>
				<footer><p>Copyright.</p></footer>
			</body></html>`))
		if strings.Contains(content, "tracking") || strings.Contains(content, "Menu") || strings.Contains(content, "Copyright") {
			t.Errorf("chrome leaked into content: %q", content)
		}
		if !strings.Contains(content, "Actual content.") {
			t.Errorf("content missing: %q", content)
		}
	})

	t.Run("flat text fallback", func(t *testing.T) {
		_, content := ExtractText(parse(t, `<html><body><div>just a bare div of text</div></body></html>`))
		if !strings.Contains(content, "just a bare div of text") {
			t.Errorf("content = %q", content)
		}
	})

	t.Run("empty page", func(t *testing.T) {
		_, content := ExtractText(parse(t, `<html><body></body></html>`))
		if strings.TrimSpace(content) != "" {
			t.Errorf("content = %q, want empty", content)
		}
	})
}

func TestAggregatePages(t *testing.T) {
	got := aggregatePages([]Page{
		{Content: "page one text"},
		{Content: "   "},
		{Content: "page two text"},
	})
	if got != "page one text\n\npage two text" {
		t.Errorf("got %q", got)
	}
}
