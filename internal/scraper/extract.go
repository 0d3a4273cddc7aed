package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Elements that never contribute readable content.
var strippedSelectors = "script, style, noscript, iframe, svg, nav, header, footer, aside, form"

// Selectors tried in order for the main content region.
var contentSelectors = []string{
	"main",
	"article",
	"[role='main']",
	"#content",
	".content",
	"body",
}

// ExtractText pulls the title and readable text out of a parsed page. Block
// elements are emitted as separate lines and paragraph-level blocks are
// separated by blank lines, so the chunker sees the page's structure.
func ExtractText(sel *goquery.Selection) (title, content string) {
	title = strings.TrimSpace(sel.Find("title").First().Text())

	work := sel.Clone()
	work.Find(strippedSelectors).Remove()

	var region *goquery.Selection
	for _, selector := range contentSelectors {
		if candidate := work.Find(selector).First(); candidate.Length() > 0 {
			region = candidate
			break
		}
	}
	if region == nil {
		region = work
	}

	var blocks []string
	region.Find("h1, h2, h3, h4, h5, h6, p, li, td, th, blockquote, pre").Each(func(_ int, block *goquery.Selection) {
		text := strings.TrimSpace(block.Text())
		if text != "" {
			blocks = append(blocks, text)
		}
	})

	// Pages without block structure still get their flat text.
	if len(blocks) == 0 {
		return title, strings.TrimSpace(region.Text())
	}
	return title, strings.Join(blocks, "\n\n")
}
