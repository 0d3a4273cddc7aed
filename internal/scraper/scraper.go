// Package scraper fetches and extracts the text content of a website. It is
// an ingestion collaborator of the retrieval core: its output is one raw text
// document per site, possibly aggregated from several extraction methods.
package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	colly "github.com/gocolly/colly/v2"

	"website-chatbot-builder/internal/logger"
)

// Minimum usable content length; below this the snippet fallback is tried.
const minContentLength = 100

// Page is one crawled page.
type Page struct {
	URL     string
	Title   string
	Content string
}

// Result is the outcome of a scrape: the aggregated site text plus per-page
// detail.
type Result struct {
	URL          string
	Title        string
	Content      string
	Pages        []Page
	PagesCrawled int
	Method       string
}

// Scraper extracts website text by crawling, with a search-snippet fallback
// for sites that cannot be crawled directly.
type Scraper struct {
	serpAPIKey string
	maxPages   int
	timeout    time.Duration
	renderJS   bool
}

// Option configures a Scraper.
type Option func(*Scraper)

// WithSerpAPIKey enables the search-snippet fallback.
func WithSerpAPIKey(key string) Option {
	return func(s *Scraper) { s.serpAPIKey = key }
}

// WithMaxPages bounds the number of pages fetched per site.
func WithMaxPages(n int) Option {
	return func(s *Scraper) {
		if n > 0 {
			s.maxPages = n
		}
	}
}

// WithTimeout bounds each page fetch.
func WithTimeout(d time.Duration) Option {
	return func(s *Scraper) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithJSRendering renders the entry page in a headless browser.
func WithJSRendering(enabled bool) Option {
	return func(s *Scraper) { s.renderJS = enabled }
}

// New creates a Scraper.
func New(opts ...Option) *Scraper {
	s := &Scraper{
		maxPages: 25,
		timeout:  30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ForSite returns a copy with per-site overrides applied on top of the
// configured defaults. Zero values keep the defaults.
func (s *Scraper) ForSite(maxPages int, renderJS bool) *Scraper {
	clone := *s
	if maxPages > 0 {
		clone.maxPages = maxPages
	}
	if renderJS {
		clone.renderJS = true
	}
	return &clone
}

// Scrape fetches the site's text content. It crawls same-domain links up to
// the page budget; when that yields too little content it falls back to
// search-engine snippets. A site that yields nothing returns an empty-content
// result, not an error. The chunker treats empty input as "no chunks".
func (s *Scraper) Scrape(ctx context.Context, siteURL string) (*Result, error) {
	parsed, err := url.Parse(siteURL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme == "" {
		parsed.Scheme = "https"
		siteURL = parsed.String()
	}

	result := &Result{URL: siteURL, Method: "crawl"}

	if s.renderJS {
		if page, err := s.renderPage(ctx, siteURL); err != nil {
			logger.Warn("JS render failed, continuing with plain crawl", "url", siteURL, "error", err)
		} else if page != nil {
			result.Pages = append(result.Pages, *page)
			result.Title = page.Title
		}
	}

	pages, err := s.crawl(ctx, parsed)
	if err != nil {
		logger.Warn("Crawl failed", "url", siteURL, "error", err)
	}
	result.Pages = append(result.Pages, pages...)

	// A crawl that produced nothing still leaves the plain single-page
	// fetch with charset detection.
	if len(result.Pages) == 0 {
		if page, err := s.fetchSingle(ctx, siteURL); err != nil {
			logger.Warn("Single-page fetch failed", "url", siteURL, "error", err)
		} else if page != nil {
			result.Pages = append(result.Pages, *page)
		}
	}

	result.PagesCrawled = len(result.Pages)
	if result.Title == "" && len(result.Pages) > 0 {
		result.Title = result.Pages[0].Title
	}
	result.Content = aggregatePages(result.Pages)

	if len(result.Content) < minContentLength && s.serpAPIKey != "" {
		snippets, err := s.fetchSnippets(ctx, parsed.Host)
		if err != nil {
			logger.Warn("Snippet fallback failed", "url", siteURL, "error", err)
		} else if len(snippets) >= minContentLength {
			result.Content = snippets
			result.Method = "search-snippets"
		}
	}

	return result, nil
}

// crawl fetches same-domain pages breadth-first up to the page budget.
func (s *Scraper) crawl(ctx context.Context, start *url.URL) ([]Page, error) {
	c := colly.NewCollector(
		colly.AllowedDomains(start.Hostname(), "www."+start.Hostname()),
		colly.MaxDepth(3),
	)
	c.SetRequestTimeout(s.timeout)
	c.DetectCharset = true

	var (
		mu    sync.Mutex
		pages []Page
		seen  = make(map[string]bool)
	)

	c.OnRequest(func(r *colly.Request) {
		select {
		case <-ctx.Done():
			r.Abort()
			return
		default:
		}
		mu.Lock()
		defer mu.Unlock()
		if len(pages) >= s.maxPages || seen[r.URL.String()] {
			r.Abort()
			return
		}
		seen[r.URL.String()] = true
	})

	c.OnHTML("html", func(e *colly.HTMLElement) {
		title, content := ExtractText(e.DOM)
		if strings.TrimSpace(content) == "" {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if len(pages) >= s.maxPages {
			return
		}
		pages = append(pages, Page{
			URL:     e.Request.URL.String(),
			Title:   title,
			Content: content,
		})
	})

	c.OnHTML("a[href]", func(e *colly.HTMLElement) {
		link := e.Request.AbsoluteURL(e.Attr("href"))
		if link == "" || strings.Contains(link, "#") {
			return
		}
		// Errors here just mean the link was filtered or already visited.
		_ = c.Visit(link)
	})

	if err := c.Visit(start.String()); err != nil {
		return pages, err
	}
	c.Wait()
	return pages, nil
}

// aggregatePages joins page texts in crawl order, separated by blank lines so
// page boundaries survive as paragraph breaks for the chunker.
func aggregatePages(pages []Page) string {
	parts := make([]string, 0, len(pages))
	for _, p := range pages {
		if strings.TrimSpace(p.Content) != "" {
			parts = append(parts, p.Content)
		}
	}
	return strings.Join(parts, "\n\n")
}
