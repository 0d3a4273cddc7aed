package scraper

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"golang.org/x/net/html/charset"
)

// renderPage loads the entry page in headless Chrome and extracts its text
// after scripts have run, for sites that assemble content client-side.
func (s *Scraper) renderPage(ctx context.Context, pageURL string) (*Page, error) {
	taskCtx, cancel := chromedp.NewContext(ctx)
	defer cancel()
	taskCtx, cancelTimeout := context.WithTimeout(taskCtx, s.timeout)
	defer cancelTimeout()

	var html string
	err := chromedp.Run(taskCtx,
		chromedp.Navigate(pageURL),
		// Give client-side rendering a moment to settle.
		chromedp.Sleep(2*time.Second),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", pageURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	title, content := ExtractText(doc.Selection)
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}
	return &Page{URL: pageURL, Title: title, Content: content}, nil
}

// fetchSingle is the last-resort plain fetch of just the entry page, with
// charset detection for pages that do not declare UTF-8.
func (s *Scraper) fetchSingle(ctx context.Context, pageURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	client := &http.Client{Timeout: s.timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d", pageURL, resp.StatusCode)
	}

	reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, err
	}
	title, content := ExtractText(doc.Selection)
	if strings.TrimSpace(content) == "" {
		return nil, nil
	}
	return &Page{URL: pageURL, Title: title, Content: content}, nil
}
