package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const serpAPIEndpoint = "https://serpapi.com/search"

// fetchSnippets gathers search-result snippets for the site as a content
// source of last resort, for sites that block direct crawling.
func (s *Scraper) fetchSnippets(ctx context.Context, host string) (string, error) {
	params := url.Values{}
	params.Set("engine", "google")
	params.Set("q", "site:"+host)
	params.Set("num", "10")
	params.Set("api_key", s.serpAPIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, serpAPIEndpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", err
	}
	client := &http.Client{Timeout: s.timeout}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search snippets: status %d", resp.StatusCode)
	}

	var payload struct {
		OrganicResults []struct {
			Snippet string `json:"snippet"`
		} `json:"organic_results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", err
	}
	if len(payload.OrganicResults) == 0 {
		return "", fmt.Errorf("search snippets: no organic results for %s", host)
	}

	parts := make([]string, 0, len(payload.OrganicResults))
	for _, r := range payload.OrganicResults {
		if r.Snippet != "" {
			parts = append(parts, r.Snippet)
		}
	}
	return strings.Join(parts, "\n\n"), nil
}
