package search

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/scrutari/scrutari"
)

const defaultMaxResults = 5

// ddgRateLimit enforces a global rate limit of 1 query per second across
// all DuckDuckGo instances and goroutines.
var ddgRateLimit struct {
	mu   sync.Mutex
	last time.Time
}

// DuckDuckGo implements a web searcher using DuckDuckGo's HTML lite
// interface. It requires no API key.
type DuckDuckGo struct {
	client *http.Client
	// MaxResults bounds the returned list (default 5).
	MaxResults int
}

// NewDuckDuckGo creates a DuckDuckGo searcher with a modest timeout.
func NewDuckDuckGo() *DuckDuckGo {
	return &DuckDuckGo{client: &http.Client{Timeout: 15 * time.Second}, MaxResults: defaultMaxResults}
}

// NewDuckDuckGoWithClient creates a DuckDuckGo searcher using the
// supplied HTTP client. Useful for overriding the default timeout.
func NewDuckDuckGoWithClient(client *http.Client) *DuckDuckGo {
	return &DuckDuckGo{client: client, MaxResults: defaultMaxResults}
}

// Search scrapes the DuckDuckGo lite HTML page for results.
func (d *DuckDuckGo) Search(ctx context.Context, query string) ([]scrutari.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("query is empty")
	}

	// Enforce the global 1 QPS rate limit.
	ddgRateLimit.mu.Lock()
	if wait := time.Until(ddgRateLimit.last.Add(time.Second)); wait > 0 {
		ddgRateLimit.mu.Unlock()
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		ddgRateLimit.mu.Lock()
	}
	ddgRateLimit.last = time.Now()
	ddgRateLimit.mu.Unlock()

	// The lite HTML version is more stable for scraping.
	endpoint := "https://lite.duckduckgo.com/lite/"

	formData := url.Values{}
	formData.Set("q", query)

	var resp *http.Response
	delay := 1 * time.Second
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(formData.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err = d.client.Do(req)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			break
		}
		resp.Body.Close()

		// Back off and retry on 429, doubling the delay each time up to 30 s.
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		if delay < 30*time.Second {
			delay *= 2
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo http %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return parseLiteResults(string(body), d.max()), nil
}

func (d *DuckDuckGo) max() int {
	if d.MaxResults > 0 {
		return d.MaxResults
	}
	return defaultMaxResults
}

var (
	ddgLinkPattern    = regexp.MustCompile(`<a[^>]*class=['"]result-link['"][^>]*href=['"]([^'"]+)['"][^>]*>([^<]+)</a>`)
	ddgLinkPattern2   = regexp.MustCompile(`<a[^>]*href=['"]([^'"]+)['"][^>]*class=['"]result-link['"][^>]*>([^<]+)</a>`)
	ddgSnippetPattern = regexp.MustCompile(`<td[^>]*class=['"]result-snippet['"][^>]*>([^<]+(?:<[^>]+>[^<]*</[^>]+>)*[^<]*)</td>`)
	anyLinkPattern    = regexp.MustCompile(`<a[^>]+href=['"]([^'"]+)['"][^>]*>([^<]+)</a>`)
	tagPattern        = regexp.MustCompile(`<[^>]+>`)
)

// parseLiteResults extracts search results from the DuckDuckGo lite
// HTML, which pairs result links with snippet cells.
func parseLiteResults(html string, max int) []scrutari.SearchResult {
	var results []scrutari.SearchResult

	matches := ddgLinkPattern.FindAllStringSubmatch(html, -1)
	if len(matches) == 0 {
		matches = ddgLinkPattern2.FindAllStringSubmatch(html, -1)
	}
	snippetMatches := ddgSnippetPattern.FindAllStringSubmatch(html, -1)

	for i, match := range matches {
		if len(match) < 3 {
			continue
		}
		urlStr := strings.TrimSpace(match[1])
		title := cleanHTML(match[2])
		if urlStr == "" || title == "" {
			continue
		}
		snippet := ""
		if i < len(snippetMatches) && len(snippetMatches[i]) > 1 {
			snippet = cleanHTML(snippetMatches[i][1])
		}
		results = append(results, scrutari.SearchResult{Title: title, URL: urlStr, Snippet: snippet})
		if len(results) >= max {
			break
		}
	}

	if len(results) == 0 {
		results = fallbackParse(html, max)
	}
	return results
}

// fallbackParse collects any external-looking links when the structured
// patterns find nothing.
func fallbackParse(html string, max int) []scrutari.SearchResult {
	var results []scrutari.SearchResult
	seen := make(map[string]bool)
	for _, match := range anyLinkPattern.FindAllStringSubmatch(html, -1) {
		if len(match) < 3 {
			continue
		}
		urlStr := strings.TrimSpace(match[1])
		title := cleanHTML(match[2])
		if strings.Contains(urlStr, "duckduckgo.com") ||
			strings.HasPrefix(urlStr, "/") ||
			strings.HasPrefix(urlStr, "#") ||
			strings.HasPrefix(urlStr, "javascript:") {
			continue
		}
		if len(title) < 5 || seen[urlStr] {
			continue
		}
		seen[urlStr] = true
		results = append(results, scrutari.SearchResult{Title: title, URL: urlStr})
		if len(results) >= max {
			break
		}
	}
	return results
}

// cleanHTML removes tags and decodes common entities.
func cleanHTML(s string) string {
	s = tagPattern.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&quot;", "\"")
	s = strings.ReplaceAll(s, "&#39;", "'")
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	return strings.TrimSpace(s)
}
