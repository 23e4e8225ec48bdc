package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/scrutari/scrutari"
)

const pubmedDefaultBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

// PubMed queries the NCBI E-utilities API for biomedical literature.
// An API key is optional; supplying one raises NCBI's rate limits.
type PubMed struct {
	APIKey string
	// BaseURL overrides the E-utilities endpoint (used in tests).
	BaseURL string
	client  *http.Client
	// MaxResults bounds the returned list (default 3; literature hits
	// are denser than web snippets).
	MaxResults int
}

// NewPubMed constructs a PubMed search provider.
func NewPubMed(apiKey string) *PubMed {
	return &PubMed{APIKey: apiKey, client: &http.Client{Timeout: 10 * time.Second}, MaxResults: 3}
}

// NewPubMedWithClient constructs a PubMed provider using the supplied
// HTTP client. Useful for overriding the default timeout.
func NewPubMedWithClient(apiKey string, client *http.Client) *PubMed {
	return &PubMed{APIKey: apiKey, client: client, MaxResults: 3}
}

// Search runs an esearch for PubMed IDs and an esummary for their
// titles, returning one result per article.
func (p *PubMed) Search(ctx context.Context, query string) ([]scrutari.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("query is empty")
	}
	ids, err := p.esearch(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}
	return p.esummary(ctx, ids)
}

func (p *PubMed) base() string {
	if p.BaseURL != "" {
		return strings.TrimRight(p.BaseURL, "/")
	}
	return pubmedDefaultBase
}

func (p *PubMed) max() int {
	if p.MaxResults > 0 {
		return p.MaxResults
	}
	return 3
}

func (p *PubMed) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	if p.APIKey != "" {
		params.Set("api_key", p.APIKey)
	}
	params.Set("retmode", "json")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.base()+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("pubmed http %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (p *PubMed) esearch(ctx context.Context, query string) ([]string, error) {
	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("term", query)
	params.Set("retmax", fmt.Sprintf("%d", p.max()))

	var payload struct {
		ESearchResult struct {
			IDList []string `json:"idlist"`
		} `json:"esearchresult"`
	}
	if err := p.get(ctx, "/esearch.fcgi", params, &payload); err != nil {
		return nil, err
	}
	return payload.ESearchResult.IDList, nil
}

// pubmedSummary is the per-article document summary returned by
// esummary. Only the fields used for evidence snippets are decoded.
type pubmedSummary struct {
	Title   string `json:"title"`
	Source  string `json:"source"`
	PubDate string `json:"pubdate"`
	Authors []struct {
		Name string `json:"name"`
	} `json:"authors"`
}

func (p *PubMed) esummary(ctx context.Context, ids []string) ([]scrutari.SearchResult, error) {
	params := url.Values{}
	params.Set("db", "pubmed")
	params.Set("id", strings.Join(ids, ","))

	// esummary keys each summary by its UID alongside a "uids" array, so
	// the envelope is decoded as raw messages and resolved in UID order.
	var payload struct {
		Result map[string]json.RawMessage `json:"result"`
	}
	if err := p.get(ctx, "/esummary.fcgi", params, &payload); err != nil {
		return nil, err
	}

	order := ids
	if raw, ok := payload.Result["uids"]; ok {
		var uids []string
		if err := json.Unmarshal(raw, &uids); err == nil && len(uids) > 0 {
			order = uids
		}
	}

	results := make([]scrutari.SearchResult, 0, len(order))
	for _, id := range order {
		raw, ok := payload.Result[id]
		if !ok {
			continue
		}
		var s pubmedSummary
		if err := json.Unmarshal(raw, &s); err != nil || s.Title == "" {
			continue
		}
		results = append(results, scrutari.SearchResult{
			Title:   s.Title,
			URL:     fmt.Sprintf("https://pubmed.ncbi.nlm.nih.gov/%s/", id),
			Snippet: summarySnippet(s),
		})
		if len(results) >= p.max() {
			break
		}
	}
	return results, nil
}

func summarySnippet(s pubmedSummary) string {
	parts := make([]string, 0, 3)
	if len(s.Authors) > 0 && s.Authors[0].Name != "" {
		author := s.Authors[0].Name
		if len(s.Authors) > 1 {
			author += " et al."
		}
		parts = append(parts, author)
	}
	if s.Source != "" {
		parts = append(parts, s.Source)
	}
	if s.PubDate != "" {
		parts = append(parts, s.PubDate)
	}
	return strings.Join(parts, ", ")
}
