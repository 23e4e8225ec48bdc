// Package search provides the evidence search backends.
//
// Available providers:
//
//   - DuckDuckGo: general web, free, no API key (scrapes the
//     lite.duckduckgo.com HTML interface)
//   - Brave: general web, requires an API key via X-Subscription-Token
//   - PubMed: biomedical literature via the NCBI E-utilities API
//     (an API key is optional and only raises rate limits)
//
// All providers return a small bounded list of results. Callers fold
// failures into placeholder text; nothing above the evidence layer ever
// sees a search error.
//
// Implement the scrutari.SearchProvider interface to add a backend:
//
//	type SearchProvider interface {
//	    Search(ctx context.Context, query string) ([]scrutari.SearchResult, error)
//	}
package search
