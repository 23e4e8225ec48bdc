package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func newPubMedServer(t *testing.T, esearchBody, esummaryBody string, status int) (*PubMed, *[]url.Values) {
	t.Helper()
	var seen []url.Values
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.URL.Query())
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		switch {
		case strings.HasSuffix(r.URL.Path, "/esearch.fcgi"):
			_, _ = w.Write([]byte(esearchBody))
		case strings.HasSuffix(r.URL.Path, "/esummary.fcgi"):
			_, _ = w.Write([]byte(esummaryBody))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(ts.Close)

	p := NewPubMed("test-key")
	p.BaseURL = ts.URL
	return p, &seen
}

func TestPubMedSearch(t *testing.T) {
	esearch := `{"esearchresult":{"idlist":["111","222"]}}`
	esummary := `{"result":{
		"uids":["222","111"],
		"111":{"title":"Simulation in nursing education","source":"Med Teach","pubdate":"2023 Jan","authors":[{"name":"Smith J"},{"name":"Lee K"}]},
		"222":{"title":"Debriefing practices","source":"BMC Med Educ","pubdate":"2024 Mar","authors":[{"name":"Chen A"}]}
	}}`
	p, seen := newPubMedServer(t, esearch, esummary, http.StatusOK)

	results, err := p.Search(context.Background(), "simulation training")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	// The "uids" array decides the order, not the request id list.
	if results[0].Title != "Debriefing practices" {
		t.Fatalf("first result = %q", results[0].Title)
	}
	if results[0].URL != "https://pubmed.ncbi.nlm.nih.gov/222/" {
		t.Fatalf("url = %q", results[0].URL)
	}
	if results[0].Snippet != "Chen A, BMC Med Educ, 2024 Mar" {
		t.Fatalf("snippet = %q", results[0].Snippet)
	}
	if results[1].Snippet != "Smith J et al., Med Teach, 2023 Jan" {
		t.Fatalf("snippet = %q", results[1].Snippet)
	}

	if len(*seen) != 2 {
		t.Fatalf("saw %d requests, want esearch + esummary", len(*seen))
	}
	first := (*seen)[0]
	if first.Get("db") != "pubmed" || first.Get("term") != "simulation training" {
		t.Fatalf("esearch params = %v", first)
	}
	if first.Get("api_key") != "test-key" || first.Get("retmode") != "json" {
		t.Fatalf("esearch params = %v", first)
	}
	second := (*seen)[1]
	if second.Get("id") != "111,222" {
		t.Fatalf("esummary id param = %q", second.Get("id"))
	}
}

func TestPubMedSearchNoHits(t *testing.T) {
	p, seen := newPubMedServer(t, `{"esearchresult":{"idlist":[]}}`, "", http.StatusOK)

	results, err := p.Search(context.Background(), "nothing matches this")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if results != nil {
		t.Fatalf("results = %v, want nil", results)
	}
	if len(*seen) != 1 {
		t.Fatal("esummary must be skipped when esearch finds nothing")
	}
}

func TestPubMedSearchHTTPError(t *testing.T) {
	p, _ := newPubMedServer(t, "", "", http.StatusServiceUnavailable)
	if _, err := p.Search(context.Background(), "anything"); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestPubMedSearchEmptyQuery(t *testing.T) {
	p := NewPubMed("")
	if _, err := p.Search(context.Background(), "   "); err == nil {
		t.Fatal("expected error for blank query")
	}
}

func TestPubMedMaxResults(t *testing.T) {
	esearch := `{"esearchresult":{"idlist":["1","2","3"]}}`
	esummary := `{"result":{
		"uids":["1","2","3"],
		"1":{"title":"One"},
		"2":{"title":"Two"},
		"3":{"title":"Three"}
	}}`
	p, _ := newPubMedServer(t, esearch, esummary, http.StatusOK)
	p.MaxResults = 2

	results, err := p.Search(context.Background(), "q")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want MaxResults cap of 2", len(results))
	}
}
