package search

import "testing"

const liteHTML = `
<table>
<tr><td><a rel="nofollow" href="https://example.com/one" class='result-link'>First &amp; Best</a></td></tr>
<tr><td class='result-snippet'>Snippet <b>one</b> text</td></tr>
<tr><td><a rel="nofollow" href="https://example.com/two" class='result-link'>Second Result</a></td></tr>
<tr><td class='result-snippet'>Snippet two</td></tr>
<tr><td><a rel="nofollow" href="https://example.com/three" class='result-link'>Third Result</a></td></tr>
<tr><td class='result-snippet'>Snippet three</td></tr>
</table>`

func TestParseLiteResults(t *testing.T) {
	results := parseLiteResults(liteHTML, 5)
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	if results[0].Title != "First & Best" {
		t.Fatalf("title = %q, entity not decoded", results[0].Title)
	}
	if results[0].URL != "https://example.com/one" {
		t.Fatalf("url = %q", results[0].URL)
	}
	if results[0].Snippet != "Snippet one text" {
		t.Fatalf("snippet = %q, tags not stripped", results[0].Snippet)
	}
	if results[2].Snippet != "Snippet three" {
		t.Fatalf("snippet pairing broken: %q", results[2].Snippet)
	}
}

func TestParseLiteResultsCap(t *testing.T) {
	results := parseLiteResults(liteHTML, 2)
	if len(results) != 2 {
		t.Fatalf("got %d results, want cap of 2", len(results))
	}
}

func TestFallbackParse(t *testing.T) {
	html := `
<a href="/settings">Settings page link</a>
<a href="https://duckduckgo.com/about">About DuckDuckGo</a>
<a href="javascript:void(0)">Click here now</a>
<a href="https://example.org/paper">A relevant external page</a>
<a href="https://example.org/paper">A relevant external page</a>
<a href="https://example.net/x">ok</a>`
	results := fallbackParse(html, 5)
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1:\n%+v", len(results), results)
	}
	if results[0].URL != "https://example.org/paper" {
		t.Fatalf("url = %q", results[0].URL)
	}
}

func TestCleanHTML(t *testing.T) {
	in := `  <b>Bold</b> &amp; &lt;tag&gt; &quot;quoted&quot;&nbsp;&#39;x&#39;  `
	want := `Bold & <tag> "quoted" 'x'`
	if got := cleanHTML(in); got != want {
		t.Fatalf("cleanHTML = %q, want %q", got, want)
	}
}
