package scrutari

import (
	"context"
	"io"
)

// Transcript roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is a single role-tagged message in a session transcript.
type Turn struct {
	Role    string
	Content string
}

// Request describes one call to a CompletionProvider. Messages are sent
// in order after the system instruction. A negative Temperature leaves
// the provider default in place.
type Request struct {
	System      string
	Messages    []Turn
	Model       string
	MaxTokens   int64
	Temperature float64
}

// TokenStream is a forward-only, single-pass sequence of response text
// fragments. Concatenating every fragment yields the same text the
// non-streaming call would have returned.
type TokenStream interface {
	Next() bool
	Current() string
	Err() error
}

// CompletionProvider is implemented by hosted language model clients.
type CompletionProvider interface {
	Complete(ctx context.Context, req Request) (string, error)
	Stream(ctx context.Context, req Request) (TokenStream, error)
}

// SearchResult is a single item returned by a SearchProvider.
type SearchResult struct {
	Title   string
	URL     string
	Snippet string
}

// SearchProvider executes a query and returns results. Errors are
// allowed here; the evidence layer maps them to "unavailable" text so
// one bad lookup never aborts a review phase.
type SearchProvider interface {
	Search(ctx context.Context, query string) ([]SearchResult, error)
}

// Extractor produces plain text from an uploaded document. An error
// means the file is unreadable and should be reported to the user.
type Extractor interface {
	Extract(r io.ReaderAt, size int64) (string, error)
}
