// Package scrutari reviews academic manuscripts with a hosted language
// model and verifies flagged claims against external search backends.
//
// # Pipeline
//
// A review runs up to four phases over a Session:
//
//  1. Scan: a rigorous-editor persona critiques a bounded prefix of the
//     manuscript and flags claims needing external verification.
//  2. Extraction: a bracketed list of verification queries is parsed
//     out of the scan output; parse failure falls back to a single
//     default query, so the next phase always has work.
//  3. Evidence: each query is run against the web and literature
//     backends; failures degrade to "unavailable" lines.
//  4. Synthesis: the transcript plus the evidence block produce the
//     final peer-review report.
//
// Every completion request and response is appended to the session
// transcript, so follow-up chat (Agent.Chat) inherits the full context.
// Chat answers stream fragment by fragment and may, per turn, gate in
// fresh evidence that never touches the persisted transcript.
//
// # Basic Usage
//
//	llm, _ := completion.NewOpenAI(key, "")
//	agent := scrutari.New(
//	    scrutari.WithCompletionProvider(llm),
//	    scrutari.WithWebSearch(search.NewDuckDuckGo()),
//	    scrutari.WithLiteratureSearch(search.NewPubMed("")),
//	)
//
//	s := scrutari.NewSession("demo")
//	s.SetManuscript(text)
//	report, err := agent.Review(ctx, s)
//
//	stream, err := agent.Chat(ctx, s, "Is the sample size justified?")
//	for stream.Next() {
//	    fmt.Print(stream.Current())
//	}
//
// # Interfaces
//
// Implement CompletionProvider to connect any language model, and
// SearchProvider to add a search backend:
//
//	type CompletionProvider interface {
//	    Complete(ctx context.Context, req Request) (string, error)
//	    Stream(ctx context.Context, req Request) (TokenStream, error)
//	}
//
//	type SearchProvider interface {
//	    Search(ctx context.Context, query string) ([]SearchResult, error)
//	}
//
// The completion, search, and extract packages provide implementations
// for the OpenAI chat-completions API, DuckDuckGo/Brave/PubMed, and PDF
// text extraction.
package scrutari
