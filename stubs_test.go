package scrutari

import (
	"context"
	"errors"
)

// scriptedCompleter returns canned responses keyed by system prompt, in
// order, and records every request it sees.
type scriptedCompleter struct {
	editor []string // scan + synthesis calls
	gate   []string
	chat   []string // streamed, split into fragments

	editorIdx int
	gateIdx   int
	chatIdx   int

	// failures makes the next N calls error before any response is
	// consumed, to exercise the retry policy.
	failures int

	requests []Request
}

func (s *scriptedCompleter) next(list []string, idx *int) (string, error) {
	if *idx >= len(list) {
		return "", errors.New("no scripted response available")
	}
	resp := list[*idx]
	*idx++
	return resp, nil
}

func (s *scriptedCompleter) Complete(_ context.Context, req Request) (string, error) {
	s.requests = append(s.requests, req)
	if s.failures > 0 {
		s.failures--
		return "", errors.New("transient failure")
	}
	switch req.System {
	case scanSystemPrompt:
		return s.next(s.editor, &s.editorIdx)
	case gateSystemPrompt:
		return s.next(s.gate, &s.gateIdx)
	default:
		return "", errors.New("unknown system prompt")
	}
}

func (s *scriptedCompleter) Stream(_ context.Context, req Request) (TokenStream, error) {
	s.requests = append(s.requests, req)
	if s.failures > 0 {
		s.failures--
		return nil, errors.New("transient failure")
	}
	text, err := s.next(s.chat, &s.chatIdx)
	if err != nil {
		return nil, err
	}
	return &sliceStream{frags: fragmentize(text, 3)}, nil
}

// lastRequest returns the most recent request of either kind.
func (s *scriptedCompleter) lastRequest() Request {
	return s.requests[len(s.requests)-1]
}

// sliceStream yields fixed fragments, mimicking a streaming response.
type sliceStream struct {
	frags []string
	i     int
	err   error
}

func (s *sliceStream) Next() bool {
	if s.i < len(s.frags) {
		s.i++
		return true
	}
	return false
}

func (s *sliceStream) Current() string { return s.frags[s.i-1] }

func (s *sliceStream) Err() error { return s.err }

func fragmentize(text string, n int) []string {
	var frags []string
	runes := []rune(text)
	for len(runes) > 0 {
		k := n
		if k > len(runes) {
			k = len(runes)
		}
		frags = append(frags, string(runes[:k]))
		runes = runes[k:]
	}
	return frags
}

var errDown = errors.New("backend down")

// countingSearch records queries and returns fixed results or a fixed
// error.
type countingSearch struct {
	calls   []string
	results []SearchResult
	err     error
}

func (c *countingSearch) Search(_ context.Context, query string) ([]SearchResult, error) {
	c.calls = append(c.calls, query)
	if c.err != nil {
		return nil, c.err
	}
	return c.results, nil
}
