package scrutari

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ChatStream delivers a chat answer fragment by fragment. When the
// underlying stream is exhausted without error, the accumulated answer
// is appended to the session transcript exactly once.
type ChatStream struct {
	inner   TokenStream
	session *Session
	buf     strings.Builder
	done    bool
}

// Next advances to the following fragment.
func (c *ChatStream) Next() bool {
	if c.inner.Next() {
		c.buf.WriteString(c.inner.Current())
		return true
	}
	if !c.done {
		c.done = true
		if c.inner.Err() == nil {
			c.session.Transcript.Append(RoleAssistant, c.buf.String())
		}
	}
	return false
}

// Current returns the fragment produced by the last successful Next.
func (c *ChatStream) Current() string { return c.inner.Current() }

// Err reports a stream failure, if any.
func (c *ChatStream) Err() error { return c.inner.Err() }

// Text returns the answer accumulated so far. It is the full answer
// once the stream is exhausted.
func (c *ChatStream) Text() string { return c.buf.String() }

// Chat answers one user message against the session's manuscript,
// report, and transcript. The message is appended to the transcript
// before the call; the assistant answer is appended when the returned
// stream completes. Turns are processed one at a time — callers
// serialize access to a session.
//
// When the per-turn gate decides a search is needed, both backends are
// queried with the raw user message and the formatted evidence is
// injected into a scratch copy of the current turn only; the persisted
// transcript never contains it.
func (a *Agent) Chat(ctx context.Context, s *Session, message string) (*ChatStream, error) {
	if a.completer == nil {
		return nil, errors.New("completion provider is not configured")
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, errors.New("message is empty")
	}
	if s.Report() == "" {
		return nil, errors.New("no report yet: run the analysis first")
	}

	s.Transcript.Append(RoleUser, message)

	current := Turn{Role: RoleUser, Content: message}
	if a.chatSearch && len(a.backends()) > 0 && a.needsSearch(ctx, message) {
		block := a.collectEvidence(ctx, []string{message})
		current.Content = fmt.Sprintf("%s\n\nEvidence gathered for this question:\n%s", message, block)
	}

	msgs := buildChatSeedTurns(s.Manuscript(), a.chatExcerptLimit, s.Report())
	tail := s.Transcript.Tail(a.historyWindow + 1)
	if len(tail) > 0 {
		tail = tail[:len(tail)-1] // the current turn goes last, evidence-injected
	}
	msgs = append(msgs, tail...)
	msgs = append(msgs, current)

	stream, err := a.stream(ctx, Request{
		System:      chatSystemPrompt,
		Messages:    msgs,
		Model:       a.model,
		MaxTokens:   a.chatTokens,
		Temperature: -1,
	})
	if err != nil {
		return nil, fmt.Errorf("chat: %w", err)
	}
	return &ChatStream{inner: stream, session: s}, nil
}

// needsSearch issues the cheap tool-need gate call. Any response
// containing "YES" (case-insensitive) triggers a search; a gate failure
// degrades to no search.
func (a *Agent) needsSearch(ctx context.Context, message string) bool {
	resp, err := a.completer.Complete(ctx, Request{
		System:      gateSystemPrompt,
		Messages:    []Turn{{Role: RoleUser, Content: buildGateUserPrompt(message)}},
		Model:       a.model,
		MaxTokens:   a.gateTokens,
		Temperature: -1,
	})
	if err != nil {
		a.log.Warnw("tool gate failed, skipping search", "error", err)
		return false
	}
	return strings.Contains(strings.ToUpper(resp), "YES")
}
