package scrutari

import "strings"

// Transcript is the ordered, append-only record of role-tagged turns
// shared between the review pipeline and the follow-up chat. Insertion
// order is conversational order and is replayed verbatim to the
// completion provider.
type Transcript struct {
	turns []Turn
}

// Append adds a turn to the end of the transcript.
func (t *Transcript) Append(role, content string) {
	t.turns = append(t.turns, Turn{Role: role, Content: content})
}

// Len reports the number of turns.
func (t *Transcript) Len() int { return len(t.turns) }

// Turns returns a copy of all turns in order.
func (t *Transcript) Turns() []Turn {
	out := make([]Turn, len(t.turns))
	copy(out, t.turns)
	return out
}

// Tail returns a copy of the last n turns (all turns when n exceeds the
// length, nothing when n <= 0).
func (t *Transcript) Tail(n int) []Turn {
	if n <= 0 {
		return nil
	}
	if n > len(t.turns) {
		n = len(t.turns)
	}
	out := make([]Turn, n)
	copy(out, t.turns[len(t.turns)-n:])
	return out
}

func (t *Transcript) clear() { t.turns = nil }

// Session owns the state of one review: the manuscript text, the
// generated report, and the conversation transcript. A Session is used
// by a single turn at a time; callers serialize access.
type Session struct {
	ID         string
	Transcript Transcript

	manuscript string
	report     string
}

// NewSession creates an empty session.
func NewSession(id string) *Session {
	return &Session{ID: id}
}

// SetManuscript stores the extracted manuscript text. It is set at most
// once: further calls are ignored while a manuscript is loaded, until
// Reset. Returns false when the call was ignored or the text is blank.
func (s *Session) SetManuscript(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" || s.manuscript != "" {
		return false
	}
	s.manuscript = text
	return true
}

// Manuscript returns the loaded manuscript text, or "" when none is set.
func (s *Session) Manuscript() string { return s.manuscript }

// Report returns the generated review report, or "" before analysis.
func (s *Session) Report() string { return s.report }

// Reset clears the manuscript, report, and transcript, returning the
// session to its pre-upload state.
func (s *Session) Reset() {
	s.manuscript = ""
	s.report = ""
	s.Transcript.clear()
}
