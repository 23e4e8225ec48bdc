package scrutari

import "go.uber.org/zap"

const (
	defaultModel            = "gpt-4o-mini"
	defaultManuscriptLimit  = 120000
	defaultChatExcerptLimit = 30000
	defaultHistoryWindow    = 4
	defaultReportTokens     = 4000
	defaultChatTokens       = 1024
	defaultGateTokens       = 8
	defaultScanTemperature  = 0.3
)

// Option configures an Agent.
type Option func(*Agent)

// WithCompletionProvider sets the language model client.
func WithCompletionProvider(c CompletionProvider) Option {
	return func(a *Agent) { a.completer = c }
}

// WithWebSearch sets the general web search backend.
func WithWebSearch(p SearchProvider) Option {
	return func(a *Agent) { a.web = p }
}

// WithLiteratureSearch sets the biomedical literature search backend.
func WithLiteratureSearch(p SearchProvider) Option {
	return func(a *Agent) { a.literature = p }
}

// WithModel sets the model identifier used for every completion call.
func WithModel(model string) Option {
	return func(a *Agent) {
		if model != "" {
			a.model = model
		}
	}
}

// WithManuscriptLimit caps how many characters of the manuscript are
// placed in the scan prompt. Longer text is truncated silently.
func WithManuscriptLimit(n int) Option {
	return func(a *Agent) {
		if n > 0 {
			a.manuscriptLimit = n
		}
	}
}

// WithChatExcerptLimit caps the manuscript excerpt seeded into chat
// prompts.
func WithChatExcerptLimit(n int) Option {
	return func(a *Agent) {
		if n > 0 {
			a.chatExcerptLimit = n
		}
	}
}

// WithHistoryWindow sets how many trailing transcript turns are replayed
// on each chat turn.
func WithHistoryWindow(n int) Option {
	return func(a *Agent) {
		if n > 0 {
			a.historyWindow = n
		}
	}
}

// WithVerification toggles the query-extraction and evidence phases of
// a review. It has no effect unless synthesis is also enabled.
func WithVerification(enabled bool) Option {
	return func(a *Agent) { a.verify = enabled }
}

// WithSynthesis toggles the synthesis phase. When disabled the scan
// output itself becomes the report.
func WithSynthesis(enabled bool) Option {
	return func(a *Agent) { a.synthesize = enabled }
}

// WithChatSearch toggles the per-turn evidence gate in follow-up chat.
func WithChatSearch(enabled bool) Option {
	return func(a *Agent) { a.chatSearch = enabled }
}

// WithReportTokens sets the output cap for scan and synthesis calls.
func WithReportTokens(n int64) Option {
	return func(a *Agent) {
		if n > 0 {
			a.reportTokens = n
		}
	}
}

// WithChatTokens sets the output cap for chat answers.
func WithChatTokens(n int64) Option {
	return func(a *Agent) {
		if n > 0 {
			a.chatTokens = n
		}
	}
}

// WithScanTemperature sets the sampling temperature for the scan and
// synthesis phases. Negative restores the provider default.
func WithScanTemperature(t float64) Option {
	return func(a *Agent) { a.scanTemperature = t }
}

// WithLogger sets a structured logger. Without it the Agent is silent.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(a *Agent) {
		if log != nil {
			a.log = log
		}
	}
}
