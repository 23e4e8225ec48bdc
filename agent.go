package scrutari

import (
	"context"

	"go.uber.org/zap"
)

// Agent runs the manuscript critique pipeline and answers follow-up
// questions. All state lives in the Session passed to each call; the
// Agent itself only carries configuration and providers.
type Agent struct {
	completer  CompletionProvider
	web        SearchProvider
	literature SearchProvider

	model            string
	reportTokens     int64
	chatTokens       int64
	gateTokens       int64
	scanTemperature  float64
	manuscriptLimit  int
	chatExcerptLimit int
	historyWindow    int
	verify           bool
	synthesize       bool
	chatSearch       bool

	log *zap.SugaredLogger
}

// New constructs an Agent with optional configuration.
func New(opts ...Option) *Agent {
	a := &Agent{
		model:            defaultModel,
		reportTokens:     defaultReportTokens,
		chatTokens:       defaultChatTokens,
		gateTokens:       defaultGateTokens,
		scanTemperature:  defaultScanTemperature,
		manuscriptLimit:  defaultManuscriptLimit,
		chatExcerptLimit: defaultChatExcerptLimit,
		historyWindow:    defaultHistoryWindow,
		verify:           true,
		synthesize:       true,
		chatSearch:       true,
		log:              zap.NewNop().Sugar(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// complete issues a completion call, retrying exactly once on failure.
// Scan and synthesis have no safe fallback value, so a second failure
// propagates to the caller.
func (a *Agent) complete(ctx context.Context, req Request) (string, error) {
	text, err := a.completer.Complete(ctx, req)
	if err == nil {
		return text, nil
	}
	a.log.Warnw("completion failed, retrying once", "error", err)
	return a.completer.Complete(ctx, req)
}

// stream opens a streaming completion call, retrying exactly once when
// the stream cannot be opened.
func (a *Agent) stream(ctx context.Context, req Request) (TokenStream, error) {
	s, err := a.completer.Stream(ctx, req)
	if err == nil {
		return s, nil
	}
	a.log.Warnw("streaming completion failed, retrying once", "error", err)
	return a.completer.Stream(ctx, req)
}
