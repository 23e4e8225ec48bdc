package scrutari

import (
	"context"
	"errors"
	"fmt"
)

// Review transforms the session's manuscript into a peer-review report.
//
// The pipeline runs up to four phases: a scan completion, extraction of
// a verification-query list from the scan output, evidence lookups per
// query, and a synthesis completion that produces the report. The
// verification and synthesis phases are configurable; with synthesis
// disabled the scan output itself is the report.
//
// Each completion request and response is appended to the session
// transcript as it completes, so follow-up chat inherits full context
// without re-sending the manuscript. Evidence never enters the
// transcript directly — it is folded into the synthesis prompt.
func (a *Agent) Review(ctx context.Context, s *Session) (string, error) {
	if a.completer == nil {
		return "", errors.New("completion provider is not configured")
	}
	if s.Manuscript() == "" {
		return "", errors.New("no manuscript loaded")
	}

	scanUser := buildScanUserPrompt(s.Manuscript(), a.manuscriptLimit, a.verify && a.synthesize, !a.synthesize)
	scanOut, err := a.complete(ctx, Request{
		System:      scanSystemPrompt,
		Messages:    append(s.Transcript.Turns(), Turn{Role: RoleUser, Content: scanUser}),
		Model:       a.model,
		MaxTokens:   a.reportTokens,
		Temperature: a.scanTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("scan: %w", err)
	}
	s.Transcript.Append(RoleUser, scanUser)
	s.Transcript.Append(RoleAssistant, scanOut)

	if !a.synthesize {
		s.report = scanOut
		return scanOut, nil
	}

	evidence := "(no external verification was requested)\n"
	if a.verify {
		queries, ok := ParseQueryList(scanOut)
		if !ok || len(queries) == 0 {
			a.log.Infow("no verification query list found, using default query")
			queries = []string{DefaultQuery}
		}
		evidence = a.collectEvidence(ctx, queries)
	}

	synthUser := buildSynthesisUserPrompt(evidence)
	report, err := a.complete(ctx, Request{
		System:      scanSystemPrompt,
		Messages:    append(s.Transcript.Turns(), Turn{Role: RoleUser, Content: synthUser}),
		Model:       a.model,
		MaxTokens:   a.reportTokens,
		Temperature: a.scanTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("synthesis: %w", err)
	}
	s.Transcript.Append(RoleUser, synthUser)
	s.Transcript.Append(RoleAssistant, report)
	s.report = report
	return report, nil
}
