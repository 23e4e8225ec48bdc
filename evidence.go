package scrutari

import (
	"context"
	"fmt"
	"strings"
)

const evidenceHeadingPrefix = "### Evidence for: "

type backend struct {
	name     string
	provider SearchProvider
}

// backends returns the configured search backends in their fixed order:
// general web first, then biomedical literature.
func (a *Agent) backends() []backend {
	var out []backend
	if a.web != nil {
		out = append(out, backend{name: "web", provider: a.web})
	}
	if a.literature != nil {
		out = append(out, backend{name: "literature", provider: a.literature})
	}
	return out
}

// collectEvidence runs every query against every configured backend,
// sequentially and in order, and concatenates the results under one
// heading per query. Lookup failures become an "unavailable" line so a
// bad query or backend never blocks the rest. The returned block is
// never empty when at least one query is given.
func (a *Agent) collectEvidence(ctx context.Context, queries []string) string {
	var b strings.Builder
	for _, q := range queries {
		b.WriteString(evidenceHeadingPrefix)
		b.WriteString(q)
		b.WriteString("\n")
		backends := a.backends()
		if len(backends) == 0 {
			b.WriteString("- no search backends configured\n\n")
			continue
		}
		for _, be := range backends {
			results, err := be.provider.Search(ctx, q)
			if err != nil {
				a.log.Warnw("evidence lookup failed", "backend", be.name, "query", q, "error", err)
				fmt.Fprintf(&b, "- %s search unavailable\n", be.name)
				continue
			}
			if len(results) == 0 {
				fmt.Fprintf(&b, "- %s: no results\n", be.name)
				continue
			}
			fmt.Fprintf(&b, "%s results:\n", be.name)
			for i, r := range results {
				fmt.Fprintf(&b, "%d. %s | %s | %s\n",
					i+1, strings.TrimSpace(r.Title), strings.TrimSpace(r.URL), strings.TrimSpace(r.Snippet))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
