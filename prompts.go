package scrutari

import (
	"fmt"
	"strings"
)

const scanSystemPrompt = "You are a senior academic editor for high-impact journals like 'Medical Teacher' and 'BMC Medical Education'. " +
	"You are critical, precise, and constructive. " +
	"You adhere to guidelines like CONSORT (trials), SRQR (qualitative), " +
	"and focus on educational impact (Kirkpatrick levels)."

const chatSystemPrompt = "You are a research assistant who has read the manuscript and the review report. " +
	"Ground your answers in the manuscript, the report, and any evidence included in the conversation. " +
	"When asked to rewrite or draft text, write in an academic register."

const gateSystemPrompt = "You decide whether answering a question requires an external literature or web search. " +
	"Reply with exactly YES or NO and nothing else."

// reportStructure is the required section layout of the final report.
const reportStructure = `Generate a formal Peer Review Report. Use the following structure:

1. **Overview & General Recommendation**: (Accept, Minor Revisions, Major Revisions, Reject).
2. **Strengths**: What is novel or well-done?
3. **Major Weaknesses**: Critical flaws in methodology, ethics, or analysis.
4. **Specific Comments**:
   - **Introduction**: Is the gap identified? Are citations current?
   - **Methods**: Is it reproducible? Is the qualitative/quantitative approach sound?
   - **Results**: Are they clear?
   - **Discussion**: Do they overstate findings?
5. **Missing Citations/Evidence**: Identify gaps where the authors should have cited more evidence.
6. **Actionable Recommendations**: Bullet points on exactly how to fix the paper.

The tone must be professional, supportive but rigorous.`

// buildScanUserPrompt embeds a bounded manuscript prefix and asks for
// the scan-phase output. When fullReport is set (no synthesis phase)
// the scan is asked for the complete report directly; otherwise it is
// asked for critique observations and, when wantQueries is set, a
// bracketed list of claims needing external verification.
func buildScanUserPrompt(manuscript string, limit int, wantQueries, fullReport bool) string {
	var b strings.Builder
	b.WriteString("Here is a submitted manuscript:\n<manuscript>\n")
	b.WriteString(truncate(manuscript, limit))
	b.WriteString("\n</manuscript>\n")
	b.WriteString("(Note: text truncated if too long; strictly analyze the provided text.)\n\n")
	b.WriteString("Please perform a critical analysis focusing on:\n")
	b.WriteString("1. Clarity of the Research Question.\n")
	b.WriteString("2. Methodology rigor (sample size, ethics, statistical/qualitative analysis).\n")
	b.WriteString("3. Alignment with current Health Professions Education (HPE) literature, ")
	b.WriteString("including the golden thread from stated gap through methods to conclusions.\n\n")
	if fullReport {
		b.WriteString(reportStructure)
		return b.String()
	}
	b.WriteString("Write out your critique observations in plain prose.")
	if wantQueries {
		b.WriteString("\n\nThen list the specific claims or citations that most need external verification. ")
		b.WriteString("Output them on a single line as a bracketed list of quoted strings, for example:\n")
		b.WriteString(`["claim one", "claim two"]` + "\n")
		b.WriteString("Keep the list to at most five entries.")
	}
	return b.String()
}

// buildSynthesisUserPrompt carries the evidence block and the required
// report structure for the final phase.
func buildSynthesisUserPrompt(evidence string) string {
	var b strings.Builder
	b.WriteString("Here is supporting evidence gathered for the claims you flagged:\n\n")
	b.WriteString(evidence)
	b.WriteString("\nUsing your critique above and this evidence, ")
	b.WriteString(strings.ToLower(reportStructure[:1]))
	b.WriteString(reportStructure[1:])
	return b.String()
}

func buildGateUserPrompt(question string) string {
	return fmt.Sprintf("Question from the user:\n%s\n\nDoes answering this require searching external literature or the web? YES or NO:", question)
}

// buildChatSeedTurns establishes the manuscript excerpt and the report
// as prior context for a chat turn. The transcript itself is windowed
// for size, so the seed pair re-anchors every turn.
func buildChatSeedTurns(manuscript string, limit int, report string) []Turn {
	return []Turn{
		{Role: RoleUser, Content: "Manuscript Context: " + truncate(manuscript, limit) + "..."},
		{Role: RoleAssistant, Content: report},
	}
}

// truncate caps s at limit characters (runes), passing shorter text
// through unchanged. It never errors.
func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
