package scrutari

import "strings"

// DefaultQuery is substituted whenever no verification-query list can
// be parsed out of the scan output. The evidence phase therefore always
// has at least one query to run.
const DefaultQuery = "health professions education manuscript peer review standards"

// ParseQueryList extracts a verification-query list from free-form scan
// output. It takes the substring from the first '[' to the last ']' and
// parses it as a list of quoted strings (single or double quotes, as a
// model may emit either). The second return value reports whether a
// syntactically valid list was found; it is false for missing brackets,
// malformed literals, and non-string elements. ParseQueryList never
// panics or errors — the caller decides the fallback policy.
func ParseQueryList(raw string) ([]string, bool) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end <= start {
		return nil, false
	}
	return parseStringList(raw[start+1 : end])
}

// parseStringList scans the interior of a bracketed literal: quoted
// strings separated by commas, with optional whitespace and a trailing
// comma allowed.
func parseStringList(body string) ([]string, bool) {
	out := []string{}
	i := 0
	n := len(body)
	for {
		for i < n && isSpace(body[i]) {
			i++
		}
		if i >= n {
			return out, true
		}
		quote := body[i]
		if quote != '\'' && quote != '"' {
			return nil, false
		}
		i++
		var sb strings.Builder
		closed := false
		for i < n {
			c := body[i]
			if c == '\\' && i+1 < n {
				sb.WriteByte(unescape(body[i+1]))
				i += 2
				continue
			}
			if c == quote {
				closed = true
				i++
				break
			}
			sb.WriteByte(c)
			i++
		}
		if !closed {
			return nil, false
		}
		out = append(out, sb.String())
		for i < n && isSpace(body[i]) {
			i++
		}
		if i >= n {
			return out, true
		}
		if body[i] != ',' {
			return nil, false
		}
		i++
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func unescape(c byte) byte {
	switch c {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	default:
		return c
	}
}
