// Package search implements query parsing, relevance matching, and catalog
// filtering over normalized product text.
package search

import "strings"

// Query is a parsed search string.
type Query struct {
	// Raw is the normalized form of the full input, used for contiguous
	// substring matching.
	Raw string
	// Phrases are double-quoted substrings matched verbatim.
	Phrases []string
	// Excluded are tokens prefixed with '-'; their presence rejects a
	// candidate outright.
	Excluded []string
	// Terms are the remaining whitespace-separated tokens, all required.
	Terms []string
}

// Empty reports whether the query carries no matching criteria.
func (q Query) Empty() bool {
	return len(q.Phrases) == 0 && len(q.Excluded) == 0 && len(q.Terms) == 0
}

// ParseQuery turns a raw user search string into a structured query.
// Parsing is tolerant: an unterminated quote is treated as literal text and
// a bare '-' is dropped rather than raising an error.
func ParseQuery(raw string) Query {
	q := Query{}
	rest := strings.ToLower(strings.TrimSpace(raw))

	// Pull out balanced quoted phrases first.
	for {
		start := strings.IndexByte(rest, '"')
		if start < 0 {
			break
		}
		end := strings.IndexByte(rest[start+1:], '"')
		if end < 0 {
			// Unterminated quote: keep the quote character out, treat the
			// remainder as plain terms.
			rest = rest[:start] + " " + rest[start+1:]
			break
		}
		phrase := strings.TrimSpace(rest[start+1 : start+1+end])
		if phrase != "" {
			q.Phrases = append(q.Phrases, phrase)
		}
		rest = rest[:start] + " " + rest[start+2+end:]
	}

	for _, tok := range strings.Fields(rest) {
		if strings.HasPrefix(tok, "-") {
			if ex := strings.TrimPrefix(tok, "-"); ex != "" {
				q.Excluded = append(q.Excluded, ex)
			}
			continue
		}
		q.Terms = append(q.Terms, tok)
	}

	// Raw keeps operators out so exact-substring matching sees only the
	// positive part of the query.
	rawParts := append([]string{}, q.Terms...)
	rawParts = append(rawParts, q.Phrases...)
	q.Raw = strings.Join(rawParts, " ")

	return q
}
