package search

import "strings"

// Matching thresholds. These are tuned against the regression suite, not
// handed down: short tokens must stay boundary-anchored and typo tolerance
// must not bridge unrelated categories.
const (
	// shortTokenMax is the longest token still required to match on a word
	// boundary instead of as an embedded fragment.
	shortTokenMax = 3
	// fuzzyMinLen is the shortest token eligible for edit-distance matching.
	fuzzyMinLen = 4
	// fuzzyWideLen is the length from which two edits are tolerated.
	fuzzyWideLen = 6
)

// synonyms maps collapsed query tokens to additional collapsed forms they
// should match. Tokens are compared in collapsed (alphanumeric-only) form,
// which already unifies pairs like "tshirt" and "t-shirt".
var synonyms = map[string][]string{
	"tee":      {"tshirt"},
	"teeshirt": {"tshirt"},
	"doormat":  {"mat"},
}

// matchResult describes how a document satisfied a query.
type matchResult struct {
	ok    bool
	exact bool // full raw query appeared as a contiguous substring
}

// matchText decides whether a document's searchable text satisfies the query.
// hasToken, when non-nil, reports whether a token exists anywhere in the
// catalog vocabulary; it lets the matcher reserve typo tolerance for terms
// absent from the corpus.
func matchText(text string, tokens []string, q Query, hasToken func(string) bool) matchResult {
	if q.Empty() {
		return matchResult{ok: true}
	}

	// Exclusions reject regardless of any other signal.
	for _, ex := range q.Excluded {
		if containsTerm(text, ex) {
			return matchResult{}
		}
	}

	// Phrases are verbatim contiguous substrings.
	for _, ph := range q.Phrases {
		if !strings.Contains(text, ph) {
			return matchResult{}
		}
	}

	// The whole query as a contiguous substring is always a match, and the
	// strongest relevance signal we track.
	if q.Raw != "" && containsRaw(text, q.Raw) {
		return matchResult{ok: true, exact: true}
	}

	// Otherwise every required term must be present in some order. Phrase-only
	// and exclusion-only queries have already been decided by the checks above.
	for _, term := range q.Terms {
		if !matchTerm(text, tokens, term, hasToken) {
			return matchResult{}
		}
	}
	return matchResult{ok: true}
}

// matchTerm checks one required term against the document.
func matchTerm(text string, tokens []string, term string, hasToken func(string) bool) bool {
	short := len(term) <= shortTokenMax
	if short {
		// Short tokens only count on word boundaries: "mat" must not match
		// inside "matte" or surface dress-category products. Synonyms still
		// apply below; typo tolerance never does.
		if containsBounded(text, term) {
			return true
		}
	} else if strings.Contains(text, term) {
		return true
	}

	collapsed := collapse(term)
	for _, tok := range tokens {
		if collapse(tok) == collapsed {
			return true
		}
	}
	for _, alt := range synonyms[collapsed] {
		for _, tok := range tokens {
			if collapse(tok) == alt {
				return true
			}
		}
	}

	// Typo tolerance: only for terms that are not a known vocabulary token,
	// so a correctly spelled term never drags in near-miss categories.
	if short {
		return false
	}
	if hasToken != nil && hasToken(term) {
		return false
	}
	limit := editLimit(term)
	if limit == 0 {
		return false
	}
	for _, tok := range tokens {
		if fuzzyEqual(term, tok, limit) {
			return true
		}
	}
	return false
}

// containsRaw reports whether the whole raw query occurs as a contiguous
// substring. Ends where the query's edge token is short must land on a word
// boundary, so "mat" never counts inside "ultimate".
func containsRaw(text, raw string) bool {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return false
	}
	needLeft := len(fields[0]) <= shortTokenMax
	needRight := len(fields[len(fields)-1]) <= shortTokenMax
	if !needLeft && !needRight {
		return strings.Contains(text, raw)
	}
	for from := 0; ; {
		i := strings.Index(text[from:], raw)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(raw)
		leftOK := !needLeft || start == 0 || !isAlnum(text[start-1])
		rightOK := !needRight || end == len(text) || !isAlnum(text[end])
		if leftOK && rightOK {
			return true
		}
		from = start + 1
	}
}

// containsTerm applies the same boundary rule as matching: short tokens must
// be whole words ("-pet" rejects "pet bed" but not "carpet"), longer tokens
// match as substrings.
func containsTerm(text, term string) bool {
	if len(term) <= shortTokenMax {
		return containsBounded(text, term)
	}
	return strings.Contains(text, term)
}

// containsBounded reports whether term occurs in text delimited by
// non-alphanumeric characters or the string boundary on both sides.
func containsBounded(text, term string) bool {
	for from := 0; ; {
		i := strings.Index(text[from:], term)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(term)
		leftOK := start == 0 || !isAlnum(text[start-1])
		rightOK := end == len(text) || !isAlnum(text[end])
		if leftOK && rightOK {
			return true
		}
		from = start + 1
	}
}

// editLimit returns the Levenshtein budget for a term of the given length.
func editLimit(term string) int {
	switch n := len(term); {
	case n < fuzzyMinLen:
		return 0
	case n < fuzzyWideLen:
		return 1
	default:
		return 2
	}
}

// fuzzyEqual reports whether two tokens are within limit edits of each other.
// The candidate token must itself be long enough for fuzzy matching, which
// keeps typos from collapsing onto short unrelated words.
func fuzzyEqual(term, tok string, limit int) bool {
	if len(tok) < fuzzyMinLen {
		return false
	}
	if diff := len(term) - len(tok); diff > limit || -diff > limit {
		return false
	}
	return levenshtein(term, tok) <= limit
}

// levenshtein computes the edit distance between two byte strings using a
// rolling two-row table.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = minOf(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}

// collapse strips non-alphanumeric bytes so "t-shirt" and "tshirt" compare
// equal.
func collapse(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if isAlnum(s[i]) {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func isAlnum(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= '0' && c <= '9' || c >= 'A' && c <= 'Z'
}

func minOf(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// tokenize splits normalized text into matchable tokens, keeping intra-word
// punctuation (so "t-shirt" stays one token) and adding nothing else.
func tokenize(text string) []string {
	return strings.Fields(text)
}
