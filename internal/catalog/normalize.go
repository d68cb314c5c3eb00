package catalog

import (
	"regexp"
	"strings"
)

var (
	styleBlockRe  = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	scriptBlockRe = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	tagRe         = regexp.MustCompile(`<[^>]*>`)
	spaceRe       = regexp.MustCompile(`\s+`)
	nonAlnumRe    = regexp.MustCompile(`[^a-z0-9]+`)
	schemeRe      = regexp.MustCompile(`^[a-z][a-z0-9+.-]*://[^/]*`)
)

// Normalize lower-cases, trims, and collapses internal whitespace. It never
// fails; the empty string is returned for empty input.
func Normalize(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(strings.ToLower(s), " "))
}

// FlattenStrings joins a list of values into one normalized string.
func FlattenStrings(values []string) string {
	return Normalize(strings.Join(values, " "))
}

// StripHTML removes markup from rich HTML, dropping the bodies of embedded
// style and script blocks, and collapses the remainder to single spaces.
func StripHTML(s string) string {
	s = styleBlockRe.ReplaceAllString(s, " ")
	s = scriptBlockRe.ReplaceAllString(s, " ")
	s = tagRe.ReplaceAllString(s, " ")
	return Normalize(s)
}

// SearchableText flattens the fields that participate in search matching:
// title, vendor, product type, tags, stripped description, and handle. The
// handle contributes both its raw form and a dashes-to-spaces form so slug
// words are matchable as tokens.
func SearchableText(p Product) string {
	parts := []string{
		p.Title,
		p.Vendor,
		p.ProductType,
		strings.Join(p.Tags, " "),
		StripHTML(p.BodyHTML),
		p.Handle,
		strings.ReplaceAll(p.Handle, "-", " "),
	}
	return FlattenStrings(parts)
}

// NormalizeHandle reduces a handle or product URL to the bare slug:
// protocol and host, leading slashes, and a "products/" path prefix are
// stripped, and the result is case-folded.
func NormalizeHandle(raw string) string {
	h := strings.ToLower(strings.TrimSpace(raw))
	h = schemeRe.ReplaceAllString(h, "")
	h = strings.TrimLeft(h, "/")
	h = strings.TrimPrefix(h, "products/")
	if i := strings.IndexAny(h, "?#"); i >= 0 {
		h = h[:i]
	}
	return strings.TrimSuffix(h, "/")
}

// NormalizeTitle reduces a title to its alphanumeric tokens, case-folded and
// space-joined, so near-identical titles compare equal.
func NormalizeTitle(raw string) string {
	return strings.TrimSpace(nonAlnumRe.ReplaceAllString(strings.ToLower(raw), " "))
}

// splitTags splits a comma-joined tag string into trimmed tags.
func splitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
