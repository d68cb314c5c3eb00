package search

import (
	"sort"
	"strings"

	"github.com/bits-and-blooms/bloom/v3"

	"github.com/saltshine/storefront/internal/catalog"
)

// vocabularyFPR is the bloom filter false-positive rate for the catalog
// vocabulary. A false positive only suppresses an unnecessary fuzzy scan.
const vocabularyFPR = 0.001

// Filter is the composed predicate applied over a product list. Zero-value
// fields are inactive; all active fields are AND-ed.
type Filter struct {
	Query       string
	Collection  string
	ProductType string
	// Collections supplies titles for collection-handle lookup.
	Collections []catalog.Collection
}

// Index holds precomputed searchable text and the catalog vocabulary so
// repeated filtering does not re-strip HTML or re-tokenize every product.
type Index struct {
	products []catalog.Product
	texts    []string
	tokens   [][]string
	vocab    *bloom.BloomFilter
}

// NewIndex builds an index over the given products. The input slice is not
// copied; callers must not mutate it while the index is in use.
func NewIndex(products []catalog.Product) *Index {
	ix := &Index{
		products: products,
		texts:    make([]string, len(products)),
		tokens:   make([][]string, len(products)),
	}
	var total uint
	for i, p := range products {
		ix.texts[i] = catalog.SearchableText(p)
		ix.tokens[i] = tokenize(ix.texts[i])
		total += uint(len(ix.tokens[i]))
	}
	if total == 0 {
		total = 1
	}
	ix.vocab = bloom.NewWithEstimates(total, vocabularyFPR)
	for _, toks := range ix.tokens {
		for _, t := range toks {
			ix.vocab.AddString(t)
		}
	}
	return ix
}

// Filter applies the composed predicates, preserving the relative order of
// the input except that exact-phrase query matches rank ahead of term-level
// matches.
func (ix *Index) Filter(f Filter) []catalog.Product {
	q := ParseQuery(f.Query)
	wantType := strings.ToLower(strings.TrimSpace(f.ProductType))
	wantCollection := strings.ToLower(strings.TrimSpace(f.Collection))

	var exact, rest []catalog.Product
	for i, p := range ix.products {
		if wantType != "" && strings.ToLower(p.ProductType) != wantType {
			continue
		}
		if wantCollection != "" && !matchesCollectionText(ix.texts[i], wantCollection, f.Collections) {
			continue
		}
		res := matchText(ix.texts[i], ix.tokens[i], q, ix.hasToken)
		if !res.ok {
			continue
		}
		if res.exact && !q.Empty() {
			exact = append(exact, p)
		} else {
			rest = append(rest, p)
		}
	}
	return append(exact, rest...)
}

func (ix *Index) hasToken(tok string) bool {
	return ix.vocab.TestString(tok)
}

// FilterProducts is the one-shot form of Index.Filter for callers that do
// not retain an index between queries.
func FilterProducts(products []catalog.Product, f Filter) []catalog.Product {
	return NewIndex(products).Filter(f)
}

// UniqueProductTypes returns the distinct, non-empty, case-normalized
// product types in alphabetical order.
func UniqueProductTypes(products []catalog.Product) []string {
	seen := make(map[string]struct{})
	var types []string
	for _, p := range products {
		t := strings.ToLower(strings.TrimSpace(p.ProductType))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// MatchesCollection reports whether a product belongs to the collection with
// the given handle. Membership is a text heuristic: the dataset carries no
// authoritative membership list, so a product matches when its searchable
// text contains the handle, the handle with dashes as spaces, or the
// collection's title.
func MatchesCollection(p catalog.Product, handle string, collections []catalog.Collection) bool {
	return matchesCollectionText(catalog.SearchableText(p), strings.ToLower(strings.TrimSpace(handle)), collections)
}

func matchesCollectionText(text, handle string, collections []catalog.Collection) bool {
	if handle == "" {
		return true
	}
	if strings.Contains(text, handle) {
		return true
	}
	if spaced := strings.ReplaceAll(handle, "-", " "); spaced != handle && strings.Contains(text, spaced) {
		return true
	}
	for _, c := range collections {
		if strings.EqualFold(c.Handle, handle) {
			title := strings.ToLower(strings.TrimSpace(c.Title))
			return title != "" && strings.Contains(text, title)
		}
	}
	return false
}
