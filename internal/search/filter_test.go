package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saltshine/storefront/internal/catalog"
)

// fixtureProducts is a small catalog exercising every matching rule: short
// tokens, typos, synonyms, phrases, exclusions, and category isolation.
func fixtureProducts() []catalog.Product {
	return []catalog.Product{
		{
			ID: 1, Title: "Garden Shovel", Handle: "garden-shovel",
			ProductType: "Tools", Tags: catalog.TagList{"garden", "outdoor"},
			BodyHTML: "<p>Heavy duty steel blade for garden beds</p>",
		},
		{
			ID: 2, Title: "Snow Shovel", Handle: "snow-shovel",
			ProductType: "Tools", Tags: catalog.TagList{"winter", "outdoor"},
			BodyHTML: "<p>Wide scoop for driveways</p>",
		},
		{
			ID: 3, Title: "Sink Mat", Handle: "sink-mat",
			ProductType: "Kitchen", Tags: catalog.TagList{"kitchen", "drain"},
			BodyHTML: "<p>Protects the basin, drains fast</p>",
		},
		{
			ID: 4, Title: "Pet Feeding Mat", Handle: "pet-feeding-mat",
			ProductType: "Pet Supplies", Tags: catalog.TagList{"pet", "feeding"},
			BodyHTML: "<p>Waterproof mat for food bowls</p>",
		},
		{
			ID: 5, Title: "Sleeveless Maxi Dress", Handle: "sleeveless-maxi-dress",
			ProductType: "Dresses", Tags: catalog.TagList{"summer"},
			BodyHTML: "<p>Flowing ankle length cut</p>",
		},
		{
			ID: 6, Title: "Classic T-Shirt", Handle: "classic-t-shirt",
			ProductType: "Basics", Tags: catalog.TagList{"t-shirt", "cotton"},
			BodyHTML: "<p>Everyday crew neck</p>",
		},
		{
			ID: 7, Title: "Carpet Runner", Handle: "carpet-runner",
			ProductType: "Rugs", Tags: catalog.TagList{"hallway"},
			BodyHTML: "<p>Low pile runner for hallways</p>",
		},
	}
}

func ids(products []catalog.Product) []int64 {
	if len(products) == 0 {
		return nil
	}
	out := make([]int64, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func TestFilterProducts_EmptyFilterReturnsInputUnchanged(t *testing.T) {
	products := fixtureProducts()
	got := FilterProducts(products, Filter{})

	require.Len(t, got, len(products))
	assert.Equal(t, ids(products), ids(got))
}

func TestFilterProducts_Query(t *testing.T) {
	products := fixtureProducts()

	tests := []struct {
		name  string
		query string
		want  []int64
	}{
		{name: "term matches both shovels", query: "shovel", want: []int64{1, 2}},
		{name: "typo reaches shovels", query: "shovle", want: []int64{1, 2}},
		{name: "two terms narrow to one", query: "garden shovel", want: []int64{1}},
		{
			name:  "short token stays on word boundaries",
			query: "mat",
			want:  []int64{3, 4},
		},
		{name: "exclusion drops pet products", query: "mat -pet", want: []int64{3}},
		{name: "exclusion only", query: "-shovel", want: []int64{3, 4, 5, 6, 7}},
		{name: "quoted phrase", query: `"sink mat"`, want: []int64{3}},
		{name: "phrase not present", query: `"snow mat"`, want: nil},
		{name: "collapsed synonym", query: "tshirt", want: []int64{6}},
		{name: "short synonym", query: "tee", want: []int64{6}},
		{name: "all terms required", query: "sleeveless maxi dress", want: []int64{5}},
		{name: "no match", query: "zamboni", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterProducts(products, Filter{Query: tt.query})
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilterProducts_ShortQueryStaysOnBoundaries(t *testing.T) {
	// "mat" occurs inside "Ultimate" and "tee" inside "steel"; neither may
	// count as a whole-query substring hit.
	products := append(fixtureProducts(), catalog.Product{
		ID: 9, Title: "Ultimate Maxi Dress", Handle: "ultimate-maxi-dress",
		ProductType: "Dresses",
	})

	got := FilterProducts(products, Filter{Query: "mat"})
	assert.Equal(t, []int64{3, 4}, ids(got))

	got = FilterProducts(products, Filter{Query: "tee"})
	assert.Equal(t, []int64{6}, ids(got))
}

func TestFilterProducts_ShortTokenNeverFuzzy(t *testing.T) {
	// "mut" is one edit from "mat" but short tokens get no typo budget.
	got := FilterProducts(fixtureProducts(), Filter{Query: "mut"})
	assert.Empty(t, got)
}

func TestFilterProducts_CorrectSpellingNeverBridges(t *testing.T) {
	// "shovel" is a vocabulary token, so it must not fuzzy-match near misses
	// like a hypothetical "shove" product.
	products := append(fixtureProducts(), catalog.Product{
		ID: 8, Title: "Shove Bar", Handle: "shove-bar", ProductType: "Tools",
	})
	got := FilterProducts(products, Filter{Query: "shovel"})
	assert.Equal(t, []int64{1, 2}, ids(got))
}

func TestFilterProducts_ExactPhraseRanksFirst(t *testing.T) {
	// Both products match "sink mat" as terms, but only one contains the
	// contiguous phrase; it must sort ahead regardless of input order.
	products := []catalog.Product{
		{ID: 1, Title: "Mat for the Kitchen Sink", Handle: "kitchen-sink-protector"},
		{ID: 2, Title: "Sink Mat", Handle: "sink-mat"},
	}
	got := FilterProducts(products, Filter{Query: "sink mat"})
	require.Len(t, got, 2)
	assert.Equal(t, []int64{2, 1}, ids(got))
}

func TestFilterProducts_ProductType(t *testing.T) {
	products := fixtureProducts()

	got := FilterProducts(products, Filter{ProductType: "tools"})
	assert.Equal(t, []int64{1, 2}, ids(got))

	got = FilterProducts(products, Filter{ProductType: "Tools", Query: "snow"})
	assert.Equal(t, []int64{2}, ids(got))

	got = FilterProducts(products, Filter{ProductType: "unknown"})
	assert.Empty(t, got)
}

func TestFilterProducts_Collection(t *testing.T) {
	products := fixtureProducts()
	collections := []catalog.Collection{
		{ID: 100, Title: "Kitchen", Handle: "kitchen"},
		{ID: 101, Title: "Dresses", Handle: "dresses-all"},
	}

	t.Run("handle as text", func(t *testing.T) {
		got := FilterProducts(products, Filter{Collection: "kitchen", Collections: collections})
		assert.Equal(t, []int64{3}, ids(got))
	})

	t.Run("title lookup when handle text absent", func(t *testing.T) {
		got := FilterProducts(products, Filter{Collection: "dresses-all", Collections: collections})
		assert.Equal(t, []int64{5}, ids(got))
	})

	t.Run("unknown collection matches nothing", func(t *testing.T) {
		got := FilterProducts(products, Filter{Collection: "nonexistent", Collections: collections})
		assert.Empty(t, got)
	})
}

func TestUniqueProductTypes(t *testing.T) {
	products := []catalog.Product{
		{ProductType: "Tools"},
		{ProductType: "tools"},
		{ProductType: "Kitchen"},
		{ProductType: ""},
		{ProductType: " Dresses "},
	}
	assert.Equal(t, []string{"dresses", "kitchen", "tools"}, UniqueProductTypes(products))
}

func TestMatchesCollection(t *testing.T) {
	p := catalog.Product{Title: "Sink Mat", Handle: "sink-mat", ProductType: "Kitchen"}
	collections := []catalog.Collection{{Title: "Kitchen", Handle: "helpers"}}

	assert.True(t, MatchesCollection(p, "", nil))
	assert.True(t, MatchesCollection(p, "kitchen", nil))
	assert.True(t, MatchesCollection(p, "sink-mat", nil))
	assert.False(t, MatchesCollection(p, "garden", nil))
	// Handle resolves through the collection title.
	assert.True(t, MatchesCollection(p, "helpers", collections))
}

func TestIndex_Reuse(t *testing.T) {
	ix := NewIndex(fixtureProducts())

	assert.Equal(t, []int64{1, 2}, ids(ix.Filter(Filter{Query: "shovel"})))
	assert.Equal(t, []int64{3, 4}, ids(ix.Filter(Filter{Query: "mat"})))
	assert.Len(t, ix.Filter(Filter{}), 7)
}
