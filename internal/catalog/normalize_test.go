package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "lowercases", in: "Garden Shovel", want: "garden shovel"},
		{name: "collapses whitespace", in: "  a \t b\n\nc ", want: "a b c"},
		{name: "already normal", in: "sink mat", want: "sink mat"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain tags",
			in:   "<p>Heavy duty <b>steel</b> blade</p>",
			want: "heavy duty steel blade",
		},
		{
			name: "style block body dropped",
			in:   `<style type="text/css">.x{color:red}</style><p>Drains fast</p>`,
			want: "drains fast",
		},
		{
			name: "script block body dropped",
			in:   `<script>track("view")</script>Cast iron`,
			want: "cast iron",
		},
		{
			name: "style spanning lines",
			in:   "<style>\n.a{}\n.b{}\n</style>Silicone mat",
			want: "silicone mat",
		},
		{name: "no markup", in: "plain text", want: "plain text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripHTML(tt.in))
		})
	}
}

func TestSearchableText(t *testing.T) {
	p := Product{
		Title:       "Sink Mat",
		Vendor:      "HomeWare",
		ProductType: "Kitchen",
		Tags:        TagList{"kitchen", "drain"},
		BodyHTML:    "<style>.x{}</style><p>Protects the basin</p>",
		Handle:      "sink-mat-grey",
	}
	got := SearchableText(p)

	assert.Contains(t, got, "sink mat")
	assert.Contains(t, got, "homeware")
	assert.Contains(t, got, "kitchen drain")
	assert.Contains(t, got, "protects the basin")
	// Handle appears both raw and with dashes as spaces.
	assert.Contains(t, got, "sink-mat-grey")
	assert.Contains(t, got, "sink mat grey")
	assert.NotContains(t, got, ".x{}")
}

func TestNormalizeHandle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "bare slug", in: "garden-shovel", want: "garden-shovel"},
		{name: "products prefix", in: "products/garden-shovel", want: "garden-shovel"},
		{name: "leading slash", in: "/products/garden-shovel", want: "garden-shovel"},
		{
			name: "full url",
			in:   "https://shop.example.com/products/garden-shovel",
			want: "garden-shovel",
		},
		{
			name: "query and fragment stripped",
			in:   "/products/garden-shovel?variant=123#top",
			want: "garden-shovel",
		},
		{name: "trailing slash", in: "products/garden-shovel/", want: "garden-shovel"},
		{name: "case folded", in: "Products/Garden-Shovel", want: "garden-shovel"},
		{name: "empty", in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeHandle(tt.in))
		})
	}
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "punctuation collapsed", in: "Doormat — Welcome!", want: "doormat welcome"},
		{name: "hyphenated", in: "T-Shirt (Classic)", want: "t shirt classic"},
		{name: "plain", in: "Garden Shovel", want: "garden shovel"},
		{name: "empty", in: "", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeTitle(tt.in))
		})
	}
}
