package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		name         string
		in           string
		wantTerms    []string
		wantPhrases  []string
		wantExcluded []string
		wantRaw      string
	}{
		{
			name: "empty", in: "",
		},
		{
			name: "whitespace only", in: "   \t ",
		},
		{
			name:      "single term",
			in:        "shovel",
			wantTerms: []string{"shovel"},
			wantRaw:   "shovel",
		},
		{
			name:      "multiple terms lowercased",
			in:        "  Garden  SHOVEL ",
			wantTerms: []string{"garden", "shovel"},
			wantRaw:   "garden shovel",
		},
		{
			name:        "quoted phrase",
			in:          `"sink mat"`,
			wantPhrases: []string{"sink mat"},
			wantRaw:     "sink mat",
		},
		{
			name:        "phrase plus term",
			in:          `"sink mat" grey`,
			wantTerms:   []string{"grey"},
			wantPhrases: []string{"sink mat"},
			wantRaw:     "grey sink mat",
		},
		{
			name:         "exclusion",
			in:           "mat -pet",
			wantTerms:    []string{"mat"},
			wantExcluded: []string{"pet"},
			wantRaw:      "mat",
		},
		{
			name:         "exclusion only",
			in:           "-pet",
			wantExcluded: []string{"pet"},
		},
		{
			name:      "bare dash dropped",
			in:        "mat -",
			wantTerms: []string{"mat"},
			wantRaw:   "mat",
		},
		{
			name:      "unterminated quote is literal",
			in:        `"sink mat`,
			wantTerms: []string{"sink", "mat"},
			wantRaw:   "sink mat",
		},
		{
			name:        "two phrases",
			in:          `"cast iron" "sink mat"`,
			wantPhrases: []string{"cast iron", "sink mat"},
			wantRaw:     "cast iron sink mat",
		},
		{
			name: "empty phrase ignored",
			in:   `""`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := ParseQuery(tt.in)
			assert.Equal(t, tt.wantTerms, q.Terms)
			assert.Equal(t, tt.wantPhrases, q.Phrases)
			assert.Equal(t, tt.wantExcluded, q.Excluded)
			assert.Equal(t, tt.wantRaw, q.Raw)
			assert.Equal(t,
				len(tt.wantTerms) == 0 && len(tt.wantPhrases) == 0 && len(tt.wantExcluded) == 0,
				q.Empty(),
			)
		})
	}
}
