package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello World", "hello-world"},
		{"  Trimmed  Title  ", "trimmed-title"},
		{"Already-Slugged", "already-slugged"},
		{"Symbols!!! And??? More...", "symbols-and-more"},
		{"Numbers 123 stay", "numbers-123-stay"},
		{"דיני עבודה", "דיני-עבודה"},
		{"", ""},
		{"---", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.in), "input %q", tc.in)
	}
}
