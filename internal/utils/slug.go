package utils

import (
	"strings"
	"unicode"
)

// Slugify normalizes a title into a URL slug: lowercased, runs of
// non-alphanumeric characters collapsed to single hyphens, trimmed.
// Letters outside ASCII (e.g. Hebrew titles) are kept as-is so localized
// slugs survive the transform.
func Slugify(s string) string {
	var b strings.Builder
	prevHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			prevHyphen = false
		default:
			if !prevHyphen {
				b.WriteRune('-')
				prevHyphen = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
