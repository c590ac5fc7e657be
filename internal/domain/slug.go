package domain

import (
	"strings"
	"unicode"
)

// Slugify lowercases value and collapses runs of non-alphanumeric
// characters into single hyphens.
func Slugify(value string) string {
	var b strings.Builder
	b.Grow(len(value))

	pendingHyphen := false
	for _, r := range strings.ToLower(strings.TrimSpace(value)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		default:
			pendingHyphen = true
		}
	}
	return b.String()
}
