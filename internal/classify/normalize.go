package classify

import (
	"strings"
	"unicode"
)

// Normalize maps raw text to the canonical form used for every comparison:
// lowercase with all whitespace removed, internal runs included. The same
// function is applied to material names, keywords, and override keys, so
// matching stays symmetric. Normalize is idempotent.
func Normalize(text string) string {
	lowered := strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(lowered))
	for _, r := range lowered {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
