package match

import (
	"strings"
	"unicode"
)

// Fold returns the case-insensitive form of an identifier with separators
// removed, so "order_item", "OrderItem" and "orderitem" compare equal.
func Fold(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	for _, r := range s {
		if isSeparator(r) {
			continue
		}

		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || r == ' '
}
