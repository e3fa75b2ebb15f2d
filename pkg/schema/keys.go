package schema

import (
	"strings"
	"unicode"
)

// GroupKey normalizes a group label into the key its nested object is stored
// under in submission output: whitespace is stripped and the first character
// lower-cased, so "Billing Address" becomes "billingAddress".
func GroupKey(label string) string {
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	key := b.String()
	if key == "" {
		return ""
	}
	runes := []rune(key)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}
