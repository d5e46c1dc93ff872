// Package textfold folds free text into accent-free comparison keys.
package textfold

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StripAccents removes combining marks, so "Niños" becomes "Ninos".
// A new transformer is built per call; transform chains are not safe for
// concurrent use.
func StripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// Upper strips accents and uppercases.
func Upper(s string) string {
	return strings.ToUpper(StripAccents(s))
}

// Slug builds a lowercase hyphenated slug from a label:
// "Café & Bar" becomes "cafe-bar".
func Slug(s string) string {
	s = strings.ToLower(StripAccents(strings.TrimSpace(s)))

	var b strings.Builder
	b.Grow(len(s))
	hyphen := false
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			hyphen = false
			continue
		}
		if !hyphen && b.Len() > 0 {
			b.WriteByte('-')
			hyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// Tokens splits folded text on anything that is not a letter or digit.
func Tokens(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
