// Package textnorm folds Spanish text into a comparable form.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Fold lowercases s and strips combining marks, so "Recuérdame" and
// "recuerdame" compare equal. The ñ is kept: "año" and "ano" must not collide.
func Fold(s string) string {
	s = strings.ToLower(s)
	// Protect ñ from decomposition into n + U+0303.
	s = strings.ReplaceAll(s, "ñ", "\x00")
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ReplaceAll(out, "\x00", "ñ")
}

// Words splits s into folded tokens made of letters and digits.
func Words(s string) []string {
	return strings.FieldsFunc(Fold(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
