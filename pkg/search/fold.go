package search

import (
	"strings"
	"unicode"
)

var commonIssues = map[rune]rune{
	'ö': 'o',
	'ä': 'a',
	'å': 'a',
	'é': 'e',
	'è': 'e',
	'ê': 'e',
	'ë': 'e',
	'ï': 'i',
	'î': 'i',
	'ô': 'o',
	'ü': 'u',
	'û': 'u',
	'ÿ': 'y',
	'ç': 'c',
	'ñ': 'n',
	'ß': 's',
	'æ': 'a',
	'ø': 'o',
}

// Fold lower-cases a normalized query and strips common diacritics, so "Crème" and "creme"
// count as the same search.
func Fold(query string) string {
	query = Normalize(query)
	var b strings.Builder
	b.Grow(len(query))
	for _, r := range query {
		r = unicode.ToLower(r)
		if replacement, ok := commonIssues[r]; ok {
			r = replacement
		}
		b.WriteRune(r)
	}
	return b.String()
}
