package textutil

import (
	"strings"
	"unicode"
)

// minorWords stay lowercase in titles unless they open the title.
var minorWords = map[string]bool{
	"a": true, "an": true, "the": true,
	"and": true, "but": true, "or": true, "nor": true,
	"as": true, "at": true, "by": true, "for": true,
	"in": true, "of": true, "off": true, "on": true,
	"per": true, "so": true, "to": true, "up": true, "via": true, "yet": true,
}

// Title normalizes a book or author name: every word is capitalized except
// minor words (articles, conjunctions, short prepositions), which stay
// lowercase unless they are the first word.
func Title(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		if i > 0 && minorWords[w] {
			continue
		}
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

// CapitalizeWords capitalizes every word, used for city names.
func CapitalizeWords(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

func capitalize(w string) string {
	r := []rune(w)
	if len(r) == 0 {
		return w
	}
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
