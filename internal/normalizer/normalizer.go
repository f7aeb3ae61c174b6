package normalizer

import (
	"strings"
	"unicode"

	"github.com/surgebase/porter2"
)

// Normalizer splits, filters, and stems text for indexing and querying.
type Normalizer struct {
	stopWords map[string]struct{}
}

// New returns a Normalizer configured with the default English stop word
// list used by prose normalization; symbol normalization drops no stop
// words.
func New() *Normalizer {
	words := []string{
		"the", "a", "an", "and", "or", "but", "in", "on", "at",
		"to", "for", "of", "with", "by", "from", "as", "is", "was",
		"get", "set", "new", "old", "tmp", "temp", "var", "fn", "func",
	}
	stop := make(map[string]struct{}, len(words))
	for _, w := range words {
		stop[w] = struct{}{}
	}
	return &Normalizer{stopWords: stop}
}

// NormalizeProse tokenizes free text (queries, doc comments) into stemmed,
// stop-word-filtered terms.
func (n *Normalizer) NormalizeProse(text string) []string {
	var tokens []string
	for _, word := range splitWords(text) {
		word = strings.ToLower(word)
		if _, stop := n.stopWords[word]; stop {
			continue
		}
		if len(word) <= 2 {
			continue
		}
		tokens = append(tokens, porter2.Stem(word))
	}
	return tokens
}

// NormalizeSymbol splits a symbol name on underscores and camelCase
// boundaries, then stems each resulting word. Used to populate and query
// the normalized symbol-map tier.
func (n *Normalizer) NormalizeSymbol(name string) []string {
	var words []string
	for _, part := range strings.Split(name, "_") {
		words = append(words, splitCamelCase(part)...)
	}

	var tokens []string
	for _, w := range words {
		w = strings.ToLower(w)
		if len(w) <= 1 {
			continue
		}
		tokens = append(tokens, porter2.Stem(w))
	}
	return tokens
}

// splitCamelCase breaks s at each boundary where an uppercase character
// follows a lowercase character; runs of uppercase letters (acronyms) stay
// together until broken by a following lowercase letter.
func splitCamelCase(s string) []string {
	var result []string
	var current strings.Builder
	lastWasUpper := false

	for _, ch := range s {
		if unicode.IsUpper(ch) {
			if current.Len() > 0 && !lastWasUpper {
				result = append(result, current.String())
				current.Reset()
			}
			current.WriteRune(ch)
			lastWasUpper = true
		} else {
			current.WriteRune(ch)
			lastWasUpper = false
		}
	}

	if current.Len() > 0 {
		result = append(result, current.String())
	}

	return result
}

// splitWords breaks text on anything that is not a letter or digit.
func splitWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
