// Package tfidf implements the bag-of-words TF-IDF model: tokenization,
// vocabulary and smoothed IDF fitting, L2-normalized sparse document vectors
// and cosine similarity against a frozen model.
package tfidf

import (
	"regexp"
	"strings"

	"github.com/kljensen/snowball"
)

// TokenPattern matches runs of two or more word characters.
const TokenPattern = `[\p{L}\p{N}_]{2,}`

var tokenRe = regexp.MustCompile(TokenPattern)

// Analyzer turns text into terms. It is persisted with the vectorizer so that
// query-time tokenization reproduces fit-time tokenization exactly.
type Analyzer struct {
	Lowercase bool
	Stem      bool
}

// DefaultAnalyzer lower-cases and does not stem.
func DefaultAnalyzer() Analyzer {
	return Analyzer{Lowercase: true}
}

// Tokenize splits text into terms in order of appearance.
func (a Analyzer) Tokenize(text string) []string {
	if a.Lowercase {
		text = strings.ToLower(text)
	}
	tokens := tokenRe.FindAllString(text, -1)
	if a.Stem {
		for i, t := range tokens {
			tokens[i] = stem(t)
		}
	}
	return tokens
}

// Counts returns raw term frequencies of text.
func (a Analyzer) Counts(text string) map[string]int {
	tokens := a.Tokenize(text)
	counts := make(map[string]int, len(tokens))
	for _, t := range tokens {
		counts[t]++
	}
	return counts
}

func stem(word string) string {
	stemmed, err := snowball.Stem(word, "english", true)
	if err != nil || stemmed == "" {
		return word
	}
	return stemmed
}
