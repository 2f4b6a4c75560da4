// Package topics pulls keyword "topics" out of article text.
//
// A topic is simply a surviving token: the text is lowercased and tokenized,
// stopwords and tokens that are not purely alphanumeric are discarded, and the
// first n survivors are kept in their original order. No frequency ranking is
// done.
package topics

import (
	"strings"

	"github.com/IshaanNene/NewsPulse/internal/textproc"
)

// DefaultKeywords is the number of topics kept per article.
const DefaultKeywords = 5

// Extract returns up to n topics from text. The result is never nil.
func Extract(text string, n int) []string {
	if n <= 0 {
		return []string{}
	}

	out := make([]string, 0, n)
	for _, tok := range textproc.Tokenize(strings.ToLower(text)) {
		if !textproc.IsAlnum(tok) || textproc.IsStopword(tok) {
			continue
		}
		out = append(out, tok)
		if len(out) == n {
			break
		}
	}
	return out
}

// Extractor applies Extract with a fixed keyword count.
type Extractor struct {
	NumKeywords int
}

// NewExtractor returns an Extractor keeping n topics; n <= 0 selects
// DefaultKeywords.
func NewExtractor(n int) *Extractor {
	if n <= 0 {
		n = DefaultKeywords
	}
	return &Extractor{NumKeywords: n}
}

// Extract returns the topics of text.
func (e *Extractor) Extract(text string) []string {
	return Extract(text, e.NumKeywords)
}
