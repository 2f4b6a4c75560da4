// Package textproc holds the word tokenizer and English stopword set shared by
// the topic extractor and the sentiment scorer.
package textproc

import (
	"strings"
	"unicode"
)

// clitics are split off the end of a word as their own token, longest first.
var clitics = []string{"n't", "'ll", "'re", "'ve", "'s", "'d", "'m"}

// Tokenize splits text into word tokens in Penn Treebank style: leading and
// trailing punctuation becomes separate tokens and English clitics ("n't",
// "'s", ...) are split from their host word. Inner punctuation is kept, so
// "U.S." and "state-of-the-art" stay whole, except for a comma that does not
// sit between two digits: "profits,revenue" splits but "1,000" does not.
func Tokenize(text string) []string {
	fields := strings.Fields(normalizeQuotes(text))
	tokens := make([]string, 0, len(fields))

	for _, field := range fields {
		runes := []rune(field)

		start := 0
		for start < len(runes) && !isWordRune(runes[start]) {
			tokens = append(tokens, string(runes[start]))
			start++
		}

		end := len(runes)
		var trailing []string
		for end > start && !isWordRune(runes[end-1]) {
			trailing = append(trailing, string(runes[end-1]))
			end--
		}

		if end > start {
			tokens = appendWord(tokens, runes[start:end])
		}
		for i := len(trailing) - 1; i >= 0; i-- {
			tokens = append(tokens, trailing[i])
		}
	}
	return tokens
}

// IsAlnum reports whether tok is non-empty and made only of letters and digits.
func IsAlnum(tok string) bool {
	if tok == "" {
		return false
	}
	for _, r := range tok {
		if !unicode.IsLetter(r) && !unicode.IsNumber(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}

// appendWord appends word, split at inner commas that are not digit
// separators.
func appendWord(tokens []string, word []rune) []string {
	from := 0
	for i := 1; i < len(word)-1; i++ {
		if word[i] != ',' || (unicode.IsDigit(word[i-1]) && unicode.IsDigit(word[i+1])) {
			continue
		}
		if i > from {
			tokens = append(tokens, splitClitic(string(word[from:i]))...)
		}
		tokens = append(tokens, ",")
		from = i + 1
	}
	return append(tokens, splitClitic(string(word[from:]))...)
}

func splitClitic(word string) []string {
	lower := strings.ToLower(word)
	for _, c := range clitics {
		if len(lower) > len(c) && strings.HasSuffix(lower, c) {
			cut := len(word) - len(c)
			return []string{word[:cut], word[cut:]}
		}
	}
	return []string{word}
}

func normalizeQuotes(s string) string {
	return strings.NewReplacer("’", "'", "‘", "'").Replace(s)
}
