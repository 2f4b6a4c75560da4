package textproc

import (
	_ "embed"
	"strings"
	"sync"
)

//go:embed stopwords_en.txt
var stopwordsEN string

var (
	stopOnce sync.Once
	stopSet  map[string]struct{}
)

// Stopwords returns the English stopword set. It is built once and must not
// be modified by callers.
func Stopwords() map[string]struct{} {
	stopOnce.Do(func() {
		lines := strings.Split(stopwordsEN, "\n")
		stopSet = make(map[string]struct{}, len(lines))
		for _, line := range lines {
			if w := strings.TrimSpace(line); w != "" {
				stopSet[w] = struct{}{}
			}
		}
	})
	return stopSet
}

// IsStopword reports whether the lowercase token w is an English stopword.
func IsStopword(w string) bool {
	_, ok := Stopwords()[w]
	return ok
}
