// Package sentiment scores text polarity with a word lexicon and maps the
// score to a three-way label.
package sentiment

import (
	_ "embed"
	"fmt"
	"io"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/IshaanNene/NewsPulse/internal/textproc"
	"github.com/IshaanNene/NewsPulse/internal/types"
)

//go:embed lexicon.yaml
var defaultLexicon string

// negationFactor is applied to a scored word preceded by a negation.
const negationFactor = -0.5

// Lexicon maps words to polarity and lists the modifiers that act on them.
type Lexicon struct {
	Words        map[string]float64 `yaml:"words"`
	Intensifiers map[string]float64 `yaml:"intensifiers"`
	Negations    []string           `yaml:"negations"`

	negations map[string]struct{}
}

// LoadLexicon decodes a YAML lexicon.
func LoadLexicon(r io.Reader) (*Lexicon, error) {
	var lex Lexicon
	if err := yaml.NewDecoder(r).Decode(&lex); err != nil {
		return nil, fmt.Errorf("decode lexicon: %w", err)
	}
	for w, p := range lex.Words {
		if p < -1 || p > 1 {
			return nil, fmt.Errorf("lexicon word %q: polarity %v out of [-1, 1]", w, p)
		}
	}
	for w, f := range lex.Intensifiers {
		if f <= 0 {
			return nil, fmt.Errorf("lexicon intensifier %q: factor must be positive", w)
		}
	}
	lex.negations = make(map[string]struct{}, len(lex.Negations))
	for _, n := range lex.Negations {
		lex.negations[n] = struct{}{}
	}
	return &lex, nil
}

var (
	defaultOnce   sync.Once
	defaultScorer *Scorer
)

// Default returns the scorer backed by the built-in lexicon. It is built once
// and shared.
func Default() *Scorer {
	defaultOnce.Do(func() {
		lex, err := LoadLexicon(strings.NewReader(defaultLexicon))
		if err != nil {
			panic(fmt.Sprintf("sentiment: built-in lexicon: %v", err))
		}
		defaultScorer = NewScorer(lex)
	})
	return defaultScorer
}

// Scorer computes polarity. It holds no mutable state and is safe for
// concurrent use.
type Scorer struct {
	lex *Lexicon
}

// NewScorer returns a Scorer over lex.
func NewScorer(lex *Lexicon) *Scorer {
	return &Scorer{lex: lex}
}

// Result is a polarity and the label it maps to.
type Result struct {
	Polarity float64
	Label    types.Sentiment
}

// Polarity returns the mean polarity of the sentiment-bearing words in text,
// clamped to [-1, 1]. Text without any such word scores exactly 0.
//
// Intensifiers multiply and negations flip-and-halve the next scored word in
// the same clause; punctuation ends a clause.
func (s *Scorer) Polarity(text string) float64 {
	var (
		sum     float64
		count   int
		factor  = 1.0
		negated bool
	)

	for _, tok := range textproc.Tokenize(strings.ToLower(text)) {
		if _, ok := s.lex.negations[tok]; ok {
			negated = true
			continue
		}
		if !textproc.IsAlnum(tok) {
			if !strings.ContainsRune(tok, '\'') {
				factor, negated = 1.0, false
			}
			continue
		}
		if f, ok := s.lex.Intensifiers[tok]; ok {
			factor *= f
			continue
		}
		p, ok := s.lex.Words[tok]
		if !ok {
			continue
		}
		p *= factor
		if negated {
			p *= negationFactor
		}
		sum += p
		count++
		factor, negated = 1.0, false
	}

	if count == 0 {
		return 0
	}
	return clamp(sum / float64(count))
}

// Label scores text and returns its label.
func (s *Scorer) Label(text string) types.Sentiment {
	return LabelFor(s.Polarity(text))
}

// Analyze scores text and returns both the polarity and the label.
func (s *Scorer) Analyze(text string) Result {
	p := s.Polarity(text)
	return Result{Polarity: p, Label: LabelFor(p)}
}

// LabelFor maps a polarity to a label: any value above zero is Positive, any
// value below zero is Negative, exactly zero is Neutral.
func LabelFor(polarity float64) types.Sentiment {
	switch {
	case polarity > 0:
		return types.Positive
	case polarity < 0:
		return types.Negative
	default:
		return types.Neutral
	}
}

func clamp(v float64) float64 {
	return max(-1, min(1, v))
}
