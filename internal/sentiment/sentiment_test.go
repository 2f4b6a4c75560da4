package sentiment

import (
	"strings"
	"testing"

	"github.com/IshaanNene/NewsPulse/internal/types"
)

func TestLabels(t *testing.T) {
	s := Default()

	tests := []struct {
		text string
		want types.Sentiment
	}{
		{"Great profits this quarter", types.Positive},
		{"Massive losses reported", types.Negative},
		{"", types.Neutral},
		{"The board met on Tuesday", types.Neutral},
		{"Sales were not good", types.Negative},
		{"Results weren't bad", types.Positive},
		{"Shares plunged after the recall", types.Negative},
		{"Record growth and strong demand", types.Positive},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := s.Label(tt.text); got != tt.want {
				t.Errorf("Label(%q) = %s (polarity %v), want %s", tt.text, got, s.Polarity(tt.text), tt.want)
			}
		})
	}
}

func TestEmptyTextScoresZero(t *testing.T) {
	if p := Default().Polarity(""); p != 0 {
		t.Errorf("expected 0 for empty text, got %v", p)
	}
	if p := Default().Polarity("   ,.;  "); p != 0 {
		t.Errorf("expected 0 for punctuation-only text, got %v", p)
	}
}

func TestDeterministic(t *testing.T) {
	s := Default()
	text := "Tesla shares surge as profits beat forecasts, but concerns remain"
	first := s.Analyze(text)
	for range 20 {
		if got := s.Analyze(text); got != first {
			t.Fatalf("re-scoring changed result: %+v vs %+v", first, got)
		}
	}
}

func TestPolarityRange(t *testing.T) {
	s := Default()
	for _, text := range []string{
		"extremely extremely extremely excellent",
		"incredibly incredibly terrible awful",
	} {
		p := s.Polarity(text)
		if p < -1 || p > 1 {
			t.Errorf("Polarity(%q) = %v, out of range", text, p)
		}
	}
}

func TestIntensifierAndNegation(t *testing.T) {
	s := Default()
	plain := s.Polarity("good")
	boosted := s.Polarity("very good")
	negated := s.Polarity("not good")

	if boosted <= plain {
		t.Errorf("intensifier should raise polarity: plain=%v boosted=%v", plain, boosted)
	}
	if negated >= 0 {
		t.Errorf("negation should flip polarity, got %v", negated)
	}
	if reset := s.Polarity("not today, good"); reset != plain {
		t.Errorf("punctuation should end negation scope: got %v, want %v", reset, plain)
	}
}

func TestLabelFor(t *testing.T) {
	if LabelFor(0.0001) != types.Positive {
		t.Error("tiny positive polarity should be Positive")
	}
	if LabelFor(-0.0001) != types.Negative {
		t.Error("tiny negative polarity should be Negative")
	}
	if LabelFor(0) != types.Neutral {
		t.Error("zero polarity should be Neutral")
	}
}

func TestLoadLexiconRejectsOutOfRange(t *testing.T) {
	_, err := LoadLexicon(strings.NewReader("words:\n  good: 2\n"))
	if err == nil {
		t.Error("expected error for polarity outside [-1, 1]")
	}
}

func TestCustomLexicon(t *testing.T) {
	lex, err := LoadLexicon(strings.NewReader("words:\n  moon: 0.9\nnegations: [never]\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	s := NewScorer(lex)
	if s.Label("to the moon") != types.Positive {
		t.Error("custom word should score")
	}
	if s.Label("never the moon") != types.Negative {
		t.Error("custom negation should flip")
	}
}
