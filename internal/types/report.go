package types

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// AudioPlaceholder fills the Audio field when no speech was rendered.
const AudioPlaceholder = "[Play Hindi Speech]"

// ComparativeReport is the aggregated view over a NewsSet.
type ComparativeReport struct {
	Company        string      `json:"Company"`
	Articles       []Article   `json:"Articles"`
	Comparative    Comparative `json:"Comparative Sentiment Score"`
	FinalSentiment string      `json:"Final Sentiment Analysis"`
	Audio          string      `json:"Audio"`
	Translation    string      `json:"Hindi Translation,omitempty"`
}

// Comparative holds the cross-article statistics.
type Comparative struct {
	Distribution        Distribution         `json:"Sentiment Distribution"`
	CoverageDifferences []CoverageDifference `json:"Coverage Differences"`
	TopicOverlap        TopicOverlap         `json:"Topic Overlap"`
}

// CoverageDifference compares the topic lists of two adjacent articles.
type CoverageDifference struct {
	Comparison string `json:"Comparison"`
	Impact     string `json:"Impact"`
}

// TopicOverlap splits topics into those shared by several articles and all
// topics seen.
type TopicOverlap struct {
	Common []string `json:"Common Topics"`
	Unique []string `json:"Unique Topics"`
}

// LabelCount is one entry of a Distribution.
type LabelCount struct {
	Label Sentiment
	Count int
}

// Distribution counts labels in first-seen order. It encodes as a JSON
// object whose keys keep that order.
type Distribution []LabelCount

// Add increments the count for label, appending it if unseen.
func (d *Distribution) Add(label Sentiment) {
	for i := range *d {
		if (*d)[i].Label == label {
			(*d)[i].Count++
			return
		}
	}
	*d = append(*d, LabelCount{Label: label, Count: 1})
}

// Count returns the count recorded for label.
func (d Distribution) Count(label Sentiment) int {
	for _, lc := range d {
		if lc.Label == label {
			return lc.Count
		}
	}
	return 0
}

// Total returns the sum of all counts.
func (d Distribution) Total() int {
	total := 0
	for _, lc := range d {
		total += lc.Count
	}
	return total
}

func (d Distribution) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, lc := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(lc.Label))
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		fmt.Fprintf(&buf, ":%d", lc.Count)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (d *Distribution) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("sentiment distribution: expected object, got %v", tok)
	}

	out := Distribution{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		var count int
		if err := dec.Decode(&count); err != nil {
			return fmt.Errorf("sentiment distribution %q: %w", keyTok, err)
		}
		out = append(out, LabelCount{Label: Sentiment(keyTok.(string)), Count: count})
	}
	*d = out
	return nil
}
