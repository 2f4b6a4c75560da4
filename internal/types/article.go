package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Sentiment is the three-way label attached to every article.
type Sentiment string

const (
	Positive Sentiment = "Positive"
	Negative Sentiment = "Negative"
	Neutral  Sentiment = "Neutral"
)

// NoTitle stands in for a missing headline.
const NoTitle = "no title"

// RawArticle is one article block as extracted by a news source, before scoring.
type RawArticle struct {
	Title   string
	Summary string
	URL     string
}

// Article is a scored, topic-tagged article. It is not modified once built.
type Article struct {
	Title     string    `json:"Title"`
	Summary   string    `json:"Summary"`
	Sentiment Sentiment `json:"Sentiment"`
	Topics    Topics    `json:"Topics"`
	URL       string    `json:"URL,omitempty"`

	// Polarity is the raw score behind Sentiment.
	Polarity float64 `json:"-"`
}

// NewsSet is the ordered set of articles gathered for one company.
type NewsSet struct {
	Company  string    `json:"Company"`
	Articles []Article `json:"Articles"`
}

// Topics is an ordered topic list. Decoding accepts the legacy shape where a
// topic was serialised as a [word, count] pair and keeps only the word.
type Topics []string

// MarshalJSON keeps an empty list as [] rather than null.
func (t Topics) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(t))
}

func (t *Topics) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("topics: %w", err)
	}

	out := make(Topics, 0, len(raw))
	for i, elem := range raw {
		var s string
		if err := json.Unmarshal(elem, &s); err == nil {
			out = append(out, s)
			continue
		}

		var tuple []json.RawMessage
		if err := json.Unmarshal(elem, &tuple); err != nil || len(tuple) == 0 {
			return fmt.Errorf("topics[%d]: want string or [string, ...], got %s", i, string(elem))
		}
		if err := json.Unmarshal(tuple[0], &s); err != nil {
			return fmt.Errorf("topics[%d][0]: %w", i, err)
		}
		out = append(out, s)
	}
	*t = out
	return nil
}

// DecodeNewsSet reads a news set, or a full report (only Company and Articles
// are used), from r.
func DecodeNewsSet(r io.Reader, source string) (*NewsSet, error) {
	var probe struct {
		Company  *string    `json:"Company"`
		Articles *[]Article `json:"Articles"`
	}
	if err := json.NewDecoder(r).Decode(&probe); err != nil {
		if errors.Is(err, io.EOF) {
			err = ErrNoInput
		}
		return nil, &InputError{Source: source, Err: err}
	}
	if probe.Articles == nil {
		return nil, &InputError{Source: source, Err: ErrNoArticles}
	}

	set := &NewsSet{Articles: *probe.Articles}
	if probe.Company != nil {
		set.Company = *probe.Company
	}
	return set, nil
}
