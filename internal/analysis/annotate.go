package analysis

import (
	"github.com/IshaanNene/NewsPulse/internal/sentiment"
	"github.com/IshaanNene/NewsPulse/internal/topics"
	"github.com/IshaanNene/NewsPulse/internal/types"
)

// Annotator scores raw articles and tags them with topics. Both are computed
// from the summary.
type Annotator struct {
	scorer    *sentiment.Scorer
	extractor *topics.Extractor
}

// NewAnnotator returns an Annotator. Nil arguments select the built-in scorer
// and the default keyword count.
func NewAnnotator(scorer *sentiment.Scorer, extractor *topics.Extractor) *Annotator {
	if scorer == nil {
		scorer = sentiment.Default()
	}
	if extractor == nil {
		extractor = topics.NewExtractor(topics.DefaultKeywords)
	}
	return &Annotator{scorer: scorer, extractor: extractor}
}

// Annotate builds the finished article for raw.
func (a *Annotator) Annotate(raw types.RawArticle) types.Article {
	res := a.scorer.Analyze(raw.Summary)
	return types.Article{
		Title:     raw.Title,
		Summary:   raw.Summary,
		Sentiment: res.Label,
		Topics:    a.extractor.Extract(raw.Summary),
		URL:       raw.URL,
		Polarity:  res.Polarity,
	}
}

// AnnotateAll annotates raws in order.
func (a *Annotator) AnnotateAll(raws []types.RawArticle) []types.Article {
	out := make([]types.Article, 0, len(raws))
	for _, raw := range raws {
		out = append(out, a.Annotate(raw))
	}
	return out
}
