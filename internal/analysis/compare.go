// Package analysis turns raw articles into scored articles and aggregates a
// NewsSet into a ComparativeReport.
package analysis

import (
	"fmt"
	"strings"

	"github.com/IshaanNene/NewsPulse/internal/types"
)

// ImpactStatement is attached to every coverage difference.
const ImpactStatement = "This shows how different perspectives exist within news coverage."

// Compare aggregates set into a report. It never fails and does not modify
// set. Audio is left as the placeholder.
func Compare(set *types.NewsSet) *types.ComparativeReport {
	articles := make([]types.Article, len(set.Articles))
	copy(articles, set.Articles)

	dist := Distribution(articles)

	return &types.ComparativeReport{
		Company:  set.Company,
		Articles: articles,
		Comparative: types.Comparative{
			Distribution:        dist,
			CoverageDifferences: CoverageDifferences(articles),
			TopicOverlap:        Overlap(articles),
		},
		FinalSentiment: Verdict(set.Company, dist),
		Audio:          types.AudioPlaceholder,
	}
}

// Distribution counts labels across articles. A missing label counts as
// Neutral.
func Distribution(articles []types.Article) types.Distribution {
	dist := types.Distribution{}
	for _, a := range articles {
		label := a.Sentiment
		if label == "" {
			label = types.Neutral
		}
		dist.Add(label)
	}
	return dist
}

// CoverageDifferences compares every adjacent pair of articles by topic list.
func CoverageDifferences(articles []types.Article) []types.CoverageDifference {
	diffs := make([]types.CoverageDifference, 0, max(0, len(articles)-1))
	for i := 0; i+1 < len(articles); i++ {
		diffs = append(diffs, types.CoverageDifference{
			Comparison: fmt.Sprintf("Article %d focuses on %s, whereas Article %d discusses %s.",
				i+1, strings.Join(articles[i].Topics, ", "),
				i+2, strings.Join(articles[i+1].Topics, ", ")),
			Impact: ImpactStatement,
		})
	}
	return diffs
}

// Overlap returns the topics listed more than once across all articles
// (Common) and every distinct topic (Unique), both in first-seen order.
func Overlap(articles []types.Article) types.TopicOverlap {
	freq := make(map[string]int)
	order := make([]string, 0)
	for _, a := range articles {
		for _, topic := range a.Topics {
			if freq[topic] == 0 {
				order = append(order, topic)
			}
			freq[topic]++
		}
	}

	common := make([]string, 0)
	for _, topic := range order {
		if freq[topic] > 1 {
			common = append(common, topic)
		}
	}
	return types.TopicOverlap{Common: common, Unique: order}
}

// Verdict renders the one-line summary. Coverage is Positive only when
// positive articles strictly outnumber negative ones.
func Verdict(company string, dist types.Distribution) string {
	mood := types.Negative
	if dist.Count(types.Positive) > dist.Count(types.Negative) {
		mood = types.Positive
	}
	return fmt.Sprintf("%s's latest news coverage is mostly %s.", company, mood)
}
