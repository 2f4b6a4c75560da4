package source

import (
	"bytes"
	"context"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"github.com/IshaanNene/NewsPulse/internal/config"
	"github.com/IshaanNene/NewsPulse/internal/fetcher"
	"github.com/IshaanNene/NewsPulse/internal/types"
)

const feedAccept = "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.8"

// RSSSource reads a search feed. Item titles become article titles and item
// descriptions, stripped of markup, become summaries.
type RSSSource struct {
	cfg     *config.SourceConfig
	fetcher fetcher.Fetcher
	logger  *slog.Logger
}

// NewRSSSource creates an RSSSource.
func NewRSSSource(cfg *config.SourceConfig, f fetcher.Fetcher, logger *slog.Logger) *RSSSource {
	return &RSSSource{
		cfg:     cfg,
		fetcher: f,
		logger:  logger.With("component", "rss_source"),
	}
}

func (s *RSSSource) Name() string { return "rss" }

// Search fetches the feed for company and returns its first items. A
// gofeed.Parser keeps per-parse state, so each call gets its own.
func (s *RSSSource) Search(ctx context.Context, company string) ([]types.RawArticle, error) {
	feedURL := BuildURL(s.cfg.FeedURL, company)

	resp, err := fetchPage(ctx, s.fetcher, feedURL, feedAccept, "")
	if err != nil {
		return nil, err
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, &types.ParseError{URL: resp.URL(), Err: err}
	}

	items := feed.Items
	if len(items) > s.cfg.MaxArticles {
		items = items[:s.cfg.MaxArticles]
	}

	articles := make([]types.RawArticle, 0, len(items))
	for _, item := range items {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			title = types.NoTitle
		}
		articles = append(articles, types.RawArticle{
			Title:   title,
			Summary: stripMarkup(item.Description),
			URL:     item.Link,
		})
	}

	s.logger.Debug("feed parsed", "url", feedURL, "feed", feed.Title, "articles", len(articles), "fetch_duration", resp.FetchDuration)
	return articles, nil
}

// stripMarkup returns the visible text of an HTML fragment.
func stripMarkup(fragment string) string {
	if !strings.ContainsRune(fragment, '<') {
		return strings.TrimSpace(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}
