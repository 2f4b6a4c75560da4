// Package source finds news articles about a company on an upstream site.
package source

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/IshaanNene/NewsPulse/internal/config"
	"github.com/IshaanNene/NewsPulse/internal/fetcher"
	"github.com/IshaanNene/NewsPulse/internal/types"
)

// Source searches one upstream for articles about a company.
type Source interface {
	// Search returns at most the configured number of articles, in page order.
	// Finding nothing is not an error.
	Search(ctx context.Context, company string) ([]types.RawArticle, error)

	// Name identifies the source in logs.
	Name() string
}

// New builds the source selected by cfg.Source.Kind.
func New(cfg *config.Config, f fetcher.Fetcher, logger *slog.Logger) (Source, error) {
	switch cfg.Source.Kind {
	case "html", "":
		return NewHTMLSource(&cfg.Source, f, logger), nil
	case "rss":
		return NewRSSSource(&cfg.Source, f, logger), nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Source.Kind)
	}
}

// BuildURL substitutes the query-escaped company into template.
func BuildURL(template, company string) string {
	return strings.ReplaceAll(template, config.QueryPlaceholder, url.QueryEscape(company))
}

// fetchPage issues one request. An empty accept keeps the fetcher's default.
func fetchPage(ctx context.Context, f fetcher.Fetcher, rawURL, accept, waitSelector string) (*types.Response, error) {
	req, err := types.NewRequest(rawURL)
	if err != nil {
		return nil, &types.FetchError{URL: rawURL, Err: err}
	}
	if accept != "" {
		req.Headers.Set("Accept", accept)
	}
	req.WaitSelector = waitSelector
	return f.Fetch(ctx, req)
}

// resolveLink makes href absolute against base. Unparseable links are dropped.
func resolveLink(base, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref.String()
	}
	return b.ResolveReference(ref).String()
}
