package source

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/IshaanNene/NewsPulse/internal/config"
	"github.com/IshaanNene/NewsPulse/internal/fetcher"
	"github.com/IshaanNene/NewsPulse/internal/types"
)

// HTMLSource scrapes a search results page. Each container element yields
// one article; the title and summary selectors are evaluated inside it. When
// a selector misses, the first and second <p> of the container are used, then
// "no title" and "".
type HTMLSource struct {
	cfg     *config.SourceConfig
	fetcher fetcher.Fetcher
	logger  *slog.Logger
}

// NewHTMLSource creates an HTMLSource.
func NewHTMLSource(cfg *config.SourceConfig, f fetcher.Fetcher, logger *slog.Logger) *HTMLSource {
	return &HTMLSource{
		cfg:     cfg,
		fetcher: f,
		logger:  logger.With("component", "html_source"),
	}
}

func (s *HTMLSource) Name() string { return "html" }

// Search fetches the search page for company and extracts its articles.
func (s *HTMLSource) Search(ctx context.Context, company string) ([]types.RawArticle, error) {
	sel := s.cfg.Selectors()
	pageURL := BuildURL(s.cfg.SearchURL, company)

	waitFor := ""
	if s.cfg.SelectorType != "xpath" {
		waitFor = sel.Container
	}
	resp, err := fetchPage(ctx, s.fetcher, pageURL, "", waitFor)
	if err != nil {
		return nil, err
	}

	var articles []types.RawArticle
	if s.cfg.SelectorType == "xpath" {
		articles, err = s.extractXPath(resp, sel)
	} else {
		articles, err = s.extractCSS(resp, sel)
	}
	if err != nil {
		return nil, err
	}

	if len(articles) == 0 {
		if c := fetcher.DetectChallenge(resp.Body); c != "" {
			return nil, &types.FetchError{
				URL:        pageURL,
				StatusCode: resp.StatusCode,
				Err:        fmt.Errorf("%w (%s)", types.ErrChallenged, c),
			}
		}
		s.logger.Warn("no articles matched", "url", pageURL, "container", sel.Container, "status", resp.StatusCode)
	}
	s.logger.Debug("search page parsed", "url", pageURL, "articles", len(articles), "fetch_duration", resp.FetchDuration)
	return articles, nil
}

func (s *HTMLSource) extractCSS(resp *types.Response, sel config.SelectorSet) ([]types.RawArticle, error) {
	doc, err := resp.Document()
	if err != nil {
		return nil, &types.ParseError{URL: resp.URL(), Err: err}
	}

	articles := make([]types.RawArticle, 0, s.cfg.MaxArticles)
	doc.Find(sel.Container).EachWithBreak(func(_ int, item *goquery.Selection) bool {
		paras := item.Find("p")

		title := types.NoTitle
		if t := firstOf(item, sel.Title); t != nil {
			title = t.Text()
		} else if paras.Length() > 0 {
			title = paras.First().Text()
		}

		summary := ""
		if sm := firstOf(item, sel.Summary); sm != nil {
			summary = sm.Text()
		} else if paras.Length() > 1 {
			summary = paras.Eq(1).Text()
		}

		href, _ := item.Find("a[href]").First().Attr("href")
		if href == "" {
			href, _ = item.Closest("a[href]").Attr("href")
		}

		articles = append(articles, types.RawArticle{
			Title:   title,
			Summary: summary,
			URL:     resolveLink(resp.FinalURL, href),
		})
		return len(articles) < s.cfg.MaxArticles
	})
	return articles, nil
}

func firstOf(item *goquery.Selection, selector string) *goquery.Selection {
	if selector == "" {
		return nil
	}
	found := item.Find(selector).First()
	if found.Length() == 0 {
		return nil
	}
	return found
}

func (s *HTMLSource) extractXPath(resp *types.Response, sel config.SelectorSet) ([]types.RawArticle, error) {
	doc, err := htmlquery.Parse(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, &types.ParseError{URL: resp.URL(), Err: err}
	}

	nodes, err := htmlquery.QueryAll(doc, sel.Container)
	if err != nil {
		return nil, &types.ParseError{URL: resp.URL(), Selector: sel.Container, Err: err}
	}
	if len(nodes) > s.cfg.MaxArticles {
		nodes = nodes[:s.cfg.MaxArticles]
	}

	articles := make([]types.RawArticle, 0, len(nodes))
	for _, node := range nodes {
		paras, err := htmlquery.QueryAll(node, ".//p")
		if err != nil {
			return nil, &types.ParseError{URL: resp.URL(), Selector: ".//p", Err: err}
		}

		title := types.NoTitle
		t, err := queryOne(node, sel.Title)
		if err != nil {
			return nil, &types.ParseError{URL: resp.URL(), Selector: sel.Title, Err: err}
		}
		if t != nil {
			title = htmlquery.InnerText(t)
		} else if len(paras) > 0 {
			title = htmlquery.InnerText(paras[0])
		}

		summary := ""
		sm, err := queryOne(node, sel.Summary)
		if err != nil {
			return nil, &types.ParseError{URL: resp.URL(), Selector: sel.Summary, Err: err}
		}
		if sm != nil {
			summary = htmlquery.InnerText(sm)
		} else if len(paras) > 1 {
			summary = htmlquery.InnerText(paras[1])
		}

		href := ""
		if a, _ := htmlquery.Query(node, ".//a[@href]"); a != nil {
			href = htmlquery.SelectAttr(a, "href")
		}

		articles = append(articles, types.RawArticle{
			Title:   title,
			Summary: summary,
			URL:     resolveLink(resp.FinalURL, href),
		})
	}
	return articles, nil
}

func queryOne(node *html.Node, expr string) (*html.Node, error) {
	if expr == "" {
		return nil, nil
	}
	return htmlquery.Query(node, expr)
}
