package pipeline

import (
	"regexp"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"

	"github.com/IshaanNene/NewsPulse/internal/types"
)

// TrimMiddleware trims surrounding whitespace from title and summary.
type TrimMiddleware struct{}

func (m *TrimMiddleware) Name() string { return "trim" }

func (m *TrimMiddleware) Process(article *types.RawArticle) (*types.RawArticle, error) {
	article.Title = strings.TrimSpace(article.Title)
	article.Summary = strings.TrimSpace(article.Summary)
	return article, nil
}

// HTMLSanitizeMiddleware reduces fields that still carry HTML tags to their
// visible text. Fields without a tag are already text and pass through
// untouched, so a literal "<5%" or "&lt;" survives.
type HTMLSanitizeMiddleware struct {
	tagRe *regexp.Regexp
}

func NewHTMLSanitizeMiddleware() *HTMLSanitizeMiddleware {
	return &HTMLSanitizeMiddleware{
		tagRe: regexp.MustCompile(`</?[A-Za-z][A-Za-z0-9-]*(\s[^<>]*)?/?>`),
	}
}

func (m *HTMLSanitizeMiddleware) Name() string { return "html_sanitize" }

func (m *HTMLSanitizeMiddleware) Process(article *types.RawArticle) (*types.RawArticle, error) {
	article.Title = m.clean(article.Title)
	article.Summary = m.clean(article.Summary)
	return article, nil
}

func (m *HTMLSanitizeMiddleware) clean(s string) string {
	if !m.tagRe.MatchString(s) {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// DedupMiddleware drops articles whose title was already seen.
// Falls back to the URL when the title is empty.
type DedupMiddleware struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewDedupMiddleware() *DedupMiddleware {
	return &DedupMiddleware{seen: make(map[string]struct{})}
}

func (m *DedupMiddleware) Name() string { return "dedup" }

// Fresh returns an empty DedupMiddleware for a new batch.
func (m *DedupMiddleware) Fresh() Middleware { return NewDedupMiddleware() }

func (m *DedupMiddleware) Process(article *types.RawArticle) (*types.RawArticle, error) {
	key := strings.ToLower(article.Title)
	if key == "" {
		key = article.URL
	}
	if key == "" {
		return article, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.seen[key]; exists {
		return nil, nil
	}
	m.seen[key] = struct{}{}
	return article, nil
}

// DropEmptyMiddleware drops articles that have neither a real title nor a
// summary.
type DropEmptyMiddleware struct{}

func (m *DropEmptyMiddleware) Name() string { return "drop_empty" }

func (m *DropEmptyMiddleware) Process(article *types.RawArticle) (*types.RawArticle, error) {
	title := strings.TrimSpace(article.Title)
	if (title == "" || title == types.NoTitle) && strings.TrimSpace(article.Summary) == "" {
		return nil, nil
	}
	return article, nil
}
