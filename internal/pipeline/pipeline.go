package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/IshaanNene/NewsPulse/internal/types"
)

// Middleware processes an article and returns the (possibly modified) article.
// Return nil to drop the article from the pipeline.
type Middleware interface {
	// Name returns the middleware's identifier.
	Name() string

	// Process transforms an article. Return nil to drop the article.
	Process(article *types.RawArticle) (*types.RawArticle, error)
}

// Pipeline chains middleware processors together.
type Pipeline struct {
	middlewares []Middleware
	logger      *slog.Logger
}

// New creates a new Pipeline.
func New(logger *slog.Logger) *Pipeline {
	return &Pipeline{
		logger: logger.With("component", "pipeline"),
	}
}

// FromNames builds a pipeline from configured middleware names.
func FromNames(names []string, logger *slog.Logger) (*Pipeline, error) {
	p := New(logger)
	for _, name := range names {
		mw, err := ByName(name)
		if err != nil {
			return nil, err
		}
		p.Use(mw)
	}
	return p, nil
}

// ByName returns a fresh built-in middleware.
func ByName(name string) (Middleware, error) {
	switch name {
	case "trim":
		return &TrimMiddleware{}, nil
	case "html_sanitize":
		return NewHTMLSanitizeMiddleware(), nil
	case "dedup":
		return NewDedupMiddleware(), nil
	case "drop_empty":
		return &DropEmptyMiddleware{}, nil
	default:
		return nil, fmt.Errorf("unknown middleware %q", name)
	}
}

// Use adds a middleware to the pipeline chain.
func (p *Pipeline) Use(mw Middleware) {
	p.middlewares = append(p.middlewares, mw)
	p.logger.Debug("middleware added", "name", mw.Name(), "position", len(p.middlewares))
}

// BatchScoped is implemented by middleware whose state must not outlive one
// ProcessAll call.
type BatchScoped interface {
	Fresh() Middleware
}

// Process runs the article through all middleware in order.
func (p *Pipeline) Process(article *types.RawArticle) (*types.RawArticle, error) {
	return p.process(p.middlewares, article)
}

func (p *Pipeline) process(chain []Middleware, article *types.RawArticle) (*types.RawArticle, error) {
	current := article

	for _, mw := range chain {
		result, err := mw.Process(current)
		if err != nil {
			return nil, &types.PipelineError{
				Stage:   mw.Name(),
				Article: current,
				Err:     err,
			}
		}
		if result == nil {
			p.logger.Debug("article dropped", "stage", mw.Name(), "title", article.Title)
			return nil, nil
		}
		current = result
	}

	return current, nil
}

// ProcessAll runs every article through the chain and keeps the survivors
// in their original order. Batch-scoped middleware start empty on each call,
// so concurrent calls do not share state.
func (p *Pipeline) ProcessAll(articles []types.RawArticle) ([]types.RawArticle, error) {
	chain := make([]Middleware, len(p.middlewares))
	for i, mw := range p.middlewares {
		if b, ok := mw.(BatchScoped); ok {
			mw = b.Fresh()
		}
		chain[i] = mw
	}

	out := make([]types.RawArticle, 0, len(articles))
	for i := range articles {
		a := articles[i]
		result, err := p.process(chain, &a)
		if err != nil {
			return nil, err
		}
		if result != nil {
			out = append(out, *result)
		}
	}
	return out, nil
}

// Len returns the number of middleware in the chain.
func (p *Pipeline) Len() int {
	return len(p.middlewares)
}
