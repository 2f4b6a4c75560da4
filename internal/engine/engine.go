// Package engine runs the analysis flow: search the source, clean the
// articles, score them, aggregate a report, then optionally speak and archive
// it.
package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/IshaanNene/NewsPulse/internal/analysis"
	"github.com/IshaanNene/NewsPulse/internal/observability"
	"github.com/IshaanNene/NewsPulse/internal/speech"
	"github.com/IshaanNene/NewsPulse/internal/types"
)

// Source is the interface for news sources.
type Source interface {
	Search(ctx context.Context, company string) ([]types.RawArticle, error)
	Name() string
}

// Pipeline is the interface for the article cleanup chain.
type Pipeline interface {
	ProcessAll(articles []types.RawArticle) ([]types.RawArticle, error)
}

// Speaker renders the verdict as translated speech.
type Speaker interface {
	Render(ctx context.Context, text string) (*speech.Rendition, error)
}

// Storage is the interface for report archives.
type Storage interface {
	Store(ctx context.Context, report *types.ComparativeReport) error
	Close() error
	Name() string
}

// Engine is the analysis orchestrator. It is safe for concurrent use once
// configured; requests share no mutable state besides metrics.
type Engine struct {
	logger    *slog.Logger
	source    Source
	pipeline  Pipeline
	annotator *analysis.Annotator
	speaker   Speaker
	storage   Storage
	metrics   *observability.Metrics
	closers   []io.Closer

	mu sync.RWMutex
}

// New creates an Engine with the default annotator and no source, speech or
// storage.
func New(logger *slog.Logger) *Engine {
	return &Engine{
		logger:    logger.With("component", "engine"),
		annotator: analysis.NewAnnotator(nil, nil),
		metrics:   observability.NewMetrics(logger),
	}
}

// SetSource sets the news source.
func (e *Engine) SetSource(s Source) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.source = s
}

// SetPipeline sets the article pipeline.
func (e *Engine) SetPipeline(p Pipeline) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pipeline = p
}

// SetAnnotator sets the scorer and topic extractor.
func (e *Engine) SetAnnotator(a *analysis.Annotator) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.annotator = a
}

// SetSpeaker enables speech rendering of the verdict.
func (e *Engine) SetSpeaker(s Speaker) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.speaker = s
}

// SetStorage sets the report archive.
func (e *Engine) SetStorage(s Storage) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.storage = s
}

// SetMetrics replaces the metrics sink.
func (e *Engine) SetMetrics(m *observability.Metrics) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.metrics = m
}

// Metrics returns the engine's metrics.
func (e *Engine) Metrics() *observability.Metrics {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.metrics
}

// OwnCloser registers a resource closed by Close.
func (e *Engine) OwnCloser(c io.Closer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closers = append(e.closers, c)
}

// Collect searches the source and returns the scored articles for company.
func (e *Engine) Collect(ctx context.Context, company string) (*types.NewsSet, error) {
	e.mu.RLock()
	src, pipe, ann, m := e.source, e.pipeline, e.annotator, e.metrics
	e.mu.RUnlock()

	if src == nil {
		return nil, errors.New("engine has no source configured")
	}

	raws, err := src.Search(ctx, company)
	if err != nil {
		return nil, err
	}
	m.ArticlesScraped.Add(int64(len(raws)))

	if pipe != nil {
		kept, err := pipe.ProcessAll(raws)
		if err != nil {
			return nil, err
		}
		m.ArticlesDropped.Add(int64(len(raws) - len(kept)))
		raws = kept
	}

	articles := ann.AnnotateAll(raws)
	for _, a := range articles {
		m.RecordLabel(a.Sentiment)
	}

	return &types.NewsSet{Company: company, Articles: articles}, nil
}

// Analyze runs the full flow for company. It returns a report or an error,
// never both.
func (e *Engine) Analyze(ctx context.Context, company string) (*types.ComparativeReport, error) {
	m := e.Metrics()
	m.RequestsTotal.Add(1)
	start := time.Now()

	set, err := e.Collect(ctx, company)
	if err != nil {
		m.RecordFailure(err)
		e.logger.Error("analysis failed", "company", company, "kind", types.KindOf(err), "error", err)
		return nil, err
	}

	report := e.finish(ctx, set)

	e.logger.Info("analysis complete",
		"company", company,
		"articles", len(report.Articles),
		"verdict", report.FinalSentiment,
		"duration", time.Since(start),
	)
	return report, nil
}

// Compare aggregates an already collected NewsSet without touching the
// network source. Speech and storage still apply.
func (e *Engine) Compare(ctx context.Context, set *types.NewsSet) (*types.ComparativeReport, error) {
	if set == nil {
		return nil, &types.InputError{Source: "compare", Err: types.ErrNoInput}
	}
	e.Metrics().RequestsTotal.Add(1)
	return e.finish(ctx, set), nil
}

// finish builds the report, then renders speech and archives it. Speech and
// archive failures are logged and counted but do not fail the request.
func (e *Engine) finish(ctx context.Context, set *types.NewsSet) *types.ComparativeReport {
	e.mu.RLock()
	speaker, store, m := e.speaker, e.storage, e.metrics
	e.mu.RUnlock()

	report := analysis.Compare(set)
	m.ReportsBuilt.Add(1)

	if speaker != nil {
		rendition, err := speaker.Render(ctx, report.FinalSentiment)
		if err != nil {
			m.SpeechFailures.Add(1)
			e.logger.Warn("speech rendering failed, keeping placeholder", "company", set.Company, "error", err)
		} else {
			m.SpeechRenders.Add(1)
			report.Audio = rendition.DataURI()
			report.Translation = rendition.Text
		}
	}

	if store != nil {
		if err := store.Store(ctx, report); err != nil {
			m.StoreFailures.Add(1)
			e.logger.Error("report archive failed", "backend", store.Name(), "error", err)
		} else {
			m.ReportsStored.Add(1)
		}
	}
	return report
}

// Close releases the storage and any owned resources.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var errs []error
	if e.storage != nil {
		if err := e.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close storage: %w", err))
		}
	}
	for _, c := range e.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
