package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/IshaanNene/NewsPulse/internal/analysis"
	"github.com/IshaanNene/NewsPulse/internal/config"
	"github.com/IshaanNene/NewsPulse/internal/fetcher"
	"github.com/IshaanNene/NewsPulse/internal/observability"
	"github.com/IshaanNene/NewsPulse/internal/pipeline"
	"github.com/IshaanNene/NewsPulse/internal/sentiment"
	"github.com/IshaanNene/NewsPulse/internal/source"
	"github.com/IshaanNene/NewsPulse/internal/speech"
	"github.com/IshaanNene/NewsPulse/internal/storage"
	"github.com/IshaanNene/NewsPulse/internal/topics"
	"github.com/IshaanNene/NewsPulse/internal/types"
)

// NewFromConfig wires a complete engine: fetcher, source, pipeline,
// annotator, and the optional speech and storage stages. metrics may be nil.
func NewFromConfig(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (*Engine, error) {
	e, err := NewOfflineFromConfig(cfg, logger, metrics)
	if err != nil {
		return nil, err
	}

	f, err := fetcher.New(cfg, logger)
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("create fetcher: %w", err)
	}
	e.OwnCloser(f)

	src, err := source.New(cfg, &meteredFetcher{Fetcher: f, metrics: e.Metrics()}, logger)
	if err != nil {
		e.Close()
		return nil, err
	}
	e.SetSource(src)

	logger.Info("engine ready",
		"source", src.Name(),
		"fetcher", f.Type(),
		"speech", cfg.Speech.Enabled,
		"storage", cfg.Storage.Types,
	)
	return e, nil
}

// NewOfflineFromConfig wires everything except the fetcher and source, for
// re-analysing saved news sets.
func NewOfflineFromConfig(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (*Engine, error) {
	e := New(logger)
	if metrics != nil {
		e.SetMetrics(metrics)
	}

	p, err := pipeline.FromNames(cfg.Pipeline.Middlewares, logger)
	if err != nil {
		return nil, fmt.Errorf("create pipeline: %w", err)
	}
	e.SetPipeline(p)

	e.SetAnnotator(analysis.NewAnnotator(sentiment.Default(), topics.NewExtractor(cfg.Analysis.NumKeywords)))

	if cfg.Speech.Enabled {
		e.SetSpeaker(speech.New(&cfg.Speech, logger))
	}

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return nil, err
	}
	e.SetStorage(store)
	return e, nil
}

// meteredFetcher counts upstream fetches and bytes.
type meteredFetcher struct {
	fetcher.Fetcher
	metrics *observability.Metrics
}

func (f *meteredFetcher) Fetch(ctx context.Context, req *types.Request) (*types.Response, error) {
	f.metrics.UpstreamFetches.Add(1)
	resp, err := f.Fetcher.Fetch(ctx, req)
	if err == nil {
		f.metrics.BytesDownloaded.Add(int64(len(resp.Body)))
	}
	return resp, err
}
