package observability

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/IshaanNene/NewsPulse/internal/types"
)

// Metrics tracks operational counters for the analysis service.
type Metrics struct {
	// Request metrics
	RequestsTotal  atomic.Int64
	RequestsFailed atomic.Int64
	FetchFailures  atomic.Int64
	ParseFailures  atomic.Int64
	InputFailures  atomic.Int64
	Timeouts       atomic.Int64

	// Upstream metrics
	UpstreamFetches atomic.Int64
	BytesDownloaded atomic.Int64

	// Article metrics
	ArticlesScraped  atomic.Int64
	ArticlesDropped  atomic.Int64
	ArticlesPositive atomic.Int64
	ArticlesNegative atomic.Int64
	ArticlesNeutral  atomic.Int64

	// Output metrics
	ReportsBuilt   atomic.Int64
	ReportsStored  atomic.Int64
	StoreFailures  atomic.Int64
	SpeechRenders  atomic.Int64
	SpeechFailures atomic.Int64

	logger *slog.Logger
}

// NewMetrics creates a new Metrics instance.
func NewMetrics(logger *slog.Logger) *Metrics {
	return &Metrics{
		logger: logger.With("component", "metrics"),
	}
}

// RecordFailure counts a failed request under its error kind.
func (m *Metrics) RecordFailure(err error) {
	m.RequestsFailed.Add(1)
	switch types.KindOf(err) {
	case types.KindFetch:
		m.FetchFailures.Add(1)
	case types.KindParse:
		m.ParseFailures.Add(1)
	case types.KindInput:
		m.InputFailures.Add(1)
	case types.KindTimeout:
		m.Timeouts.Add(1)
	}
}

// RecordLabel counts one scored article.
func (m *Metrics) RecordLabel(label types.Sentiment) {
	switch label {
	case types.Positive:
		m.ArticlesPositive.Add(1)
	case types.Negative:
		m.ArticlesNegative.Add(1)
	default:
		m.ArticlesNeutral.Add(1)
	}
}

// ServeHTTP serves metrics in Prometheus text exposition format.
func (m *Metrics) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")

	counters := []struct {
		name  string
		help  string
		value int64
	}{
		{"newspulse_requests_total", "Total analysis requests", m.RequestsTotal.Load()},
		{"newspulse_requests_failed_total", "Total failed analysis requests", m.RequestsFailed.Load()},
		{"newspulse_fetch_failures_total", "Requests failed fetching the source", m.FetchFailures.Load()},
		{"newspulse_parse_failures_total", "Requests failed parsing the source", m.ParseFailures.Load()},
		{"newspulse_input_failures_total", "Requests rejected for bad input", m.InputFailures.Load()},
		{"newspulse_timeouts_total", "Requests that hit a deadline", m.Timeouts.Load()},
		{"newspulse_upstream_fetches_total", "Total upstream fetches", m.UpstreamFetches.Load()},
		{"newspulse_bytes_downloaded_total", "Total bytes downloaded", m.BytesDownloaded.Load()},
		{"newspulse_articles_scraped_total", "Total articles extracted", m.ArticlesScraped.Load()},
		{"newspulse_articles_dropped_total", "Total articles dropped by the pipeline", m.ArticlesDropped.Load()},
		{"newspulse_reports_built_total", "Total comparative reports built", m.ReportsBuilt.Load()},
		{"newspulse_reports_stored_total", "Total reports archived", m.ReportsStored.Load()},
		{"newspulse_store_failures_total", "Total report archive failures", m.StoreFailures.Load()},
		{"newspulse_speech_renders_total", "Total speech renditions", m.SpeechRenders.Load()},
		{"newspulse_speech_failures_total", "Total failed speech renditions", m.SpeechFailures.Load()},
	}

	for _, c := range counters {
		fmt.Fprintf(w, "# HELP %s %s\n", c.name, c.help)
		fmt.Fprintf(w, "# TYPE %s counter\n", c.name)
		fmt.Fprintf(w, "%s %d\n", c.name, c.value)
	}

	fmt.Fprintln(w, "# HELP newspulse_articles_by_sentiment_total Scored articles by sentiment label")
	fmt.Fprintln(w, "# TYPE newspulse_articles_by_sentiment_total counter")
	fmt.Fprintf(w, "newspulse_articles_by_sentiment_total{sentiment=%q} %d\n", types.Positive, m.ArticlesPositive.Load())
	fmt.Fprintf(w, "newspulse_articles_by_sentiment_total{sentiment=%q} %d\n", types.Negative, m.ArticlesNegative.Load())
	fmt.Fprintf(w, "newspulse_articles_by_sentiment_total{sentiment=%q} %d\n", types.Neutral, m.ArticlesNeutral.Load())
}

// Snapshot returns all metrics as a map.
func (m *Metrics) Snapshot() map[string]int64 {
	return map[string]int64{
		"requests_total":    m.RequestsTotal.Load(),
		"requests_failed":   m.RequestsFailed.Load(),
		"upstream_fetches":  m.UpstreamFetches.Load(),
		"bytes_downloaded":  m.BytesDownloaded.Load(),
		"articles_scraped":  m.ArticlesScraped.Load(),
		"articles_dropped":  m.ArticlesDropped.Load(),
		"articles_positive": m.ArticlesPositive.Load(),
		"articles_negative": m.ArticlesNegative.Load(),
		"articles_neutral":  m.ArticlesNeutral.Load(),
		"reports_built":     m.ReportsBuilt.Load(),
		"reports_stored":    m.ReportsStored.Load(),
		"speech_renders":    m.SpeechRenders.Load(),
		"speech_failures":   m.SpeechFailures.Load(),
	}
}
