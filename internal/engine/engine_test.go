package engine

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/IshaanNene/NewsPulse/internal/config"
	"github.com/IshaanNene/NewsPulse/internal/pipeline"
	"github.com/IshaanNene/NewsPulse/internal/speech"
	"github.com/IshaanNene/NewsPulse/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

type fakeSource struct {
	articles []types.RawArticle
	err      error
	gotQuery string
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) Search(_ context.Context, company string) ([]types.RawArticle, error) {
	f.gotQuery = company
	return f.articles, f.err
}

type fakeSpeaker struct{ err error }

func (f fakeSpeaker) Render(_ context.Context, text string) (*speech.Rendition, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &speech.Rendition{Text: "hi:" + text, Audio: []byte("mp3")}, nil
}

type memStorage struct {
	mu      sync.Mutex
	reports []*types.ComparativeReport
	err     error
	closed  bool
}

func (m *memStorage) Name() string { return "mem" }

func (m *memStorage) Store(_ context.Context, r *types.ComparativeReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.reports = append(m.reports, r)
	return nil
}

func (m *memStorage) Close() error {
	m.closed = true
	return nil
}

func acmeSource() *fakeSource {
	return &fakeSource{articles: []types.RawArticle{
		{Title: " Q3 ", Summary: "Great profits this quarter"},
		{Title: "Q4", Summary: "Massive <b>losses</b> reported"},
	}}
}

func newTestEngine(src Source) *Engine {
	e := New(testLogger)
	e.SetSource(src)
	p, _ := pipeline.FromNames([]string{"html_sanitize", "trim"}, testLogger)
	e.SetPipeline(p)
	return e
}

func TestAnalyze(t *testing.T) {
	src := acmeSource()
	store := &memStorage{}
	e := newTestEngine(src)
	e.SetStorage(store)

	report, err := e.Analyze(context.Background(), "Acme")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if src.gotQuery != "Acme" {
		t.Errorf("source queried with %q", src.gotQuery)
	}
	if report.Articles[0].Title != "Q3" {
		t.Errorf("pipeline should trim titles, got %q", report.Articles[0].Title)
	}
	if report.Articles[1].Summary != "Massive losses reported" {
		t.Errorf("pipeline should sanitize summaries, got %q", report.Articles[1].Summary)
	}
	if report.FinalSentiment != "Acme's latest news coverage is mostly Negative." {
		t.Errorf("unexpected verdict %q", report.FinalSentiment)
	}
	if report.Audio != types.AudioPlaceholder {
		t.Errorf("expected placeholder audio without speech, got %q", report.Audio)
	}
	if len(store.reports) != 1 {
		t.Errorf("expected report to be archived, got %d", len(store.reports))
	}

	snap := e.Metrics().Snapshot()
	if snap["articles_scraped"] != 2 || snap["articles_positive"] != 1 || snap["articles_negative"] != 1 {
		t.Errorf("unexpected metrics %v", snap)
	}
	if snap["reports_built"] != 1 || snap["reports_stored"] != 1 {
		t.Errorf("unexpected report metrics %v", snap)
	}
}

func TestAnalyzeSourceErrorIsAllOrNothing(t *testing.T) {
	srcErr := &types.FetchError{URL: "https://example.com", Err: errors.New("connection refused")}
	store := &memStorage{}
	e := newTestEngine(&fakeSource{err: srcErr})
	e.SetStorage(store)

	report, err := e.Analyze(context.Background(), "Acme")
	if report != nil {
		t.Error("expected no report on error")
	}
	if types.KindOf(err) != types.KindFetch {
		t.Errorf("expected fetch error kind, got %s", types.KindOf(err))
	}
	if len(store.reports) != 0 {
		t.Error("nothing should be archived on error")
	}
	if e.Metrics().FetchFailures.Load() != 1 {
		t.Error("expected fetch failure to be counted")
	}
}

func TestAnalyzeNoSource(t *testing.T) {
	if _, err := New(testLogger).Analyze(context.Background(), "Acme"); err == nil {
		t.Error("expected error without a source")
	}
}

func TestAnalyzeZeroArticles(t *testing.T) {
	e := newTestEngine(&fakeSource{})
	report, err := e.Analyze(context.Background(), "")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if len(report.Articles) != 0 || len(report.Comparative.CoverageDifferences) != 0 {
		t.Errorf("expected empty report, got %+v", report)
	}
	if report.FinalSentiment != "'s latest news coverage is mostly Negative." {
		t.Errorf("unexpected verdict %q", report.FinalSentiment)
	}
}

func TestSpeechAttachesAudio(t *testing.T) {
	e := newTestEngine(acmeSource())
	e.SetSpeaker(fakeSpeaker{})

	report, err := e.Analyze(context.Background(), "Acme")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if !strings.HasPrefix(report.Audio, "data:audio/mpeg;base64,") {
		t.Errorf("expected data URI audio, got %q", report.Audio)
	}
	if report.Translation != "hi:Acme's latest news coverage is mostly Negative." {
		t.Errorf("unexpected translation %q", report.Translation)
	}
}

func TestSpeechFailureIsSoft(t *testing.T) {
	e := newTestEngine(acmeSource())
	e.SetSpeaker(fakeSpeaker{err: &types.SpeechError{Stage: "tts", Err: errors.New("429")}})

	report, err := e.Analyze(context.Background(), "Acme")
	if err != nil {
		t.Fatalf("speech failure should not fail analysis: %v", err)
	}
	if report.Audio != types.AudioPlaceholder {
		t.Errorf("expected placeholder after speech failure, got %q", report.Audio)
	}
	if e.Metrics().SpeechFailures.Load() != 1 {
		t.Error("expected speech failure to be counted")
	}
}

func TestStorageFailureIsSoft(t *testing.T) {
	e := newTestEngine(acmeSource())
	e.SetStorage(&memStorage{err: errors.New("disk full")})

	if _, err := e.Analyze(context.Background(), "Acme"); err != nil {
		t.Fatalf("archive failure should not fail analysis: %v", err)
	}
	if e.Metrics().StoreFailures.Load() != 1 {
		t.Error("expected store failure to be counted")
	}
}

func TestCompareOffline(t *testing.T) {
	e := New(testLogger)
	set := &types.NewsSet{Company: "Acme", Articles: []types.Article{
		{Title: "a", Sentiment: types.Positive, Topics: types.Topics{"x"}},
		{Title: "b", Sentiment: types.Positive, Topics: types.Topics{"x", "y"}},
	}}
	report, err := e.Compare(context.Background(), set)
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	if report.FinalSentiment != "Acme's latest news coverage is mostly Positive." {
		t.Errorf("unexpected verdict %q", report.FinalSentiment)
	}

	if _, err := e.Compare(context.Background(), nil); types.KindOf(err) != types.KindInput {
		t.Errorf("expected input error for nil set, got %v", err)
	}
}

func TestCloseClosesStorage(t *testing.T) {
	store := &memStorage{}
	e := New(testLogger)
	e.SetStorage(store)
	if err := e.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !store.closed {
		t.Error("expected storage to be closed")
	}
}

func TestNewOfflineFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	e, err := NewOfflineFromConfig(cfg, testLogger, nil)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	defer e.Close()

	if _, err := e.Analyze(context.Background(), "Acme"); err == nil {
		t.Error("offline engine should refuse to search")
	}

	cfg.Pipeline.Middlewares = []string{"nope"}
	if _, err := NewOfflineFromConfig(cfg, testLogger, nil); err == nil {
		t.Error("expected error for unknown middleware")
	}
}
