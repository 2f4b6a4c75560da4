package storage

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/IshaanNene/NewsPulse/internal/config"
	"github.com/IshaanNene/NewsPulse/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func sampleReport(company string) *types.ComparativeReport {
	return &types.ComparativeReport{
		Company: company,
		Articles: []types.Article{
			{Title: "Up", Summary: "Great profits, this quarter", Sentiment: types.Positive, Topics: types.Topics{"great", "profits", "quarter"}},
			{Title: "Down", Summary: "Massive losses reported", Sentiment: types.Negative, Topics: types.Topics{"massive", "losses", "reported"}},
		},
		Comparative: types.Comparative{
			Distribution: types.Distribution{{Label: types.Positive, Count: 1}, {Label: types.Negative, Count: 1}},
			CoverageDifferences: []types.CoverageDifference{
				{Comparison: "Article 1 focuses on great, profits, quarter, whereas Article 2 discusses massive, losses, reported.", Impact: "x"},
			},
			TopicOverlap: types.TopicOverlap{Common: []string{}, Unique: []string{"great", "profits", "quarter", "massive", "losses", "reported"}},
		},
		FinalSentiment: company + "'s latest news coverage is mostly Negative.",
		Audio:          types.AudioPlaceholder,
	}
}

func TestJSONStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "reports.json")
	s, err := NewJSONStorage(path, testLogger)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	ctx := context.Background()
	for _, c := range []string{"Acme", "Globex"} {
		if err := s.Store(ctx, sampleReport(c)); err != nil {
			t.Fatalf("store: %v", err)
		}
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got []record
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[1].Company != "Globex" || got[0].Timestamp.IsZero() {
		t.Errorf("unexpected record %+v", got[1])
	}
	if diff := cmp.Diff(sampleReport("Acme"), got[0].ComparativeReport); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONLStorageAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.jsonl")
	ctx := context.Background()

	for range 2 {
		s, err := NewJSONLStorage(path, testLogger)
		if err != nil {
			t.Fatalf("new: %v", err)
		}
		if err := s.Store(ctx, sampleReport("Acme")); err != nil {
			t.Fatalf("store: %v", err)
		}
		if err := s.Close(); err != nil {
			t.Fatalf("close: %v", err)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	lines := 0
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var r record
		if err := json.Unmarshal(sc.Bytes(), &r); err != nil {
			t.Fatalf("line %d: %v", lines, err)
		}
		if r.Comparative.Distribution.Total() != 2 {
			t.Errorf("line %d: distribution lost: %v", lines, r.Comparative.Distribution)
		}
		lines++
	}
	if lines != 2 {
		t.Errorf("expected 2 lines, got %d", lines)
	}
}

func TestCSVStorage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "articles.csv")
	ctx := context.Background()

	for range 2 {
		s, err := NewCSVStorage(path, testLogger)
		if err != nil {
			t.Fatalf("new: %v", err)
		}
		if err := s.Store(ctx, sampleReport("Acme")); err != nil {
			t.Fatalf("store: %v", err)
		}
		s.Close()
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 5 {
		t.Fatalf("expected header + 4 rows, got %d", len(rows))
	}
	if diff := cmp.Diff(csvHeader, rows[0]); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
	want := []string{"Acme", "1", "Up", "Great profits, this quarter", "Positive", "great;profits;quarter", "", "Acme's latest news coverage is mostly Negative."}
	if diff := cmp.Diff(want, rows[1][1:]); diff != "" {
		t.Errorf("row mismatch (-want +got):\n%s", diff)
	}
	if _, err := time.Parse(time.RFC3339, rows[1][0]); err != nil {
		t.Errorf("bad timestamp %q", rows[1][0])
	}
}

func TestNewDefaultsToNop(t *testing.T) {
	s, err := New(&config.StorageConfig{}, testLogger)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if s.Name() != "none" {
		t.Errorf("expected none, got %s", s.Name())
	}
	if err := s.Store(context.Background(), sampleReport("Acme")); err != nil {
		t.Errorf("nop store: %v", err)
	}
}

func TestNewMulti(t *testing.T) {
	dir := t.TempDir()
	s, err := New(&config.StorageConfig{Types: []string{"jsonl", "csv"}, OutputPath: dir}, testLogger)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if s.Name() != "multi" {
		t.Fatalf("expected multi, got %s", s.Name())
	}
	if err := s.Store(context.Background(), sampleReport("Acme")); err != nil {
		t.Fatalf("store: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	for _, name := range []string{"reports.jsonl", "articles.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}
}

func TestNewUnknownType(t *testing.T) {
	_, err := New(&config.StorageConfig{Types: []string{"parquet"}, OutputPath: t.TempDir()}, testLogger)
	var se *types.StorageError
	if !errors.As(err, &se) || se.Backend != "parquet" {
		t.Errorf("expected StorageError for parquet, got %v", err)
	}
}

type failingStorage struct{ NopStorage }

func (failingStorage) Store(context.Context, *types.ComparativeReport) error {
	return errors.New("disk full")
}

func TestMultiStorageReportsFirstError(t *testing.T) {
	m := NewMultiStorage([]Storage{NopStorage{}, failingStorage{}}, testLogger)
	if err := m.Store(context.Background(), sampleReport("Acme")); err == nil {
		t.Error("expected error from failing backend")
	}
}

func TestReportDocument(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	doc, err := reportDocument(sampleReport("Acme"), ts)
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	if doc["Company"] != "Acme" {
		t.Errorf("expected Company field, got %v", doc["Company"])
	}
	if doc["_timestamp"] != ts {
		t.Errorf("expected timestamp, got %v", doc["_timestamp"])
	}
	if _, ok := doc["Comparative Sentiment Score"]; !ok {
		t.Error("expected comparative section in document")
	}
}
