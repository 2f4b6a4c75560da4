package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := Validate(DefaultConfig()); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"source kind", func(c *Config) { c.Source.Kind = "atom" }, "source.kind"},
		{"missing placeholder", func(c *Config) { c.Source.SearchURL = "https://www.bbc.co.uk/search" }, "{query}"},
		{"selector type", func(c *Config) { c.Source.SelectorType = "regex" }, "selector_type"},
		{"max articles", func(c *Config) { c.Source.MaxArticles = 0 }, "max_articles"},
		{"fetcher type", func(c *Config) { c.Fetcher.Type = "curl" }, "fetcher.type"},
		{"storage", func(c *Config) { c.Storage.Types = []string{"parquet"} }, "parquet"},
		{"mongo uri", func(c *Config) { c.Storage.Types = []string{"mongodb"} }, "mongo_uri"},
		{"speech chunk", func(c *Config) { c.Speech.Enabled = true; c.Speech.ChunkSize = 1 }, "chunk_size"},
		{"log level", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
		{"zero keywords", func(c *Config) { c.Analysis.NumKeywords = 0 }, "num_keywords"},
		{"proxy cooldown", func(c *Config) { c.Proxy.Enabled = true; c.Proxy.Cooldown = -time.Second }, "proxy.cooldown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("expected error mentioning %q, got %v", tt.want, err)
			}
		})
	}
}

func TestZeroTimeoutAllowed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Fetcher.RequestTimeout = 0
	if err := Validate(cfg); err != nil {
		t.Errorf("zero timeout should be accepted: %v", err)
	}
}

func TestLoadFromFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "newspulse.yaml")
	yaml := `
server:
  default_company: Acme
source:
  kind: rss
analysis:
  num_keywords: 3
fetcher:
  request_timeout: 5s
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("NEWSPULSE_ANALYSIS_NUM_KEYWORDS", "7")
	t.Setenv("PORT", "5001")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.DefaultCompany != "Acme" {
		t.Errorf("expected default company from file, got %q", cfg.Server.DefaultCompany)
	}
	if cfg.Source.Kind != "rss" {
		t.Errorf("expected rss source, got %q", cfg.Source.Kind)
	}
	if cfg.Analysis.NumKeywords != 7 {
		t.Errorf("expected env override 7, got %d", cfg.Analysis.NumKeywords)
	}
	if cfg.Fetcher.RequestTimeout != 5*time.Second {
		t.Errorf("expected 5s timeout, got %s", cfg.Fetcher.RequestTimeout)
	}
	if cfg.Server.Port != 5001 {
		t.Errorf("expected PORT override 5001, got %d", cfg.Server.Port)
	}
	if cfg.Source.CSS.Container == "" {
		t.Error("defaults for nested selectors should survive a partial file")
	}
}

func TestLoadRejectsBadPort(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	if _, err := Load(""); err == nil {
		t.Error("expected error for non-numeric PORT")
	}
}
