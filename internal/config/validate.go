package config

import (
	"fmt"
	"net/url"
	"strings"
)

// QueryPlaceholder marks where the escaped company name goes in a source URL.
const QueryPlaceholder = "{query}"

// Validate checks the configuration for invalid values.
func Validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("server.port must be 1-65535, got %d", cfg.Server.Port)
	}
	if cfg.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server.shutdown_timeout must be >= 0")
	}

	switch cfg.Source.Kind {
	case "html":
		if err := validateTemplate("source.search_url", cfg.Source.SearchURL); err != nil {
			return err
		}
		if cfg.Source.SelectorType != "css" && cfg.Source.SelectorType != "xpath" {
			return fmt.Errorf("source.selector_type must be 'css' or 'xpath', got %q", cfg.Source.SelectorType)
		}
		if cfg.Source.Selectors().Container == "" {
			return fmt.Errorf("source.%s.container must be set", cfg.Source.SelectorType)
		}
	case "rss":
		if err := validateTemplate("source.feed_url", cfg.Source.FeedURL); err != nil {
			return err
		}
	default:
		return fmt.Errorf("source.kind must be 'html' or 'rss', got %q", cfg.Source.Kind)
	}
	if cfg.Source.MaxArticles < 1 {
		return fmt.Errorf("source.max_articles must be >= 1, got %d", cfg.Source.MaxArticles)
	}

	if cfg.Fetcher.Type != "http" && cfg.Fetcher.Type != "browser" {
		return fmt.Errorf("fetcher.type must be 'http' or 'browser', got %q", cfg.Fetcher.Type)
	}
	if cfg.Fetcher.RequestTimeout < 0 {
		return fmt.Errorf("fetcher.request_timeout must be >= 0 (0 disables it)")
	}
	if cfg.Fetcher.MaxBodySize <= 0 {
		return fmt.Errorf("fetcher.max_body_size must be > 0")
	}
	if cfg.Fetcher.MaxRedirects < 0 {
		return fmt.Errorf("fetcher.max_redirects must be >= 0")
	}

	if cfg.Proxy.Enabled {
		if cfg.Proxy.Rotation != "round_robin" && cfg.Proxy.Rotation != "random" {
			return fmt.Errorf("proxy.rotation must be 'round_robin' or 'random', got %q", cfg.Proxy.Rotation)
		}
		if cfg.Proxy.Cooldown < 0 {
			return fmt.Errorf("proxy.cooldown must be >= 0")
		}
		for _, proxyURL := range cfg.Proxy.URLs {
			if _, err := url.Parse(proxyURL); err != nil {
				return fmt.Errorf("invalid proxy URL %q: %w", proxyURL, err)
			}
		}
	}

	if cfg.Analysis.NumKeywords < 1 {
		return fmt.Errorf("analysis.num_keywords must be >= 1, got %d", cfg.Analysis.NumKeywords)
	}

	if cfg.Speech.Enabled {
		if cfg.Speech.TargetLang == "" {
			return fmt.Errorf("speech.target_lang must be set when speech is enabled")
		}
		if cfg.Speech.ChunkSize < 10 {
			return fmt.Errorf("speech.chunk_size must be >= 10, got %d", cfg.Speech.ChunkSize)
		}
		if err := ValidateURL(cfg.Speech.TranslateURL); err != nil {
			return fmt.Errorf("speech.translate_url: %w", err)
		}
		if err := ValidateURL(cfg.Speech.TTSURL); err != nil {
			return fmt.Errorf("speech.tts_url: %w", err)
		}
	}

	validStorageTypes := map[string]bool{
		"json": true, "jsonl": true, "csv": true, "mongodb": true,
	}
	for _, t := range cfg.Storage.Types {
		if !validStorageTypes[t] {
			return fmt.Errorf("storage type %q is not supported (valid: json, jsonl, csv, mongodb)", t)
		}
		if t == "mongodb" && cfg.Storage.MongoURI == "" {
			return fmt.Errorf("storage.mongo_uri must be set for mongodb storage")
		}
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[cfg.Logging.Level] {
		return fmt.Errorf("logging.level must be debug/info/warn/error, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "text" && cfg.Logging.Format != "json" {
		return fmt.Errorf("logging.format must be 'text' or 'json', got %q", cfg.Logging.Format)
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with '/', got %q", cfg.Metrics.Path)
	}

	return nil
}

// ValidateURL checks that rawURL is an absolute http(s) URL.
func ValidateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL must have a host")
	}
	return nil
}

func validateTemplate(key, tmpl string) error {
	if strings.Count(tmpl, QueryPlaceholder) != 1 {
		return fmt.Errorf("%s must contain %s exactly once, got %q", key, QueryPlaceholder, tmpl)
	}
	if err := ValidateURL(strings.Replace(tmpl, QueryPlaceholder, "x", 1)); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	return nil
}
