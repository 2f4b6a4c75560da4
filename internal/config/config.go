package config

import (
	"time"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config is the root configuration for NewsPulse.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   yaml:"server"`
	Source   SourceConfig   `mapstructure:"source"   yaml:"source"`
	Fetcher  FetcherConfig  `mapstructure:"fetcher"  yaml:"fetcher"`
	Proxy    ProxyConfig    `mapstructure:"proxy"    yaml:"proxy"`
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis"`
	Pipeline PipelineConfig `mapstructure:"pipeline" yaml:"pipeline"`
	Speech   SpeechConfig   `mapstructure:"speech"   yaml:"speech"`
	Storage  StorageConfig  `mapstructure:"storage"  yaml:"storage"`
	Logging  LoggingConfig  `mapstructure:"logging"  yaml:"logging"`
	Metrics  MetricsConfig  `mapstructure:"metrics"  yaml:"metrics"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Port            int           `mapstructure:"port"             yaml:"port"`
	DefaultCompany  string        `mapstructure:"default_company"  yaml:"default_company"`
	CORSOrigins     []string      `mapstructure:"cors_origins"     yaml:"cors_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// SourceConfig selects where articles come from and how they are extracted.
type SourceConfig struct {
	Kind         string      `mapstructure:"kind"          yaml:"kind"` // html, rss
	SearchURL    string      `mapstructure:"search_url"    yaml:"search_url"`
	FeedURL      string      `mapstructure:"feed_url"      yaml:"feed_url"`
	SelectorType string      `mapstructure:"selector_type" yaml:"selector_type"` // css, xpath
	MaxArticles  int         `mapstructure:"max_articles"  yaml:"max_articles"`
	CSS          SelectorSet `mapstructure:"css"           yaml:"css"`
	XPath        SelectorSet `mapstructure:"xpath"         yaml:"xpath"`
}

// SelectorSet names the article container and the title/summary elements
// inside it. Title and summary are evaluated relative to the container.
type SelectorSet struct {
	Container string `mapstructure:"container" yaml:"container"`
	Title     string `mapstructure:"title"     yaml:"title"`
	Summary   string `mapstructure:"summary"   yaml:"summary"`
}

// Selectors returns the selector set matching SelectorType.
func (s SourceConfig) Selectors() SelectorSet {
	if s.SelectorType == "xpath" {
		return s.XPath
	}
	return s.CSS
}

// FetcherConfig controls the upstream fetcher.
type FetcherConfig struct {
	Type            string        `mapstructure:"type"              yaml:"type"` // http, browser
	RequestTimeout  time.Duration `mapstructure:"request_timeout"   yaml:"request_timeout"`
	FollowRedirects bool          `mapstructure:"follow_redirects"  yaml:"follow_redirects"`
	MaxRedirects    int           `mapstructure:"max_redirects"     yaml:"max_redirects"`
	MaxBodySize     int64         `mapstructure:"max_body_size"     yaml:"max_body_size"`
	TLSInsecure     bool          `mapstructure:"tls_insecure"      yaml:"tls_insecure"`
	IdleConnTimeout time.Duration `mapstructure:"idle_conn_timeout" yaml:"idle_conn_timeout"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    yaml:"max_idle_conns"`
	UserAgents      []string      `mapstructure:"user_agents"       yaml:"user_agents"`
	Stealth         bool          `mapstructure:"stealth"           yaml:"stealth"`
}

// ProxyConfig controls proxy rotation. A proxy that fails is benched for
// Cooldown, then tried again.
type ProxyConfig struct {
	Enabled  bool          `mapstructure:"enabled"  yaml:"enabled"`
	Rotation string        `mapstructure:"rotation" yaml:"rotation"`
	URLs     []string      `mapstructure:"urls"     yaml:"urls"`
	Cooldown time.Duration `mapstructure:"cooldown" yaml:"cooldown"`
}

// AnalysisConfig controls per-article scoring.
type AnalysisConfig struct {
	NumKeywords int `mapstructure:"num_keywords" yaml:"num_keywords"`
}

// PipelineConfig lists the article middlewares, applied in order.
type PipelineConfig struct {
	Middlewares []string `mapstructure:"middlewares" yaml:"middlewares"`
}

// SpeechConfig controls translation and text-to-speech of the verdict.
type SpeechConfig struct {
	Enabled      bool          `mapstructure:"enabled"       yaml:"enabled"`
	SourceLang   string        `mapstructure:"source_lang"   yaml:"source_lang"`
	TargetLang   string        `mapstructure:"target_lang"   yaml:"target_lang"`
	TranslateURL string        `mapstructure:"translate_url" yaml:"translate_url"`
	TTSURL       string        `mapstructure:"tts_url"       yaml:"tts_url"`
	ChunkSize    int           `mapstructure:"chunk_size"    yaml:"chunk_size"`
	Timeout      time.Duration `mapstructure:"timeout"       yaml:"timeout"`
}

// StorageConfig controls the optional report archive. The json backend holds
// every report in memory until Close; long-running servers should use jsonl.
type StorageConfig struct {
	Types           []string `mapstructure:"types"            yaml:"types"` // json, jsonl, csv, mongodb
	OutputPath      string   `mapstructure:"output_path"      yaml:"output_path"`
	MongoURI        string   `mapstructure:"mongo_uri"        yaml:"mongo_uri"`
	MongoDatabase   string   `mapstructure:"mongo_database"   yaml:"mongo_database"`
	MongoCollection string   `mapstructure:"mongo_collection" yaml:"mongo_collection"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
}

// MetricsConfig controls the Prometheus endpoint on the API server.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Path    string `mapstructure:"path"    yaml:"path"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            10000,
			DefaultCompany:  "Tesla",
			CORSOrigins:     []string{"*"},
			ShutdownTimeout: 10 * time.Second,
		},
		Source: SourceConfig{
			Kind:         "html",
			SearchURL:    "https://www.bbc.co.uk/search?q={query}&filter=news",
			FeedURL:      "https://news.google.com/rss/search?q={query}&hl=en-US&gl=US&ceid=US:en",
			SelectorType: "css",
			MaxArticles:  10,
			CSS: SelectorSet{
				Container: "div.ssrcss-tq7xfh-PromoContent",
				Title:     "p.ssrcss-1b1mki6-PromoHeadline",
				Summary:   "p.ssrcss-1q0x1qg-Paragraph",
			},
			XPath: SelectorSet{
				Container: "//div[contains(@class,'ssrcss-tq7xfh-PromoContent')]",
				Title:     ".//p[contains(@class,'PromoHeadline')]",
				Summary:   ".//p[contains(@class,'ssrcss-1q0x1qg-Paragraph')]",
			},
		},
		Fetcher: FetcherConfig{
			Type:            "http",
			RequestTimeout:  30 * time.Second,
			FollowRedirects: true,
			MaxRedirects:    10,
			MaxBodySize:     10 * 1024 * 1024, // 10MB
			IdleConnTimeout: 90 * time.Second,
			MaxIdleConns:    20,
			UserAgents: []string{
				"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
				"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			},
		},
		Proxy: ProxyConfig{
			Enabled:  false,
			Rotation: "round_robin",
			Cooldown: 30 * time.Second,
		},
		Analysis: AnalysisConfig{
			NumKeywords: 5,
		},
		Pipeline: PipelineConfig{
			Middlewares: []string{"trim"},
		},
		Speech: SpeechConfig{
			Enabled:      false,
			SourceLang:   "en",
			TargetLang:   "hi",
			TranslateURL: "https://translate.google.com/m",
			TTSURL:       "https://translate.google.com/translate_tts",
			ChunkSize:    100,
			Timeout:      20 * time.Second,
		},
		Storage: StorageConfig{
			OutputPath:      "./output",
			MongoDatabase:   "newspulse",
			MongoCollection: "reports",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    "/metrics",
		},
	}
}
