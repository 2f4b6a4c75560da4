package fetcher

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/andybalholm/brotli"

	"github.com/IshaanNene/NewsPulse/internal/config"
	"github.com/IshaanNene/NewsPulse/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func newTestFetcher(t *testing.T, mutate func(*config.Config)) *HTTPFetcher {
	t.Helper()
	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	f, err := NewHTTPFetcher(cfg, nil, testLogger)
	if err != nil {
		t.Fatalf("new fetcher: %v", err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func get(t *testing.T, f Fetcher, rawURL string) (*types.Response, error) {
	t.Helper()
	req, err := types.NewRequest(rawURL)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	return f.Fetch(context.Background(), req)
}

func TestHTTPFetcherDecompresses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		switch r.URL.Path {
		case "/gzip":
			w.Header().Set("Content-Encoding", "gzip")
			zw := gzip.NewWriter(&buf)
			zw.Write([]byte("<p>gzip</p>"))
			zw.Close()
		case "/br":
			w.Header().Set("Content-Encoding", "br")
			bw := brotli.NewWriter(&buf)
			bw.Write([]byte("<p>br</p>"))
			bw.Close()
		default:
			buf.WriteString("<p>plain</p>")
		}
		w.Write(buf.Bytes())
	}))
	defer srv.Close()

	f := newTestFetcher(t, nil)
	for path, want := range map[string]string{"/gzip": "<p>gzip</p>", "/br": "<p>br</p>", "/": "<p>plain</p>"} {
		resp, err := get(t, f, srv.URL+path)
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		if string(resp.Body) != want {
			t.Errorf("%s: expected %q, got %q", path, want, resp.Body)
		}
	}
}

func TestHTTPFetcherReturnsNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("<p>down</p>"))
	}))
	defer srv.Close()

	resp, err := get(t, newTestFetcher(t, nil), srv.URL)
	if err != nil {
		t.Fatalf("non-2xx should not be an error: %v", err)
	}
	if resp.StatusCode != http.StatusServiceUnavailable || resp.IsSuccess() {
		t.Errorf("unexpected status %d", resp.StatusCode)
	}
}

func TestHTTPFetcherKeepsCookies(t *testing.T) {
	var second string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("consent"); err == nil {
			second = c.Value
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "consent", Value: "yes", Path: "/"})
	}))
	defer srv.Close()

	f := newTestFetcher(t, nil)
	get(t, f, srv.URL)
	get(t, f, srv.URL)
	if second != "yes" {
		t.Errorf("expected cookie on second request, got %q", second)
	}
}

func TestHTTPFetcherStealthHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
	}))
	defer srv.Close()

	get(t, newTestFetcher(t, nil), srv.URL)
	if got.Get("Sec-Fetch-Mode") != "" {
		t.Error("plain fetcher should not send Sec-Fetch headers")
	}

	get(t, newTestFetcher(t, func(c *config.Config) { c.Fetcher.Stealth = true }), srv.URL)
	if got.Get("Sec-Fetch-Mode") != "navigate" || got.Get("Sec-Ch-Ua-Mobile") != "?0" {
		t.Errorf("missing stealth headers: %v", got)
	}
	if got.Get("User-Agent") == "" {
		t.Error("expected a User-Agent")
	}
}

func TestHTTPFetcherTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	f := newTestFetcher(t, nil)
	req, _ := types.NewRequest(srv.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := f.Fetch(ctx, req)
	if types.KindOf(err) != types.KindTimeout {
		t.Errorf("expected timeout kind, got %v (%s)", err, types.KindOf(err))
	}
}

func TestHTTPFetcherProxyExhausted(t *testing.T) {
	cfg := config.DefaultConfig()
	pm := NewProxyManager(&config.ProxyConfig{Enabled: true, Rotation: "round_robin", URLs: []string{"not a url"}}, testLogger)
	f, err := NewHTTPFetcher(cfg, pm, testLogger)
	if err != nil {
		t.Fatalf("new fetcher: %v", err)
	}
	defer f.Close()

	_, err = get(t, f, "http://127.0.0.1:1/")
	if !errors.Is(err, types.ErrProxyExhausted) {
		t.Errorf("expected proxy exhausted, got %v", err)
	}
}

func TestDetectChallenge(t *testing.T) {
	tests := []struct {
		body string
		want Challenge
	}{
		{`<div class="g-recaptcha" data-sitekey="k"></div>`, ChallengeReCaptcha},
		{`<script src="https://hcaptcha.com/1/api.js"></script>`, ChallengeHCaptcha},
		{`<div class="cf-turnstile"></div>`, ChallengeTurnstile},
		{`<title>Just a moment...</title>`, ChallengeCloudflare},
		{`<p>Acme posts record profits</p>`, ""},
	}
	for _, tt := range tests {
		if got := DetectChallenge([]byte(tt.body)); got != tt.want {
			t.Errorf("DetectChallenge(%q) = %q, want %q", tt.body, got, tt.want)
		}
	}
}

func TestProxyBenchedAfterFailure(t *testing.T) {
	cfg := config.DefaultConfig()
	pm := NewProxyManager(&config.ProxyConfig{Enabled: true, Rotation: "round_robin", URLs: []string{"http://127.0.0.1:1"}, Cooldown: time.Hour}, testLogger)
	f, err := NewHTTPFetcher(cfg, pm, testLogger)
	if err != nil {
		t.Fatalf("new fetcher: %v", err)
	}
	defer f.Close()

	if _, err := get(t, f, "http://example.invalid/"); types.KindOf(err) != types.KindFetch {
		t.Fatalf("expected fetch error through dead proxy, got %v", err)
	}
	if pm.HealthyCount() != 0 {
		t.Errorf("expected dead proxy to be benched, %d healthy", pm.HealthyCount())
	}

	pm.MarkHealthy(pm.proxies[0].URL)
	if pm.HealthyCount() != 1 || pm.Count() != 1 {
		t.Errorf("expected proxy back in rotation")
	}
}

func TestProxyRecoversAfterCooldown(t *testing.T) {
	var hits atomic.Int32
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			conn, _, err := w.(http.Hijacker).Hijack()
			if err == nil {
				conn.Close()
			}
			return
		}
		w.Write([]byte("ok"))
	}))
	defer proxy.Close()

	cfg := config.DefaultConfig()
	pm := NewProxyManager(&config.ProxyConfig{Enabled: true, Rotation: "round_robin", URLs: []string{proxy.URL}, Cooldown: 200 * time.Millisecond}, testLogger)
	f, err := NewHTTPFetcher(cfg, pm, testLogger)
	if err != nil {
		t.Fatalf("new fetcher: %v", err)
	}
	defer f.Close()

	if _, err := get(t, f, "http://news.example/"); types.KindOf(err) != types.KindFetch {
		t.Fatalf("expected first fetch through proxy to fail, got %v", err)
	}
	if pm.HealthyCount() != 0 {
		t.Fatalf("expected proxy benched after failure, %d in rotation", pm.HealthyCount())
	}

	time.Sleep(250 * time.Millisecond)

	resp, err := get(t, f, "http://news.example/")
	if err != nil {
		t.Fatalf("expected proxy back in rotation after cooldown, got %v", err)
	}
	if string(resp.Body) != "ok" {
		t.Errorf("unexpected body %q", resp.Body)
	}
	pm.mu.RLock()
	healthy := pm.proxies[0].Healthy
	pm.mu.RUnlock()
	if !healthy {
		t.Error("expected a successful request to mark the proxy healthy")
	}
}
