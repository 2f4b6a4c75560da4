// Package speech translates the report verdict and renders it as audio.
package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
)

// maxTranslateChars is the longest text the web translator accepts.
const maxTranslateChars = 5000

var errNoTranslation = errors.New("no translation in response")

// Translator maps text from one language to another.
type Translator interface {
	Translate(ctx context.Context, text string) (string, error)
}

// GoogleTranslator scrapes the mobile Google Translate page.
type GoogleTranslator struct {
	client *resty.Client
	url    string
	source string
	target string
}

// NewGoogleTranslator creates a translator from source to target language.
func NewGoogleTranslator(endpoint, source, target string, timeout time.Duration) *GoogleTranslator {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")

	return &GoogleTranslator{
		client: client,
		url:    endpoint,
		source: source,
		target: target,
	}
}

// Translate returns the translation of text. Blank text translates to "".
func (g *GoogleTranslator) Translate(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}
	if len([]rune(text)) > maxTranslateChars {
		return "", fmt.Errorf("text longer than %d characters", maxTranslateChars)
	}

	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"sl": g.source,
			"tl": g.target,
			"q":  text,
		}).
		Get(g.url)
	if err != nil {
		return "", err
	}
	if resp.StatusCode() != http.StatusOK {
		return "", fmt.Errorf("translate status %d", resp.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
	if err != nil {
		return "", err
	}
	result := doc.Find("div.result-container").First()
	if result.Length() == 0 {
		return "", errNoTranslation
	}
	translated := strings.TrimSpace(result.Text())
	if translated == "" {
		return "", errNoTranslation
	}
	return translated, nil
}
