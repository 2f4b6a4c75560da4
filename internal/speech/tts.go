package speech

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
	"golang.org/x/sync/errgroup"
)

// maxParallelChunks bounds concurrent TTS requests for one text.
const maxParallelChunks = 4

// Synthesizer converts text to MP3 audio.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// GoogleTTS uses the public translate_tts endpoint. The endpoint only takes
// short texts, so input is split into chunks that are fetched concurrently
// and joined in order.
type GoogleTTS struct {
	client    *resty.Client
	url       string
	lang      string
	chunkSize int
}

// NewGoogleTTS creates a synthesizer speaking lang.
func NewGoogleTTS(endpoint, lang string, chunkSize int, timeout time.Duration) *GoogleTTS {
	client := resty.New()
	client.SetTimeout(timeout)
	client.SetHeader("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	client.SetHeader("Referer", "https://translate.google.com/")

	return &GoogleTTS{
		client:    client,
		url:       endpoint,
		lang:      lang,
		chunkSize: chunkSize,
	}
}

// Synthesize returns the MP3 audio for text.
func (g *GoogleTTS) Synthesize(ctx context.Context, text string) ([]byte, error) {
	chunks := SplitChunks(text, g.chunkSize)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("nothing to synthesize")
	}

	parts := make([][]byte, len(chunks))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(maxParallelChunks)

	for i, chunk := range chunks {
		eg.Go(func() error {
			audio, err := g.fetchChunk(egCtx, chunk, i, len(chunks))
			if err != nil {
				return fmt.Errorf("chunk %d: %w", i, err)
			}
			parts[i] = audio
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return bytes.Join(parts, nil), nil
}

func (g *GoogleTTS) fetchChunk(ctx context.Context, chunk string, idx, total int) ([]byte, error) {
	resp, err := g.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"ie":      "UTF-8",
			"client":  "tw-ob",
			"tl":      g.lang,
			"q":       chunk,
			"total":   strconv.Itoa(total),
			"idx":     strconv.Itoa(idx),
			"textlen": strconv.Itoa(utf8.RuneCountInString(chunk)),
		}).
		Get(g.url)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("tts status %d", resp.StatusCode())
	}
	if len(resp.Body()) == 0 {
		return nil, fmt.Errorf("empty audio")
	}
	return resp.Body(), nil
}

// SplitChunks breaks text into pieces of at most size runes, cutting on
// whitespace. A word longer than size is cut mid-word. size <= 0 keeps the
// text whole.
func SplitChunks(text string, size int) []string {
	if size <= 0 {
		if t := strings.Join(strings.Fields(text), " "); t != "" {
			return []string{t}
		}
		return nil
	}

	var chunks []string
	var cur strings.Builder
	curLen := 0

	flush := func() {
		if curLen > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
			curLen = 0
		}
	}

	for _, word := range strings.Fields(text) {
		runes := []rune(word)
		for len(runes) > size {
			flush()
			chunks = append(chunks, string(runes[:size]))
			runes = runes[size:]
		}
		if len(runes) == 0 {
			continue
		}

		need := len(runes)
		if curLen > 0 {
			need++
		}
		if curLen+need > size {
			flush()
			need = len(runes)
		}
		if curLen > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(string(runes))
		curLen += need
	}
	flush()
	return chunks
}
