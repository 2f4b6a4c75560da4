package speech

import (
	"context"
	"encoding/base64"
	"log/slog"
	"strings"
	"time"

	"github.com/IshaanNene/NewsPulse/internal/config"
	"github.com/IshaanNene/NewsPulse/internal/types"
)

// Rendition is a translated text and its spoken audio.
type Rendition struct {
	Text  string
	Audio []byte
}

// DataURIPrefix starts every audio data URI produced by DataURI.
const DataURIPrefix = "data:audio/mpeg;base64,"

// DataURI embeds the audio as a base64 data URI.
func (r *Rendition) DataURI() string {
	return DataURIPrefix + base64.StdEncoding.EncodeToString(r.Audio)
}

// DecodeDataURI returns the MP3 bytes embedded by DataURI. ok is false when
// uri is not an audio data URI, for example the placeholder.
func DecodeDataURI(uri string) (audio []byte, ok bool, err error) {
	encoded, ok := strings.CutPrefix(uri, DataURIPrefix)
	if !ok {
		return nil, false, nil
	}
	audio, err = base64.StdEncoding.DecodeString(encoded)
	return audio, true, err
}

// Service translates text and speaks the translation.
type Service struct {
	translator Translator
	synth      Synthesizer
	timeout    time.Duration
	logger     *slog.Logger
}

// New builds a Service from configuration using the Google endpoints.
func New(cfg *config.SpeechConfig, logger *slog.Logger) *Service {
	return NewService(
		NewGoogleTranslator(cfg.TranslateURL, cfg.SourceLang, cfg.TargetLang, cfg.Timeout),
		NewGoogleTTS(cfg.TTSURL, cfg.TargetLang, cfg.ChunkSize, cfg.Timeout),
		cfg.Timeout,
		logger,
	)
}

// NewService assembles a Service from its parts. timeout bounds a whole
// Render call; 0 means none.
func NewService(t Translator, s Synthesizer, timeout time.Duration, logger *slog.Logger) *Service {
	return &Service{
		translator: t,
		synth:      s,
		timeout:    timeout,
		logger:     logger.With("component", "speech"),
	}
}

// Render translates text and synthesizes the result.
func (s *Service) Render(ctx context.Context, text string) (*Rendition, error) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	translated, err := s.translator.Translate(ctx, text)
	if err != nil {
		return nil, &types.SpeechError{Stage: "translate", Err: err}
	}

	audio, err := s.synth.Synthesize(ctx, translated)
	if err != nil {
		return nil, &types.SpeechError{Stage: "tts", Err: err}
	}

	s.logger.Debug("speech rendered",
		"chars", len(translated),
		"audio_bytes", len(audio),
		"duration", time.Since(start),
	)
	return &Rendition{Text: translated, Audio: audio}, nil
}
