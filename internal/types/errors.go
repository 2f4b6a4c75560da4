package types

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Sentinel errors for common failure modes.
var (
	ErrInvalidURL     = errors.New("invalid URL")
	ErrNoFetcher      = errors.New("no fetcher available for request")
	ErrProxyExhausted = errors.New("all proxies exhausted")
	ErrNoInput        = errors.New("no input provided")
	ErrNoArticles     = errors.New("news set has no articles field")
	ErrChallenged     = errors.New("page is an anti-bot challenge")
)

// Kind classifies an error for the boundary layer.
type Kind int

const (
	KindInternal Kind = iota
	KindFetch
	KindParse
	KindInput
	KindSpeech
	KindStorage
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindFetch:
		return "fetch"
	case KindParse:
		return "parse"
	case KindInput:
		return "input"
	case KindSpeech:
		return "speech"
	case KindStorage:
		return "storage"
	case KindTimeout:
		return "timeout"
	default:
		return "internal"
	}
}

// KindOf walks the error chain and reports the most specific kind.
// Deadline errors win over the wrapper they travel in.
func KindOf(err error) Kind {
	if err == nil {
		return KindInternal
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}

	var (
		fetchErr   *FetchError
		parseErr   *ParseError
		inputErr   *InputError
		speechErr  *SpeechError
		storageErr *StorageError
	)
	switch {
	case errors.As(err, &fetchErr):
		return KindFetch
	case errors.As(err, &parseErr):
		return KindParse
	case errors.As(err, &inputErr):
		return KindInput
	case errors.As(err, &speechErr):
		return KindSpeech
	case errors.As(err, &storageErr):
		return KindStorage
	}
	return KindInternal
}

// FetchError wraps errors that occur during fetching.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError wraps errors that occur during parsing.
type ParseError struct {
	URL      string
	Selector string
	Err      error
}

func (e *ParseError) Error() string {
	if e.Selector == "" {
		return fmt.Sprintf("parse error for %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("parse error for %s (selector=%q): %v", e.URL, e.Selector, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// InputError reports a malformed news set handed to the engine.
type InputError struct {
	Source string
	Err    error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid input (%s): %v", e.Source, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// SpeechError wraps translation and synthesis failures.
type SpeechError struct {
	Stage string
	Err   error
}

func (e *SpeechError) Error() string {
	return fmt.Sprintf("speech error at stage %q: %v", e.Stage, e.Err)
}

func (e *SpeechError) Unwrap() error { return e.Err }

// StorageError wraps errors that occur while archiving reports.
type StorageError struct {
	Backend string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error (%s): %v", e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// PipelineError wraps errors that occur in the article pipeline.
type PipelineError struct {
	Stage   string
	Article *RawArticle
	Err     error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("pipeline error at stage %q: %v", e.Stage, e.Err)
}

func (e *PipelineError) Unwrap() error { return e.Err }
