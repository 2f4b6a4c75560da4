// Package storage archives comparative reports.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/IshaanNene/NewsPulse/internal/config"
	"github.com/IshaanNene/NewsPulse/internal/types"
)

// Storage is the interface for all storage backends.
type Storage interface {
	// Store persists one report.
	Store(ctx context.Context, report *types.ComparativeReport) error

	// Close flushes pending writes and releases resources.
	Close() error

	// Name returns the storage backend identifier.
	Name() string
}

// record is the archived form of a report.
type record struct {
	Timestamp time.Time `json:"_timestamp"`
	*types.ComparativeReport
}

// New builds the backends listed in cfg.Types. An empty list archives
// nothing.
func New(cfg *config.StorageConfig, logger *slog.Logger) (Storage, error) {
	if len(cfg.Types) == 0 {
		return NopStorage{}, nil
	}

	backends := make([]Storage, 0, len(cfg.Types))
	for _, t := range cfg.Types {
		var (
			b   Storage
			err error
		)
		if t == "mongodb" {
			b, err = NewMongoStorage(cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection, logger)
		} else {
			b, err = NewFileStorage(t, cfg.OutputPath, logger)
		}
		if err != nil {
			for _, opened := range backends {
				opened.Close()
			}
			return nil, &types.StorageError{Backend: t, Err: err}
		}
		backends = append(backends, b)
	}

	if len(backends) == 1 {
		return backends[0], nil
	}
	return NewMultiStorage(backends, logger), nil
}

// NopStorage discards reports.
type NopStorage struct{}

func (NopStorage) Name() string { return "none" }

func (NopStorage) Store(context.Context, *types.ComparativeReport) error { return nil }

func (NopStorage) Close() error { return nil }

// MultiStorage writes reports to multiple backends.
type MultiStorage struct {
	backends []Storage
	logger   *slog.Logger
}

// NewMultiStorage creates a storage that fans out to multiple backends.
func NewMultiStorage(backends []Storage, logger *slog.Logger) *MultiStorage {
	return &MultiStorage{
		backends: backends,
		logger:   logger.With("component", "multi_storage"),
	}
}

func (s *MultiStorage) Name() string { return "multi" }

// Store writes to every backend and returns the first error.
func (s *MultiStorage) Store(ctx context.Context, report *types.ComparativeReport) error {
	var firstErr error
	for _, backend := range s.backends {
		if err := backend.Store(ctx, report); err != nil {
			s.logger.Error("backend store failed", "backend", backend.Name(), "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (s *MultiStorage) Close() error {
	var firstErr error
	for _, backend := range s.backends {
		if err := backend.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("close %s: %w", backend.Name(), err)
		}
	}
	return firstErr
}
