package storage

import (
	"context"
	"errors"
	"time"

	"github.com/socialpulse/pulse-analytics/internal/models"
)

// ErrNotFound is returned by Retrieve when the named object does not exist
var ErrNotFound = errors.New("object not found")

// StorageInterface defines the contract for the report and snapshot archive
type StorageInterface interface {
	Store(filename string, data []byte) error
	Retrieve(filename string) ([]byte, error)
	List(prefix string) ([]string, error)
	Delete(filename string) error
}

// ItemStore persists collected items and per-run topic snapshots
type ItemStore interface {
	UpsertItems(ctx context.Context, items []models.ContentItem) error
	ListItems(ctx context.Context, platform models.Platform, since time.Time) ([]models.ContentItem, error)
	SearchItems(ctx context.Context, query string, since time.Time) ([]models.ContentItem, error)
	SaveTopics(ctx context.Context, runID string, topics []models.TrendingTopic) error
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
	Close() error
}
