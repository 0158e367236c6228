package sources

import (
	"context"
	"time"

	"github.com/socialpulse/pulse-analytics/internal/models"
)

// Source interface defines the contract for all data sources.
// Items are returned with derived fields at their defaults.
type Source interface {
	GetName() string
	FetchItems(ctx context.Context, since time.Duration) ([]models.ContentItem, error)
	IsEnabled() bool
}

// removedTitle marks articles withdrawn by the publisher
const removedTitle = "[Removed]"

func deduplicateItems(items []models.ContentItem) []models.ContentItem {
	seen := make(map[string]bool)
	var unique []models.ContentItem

	for _, item := range items {
		if !seen[item.ID] {
			seen[item.ID] = true
			unique = append(unique, item)
		}
	}

	return unique
}
