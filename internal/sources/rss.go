package sources

import (
	"context"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/sirupsen/logrus"

	"github.com/socialpulse/pulse-analytics/internal/models"
)

// RSSSource collects news articles from plain RSS/Atom feeds
type RSSSource struct {
	feeds  []string
	limit  int
	parser *gofeed.Parser
}

// NewRSSSource creates a new RSS source
func NewRSSSource(feeds []string, limit int) *RSSSource {
	if limit <= 0 {
		limit = 50
	}
	parser := gofeed.NewParser()
	parser.UserAgent = "SocialPulseAnalytics/1.0"
	return &RSSSource{
		feeds:  feeds,
		limit:  limit,
		parser: parser,
	}
}

func (r *RSSSource) GetName() string {
	return "rss"
}

func (r *RSSSource) IsEnabled() bool {
	return len(r.feeds) > 0
}

func (r *RSSSource) FetchItems(ctx context.Context, since time.Duration) ([]models.ContentItem, error) {
	if !r.IsEnabled() {
		return nil, nil
	}

	cutoff := time.Now().Add(-since)
	var allItems []models.ContentItem

	for _, url := range r.feeds {
		feedCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		feed, err := r.parser.ParseURLWithContext(url, feedCtx)
		cancel()
		if err != nil {
			logrus.Errorf("Failed to fetch feed %s: %v", url, err)
			continue
		}

		items := feedItems(feed, cutoff)
		logrus.Debugf("Collected %d articles from feed %s", len(items), url)
		allItems = append(allItems, items...)

		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	unique := deduplicateItems(allItems)
	if len(unique) > r.limit {
		unique = unique[:r.limit]
	}
	return unique, nil
}

// feedItems converts parsed entries, skipping undated, removed and stale ones
func feedItems(feed *gofeed.Feed, cutoff time.Time) []models.ContentItem {
	var items []models.ContentItem

	for _, entry := range feed.Items {
		if entry.Title == "" || entry.Title == removedTitle || entry.Link == "" {
			continue
		}

		published := entry.PublishedParsed
		if published == nil {
			published = entry.UpdatedParsed
		}
		if published == nil || published.Before(cutoff) {
			continue
		}

		author := ""
		if entry.Author != nil {
			author = entry.Author.Name
		}

		items = append(items, models.ContentItem{
			ID:        newsItemID(entry.Link),
			Platform:  models.PlatformNews,
			Kind:      models.KindNewsArticle,
			Title:     entry.Title,
			Body:      entry.Description,
			Author:    author,
			URL:       entry.Link,
			Community: feed.Title,
			CreatedAt: published.UTC(),
		})
	}

	return items
}
