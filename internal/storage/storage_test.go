package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialpulse/pulse-analytics/internal/models"
)

var now = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func TestLocalStorage(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Store("snapshots/latest.json", []byte(`{"a":1}`)))
	require.NoError(t, s.Store("reports/2024-03-10.json", []byte(`{}`)))
	require.NoError(t, s.Store("reports/2024-03-11.json", []byte(`{}`)))

	data, err := s.Retrieve("snapshots/latest.json")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(data))

	names, err := s.List("reports/")
	require.NoError(t, err)
	assert.Equal(t, []string{"reports/2024-03-10.json", "reports/2024-03-11.json"}, names)

	require.NoError(t, s.Delete("reports/2024-03-10.json"))
	require.NoError(t, s.Delete("reports/does-not-exist.json"))

	_, err = s.Retrieve("reports/2024-03-10.json")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLocalStorage_PathsStayInRoot(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStorage(root)
	require.NoError(t, err)

	require.NoError(t, s.Store("../../escape.json", []byte("x")))

	names, err := s.List("")
	require.NoError(t, err)
	assert.Equal(t, []string{"escape.json"}, names)

	assert.Error(t, s.Store("", []byte("x")))
}

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "pulse.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLiteStore_UpsertAndList(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	items := []models.ContentItem{
		{
			ID: "reddit_1", Platform: models.PlatformReddit, Kind: models.KindSocialPost,
			Title: "First", Community: "golang", Score: 10, CommentCount: 2,
			CreatedAt: now.Add(-time.Hour),
			Derived:   models.Derived{SentimentScore: 0.4, EmotionalTone: "Positive", ProcessedAt: now},
		},
		{
			ID: "news_1", Platform: models.PlatformNews, Kind: models.KindNewsArticle,
			Title: "Headline", Community: "Reuters", CreatedAt: now.Add(-2 * time.Hour),
		},
		{
			ID: "reddit_old", Platform: models.PlatformReddit, Kind: models.KindSocialPost,
			Title: "Old", CreatedAt: now.Add(-48 * time.Hour),
		},
	}
	require.NoError(t, store.UpsertItems(ctx, items))

	all, err := store.ListItems(ctx, "", now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "reddit_1", all[0].ID)
	assert.Equal(t, "news_1", all[1].ID)

	reddit, err := store.ListItems(ctx, models.PlatformReddit, now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, reddit, 1)
	assert.Equal(t, items[0], reddit[0])

	// re-collecting the same post updates it in place
	updated := items[0]
	updated.Score = 500
	updated.Derived.SentimentScore = -0.2
	require.NoError(t, store.UpsertItems(ctx, []models.ContentItem{updated}))

	reddit, err = store.ListItems(ctx, models.PlatformReddit, now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, reddit, 1)
	assert.Equal(t, 500, reddit[0].Score)
	assert.Equal(t, -0.2, reddit[0].Derived.SentimentScore)
}

func TestSQLiteStore_SearchItems(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertItems(ctx, []models.ContentItem{
		{ID: "r1", Platform: models.PlatformReddit, Kind: models.KindSocialPost, Title: "Tesla robotaxi launch", CreatedAt: now.Add(-time.Hour)},
		{ID: "r2", Platform: models.PlatformReddit, Kind: models.KindSocialPost, Title: "Weekend thread", Body: "anyone seen the TESLA news?", CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "n1", Platform: models.PlatformNews, Kind: models.KindNewsArticle, Title: "Markets close higher", Body: "100% rally", CreatedAt: now.Add(-3 * time.Hour)},
		{ID: "n2", Platform: models.PlatformNews, Kind: models.KindNewsArticle, Title: "Tesla recalls vehicles", CreatedAt: now.Add(-30 * time.Hour)},
	}))

	tests := []struct {
		name     string
		query    string
		expected []string
	}{
		{name: "case insensitive over title and body", query: "tesla", expected: []string{"r1", "r2"}},
		{name: "no match", query: "starship", expected: nil},
		{name: "wildcards are literal", query: "%", expected: []string{"n1"}},
		{name: "underscore is literal", query: "_", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := store.SearchItems(ctx, tt.query, now.Add(-24*time.Hour))
			require.NoError(t, err)

			var ids []string
			for _, item := range items {
				ids = append(ids, item.ID)
			}
			assert.Equal(t, tt.expected, ids)
		})
	}
}

func TestSQLiteStore_TopicsAndPrune(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertItems(ctx, []models.ContentItem{
		{ID: "a", Platform: models.PlatformReddit, Kind: models.KindSocialPost, Title: "new", CreatedAt: now},
		{ID: "b", Platform: models.PlatformReddit, Kind: models.KindSocialPost, Title: "old", CreatedAt: now.Add(-10 * 24 * time.Hour)},
	}))

	topics := []models.TrendingTopic{
		{Keyword: "climate", RedditMentions: 6, NewsMentions: 4, Momentum: models.MomentumRising, CreatedAt: now},
		{Keyword: "senate", RedditMentions: 0, NewsMentions: 3, Momentum: models.MomentumNew, CreatedAt: now.Add(-10 * 24 * time.Hour)},
	}
	require.NoError(t, store.SaveTopics(ctx, "run-1", topics))
	// saving the same run twice is idempotent
	require.NoError(t, store.SaveTopics(ctx, "run-1", topics))

	removed, err := store.PruneBefore(ctx, now.Add(-7*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	remaining, err := store.ListItems(ctx, "", time.Time{})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "a", remaining[0].ID)

	var topicCount int
	require.NoError(t, store.db.QueryRow(`SELECT COUNT(*) FROM trending_topics`).Scan(&topicCount))
	assert.Equal(t, 1, topicCount)
}

func TestOpenSQLite_RequiresPath(t *testing.T) {
	_, err := OpenSQLite("  ")
	assert.Error(t, err)
}
