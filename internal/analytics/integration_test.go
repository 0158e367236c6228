package analytics

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/socialpulse/pulse-analytics/internal/models"
	"github.com/socialpulse/pulse-analytics/internal/sources"
	"github.com/socialpulse/pulse-analytics/internal/storage"
)

func TestRunCollection_WithRealStorage(t *testing.T) {
	dir := t.TempDir()

	archive, err := storage.NewLocalStorage(filepath.Join(dir, "archive"))
	require.NoError(t, err)
	store, err := storage.OpenSQLite(filepath.Join(dir, "pulse.db"))
	require.NoError(t, err)
	defer store.Close()

	src := &MockSource{}
	src.On("GetName").Return("fixture")
	src.On("IsEnabled").Return(true)
	src.On("FetchItems", mock.Anything, 24*time.Hour).Return(sampleItems(), nil)

	notifier := &MockNotificationService{}
	var digests []*models.Report
	notifier.On("SendReport", mock.Anything).Run(func(args mock.Arguments) {
		digests = append(digests, args.Get(0).(*models.Report))
	}).Return(nil)

	service := NewService(testConfig(), archive, store, notifier, nil)
	service.sources = []sources.Source{src}
	clock := now
	service.now = func() time.Time { return clock }

	// first run: every topic is new
	require.NoError(t, service.RunCollection())

	first := service.LatestDashboard()
	require.NotNil(t, first)
	require.NotEmpty(t, first.Correlation.TrendingTopics)
	for _, topic := range first.Correlation.TrendingTopics {
		assert.Equal(t, models.MomentumNew, topic.Momentum, topic.Keyword)
	}

	stored, err := store.ListItems(context.Background(), "", now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Len(t, stored, 5)

	snapshot, err := archive.Retrieve(SnapshotFile)
	require.NoError(t, err)
	var saved []models.TrendingTopic
	require.NoError(t, json.Unmarshal(snapshot, &saved))
	assert.Len(t, saved, len(first.Correlation.TrendingTopics))

	// second run half an hour later re-collects the same items
	clock = now.Add(30 * time.Minute)
	require.NoError(t, service.RunCollection())

	second := service.LatestDashboard()
	require.NotNil(t, second)
	assert.NotEqual(t, first.RunID, second.RunID)
	for _, topic := range second.Correlation.TrendingTopics {
		assert.Equal(t, models.MomentumStable, topic.Momentum, topic.Keyword)
	}

	stored, err = store.ListItems(context.Background(), "", now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Len(t, stored, 5, "re-collected items are upserted, not duplicated")

	reports, err := archive.List(ReportPrefix)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"reports/dashboard-2024-03-10-12-00-00.json",
		"reports/dashboard-2024-03-10-12-30-00.json",
	}, reports)

	data, err := service.Report("dashboard-2024-03-10-12-30-00.json")
	require.NoError(t, err)
	var archived Dashboard
	require.NoError(t, json.Unmarshal(data, &archived))
	assert.Equal(t, second.RunID, archived.RunID)

	found, err := service.Search(context.Background(), "TESLA", 0, 4)
	require.NoError(t, err)
	assert.Equal(t, 5, found.TotalMatches)
	assert.Len(t, found.RedditMatches, 2)
	assert.Len(t, found.NewsMatches, 2)

	require.Len(t, digests, 2)
	assert.Equal(t, 5, digests[1].TotalItems)
}
