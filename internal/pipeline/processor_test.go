package pipeline

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialpulse/pulse-analytics/internal/content"
	"github.com/socialpulse/pulse-analytics/internal/lexicon"
	"github.com/socialpulse/pulse-analytics/internal/models"
	"github.com/socialpulse/pulse-analytics/internal/sentiment"
)

var asOf = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

type fixedEstimator float64

func (f fixedEstimator) Polarity(string) float64 { return float64(f) }

type panicEstimator struct{ trigger string }

func (p panicEstimator) Polarity(text string) float64 {
	if text == p.trigger {
		panic("estimator exploded")
	}
	return 0.2
}

func newTestProcessor(social sentiment.Estimator, workers int) *Processor {
	return NewProcessor(
		content.NewAnalyzer(lexicon.Default()),
		sentiment.NewEngine(social, fixedEstimator(0.5)),
		workers,
	)
}

func redditPost(id, title string, score, comments int, age time.Duration) models.ContentItem {
	return models.ContentItem{
		ID:           id,
		Platform:     models.PlatformReddit,
		Kind:         models.KindSocialPost,
		Title:        title,
		Score:        score,
		CommentCount: comments,
		Community:    "worldnews",
		CreatedAt:    asOf.Add(-age),
	}
}

func TestProcessItem(t *testing.T) {
	p := newTestProcessor(fixedEstimator(0.5), 1)
	item := redditPost("p1", "Scientists Discover New Planet", 500, 100, 2*time.Hour)

	require.NoError(t, p.ProcessItem(&item, asOf))

	assert.InDelta(t, 0.5, item.Derived.SentimentScore, 1e-9)
	assert.InDelta(t, 0.5, item.Derived.Confidence, 1e-9)
	assert.InDelta(t, 350.0, item.Derived.EngagementVelocity, 1e-9)
	assert.InDelta(t, 6.37, item.Derived.ViralityScore, 1e-9)
	assert.InDelta(t, 33.6, item.Derived.ReadabilityScore, 1e-9)
	assert.Equal(t, 0, item.Derived.ProfanityCount)
	assert.Equal(t, 4, item.Derived.WordCount)
	assert.Equal(t, asOf, item.Derived.ProcessedAt)
	assert.Equal(t, 0.0, item.Derived.CredibilityScore, "only news articles are rated for credibility")
}

func TestProcessItem_NewsArticle(t *testing.T) {
	p := newTestProcessor(fixedEstimator(0), 1)
	item := models.ContentItem{
		ID:        "n1",
		Platform:  models.PlatformNews,
		Kind:      models.KindNewsArticle,
		Title:     "Breaking: markets rally",
		Body:      "Stocks climbed on Tuesday.",
		Author:    "Jane Doe",
		Community: "Reuters",
		CreatedAt: asOf.Add(-time.Hour),
	}

	require.NoError(t, p.ProcessItem(&item, asOf))

	assert.Equal(t, 2.0, item.Derived.UrgencyScore)
	assert.Equal(t, 6.0, item.Derived.CredibilityScore)
}

func TestProcessItem_Idempotent(t *testing.T) {
	p := newTestProcessor(fixedEstimator(-0.3), 1)
	item := redditPost("p1", "This damn update is terrible!", 40, 12, 5*time.Hour)

	require.NoError(t, p.ProcessItem(&item, asOf))
	first := item.Derived

	require.NoError(t, p.ProcessItem(&item, asOf))
	assert.Equal(t, first, item.Derived)
}

func TestProcessItem_Validation(t *testing.T) {
	p := newTestProcessor(fixedEstimator(0), 1)

	missing := models.ContentItem{ID: "x", Title: "Hello"}
	assert.True(t, errors.Is(p.ProcessItem(&missing, asOf), ErrMissingTimestamp))

	empty := redditPost("y", "   ", 1, 1, time.Hour)
	assert.True(t, errors.Is(p.ProcessItem(&empty, asOf), ErrEmptyTitle))
}

func TestProcessBatch(t *testing.T) {
	items := make([]models.ContentItem, 0, 20)
	for i := 0; i < 20; i++ {
		items = append(items, redditPost(fmt.Sprintf("p%d", i), fmt.Sprintf("Post number %d about climate", i), i*10, i, time.Duration(i+1)*time.Hour))
	}

	sequential := newTestProcessor(fixedEstimator(0.4), 1).ProcessBatch(items, asOf)
	parallel := newTestProcessor(fixedEstimator(0.4), 8).ProcessBatch(items, asOf)

	require.Len(t, parallel.Items, len(items))
	assert.Empty(t, parallel.Failures)
	assert.Equal(t, sequential.Items, parallel.Items, "worker count must not change results or order")

	for i, item := range parallel.Items {
		assert.Equal(t, items[i].ID, item.ID)
		assert.Equal(t, models.Derived{}, items[i].Derived, "input slice must not be mutated")
	}
}

func TestProcessBatch_IsolatesFailures(t *testing.T) {
	p := newTestProcessor(panicEstimator{trigger: "Boom"}, 3)

	stale := redditPost("stale", "Boom", 10, 1, time.Hour)
	stale.Derived = models.Derived{SentimentScore: 0.9, ViralityScore: 7}

	items := []models.ContentItem{
		redditPost("ok1", "Fine post", 10, 1, time.Hour),
		{ID: "no-time", Title: "Missing timestamp"},
		stale,
		redditPost("ok2", "Another fine post", 3, 0, 2*time.Hour),
	}

	res := p.ProcessBatch(items, asOf)

	require.Len(t, res.Items, 4)
	require.Len(t, res.Failures, 2)
	assert.Equal(t, "no-time", res.Failures[0].ItemID)
	assert.Equal(t, "stale", res.Failures[1].ItemID)
	assert.Contains(t, res.Failures[1].Error, "panic")

	assert.Equal(t, models.Derived{}, res.Items[1].Derived)
	assert.Equal(t, models.Derived{}, res.Items[2].Derived, "stale derived values must be reset")
	assert.NotZero(t, res.Items[0].Derived.ViralityScore)
	assert.NotZero(t, res.Items[3].Derived.ViralityScore)
}

func TestProcessBatch_Empty(t *testing.T) {
	res := newTestProcessor(fixedEstimator(0), 4).ProcessBatch(nil, asOf)
	assert.Empty(t, res.Items)
	assert.Empty(t, res.Failures)
}

func TestNewProcessor_NilDependencies(t *testing.T) {
	p := NewProcessor(nil, nil, 0)
	items := []models.ContentItem{
		redditPost("p1", "Scientists Discover New Planet", 500, 100, 2*time.Hour),
		redditPost("p2", "What an amazing launch!", 20, 4, time.Hour),
	}

	res := p.ProcessBatch(items, asOf)

	assert.Empty(t, res.Failures)
	require.Len(t, res.Items, 2)
	assert.InDelta(t, 6.37, res.Items[0].Derived.ViralityScore, 1e-9)
	assert.Equal(t, 4, res.Items[0].Derived.WordCount)
	assert.False(t, res.Items[1].Derived.ProcessedAt.IsZero())
}
