package trends

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialpulse/pulse-analytics/internal/lexicon"
	"github.com/socialpulse/pulse-analytics/internal/models"
)

var asOf = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func post(title string, score, comments int, sentiment float64) models.ContentItem {
	return models.ContentItem{
		Platform:     models.PlatformReddit,
		Title:        title,
		Score:        score,
		CommentCount: comments,
		CreatedAt:    asOf.Add(-time.Hour),
		Derived:      models.Derived{SentimentScore: sentiment},
	}
}

func article(title string) models.ContentItem {
	return models.ContentItem{Platform: models.PlatformNews, Title: title, CreatedAt: asOf.Add(-time.Hour)}
}

func TestKeywords(t *testing.T) {
	e := NewExtractor(lexicon.Default(), 0)

	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{name: "Empty", text: "", expected: nil},
		{name: "Stop words and short tokens", text: "The AI is on the move", expected: []string{"move"}},
		{name: "Punctuation splits", text: "Tesla's stock-market rally!", expected: []string{"tesla", "stock", "market", "rally"}},
		{name: "Numbers dropped", text: "GPT4 launched in 2024 with 100 features", expected: []string{"launched", "features"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, e.Keywords(tt.text))
		})
	}
}

func TestPhrases(t *testing.T) {
	e := NewExtractor(lexicon.Default(), 0)

	phrases := e.Phrases("Climate summit in Paris", 2)
	assert.Equal(t, []string{"climate", "climate summit", "summit", "summit paris", "paris"}, phrases)

	trigrams := e.Phrases("climate summit paris", 3)
	assert.Contains(t, trigrams, "climate summit paris")
	assert.Len(t, trigrams, 6)

	assert.Empty(t, e.Phrases("", 2))
}

func TestAggregate_CountsOncePerItem(t *testing.T) {
	e := NewExtractor(lexicon.Default(), 0)
	items := []models.ContentItem{
		post("bitcoin bitcoin bitcoin", 10, 2, 0.5),
		post("bitcoin rally", 20, 4, -0.1),
	}

	stats := e.Aggregate(items, 2)

	btc := stats["bitcoin"]
	assert.Equal(t, 2, btc.Count)
	assert.Equal(t, 30, btc.TotalScore)
	assert.Equal(t, 6, btc.TotalComments)
	assert.InDelta(t, 0.2, btc.AvgSentiment(), 1e-9)
	assert.Equal(t, 1, stats["bitcoin bitcoin"].Count)
	assert.Equal(t, 1, stats["bitcoin rally"].Count)
}

func TestTrendingTopics_NoiseFloor(t *testing.T) {
	e := NewExtractor(lexicon.Default(), 2)
	items := []models.ContentItem{
		post("volcano erupts", 0, 0, 0),
		post("volcano ash", 0, 0, 0),
		post("lonely penguin", 0, 0, 0),
	}

	terms := map[string]Trend{}
	for _, tr := range e.TrendingTopics(items, models.PlatformReddit, 20) {
		terms[tr.Term] = tr
	}

	assert.Contains(t, terms, "volcano", "a term mentioned twice is kept")
	assert.NotContains(t, terms, "penguin", "a term mentioned once is dropped")
	assert.NotContains(t, terms, "volcano erupts")
}

func TestTrendingTopics_Scoring(t *testing.T) {
	e := NewExtractor(lexicon.Default(), 2)

	t.Run("Social terms include engagement", func(t *testing.T) {
		items := []models.ContentItem{
			post("Rocket launch", 100, 20, 0),
			post("Rocket failure", 300, 60, 0),
		}
		trends := e.TrendingTopics(items, models.PlatformReddit, 5)
		require.Len(t, trends, 1)
		// 2 + 200*0.1 + 40*0.05
		assert.InDelta(t, 24.0, trends[0].Score, 1e-9)
	})

	t.Run("News terms are raw counts with priority boost", func(t *testing.T) {
		items := []models.ContentItem{
			article("Bitcoin falls"),
			article("Bitcoin rebounds"),
			article("Harbour reopens"),
			article("Harbour closes"),
		}
		trends := e.TrendingTopics(items, models.PlatformNews, 5)
		require.Len(t, trends, 2)
		assert.Equal(t, "bitcoin", trends[0].Term)
		assert.InDelta(t, 3.0, trends[0].Score, 1e-9)
		assert.Equal(t, "harbour", trends[1].Term)
		assert.InDelta(t, 2.0, trends[1].Score, 1e-9)
	})

	t.Run("Ties break alphabetically and top N applies", func(t *testing.T) {
		items := []models.ContentItem{
			article("zebra yak"),
			article("zebra yak"),
		}
		trends := e.TrendingTopics(items, models.PlatformNews, 2)
		require.Len(t, trends, 2)
		assert.Equal(t, "yak", trends[0].Term)
		assert.Equal(t, "zebra", trends[1].Term)
	})
}

func TestPostViralPotential(t *testing.T) {
	item := post("x", 100, 50, 0.5)
	item.CreatedAt = asOf.Add(-10 * time.Hour)

	// velocity 20, comment ratio 0.5, sentiment boost 0.05
	assert.InDelta(t, 20*1.5*1.05, PostViralPotential(item, asOf), 1e-9)

	hot := post("y", 100000, 5000, 0)
	assert.Equal(t, 100.0, PostViralPotential(hot, asOf))
}

func TestPredictEmerging(t *testing.T) {
	e := NewExtractor(lexicon.Default(), 2)

	old := post("Quantum computing milestone", 10000, 100, 0)
	old.CreatedAt = asOf.Add(-7 * time.Hour)

	items := []models.ContentItem{
		post("Quantum chip announced", 50, 10, 0),
		post("Quantum chip benchmark", 30, 5, 0),
		post("Garden tips", 1, 0, 0),
		post("Garden ideas", 1, 0, 0),
		old,
	}

	predictions := e.PredictEmerging(items, asOf)

	byKeyword := map[string]Emerging{}
	for _, p := range predictions {
		byKeyword[p.Keyword] = p
	}

	require.Contains(t, byKeyword, "quantum")
	assert.Equal(t, 2, byKeyword["quantum"].MentionCount, "posts older than six hours are ignored")
	assert.Equal(t, "emerging", byKeyword["quantum"].Prediction)
	assert.Contains(t, byKeyword, "chip")
	assert.NotContains(t, byKeyword, "garden", "posts without viral potential are ignored")

	assert.Empty(t, e.PredictEmerging(nil, asOf))
}
