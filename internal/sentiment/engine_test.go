package sentiment

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/socialpulse/pulse-analytics/internal/models"
)

// MockEstimator is a mock implementation of Estimator
type MockEstimator struct {
	mock.Mock
}

func (m *MockEstimator) Polarity(text string) float64 {
	args := m.Called(text)
	return args.Get(0).(float64)
}

func TestEngine_Analyze(t *testing.T) {
	tests := []struct {
		name          string
		social, prose float64
		expected      float64
	}{
		{name: "Agreeing estimators", social: 0.5, prose: 0.5, expected: 0.5},
		{name: "Disagreeing estimators", social: 0.8, prose: -0.4, expected: 0.44},
		{name: "Negative", social: -0.6, prose: -0.2, expected: -0.48},
		{name: "Out of range inputs are bounded", social: 3, prose: -2, expected: 0.4},
		{name: "NaN treated as zero", social: math.NaN(), prose: 1, expected: 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			social := new(MockEstimator)
			prose := new(MockEstimator)
			social.On("Polarity", "some text").Return(tt.social)
			prose.On("Polarity", "some text").Return(tt.prose)

			res := NewEngine(social, prose).Analyze("some text")

			assert.InDelta(t, tt.expected, res.FinalScore, 1e-9)
			assert.Equal(t, math.Abs(res.FinalScore), res.Confidence)
			social.AssertExpectations(t)
			prose.AssertExpectations(t)
		})
	}
}

func TestEngine_AnalyzeEmptySkipsEstimators(t *testing.T) {
	social := new(MockEstimator)
	prose := new(MockEstimator)
	engine := NewEngine(social, prose)

	for _, text := range []string{"", "   ", "\n\t"} {
		assert.Equal(t, Result{}, engine.Analyze(text))
	}

	social.AssertNotCalled(t, "Polarity", mock.Anything)
	prose.AssertNotCalled(t, "Polarity", mock.Anything)
}

func TestEngine_DefaultEstimators(t *testing.T) {
	engine := NewEngine(nil, nil)

	texts := []string{
		"I love this, it is absolutely wonderful!",
		"This is the worst, most terrible day ever.",
		"The meeting is at 3pm.",
		"NOT GOOD AT ALL!!! :(",
	}

	for _, text := range texts {
		res := engine.Analyze(text)
		assert.GreaterOrEqual(t, res.FinalScore, -1.0, text)
		assert.LessOrEqual(t, res.FinalScore, 1.0, text)
		assert.Equal(t, math.Abs(res.FinalScore), res.Confidence, text)
		assert.Equal(t, res, engine.Analyze(text), "analysis must be deterministic")
	}

	assert.Equal(t, "Positive", Classify(engine.Analyze(texts[0]).FinalScore))
	assert.Equal(t, "Negative", Classify(engine.Analyze(texts[1]).FinalScore))
}

func TestProseEstimator(t *testing.T) {
	p := NewProseEstimator()

	tests := []struct {
		name     string
		text     string
		expected float64
	}{
		{name: "No opinion words", text: "The train leaves at noon", expected: 0},
		{name: "Single word", text: "a good plan", expected: 0.7},
		{name: "Average", text: "good but bad", expected: 0},
		{name: "Intensifier", text: "very good", expected: 0.91},
		{name: "Negation", text: "not good", expected: -0.35},
		{name: "Negated intensifier", text: "not very good", expected: -0.455},
		{name: "Contraction", text: "it isn't good", expected: -0.35},
		{name: "Clamped", text: "extremely perfect", expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, p.Polarity(tt.text), 1e-9)
		})
	}
}

func TestClassify(t *testing.T) {
	assert.Equal(t, "Positive", Classify(0.05))
	assert.Equal(t, "Neutral", Classify(0.0499))
	assert.Equal(t, "Neutral", Classify(-0.0499))
	assert.Equal(t, "Negative", Classify(-0.05))
}

func TestComparePlatforms(t *testing.T) {
	item := func(score float64) models.ContentItem {
		return models.ContentItem{Derived: models.Derived{SentimentScore: score}}
	}

	reddit := []models.ContentItem{item(0.5), item(0.3)}
	news := []models.ContentItem{item(-0.2)}

	cmp := ComparePlatforms(reddit, news)

	assert.Equal(t, 2, cmp.Reddit.TotalItems)
	assert.InDelta(t, 0.4, cmp.RedditAvg, 1e-9)
	assert.InDelta(t, -0.2, cmp.NewsAvg, 1e-9)
	assert.InDelta(t, 0.6, cmp.Difference, 1e-9)
	assert.True(t, cmp.RedditMorePositive)

	empty := ComparePlatforms(nil, nil)
	assert.Equal(t, 0, empty.Reddit.TotalItems)
	assert.False(t, empty.RedditMorePositive)
}
