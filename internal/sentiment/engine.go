// Package sentiment fuses two independent polarity estimators into one score.
package sentiment

import (
	"math"
	"strings"

	"github.com/socialpulse/pulse-analytics/internal/models"
)

// Fusion weights. The estimators may disagree and no reconciliation is done
// beyond this fixed weighting.
const (
	SocialWeight = 0.7
	ProseWeight  = 0.3
)

// Classification thresholds for a single score
const (
	PositiveCutoff = 0.05
	NegativeCutoff = -0.05
)

// Result is the output of Engine.Analyze
type Result struct {
	VaderScore     float64 `json:"vader_score"`
	SecondaryScore float64 `json:"secondary_score"`
	FinalScore     float64 `json:"final_score"`
	Confidence     float64 `json:"confidence"`
}

// Engine combines a social text estimator and a prose estimator
type Engine struct {
	social Estimator
	prose  Estimator
}

// NewEngine creates a fusion engine. Nil estimators fall back to the built-in ones.
func NewEngine(social, prose Estimator) *Engine {
	if social == nil {
		social = NewVaderEstimator()
	}
	if prose == nil {
		prose = NewProseEstimator()
	}
	return &Engine{social: social, prose: prose}
}

// Analyze scores text. Empty or whitespace-only text yields a zero result
// without consulting either estimator.
func (e *Engine) Analyze(text string) Result {
	if strings.TrimSpace(text) == "" {
		return Result{}
	}

	social := bound(e.social.Polarity(text))
	prose := bound(e.prose.Polarity(text))
	final := bound(social*SocialWeight + prose*ProseWeight)

	return Result{
		VaderScore:     social,
		SecondaryScore: prose,
		FinalScore:     final,
		Confidence:     math.Abs(final),
	}
}

// Classify labels a sentiment score
func Classify(score float64) string {
	switch {
	case score >= PositiveCutoff:
		return "Positive"
	case score <= NegativeCutoff:
		return "Negative"
	default:
		return "Neutral"
	}
}

// Metrics accumulates the sentiment of already scored items
func Metrics(items []models.ContentItem) models.SentimentMetrics {
	var m models.SentimentMetrics
	for _, item := range items {
		m.Add(item.Derived.SentimentScore)
	}
	return m
}

// PlatformComparison contrasts the sentiment of both platforms
type PlatformComparison struct {
	Reddit             models.SentimentMetrics `json:"reddit"`
	News               models.SentimentMetrics `json:"news"`
	RedditAvg          float64                 `json:"reddit_avg"`
	NewsAvg            float64                 `json:"news_avg"`
	Difference         float64                 `json:"difference"`
	RedditMorePositive bool                    `json:"reddit_more_positive"`
}

// ComparePlatforms computes per-platform metrics and their difference
func ComparePlatforms(reddit, news []models.ContentItem) PlatformComparison {
	r := Metrics(reddit)
	n := Metrics(news)

	return PlatformComparison{
		Reddit:             r,
		News:               n,
		RedditAvg:          r.AverageScore,
		NewsAvg:            n.AverageScore,
		Difference:         r.AverageScore - n.AverageScore,
		RedditMorePositive: r.AverageScore > n.AverageScore,
	}
}

// bound clamps to [-1, 1] and maps NaN to 0
func bound(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(-1, math.Min(1, v))
}
