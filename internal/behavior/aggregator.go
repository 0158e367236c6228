// Package behavior rolls scored items up into population level behavioral reports.
package behavior

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/socialpulse/pulse-analytics/internal/models"
)

// Sentiment categories, ordered from most negative to most positive
const (
	VeryNegative = "very_negative"
	Negative     = "negative"
	Neutral      = "neutral"
	Positive     = "positive"
	VeryPositive = "very_positive"
)

var categoryOrder = []string{VeryNegative, Negative, Neutral, Positive, VeryPositive}

// Options configures the aggregator thresholds
type Options struct {
	ViralThreshold   int            // raw score above which a post counts as viral
	MinCommunitySize int            // communities with fewer items are skipped
	Location         *time.Location // hour-of-day grouping
}

// DefaultOptions returns the standard thresholds in UTC
func DefaultOptions() Options {
	return Options{ViralThreshold: 1000, MinCommunitySize: 5, Location: time.UTC}
}

// Aggregator builds behavioral reports from items whose derived fields are populated
type Aggregator struct {
	opts Options
}

// NewAggregator creates a new aggregator
func NewAggregator(opts Options) *Aggregator {
	if opts.ViralThreshold <= 0 {
		opts.ViralThreshold = 1000
	}
	if opts.MinCommunitySize <= 0 {
		opts.MinCommunitySize = 5
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Aggregator{opts: opts}
}

// SentimentCategory buckets a score into one of the five categories.
// The lower bound of each bucket is inclusive, and 1.0 is very positive.
func SentimentCategory(score float64) string {
	switch {
	case score < -0.5:
		return VeryNegative
	case score < -0.1:
		return Negative
	case score < 0.1:
		return Neutral
	case score < 0.5:
		return Positive
	default:
		return VeryPositive
	}
}

// CategoryStats summarizes engagement within one sentiment category
type CategoryStats struct {
	Count            int     `json:"count"`
	AvgEngagement    float64 `json:"avg_engagement"`
	MedianEngagement float64 `json:"median_engagement"`
	AvgScore         float64 `json:"avg_score"`
	ViralPosts       int     `json:"viral_posts"`
	ViralPercentage  float64 `json:"viral_percentage"`
}

// ViralityInsights compares how negative and positive content spreads
type ViralityInsights struct {
	NegativeViralRate           float64 `json:"negative_sentiment_viral_rate"`
	PositiveViralRate           float64 `json:"positive_sentiment_viral_rate"`
	ViralityDifference          float64 `json:"sentiment_virality_difference"`
	MostViralSentiment          string  `json:"most_viral_sentiment"`
	ControversyBreedsEngagement bool    `json:"controversy_breeds_engagement"`
}

// SentimentViralityReport relates sentiment categories to engagement
type SentimentViralityReport struct {
	Categories  map[string]CategoryStats `json:"sentiment_engagement_analysis"`
	KeyInsights ViralityInsights         `json:"key_insights"`
	SampleSize  int                      `json:"sample_size"`
}

// SentimentVirality groups items by sentiment category and reports the mean and
// median engagement velocity and the share of viral items per category.
func (a *Aggregator) SentimentVirality(items []models.ContentItem) models.Result[SentimentViralityReport] {
	if len(items) == 0 {
		return models.Insufficient[SentimentViralityReport]("no posts provided")
	}

	grouped := make(map[string][]models.ContentItem)
	for _, item := range items {
		cat := SentimentCategory(item.Derived.SentimentScore)
		grouped[cat] = append(grouped[cat], item)
	}

	categories := make(map[string]CategoryStats, len(grouped))
	for cat, group := range grouped {
		velocities := make([]float64, len(group))
		scores := make([]float64, len(group))
		viral := 0
		for i, item := range group {
			velocities[i] = item.Derived.EngagementVelocity
			scores[i] = float64(item.Score)
			if item.Score > a.opts.ViralThreshold {
				viral++
			}
		}

		categories[cat] = CategoryStats{
			Count:            len(group),
			AvgEngagement:    round(stat.Mean(velocities, nil), 2),
			MedianEngagement: round(median(velocities), 2),
			AvgScore:         round(stat.Mean(scores, nil), 1),
			ViralPosts:       viral,
			ViralPercentage:  round(float64(viral)/float64(len(group))*100, 1),
		}
	}

	negViral := categories[Negative].ViralPercentage + categories[VeryNegative].ViralPercentage
	posViral := categories[Positive].ViralPercentage + categories[VeryPositive].ViralPercentage

	mostViral := ""
	best := -1.0
	for _, cat := range categoryOrder {
		st, ok := categories[cat]
		if ok && st.ViralPercentage > best {
			best, mostViral = st.ViralPercentage, cat
		}
	}

	return models.OK(SentimentViralityReport{
		Categories: categories,
		KeyInsights: ViralityInsights{
			NegativeViralRate:           round(negViral/2, 1),
			PositiveViralRate:           round(posViral/2, 1),
			ViralityDifference:          round(math.Abs(negViral-posViral)/2, 1),
			MostViralSentiment:          mostViral,
			ControversyBreedsEngagement: categories[Negative].AvgEngagement > categories[Positive].AvgEngagement,
		},
		SampleSize: len(items),
	})
}

// Characteristics describes a group of items
type Characteristics struct {
	AvgTitleLength   float64        `json:"avg_title_length"`
	AvgContentLength float64        `json:"avg_content_length"`
	AvgReadability   float64        `json:"avg_readability"`
	AvgCurseWords    float64        `json:"avg_curse_words"`
	ToneDistribution map[string]int `json:"emotional_tone_dist"`
}

// FactorComparison contrasts one characteristic between top and bottom items
type FactorComparison struct {
	TopAvg     float64 `json:"top_avg"`
	BottomAvg  float64 `json:"bottom_avg"`
	Difference float64 `json:"difference"`
	Insight    string  `json:"insight"`
}

// EngagementFactorsReport contrasts the most and least engaging items
type EngagementFactorsReport struct {
	TitleLength   FactorComparison `json:"title_length"`
	ContentLength FactorComparison `json:"content_length"`
	Readability   FactorComparison `json:"readability"`
	Profanity     FactorComparison `json:"profanity_usage"`
	Top           Characteristics  `json:"top_posts_characteristics"`
	Bottom        Characteristics  `json:"bottom_posts_characteristics"`
	KeyInsights   []string         `json:"key_insights"`
	TopCount      int              `json:"top_posts"`
	BottomCount   int              `json:"bottom_posts"`
	TotalCount    int              `json:"total_posts"`
}

// Differences larger than these are reported as insights
const (
	titleLengthMateriality = 2
	readabilityMateriality = 10
	profanityMateriality   = 0.5
)

// EngagementFactors ranks items by score plus twice the comments and compares
// the top 10% against the bottom 10%, each at least one item.
func (a *Aggregator) EngagementFactors(items []models.ContentItem) models.Result[EngagementFactorsReport] {
	if len(items) == 0 {
		return models.Insufficient[EngagementFactorsReport]("no posts provided")
	}

	sorted := make([]models.ContentItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Engagement() > sorted[j].Engagement()
	})

	n := len(sorted) / 10
	if n == 0 {
		n = 1
	}
	top := characteristics(sorted[:n])
	bottom := characteristics(sorted[len(sorted)-n:])

	report := EngagementFactorsReport{
		TitleLength:   compare(top.AvgTitleLength, bottom.AvgTitleLength, 1, "longer titles", "shorter titles"),
		ContentLength: compare(top.AvgContentLength, bottom.AvgContentLength, 1, "longer content", "shorter content"),
		Readability:   compare(top.AvgReadability, bottom.AvgReadability, 1, "more readable", "less readable"),
		Profanity:     compare(top.AvgCurseWords, bottom.AvgCurseWords, 2, "more profanity", "less profanity"),
		Top:           top,
		Bottom:        bottom,
		KeyInsights:   []string{},
		TopCount:      n,
		BottomCount:   n,
		TotalCount:    len(items),
	}

	if math.Abs(report.TitleLength.Difference) > titleLengthMateriality {
		report.KeyInsights = append(report.KeyInsights, fmt.Sprintf("Top posts have %s (avg %.1f vs %.1f words)",
			report.TitleLength.Insight, report.TitleLength.TopAvg, report.TitleLength.BottomAvg))
	}
	if math.Abs(report.Readability.Difference) > readabilityMateriality {
		report.KeyInsights = append(report.KeyInsights, fmt.Sprintf("Top posts are %s (score %.1f vs %.1f)",
			report.Readability.Insight, report.Readability.TopAvg, report.Readability.BottomAvg))
	}
	if math.Abs(report.Profanity.Difference) > profanityMateriality {
		report.KeyInsights = append(report.KeyInsights, fmt.Sprintf("Top posts use %s (%.2f vs %.2f curse words per post)",
			report.Profanity.Insight, report.Profanity.TopAvg, report.Profanity.BottomAvg))
	}

	return models.OK(report)
}

func characteristics(items []models.ContentItem) Characteristics {
	titles := make([]float64, len(items))
	bodies := make([]float64, len(items))
	readability := make([]float64, len(items))
	curses := make([]float64, len(items))
	tones := make(map[string]int)

	for i, item := range items {
		titles[i] = float64(len(strings.Fields(item.Title)))
		bodies[i] = float64(len(strings.Fields(item.Body)))
		readability[i] = item.Derived.ReadabilityScore
		curses[i] = float64(item.Derived.ProfanityCount)

		tone := item.Derived.EmotionalTone
		if tone == "" {
			tone = "Neutral"
		}
		tones[tone]++
	}

	return Characteristics{
		AvgTitleLength:   round(stat.Mean(titles, nil), 1),
		AvgContentLength: round(stat.Mean(bodies, nil), 1),
		AvgReadability:   round(stat.Mean(readability, nil), 1),
		AvgCurseWords:    round(stat.Mean(curses, nil), 2),
		ToneDistribution: tones,
	}
}

func compare(top, bottom float64, places int, higher, lower string) FactorComparison {
	insight := lower
	if top > bottom {
		insight = higher
	}
	return FactorComparison{
		TopAvg:     top,
		BottomAvg:  bottom,
		Difference: round(top-bottom, places),
		Insight:    insight,
	}
}

// median returns the middle value, averaging the two middle values for even lengths
func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
