package correlation

import (
	"fmt"
	"math"
	"time"

	"github.com/socialpulse/pulse-analytics/internal/models"
)

// DataSummary describes the input of a correlation run
type DataSummary struct {
	RedditPosts  int    `json:"reddit_posts"`
	NewsArticles int    `json:"news_articles"`
	TimeRange    string `json:"time_range"`
}

// Report is the full cross-platform comparison for one run
type Report struct {
	Timestamp            time.Time                      `json:"timestamp"`
	DataSummary          DataSummary                    `json:"data_summary"`
	TopicOverlap         Overlap                        `json:"topic_overlap"`
	TimingAnalysis       models.Result[Activity]        `json:"timing_analysis"`
	PredictionPatterns   Prediction                     `json:"prediction_patterns"`
	SentimentCorrelation models.Result[SentimentReport] `json:"sentiment_correlation"`
	TrendingTopics       []models.TrendingTopic         `json:"trending_topics"`
	MomentumAnalysis     []MomentumEntry                `json:"momentum_analysis"`
	Insights             []string                       `json:"insights"`
}

// GenerateReport runs every comparison over the scored items. previous is the
// topic snapshot of the prior run and may be nil.
func (c *Correlator) GenerateReport(reddit, news []models.ContentItem, previous []models.TrendingTopic, asOf time.Time) (*Report, error) {
	report := &Report{
		Timestamp: asOf,
		DataSummary: DataSummary{
			RedditPosts:  len(reddit),
			NewsArticles: len(news),
			TimeRange:    fmt.Sprintf("%.0f hours", c.opts.Window.Hours()),
		},
		TopicOverlap:         c.TopicOverlap(reddit, news),
		TimingAnalysis:       c.ActivityTiming(reddit, news),
		PredictionPatterns:   c.PredictionPatterns(reddit, news),
		SentimentCorrelation: c.SentimentCorrelation(reddit, news),
	}

	topics, err := c.CrossPlatformTopics(reddit, news, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to build trending topics: %w", err)
	}

	report.MomentumAnalysis, err = c.AnalyzeMomentum(topics, previous)
	if err != nil {
		return nil, fmt.Errorf("failed to analyze momentum: %w", err)
	}

	report.TrendingTopics = make([]models.TrendingTopic, 0, len(topics))
	for _, t := range topics {
		report.TrendingTopics = append(report.TrendingTopics, *t)
	}

	report.Insights = insights(report)
	return report, nil
}

func insights(r *Report) []string {
	var out []string

	switch pct := r.TopicOverlap.OverlapPercentage; {
	case pct > 20:
		out = append(out, fmt.Sprintf("Strong topic overlap: %.1f%% of topics are discussed on both platforms", pct))
	case pct > 10:
		out = append(out, fmt.Sprintf("Moderate topic overlap: %.1f%% of topics span both platforms", pct))
	default:
		out = append(out, "Limited topic overlap - platforms focus on different subjects")
	}

	if acc := r.PredictionPatterns.PredictionAccuracy; acc > 50 {
		out = append(out, fmt.Sprintf("Reddit often predicts news: %.1f%% accuracy", acc))
	} else if n := len(r.PredictionPatterns.RedditFirst); n > 0 {
		out = append(out, fmt.Sprintf("Reddit discusses %d topics before news coverage", n))
	}

	if r.SentimentCorrelation.IsOK() {
		diff := r.SentimentCorrelation.Report.SentimentDifference
		switch {
		case math.Abs(diff) <= 0.2:
			out = append(out, "Reddit and news sentiment are closely aligned")
		case diff > 0:
			out = append(out, "Reddit users are significantly more positive than news coverage")
		default:
			out = append(out, "News coverage is more positive than Reddit discussions")
		}
	}

	return out
}
