package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/socialpulse/pulse-analytics/internal/behavior"
	"github.com/socialpulse/pulse-analytics/internal/content"
	"github.com/socialpulse/pulse-analytics/internal/correlation"
	"github.com/socialpulse/pulse-analytics/internal/models"
	"github.com/socialpulse/pulse-analytics/internal/sentiment"
	"github.com/socialpulse/pulse-analytics/internal/trends"
)

const (
	platformTrendLimit = 20
	dashboardTopItems  = 10
	digestTopTopics    = 10
	digestTopItems     = 5
)

// DashboardSummary holds the headline numbers of a run
type DashboardSummary struct {
	RedditPosts      int     `json:"reddit_posts"`
	NewsArticles     int     `json:"news_articles"`
	TotalItems       int     `json:"total_items"`
	CrossPlatform    int     `json:"cross_platform_topics"`
	AvgViralityScore float64 `json:"avg_virality_score"`
}

// Dashboard is the report bundle served to the presentation layer
type Dashboard struct {
	RunID        string                          `json:"run_id"`
	GeneratedAt  time.Time                       `json:"generated_at"`
	Summary      DashboardSummary                `json:"summary"`
	Sentiment    sentiment.PlatformComparison    `json:"sentiment_comparison"`
	RedditTrends []trends.Trend                  `json:"reddit_trending"`
	NewsTrends   []trends.Trend                  `json:"news_trending"`
	Emerging     []trends.Emerging               `json:"emerging_topics"`
	Correlation  *correlation.Report             `json:"cross_platform"`
	Behavior     *behavior.Report                `json:"behavior"`
	Content      models.Result[content.Insights] `json:"content_insights"` // reddit posts only
	TopItems     []models.ContentItem            `json:"top_items"`
}

// BuildDashboard runs every aggregate over already scored items. previous is
// the topic snapshot of the prior run and may be nil.
func (s *Service) BuildDashboard(reddit, news []models.ContentItem, previous []models.TrendingTopic, asOf time.Time) (*Dashboard, error) {
	report, err := s.correlator.GenerateReport(reddit, news, previous, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to generate correlation report: %w", err)
	}

	all := make([]models.ContentItem, 0, len(reddit)+len(news))
	all = append(all, reddit...)
	all = append(all, news...)

	d := &Dashboard{
		GeneratedAt:  asOf,
		Sentiment:    sentiment.ComparePlatforms(reddit, news),
		RedditTrends: s.extractor.TrendingTopics(reddit, models.PlatformReddit, platformTrendLimit),
		NewsTrends:   s.extractor.TrendingTopics(news, models.PlatformNews, platformTrendLimit),
		Emerging:     s.extractor.PredictEmerging(reddit, asOf),
		Correlation:  report,
		Behavior:     s.aggregator.Report(reddit, news, asOf),
		Content:      s.analyzer.Insights(reddit),
		TopItems:     topByVirality(all, dashboardTopItems),
	}

	d.Summary = DashboardSummary{
		RedditPosts:  len(reddit),
		NewsArticles: len(news),
		TotalItems:   len(all),
	}
	for _, t := range report.TrendingTopics {
		if t.CrossPlatform() {
			d.Summary.CrossPlatform++
		}
	}
	if len(all) > 0 {
		var sum float64
		for _, item := range all {
			sum += item.Derived.ViralityScore
		}
		d.Summary.AvgViralityScore = sum / float64(len(all))
	}

	return d, nil
}

// Analyze scores items as of asOf and builds a dashboard from them without
// touching storage. Items that fail scoring keep neutral defaults.
func (s *Service) Analyze(items []models.ContentItem, previous []models.TrendingTopic, asOf time.Time) (*Dashboard, error) {
	batch := s.processor.ProcessBatch(items, asOf)
	reddit, news := models.SplitByPlatform(batch.Items)
	return s.BuildDashboard(reddit, news, previous, asOf)
}

// topByVirality returns up to n items ordered by virality score, highest first
func topByVirality(items []models.ContentItem, n int) []models.ContentItem {
	sorted := make([]models.ContentItem, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Derived.ViralityScore != sorted[j].Derived.ViralityScore {
			return sorted[i].Derived.ViralityScore > sorted[j].Derived.ViralityScore
		}
		return sorted[i].ID < sorted[j].ID
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// Digest condenses a dashboard into the notification report
func (s *Service) Digest(d *Dashboard) *models.Report {
	report := &models.Report{
		GeneratedAt: d.GeneratedAt,
		Period:      fmt.Sprintf("%d hours", s.config.HoursLookback),
		TotalItems:  d.Summary.TotalItems,
		Summary:     make(map[string]interface{}),
	}

	topics := d.Correlation.TrendingTopics
	if len(topics) > digestTopTopics {
		topics = topics[:digestTopTopics]
	}
	report.TopTopics = topics

	items := d.TopItems
	if len(items) > digestTopItems {
		items = items[:digestTopItems]
	}
	report.TopItems = items

	report.Insights = append(report.Insights, d.Correlation.Insights...)
	report.Insights = append(report.Insights, d.Behavior.ExecutiveSummary...)

	r, n := d.Sentiment.Reddit, d.Sentiment.News
	report.Summary["sentiment"] = map[string]int{
		"positive": r.PositiveCount + n.PositiveCount,
		"neutral":  r.NeutralCount + n.NeutralCount,
		"negative": r.NegativeCount + n.NegativeCount,
	}
	report.Summary["platforms"] = map[string]int{
		string(models.PlatformReddit): d.Summary.RedditPosts,
		string(models.PlatformNews):   d.Summary.NewsArticles,
	}

	return report
}
