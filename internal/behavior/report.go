package behavior

import (
	"fmt"
	"math"
	"time"

	"github.com/socialpulse/pulse-analytics/internal/models"
)

// SampleSize counts the items behind a report
type SampleSize struct {
	RedditPosts  int `json:"reddit_posts"`
	NewsArticles int `json:"news_articles"`
}

// Report bundles every behavioral aggregate for one run
type Report struct {
	AnalysisTimestamp  time.Time                              `json:"analysis_timestamp"`
	SampleSize         SampleSize                             `json:"sample_size"`
	SentimentVirality  models.Result[SentimentViralityReport] `json:"sentiment_virality"`
	EngagementFactors  models.Result[EngagementFactorsReport] `json:"engagement_factors"`
	CommunityPatterns  models.Result[CommunityReport]         `json:"community_patterns"`
	TemporalPatterns   models.Result[TemporalReport]          `json:"temporal_patterns"`
	HourlySentiment    []HourlySentiment                      `json:"hourly_sentiment"`
	CommunitySentiment []CommunitySentiment                   `json:"community_sentiment"`
	ExecutiveSummary   []string                               `json:"executive_summary"`
}

// Report runs every behavioral aggregate. The reddit items drive the
// engagement and community sections, news items only count toward the sample size.
func (a *Aggregator) Report(reddit, news []models.ContentItem, asOf time.Time) *Report {
	r := &Report{
		AnalysisTimestamp:  asOf,
		SampleSize:         SampleSize{RedditPosts: len(reddit), NewsArticles: len(news)},
		SentimentVirality:  a.SentimentVirality(reddit),
		EngagementFactors:  a.EngagementFactors(reddit),
		CommunityPatterns:  a.CommunityProfiles(reddit),
		TemporalPatterns:   a.TemporalProfile(reddit),
		HourlySentiment:    a.HourlySentimentTrend(reddit),
		CommunitySentiment: a.CommunitySentimentRanking(reddit),
	}
	r.ExecutiveSummary = executiveSummary(r)
	return r
}

func executiveSummary(r *Report) []string {
	summary := []string{}

	if r.SentimentVirality.IsOK() {
		ki := r.SentimentVirality.Report.KeyInsights
		if ki.ControversyBreedsEngagement {
			summary = append(summary, "Negative sentiment content generates more engagement than positive content")
		}
		if diff := ki.NegativeViralRate - ki.PositiveViralRate; math.Abs(diff) > 2 {
			if diff > 0 {
				summary = append(summary, fmt.Sprintf("Negative content is %.1f%% more likely to go viral", diff))
			} else {
				summary = append(summary, fmt.Sprintf("Positive content is %.1f%% more likely to go viral", -diff))
			}
		}
	}

	if r.EngagementFactors.IsOK() {
		summary = append(summary, r.EngagementFactors.Report.KeyInsights...)
	}

	if r.CommunityPatterns.IsOK() {
		ov := r.CommunityPatterns.Report.Overview
		if ov.AvgProfanityAcrossAll > 1 {
			summary = append(summary, fmt.Sprintf("Average of %.1f curse words per post across communities", ov.AvgProfanityAcrossAll))
		}
		summary = append(summary, fmt.Sprintf("Most profane community: %s, cleanest: %s", ov.MostProfaneCommunity, ov.CleanestCommunity))
	}

	if r.TemporalPatterns.IsOK() {
		summary = append(summary, r.TemporalPatterns.Report.Insights...)
	}

	return summary
}
