package correlation

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/socialpulse/pulse-analytics/internal/models"
)

// SentimentReport compares the sentiment distributions of both platforms
type SentimentReport struct {
	RedditAvg           float64 `json:"reddit_avg_sentiment"`
	NewsAvg             float64 `json:"news_avg_sentiment"`
	RedditStd           float64 `json:"reddit_sentiment_std"`
	NewsStd             float64 `json:"news_sentiment_std"`
	SentimentDifference float64 `json:"sentiment_difference"`
	OverallCorrelation  float64 `json:"overall_correlation"`
	PairedKeywords      int     `json:"paired_keywords"`
}

// SentimentCorrelation computes each platform's mean and population standard
// deviation, and the Pearson correlation of per-keyword mean sentiment over the
// vocabulary terms both platforms mention. Fewer than two shared keywords give
// a correlation of 0. Either platform being empty yields insufficient data.
func (c *Correlator) SentimentCorrelation(reddit, news []models.ContentItem) models.Result[SentimentReport] {
	if len(reddit) == 0 || len(news) == 0 {
		return models.Insufficient[SentimentReport]("sentiment correlation needs items from both platforms")
	}

	redditAvg, redditStd := stat.PopMeanStdDev(sentiments(reddit), nil)
	newsAvg, newsStd := stat.PopMeanStdDev(sentiments(news), nil)

	report := SentimentReport{
		RedditAvg:           redditAvg,
		NewsAvg:             newsAvg,
		RedditStd:           redditStd,
		NewsStd:             newsStd,
		SentimentDifference: redditAvg - newsAvg,
	}

	redditPaired, newsPaired := c.pairedSentiments(reddit, news)
	report.PairedKeywords = len(redditPaired)
	report.OverallCorrelation = pearson(redditPaired, newsPaired)

	return models.OK(report)
}

func sentiments(items []models.ContentItem) []float64 {
	out := make([]float64, len(items))
	for i, item := range items {
		out[i] = item.Derived.SentimentScore
	}
	return out
}

// pairedSentiments returns per-keyword mean sentiment for both platforms,
// aligned by keyword in alphabetical order
func (c *Correlator) pairedSentiments(reddit, news []models.ContentItem) ([]float64, []float64) {
	redditByTerm := c.vocabularySentiment(reddit)
	newsByTerm := c.vocabularySentiment(news)

	var shared []string
	for term := range redditByTerm {
		if _, ok := newsByTerm[term]; ok {
			shared = append(shared, term)
		}
	}
	sort.Strings(shared)

	redditPaired := make([]float64, 0, len(shared))
	newsPaired := make([]float64, 0, len(shared))
	for _, term := range shared {
		redditPaired = append(redditPaired, redditByTerm[term].AvgSentiment())
		newsPaired = append(newsPaired, newsByTerm[term].AvgSentiment())
	}
	return redditPaired, newsPaired
}

func (c *Correlator) vocabularySentiment(items []models.ContentItem) map[string]models.TermStat {
	stats := make(map[string]models.TermStat)
	for _, item := range items {
		for term := range c.vocabularyTerms(item.Text()) {
			stats[term] = stats[term].Merge(models.TermStat{
				Term:         term,
				Count:        1,
				SentimentSum: item.Derived.SentimentScore,
			})
		}
	}
	return stats
}
