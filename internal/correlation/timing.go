package correlation

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/socialpulse/pulse-analytics/internal/models"
)

// leadThreshold is the gap beyond which one platform is considered to have led
const leadThreshold = 2.0 // hours

// LeadTopic is a keyword that surfaced on one platform well before the other
type LeadTopic struct {
	Keyword     string    `json:"keyword"`
	HoursAhead  float64   `json:"hours_ahead"`
	RedditFirst time.Time `json:"reddit_first"`
	NewsFirst   time.Time `json:"news_first"`
}

// SimultaneousTopic is a keyword that surfaced on both platforms within the lead threshold
type SimultaneousTopic struct {
	Keyword  string  `json:"keyword"`
	TimeDiff float64 `json:"time_diff"` // news minus reddit, hours
}

// Prediction reports which platform raised shared vocabulary first
type Prediction struct {
	RedditFirst        []LeadTopic         `json:"reddit_first_topics"`
	Simultaneous       []SimultaneousTopic `json:"simultaneous_topics"`
	NewsFirst          []LeadTopic         `json:"news_first_topics"`
	PredictionAccuracy float64             `json:"prediction_accuracy"`
}

// PredictionPatterns compares, for each correlation vocabulary term, the
// earliest hourly bucket it appears in on each platform. Reddit leads when the
// news bucket is more than two hours later; a gap of at most two hours either
// way is simultaneous. Accuracy is the share of shared terms Reddit led, in percent.
func (c *Correlator) PredictionPatterns(reddit, news []models.ContentItem) Prediction {
	redditFirst := c.earliestBuckets(reddit)
	newsFirst := c.earliestBuckets(news)

	out := Prediction{
		RedditFirst:  []LeadTopic{},
		Simultaneous: []SimultaneousTopic{},
		NewsFirst:    []LeadTopic{},
	}

	var shared []string
	for kw := range redditFirst {
		if _, ok := newsFirst[kw]; ok {
			shared = append(shared, kw)
		}
	}
	sort.Strings(shared)

	for _, kw := range shared {
		r, n := redditFirst[kw], newsFirst[kw]
		diff := n.Sub(r).Hours()

		switch {
		case diff > leadThreshold:
			out.RedditFirst = append(out.RedditFirst, LeadTopic{Keyword: kw, HoursAhead: round1(diff), RedditFirst: r, NewsFirst: n})
		case math.Abs(diff) <= leadThreshold:
			out.Simultaneous = append(out.Simultaneous, SimultaneousTopic{Keyword: kw, TimeDiff: round1(diff)})
		default:
			out.NewsFirst = append(out.NewsFirst, LeadTopic{Keyword: kw, HoursAhead: round1(-diff), RedditFirst: r, NewsFirst: n})
		}
	}

	if len(shared) > 0 {
		out.PredictionAccuracy = float64(len(out.RedditFirst)) / float64(len(shared)) * 100
	}
	return out
}

// earliestBuckets maps each vocabulary term to the first hour it was seen in
func (c *Correlator) earliestBuckets(items []models.ContentItem) map[string]time.Time {
	first := make(map[string]time.Time)
	for _, item := range items {
		if item.CreatedAt.IsZero() {
			continue
		}
		bucket := item.CreatedAt.UTC().Truncate(time.Hour)
		for term := range c.vocabularyTerms(item.Text()) {
			if seen, ok := first[term]; !ok || bucket.Before(seen) {
				first[term] = bucket
			}
		}
	}
	return first
}

// HourActivity is the combined activity of both platforms in one hourly bucket
type HourActivity struct {
	Hour             time.Time `json:"hour"`
	RedditEngagement int       `json:"reddit_engagement"`
	NewsEngagement   int       `json:"news_engagement"`
	RedditSentiment  float64   `json:"reddit_sentiment"`
	NewsSentiment    float64   `json:"news_sentiment"`
}

// Activity summarizes when each platform is busiest and how their hourly activity co-moves
type Activity struct {
	PeakRedditHour      string         `json:"peak_reddit_hour"`
	PeakNewsHour        string         `json:"peak_news_hour"`
	ActivityCorrelation float64        `json:"activity_correlation"`
	Hourly              []HourActivity `json:"hourly"`
}

type hourAccumulator struct {
	redditEngagement, newsEngagement int
	redditSentiment, newsSentiment   float64
	redditCount, newsCount           int
}

// ActivityTiming buckets both platforms by hour. Reddit engagement is score
// plus comments; each news article counts as one unit.
func (c *Correlator) ActivityTiming(reddit, news []models.ContentItem) models.Result[Activity] {
	if len(reddit) == 0 || len(news) == 0 {
		return models.Insufficient[Activity]("timing analysis needs items from both platforms")
	}

	buckets := make(map[time.Time]*hourAccumulator)
	bucketFor := func(t time.Time) *hourAccumulator {
		h := t.UTC().Truncate(time.Hour)
		acc, ok := buckets[h]
		if !ok {
			acc = &hourAccumulator{}
			buckets[h] = acc
		}
		return acc
	}

	for _, item := range reddit {
		acc := bucketFor(item.CreatedAt)
		acc.redditEngagement += item.Score + item.CommentCount
		acc.redditSentiment += item.Derived.SentimentScore
		acc.redditCount++
	}
	for _, item := range news {
		acc := bucketFor(item.CreatedAt)
		acc.newsEngagement++
		acc.newsSentiment += item.Derived.SentimentScore
		acc.newsCount++
	}

	hours := make([]time.Time, 0, len(buckets))
	for h := range buckets {
		hours = append(hours, h)
	}
	sort.Slice(hours, func(i, j int) bool { return hours[i].Before(hours[j]) })

	out := Activity{Hourly: make([]HourActivity, 0, len(hours))}
	redditSeries := make([]float64, 0, len(hours))
	newsSeries := make([]float64, 0, len(hours))
	var peakReddit, peakNews time.Time
	bestReddit, bestNews := math.MinInt, math.MinInt

	for _, h := range hours {
		acc := buckets[h]
		row := HourActivity{Hour: h, RedditEngagement: acc.redditEngagement, NewsEngagement: acc.newsEngagement}
		if acc.redditCount > 0 {
			row.RedditSentiment = acc.redditSentiment / float64(acc.redditCount)
		}
		if acc.newsCount > 0 {
			row.NewsSentiment = acc.newsSentiment / float64(acc.newsCount)
		}
		out.Hourly = append(out.Hourly, row)

		redditSeries = append(redditSeries, float64(acc.redditEngagement))
		newsSeries = append(newsSeries, float64(acc.newsEngagement))

		if acc.redditEngagement > bestReddit {
			bestReddit, peakReddit = acc.redditEngagement, h
		}
		if acc.newsEngagement > bestNews {
			bestNews, peakNews = acc.newsEngagement, h
		}
	}

	out.PeakRedditHour = peakReddit.Format("15:00")
	out.PeakNewsHour = peakNews.Format("15:00")
	if len(hours) > 1 {
		out.ActivityCorrelation = pearson(redditSeries, newsSeries)
	}

	return models.OK(out)
}

// pearson returns the linear correlation of x and y, or 0 when it is undefined
func pearson(x, y []float64) float64 {
	if len(x) < 2 || len(x) != len(y) {
		return 0
	}
	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
