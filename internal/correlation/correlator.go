// Package correlation compares trends, timing and sentiment between Reddit and news coverage.
package correlation

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/socialpulse/pulse-analytics/internal/lexicon"
	"github.com/socialpulse/pulse-analytics/internal/models"
	"github.com/socialpulse/pulse-analytics/internal/textnorm"
	"github.com/socialpulse/pulse-analytics/internal/trends"
)

const (
	maxOverlapDetails = 20
	maxTopics         = 20
	platformTopN      = 50
)

// Options tunes the single-platform activity thresholds
type Options struct {
	SocialMinMentions int
	NewsMinMentions   int
	Window            time.Duration
}

// DefaultOptions returns the standard thresholds
func DefaultOptions() Options {
	return Options{SocialMinMentions: 5, NewsMinMentions: 3, Window: 24 * time.Hour}
}

// Correlator compares content collected from both platforms
type Correlator struct {
	lex       *lexicon.Lexicons
	extractor *trends.Extractor
	opts      Options
}

// NewCorrelator creates a new correlator
func NewCorrelator(lex *lexicon.Lexicons, extractor *trends.Extractor, opts Options) *Correlator {
	if lex == nil {
		lex = lexicon.Default()
	}
	if extractor == nil {
		extractor = trends.NewExtractor(lex, trends.DefaultMinMentions)
	}
	return &Correlator{lex: lex, extractor: extractor, opts: opts}
}

// keywordSet returns the distinct tokens longer than two characters that are not stop words
func (c *Correlator) keywordSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(textnorm.StripNonWord(text)) {
		if len([]rune(w)) > 2 && !c.lex.StopWords.Has(w) {
			set[w] = struct{}{}
		}
	}
	return set
}

// vocabularyTerms returns the correlation vocabulary terms present in text.
// Unigrams and bigrams of the raw token stream are checked so short names
// like "ai" and phrases like "machine learning" are found.
func (c *Correlator) vocabularyTerms(text string) map[string]struct{} {
	words := strings.Fields(textnorm.StripNonWord(text))
	found := make(map[string]struct{})
	for i, w := range words {
		if c.lex.CorrelationVocabulary.Has(w) {
			found[w] = struct{}{}
		}
		if i+1 < len(words) {
			bigram := w + " " + words[i+1]
			if c.lex.CorrelationVocabulary.Has(bigram) {
				found[bigram] = struct{}{}
			}
		}
	}
	return found
}

// OverlapDetail compares one keyword present on both platforms
type OverlapDetail struct {
	Keyword               string  `json:"keyword"`
	RedditMentions        int     `json:"reddit_mentions"`
	NewsMentions          int     `json:"news_mentions"`
	RedditSentiment       float64 `json:"reddit_sentiment"`
	NewsSentiment         float64 `json:"news_sentiment"`
	SentimentGap          float64 `json:"sentiment_gap"`
	TotalRedditEngagement int     `json:"total_reddit_engagement"`
}

// Overlap summarizes shared vocabulary between the platforms
type Overlap struct {
	TotalRedditKeywords int             `json:"total_reddit_keywords"`
	TotalNewsKeywords   int             `json:"total_news_keywords"`
	OverlappingKeywords int             `json:"overlapping_keywords"`
	OverlapPercentage   float64         `json:"overlap_percentage"`
	RedditOnly          int             `json:"reddit_only"`
	NewsOnly            int             `json:"news_only"`
	Details             []OverlapDetail `json:"overlap_details"`
}

// TopicOverlap computes the Jaccard overlap of both keyword sets in percent.
// Details cover at most 20 shared keywords ordered by combined mentions, then alphabetically.
func (c *Correlator) TopicOverlap(reddit, news []models.ContentItem) Overlap {
	redditStats := c.keywordStats(reddit)
	newsStats := c.keywordStats(news)

	var shared []string
	for kw := range redditStats {
		if _, ok := newsStats[kw]; ok {
			shared = append(shared, kw)
		}
	}

	union := len(redditStats) + len(newsStats) - len(shared)
	out := Overlap{
		TotalRedditKeywords: len(redditStats),
		TotalNewsKeywords:   len(newsStats),
		OverlappingKeywords: len(shared),
		RedditOnly:          len(redditStats) - len(shared),
		NewsOnly:            len(newsStats) - len(shared),
		Details:             []OverlapDetail{},
	}
	if union > 0 {
		out.OverlapPercentage = float64(len(shared)) / float64(union) * 100
	}

	sort.Slice(shared, func(i, j int) bool {
		a, b := shared[i], shared[j]
		ta := redditStats[a].Count + newsStats[a].Count
		tb := redditStats[b].Count + newsStats[b].Count
		if ta != tb {
			return ta > tb
		}
		return a < b
	})
	if len(shared) > maxOverlapDetails {
		shared = shared[:maxOverlapDetails]
	}

	for _, kw := range shared {
		r, n := redditStats[kw], newsStats[kw]
		out.Details = append(out.Details, OverlapDetail{
			Keyword:               kw,
			RedditMentions:        r.Count,
			NewsMentions:          n.Count,
			RedditSentiment:       r.AvgSentiment(),
			NewsSentiment:         n.AvgSentiment(),
			SentimentGap:          math.Abs(r.AvgSentiment() - n.AvgSentiment()),
			TotalRedditEngagement: r.Engagement(),
		})
	}

	return out
}

func (c *Correlator) keywordStats(items []models.ContentItem) map[string]models.TermStat {
	stats := make(map[string]models.TermStat)
	for _, item := range items {
		for kw := range c.keywordSet(item.Text()) {
			stats[kw] = stats[kw].Merge(models.TermStat{
				Term:          kw,
				Count:         1,
				TotalScore:    item.Score,
				TotalComments: item.CommentCount,
				SentimentSum:  item.Derived.SentimentScore,
			})
		}
	}
	return stats
}

// CrossPlatformTopics builds a topic for every term trending on both platforms,
// plus single-platform terms above the activity thresholds. The result is
// sorted by total mentions and holds at most 20 topics. Momentum is left for
// AnalyzeMomentum.
func (c *Correlator) CrossPlatformTopics(reddit, news []models.ContentItem, asOf time.Time) ([]*models.TrendingTopic, error) {
	redditTrends := indexTrends(c.extractor.TrendingTopics(reddit, models.PlatformReddit, platformTopN))
	newsTrends := indexTrends(c.extractor.TrendingTopics(news, models.PlatformNews, platformTopN))

	var topics []*models.TrendingTopic
	add := func(term string, r, n *trends.Trend) error {
		topic := models.NewTrendingTopic(term, asOf)
		var redditCount, newsCount int
		var sentiments []float64
		if r != nil {
			redditCount = r.Count
			sentiments = append(sentiments, r.AvgSentiment)
		}
		if n != nil {
			newsCount = n.Count
			sentiments = append(sentiments, n.AvgSentiment)
		}
		if err := topic.UpdateMentions(redditCount, newsCount); err != nil {
			return fmt.Errorf("failed to update mentions for %q: %w", term, err)
		}
		if err := topic.UpdateSentiment(sentiments); err != nil {
			return fmt.Errorf("failed to update sentiment for %q: %w", term, err)
		}
		topics = append(topics, topic)
		return nil
	}

	for term, r := range redditTrends {
		n, shared := newsTrends[term]
		switch {
		case shared:
			if err := add(term, &r, &n); err != nil {
				return nil, err
			}
		case r.Count >= c.opts.SocialMinMentions:
			if err := add(term, &r, nil); err != nil {
				return nil, err
			}
		}
	}
	for term, n := range newsTrends {
		if _, shared := redditTrends[term]; shared || n.Count < c.opts.NewsMinMentions {
			continue
		}
		if err := add(term, nil, &n); err != nil {
			return nil, err
		}
	}

	sort.Slice(topics, func(i, j int) bool {
		if topics[i].TotalMentions() != topics[j].TotalMentions() {
			return topics[i].TotalMentions() > topics[j].TotalMentions()
		}
		return topics[i].Keyword < topics[j].Keyword
	})
	if len(topics) > maxTopics {
		topics = topics[:maxTopics]
	}

	return topics, nil
}

func indexTrends(list []trends.Trend) map[string]trends.Trend {
	idx := make(map[string]trends.Trend, len(list))
	for _, t := range list {
		idx[t.Term] = t
	}
	return idx
}

// MomentumEntry reports a topic's change against its previous snapshot
type MomentumEntry struct {
	Keyword         string  `json:"keyword"`
	CurrentMentions int     `json:"current_mentions"`
	RedditMentions  int     `json:"reddit_mentions"`
	NewsMentions    int     `json:"news_mentions"`
	Sentiment       float64 `json:"sentiment"`
	Momentum        string  `json:"momentum"`
	MomentumScore   float64 `json:"momentum_score"`
	CrossPlatform   bool    `json:"cross_platform"`
}

// AnalyzeMomentum calculates momentum for every current topic against the
// previous snapshot, keyed by keyword, and freezes the topics.
func (c *Correlator) AnalyzeMomentum(current []*models.TrendingTopic, previous []models.TrendingTopic) ([]MomentumEntry, error) {
	prev := make(map[string]int, len(previous))
	for _, p := range previous {
		prev[p.Keyword] = p.TotalMentions()
	}

	entries := make([]MomentumEntry, 0, len(current))
	for _, topic := range current {
		total, seen := prev[topic.Keyword]
		if err := topic.CalculateMomentum(total, seen); err != nil {
			return nil, fmt.Errorf("failed to calculate momentum for %q: %w", topic.Keyword, err)
		}

		entries = append(entries, MomentumEntry{
			Keyword:         topic.Keyword,
			CurrentMentions: topic.TotalMentions(),
			RedditMentions:  topic.RedditMentions,
			NewsMentions:    topic.NewsMentions,
			Sentiment:       topic.SentimentAvg,
			Momentum:        topic.Momentum,
			MomentumScore:   topic.MomentumScore,
			CrossPlatform:   topic.CrossPlatform(),
		})
	}

	return entries, nil
}
