// Package trends extracts candidate terms from content and ranks them by trend score.
package trends

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/socialpulse/pulse-analytics/internal/lexicon"
	"github.com/socialpulse/pulse-analytics/internal/models"
	"github.com/socialpulse/pulse-analytics/internal/textnorm"
)

const (
	// DefaultMaxPhraseLength is the longest n-gram produced for ranking
	DefaultMaxPhraseLength = 2
	// DefaultMinMentions is the noise floor below which a term is dropped
	DefaultMinMentions = 2

	minKeywordLength = 3
	priorityBoost    = 1.5
)

// Trend is a ranked term on a single platform
type Trend struct {
	Term         string  `json:"term"`
	Count        int     `json:"count"`
	Score        float64 `json:"trend_score"`
	AvgSentiment float64 `json:"avg_sentiment"`
}

// Extractor tokenizes content into keywords and phrases
type Extractor struct {
	lex         *lexicon.Lexicons
	minMentions int
}

// NewExtractor creates a new extractor. minMentions below 1 uses DefaultMinMentions.
func NewExtractor(lex *lexicon.Lexicons, minMentions int) *Extractor {
	if lex == nil {
		lex = lexicon.Default()
	}
	if minMentions < 1 {
		minMentions = DefaultMinMentions
	}
	return &Extractor{lex: lex, minMentions: minMentions}
}

// Keywords returns the alphabetic, non stop-word tokens of text in order
func (e *Extractor) Keywords(text string) []string {
	var keywords []string
	for _, w := range strings.Fields(textnorm.StripNonWord(text)) {
		if len([]rune(w)) < minKeywordLength || e.lex.StopWords.Has(w) || !textnorm.IsAlpha(w) {
			continue
		}
		keywords = append(keywords, w)
	}
	return keywords
}

// Phrases returns every contiguous window of 1..maxLen keywords. Windows slide
// over the filtered keyword sequence, so words separated only by stop words
// end up adjacent.
func (e *Extractor) Phrases(text string, maxLen int) []string {
	if maxLen < 1 {
		maxLen = 1
	}
	words := e.Keywords(text)

	var phrases []string
	for i := range words {
		for n := 1; n <= maxLen && i+n <= len(words); n++ {
			phrases = append(phrases, strings.Join(words[i:i+n], " "))
		}
	}
	return phrases
}

// Aggregate builds per-term statistics over items. A term is counted at most
// once per item.
func (e *Extractor) Aggregate(items []models.ContentItem, maxLen int) map[string]models.TermStat {
	stats := make(map[string]models.TermStat)

	for _, item := range items {
		seen := make(map[string]struct{})
		for _, term := range e.Phrases(item.Text(), maxLen) {
			if _, dup := seen[term]; dup {
				continue
			}
			seen[term] = struct{}{}

			stats[term] = stats[term].Merge(models.TermStat{
				Term:          term,
				Count:         1,
				TotalScore:    item.Score,
				TotalComments: item.CommentCount,
				SentimentSum:  item.Derived.SentimentScore,
			})
		}
	}

	return stats
}

// TrendingTopics ranks the terms of items from one platform and returns the top N.
// Social terms are scored on frequency plus engagement, news terms on frequency alone.
func (e *Extractor) TrendingTopics(items []models.ContentItem, platform models.Platform, topN int) []Trend {
	stats := e.Aggregate(items, DefaultMaxPhraseLength)

	trends := make([]Trend, 0, len(stats))
	for term, st := range stats {
		if st.Count < e.minMentions {
			continue
		}

		score := float64(st.Count)
		if platform == models.PlatformReddit {
			score += st.AvgScore()*0.1 + st.AvgComments()*0.05
		}
		if e.lex.PriorityKeywords.Has(term) {
			score *= priorityBoost
		}

		trends = append(trends, Trend{
			Term:         term,
			Count:        st.Count,
			Score:        score,
			AvgSentiment: st.AvgSentiment(),
		})
	}

	sort.Slice(trends, func(i, j int) bool {
		if trends[i].Score != trends[j].Score {
			return trends[i].Score > trends[j].Score
		}
		return trends[i].Term < trends[j].Term
	})

	if topN > 0 && len(trends) > topN {
		trends = trends[:topN]
	}
	return trends
}

// Emerging is a keyword whose recent posts show viral potential
type Emerging struct {
	Keyword        string  `json:"keyword"`
	ViralPotential float64 `json:"viral_potential"`
	MentionCount   int     `json:"mention_count"`
	Prediction     string  `json:"prediction"` // "emerging" or "watch"
}

const (
	emergingWindow    = 6 * time.Hour
	emergingMaxResult = 10
)

// PostViralPotential rates a post by engagement velocity, discussion ratio and
// positive sentiment, capped at 100.
func PostViralPotential(item models.ContentItem, asOf time.Time) float64 {
	velocity := float64(item.Engagement()) / item.HoursOld(asOf)
	commentRatio := float64(item.CommentCount) / math.Max(float64(item.Score), 1)
	sentimentBoost := math.Max(0, item.Derived.SentimentScore) * 0.1

	return math.Min(velocity*(1+commentRatio)*(1+sentimentBoost), 100)
}

// PredictEmerging looks at posts from the last six hours before asOf and
// returns keywords that recur across posts with viral potential.
func (e *Extractor) PredictEmerging(items []models.ContentItem, asOf time.Time) []Emerging {
	cutoff := asOf.Add(-emergingWindow)
	scores := make(map[string][]float64)

	for _, item := range items {
		if !item.CreatedAt.After(cutoff) {
			continue
		}
		potential := PostViralPotential(item, asOf)
		if potential <= 1 {
			continue
		}
		seen := make(map[string]struct{})
		for _, kw := range e.Keywords(item.Text()) {
			if _, dup := seen[kw]; dup {
				continue
			}
			seen[kw] = struct{}{}
			scores[kw] = append(scores[kw], potential)
		}
	}

	var out []Emerging
	for kw, s := range scores {
		if len(s) < 2 {
			continue
		}
		var sum float64
		for _, v := range s {
			sum += v
		}
		avg := sum / float64(len(s))

		prediction := "watch"
		if avg > 5 {
			prediction = "emerging"
		}
		out = append(out, Emerging{Keyword: kw, ViralPotential: avg, MentionCount: len(s), Prediction: prediction})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].ViralPotential != out[j].ViralPotential {
			return out[i].ViralPotential > out[j].ViralPotential
		}
		return out[i].Keyword < out[j].Keyword
	})

	if len(out) > emergingMaxResult {
		out = out[:emergingMaxResult]
	}
	return out
}
