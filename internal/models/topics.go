package models

import (
	"errors"
	"time"
)

// ErrTopicFrozen is returned when a topic is modified after its momentum was calculated
var ErrTopicFrozen = errors.New("trending topic is frozen after momentum calculation")

// Momentum labels
const (
	MomentumNew       = "new"
	MomentumRising    = "rising"
	MomentumDeclining = "declining"
	MomentumStable    = "stable"
)

// TermStat aggregates one term's occurrences on one platform
type TermStat struct {
	Term          string  `json:"term"`
	Count         int     `json:"count"`
	TotalScore    int     `json:"total_score"`
	TotalComments int     `json:"total_comments"`
	SentimentSum  float64 `json:"sentiment_sum"`
}

// Engagement is the accumulated score plus comments
func (t TermStat) Engagement() int {
	return t.TotalScore + t.TotalComments
}

func (t TermStat) AvgScore() float64 {
	if t.Count == 0 {
		return 0
	}
	return float64(t.TotalScore) / float64(t.Count)
}

func (t TermStat) AvgComments() float64 {
	if t.Count == 0 {
		return 0
	}
	return float64(t.TotalComments) / float64(t.Count)
}

func (t TermStat) AvgSentiment() float64 {
	if t.Count == 0 {
		return 0
	}
	return t.SentimentSum / float64(t.Count)
}

// Merge returns the combined statistics of two passes over the same term
func (t TermStat) Merge(other TermStat) TermStat {
	term := t.Term
	if term == "" {
		term = other.Term
	}
	return TermStat{
		Term:          term,
		Count:         t.Count + other.Count,
		TotalScore:    t.TotalScore + other.TotalScore,
		TotalComments: t.TotalComments + other.TotalComments,
		SentimentSum:  t.SentimentSum + other.SentimentSum,
	}
}

// TrendingTopic is a keyword tracked across both platforms during one correlation run
type TrendingTopic struct {
	Keyword        string    `json:"keyword"`
	RedditMentions int       `json:"reddit_mentions"`
	NewsMentions   int       `json:"news_mentions"`
	SentimentAvg   float64   `json:"sentiment_avg"`
	MomentumScore  float64   `json:"momentum_score"`
	Momentum       string    `json:"momentum"`
	CreatedAt      time.Time `json:"created_at"`

	frozen bool
}

// NewTrendingTopic creates an empty topic for keyword
func NewTrendingTopic(keyword string, createdAt time.Time) *TrendingTopic {
	return &TrendingTopic{Keyword: keyword, CreatedAt: createdAt}
}

// UpdateMentions replaces both mention counts
func (t *TrendingTopic) UpdateMentions(reddit, news int) error {
	if t.frozen {
		return ErrTopicFrozen
	}
	t.RedditMentions = reddit
	t.NewsMentions = news
	return nil
}

// UpdateSentiment sets the average of the given per-platform averages
func (t *TrendingTopic) UpdateSentiment(scores []float64) error {
	if t.frozen {
		return ErrTopicFrozen
	}
	if len(scores) == 0 {
		return nil
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	t.SentimentAvg = sum / float64(len(scores))
	return nil
}

// CalculateMomentum compares the topic against its previous snapshot and freezes it.
// seen is false when the keyword had no prior snapshot.
func (t *TrendingTopic) CalculateMomentum(previousTotal int, seen bool) error {
	if t.frozen {
		return ErrTopicFrozen
	}
	current := t.TotalMentions()

	switch {
	case !seen || previousTotal <= 0:
		t.Momentum = MomentumNew
		t.MomentumScore = 0
	case current > previousTotal:
		t.Momentum = MomentumRising
		t.MomentumScore = float64(current-previousTotal) / float64(previousTotal)
	case current < previousTotal:
		t.Momentum = MomentumDeclining
		t.MomentumScore = float64(previousTotal-current) / float64(previousTotal)
	default:
		t.Momentum = MomentumStable
		t.MomentumScore = 0
	}

	t.frozen = true
	return nil
}

// Frozen reports whether momentum has been calculated
func (t *TrendingTopic) Frozen() bool {
	return t.frozen
}

func (t TrendingTopic) TotalMentions() int {
	return t.RedditMentions + t.NewsMentions
}

// CrossPlatform is true iff the topic was mentioned on both platforms
func (t TrendingTopic) CrossPlatform() bool {
	return t.RedditMentions > 0 && t.NewsMentions > 0
}
