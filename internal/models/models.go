package models

import (
	"strings"
	"time"
)

// Platform identifies the network an item was collected from
type Platform string

const (
	PlatformReddit Platform = "reddit"
	PlatformNews   Platform = "news"
)

// ContentKind distinguishes the concrete item variants
type ContentKind string

const (
	KindSocialPost  ContentKind = "social_post"
	KindNewsArticle ContentKind = "news_article"
)

// ContentItem is a post or article as handed over by a collector.
// Derived is only ever written by the scoring pipeline.
type ContentItem struct {
	ID           string      `json:"id"`
	Platform     Platform    `json:"platform"`
	Kind         ContentKind `json:"kind"`
	Title        string      `json:"title"`
	Body         string      `json:"body"`
	Author       string      `json:"author"`
	URL          string      `json:"url"`
	Community    string      `json:"community"` // subreddit or news outlet
	Score        int         `json:"score"`     // upvotes, likes, etc.
	CommentCount int         `json:"comment_count"`
	CreatedAt    time.Time   `json:"created_at"`
	Derived      Derived     `json:"derived"`
}

// Derived holds the pipeline outputs for one item
type Derived struct {
	SentimentScore     float64   `json:"sentiment_score"` // [-1, 1]
	Confidence         float64   `json:"confidence"`      // [0, 1]
	ProfanityCount     int       `json:"profanity_count"`
	ReadabilityScore   float64   `json:"readability_score"`   // [0, 100]
	EngagementVelocity float64   `json:"engagement_velocity"` // score units per hour
	ViralityScore      float64   `json:"virality_score"`      // [0, 10]
	EmotionalTone      string    `json:"emotional_tone"`
	WordCount          int       `json:"word_count"`
	UrgencyScore       float64   `json:"urgency_score"`
	CredibilityScore   float64   `json:"credibility_score"`
	ProcessedAt        time.Time `json:"processed_at,omitempty"`
}

// Text returns the title and body joined for analysis
func (c ContentItem) Text() string {
	return strings.TrimSpace(c.Title + " " + c.Body)
}

// ResetDerived puts every derived field back to its neutral default
func (c *ContentItem) ResetDerived() {
	c.Derived = Derived{}
}

// Engagement is the raw weighted engagement used for ranking (score + 2×comments)
func (c ContentItem) Engagement() int {
	return c.Score + c.CommentCount*2
}

// HoursOld returns the item age relative to asOf, never below 0.1
func (c ContentItem) HoursOld(asOf time.Time) float64 {
	hours := asOf.Sub(c.CreatedAt).Hours()
	if hours < 0.1 {
		return 0.1
	}
	return hours
}

// SplitByPlatform partitions items into reddit and news slices
func SplitByPlatform(items []ContentItem) (reddit, news []ContentItem) {
	for _, item := range items {
		switch item.Platform {
		case PlatformReddit:
			reddit = append(reddit, item)
		case PlatformNews:
			news = append(news, item)
		}
	}
	return reddit, news
}

// Report represents a periodic digest of a collection run
type Report struct {
	GeneratedAt time.Time              `json:"generated_at"`
	Period      string                 `json:"period"`
	TotalItems  int                    `json:"total_items"`
	TopTopics   []TrendingTopic        `json:"top_topics"`
	TopItems    []ContentItem          `json:"top_items"`
	Insights    []string               `json:"insights"`
	Summary     map[string]interface{} `json:"summary"`
}

// Alert represents an immediate notification about a single item
type Alert struct {
	ID        string       `json:"id"`
	Type      string       `json:"type"` // "viral", "info"
	Title     string       `json:"title"`
	Message   string       `json:"message"`
	Item      *ContentItem `json:"item,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}
