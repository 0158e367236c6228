package behavior

import (
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/socialpulse/pulse-analytics/internal/models"
	"github.com/socialpulse/pulse-analytics/internal/sentiment"
)

const maxRanked = 5

// CommunityProfile summarizes one community's behavior
type CommunityProfile struct {
	PostCount                int     `json:"post_count"`
	AvgProfanity             float64 `json:"avg_profanity"`
	ProfanityPostsPercentage float64 `json:"profanity_posts_percentage"`
	AvgSentiment             float64 `json:"avg_sentiment"`
	AvgEngagement            float64 `json:"avg_engagement"`
	BehaviorProfile          string  `json:"behavior_profile"`
}

// RankedCommunity is one entry in a community ranking
type RankedCommunity struct {
	Community string  `json:"community"`
	Value     float64 `json:"value"`
}

// CommunityRankings lists the top communities per metric
type CommunityRankings struct {
	MostProfane      []RankedCommunity `json:"most_profane"`
	MostPositive     []RankedCommunity `json:"most_positive"`
	MostEngaging     []RankedCommunity `json:"most_engaging"`
	CleanestLanguage []RankedCommunity `json:"cleanest_language"`
}

// CommunityOverview aggregates across all profiled communities
type CommunityOverview struct {
	TotalAnalyzed         int     `json:"total_subreddits_analyzed"`
	AvgProfanityAcrossAll float64 `json:"avg_profanity_across_all"`
	ProfanityVariation    float64 `json:"profanity_variation"`
	MostProfaneCommunity  string  `json:"most_profane_community"`
	CleanestCommunity     string  `json:"cleanest_community"`
}

// CommunityReport holds per-community profiles and rankings
type CommunityReport struct {
	Communities map[string]CommunityProfile `json:"subreddit_analysis"`
	Rankings    CommunityRankings           `json:"rankings"`
	Overview    CommunityOverview           `json:"overall_insights"`
}

// CommunityProfiles groups items by community, skipping communities below the
// minimum sample size, and labels each by profanity, sentiment and engagement tier.
func (a *Aggregator) CommunityProfiles(items []models.ContentItem) models.Result[CommunityReport] {
	groups := groupByCommunity(items)

	communities := make(map[string]CommunityProfile)
	for name, group := range groups {
		if len(group) < a.opts.MinCommunitySize {
			continue
		}

		profanity := make([]float64, len(group))
		sentiments := make([]float64, len(group))
		engagement := make([]float64, len(group))
		profane := 0
		for i, item := range group {
			profanity[i] = float64(item.Derived.ProfanityCount)
			sentiments[i] = item.Derived.SentimentScore
			engagement[i] = item.Derived.EngagementVelocity
			if item.Derived.ProfanityCount > 0 {
				profane++
			}
		}

		avgProfanity := stat.Mean(profanity, nil)
		avgSentiment := stat.Mean(sentiments, nil)
		avgEngagement := stat.Mean(engagement, nil)

		communities[name] = CommunityProfile{
			PostCount:                len(group),
			AvgProfanity:             round(avgProfanity, 2),
			ProfanityPostsPercentage: round(float64(profane)/float64(len(group))*100, 1),
			AvgSentiment:             round(avgSentiment, 3),
			AvgEngagement:            round(avgEngagement, 2),
			BehaviorProfile:          BehaviorProfile(avgProfanity, avgSentiment, avgEngagement),
		}
	}

	if len(communities) == 0 {
		return models.Insufficient[CommunityReport]("no community reached the minimum sample size")
	}

	pick := func(f func(CommunityProfile) float64) []RankedCommunity {
		out := make([]RankedCommunity, 0, len(communities))
		for name, p := range communities {
			out = append(out, RankedCommunity{Community: name, Value: f(p)})
		}
		return out
	}
	profanityRank := pick(func(p CommunityProfile) float64 { return p.AvgProfanity })

	rankings := CommunityRankings{
		MostProfane:      rank(profanityRank, true),
		MostPositive:     rank(pick(func(p CommunityProfile) float64 { return p.AvgSentiment }), true),
		MostEngaging:     rank(pick(func(p CommunityProfile) float64 { return p.AvgEngagement }), true),
		CleanestLanguage: rank(profanityRank, false),
	}

	values := make([]float64, 0, len(communities))
	for _, p := range communities {
		values = append(values, p.AvgProfanity)
	}
	overview := CommunityOverview{
		TotalAnalyzed:         len(communities),
		AvgProfanityAcrossAll: round(stat.Mean(values, nil), 2),
		MostProfaneCommunity:  rankings.MostProfane[0].Community,
		CleanestCommunity:     rankings.CleanestLanguage[0].Community,
	}
	if len(values) > 1 {
		overview.ProfanityVariation = round(stat.StdDev(values, nil), 2)
	}

	return models.OK(CommunityReport{Communities: communities, Rankings: rankings, Overview: overview})
}

// rank sorts a copy of entries by value and keeps the top five; ties go alphabetically
func rank(entries []RankedCommunity, descending bool) []RankedCommunity {
	out := make([]RankedCommunity, len(entries))
	copy(out, entries)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Value != out[j].Value {
			if descending {
				return out[i].Value > out[j].Value
			}
			return out[i].Value < out[j].Value
		}
		return out[i].Community < out[j].Community
	})
	if len(out) > maxRanked {
		out = out[:maxRanked]
	}
	return out
}

// BehaviorProfile combines the profanity, sentiment and engagement tiers into one label
func BehaviorProfile(profanity, sentimentScore, engagement float64) string {
	var parts []string

	switch {
	case profanity > 1.5:
		parts = append(parts, "High Profanity")
	case profanity > 0.5:
		parts = append(parts, "Moderate Profanity")
	default:
		parts = append(parts, "Clean Language")
	}

	switch {
	case sentimentScore > 0.2:
		parts = append(parts, "Positive Community")
	case sentimentScore < -0.2:
		parts = append(parts, "Critical Community")
	default:
		parts = append(parts, "Balanced Community")
	}

	switch {
	case engagement > 10:
		parts = append(parts, "Highly Engaged")
	case engagement > 5:
		parts = append(parts, "Moderately Engaged")
	default:
		parts = append(parts, "Low Engagement")
	}

	return strings.Join(parts, " | ")
}

// CommunitySentiment ranks a community by its mean sentiment
type CommunitySentiment struct {
	Community      string  `json:"community"`
	AvgSentiment   float64 `json:"avg_sentiment"`
	SentimentLabel string  `json:"sentiment_label"`
	PostCount      int     `json:"post_count"`
	AvgScore       float64 `json:"avg_score"`
	AvgComments    float64 `json:"avg_comments"`
}

// CommunitySentimentRanking orders every community by mean sentiment, most positive first
func (a *Aggregator) CommunitySentimentRanking(items []models.ContentItem) []CommunitySentiment {
	groups := groupByCommunity(items)

	out := make([]CommunitySentiment, 0, len(groups))
	for name, group := range groups {
		sentiments := make([]float64, len(group))
		scores := make([]float64, len(group))
		comments := make([]float64, len(group))
		for i, item := range group {
			sentiments[i] = item.Derived.SentimentScore
			scores[i] = float64(item.Score)
			comments[i] = float64(item.CommentCount)
		}

		avg := round(stat.Mean(sentiments, nil), 3)
		out = append(out, CommunitySentiment{
			Community:      name,
			AvgSentiment:   avg,
			SentimentLabel: sentiment.Classify(avg),
			PostCount:      len(group),
			AvgScore:       round(stat.Mean(scores, nil), 3),
			AvgComments:    round(stat.Mean(comments, nil), 3),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgSentiment != out[j].AvgSentiment {
			return out[i].AvgSentiment > out[j].AvgSentiment
		}
		return out[i].Community < out[j].Community
	})
	return out
}

func groupByCommunity(items []models.ContentItem) map[string][]models.ContentItem {
	groups := make(map[string][]models.ContentItem)
	for _, item := range items {
		name := item.Community
		if name == "" {
			name = "unknown"
		}
		groups[name] = append(groups[name], item)
	}
	return groups
}
