package behavior

import (
	"fmt"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/socialpulse/pulse-analytics/internal/models"
	"github.com/socialpulse/pulse-analytics/internal/sentiment"
)

// HourStats summarizes the items created in one hour of the day
type HourStats struct {
	Hour         int     `json:"hour"`
	PostCount    int     `json:"post_count"`
	AvgSentiment float64 `json:"avg_sentiment"`
	AvgScore     float64 `json:"avg_score"`
	AvgProfanity float64 `json:"avg_profanity"`
	Mood         string  `json:"mood"`
}

// TemporalPatterns names the notable hours of the day
type TemporalPatterns struct {
	MostActiveHour   int `json:"most_active_hour"`
	MostPositiveHour int `json:"most_positive_hour"`
	MostNegativeHour int `json:"most_negative_hour"`
	MostProfaneHour  int `json:"most_profane_hour"`
	CleanestHour     int `json:"cleanest_hour"`
}

// TemporalReport is the hour-of-day behavioral profile
type TemporalReport struct {
	Hourly   []HourStats      `json:"hourly_analysis"`
	Patterns TemporalPatterns `json:"patterns"`
	Insights []string         `json:"insights"`
}

// Mood labels an hour by its mean sentiment
func Mood(avgSentiment float64) string {
	switch {
	case avgSentiment > 0.1:
		return "Positive"
	case avgSentiment < -0.1:
		return "Negative"
	default:
		return "Neutral"
	}
}

// TemporalProfile groups items by hour of day in the configured location.
// Ties between hours resolve to the earliest hour.
func (a *Aggregator) TemporalProfile(items []models.ContentItem) models.Result[TemporalReport] {
	if len(items) == 0 {
		return models.Insufficient[TemporalReport]("no posts provided")
	}

	byHour := make(map[int][]models.ContentItem)
	for _, item := range items {
		h := item.CreatedAt.In(a.opts.Location).Hour()
		byHour[h] = append(byHour[h], item)
	}

	hourly := make([]HourStats, 0, len(byHour))
	for h, group := range byHour {
		sentiments := make([]float64, len(group))
		scores := make([]float64, len(group))
		profanity := make([]float64, len(group))
		for i, item := range group {
			sentiments[i] = item.Derived.SentimentScore
			scores[i] = float64(item.Score)
			profanity[i] = float64(item.Derived.ProfanityCount)
		}

		avgSentiment := stat.Mean(sentiments, nil)
		hourly = append(hourly, HourStats{
			Hour:         h,
			PostCount:    len(group),
			AvgSentiment: round(avgSentiment, 3),
			AvgScore:     round(stat.Mean(scores, nil), 1),
			AvgProfanity: round(stat.Mean(profanity, nil), 2),
			Mood:         Mood(avgSentiment),
		})
	}
	sort.Slice(hourly, func(i, j int) bool { return hourly[i].Hour < hourly[j].Hour })

	// hourly is ordered by hour, so strict comparisons keep the earliest on ties
	first := hourly[0]
	active, positive, negative, profane, clean := first, first, first, first, first
	for _, hs := range hourly[1:] {
		if hs.PostCount > active.PostCount {
			active = hs
		}
		if hs.AvgSentiment > positive.AvgSentiment {
			positive = hs
		}
		if hs.AvgSentiment < negative.AvgSentiment {
			negative = hs
		}
		if hs.AvgProfanity > profane.AvgProfanity {
			profane = hs
		}
		if hs.AvgProfanity < clean.AvgProfanity {
			clean = hs
		}
	}
	patterns := TemporalPatterns{
		MostActiveHour:   active.Hour,
		MostPositiveHour: positive.Hour,
		MostNegativeHour: negative.Hour,
		MostProfaneHour:  profane.Hour,
		CleanestHour:     clean.Hour,
	}

	insights := []string{fmt.Sprintf("Peak activity at %02d:00 with %d posts", active.Hour, active.PostCount)}
	if positive.Hour != negative.Hour {
		insights = append(insights, fmt.Sprintf("Most positive at %02d:00, most negative at %02d:00", positive.Hour, negative.Hour))
	}
	if profane.AvgProfanity > 0 {
		insights = append(insights, fmt.Sprintf("Highest profanity at %02d:00 (%.2f curse words per post)", profane.Hour, profane.AvgProfanity))
	}

	return models.OK(TemporalReport{Hourly: hourly, Patterns: patterns, Insights: insights})
}

// HourlySentiment is the mean sentiment of one absolute hour bucket
type HourlySentiment struct {
	Hour           time.Time `json:"hour"`
	AvgSentiment   float64   `json:"avg_sentiment"`
	SentimentLabel string    `json:"sentiment_label"`
	PostCount      int       `json:"post_count"`
}

// HourlySentimentTrend buckets items by the hour they were created and returns
// the mean sentiment per bucket in chronological order
func (a *Aggregator) HourlySentimentTrend(items []models.ContentItem) []HourlySentiment {
	buckets := make(map[time.Time][]float64)
	for _, item := range items {
		h := item.CreatedAt.In(a.opts.Location).Truncate(time.Hour)
		buckets[h] = append(buckets[h], item.Derived.SentimentScore)
	}

	out := make([]HourlySentiment, 0, len(buckets))
	for h, scores := range buckets {
		avg := round(stat.Mean(scores, nil), 3)
		out = append(out, HourlySentiment{
			Hour:           h,
			AvgSentiment:   avg,
			SentimentLabel: sentiment.Classify(avg),
			PostCount:      len(scores),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hour.Before(out[j].Hour) })
	return out
}
