package content

import "github.com/socialpulse/pulse-analytics/internal/models"

// insightHoursOld is the age every item is scored at when rolling up viral potential
const insightHoursOld = 1

// ProfanityInsights summarizes curse word usage across a population
type ProfanityInsights struct {
	ItemsWithProfanity   int     `json:"posts_with_curse_words"`
	PercentWithProfanity float64 `json:"percentage_with_profanity"`
	AvgCurseWordsPerItem float64 `json:"avg_curse_words_per_post"`
	MaxCurseWords        int     `json:"max_curse_words"`
}

// ReadabilityInsights summarizes Flesch scores across a population
type ReadabilityInsights struct {
	AvgReadability      float64 `json:"avg_readability"`
	MostReadablePercent float64 `json:"most_readable_percentage"`
	DifficultPercent    float64 `json:"difficult_to_read_percentage"`
}

// EngagementInsights summarizes engagement density and emotional tone
type EngagementInsights struct {
	AvgEngagementScore    float64        `json:"avg_engagement_score"`
	HighEngagementPercent float64        `json:"high_engagement_percentage"`
	ToneDistribution      map[string]int `json:"emotional_tone_distribution"`
}

// ViralInsights summarizes viral potential across a population
type ViralInsights struct {
	AvgViralScore    float64 `json:"avg_viral_score"`
	HighViralPercent float64 `json:"high_viral_potential_percentage"`
	LowViralPercent  float64 `json:"low_viral_potential_percentage"`
}

// Insights is the content roll-up of a set of items
type Insights struct {
	SampleSize  int                 `json:"sample_size"`
	Profanity   ProfanityInsights   `json:"profanity_insights"`
	Readability ReadabilityInsights `json:"readability_insights"`
	Engagement  EngagementInsights  `json:"engagement_insights"`
	Viral       ViralInsights       `json:"viral_insights"`
}

// Insights rescores the title and body of every item and rolls the results up.
// Viral potential is computed as if every item were one hour old.
func (a *Analyzer) Insights(items []models.ContentItem) models.Result[Insights] {
	if len(items) == 0 {
		return models.Insufficient[Insights]("no items to analyze")
	}

	var (
		curseTotal, withCurses, maxCurses int
		readTotal                         float64
		readable, difficult               int
		engagementTotal                   float64
		highEngagement                    int
		viralTotal                        float64
		highViral, lowViral               int
	)
	tones := make(map[string]int)

	for _, item := range items {
		text := item.Title + " " + item.Body

		curses := a.CountProfanity(text).CurseCount
		curseTotal += curses
		if curses > 0 {
			withCurses++
		}
		if curses > maxCurses {
			maxCurses = curses
		}

		read := a.Readability(text).Score
		readTotal += read
		if read >= 70 {
			readable++
		}
		if read < 50 {
			difficult++
		}

		engagement := a.EngagementFactors(text)
		engagementTotal += engagement.Score
		if engagement.Score > 0.1 {
			highEngagement++
		}
		tones[engagement.EmotionalTone]++

		viral := a.ViralPotential(item.Title, item.Body, item.Score, item.CommentCount, insightHoursOld).Score
		viralTotal += viral
		if viral >= 6 {
			highViral++
		}
		if viral < 4 {
			lowViral++
		}
	}

	n := float64(len(items))
	percent := func(count int) float64 {
		return round(float64(count)/n*100, 1)
	}

	return models.OK(Insights{
		SampleSize: len(items),
		Profanity: ProfanityInsights{
			ItemsWithProfanity:   withCurses,
			PercentWithProfanity: percent(withCurses),
			AvgCurseWordsPerItem: round(float64(curseTotal)/n, 2),
			MaxCurseWords:        maxCurses,
		},
		Readability: ReadabilityInsights{
			AvgReadability:      round(readTotal/n, 1),
			MostReadablePercent: percent(readable),
			DifficultPercent:    percent(difficult),
		},
		Engagement: EngagementInsights{
			AvgEngagementScore:    round(engagementTotal/n, 3),
			HighEngagementPercent: percent(highEngagement),
			ToneDistribution:      tones,
		},
		Viral: ViralInsights{
			AvgViralScore:    round(viralTotal/n, 2),
			HighViralPercent: percent(highViral),
			LowViralPercent:  percent(lowViral),
		},
	})
}
