package content

import (
	"math"
	"strings"
)

// ViralComponents flags which parts of the composite are in their favourable range
type ViralComponents struct {
	TitleOptimal bool `json:"title_optimal"`
	Readable     bool `json:"readable"`
	Engaging     bool `json:"engaging"`
	FastGrowth   bool `json:"fast_growth"`
}

// ViralResult is the 0-10 viral potential composite and its parts
type ViralResult struct {
	Score                 float64         `json:"viral_score"`
	Level                 string          `json:"viral_level"`
	EngagementVelocity    float64         `json:"engagement_velocity"`
	TitleLengthScore      float64         `json:"title_length_score"`
	ReadabilityScore      float64         `json:"readability_score"`
	EngagementFactorScore float64         `json:"engagement_factor_score"`
	VelocityScore         float64         `json:"velocity_score"`
	Components            ViralComponents `json:"components"`

	// unrounded velocity for callers that store it on the item
	rawVelocity float64
}

// RawVelocity returns the engagement velocity before display rounding
func (v ViralResult) RawVelocity() float64 {
	return v.rawVelocity
}

// ViralPotential combines title length, readability, engagement density and
// engagement velocity into a 0-10 score weighted 20/20/30/30.
// hoursOld is clamped to a minimum of 0.1.
func (a *Analyzer) ViralPotential(title, body string, score, comments int, hoursOld float64) ViralResult {
	full := title + " " + body

	engagement := a.EngagementFactors(full)
	readability := a.Readability(full)

	velocity := float64(score+comments*2) / math.Max(hoursOld, 0.1)
	titleWords := len(strings.Fields(title))

	titleScore := titleLengthScore(titleWords)
	readScore := readabilityFitness(readability.Score)
	engagementScore := math.Min(engagement.Score*10, 10)
	// downvoted items can have negative velocity, keep the log defined
	velocityScore := 0.0
	if velocity > 0 {
		velocityScore = math.Min(math.Log(velocity+1)*2, 10)
	}

	viral := titleScore*0.2 + readScore*0.2 + engagementScore*0.3 + velocityScore*0.3

	return ViralResult{
		Score:                 round(viral, 2),
		Level:                 ViralLevel(viral),
		EngagementVelocity:    round(velocity, 2),
		TitleLengthScore:      titleScore,
		ReadabilityScore:      readScore,
		EngagementFactorScore: round(engagementScore, 2),
		VelocityScore:         round(velocityScore, 2),
		Components: ViralComponents{
			TitleOptimal: titleWords >= 5 && titleWords <= 12,
			Readable:     readability.Score >= 30 && readability.Score <= 70,
			Engaging:     engagement.Score > 0.1,
			FastGrowth:   velocity > 5,
		},
		rawVelocity: velocity,
	}
}

func titleLengthScore(words int) float64 {
	switch {
	case words >= 5 && words <= 12:
		return 10
	case words >= 3 && words <= 15:
		return 8
	case words >= 2 && words <= 20:
		return 6
	default:
		return 3
	}
}

func readabilityFitness(flesch float64) float64 {
	switch {
	case flesch >= 70:
		return 10
	case flesch >= 60:
		return 8
	case flesch >= 50:
		return 6
	case flesch >= 30:
		return 4
	default:
		return 2
	}
}

// ViralLevel buckets a viral score
func ViralLevel(score float64) string {
	switch {
	case score >= 8:
		return "Very High"
	case score >= 6:
		return "High"
	case score >= 4:
		return "Medium"
	case score >= 2:
		return "Low"
	default:
		return "Very Low"
	}
}

// UrgencyScore counts the urgency words contained anywhere in text, two points each, capped at 10
func (a *Analyzer) UrgencyScore(text string) float64 {
	lower := strings.ToLower(text)
	hits := 0
	for word := range a.lex.UrgencyWords {
		if strings.Contains(lower, word) {
			hits++
		}
	}
	return math.Min(float64(hits*2), 10)
}

// CredibilityScore rates a news article from its byline, description length and outlet
func (a *Analyzer) CredibilityScore(author, description, source string) float64 {
	points := 0
	if strings.TrimSpace(author) != "" {
		points += 2
	}
	if len([]rune(description)) > 100 {
		points += 2
	}

	outlet := strings.ToLower(strings.TrimSpace(source))
	switch {
	case a.lex.TrustedSources.Has(outlet):
		points += 4
	case a.lex.MajorSources.Has(outlet):
		points += 3
	default:
		points++
	}

	return math.Min(float64(points), 10)
}
