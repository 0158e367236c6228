// Package content scores text for profanity, readability, engagement cues and viral potential.
package content

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/socialpulse/pulse-analytics/internal/lexicon"
	"github.com/socialpulse/pulse-analytics/internal/textnorm"
)

var sentenceTerminators = regexp.MustCompile(`[.!?]+`)

// Analyzer holds the lexicons used for scoring. It has no mutable state and
// can be shared across goroutines.
type Analyzer struct {
	lex *lexicon.Lexicons
}

// NewAnalyzer creates a new content analyzer
func NewAnalyzer(lex *lexicon.Lexicons) *Analyzer {
	if lex == nil {
		lex = lexicon.Default()
	}
	return &Analyzer{lex: lex}
}

// ProfanityResult is the outcome of CountProfanity
type ProfanityResult struct {
	CurseCount  int      `json:"curse_count"`
	TotalWords  int      `json:"total_words"`
	CurseRatio  float64  `json:"curse_ratio"`
	Level       string   `json:"profanity_level"`
	FoundCurses []string `json:"found_curses"`
}

// CountProfanity matches every normalized token, stripped of punctuation,
// against the profanity lexicon.
func (a *Analyzer) CountProfanity(text string) ProfanityResult {
	words := textnorm.Tokens(text)

	count := 0
	found := make(map[string]struct{})
	for _, word := range words {
		clean := stripPunctuation(word)
		if a.lex.Profanity.Has(clean) {
			count++
			found[clean] = struct{}{}
		}
	}

	ratio := 0.0
	if len(words) > 0 {
		ratio = float64(count) / float64(len(words)) * 100
	}

	curses := make([]string, 0, len(found))
	for c := range found {
		curses = append(curses, c)
	}
	sort.Strings(curses)

	return ProfanityResult{
		CurseCount:  count,
		TotalWords:  len(words),
		CurseRatio:  round(ratio, 2),
		Level:       ProfanityLevel(ratio),
		FoundCurses: curses,
	}
}

// ProfanityLevel buckets a curse ratio given in percent
func ProfanityLevel(ratio float64) string {
	switch {
	case ratio == 0:
		return "Clean"
	case ratio < 2:
		return "Mild"
	case ratio < 5:
		return "Moderate"
	case ratio < 10:
		return "Heavy"
	default:
		return "Extreme"
	}
}

// ReadabilityResult is an approximate Flesch Reading Ease evaluation
type ReadabilityResult struct {
	Score               float64 `json:"score"`
	Level               string  `json:"level"`
	Words               int     `json:"words"`
	Sentences           int     `json:"sentences"`
	Syllables           int     `json:"syllables"`
	AvgWordsPerSentence float64 `json:"avg_words_per_sentence"`
}

// Readability computes the Flesch Reading Ease score of text, clamped to [0, 100].
// Sentences are counted on the raw text, words and syllables on the normalized text.
func (a *Analyzer) Readability(text string) ReadabilityResult {
	words := textnorm.Tokens(text)
	if len(words) == 0 {
		return ReadabilityResult{Level: "Unknown"}
	}

	sentences := len(sentenceTerminators.FindAllStringIndex(text, -1))
	if sentences == 0 {
		sentences = 1
	}

	syllables := 0
	for _, w := range words {
		syllables += countSyllables(w)
	}

	wordCount := float64(len(words))
	score := 206.835 - 1.015*(wordCount/float64(sentences)) - 84.6*(float64(syllables)/wordCount)
	score = clamp(score, 0, 100)

	return ReadabilityResult{
		Score:               round(score, 1),
		Level:               ReadingLevel(score),
		Words:               len(words),
		Sentences:           sentences,
		Syllables:           syllables,
		AvgWordsPerSentence: round(wordCount/float64(sentences), 1),
	}
}

// countSyllables approximates syllables as vowel groups, minus a silent trailing e
func countSyllables(word string) int {
	runes := []rune(strings.ToLower(word))
	if len(runes) == 0 {
		return 1
	}

	count := 0
	if isVowel(runes[0]) {
		count++
	}
	for i := 1; i < len(runes); i++ {
		if isVowel(runes[i]) && !isVowel(runes[i-1]) {
			count++
		}
	}
	if runes[len(runes)-1] == 'e' {
		count--
	}
	if count <= 0 {
		count = 1
	}
	return count
}

func isVowel(r rune) bool {
	return strings.ContainsRune("aeiouy", r)
}

// ReadingLevel maps a Flesch score onto the standard seven-level scale
func ReadingLevel(score float64) string {
	switch {
	case score >= 90:
		return "Very Easy"
	case score >= 80:
		return "Easy"
	case score >= 70:
		return "Fairly Easy"
	case score >= 60:
		return "Standard"
	case score >= 50:
		return "Fairly Difficult"
	case score >= 30:
		return "Difficult"
	default:
		return "Very Difficult"
	}
}

// EngagementResult describes engagement cues found in text
type EngagementResult struct {
	Score            float64 `json:"engagement_score"`
	PositiveWords    int     `json:"positive_words"`
	NegativeWords    int     `json:"negative_words"`
	QuestionWords    int     `json:"question_words"`
	ViralWords       int     `json:"viral_words"`
	HasQuestion      bool    `json:"has_question"`
	ExclamationCount int     `json:"exclamation_count"`
	CapsRatio        float64 `json:"caps_ratio"` // percent of characters
	TotalWords       int     `json:"total_words"`
	EmotionalTone    string  `json:"emotional_tone"`
}

// EngagementFactors computes a per-word engagement density from lexicon hits,
// question marks, exclamations and upper-case characters.
func (a *Analyzer) EngagementFactors(text string) EngagementResult {
	words := textnorm.Tokens(text)

	var res EngagementResult
	for _, w := range words {
		if a.lex.PositiveEngagement.Has(w) {
			res.PositiveWords++
		}
		if a.lex.NegativeEngagement.Has(w) {
			res.NegativeWords++
		}
		if a.lex.QuestionIndicators.Has(w) {
			res.QuestionWords++
		}
		if a.lex.ViralIndicators.Has(w) {
			res.ViralWords++
		}
	}

	res.HasQuestion = strings.Contains(text, "?")
	res.ExclamationCount = strings.Count(text, "!")

	capsRatio := 0.0
	if total := len([]rune(text)); total > 0 {
		upper := 0
		for _, r := range text {
			if unicode.IsUpper(r) {
				upper++
			}
		}
		capsRatio = float64(upper) / float64(total)
	}

	score := float64(res.PositiveWords)*2 +
		float64(res.NegativeWords)*1.5 +
		float64(res.QuestionWords)*1.2 +
		float64(res.ViralWords)*3 +
		float64(res.ExclamationCount)*2 +
		capsRatio*10
	if res.HasQuestion {
		score += 5
	}

	res.TotalWords = len(words)
	if res.TotalWords > 0 {
		res.Score = round(score/float64(res.TotalWords), 3)
	}
	res.CapsRatio = round(capsRatio*100, 1)
	res.EmotionalTone = EmotionalTone(res.PositiveWords, res.NegativeWords, res.TotalWords)

	return res
}

// EmotionalTone labels text from its positive and negative word ratios
func EmotionalTone(positive, negative, total int) string {
	if total == 0 {
		return "Neutral"
	}

	pos := float64(positive) / float64(total)
	neg := float64(negative) / float64(total)

	switch {
	case pos > neg*1.5:
		return "Very Positive"
	case pos > neg:
		return "Positive"
	case neg > pos*1.5:
		return "Very Negative"
	case neg > pos:
		return "Negative"
	default:
		return "Neutral"
	}
}

const asciiPunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// stripPunctuation removes ASCII punctuation from a token
func stripPunctuation(word string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(asciiPunctuation, r) {
			return -1
		}
		return r
	}, word)
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
