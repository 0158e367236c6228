package sentiment

import (
	"math"
	"strings"

	"github.com/jonreiter/govader"

	"github.com/socialpulse/pulse-analytics/internal/textnorm"
)

// Estimator returns a polarity in [-1, 1] for a piece of text
type Estimator interface {
	Polarity(text string) float64
}

// VaderEstimator scores informal social text with VADER's compound score
type VaderEstimator struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVaderEstimator creates a VADER backed estimator
func NewVaderEstimator() *VaderEstimator {
	return &VaderEstimator{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (v *VaderEstimator) Polarity(text string) float64 {
	return v.analyzer.PolarityScores(text).Compound
}

// ProseEstimator scores general prose by averaging the polarity of the
// opinion words it contains. A preceding intensifier scales a word by 1.3
// and a preceding negation flips it at half strength.
type ProseEstimator struct {
	polarity     map[string]float64
	intensifiers map[string]struct{}
	negations    map[string]struct{}
}

// NewProseEstimator creates an estimator with the built-in opinion lexicon
func NewProseEstimator() *ProseEstimator {
	return &ProseEstimator{
		polarity:     proseLexicon,
		intensifiers: toSet("very", "really", "extremely", "so", "incredibly", "highly", "truly", "absolutely", "totally"),
		negations:    toSet("not", "no", "never", "nothing", "hardly", "isnt", "dont", "doesnt", "wasnt", "cant", "wont", "aint"),
	}
}

func (p *ProseEstimator) Polarity(text string) float64 {
	words := strings.Fields(textnorm.StripNonWord(strings.ReplaceAll(text, "'", "")))

	var sum float64
	var hits int
	for i, w := range words {
		score, ok := p.polarity[w]
		if !ok {
			continue
		}

		// look back over at most two modifiers, e.g. "not very good"
		for j := i - 1; j >= 0 && j >= i-2; j-- {
			if _, ok := p.intensifiers[words[j]]; ok {
				score *= 1.3
				continue
			}
			if _, ok := p.negations[words[j]]; ok {
				score *= -0.5
			}
			break
		}

		sum += score
		hits++
	}

	if hits == 0 {
		return 0
	}
	return math.Max(-1, math.Min(1, sum/float64(hits)))
}

func toSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

var proseLexicon = map[string]float64{
	"good": 0.7, "great": 0.8, "excellent": 1.0, "amazing": 0.6, "awesome": 1.0, "wonderful": 1.0,
	"fantastic": 0.4, "best": 1.0, "better": 0.5, "positive": 0.23, "happy": 0.8, "glad": 0.5,
	"love": 0.5, "loved": 0.7, "nice": 0.6, "beautiful": 0.85, "brilliant": 0.9, "perfect": 1.0,
	"impressive": 1.0, "successful": 0.75, "strong": 0.43, "win": 0.8, "winning": 0.5, "hopeful": 0.5,
	"exciting": 0.3, "excited": 0.38, "interesting": 0.5, "helpful": 0.5, "safe": 0.5, "easy": 0.43,
	"fun": 0.3, "fine": 0.42, "useful": 0.3, "promising": 0.5, "remarkable": 0.75, "incredible": 0.9,
	"outstanding": 0.5, "record": 0.2, "growth": 0.2, "improved": 0.4, "progress": 0.3, "breakthrough": 0.4,
	"bad": -0.7, "worse": -0.4, "worst": -1.0, "terrible": -1.0, "awful": -1.0, "horrible": -1.0,
	"poor": -0.4, "sad": -0.5, "angry": -0.5, "hate": -0.8, "hated": -0.9, "ugly": -0.7,
	"wrong": -0.5, "negative": -0.3, "failed": -0.5, "failure": -0.32, "disaster": -0.6, "crisis": -0.4,
	"dangerous": -0.6, "deadly": -0.2, "dead": -0.2, "killed": -0.2, "war": -0.3, "attack": -0.3,
	"weak": -0.38, "boring": -1.0, "stupid": -0.8, "useless": -0.5, "broken": -0.4, "disappointing": -0.6,
	"disappointed": -0.75, "pathetic": -1.0, "scary": -0.5, "difficult": -0.5, "hard": -0.29, "slow": -0.3,
	"expensive": -0.5, "lost": -0.3, "loss": -0.2, "decline": -0.2, "falling": -0.2, "collapse": -0.5,
	"fear": -0.4, "worried": -0.4, "concerning": -0.3, "controversial": -0.2, "shocking": -1.0, "insane": -0.5,
}
