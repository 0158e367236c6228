package lexicon

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v2"
)

// WordSet is an immutable set of lowercase terms
type WordSet map[string]struct{}

// NewWordSet builds a set from words, lowercasing and trimming each entry
func NewWordSet(words ...string) WordSet {
	set := make(WordSet, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			set[w] = struct{}{}
		}
	}
	return set
}

func (s WordSet) Has(word string) bool {
	_, ok := s[word]
	return ok
}

// Sorted returns the members in alphabetical order
func (s WordSet) Sorted() []string {
	words := make([]string, 0, len(s))
	for w := range s {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}

// Lexicons bundles every word list the scoring pipeline consults.
// A Lexicons value is shared read-only by all analyzers.
type Lexicons struct {
	Profanity             WordSet
	PositiveEngagement    WordSet
	NegativeEngagement    WordSet
	QuestionIndicators    WordSet
	ViralIndicators       WordSet
	StopWords             WordSet
	PriorityKeywords      WordSet
	CorrelationVocabulary WordSet
	UrgencyWords          WordSet
	TrustedSources        WordSet
	MajorSources          WordSet
}

// fileFormat mirrors Lexicons for YAML overrides
type fileFormat struct {
	Profanity             []string `yaml:"profanity"`
	PositiveEngagement    []string `yaml:"positive_engagement"`
	NegativeEngagement    []string `yaml:"negative_engagement"`
	QuestionIndicators    []string `yaml:"question_indicators"`
	ViralIndicators       []string `yaml:"viral_indicators"`
	StopWords             []string `yaml:"stop_words"`
	PriorityKeywords      []string `yaml:"priority_keywords"`
	CorrelationVocabulary []string `yaml:"correlation_vocabulary"`
	UrgencyWords          []string `yaml:"urgency_words"`
	TrustedSources        []string `yaml:"trusted_sources"`
	MajorSources          []string `yaml:"major_sources"`
}

// LoadFile returns the default lexicons with every list present in the
// YAML file at path replacing its default.
func LoadFile(path string) (*Lexicons, error) {
	lex := Default()
	if path == "" {
		return lex, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon file: %w", err)
	}

	return Parse(data)
}

// Parse applies YAML overrides on top of the default lexicons
func Parse(data []byte) (*Lexicons, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse lexicon file: %w", err)
	}

	lex := Default()
	override := func(dst *WordSet, words []string) {
		if len(words) > 0 {
			*dst = NewWordSet(words...)
		}
	}
	override(&lex.Profanity, f.Profanity)
	override(&lex.PositiveEngagement, f.PositiveEngagement)
	override(&lex.NegativeEngagement, f.NegativeEngagement)
	override(&lex.QuestionIndicators, f.QuestionIndicators)
	override(&lex.ViralIndicators, f.ViralIndicators)
	override(&lex.StopWords, f.StopWords)
	override(&lex.PriorityKeywords, f.PriorityKeywords)
	override(&lex.CorrelationVocabulary, f.CorrelationVocabulary)
	override(&lex.UrgencyWords, f.UrgencyWords)
	override(&lex.TrustedSources, f.TrustedSources)
	override(&lex.MajorSources, f.MajorSources)

	return lex, nil
}
