// Package pipeline runs per-item scoring over collected content.
package pipeline

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/socialpulse/pulse-analytics/internal/content"
	"github.com/socialpulse/pulse-analytics/internal/models"
	"github.com/socialpulse/pulse-analytics/internal/sentiment"
)

var (
	ErrMissingTimestamp = errors.New("item has no creation timestamp")
	ErrEmptyTitle       = errors.New("item has an empty title")
)

// Failure records an item whose scoring did not complete
type Failure struct {
	ItemID string `json:"item_id"`
	Error  string `json:"error"`
}

// BatchResult holds the scored items in input order and any isolated failures
type BatchResult struct {
	Items    []models.ContentItem `json:"items"`
	Failures []Failure            `json:"failures"`
}

// Processor scores items with a content analyzer and a sentiment engine
type Processor struct {
	content   *content.Analyzer
	sentiment *sentiment.Engine
	workers   int
}

// NewProcessor creates a new processor with the given worker count (minimum 1).
// A nil analyzer or engine falls back to the built-in one.
func NewProcessor(analyzer *content.Analyzer, engine *sentiment.Engine, workers int) *Processor {
	if analyzer == nil {
		analyzer = content.NewAnalyzer(nil)
	}
	if engine == nil {
		engine = sentiment.NewEngine(nil, nil)
	}
	if workers < 1 {
		workers = 1
	}
	return &Processor{
		content:   analyzer,
		sentiment: engine,
		workers:   workers,
	}
}

// ProcessItem computes every derived field for item as of asOf. The derived
// fields are replaced together only once all of them have been computed, so
// a failing item keeps its previous values untouched.
func (p *Processor) ProcessItem(item *models.ContentItem, asOf time.Time) error {
	if item.CreatedAt.IsZero() {
		return ErrMissingTimestamp
	}
	if strings.TrimSpace(item.Title) == "" {
		return ErrEmptyTitle
	}

	text := item.Text()

	sent := p.sentiment.Analyze(text)
	profanity := p.content.CountProfanity(text)
	readability := p.content.Readability(text)
	engagement := p.content.EngagementFactors(text)
	viral := p.content.ViralPotential(item.Title, item.Body, item.Score, item.CommentCount, item.HoursOld(asOf))

	derived := models.Derived{
		SentimentScore:     sent.FinalScore,
		Confidence:         sent.Confidence,
		ProfanityCount:     profanity.CurseCount,
		ReadabilityScore:   readability.Score,
		EngagementVelocity: viral.RawVelocity(),
		ViralityScore:      viral.Score,
		EmotionalTone:      engagement.EmotionalTone,
		WordCount:          len(strings.Fields(text)),
		ProcessedAt:        asOf,
	}

	if item.Kind == models.KindNewsArticle {
		derived.UrgencyScore = p.content.UrgencyScore(text)
		derived.CredibilityScore = p.content.CredibilityScore(item.Author, item.Body, item.Community)
	}

	item.Derived = derived
	return nil
}

// ProcessBatch scores a copy of items on a bounded worker pool. A failure or
// panic while scoring one item resets that item to neutral defaults, records
// it in the result and never aborts the batch.
func (p *Processor) ProcessBatch(items []models.ContentItem, asOf time.Time) BatchResult {
	out := make([]models.ContentItem, len(items))
	copy(out, items)
	errs := make([]error, len(out))

	jobs := make(chan int)
	var wg sync.WaitGroup

	workers := p.workers
	if workers > len(out) {
		workers = len(out)
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				errs[i] = p.safeProcess(&out[i], asOf)
			}
		}()
	}

	for i := range out {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	result := BatchResult{Items: out}
	for i, err := range errs {
		if err == nil {
			continue
		}
		out[i].ResetDerived()
		logrus.Warnf("Failed to score item %s, keeping neutral defaults: %v", out[i].ID, err)
		result.Failures = append(result.Failures, Failure{ItemID: out[i].ID, Error: err.Error()})
	}

	logrus.Debugf("Scored %d items with %d failures", len(out), len(result.Failures))
	return result
}

func (p *Processor) safeProcess(item *models.ContentItem, asOf time.Time) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while scoring: %v", r)
		}
	}()
	return p.ProcessItem(item, asOf)
}
