package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/socialpulse/pulse-analytics/internal/behavior"
	"github.com/socialpulse/pulse-analytics/internal/config"
	"github.com/socialpulse/pulse-analytics/internal/content"
	"github.com/socialpulse/pulse-analytics/internal/correlation"
	"github.com/socialpulse/pulse-analytics/internal/lexicon"
	"github.com/socialpulse/pulse-analytics/internal/models"
	"github.com/socialpulse/pulse-analytics/internal/notifications"
	"github.com/socialpulse/pulse-analytics/internal/pipeline"
	"github.com/socialpulse/pulse-analytics/internal/sentiment"
	"github.com/socialpulse/pulse-analytics/internal/sources"
	"github.com/socialpulse/pulse-analytics/internal/storage"
	"github.com/socialpulse/pulse-analytics/internal/trends"
)

const (
	// SnapshotFile holds the topic snapshot used for the next run's momentum
	SnapshotFile = "snapshots/latest.json"
	// ReportPrefix is the archive folder of per-run dashboards
	ReportPrefix = "reports/"

	reportTimeLayout = "2006-01-02-15-04-05"
	retentionPeriod  = 7 * 24 * time.Hour
	viralCheckWindow = 6 * time.Hour
)

// ErrEmptyQuery is returned by Search for a blank query
var ErrEmptyQuery = errors.New("search query is empty")

// Service collects, scores and correlates content from all configured sources
type Service struct {
	config              *config.Config
	archive             storage.StorageInterface
	items               storage.ItemStore
	notificationService notifications.NotificationInterface
	sources             []sources.Source

	analyzer   *content.Analyzer
	processor  *pipeline.Processor
	extractor  *trends.Extractor
	correlator *correlation.Correlator
	aggregator *behavior.Aggregator

	now     func() time.Time
	metrics *Metrics
	latest  *Dashboard
	alerted map[string]time.Time
	mu      sync.RWMutex
}

// Metrics holds collection metrics
type Metrics struct {
	TotalItems         int            `json:"total_items"`
	LastRun            time.Time      `json:"last_run"`
	LastRunDuration    string         `json:"last_run_duration"`
	LastRunID          string         `json:"last_run_id"`
	SourceMetrics      map[string]int `json:"source_metrics"`
	SentimentBreakdown map[string]int `json:"sentiment_breakdown"`
	ScoringFailures    int            `json:"scoring_failures"`
	ErrorCount         int            `json:"error_count"`
	AlertsSent         int            `json:"alerts_sent"`
}

// NewService creates a new analytics service. A nil lex uses the built-in lexicons.
func NewService(cfg *config.Config, archive storage.StorageInterface, items storage.ItemStore, notificationService notifications.NotificationInterface, lex *lexicon.Lexicons) *Service {
	if lex == nil {
		lex = lexicon.Default()
	}

	analyzer := content.NewAnalyzer(lex)
	engine := sentiment.NewEngine(sentiment.NewVaderEstimator(), sentiment.NewProseEstimator())
	extractor := trends.NewExtractor(lex, cfg.MinTermMentions)

	opts := correlation.DefaultOptions()
	if cfg.SocialMinMentions > 0 {
		opts.SocialMinMentions = cfg.SocialMinMentions
	}
	if cfg.NewsMinMentions > 0 {
		opts.NewsMinMentions = cfg.NewsMinMentions
	}
	if cfg.HoursLookback > 0 {
		opts.Window = cfg.Lookback()
	}

	service := &Service{
		config:              cfg,
		archive:             archive,
		items:               items,
		notificationService: notificationService,
		analyzer:            analyzer,
		processor:           pipeline.NewProcessor(analyzer, engine, cfg.PipelineWorkers),
		extractor:           extractor,
		correlator:          correlation.NewCorrelator(lex, extractor, opts),
		aggregator: behavior.NewAggregator(behavior.Options{
			ViralThreshold: cfg.ViralScoreThreshold,
			Location:       cfg.Location(),
		}),
		now: time.Now,
		metrics: &Metrics{
			SourceMetrics:      make(map[string]int),
			SentimentBreakdown: make(map[string]int),
		},
		alerted: make(map[string]time.Time),
	}

	service.initializeSources()

	return service
}

func (s *Service) initializeSources() {
	s.sources = DefaultSources(s.config)
}

// DefaultSources builds every collector from cfg. Collectors without
// credentials report IsEnabled false and are skipped during collection.
func DefaultSources(cfg *config.Config) []sources.Source {
	return []sources.Source{
		sources.NewRedditSource(
			cfg.RedditClientID, cfg.RedditClientSecret, cfg.RedditUserAgent,
			cfg.RedditSubreddits, cfg.RedditPostLimit,
		),
		sources.NewNewsAPISource(cfg.NewsAPIKey, cfg.NewsSources, cfg.NewsTopics, cfg.NewsArticleLimit),
		sources.NewRSSSource(cfg.NewsRSSFeeds, cfg.NewsArticleLimit),
	}
}

type sourceResult struct {
	name  string
	items []models.ContentItem
}

// fetchAll queries every enabled source concurrently and returns the merged
// items, per-source counts and the number of failed sources
func (s *Service) fetchAll(ctx context.Context, window time.Duration) ([]models.ContentItem, map[string]int, int) {
	var allItems []models.ContentItem
	var wg sync.WaitGroup
	resultsChan := make(chan sourceResult, len(s.sources))
	errorsChan := make(chan error, len(s.sources))

	for _, source := range s.sources {
		if !source.IsEnabled() {
			logrus.Debugf("Skipping %s: not configured", source.GetName())
			continue
		}

		wg.Add(1)
		go func(src sources.Source) {
			defer wg.Done()

			logrus.Infof("Fetching items from %s (window: %v)", src.GetName(), window)
			items, err := src.FetchItems(ctx, window)
			if err != nil {
				logrus.Errorf("Error fetching from %s: %v", src.GetName(), err)
				errorsChan <- err
				return
			}

			logrus.Infof("Found %d items from %s", len(items), src.GetName())
			resultsChan <- sourceResult{name: src.GetName(), items: items}
		}(source)
	}

	go func() {
		wg.Wait()
		close(resultsChan)
		close(errorsChan)
	}()

	counts := make(map[string]int)
	for res := range resultsChan {
		counts[res.name] += len(res.items)
		allItems = append(allItems, res.items...)
	}

	errorCount := 0
	for range errorsChan {
		errorCount++
	}

	return allItems, counts, errorCount
}

// RunCollection performs one full collection run: fetch, score, persist,
// correlate against the previous snapshot, archive and notify.
func (s *Service) RunCollection() error {
	start := time.Now()
	logrus.Info("Starting collection run")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	window := s.config.Lookback()
	fetched, sourceCounts, errorCount := s.fetchAll(ctx, window)
	logrus.Infof("Collected %d items from all sources", len(fetched))

	asOf := s.now().UTC()
	batch := s.processor.ProcessBatch(fetched, asOf)
	if len(batch.Failures) > 0 {
		logrus.Warnf("%d of %d items could not be fully scored", len(batch.Failures), len(batch.Items))
	}

	if len(batch.Items) > 0 {
		if err := s.items.UpsertItems(ctx, batch.Items); err != nil {
			logrus.Errorf("Failed to store items: %v", err)
			return err
		}
	}

	stored, err := s.items.ListItems(ctx, "", asOf.Add(-window))
	if err != nil {
		return fmt.Errorf("failed to load items for analysis: %w", err)
	}
	reddit, news := models.SplitByPlatform(stored)
	logrus.Infof("Analyzing %d reddit posts and %d news articles", len(reddit), len(news))

	dashboard, err := s.BuildDashboard(reddit, news, s.previousTopics(), asOf)
	if err != nil {
		return err
	}
	dashboard.RunID = uuid.NewString()

	if err := s.items.SaveTopics(ctx, dashboard.RunID, dashboard.Correlation.TrendingTopics); err != nil {
		logrus.Errorf("Failed to save topic snapshot: %v", err)
		return err
	}

	if err := s.archiveDashboard(dashboard); err != nil {
		logrus.Errorf("Failed to archive dashboard: %v", err)
		return err
	}

	s.updateMetrics(dashboard, stored, sourceCounts, len(batch.Failures), errorCount, time.Since(start))

	if err := s.notificationService.SendReport(s.Digest(dashboard)); err != nil {
		logrus.Errorf("Failed to send report: %v", err)
		return err
	}

	logrus.Infof("Collection run %s completed in %v", dashboard.RunID, time.Since(start))
	return nil
}

// previousTopics loads the prior run's topics. A missing or unreadable
// snapshot yields nil, which marks every topic as new.
func (s *Service) previousTopics() []models.TrendingTopic {
	data, err := s.archive.Retrieve(SnapshotFile)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			logrus.Warnf("Failed to load previous snapshot: %v", err)
		}
		return nil
	}

	var topics []models.TrendingTopic
	if err := json.Unmarshal(data, &topics); err != nil {
		logrus.Warnf("Ignoring malformed snapshot: %v", err)
		return nil
	}
	return topics
}

func (s *Service) archiveDashboard(d *Dashboard) error {
	snapshot, err := json.Marshal(d.Correlation.TrendingTopics)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := s.archive.Store(SnapshotFile, snapshot); err != nil {
		return fmt.Errorf("failed to store snapshot: %w", err)
	}

	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal dashboard: %w", err)
	}
	return s.archive.Store(reportName(d.GeneratedAt), data)
}

func reportName(t time.Time) string {
	return fmt.Sprintf("%sdashboard-%s.json", ReportPrefix, t.UTC().Format(reportTimeLayout))
}

func (s *Service) updateMetrics(d *Dashboard, items []models.ContentItem, sourceCounts map[string]int, failures, errorCount int, duration time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest = d
	s.metrics.TotalItems = len(items)
	s.metrics.LastRun = d.GeneratedAt
	s.metrics.LastRunDuration = duration.String()
	s.metrics.LastRunID = d.RunID
	s.metrics.ScoringFailures = failures
	s.metrics.ErrorCount = errorCount
	s.metrics.SourceMetrics = sourceCounts

	s.metrics.SentimentBreakdown = make(map[string]int)
	for _, item := range items {
		s.metrics.SentimentBreakdown[sentiment.Classify(item.Derived.SentimentScore)]++
	}
}

// GetMetrics returns current metrics as JSON
func (s *Service) GetMetrics() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, _ := json.MarshalIndent(s.metrics, "", "  ")
	return string(data)
}

// LatestDashboard returns the dashboard of the last successful run, or nil
func (s *Service) LatestDashboard() *Dashboard {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Items lists stored items created within window, newest first. A zero window
// uses the configured lookback and an empty platform lists both platforms.
func (s *Service) Items(ctx context.Context, platform models.Platform, window time.Duration) ([]models.ContentItem, error) {
	return s.items.ListItems(ctx, platform, s.since(window))
}

// SearchResult holds the items matching a search query, split by platform
type SearchResult struct {
	Query         string               `json:"query"`
	RedditMatches []models.ContentItem `json:"reddit_matches"`
	NewsMatches   []models.ContentItem `json:"news_matches"`
	TotalMatches  int                  `json:"total_matches"`
}

// Search finds stored items within window whose title or body contains query,
// ignoring case. Each platform returns at most limit/2 items, TotalMatches
// counts every match.
func (s *Service) Search(ctx context.Context, query string, window time.Duration, limit int) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	matches, err := s.items.SearchItems(ctx, query, s.since(window))
	if err != nil {
		return nil, fmt.Errorf("failed to search items: %w", err)
	}
	reddit, news := models.SplitByPlatform(matches)

	perPlatform := limit / 2
	return &SearchResult{
		Query:         query,
		RedditMatches: firstN(reddit, perPlatform),
		NewsMatches:   firstN(news, perPlatform),
		TotalMatches:  len(reddit) + len(news),
	}, nil
}

func (s *Service) since(window time.Duration) time.Time {
	if window <= 0 {
		window = s.config.Lookback()
	}
	return s.now().UTC().Add(-window)
}

func firstN(items []models.ContentItem, n int) []models.ContentItem {
	if n < 0 {
		n = 0
	}
	if len(items) > n {
		items = items[:n]
	}
	if items == nil {
		return []models.ContentItem{}
	}
	return items
}

// Report returns an archived dashboard by file name
func (s *Service) Report(name string) ([]byte, error) {
	return s.archive.Retrieve(ReportPrefix + name)
}

// RunViralCheck alerts on recently posted items whose virality score reached
// the configured alert level. Each item is alerted at most once.
func (s *Service) RunViralCheck() error {
	logrus.Info("Starting viral content check")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	now := s.now().UTC()
	items, err := s.items.ListItems(ctx, "", now.Add(-viralCheckWindow))
	if err != nil {
		return fmt.Errorf("failed to load items: %w", err)
	}

	viral := s.filterViralItems(items)
	if len(viral) == 0 {
		logrus.Info("No viral items found")
		return nil
	}

	logrus.Infof("Found %d viral items requiring notification", len(viral))

	sent := 0
	for i := range viral {
		item := viral[i]
		alert := &models.Alert{
			ID:    uuid.NewString(),
			Type:  "viral",
			Title: "Viral content detected",
			Message: fmt.Sprintf("%q scored %.2f (%s) with %.0f engagement/hour",
				item.Title, item.Derived.ViralityScore, content.ViralLevel(item.Derived.ViralityScore),
				item.Derived.EngagementVelocity),
			Item:      &item,
			CreatedAt: now,
		}
		if err := s.notificationService.SendAlert(alert); err != nil {
			return fmt.Errorf("failed to send viral alert: %w", err)
		}

		s.mu.Lock()
		s.alerted[item.ID] = item.CreatedAt
		s.metrics.AlertsSent++
		s.mu.Unlock()
		sent++
	}

	logrus.Infof("Viral check completed, sent %d alerts", sent)
	return nil
}

// filterViralItems keeps unalerted items at or above the alert level, highest score first
func (s *Service) filterViralItems(items []models.ContentItem) []models.ContentItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var viral []models.ContentItem
	for _, item := range items {
		if item.Derived.ViralityScore < s.config.ViralAlertLevel {
			continue
		}
		if _, done := s.alerted[item.ID]; done {
			continue
		}
		viral = append(viral, item)
	}

	sort.SliceStable(viral, func(i, j int) bool {
		return viral[i].Derived.ViralityScore > viral[j].Derived.ViralityScore
	})
	return viral
}

// RunPrune drops stored items, topic snapshots and archived dashboards older
// than the retention period.
func (s *Service) RunPrune() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cutoff := s.now().UTC().Add(-retentionPeriod)

	removed, err := s.items.PruneBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("failed to prune items: %w", err)
	}

	names, err := s.archive.List(ReportPrefix)
	if err != nil {
		return fmt.Errorf("failed to list reports: %w", err)
	}
	oldest := reportName(cutoff)
	deleted := 0
	for _, name := range names {
		if name >= oldest {
			continue
		}
		if err := s.archive.Delete(name); err != nil {
			return fmt.Errorf("failed to delete report %s: %w", name, err)
		}
		deleted++
	}

	s.mu.Lock()
	for id, created := range s.alerted {
		if created.Before(cutoff) {
			delete(s.alerted, id)
		}
	}
	s.mu.Unlock()

	logrus.Infof("Pruned %d items and %d archived reports older than %s", removed, deleted, cutoff.Format(time.RFC3339))
	return nil
}
