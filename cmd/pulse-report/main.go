package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/socialpulse/pulse-analytics/internal/analytics"
	"github.com/socialpulse/pulse-analytics/internal/config"
	"github.com/socialpulse/pulse-analytics/internal/models"
	"github.com/socialpulse/pulse-analytics/internal/storage"
)

const (
	defaultFixture = "cmd/pulse-report/testdata/sample_items.json"
	outputDir      = "test_output"
)

// fixture is a recorded collection: the items and the instant they were scored at
type fixture struct {
	AsOf     time.Time              `json:"as_of"`
	Previous []models.TrendingTopic `json:"previous_topics"`
	Items    []models.ContentItem   `json:"items"`
}

// TerminalNotificationService prints digests to the terminal
type TerminalNotificationService struct{}

func (t *TerminalNotificationService) SendReport(report *models.Report) error {
	fmt.Println("\n" + strings.Repeat("=", 70))
	fmt.Println("SOCIAL PULSE DIGEST")
	fmt.Println(strings.Repeat("=", 70))
	fmt.Printf("Period: %s\n", report.Period)
	fmt.Printf("Generated: %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("Total Items: %d\n", report.TotalItems)

	if platforms, ok := report.Summary["platforms"].(map[string]int); ok {
		fmt.Println("\nPlatforms:")
		for _, p := range []string{"reddit", "news"} {
			fmt.Printf("   %-10s %d items\n", p+":", platforms[p])
		}
	}

	if sentimentStats, ok := report.Summary["sentiment"].(map[string]int); ok {
		fmt.Println("\nSentiment:")
		for _, s := range []string{"positive", "neutral", "negative"} {
			fmt.Printf("   %-10s %d items\n", s+":", sentimentStats[s])
		}
	}

	if len(report.TopTopics) > 0 {
		fmt.Println("\nTrending Topics:")
		for i, topic := range report.TopTopics {
			fmt.Printf("   %d. %-20s reddit %d / news %d  (%s)\n",
				i+1, topic.Keyword, topic.RedditMentions, topic.NewsMentions, topic.Momentum)
		}
	}

	if len(report.Insights) > 0 {
		fmt.Println("\nInsights:")
		for _, insight := range report.Insights {
			fmt.Printf("   - %s\n", insight)
		}
	}

	fmt.Println("\nMost Viral Items:")
	for i, item := range report.TopItems {
		fmt.Printf("\n   %d. [%s] %s\n", i+1, item.Platform, item.Title)
		if item.Community != "" {
			fmt.Printf("      Community: %s\n", item.Community)
		}
		fmt.Printf("      Virality: %.2f | Sentiment: %.2f | Score: %d\n",
			item.Derived.ViralityScore, item.Derived.SentimentScore, item.Score)
	}

	fmt.Println("\n" + strings.Repeat("=", 70))
	return nil
}

func (t *TerminalNotificationService) SendAlert(alert *models.Alert) error {
	fmt.Println("\nALERT")
	fmt.Printf("Type: %s\n", alert.Type)
	fmt.Printf("Message: %s\n", alert.Message)
	return nil
}

func loadFixture(path string) (*fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture: %w", err)
	}

	var f fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse fixture: %w", err)
	}
	if f.AsOf.IsZero() {
		f.AsOf = time.Now().UTC()
	}
	return &f, nil
}

func main() {
	fmt.Println("Social Pulse Analytics - Offline Report Generator")
	fmt.Println("=================================================")

	logrus.SetLevel(logrus.WarnLevel)

	path := defaultFixture
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	f, err := loadFixture(path)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	cfg := &config.Config{
		HoursLookback:       24,
		TimeZone:            "UTC",
		MinTermMentions:     2,
		ViralScoreThreshold: 1000,
		SocialMinMentions:   5,
		NewsMinMentions:     3,
		PipelineWorkers:     4,
	}

	archive, err := storage.NewLocalStorage(outputDir)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	notifier := &TerminalNotificationService{}
	service := analytics.NewService(cfg, archive, nil, notifier, nil)

	fmt.Printf("\nScoring %d items as of %s...\n", len(f.Items), f.AsOf.Format(time.RFC3339))

	dashboard, err := service.Analyze(f.Items, f.Previous, f.AsOf)
	if err != nil {
		fmt.Printf("Error building dashboard: %v\n", err)
		os.Exit(1)
	}

	if err := notifier.SendReport(service.Digest(dashboard)); err != nil {
		fmt.Printf("Error sending report: %v\n", err)
		os.Exit(1)
	}

	data, err := json.MarshalIndent(dashboard, "", "  ")
	if err != nil {
		fmt.Printf("Error encoding dashboard: %v\n", err)
		os.Exit(1)
	}

	name := fmt.Sprintf("dashboard_%s.json", f.AsOf.Format("2006-01-02_15-04-05"))
	if err := archive.Store(name, data); err != nil {
		fmt.Printf("Warning: could not save dashboard: %v\n", err)
	} else {
		fmt.Printf("\nDashboard saved to: %s\n", filepath.Join(outputDir, name))
	}

	fmt.Println("\nReport generation completed!")
}
