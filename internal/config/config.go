package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port  string
	Debug bool

	// Schedule configuration
	UpdateInterval int // minutes between collection runs
	HoursLookback  int
	TimeZone       string

	// Reddit configuration
	RedditClientID     string
	RedditClientSecret string
	RedditUserAgent    string
	RedditSubreddits   []string
	RedditPostLimit    int

	// News configuration
	NewsAPIKey       string
	NewsSources      []string
	NewsTopics       []string
	NewsArticleLimit int
	NewsRSSFeeds     []string

	// Storage configuration
	DatabasePath     string
	StorageAccount   string
	StorageContainer string
	SnapshotDir      string

	// Notification configuration
	TeamsWebhookURL   string
	NotificationEmail string
	SMTPHost          string
	SMTPPort          int
	SMTPUsername      string
	SMTPPassword      string

	// Analysis configuration
	LexiconFile         string
	MinTermMentions     int
	ViralScoreThreshold int
	ViralAlertLevel     float64
	SocialMinMentions   int
	NewsMinMentions     int
	PipelineWorkers     int
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		Debug:          getBoolEnv("DEBUG", false),
		UpdateInterval: getIntEnv("UPDATE_INTERVAL", 30),
		HoursLookback:  getIntEnv("HOURS_LOOKBACK", 24),
		TimeZone:       getEnv("TIMEZONE", "UTC"),

		RedditClientID:     getEnv("REDDIT_CLIENT_ID", ""),
		RedditClientSecret: getEnv("REDDIT_CLIENT_SECRET", ""),
		RedditUserAgent:    getEnv("REDDIT_USER_AGENT", "SocialPulseAnalytics/1.0"),
		RedditSubreddits: getSliceEnv("REDDIT_SUBREDDITS", []string{
			"technology", "science", "worldnews", "politics",
			"datascience", "MachineLearning", "artificial",
			"futurology", "space", "environment",
		}),
		RedditPostLimit: getIntEnv("REDDIT_POST_LIMIT", 25),

		NewsAPIKey: getEnv("NEWS_API_KEY", ""),
		NewsSources: getSliceEnv("NEWS_SOURCES", []string{
			"bbc-news", "reuters", "associated-press", "cnn", "techcrunch",
		}),
		NewsTopics: getSliceEnv("NEWS_TOPICS", []string{
			"artificial intelligence", "machine learning", "AI", "technology", "science",
		}),
		NewsArticleLimit: getIntEnv("NEWS_ARTICLE_LIMIT", 50),
		NewsRSSFeeds:     getSliceEnv("NEWS_RSS_FEEDS", nil),

		DatabasePath:     getEnv("DATABASE_PATH", "data/social_pulse.db"),
		StorageAccount:   getEnv("AZURE_STORAGE_ACCOUNT", ""),
		StorageContainer: getEnv("AZURE_STORAGE_CONTAINER", "pulse-snapshots"),
		SnapshotDir:      getEnv("SNAPSHOT_DIR", "data/snapshots"),

		TeamsWebhookURL:   getEnv("TEAMS_WEBHOOK_URL", ""),
		NotificationEmail: getEnv("NOTIFICATION_EMAIL", ""),
		SMTPHost:          getEnv("SMTP_HOST", ""),
		SMTPPort:          getIntEnv("SMTP_PORT", 587),
		SMTPUsername:      getEnv("SMTP_USERNAME", ""),
		SMTPPassword:      getEnv("SMTP_PASSWORD", ""),

		LexiconFile:         getEnv("LEXICON_FILE", ""),
		MinTermMentions:     getIntEnv("MIN_TERM_MENTIONS", 2),
		ViralScoreThreshold: getIntEnv("VIRAL_SCORE_THRESHOLD", 1000),
		ViralAlertLevel:     getFloatEnv("VIRAL_ALERT_LEVEL", 8),
		SocialMinMentions:   getIntEnv("SOCIAL_MIN_MENTIONS", 5),
		NewsMinMentions:     getIntEnv("NEWS_MIN_MENTIONS", 3),
		PipelineWorkers:     getIntEnv("PIPELINE_WORKERS", 4),
	}

	// Validate required configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// RedditEnabled reports whether Reddit credentials are configured
func (c *Config) RedditEnabled() bool {
	return c.RedditClientID != "" && c.RedditClientSecret != ""
}

// NewsAPIEnabled reports whether a NewsAPI key is configured
func (c *Config) NewsAPIEnabled() bool {
	return c.NewsAPIKey != ""
}

// Location resolves TimeZone, falling back to UTC
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Lookback returns HoursLookback as a duration
func (c *Config) Lookback() time.Duration {
	return time.Duration(c.HoursLookback) * time.Hour
}

func (c *Config) validate() error {
	if c.HoursLookback <= 0 {
		return fmt.Errorf("HOURS_LOOKBACK must be positive")
	}

	if c.UpdateInterval <= 0 {
		return fmt.Errorf("UPDATE_INTERVAL must be positive")
	}

	if c.PipelineWorkers < 1 {
		return fmt.Errorf("PIPELINE_WORKERS must be at least 1")
	}

	if _, err := time.LoadLocation(c.TimeZone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.TimeZone, err)
	}

	if !c.RedditEnabled() && !c.NewsAPIEnabled() && len(c.NewsRSSFeeds) == 0 {
		return fmt.Errorf("at least one collector must be configured (REDDIT_CLIENT_ID/REDDIT_CLIENT_SECRET, NEWS_API_KEY or NEWS_RSS_FEEDS)")
	}

	if c.NotificationEmail != "" {
		if c.SMTPHost == "" || c.SMTPUsername == "" || c.SMTPPassword == "" {
			return fmt.Errorf("SMTP configuration is required when NOTIFICATION_EMAIL is set")
		}
	}

	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		var out []string
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	return defaultValue
}
