package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/socialpulse/pulse-analytics/internal/models"
)

const (
	newsAPIURL      = "https://newsapi.org/v2"
	topicPageSize   = 10
	newsAPIMaxLimit = 100
)

// NewsAPISource collects top headlines from selected outlets plus articles
// matching a list of topic keywords
type NewsAPISource struct {
	apiKey  string
	sources []string
	topics  []string
	limit   int
	client  *resty.Client
	baseURL string
}

type newsAPIResponse struct {
	Status   string           `json:"status"`
	Code     string           `json:"code"`
	Message  string           `json:"message"`
	Articles []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Source struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
}

// NewNewsAPISource creates a new NewsAPI source
func NewNewsAPISource(apiKey string, outlets, topics []string, limit int) *NewsAPISource {
	if limit <= 0 {
		limit = 50
	}
	return &NewsAPISource{
		apiKey:  apiKey,
		sources: outlets,
		topics:  topics,
		limit:   limit,
		client:  resty.New().SetTimeout(15 * time.Second),
		baseURL: newsAPIURL,
	}
}

func (n *NewsAPISource) GetName() string {
	return "newsapi"
}

func (n *NewsAPISource) IsEnabled() bool {
	return n.apiKey != ""
}

func (n *NewsAPISource) FetchItems(ctx context.Context, since time.Duration) ([]models.ContentItem, error) {
	if !n.IsEnabled() {
		logrus.Debug("NewsAPI source disabled - missing API key")
		return nil, nil
	}

	from := time.Now().Add(-since).UTC()
	var allItems []models.ContentItem

	if len(n.sources) > 0 {
		headlines, err := n.request(ctx, "/top-headlines", map[string]string{
			"sources":  strings.Join(n.sources, ","),
			"pageSize": strconv.Itoa(minInt(n.limit, newsAPIMaxLimit)),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch top headlines: %w", err)
		}
		allItems = append(allItems, n.toItems(headlines, from)...)
	}

	for _, topic := range n.topics {
		articles, err := n.request(ctx, "/everything", map[string]string{
			"q":        topic,
			"language": "en",
			"sortBy":   "publishedAt",
			"pageSize": strconv.Itoa(topicPageSize),
			"from":     from.Format("2006-01-02"),
		})
		if err != nil {
			logrus.Errorf("Failed to search news for topic '%s': %v", topic, err)
			continue
		}
		allItems = append(allItems, n.toItems(articles, from)...)
	}

	unique := deduplicateItems(allItems)
	if len(unique) > n.limit {
		unique = unique[:n.limit]
	}
	return unique, nil
}

func (n *NewsAPISource) request(ctx context.Context, endpoint string, params map[string]string) ([]newsAPIArticle, error) {
	resp, err := n.client.R().
		SetContext(ctx).
		SetHeader("X-Api-Key", n.apiKey).
		SetQueryParams(params).
		Get(n.baseURL + endpoint)

	if err != nil {
		return nil, err
	}

	var body newsAPIResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("newsapi returned status %d with unreadable body: %w", resp.StatusCode(), err)
	}

	if resp.StatusCode() != 200 || body.Status != "ok" {
		return nil, fmt.Errorf("newsapi returned status %d: %s %s", resp.StatusCode(), body.Code, body.Message)
	}

	return body.Articles, nil
}

// toItems converts articles, skipping removed, undated and stale ones.
// Items are keyed by URL so the same article from two queries collapses.
func (n *NewsAPISource) toItems(articles []newsAPIArticle, from time.Time) []models.ContentItem {
	var items []models.ContentItem

	for _, a := range articles {
		if a.Title == "" || a.Title == removedTitle || a.URL == "" {
			continue
		}

		publishedAt, err := time.Parse(time.RFC3339, a.PublishedAt)
		if err != nil {
			logrus.Debugf("Skipping article with unparseable timestamp %q: %s", a.PublishedAt, a.URL)
			continue
		}
		if publishedAt.Before(from) {
			continue
		}

		items = append(items, models.ContentItem{
			ID:        newsItemID(a.URL),
			Platform:  models.PlatformNews,
			Kind:      models.KindNewsArticle,
			Title:     a.Title,
			Body:      a.Description,
			Author:    a.Author,
			URL:       a.URL,
			Community: a.Source.Name,
			CreatedAt: publishedAt.UTC(),
		})
	}

	return items
}

// newsItemID derives a stable id from the article URL
func newsItemID(link string) string {
	return "news_" + uuid.NewSHA1(uuid.NameSpaceURL, []byte(link)).String()
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
