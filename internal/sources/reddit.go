package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/socialpulse/pulse-analytics/internal/models"
)

const (
	redditAuthURL = "https://www.reddit.com/api/v1/access_token"
	redditAPIURL  = "https://oauth.reddit.com"
)

// RedditSource collects the newest posts of a fixed set of subreddits
type RedditSource struct {
	clientID     string
	clientSecret string
	userAgent    string
	subreddits   []string
	limit        int
	client       *resty.Client
	authURL      string
	apiURL       string

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

type redditAuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type redditListingResponse struct {
	Data struct {
		Children []struct {
			Data redditPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type redditPost struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Selftext    string  `json:"selftext"`
	Author      string  `json:"author"`
	Subreddit   string  `json:"subreddit"`
	URL         string  `json:"url"`
	Permalink   string  `json:"permalink"`
	Created     float64 `json:"created_utc"`
	Score       int     `json:"score"`
	NumComments int     `json:"num_comments"`
}

// NewRedditSource creates a new Reddit source
func NewRedditSource(clientID, clientSecret, userAgent string, subreddits []string, limit int) *RedditSource {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	return &RedditSource{
		clientID:     clientID,
		clientSecret: clientSecret,
		userAgent:    userAgent,
		subreddits:   subreddits,
		limit:        limit,
		client:       resty.New().SetTimeout(30 * time.Second),
		authURL:      redditAuthURL,
		apiURL:       redditAPIURL,
	}
}

func (r *RedditSource) GetName() string {
	return "reddit"
}

func (r *RedditSource) IsEnabled() bool {
	return r.clientID != "" && r.clientSecret != ""
}

func (r *RedditSource) FetchItems(ctx context.Context, since time.Duration) ([]models.ContentItem, error) {
	if !r.IsEnabled() {
		logrus.Debug("Reddit source disabled - missing credentials")
		return nil, nil
	}

	token, err := r.authenticate(ctx)
	if err != nil {
		return nil, fmt.Errorf("reddit authentication failed: %w", err)
	}

	var allItems []models.ContentItem
	cutoff := time.Now().Add(-since)

	for _, subreddit := range r.subreddits {
		items, err := r.fetchSubreddit(ctx, token, subreddit, cutoff)
		if err != nil {
			logrus.Errorf("Failed to fetch subreddit %s: %v", subreddit, err)
			continue
		}
		logrus.Debugf("Collected %d posts from r/%s", len(items), subreddit)
		allItems = append(allItems, items...)

		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	return deduplicateItems(allItems), nil
}

// authenticate fetches an application-only token, reusing it until it expires
func (r *RedditSource) authenticate(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.accessToken != "" && time.Now().Before(r.tokenExpiry) {
		return r.accessToken, nil
	}

	resp, err := r.client.R().
		SetContext(ctx).
		SetHeader("User-Agent", r.userAgent).
		SetBasicAuth(r.clientID, r.clientSecret).
		SetFormData(map[string]string{
			"grant_type": "client_credentials",
		}).
		Post(r.authURL)

	if err != nil {
		return "", err
	}

	if resp.StatusCode() != 200 {
		return "", fmt.Errorf("token endpoint returned status %d", resp.StatusCode())
	}

	var authResp redditAuthResponse
	if err := json.Unmarshal(resp.Body(), &authResp); err != nil {
		return "", err
	}
	if authResp.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned no access token")
	}

	expiresIn := authResp.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = 3600
	}

	r.accessToken = authResp.AccessToken
	// refresh a minute early
	r.tokenExpiry = time.Now().Add(time.Duration(expiresIn)*time.Second - time.Minute)
	return r.accessToken, nil
}

func (r *RedditSource) fetchSubreddit(ctx context.Context, token, subreddit string, cutoff time.Time) ([]models.ContentItem, error) {
	resp, err := r.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+token).
		SetHeader("User-Agent", r.userAgent).
		SetQueryParam("limit", strconv.Itoa(r.limit)).
		Get(fmt.Sprintf("%s/r/%s/new", r.apiURL, subreddit))

	if err != nil {
		return nil, err
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("reddit API returned status %d", resp.StatusCode())
	}

	var listing redditListingResponse
	if err := json.Unmarshal(resp.Body(), &listing); err != nil {
		return nil, err
	}

	var items []models.ContentItem
	for _, child := range listing.Data.Children {
		post := child.Data
		createdAt := time.Unix(int64(post.Created), 0).UTC()

		// Skip posts older than our cutoff
		if createdAt.Before(cutoff) {
			continue
		}

		community := post.Subreddit
		if community == "" {
			community = subreddit
		}

		author := post.Author
		if author == "" {
			author = "[deleted]"
		}

		items = append(items, models.ContentItem{
			ID:           fmt.Sprintf("reddit_%s", post.ID),
			Platform:     models.PlatformReddit,
			Kind:         models.KindSocialPost,
			Title:        post.Title,
			Body:         post.Selftext,
			Author:       author,
			URL:          fmt.Sprintf("https://reddit.com%s", post.Permalink),
			Community:    community,
			Score:        post.Score,
			CommentCount: post.NumComments,
			CreatedAt:    createdAt,
		})
	}

	return items, nil
}
