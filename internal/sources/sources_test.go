package sources

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/socialpulse/pulse-analytics/internal/models"
)

func TestRedditSource_GetName(t *testing.T) {
	source := NewRedditSource("client_id", "client_secret", "test-agent", nil, 25)
	assert.Equal(t, "reddit", source.GetName())
}

func TestRedditSource_IsEnabled(t *testing.T) {
	tests := []struct {
		name         string
		clientID     string
		clientSecret string
		expected     bool
	}{
		{
			name:         "Both credentials provided",
			clientID:     "client_id",
			clientSecret: "client_secret",
			expected:     true,
		},
		{
			name:         "Missing client ID",
			clientID:     "",
			clientSecret: "client_secret",
			expected:     false,
		},
		{
			name:         "Missing client secret",
			clientID:     "client_id",
			clientSecret: "",
			expected:     false,
		},
		{
			name:         "Both missing",
			clientID:     "",
			clientSecret: "",
			expected:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := NewRedditSource(tt.clientID, tt.clientSecret, "test-agent", nil, 25)
			assert.Equal(t, tt.expected, source.IsEnabled())
		})
	}
}

func TestRedditSource_FetchItems(t *testing.T) {
	now := time.Now().Unix()
	tokenRequests := 0

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		tokenRequests++
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "id", user)
		assert.Equal(t, "secret", pass)
		fmt.Fprint(w, `{"access_token":"tok","token_type":"bearer","expires_in":3600}`)
	})
	mux.HandleFunc("/r/golang/new", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		fmt.Fprintf(w, `{"data":{"children":[
			{"data":{"id":"a1","title":"Go 1.22 released","selftext":"loops","author":"gopher","subreddit":"golang","permalink":"/r/golang/a1","created_utc":%d,"score":120,"num_comments":30}},
			{"data":{"id":"old","title":"Ancient post","subreddit":"golang","created_utc":%d,"score":5}}
		]}}`, now-600, now-3*24*3600)
	})
	mux.HandleFunc("/r/broken/new", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	source := NewRedditSource("id", "secret", "test-agent", []string{"broken", "golang"}, 10)
	source.authURL = server.URL + "/token"
	source.apiURL = server.URL

	items, err := source.FetchItems(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, "reddit_a1", item.ID)
	assert.Equal(t, models.PlatformReddit, item.Platform)
	assert.Equal(t, models.KindSocialPost, item.Kind)
	assert.Equal(t, "golang", item.Community)
	assert.Equal(t, "https://reddit.com/r/golang/a1", item.URL)
	assert.Equal(t, 120, item.Score)
	assert.Equal(t, 30, item.CommentCount)
	assert.Equal(t, models.Derived{}, item.Derived)

	// the token is cached between runs
	_, err = source.FetchItems(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, tokenRequests)
}

func TestRedditSource_AuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	source := NewRedditSource("id", "secret", "test-agent", []string{"golang"}, 10)
	source.authURL = server.URL

	_, err := source.FetchItems(context.Background(), time.Hour)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reddit authentication failed")
}

func TestNewsAPISource_IsEnabled(t *testing.T) {
	assert.True(t, NewNewsAPISource("key", nil, nil, 10).IsEnabled())
	assert.False(t, NewNewsAPISource("", nil, nil, 10).IsEnabled())
	assert.Equal(t, "newsapi", NewNewsAPISource("", nil, nil, 10).GetName())
}

func TestNewsAPISource_FetchItems(t *testing.T) {
	recent := time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)
	stale := time.Now().Add(-72 * time.Hour).UTC().Format(time.RFC3339)

	mux := http.NewServeMux()
	mux.HandleFunc("/top-headlines", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "key", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "reuters,bbc-news", r.URL.Query().Get("sources"))
		fmt.Fprintf(w, `{"status":"ok","articles":[
			{"source":{"name":"Reuters"},"author":"Jane","title":"Markets rally","description":"Stocks rose","url":"https://x.test/1","publishedAt":%q},
			{"source":{"name":"BBC News"},"title":"[Removed]","url":"https://x.test/2","publishedAt":%q},
			{"source":{"name":"BBC News"},"title":"Old story","url":"https://x.test/3","publishedAt":%q}
		]}`, recent, recent, stale)
	})
	mux.HandleFunc("/everything", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "broken" {
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"status":"error","code":"rateLimited","message":"slow down"}`)
			return
		}
		fmt.Fprintf(w, `{"status":"ok","articles":[
			{"source":{"name":"Reuters"},"title":"Markets rally","url":"https://x.test/1","publishedAt":%q},
			{"source":{"name":"Wired"},"title":"AI chips","url":"https://x.test/4","publishedAt":%q},
			{"source":{"name":"Wired"},"title":"No date","url":"https://x.test/5","publishedAt":"yesterday"}
		]}`, recent, recent)
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	source := NewNewsAPISource("key", []string{"reuters", "bbc-news"}, []string{"broken", "ai"}, 50)
	source.baseURL = server.URL

	items, err := source.FetchItems(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "Markets rally", items[0].Title)
	assert.Equal(t, "Reuters", items[0].Community)
	assert.Equal(t, "Stocks rose", items[0].Body)
	assert.Equal(t, models.KindNewsArticle, items[0].Kind)
	assert.True(t, strings.HasPrefix(items[0].ID, "news_"))
	assert.Equal(t, "AI chips", items[1].Title)
}

func TestNewsAPISource_HeadlineFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"status":"error","code":"apiKeyInvalid","message":"bad key"}`)
	}))
	defer server.Close()

	source := NewNewsAPISource("key", []string{"reuters"}, nil, 50)
	source.baseURL = server.URL

	_, err := source.FetchItems(context.Background(), time.Hour)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "apiKeyInvalid")
}

func TestNewsItemID(t *testing.T) {
	assert.Equal(t, newsItemID("https://x.test/1"), newsItemID("https://x.test/1"))
	assert.NotEqual(t, newsItemID("https://x.test/1"), newsItemID("https://x.test/2"))
}

func TestFeedItems(t *testing.T) {
	recent := time.Now().Add(-time.Hour).UTC().Format(time.RFC1123Z)
	stale := time.Now().Add(-72 * time.Hour).UTC().Format(time.RFC1123Z)

	rss := fmt.Sprintf(`<?xml version="1.0"?>
<rss version="2.0"><channel><title>Example Wire</title>
<item><title>Breaking: storm lands</title><link>https://wire.test/storm</link><description>Winds hit the coast</description><author>desk@wire.test (News Desk)</author><pubDate>%s</pubDate></item>
<item><title>Yesterday's news</title><link>https://wire.test/old</link><pubDate>%s</pubDate></item>
<item><title>Undated</title><link>https://wire.test/undated</link></item>
<item><title>[Removed]</title><link>https://wire.test/removed</link><pubDate>%s</pubDate></item>
</channel></rss>`, recent, stale, recent)

	feed, err := gofeed.NewParser().ParseString(rss)
	require.NoError(t, err)

	items := feedItems(feed, time.Now().Add(-24*time.Hour))
	require.Len(t, items, 1)

	item := items[0]
	assert.Equal(t, "Breaking: storm lands", item.Title)
	assert.Equal(t, "Winds hit the coast", item.Body)
	assert.Equal(t, "Example Wire", item.Community)
	assert.Equal(t, models.PlatformNews, item.Platform)
	assert.Equal(t, newsItemID("https://wire.test/storm"), item.ID)
}

func TestRSSSource_IsEnabled(t *testing.T) {
	assert.False(t, NewRSSSource(nil, 10).IsEnabled())
	assert.True(t, NewRSSSource([]string{"https://wire.test/rss"}, 10).IsEnabled())
}

func TestDeduplicateItems(t *testing.T) {
	items := []models.ContentItem{
		{ID: "1", Title: "First item"},
		{ID: "2", Title: "Second item"},
		{ID: "1", Title: "Duplicate item"},
		{ID: "3", Title: "Third item"},
	}

	unique := deduplicateItems(items)

	assert.Len(t, unique, 3)
	assert.Equal(t, "1", unique[0].ID)
	assert.Equal(t, "First item", unique[0].Title)
	assert.Equal(t, "2", unique[1].ID)
	assert.Equal(t, "3", unique[2].ID)
}
