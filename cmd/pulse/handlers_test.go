package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/socialpulse/pulse-analytics/internal/analytics"
	"github.com/socialpulse/pulse-analytics/internal/models"
	"github.com/socialpulse/pulse-analytics/internal/storage"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) GetMetrics() string {
	return m.Called().String(0)
}

func (m *mockService) LatestDashboard() *analytics.Dashboard {
	d, _ := m.Called().Get(0).(*analytics.Dashboard)
	return d
}

func (m *mockService) Report(name string) ([]byte, error) {
	args := m.Called(name)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *mockService) Items(ctx context.Context, platform models.Platform, window time.Duration) ([]models.ContentItem, error) {
	args := m.Called(platform, window)
	items, _ := args.Get(0).([]models.ContentItem)
	return items, args.Error(1)
}

func (m *mockService) Search(ctx context.Context, query string, window time.Duration, limit int) (*analytics.SearchResult, error) {
	args := m.Called(query, window, limit)
	res, _ := args.Get(0).(*analytics.SearchResult)
	return res, args.Error(1)
}

func (m *mockService) RunCollection() error {
	return m.Called().Error(0)
}

func serve(svc dashboardService, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestHealthAndMetrics(t *testing.T) {
	svc := &mockService{}
	svc.On("GetMetrics").Return(`{"total_items":3}`)

	rec := serve(svc, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)

	rec = serve(svc, http.MethodGet, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"total_items":3}`, rec.Body.String())
}

func TestDashboardHandler(t *testing.T) {
	t.Run("before first run", func(t *testing.T) {
		svc := &mockService{}
		svc.On("LatestDashboard").Return(nil)

		rec := serve(svc, http.MethodGet, "/api/dashboard")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("latest dashboard", func(t *testing.T) {
		svc := &mockService{}
		svc.On("LatestDashboard").Return(&analytics.Dashboard{
			RunID:       "run-1",
			GeneratedAt: time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC),
		})

		rec := serve(svc, http.MethodGet, "/api/dashboard")
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "run-1", body["run_id"])
	})
}

func TestReportHandler(t *testing.T) {
	tests := []struct {
		name   string
		data   []byte
		err    error
		status int
	}{
		{name: "found", data: []byte(`{"run_id":"x"}`), status: http.StatusOK},
		{name: "missing", err: storage.ErrNotFound, status: http.StatusNotFound},
		{name: "archive failure", err: errors.New("timeout"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			svc.On("Report", "dashboard-2024-03-10-12-00-00.json").Return(tt.data, tt.err)

			rec := serve(svc, http.MethodGet, "/api/reports/dashboard-2024-03-10-12-00-00.json")
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.JSONEq(t, `{"run_id":"x"}`, rec.Body.String())
			}
		})
	}
}

func TestItemsHandler(t *testing.T) {
	svc := &mockService{}
	svc.On("Items", models.PlatformReddit, time.Duration(0)).Return([]models.ContentItem{{ID: "reddit_1"}}, nil)
	svc.On("Items", models.Platform(""), time.Duration(0)).Return(nil, nil)
	svc.On("Items", models.PlatformNews, 6*time.Hour).Return([]models.ContentItem{{ID: "news_1"}}, nil)

	rec := serve(svc, http.MethodGet, "/api/items?platform=reddit")
	require.Equal(t, http.StatusOK, rec.Code)
	var items []models.ContentItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "reddit_1", items[0].ID)

	rec = serve(svc, http.MethodGet, "/api/items")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = serve(svc, http.MethodGet, "/api/items?platform=news&hours=6")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"news_1"`)

	for _, target := range []string{
		"/api/items?platform=myspace",
		"/api/items?hours=0",
		"/api/items?hours=-3",
		"/api/items?hours=day",
	} {
		rec = serve(svc, http.MethodGet, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestSearchHandler(t *testing.T) {
	result := &analytics.SearchResult{
		Query:         "tesla",
		RedditMatches: []models.ContentItem{{ID: "reddit_1"}},
		NewsMatches:   []models.ContentItem{},
		TotalMatches:  3,
	}

	tests := []struct {
		name   string
		target string
		setup  func(svc *mockService)
		status int
	}{
		{
			name:   "defaults",
			target: "/api/search?q=tesla",
			setup: func(svc *mockService) {
				svc.On("Search", "tesla", time.Duration(0), 50).Return(result, nil)
			},
			status: http.StatusOK,
		},
		{
			name:   "hours and limit",
			target: "/api/search?q=tesla&hours=48&limit=10",
			setup: func(svc *mockService) {
				svc.On("Search", "tesla", 48*time.Hour, 10).Return(result, nil)
			},
			status: http.StatusOK,
		},
		{name: "missing query", target: "/api/search", status: http.StatusBadRequest},
		{name: "blank query", target: "/api/search?q=%20%20", status: http.StatusBadRequest},
		{name: "bad hours", target: "/api/search?q=tesla&hours=0", status: http.StatusBadRequest},
		{name: "bad limit", target: "/api/search?q=tesla&limit=lots", status: http.StatusBadRequest},
		{
			name:   "store failure",
			target: "/api/search?q=tesla",
			setup: func(svc *mockService) {
				svc.On("Search", "tesla", time.Duration(0), 50).Return(nil, errors.New("locked"))
			},
			status: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			if tt.setup != nil {
				tt.setup(svc)
			}

			rec := serve(svc, http.MethodGet, tt.target)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				var body analytics.SearchResult
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, 3, body.TotalMatches)
				require.Len(t, body.RedditMatches, 1)
				assert.Equal(t, "reddit_1", body.RedditMatches[0].ID)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestTriggerHandler(t *testing.T) {
	done := make(chan struct{})
	svc := &mockService{}
	svc.On("RunCollection").Run(func(mock.Arguments) { close(done) }).Return(nil)

	rec := serve(svc, http.MethodPost, "/trigger")
	assert.Equal(t, http.StatusAccepted, rec.Code)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("collection was not triggered")
	}

	rec = serve(svc, http.MethodGet, "/trigger")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
