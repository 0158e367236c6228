package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/socialpulse/pulse-analytics/internal/analytics"
	"github.com/socialpulse/pulse-analytics/internal/models"
	"github.com/socialpulse/pulse-analytics/internal/storage"
)

// dashboardService is the part of analytics.Service the HTTP surface uses
type dashboardService interface {
	GetMetrics() string
	LatestDashboard() *analytics.Dashboard
	Report(name string) ([]byte, error)
	Items(ctx context.Context, platform models.Platform, window time.Duration) ([]models.ContentItem, error)
	Search(ctx context.Context, query string, window time.Duration, limit int) (*analytics.SearchResult, error)
	RunCollection() error
}

func newRouter(svc dashboardService) *mux.Router {
	router := mux.NewRouter()

	// Health check endpoint
	router.HandleFunc("/health", healthCheckHandler).Methods("GET")

	// Metrics endpoint
	router.HandleFunc("/metrics", metricsHandler(svc)).Methods("GET")

	// Manual trigger endpoint
	router.HandleFunc("/trigger", triggerHandler(svc)).Methods("POST")

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/dashboard", dashboardHandler(svc)).Methods("GET")
	api.HandleFunc("/reports/{name}", reportHandler(svc)).Methods("GET")
	api.HandleFunc("/items", itemsHandler(svc)).Methods("GET")
	api.HandleFunc("/search", searchHandler(svc)).Methods("GET")

	return router
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorf("Failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

const defaultSearchLimit = 50

// positiveParam reads an optional positive integer query parameter, def when absent
func positiveParam(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return v, nil
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func metricsHandler(svc dashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(svc.GetMetrics()))
	}
}

func triggerHandler(svc dashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		go func() {
			if err := svc.RunCollection(); err != nil {
				logrus.Errorf("Manual collection trigger failed: %v", err)
			}
		}()

		writeJSON(w, http.StatusAccepted, map[string]string{"message": "Collection triggered successfully"})
	}
}

func dashboardHandler(svc dashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d := svc.LatestDashboard()
		if d == nil {
			writeError(w, http.StatusServiceUnavailable, "no collection run has completed yet")
			return
		}
		writeJSON(w, http.StatusOK, d)
	}
}

func reportHandler(svc dashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := mux.Vars(r)["name"]

		data, err := svc.Report(name)
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "report not found")
			return
		}
		if err != nil {
			logrus.Errorf("Failed to load report %s: %v", name, err)
			writeError(w, http.StatusInternalServerError, "failed to load report")
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write(data)
	}
}

func itemsHandler(svc dashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		platform := models.Platform(r.URL.Query().Get("platform"))
		switch platform {
		case "", models.PlatformReddit, models.PlatformNews:
		default:
			writeError(w, http.StatusBadRequest, "platform must be reddit or news")
			return
		}

		hours, err := positiveParam(r, "hours", 0)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		items, err := svc.Items(r.Context(), platform, time.Duration(hours)*time.Hour)
		if err != nil {
			logrus.Errorf("Failed to list items: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to list items")
			return
		}
		if items == nil {
			items = []models.ContentItem{}
		}
		writeJSON(w, http.StatusOK, items)
	}
}

func searchHandler(svc dashboardService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		if strings.TrimSpace(query) == "" {
			writeError(w, http.StatusBadRequest, "q is required")
			return
		}

		hours, err := positiveParam(r, "hours", 0)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		limit, err := positiveParam(r, "limit", defaultSearchLimit)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		result, err := svc.Search(r.Context(), query, time.Duration(hours)*time.Hour, limit)
		if errors.Is(err, analytics.ErrEmptyQuery) {
			writeError(w, http.StatusBadRequest, "q is required")
			return
		}
		if err != nil {
			logrus.Errorf("Failed to search items for %q: %v", query, err)
			writeError(w, http.StatusInternalServerError, "failed to search items")
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}
