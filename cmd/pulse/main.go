package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/socialpulse/pulse-analytics/internal/analytics"
	"github.com/socialpulse/pulse-analytics/internal/config"
	"github.com/socialpulse/pulse-analytics/internal/lexicon"
	"github.com/socialpulse/pulse-analytics/internal/notifications"
	"github.com/socialpulse/pulse-analytics/internal/scheduler"
	"github.com/socialpulse/pulse-analytics/internal/storage"
)

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logrus.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})

	logrus.Info("Starting Social Pulse Analytics")

	lex := lexicon.Default()
	if cfg.LexiconFile != "" {
		lex, err = lexicon.LoadFile(cfg.LexiconFile)
		if err != nil {
			logrus.Fatalf("Failed to load lexicons: %v", err)
		}
		logrus.Infof("Loaded lexicons from %s", cfg.LexiconFile)
	}

	archive, err := openArchive(cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize storage: %v", err)
	}

	itemStore, err := storage.OpenSQLite(cfg.DatabasePath)
	if err != nil {
		logrus.Fatalf("Failed to open database: %v", err)
	}
	defer itemStore.Close()

	notificationService := notifications.NewService(cfg)
	if !notificationService.Enabled() {
		logrus.Info("No notification channel configured, digests will only be archived")
	}

	analyticsService := analytics.NewService(cfg, archive, itemStore, notificationService, lex)

	schedulerService := scheduler.NewService(cfg, analyticsService)
	if err := schedulerService.Start(); err != nil {
		logrus.Fatalf("Failed to start scheduler: %v", err)
	}
	defer schedulerService.Stop()

	// Populate the dashboard without waiting for the first tick
	go func() {
		if err := analyticsService.RunCollection(); err != nil {
			logrus.Errorf("Initial collection run failed: %v", err)
		}
	}()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      newRouter(analyticsService),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logrus.Infof("HTTP server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}

// openArchive uses Azure Blob Storage when an account is configured and a
// local directory otherwise
func openArchive(cfg *config.Config) (storage.StorageInterface, error) {
	if cfg.StorageAccount != "" {
		return storage.NewAzureStorage(cfg.StorageAccount, cfg.StorageContainer)
	}
	logrus.Infof("AZURE_STORAGE_ACCOUNT not set, archiving to %s", cfg.SnapshotDir)
	return storage.NewLocalStorage(cfg.SnapshotDir)
}
