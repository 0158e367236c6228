package main

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/socialpulse/pulse-analytics/internal/analytics"
	"github.com/socialpulse/pulse-analytics/internal/config"
	"github.com/socialpulse/pulse-analytics/internal/sources"
)

func main() {
	fmt.Println("Social Pulse Analytics - Collector Connectivity Check")
	fmt.Println("=====================================================")

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	fmt.Printf("\nChecking collectors (window: %v)...\n", cfg.Lookback())
	fmt.Println(strings.Repeat("-", 40))

	for _, source := range analytics.DefaultSources(cfg) {
		checkSource(ctx, source, cfg.Lookback())
	}

	fmt.Println("\nConnectivity check completed!")
	fmt.Println("\nNext steps:")
	fmt.Println("   - Configure missing credentials in .env file")
	fmt.Println("   - Run the service with: go run ./cmd/pulse")
}

func checkSource(ctx context.Context, source sources.Source, window time.Duration) {
	fmt.Printf("- Checking %s... ", source.GetName())

	if !source.IsEnabled() {
		fmt.Println("DISABLED (not configured)")
		return
	}

	items, err := source.FetchItems(ctx, window)
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		return
	}

	fmt.Printf("OK (%d items found)\n", len(items))
	if len(items) > 0 {
		fmt.Printf("   Sample: %q\n", items[0].Title)
	}
}
